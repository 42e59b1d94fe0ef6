package scan

import (
	"fmt"
	"io"
	"net/url"
	"path/filepath"
)

// Opener opens a non-file resource locator as a byte stream. It stands in
// for whatever loader protocol produced the locator.
type Opener func(u *url.URL) (io.ReadCloser, error)

// ResourceList enumerates an explicit ordered list of resource locators.
// Locators that resolve to local files or directories are redirected
// through the filesystem and archive strategies; everything else is opened
// directly through the Opener and yielded last, after the file-backed
// locators are exhausted.
//
// Direct streams are trusted to be class files without the ".class" suffix
// check that discovered payloads go through: resource lists are assumed to
// already name class file URLs.
type ResourceList struct {
	classFiles *ClassFiles
	direct     []*url.URL
	pos        int
	open       Opener
}

// NewResourceList partitions the locators into file-backed and direct ones.
// Locators with an empty or "file" scheme count as file-backed.
func NewResourceList(locators []*url.URL, open Opener) *ResourceList {
	var paths []string
	var direct []*url.URL
	for _, u := range locators {
		if u.Scheme == "" || u.Scheme == "file" {
			paths = append(paths, filepath.FromSlash(u.Path))
		} else {
			direct = append(direct, u)
		}
	}
	r := &ResourceList{direct: direct, open: open}
	if len(paths) > 0 {
		r.classFiles = NewClassFiles(paths...)
	}
	return r
}

func (r *ResourceList) restrictPackages(prefixes []string) {
	if r.classFiles != nil {
		r.classFiles.restrictPackages(prefixes)
	}
}

func (r *ResourceList) Next(filter Filter) (*Payload, error) {
	if r.classFiles != nil {
		p, err := r.classFiles.Next(filter)
		if err != nil {
			return nil, err
		}
		if p != nil {
			return p, nil
		}
		r.classFiles = nil
	}
	for r.pos < len(r.direct) {
		u := r.direct[r.pos]
		r.pos++
		if r.open == nil {
			return nil, fmt.Errorf("no opener configured for resource %s", u)
		}
		rc, err := r.open(u)
		if err != nil {
			return nil, fmt.Errorf("open resource %s: %w", u, err)
		}
		// Direct streams are owned by the consumer, like plain files.
		return &Payload{Name: u.String(), FileBacked: true, Reader: rc, closer: rc}, nil
	}
	return nil, nil
}

func (r *ResourceList) Close() error {
	if r.classFiles == nil {
		return nil
	}
	return r.classFiles.Close()
}
