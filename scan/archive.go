package scan

import (
	"archive/zip"
	"fmt"
	"io"
	"strings"
)

// zipWalker iterates entry by entry over one jar or zip archive. Directory
// entries, entries without the ".class" suffix and entries outside the
// optional package prefixes are skipped internally and never surfaced. The
// archive handle is closed exactly once, when the entries are exhausted or
// the walk is abandoned.
type zipWalker struct {
	path     string
	rc       *zip.ReadCloser
	pos      int
	prefixes []string
	// openEntry is the reader handed out by the previous next call; it is
	// released before the following entry is opened.
	openEntry io.ReadCloser
	closed    bool
}

// openZipWalker opens the archive at path. prefixes optionally restricts
// which entry names are even offered to the general filter; they must be in
// native form with a trailing "/".
func openZipWalker(path string, prefixes []string) (*zipWalker, error) {
	rc, err := zip.OpenReader(path)
	if err != nil {
		return nil, fmt.Errorf("open archive %s: %w", path, err)
	}
	return &zipWalker{path: path, rc: rc, prefixes: prefixes}, nil
}

// next returns the next matching entry as a payload, or (nil, nil) once the
// archive is exhausted, at which point the archive is closed.
func (z *zipWalker) next(filter Filter) (*Payload, error) {
	if z.openEntry != nil {
		z.openEntry.Close()
		z.openEntry = nil
	}
	for z.pos < len(z.rc.File) {
		entry := z.rc.File[z.pos]
		z.pos++
		if !z.accept(entry, filter) {
			continue
		}
		r, err := entry.Open()
		if err != nil {
			z.close()
			return nil, fmt.Errorf("open entry %s in %s: %w", entry.Name, z.path, err)
		}
		z.openEntry = r
		return &Payload{Name: entry.Name, FileBacked: false, Reader: r}, nil
	}
	if err := z.close(); err != nil {
		return nil, err
	}
	return nil, nil
}

func (z *zipWalker) accept(entry *zip.File, filter Filter) bool {
	if entry.FileInfo().IsDir() {
		return false
	}
	name := entry.Name
	if !strings.HasSuffix(name, ".class") {
		return false
	}
	if len(z.prefixes) > 0 {
		matched := false
		for _, p := range z.prefixes {
			if strings.HasPrefix(name, p) {
				matched = true
				break
			}
		}
		if !matched {
			return false
		}
	}
	return filter == nil || filter(z.path, name)
}

func (z *zipWalker) close() error {
	if z.closed {
		return nil
	}
	z.closed = true
	if z.openEntry != nil {
		z.openEntry.Close()
		z.openEntry = nil
	}
	return z.rc.Close()
}
