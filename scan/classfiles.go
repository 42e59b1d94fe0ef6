package scan

import (
	"fmt"
	"os"
	"strings"
)

// walkState says which strategy currently owns the enumeration. Control
// moves from the filesystem walker into an archive when a root-level ".jar"
// file turns up, and back once the archive is exhausted.
type walkState uint8

const (
	walkingFiles walkState = iota
	readingArchive
)

// ClassFiles enumerates every class file reachable from an ordered list of
// root files and directories: loose ".class" files depth first, plus the
// entries of any root-level jar. Jar files discovered inside directories or
// nested in other archives are ignored.
type ClassFiles struct {
	files    *fileWalker
	archive  *zipWalker
	state    walkState
	prefixes []string
}

// NewClassFiles creates an enumerator over the given roots, in order.
func NewClassFiles(roots ...string) *ClassFiles {
	return &ClassFiles{files: newFileWalker(roots...), state: walkingFiles}
}

// restrictPackages limits results to class files under the given native
// form package prefixes (each ending in "/"). It must be set before the
// first Next call.
func (c *ClassFiles) restrictPackages(prefixes []string) {
	c.prefixes = prefixes
}

func (c *ClassFiles) Next(filter Filter) (*Payload, error) {
	for {
		switch c.state {
		case walkingFiles:
			path, err := c.files.next()
			if err != nil {
				return nil, err
			}
			if path == "" {
				return nil, nil
			}
			switch {
			case strings.HasSuffix(path, ".class"):
				name := c.files.relativize(path)
				if !c.matchesPrefix(name) {
					continue
				}
				if filter != nil && !filter(c.files.rootDir(), name) {
					continue
				}
				f, err := os.Open(path)
				if err != nil {
					return nil, fmt.Errorf("open %s: %w", path, err)
				}
				return &Payload{Name: path, FileBacked: true, Reader: f, closer: f}, nil
			case c.files.isRootFile() && hasJarSuffix(path):
				z, err := openZipWalker(path, c.prefixes)
				if err != nil {
					return nil, err
				}
				c.archive = z
				c.state = readingArchive
			}
			// anything else is silently skipped
		case readingArchive:
			p, err := c.archive.next(filter)
			if err != nil {
				return nil, err
			}
			if p == nil {
				c.archive = nil
				c.state = walkingFiles
				continue
			}
			return p, nil
		}
	}
}

// Close releases an archive left open by an interrupted enumeration.
func (c *ClassFiles) Close() error {
	if c.archive == nil {
		return nil
	}
	z := c.archive
	c.archive = nil
	c.state = walkingFiles
	return z.close()
}

func (c *ClassFiles) matchesPrefix(name string) bool {
	if len(c.prefixes) == 0 {
		return true
	}
	for _, p := range c.prefixes {
		if strings.HasPrefix(name, p) {
			return true
		}
	}
	return false
}

func hasJarSuffix(path string) bool {
	return len(path) >= 4 && strings.EqualFold(path[len(path)-4:], ".jar")
}
