package scan

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// fileWalker iterates depth first over an explicit ordered list of root
// files and directories. It maintains its own stack instead of recursing,
// so arbitrarily deep trees cannot overflow the call stack. Directory
// children are pushed in reverse so they pop in their listed order.
type fileWalker struct {
	stack []string
	// rootCount tracks the stack depth that still holds unvisited roots:
	// a popped entry is root level exactly when the stack has shrunk below
	// it. Archive detection keys off this.
	rootCount   int
	currentRoot string
	current     string
}

func newFileWalker(roots ...string) *fileWalker {
	w := &fileWalker{}
	w.pushReverse(roots)
	w.rootCount = len(w.stack)
	return w
}

// next returns the next regular file, expanding directories as it goes.
// It returns "" when the walk is exhausted.
func (w *fileWalker) next() (string, error) {
	for len(w.stack) > 0 {
		top := w.stack[len(w.stack)-1]
		w.stack = w.stack[:len(w.stack)-1]
		w.current = top

		info, err := os.Stat(top)
		if err != nil {
			return "", fmt.Errorf("stat %s: %w", top, err)
		}
		if !info.IsDir() {
			return top, nil
		}

		if len(w.stack) < w.rootCount {
			w.rootCount = len(w.stack)
			w.currentRoot = top
		}
		entries, err := os.ReadDir(top)
		if err != nil {
			return "", fmt.Errorf("read directory %s: %w", top, err)
		}
		children := make([]string, len(entries))
		for i, e := range entries {
			children[i] = filepath.Join(top, e.Name())
		}
		w.pushReverse(children)
	}
	w.current = ""
	return "", nil
}

// isRootFile reports whether the file returned by the last next call was
// one of the original roots rather than something discovered inside a
// directory.
func (w *fileWalker) isRootFile() bool {
	return len(w.stack) < w.rootCount
}

// rootDir returns the directory root the current file was discovered under,
// or the file's own directory for root-level files.
func (w *fileWalker) rootDir() string {
	if w.currentRoot != "" {
		return w.currentRoot
	}
	return filepath.Dir(w.current)
}

// relativize strips the current root from path and normalizes separators,
// so "/path/to/dir/with/File.class" under root "/path/to/dir" becomes
// "with/File.class".
func (w *fileWalker) relativize(path string) string {
	root := w.currentRoot
	if root != "" && strings.HasPrefix(path, root+string(os.PathSeparator)) {
		return filepath.ToSlash(path[len(root)+1:])
	}
	return filepath.ToSlash(filepath.Base(path))
}

func (w *fileWalker) pushReverse(paths []string) {
	for i := len(paths) - 1; i >= 0; i-- {
		w.stack = append(w.stack, paths[i])
	}
}
