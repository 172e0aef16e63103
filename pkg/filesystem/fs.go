package filesystem

import (
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
)

// FS is the subset of filesystem operations the cleaner performs
type FS interface {
	Stat(name string) (fs.FileInfo, error)
	ReadFile(name string) ([]byte, error)
	WriteFile(name string, data []byte, perm fs.FileMode) error
	Rename(oldpath, newpath string) error
	Remove(name string) error
}

// DefaultFileMode is used when the target of a write does not exist yet
const DefaultFileMode fs.FileMode = 0644

// CopyFile copies src to dst byte for byte, keeping the source file mode
func CopyFile(fsys FS, src, dst string) error {
	info, err := fsys.Stat(src)
	if err != nil {
		return err
	}
	data, err := fsys.ReadFile(src)
	if err != nil {
		return err
	}
	return fsys.WriteFile(dst, data, info.Mode().Perm())
}

// WriteFileAtomic replaces name with data. The data is written to a sibling
// temp file first and then renamed over name, so readers see either the old
// or the new content. An existing file keeps its mode.
func WriteFileAtomic(fsys FS, name string, data []byte) error {
	perm := DefaultFileMode
	if info, err := fsys.Stat(name); err == nil {
		perm = info.Mode().Perm()
	}

	tmp := filepath.Join(filepath.Dir(name), fmt.Sprintf(".%s.%d.tmp", filepath.Base(name), os.Getpid()))
	if err := fsys.WriteFile(tmp, data, perm); err != nil {
		return err
	}
	if err := fsys.Rename(tmp, name); err != nil {
		_ = fsys.Remove(tmp)
		return err
	}
	return nil
}
