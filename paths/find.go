// Package paths locates data files: tilesets, maps and the images they
// reference.
//
// A file name is looked up in the explicitly added search directories, the
// directory named by $TILED_DATA_DIR, the working directory and a datafiles
// directory next to the running binary, in that order. If none of them has
// the file, the copy embedded in the datafiles package is used, if any.
package paths

import (
	"io"
	"io/fs"
	"os"
	"sync"

	"github.com/golang/glog"
	"github.com/pkg/errors"
)

// File is an opened data file.
type File interface {
	io.ReadCloser
	io.Seeker
	Stat() (fs.FileInfo, error)
}

var (
	searchDirs     []string
	searchDirsLock sync.Mutex
)

// AddSearchDir adds a directory to be searched before the default locations.
// Directories added earlier are searched first.
func AddSearchDir(dir string) {
	searchDirsLock.Lock()
	defer searchDirsLock.Unlock()
	searchDirs = append(searchDirs, dir)
}

// Find locates the passed data file name and returns an absolute or relative
// path to find the file at on the local filesystem.
//
// For example, for "Overworld.tsx" it may return
// "/usr/share/game/datafiles/Overworld.tsx".
//
// Files that are only available embedded yield an empty string.
func Find(fileName string) string {
	for _, path := range getPossiblePathsImp(fileName) {
		if f, err := os.Open(path); err == nil {
			f.Close()
			glog.V(2).Infof("paths.Find(%q)=%s", fileName, path)
			return path
		}
	}
	return ""
}

// Open locates the passed file in the same locations that Find would look,
// falling back to the embedded data files, and opens it.
func Open(fileName string) (File, error) {
	if path := Find(fileName); path != "" {
		return NoFindOpen(path)
	}
	f, err := openEmbeddedImp(fileName)
	if err != nil {
		return nil, errors.Wrapf(err, "go-tiled/paths/Open(%q)", fileName)
	}
	glog.V(2).Infof("paths.Open(%q): using embedded copy", fileName)
	return f, nil
}

// NoFindOpen opens exactly the passed path, without searching.
func NoFindOpen(fileName string) (File, error) {
	f, err := os.Open(fileName)
	if err != nil {
		return nil, errors.Wrapf(err, "go-tiled/paths/NoFindOpen(%q)", fileName)
	}
	return f, nil
}

// FS returns a file system resolving names the same way Open does.
func FS() fs.FS {
	return searchFS{}
}

type searchFS struct{}

func (searchFS) Open(name string) (fs.File, error) {
	if !fs.ValidPath(name) {
		return nil, &fs.PathError{Op: "open", Path: name, Err: fs.ErrInvalid}
	}
	f, err := Open(name)
	if err != nil {
		return nil, &fs.PathError{Op: "open", Path: name, Err: fs.ErrNotExist}
	}
	return f, nil
}
