package paths

import (
	"io/fs"
	"os"
	"path/filepath"

	"badc0de.net/pkg/go-tiled/datafiles"
)

// DataDirEnv names the environment variable pointing at an extra data
// directory.
const DataDirEnv = "TILED_DATA_DIR"

func getPossiblePathDirsImp() []string {
	searchDirsLock.Lock()
	dirs := append([]string{}, searchDirs...)
	searchDirsLock.Unlock()

	if d := os.Getenv(DataDirEnv); d != "" {
		dirs = append(dirs, d)
	}
	dirs = append(dirs, ".")
	if exe, err := os.Executable(); err == nil {
		dirs = append(dirs, filepath.Join(filepath.Dir(exe), "datafiles"))
	}
	return dirs
}

// getPossiblePathsImp returns candidate paths for the passed data file name,
// in search order. Absolute names are only ever looked up as-is.
func getPossiblePathsImp(fileName string) []string {
	if filepath.IsAbs(fileName) {
		return []string{fileName}
	}
	dirs := getPossiblePathDirsImp()
	paths := make([]string, 0, len(dirs))
	for _, dir := range dirs {
		paths = append(paths, filepath.Join(dir, fileName))
	}
	return paths
}

func openEmbeddedImp(fileName string) (File, error) {
	f, err := datafiles.FS.Open(filepath.ToSlash(filepath.Clean(fileName)))
	if err != nil {
		return nil, err
	}
	ff, ok := f.(File)
	if !ok {
		f.Close()
		return nil, &fs.PathError{Op: "open", Path: fileName, Err: fs.ErrInvalid}
	}
	return ff, nil
}
