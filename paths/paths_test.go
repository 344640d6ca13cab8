package paths

import (
	"io/fs"
	"io/ioutil"
	"os"
	"path/filepath"
	"testing"

	"badc0de.net/pkg/go-tiled/ttesting"
)

func TestFindInSearchDir(t *testing.T) {
	dir := t.TempDir()
	if err := os.WriteFile(filepath.Join(dir, "only-here.tsx"), []byte("<tileset/>"), 0644); err != nil {
		t.Fatalf("failed to write fixture: %v", err)
	}
	AddSearchDir(dir)

	got := Find("only-here.tsx")
	ttesting.AssertEqualString(t, "found in added dir", got, filepath.Join(dir, "only-here.tsx"))
	ttesting.AssertEqualString(t, "missing file", Find("no-such-file.tsx"), "")
}

func TestOpenFallsBackToEmbedded(t *testing.T) {
	if Find("Overworld.tsx") != "" {
		t.Skip("Overworld.tsx is present on disk; cannot exercise embedded fallback")
	}
	f, err := Open("Overworld.tsx")
	if err != nil {
		t.Fatalf("failed to open embedded file: %v", err)
	}
	defer f.Close()

	b, err := ioutil.ReadAll(f)
	if err != nil {
		t.Fatalf("failed to read embedded file: %v", err)
	}
	if len(b) == 0 {
		t.Errorf("embedded file is empty")
	}
	if _, err := f.Seek(0, 0); err != nil {
		t.Errorf("embedded file is not seekable: %v", err)
	}
}

func TestOpenMissing(t *testing.T) {
	if _, err := Open("definitely-missing.png"); err == nil {
		t.Errorf("got nil error for missing file")
	}
}

func TestFS(t *testing.T) {
	if _, err := fs.Stat(FS(), "Overworld.tsx"); err != nil {
		t.Errorf("stat through FS failed: %v", err)
	}
	if _, err := fs.Stat(FS(), "missing.png"); err == nil {
		t.Errorf("stat of missing file through FS succeeded")
	}
}
