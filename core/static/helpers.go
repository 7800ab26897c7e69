package static

import (
	"fmt"
	"io/fs"
	"net/http"
	"os"
	"path/filepath"
	"strings"
)

// insideRoot reports whether the cleaned file path stays below the site
// root. Output files never live outside it.
func insideRoot(root, file string) bool {
	file = filepath.Clean(file)
	root = filepath.Clean(root)
	return file == root || strings.HasPrefix(file, root+string(filepath.Separator))
}

// checkSiteRoot fails with ErrNoSite unless root is a directory, which is
// what a finished build leaves behind.
func checkSiteRoot(root string) error {
	info, err := os.Stat(root)
	switch {
	case os.IsNotExist(err):
		return fmt.Errorf("%w: %s", ErrNoSite, root)
	case err != nil:
		return fmt.Errorf("static: stat site root: %w", err)
	case !info.IsDir():
		return fmt.Errorf("%w: not a directory: %s", ErrNoSite, root)
	}
	return nil
}

// assetFS serves the build's asset files. Directories are pages, and pages
// go through the route mapping instead, so they are reported missing here.
type assetFS struct {
	fs http.FileSystem
}

func (a assetFS) Open(name string) (http.File, error) {
	f, err := a.fs.Open(name)
	if err != nil {
		return nil, err
	}
	info, err := f.Stat()
	if err != nil {
		_ = f.Close()
		return nil, err
	}
	if info.IsDir() {
		_ = f.Close()
		return nil, fs.ErrNotExist
	}
	return f, nil
}
