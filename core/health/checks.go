package health

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
)

// FileExists checks that a regular file is present, such as the index page
// of a built site.
func FileExists(path string) Check {
	return func(context.Context) error {
		info, err := os.Stat(path)
		if err != nil {
			return fmt.Errorf("health: %w", err)
		}
		if info.IsDir() {
			return fmt.Errorf("health: %s is a directory", filepath.Base(path))
		}
		return nil
	}
}
