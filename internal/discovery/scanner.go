package discovery

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
)

// Scanner scans a project tree for folders holding a reference image
type Scanner struct {
	referenceFile string
	skipDirs      map[string]bool
}

// NewScanner creates a new Scanner looking for referenceFile and skipping the given directories
func NewScanner(referenceFile string, skipDirs []string) *Scanner {
	skipMap := make(map[string]bool)
	for _, dir := range skipDirs {
		skipMap[dir] = true
	}
	return &Scanner{referenceFile: referenceFile, skipDirs: skipMap}
}

// Scan returns every directory under root that contains the reference image, sorted
func (s *Scanner) Scan(root string) ([]string, error) {
	var folders []string

	// Clean and validate the root path
	root = filepath.Clean(root)
	info, err := os.Stat(root)
	if err != nil {
		return nil, fmt.Errorf("scan path does not exist: %s", root)
	}
	if !info.IsDir() {
		return nil, fmt.Errorf("scan path is not a directory: %s", root)
	}

	err = filepath.WalkDir(root, func(path string, d os.DirEntry, err error) error {
		if err != nil {
			return err
		}

		if d.IsDir() {
			name := d.Name()
			// Skip hidden directories (starting with .)
			if path != root && strings.HasPrefix(name, ".") {
				return filepath.SkipDir
			}

			if s.skipDirs[name] {
				return filepath.SkipDir
			}

			return nil
		}

		if d.Name() == s.referenceFile {
			folders = append(folders, filepath.Dir(path))
		}

		return nil
	})

	sort.Strings(folders)
	return folders, err
}
