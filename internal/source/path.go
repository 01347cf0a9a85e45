package source

import (
	"os"
	"path/filepath"
)

// PathMode selects how a file path is displayed.
type PathMode uint8

const (
	// PathAuto shows short or relative paths as is and the base name otherwise.
	PathAuto PathMode = iota
	PathAbsolute
	PathRelative
	PathBasename
)

// FormatPath renders the path of f. baseDir is used by PathRelative; the
// working directory is used when it is empty.
func (f *File) FormatPath(mode PathMode, baseDir string) string {
	switch mode {
	case PathAbsolute:
		if abs, err := filepath.Abs(f.Path); err == nil {
			return filepath.ToSlash(abs)
		}
	case PathRelative:
		if baseDir == "" {
			if wd, err := os.Getwd(); err == nil {
				baseDir = wd
			}
		}
		abs, err := filepath.Abs(f.Path)
		if err != nil {
			return f.Path
		}
		if rel, err := filepath.Rel(baseDir, abs); err == nil {
			return filepath.ToSlash(rel)
		}
	case PathBasename:
		return filepath.Base(f.Path)
	case PathAuto:
		if len(f.Path) >= 40 && filepath.IsAbs(f.Path) {
			return filepath.Base(f.Path)
		}
	}
	return f.Path
}
