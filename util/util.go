package util

import (
	"fmt"
	"os"
	"os/user"
	"path"
	"path/filepath"
	"runtime"
	"strings"
)

// StringListContains returns true if the list of strings contains item.
func StringListContains(list []string, item string) bool {
	if list != nil {
		for i := range list {
			if list[i] == item {
				return true
			}
		}
	}
	return false
}

// UniqueStrings returns the items in list with duplicates removed,
// in order of first appearance.
func UniqueStrings(list []string) []string {
	seen := make(map[string]bool, len(list))
	unique := make([]string, 0, len(list))
	for _, item := range list {
		if !seen[item] {
			seen[item] = true
			unique = append(unique, item)
		}
	}
	return unique
}

// ProjectRoot returns the project root.
func ProjectRoot() string {
	_, thisFile, _, _ := runtime.Caller(0)
	absPath, _ := filepath.Abs(path.Join(thisFile, "..", ".."))
	return absPath
}

// FileExists returns true if the file at path exists.
func FileExists(path string) bool {
	_, err := os.Stat(path)
	return err == nil
}

// ExpandTilde expands a leading tilde in filePath to the user's
// home directory. Paths without a tilde come back unchanged.
func ExpandTilde(filePath string) (string, error) {
	if !strings.HasPrefix(filePath, "~") {
		return filePath, nil
	}
	usr, err := user.Current()
	if err != nil {
		return "", err
	}
	return filepath.Join(usr.HomeDir, strings.TrimPrefix(filePath, "~")), nil
}

// LooksSafeToDelete returns true if filePath is absolute, at least
// minLength characters long, and at least minSeparators levels deep.
// This keeps us from removing things like "/" or "/usr".
func LooksSafeToDelete(filePath string, minLength, minSeparators int) bool {
	if !filepath.IsAbs(filePath) || len(filePath) < minLength {
		return false
	}
	return strings.Count(filepath.Clean(filePath), string(os.PathSeparator)) >= minSeparators
}

// EnsureDir creates dir and any missing parents.
func EnsureDir(dir string) error {
	if dir == "" {
		return fmt.Errorf("Directory name cannot be empty")
	}
	return os.MkdirAll(dir, 0755)
}
