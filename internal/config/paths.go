package config

import (
	"os"
	"path/filepath"
	"strings"
)

// PathState describes whether a configured path is usable.
type PathState string

const (
	PathOK      PathState = "ok"
	PathMissing PathState = "missing"
	PathNotDir  PathState = "not_a_directory"
)

// PathStatus is the inspection result for one configured directory.
type PathStatus struct {
	Name  string    `json:"name"`
	Path  string    `json:"path"`
	State PathState `json:"state"`
	Files int       `json:"files,omitempty"` // matching files, when the directory exists
}

// CheckDataPaths inspects the directories the configuration points at and
// reports whether they exist and how many relevant files they hold, so a
// misconfigured data directory shows up in `config show` instead of as a
// load error on the first estimate.
func CheckDataPaths(cfg *Config) []PathStatus {
	return []PathStatus{
		checkDir("Price data directory", cfg.Data.Dir, ".csv"),
		checkDir("Report output directory", cfg.Report.OutputDir, ""),
	}
}

// checkDir stats a directory and, when ext is non-empty, counts the files
// carrying that extension.
func checkDir(name, dir, ext string) PathStatus {
	status := PathStatus{
		Name: name,
		Path: dir,
	}

	info, err := os.Stat(dir)
	switch {
	case err != nil:
		status.State = PathMissing
		return status
	case !info.IsDir():
		status.State = PathNotDir
		return status
	}

	status.State = PathOK
	if ext != "" {
		status.Files = countFiles(dir, ext)
	}
	return status
}

// countFiles counts regular files under dir (non-recursive) whose name ends
// with ext, case-insensitively.
func countFiles(dir, ext string) int {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return 0
	}
	n := 0
	for _, e := range entries {
		if e.IsDir() {
			continue
		}
		if strings.EqualFold(filepath.Ext(e.Name()), ext) {
			n++
		}
	}
	return n
}
