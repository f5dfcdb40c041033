//go:build linux

package host

import (
	"os"
	"path/filepath"
	"strings"
)

// processRunning scans /proc for a process whose command name or
// executable base name matches name.
func processRunning(name string) (bool, error) {
	entries, err := os.ReadDir("/proc")
	if err != nil {
		return false, err
	}
	for _, e := range entries {
		if !e.IsDir() || !isPID(e.Name()) {
			continue
		}
		dir := filepath.Join("/proc", e.Name())
		if comm, err := os.ReadFile(filepath.Join(dir, "comm")); err == nil {
			if sameProcessName(strings.TrimSpace(string(comm)), name) {
				return true, nil
			}
		}
		if cmdline, err := os.ReadFile(filepath.Join(dir, "cmdline")); err == nil && len(cmdline) > 0 {
			argv0 := strings.SplitN(string(cmdline), "\x00", 2)[0]
			if sameProcessName(filepath.Base(argv0), name) {
				return true, nil
			}
		}
	}
	return false, nil
}

func isPID(s string) bool {
	for _, r := range s {
		if r < '0' || r > '9' {
			return false
		}
	}
	return s != ""
}
