//go:build windows

package host

import (
	"errors"
	"unsafe"

	"golang.org/x/sys/windows"
)

// processRunning walks a toolhelp process snapshot looking for name.
func processRunning(name string) (bool, error) {
	snap, err := windows.CreateToolhelp32Snapshot(windows.TH32CS_SNAPPROCESS, 0)
	if err != nil {
		return false, err
	}
	defer windows.CloseHandle(snap)

	var entry windows.ProcessEntry32
	entry.Size = uint32(unsafe.Sizeof(entry))
	for err = windows.Process32First(snap, &entry); err == nil; err = windows.Process32Next(snap, &entry) {
		if sameProcessName(windows.UTF16ToString(entry.ExeFile[:]), name) {
			return true, nil
		}
	}
	if errors.Is(err, windows.ERROR_NO_MORE_FILES) {
		return false, nil
	}
	return false, err
}
