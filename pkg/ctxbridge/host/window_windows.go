//go:build windows

package host

import (
	"fmt"
	"path/filepath"
	"time"
	"unsafe"

	"golang.org/x/sys/windows"
)

var (
	user32             = windows.NewLazySystemDLL("user32.dll")
	procGetWindowTextW = user32.NewProc("GetWindowTextW")
	procKeybdEvent     = user32.NewProc("keybd_event")
)

const (
	vkControl     = 0x11
	keyEventKeyUp = 0x0002
	chordSettle   = 50 * time.Millisecond
)

func foregroundWindow() (Window, error) {
	hwnd := windows.GetForegroundWindow()
	if hwnd == 0 {
		return Window{}, ErrUnavailable
	}
	buf := make([]uint16, 512)
	n, _, _ := procGetWindowTextW.Call(uintptr(hwnd), uintptr(unsafe.Pointer(&buf[0])), uintptr(len(buf)))
	w := Window{Title: windows.UTF16ToString(buf[:n]), Handle: uintptr(hwnd)}

	var pid uint32
	if _, err := windows.GetWindowThreadProcessId(hwnd, &pid); err == nil && pid != 0 {
		if h, err := windows.OpenProcess(windows.PROCESS_QUERY_LIMITED_INFORMATION, false, pid); err == nil {
			name := make([]uint16, windows.MAX_PATH)
			size := uint32(len(name))
			if err := windows.QueryFullProcessImageName(h, 0, &name[0], &size); err == nil {
				w.Process = filepath.Base(windows.UTF16ToString(name[:size]))
			}
			windows.CloseHandle(h)
		}
	}
	return w, nil
}

func sendChord(chord Chord) error {
	var key uintptr
	switch chord {
	case ChordSelectAll:
		key = 'A'
	case ChordCopy:
		key = 'C'
	default:
		return fmt.Errorf("unsupported chord %q: %w", chord, ErrUnavailable)
	}
	procKeybdEvent.Call(vkControl, 0, 0, 0)
	procKeybdEvent.Call(key, 0, 0, 0)
	procKeybdEvent.Call(key, 0, keyEventKeyUp, 0)
	procKeybdEvent.Call(vkControl, 0, keyEventKeyUp, 0)
	// give the target application time to service the chord
	time.Sleep(chordSettle)
	return nil
}
