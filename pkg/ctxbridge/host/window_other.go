//go:build !windows

package host

func foregroundWindow() (Window, error) {
	return Window{}, ErrUnavailable
}

func sendChord(Chord) error {
	return ErrUnavailable
}
