//go:build !linux && !windows

package host

func processRunning(string) (bool, error) {
	return false, ErrUnavailable
}
