//go:build !unix && !windows

package fileid

import "errors"

func stat(string) (uint64, uint64, error) {
	return 0, 0, errors.New("file identity is not supported on this platform")
}
