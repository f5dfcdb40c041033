//go:build unix

package fileid

import "golang.org/x/sys/unix"

// stat returns the inode number and the device id.
func stat(path string) (fileID, volumeID uint64, err error) {
	var st unix.Stat_t
	if err = unix.Stat(path, &st); err != nil {
		return 0, 0, err
	}
	return uint64(st.Ino), uint64(st.Dev), nil
}
