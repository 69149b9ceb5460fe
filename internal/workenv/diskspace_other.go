//go:build !linux && !darwin && !freebsd && !windows

package workenv

import "errors"

func getAvailableDiskSpace(path string) (int64, error) {
	return 0, errors.New("disk space check not supported on this platform")
}
