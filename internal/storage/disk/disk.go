// Package disk reports capacity and free space for the volume that holds
// recorded media. The retention workflow only consumes these numbers; it
// never statfs's anything itself.
package disk

import (
	"fmt"

	"golang.org/x/sys/unix"
)

type Volume struct {
	path string
}

func New(path string) *Volume {
	return &Volume{path: path}
}

func (v *Volume) CapacityBytes() (int64, error) {
	const op = "storage.disk.CapacityBytes"

	var stat unix.Statfs_t
	if err := unix.Statfs(v.path, &stat); err != nil {
		return 0, fmt.Errorf("%s: %w", op, err)
	}

	return int64(stat.Blocks) * int64(stat.Bsize), nil
}

func (v *Volume) FreeBytes() (int64, error) {
	const op = "storage.disk.FreeBytes"

	var stat unix.Statfs_t
	if err := unix.Statfs(v.path, &stat); err != nil {
		return 0, fmt.Errorf("%s: %w", op, err)
	}

	return int64(stat.Bavail) * int64(stat.Bsize), nil
}
