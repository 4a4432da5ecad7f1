//go:build !windows

package filter

import (
	"io/fs"
	"syscall"
)

// fileID identifies the underlying data of a file. Hardlinked paths share one.
type fileID struct {
	dev uint64
	ino uint64
}

// identify returns the file identity and its hardlink count
func identify(info fs.FileInfo) (fileID, uint32, bool) {
	stat, ok := info.Sys().(*syscall.Stat_t)
	if !ok {
		return fileID{}, 1, false
	}
	return fileID{dev: uint64(stat.Dev), ino: uint64(stat.Ino)}, uint32(stat.Nlink), true
}
