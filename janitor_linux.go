//go:build linux

package main

import (
	"os"
	"syscall"
	"time"
)

// File age is measured from the inode change time, not mtime: the
// extraction provider preserves upstream modification times, which would
// make a fresh download look hours old. Overridable in tests.
var fileBirthTime = func(info os.FileInfo) time.Time {
	if st, ok := info.Sys().(*syscall.Stat_t); ok {
		return time.Unix(int64(st.Ctim.Sec), int64(st.Ctim.Nsec))
	}
	return info.ModTime()
}
