//go:build !linux

package main

import (
	"os"
	"time"
)

// Creation time is not portably available outside Linux; fall back to
// the modification time.
var fileBirthTime = func(info os.FileInfo) time.Time {
	return info.ModTime()
}
