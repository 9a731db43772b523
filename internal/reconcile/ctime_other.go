//go:build !linux

package reconcile

import (
	"io/fs"
	"time"
)

func createdAt(info fs.FileInfo) time.Time {
	return info.ModTime()
}
