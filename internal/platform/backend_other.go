//go:build !linux

package platform

import (
	"fmt"
	"runtime"
)

// Open reports that no native backend exists for this platform.
func Open() (Native, error) {
	return nil, fmt.Errorf("no window system backend for %s", runtime.GOOS)
}
