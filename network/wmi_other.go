//go:build !windows

package network

import (
	"fmt"
	"runtime"
)

func WMIAdapters() ([]AdapterInfo, error) {
	return nil, fmt.Errorf("WMI is not available on %s", runtime.GOOS)
}
