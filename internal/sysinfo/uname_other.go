//go:build !(linux || darwin || freebsd || netbsd || openbsd)

package sysinfo

import (
	"errors"

	"detect/internal/probe"
)

// IdentifyOS is not supported on platforms without uname(2).
func IdentifyOS() (OSInfo, error) {
	return OSInfo{}, probe.Fail("os", probe.SyscallFailed, errors.New("uname is not available on this platform"))
}
