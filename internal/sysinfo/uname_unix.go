//go:build linux || darwin || freebsd || netbsd || openbsd

package sysinfo

import (
	"golang.org/x/sys/unix"

	"detect/internal/probe"
)

// IdentifyOS reads OS family, kernel release and machine architecture
// from a single uname(2) call.
func IdentifyOS() (OSInfo, error) {
	var uts unix.Utsname
	if err := unix.Uname(&uts); err != nil {
		return OSInfo{}, probe.Fail("os", probe.SyscallFailed, err)
	}

	return OSInfo{
		OS:     unix.ByteSliceToString(uts.Sysname[:]),
		Kernel: unix.ByteSliceToString(uts.Release[:]),
		Arch:   unix.ByteSliceToString(uts.Machine[:]),
	}, nil
}
