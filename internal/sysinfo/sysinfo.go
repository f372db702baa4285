// Package sysinfo collects the machine facts that make up an inventory payload.
package sysinfo

import (
	"context"
	"runtime"

	"github.com/shirou/gopsutil/v3/host"
)

// OSInfo holds the three uname(2) facts. They are produced together or not at all.
type OSInfo struct {
	OS     string
	Kernel string
	Arch   string
}

// Platform returns a human-readable platform description such as
// "arch rolling" for verbose output. It never fails; on error it
// falls back to the Go runtime's GOOS.
func Platform(ctx context.Context) string {
	info, err := host.InfoWithContext(ctx)
	if err != nil || info.Platform == "" {
		return runtime.GOOS
	}

	name := info.Platform
	if info.PlatformVersion != "" {
		name += " " + info.PlatformVersion
	}
	return name
}
