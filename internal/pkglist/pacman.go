// Package pkglist lists installed packages through the system package manager.
package pkglist

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os/exec"
	"strings"
	"time"

	"detect/internal/probe"
)

// DefaultTimeout bounds a single package manager invocation.
const DefaultTimeout = 30 * time.Second

// Pacman lists packages with `pacman -Qq`.
type Pacman struct {
	// Binary is the executable to run. Empty means "pacman" from PATH.
	Binary string
	// Timeout bounds the subprocess. Zero means DefaultTimeout.
	Timeout time.Duration
}

// List runs the package manager and returns installed package names in
// the order it prints them. Launch failure, a non-zero exit, or the
// deadline expiring all return a *probe.Error instead of aborting. Output
// printed before a failing exit is discarded since the list may be truncated.
func (p *Pacman) List(ctx context.Context) ([]string, error) {
	bin := p.Binary
	if bin == "" {
		bin = "pacman"
	}
	timeout := p.Timeout
	if timeout <= 0 {
		timeout = DefaultTimeout
	}

	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	var stderr bytes.Buffer
	cmd := exec.CommandContext(ctx, bin, "-Qq")
	cmd.Stderr = &stderr
	cmd.WaitDelay = time.Second

	out, err := cmd.Output()
	if errors.Is(ctx.Err(), context.DeadlineExceeded) {
		return nil, probe.Fail("packages", probe.TimedOut, fmt.Errorf("%s -Qq exceeded %s", bin, timeout))
	}
	if err != nil {
		if msg := strings.TrimSpace(stderr.String()); msg != "" {
			err = fmt.Errorf("%w: %s", err, msg)
		}
		return nil, probe.Fail("packages", probe.Unavailable, fmt.Errorf("running %s -Qq: %w", bin, err))
	}

	return Parse(out), nil
}

// Parse splits package manager output into names, dropping blank lines.
// Non-blank lines are kept verbatim and in order.
func Parse(out []byte) []string {
	lines := strings.Split(string(out), "\n")
	pkgs := make([]string, 0, len(lines))
	for _, line := range lines {
		line = strings.TrimRight(line, "\r")
		if strings.TrimSpace(line) == "" {
			continue
		}
		pkgs = append(pkgs, line)
	}
	return pkgs
}
