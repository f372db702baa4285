package pkglist

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"runtime"
	"strings"
	"testing"
	"time"

	"detect/internal/probe"
)

func TestParse_DropsBlankLines(t *testing.T) {
	out := []byte("acl\n\narchlinux-keyring\n   \nbase\n\n\nvim\n")

	got := Parse(out)
	want := []string{"acl", "archlinux-keyring", "base", "vim"}

	if len(got) != len(want) {
		t.Fatalf("len: got %d (%v), want %d", len(got), got, len(want))
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("pkg[%d]: got %s, want %s", i, got[i], want[i])
		}
	}
}

func TestParse_Empty(t *testing.T) {
	got := Parse(nil)
	if got == nil {
		t.Fatal("Parse returned nil, want empty slice")
	}
	if len(got) != 0 {
		t.Errorf("len: got %d, want 0", len(got))
	}
}

func fakePacman(t *testing.T, script string) string {
	t.Helper()
	if runtime.GOOS == "windows" {
		t.Skip("shell scripts not supported")
	}
	path := filepath.Join(t.TempDir(), "pacman")
	if err := os.WriteFile(path, []byte("#!/bin/sh\n"+script), 0755); err != nil {
		t.Fatalf("write fake pacman: %v", err)
	}
	return path
}

func TestList_FakeBinary(t *testing.T) {
	bin := fakePacman(t, "printf 'vim\\n\\ngit\\n'\n")
	p := &Pacman{Binary: bin}

	got, err := p.List(context.Background())
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	if len(got) != 2 || got[0] != "vim" || got[1] != "git" {
		t.Errorf("packages: got %v, want [vim git]", got)
	}
}

func TestList_MissingBinaryIsSoftFailure(t *testing.T) {
	p := &Pacman{Binary: filepath.Join(t.TempDir(), "does-not-exist")}

	got, err := p.List(context.Background())
	if err == nil {
		t.Fatal("expected error for missing binary")
	}
	if got != nil {
		t.Errorf("packages: got %v, want nil", got)
	}
	if !errors.Is(err, probe.ErrUnavailable) {
		t.Errorf("expected Unavailable, got %v", err)
	}
}

func TestList_NonZeroExitDropsPartialOutput(t *testing.T) {
	bin := fakePacman(t, "printf 'vim\\ngit\\n'\necho 'error: could not open database' >&2\nexit 1\n")
	p := &Pacman{Binary: bin}

	got, err := p.List(context.Background())
	if !errors.Is(err, probe.ErrUnavailable) {
		t.Errorf("expected Unavailable, got %v", err)
	}
	if got != nil {
		t.Errorf("packages: got %v, want nil after failed run", got)
	}
	if err != nil && !strings.Contains(err.Error(), "could not open database") {
		t.Errorf("error %q does not carry stderr", err)
	}
}

func TestList_Timeout(t *testing.T) {
	bin := fakePacman(t, "exec sleep 5\n")
	p := &Pacman{Binary: bin, Timeout: 100 * time.Millisecond}

	start := time.Now()
	_, err := p.List(context.Background())
	if !errors.Is(err, probe.ErrTimedOut) {
		t.Errorf("expected TimedOut, got %v", err)
	}
	if elapsed := time.Since(start); elapsed > 4*time.Second {
		t.Errorf("List took %v, timeout not enforced", elapsed)
	}
}
