// Package report renders a human-readable summary of a collection pass.
// Output here never influences the payload.
package report

import (
	"fmt"
	"io"
	"strings"

	"detect/internal/appinfo"
	"detect/internal/payload"
)

// Render writes every probe outcome, the tool identity and the package list to w.
func Render(w io.Writer, p payload.Payload, app appinfo.Identity, platform string) {
	fmt.Fprintf(w, "\n  %s %s on %s\n\n", app.Name, app.Version, platform)
	fmt.Fprintf(w, "  %-3s %-16s %s\n", "", "Field", "Value")
	fmt.Fprintf(w, "  %s %s %s\n",
		strings.Repeat("─", 3),
		strings.Repeat("─", 16),
		strings.Repeat("─", 48))

	row(w, "Hardware ID", p.HwID, p.Cause(payload.KeyHwID))
	if p.OS != nil {
		row(w, "OS", &p.OS.OS, nil)
		row(w, "Kernel", &p.OS.Kernel, nil)
		row(w, "Arch", &p.OS.Arch, nil)
	} else {
		row(w, "OS", nil, p.Cause(payload.KeyOS))
	}
	row(w, "Distribution", p.Distro, p.Cause(payload.KeyDistro))
	row(w, "Package Manager", &p.PackageManager, nil)

	count := fmt.Sprintf("%d installed", len(p.PackageList))
	row(w, "Packages", &count, p.Cause(payload.KeyPackageList))

	if len(p.PackageList) > 0 {
		fmt.Fprintf(w, "\n  %s\n", strings.Join(p.PackageList, ", "))
	}
	fmt.Fprintln(w)
}

func row(w io.Writer, name string, value *string, cause error) {
	switch {
	case cause != nil:
		fmt.Fprintf(w, "  %-3s %-16s %s\n", "✗", name, cause)
	case value == nil:
		fmt.Fprintf(w, "  %-3s %-16s %s\n", "✗", name, "unavailable")
	default:
		fmt.Fprintf(w, "  %-3s %-16s %s\n", "✓", name, *value)
	}
}
