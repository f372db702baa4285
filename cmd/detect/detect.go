// Package detect implements the detect CLI: one collection pass and at most
// one submission.
package detect

import (
	"context"
	"fmt"
	"io"
	"os"

	"github.com/rs/zerolog"

	"detect/internal/appinfo"
	"detect/internal/collector"
	"detect/internal/payload"
	"detect/internal/pkglist"
	"detect/internal/report"
	"detect/internal/submit"
	"detect/internal/sysinfo"
	"detect/pkg/config"
)

// Submitter sends an assembled payload.
type Submitter interface {
	Submit(ctx context.Context, p payload.Payload, app appinfo.Identity, endpoint string) error
}

// Deps are the collaborators of Run. Tests replace them; HostDeps wires the real ones.
type Deps struct {
	Probes    collector.Probes
	Submitter Submitter
	Stdout    io.Writer
	Platform  func(ctx context.Context) string
}

// HostDeps builds the production collaborators from cfg.
func HostDeps(cfg *config.Config, log zerolog.Logger) (Deps, error) {
	pkgTimeout, err := cfg.Probe.ParsePackageTimeout()
	if err != nil {
		return Deps{}, fmt.Errorf("parsing package timeout: %w", err)
	}
	submitTimeout, err := cfg.ParseSubmitTimeout()
	if err != nil {
		return Deps{}, fmt.Errorf("parsing submit timeout: %w", err)
	}

	pacman := &pkglist.Pacman{Binary: cfg.Probe.PacmanBinary, Timeout: pkgTimeout}
	return Deps{
		Probes: collector.HostProbes(cfg.Probe.OSReleasePath, pacman),
		Submitter: submit.New(submit.Options{
			Timeout:      submitTimeout,
			SharedSecret: cfg.SharedSecret,
		}, log),
		Stdout:   os.Stdout,
		Platform: sysinfo.Platform,
	}, nil
}

// Run collects, optionally renders and exports, and submits when cfg.Submit is set.
// Only export and submission failures are returned; probe failures are absorbed.
func Run(ctx context.Context, cfg *config.Config, deps Deps, log zerolog.Logger) error {
	app := appinfo.Get()

	p := collector.Collect(ctx, deps.Probes, log)

	if cfg.Verbose {
		report.Render(deps.Stdout, p, app, deps.Platform(ctx))
	}

	if cfg.Output != "" {
		if err := export(cfg.Output, cfg.Format, p, deps.Stdout); err != nil {
			return err
		}
		log.Info().Str("output", cfg.Output).Str("format", cfg.Format).Msg("Payload exported")
	}

	if !cfg.Submit {
		return nil
	}

	log.Info().Str("endpoint", cfg.APIURL).Int("packages", len(p.PackageList)).Msg("Submitting package list")
	if err := deps.Submitter.Submit(ctx, p, app, cfg.APIURL); err != nil {
		return fmt.Errorf("submit failed: %w", err)
	}

	if cfg.Verbose {
		fmt.Fprintln(deps.Stdout, "Packages submitted. Thank you!")
	}
	return nil
}

func export(path, format string, p payload.Payload, stdout io.Writer) error {
	if path == "-" {
		return payload.Encode(stdout, p, format)
	}

	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("creating output %s: %w", path, err)
	}
	if err := payload.Encode(f, p, format); err != nil {
		f.Close()
		return fmt.Errorf("writing output %s: %w", path, err)
	}
	if err := f.Close(); err != nil {
		return fmt.Errorf("closing output %s: %w", path, err)
	}
	return nil
}
