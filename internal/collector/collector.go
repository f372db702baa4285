// Package collector runs every probe once and assembles the results.
package collector

import (
	"context"
	"sync"
	"time"

	"github.com/rs/zerolog"

	"detect/internal/payload"
	"detect/internal/pkglist"
	"detect/internal/sysinfo"
)

// Probes are the independent fact sources of one collection pass.
// No probe observes another's output.
type Probes struct {
	Hardware func(ctx context.Context) (string, error)
	OS       func() (sysinfo.OSInfo, error)
	Distro   func() (string, error)
	Packages func(ctx context.Context) ([]string, error)
}

// HostProbes returns probes reading the local machine.
func HostProbes(osReleasePath string, pacman *pkglist.Pacman) Probes {
	return Probes{
		Hardware: sysinfo.IdentifyHardware,
		OS:       sysinfo.IdentifyOS,
		Distro: func() (string, error) {
			return sysinfo.IdentifyDistro(osReleasePath)
		},
		Packages: pacman.List,
	}
}

// Collect runs all probes concurrently, waits for every outcome, and
// assembles the payload. It never fails; probe errors end up in
// Payload.Causes.
func Collect(ctx context.Context, probes Probes, log zerolog.Logger) payload.Payload {
	var (
		wg     sync.WaitGroup
		hw     payload.Outcome[string]
		osInfo payload.Outcome[sysinfo.OSInfo]
		distro payload.Outcome[string]
		pkgs   payload.Outcome[[]string]
	)

	start := time.Now()
	wg.Add(4)
	go func() {
		defer wg.Done()
		hw = payload.Of(probes.Hardware(ctx))
	}()
	go func() {
		defer wg.Done()
		osInfo = payload.Of(probes.OS())
	}()
	go func() {
		defer wg.Done()
		distro = payload.Of(probes.Distro())
	}()
	go func() {
		defer wg.Done()
		pkgs = payload.Of(probes.Packages(ctx))
	}()
	wg.Wait()

	p := payload.Assemble(hw, osInfo, distro, pkgs)

	for key, cause := range p.Causes {
		log.Debug().Err(cause).Str("field", key).Msg("Probe failed, field left absent")
	}
	log.Debug().
		Dur("elapsed", time.Since(start)).
		Int("packages", len(p.PackageList)).
		Int("absent", len(p.Causes)).
		Msg("Collection finished")

	return p
}
