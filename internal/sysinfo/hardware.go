package sysinfo

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"strings"

	"github.com/shirou/gopsutil/v3/cpu"
	"github.com/shirou/gopsutil/v3/disk"
	"github.com/shirou/gopsutil/v3/host"

	"detect/internal/probe"
)

// hardwareKey is mixed into every hardware digest so identifiers from this
// tool never collide with other machine-id consumers on the same host.
const hardwareKey = "licker"

// HardwareSources reads the raw attributes that make up the hardware identifier.
type HardwareSources interface {
	SystemID(ctx context.Context) (string, error)
	CPUID(ctx context.Context) (string, error)
	DriveSerial(ctx context.Context) (string, error)
}

// HostSources returns the gopsutil-backed sources for the local machine.
func HostSources() HardwareSources {
	return hostSources{}
}

// IdentifyHardware returns the hardware identifier of the local machine.
func IdentifyHardware(ctx context.Context) (string, error) {
	return IdentifyHardwareFrom(ctx, HostSources())
}

// IdentifyHardwareFrom hashes system ID, CPU ID and primary drive serial,
// in that order, into a lowercase hex SHA-256 digest. Every component is
// required; an error or an empty value fails the whole probe.
func IdentifyHardwareFrom(ctx context.Context, src HardwareSources) (string, error) {
	readers := []struct {
		name string
		read func(context.Context) (string, error)
	}{
		{"system id", src.SystemID},
		{"cpu id", src.CPUID},
		{"drive serial", src.DriveSerial},
	}

	parts := make([]string, 0, len(readers)+1)
	for _, r := range readers {
		v, err := r.read(ctx)
		if err != nil {
			return "", probe.Fail("hardware", probe.Unavailable, fmt.Errorf("reading %s: %w", r.name, err))
		}
		v = strings.TrimSpace(v)
		if v == "" {
			return "", probe.Fail("hardware", probe.Unavailable, fmt.Errorf("%s is empty", r.name))
		}
		parts = append(parts, v)
	}
	parts = append(parts, hardwareKey)

	sum := sha256.Sum256([]byte(strings.Join(parts, "|")))
	return hex.EncodeToString(sum[:]), nil
}

type hostSources struct{}

// SystemID reads the first non-empty entry of systemIDFiles on Linux. The
// kernel boot_id is never used since it changes on every boot. Other
// platforms use gopsutil's host id, which comes from a persistent source there.
func (hostSources) SystemID(ctx context.Context) (string, error) {
	if runtime.GOOS != "linux" {
		return host.HostIDWithContext(ctx)
	}

	var errs []error
	for _, path := range systemIDFiles() {
		b, err := os.ReadFile(path)
		if err != nil {
			errs = append(errs, err)
			continue
		}
		if id := strings.TrimSpace(string(b)); id != "" {
			return strings.ToLower(id), nil
		}
		errs = append(errs, fmt.Errorf("%s is empty", path))
	}
	return "", errors.Join(errs...)
}

// systemIDFiles lists the persistent machine identifiers in lookup order.
// machine-id comes first because it is world-readable, so root and
// unprivileged runs agree whenever it exists. HOST_ETC and HOST_SYS relocate
// the roots the same way gopsutil honours them.
func systemIDFiles() []string {
	return []string{
		filepath.Join(hostRoot("HOST_ETC", "/etc"), "machine-id"),
		filepath.Join(hostRoot("HOST_SYS", "/sys"), "class", "dmi", "id", "product_uuid"),
	}
}

func hostRoot(env, fallback string) string {
	if v := os.Getenv(env); v != "" {
		return v
	}
	return fallback
}

func (hostSources) CPUID(ctx context.Context) (string, error) {
	infos, err := cpu.InfoWithContext(ctx)
	if err != nil {
		return "", err
	}
	if len(infos) == 0 {
		return "", errors.New("no cpu reported")
	}

	c := infos[0]
	return fmt.Sprintf("%s-%s-%s-%d-%s", c.VendorID, c.Family, c.Model, c.Stepping, c.ModelName), nil
}

// DriveSerial returns the serial number of the device mounted at "/".
func (hostSources) DriveSerial(ctx context.Context) (string, error) {
	partitions, err := disk.PartitionsWithContext(ctx, false)
	if err != nil {
		return "", err
	}

	for _, p := range partitions {
		if p.Mountpoint != "/" {
			continue
		}
		return disk.SerialNumberWithContext(ctx, p.Device)
	}
	return "", errors.New("no partition mounted at /")
}
