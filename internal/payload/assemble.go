package payload

import (
	"detect/internal/sysinfo"
)

// Outcome is the result of one probe: a value, or the error that kept it absent.
type Outcome[T any] struct {
	Value T
	Err   error
}

// Of wraps a (value, error) pair as returned by a probe.
func Of[T any](v T, err error) Outcome[T] {
	if err != nil {
		var zero T
		return Outcome[T]{Value: zero, Err: err}
	}
	return Outcome[T]{Value: v}
}

// Present reports whether the probe produced a value.
func (o Outcome[T]) Present() bool {
	return o.Err == nil
}

// Assemble folds probe outcomes into a payload. It never fails: each
// failed outcome leaves its field absent and its cause in Causes, and a
// failed package listing becomes an empty list.
func Assemble(hw Outcome[string], osInfo Outcome[sysinfo.OSInfo], distro Outcome[string], pkgs Outcome[[]string]) Payload {
	p := Payload{
		PackageManager: PackageManagerPacman,
		PackageList:    []string{},
		Causes:         make(map[string]error),
	}

	if hw.Present() {
		v := hw.Value
		p.HwID = &v
	} else {
		p.Causes[KeyHwID] = hw.Err
	}

	if osInfo.Present() {
		v := osInfo.Value
		p.OS = &v
	} else {
		p.Causes[KeyOS] = osInfo.Err
	}

	if distro.Present() {
		v := distro.Value
		p.Distro = &v
	} else {
		p.Causes[KeyDistro] = distro.Err
	}

	if pkgs.Present() {
		if pkgs.Value != nil {
			p.PackageList = pkgs.Value
		}
	} else {
		p.Causes[KeyPackageList] = pkgs.Err
	}

	return p
}
