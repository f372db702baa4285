// Package payload assembles probe outcomes into the submission record.
package payload

import (
	"encoding/json"

	"github.com/vmihailenco/msgpack/v5"

	"detect/internal/sysinfo"
)

// PackageManagerPacman is the only package manager currently probed.
const PackageManagerPacman = "pacman"

// Wire keys of the optional fields, used to index Payload.Causes.
const (
	KeyHwID        = "hwId"
	KeyDistro      = "distro"
	KeyOS          = "os"
	KeyPackageList = "packageList"
)

// Payload is the merged record describing one machine. Nil pointer fields
// are absent on the wire.
type Payload struct {
	HwID           *string
	Distro         *string
	PackageManager string
	OS             *sysinfo.OSInfo
	PackageList    []string

	// Causes records why each absent field is absent, keyed by wire name.
	// It is never serialized.
	Causes map[string]error
}

// record is the flat wire shape: OS fields sit next to hwId and packageList.
type record struct {
	HwID           *string  `json:"hwId,omitempty" msgpack:"hwId,omitempty"`
	Distro         *string  `json:"distro,omitempty" msgpack:"distro,omitempty"`
	PackageManager string   `json:"packageManager" msgpack:"packageManager"`
	OS             *string  `json:"os,omitempty" msgpack:"os,omitempty"`
	Kernel         *string  `json:"kernel,omitempty" msgpack:"kernel,omitempty"`
	Arch           *string  `json:"arch,omitempty" msgpack:"arch,omitempty"`
	PackageList    []string `json:"packageList" msgpack:"packageList"`
}

func (p Payload) record() record {
	r := record{
		HwID:           p.HwID,
		Distro:         p.Distro,
		PackageManager: p.PackageManager,
		PackageList:    p.PackageList,
	}
	if r.PackageList == nil {
		r.PackageList = []string{}
	}
	if p.OS != nil {
		osName, kernel, arch := p.OS.OS, p.OS.Kernel, p.OS.Arch
		r.OS, r.Kernel, r.Arch = &osName, &kernel, &arch
	}
	return r
}

// MarshalJSON encodes the payload in its flat camelCase wire shape.
func (p Payload) MarshalJSON() ([]byte, error) {
	return json.Marshal(p.record())
}

// EncodeMsgpack encodes the same flat shape as MarshalJSON.
func (p Payload) EncodeMsgpack(enc *msgpack.Encoder) error {
	return enc.Encode(p.record())
}

// Cause returns the recorded failure for an absent field, or nil.
func (p Payload) Cause(key string) error {
	return p.Causes[key]
}
