package payload

import (
	"bytes"
	"encoding/json"
	"errors"
	"testing"

	"github.com/vmihailenco/msgpack/v5"

	"detect/internal/probe"
	"detect/internal/sysinfo"
)

func strPtr(s string) *string { return &s }

func samplePayload() Payload {
	return Payload{
		HwID:           strPtr("testhwid"),
		Distro:         strPtr("testdistro"),
		PackageManager: "testpm",
		OS: &sysinfo.OSInfo{
			OS:     "testos",
			Kernel: "testkernel",
			Arch:   "testarch",
		},
		PackageList: []string{"testpackage1", "testpackage2"},
	}
}

func decodeJSON(t *testing.T, p Payload) map[string]any {
	t.Helper()
	data, err := json.Marshal(p)
	if err != nil {
		t.Fatalf("marshal failed: %v", err)
	}
	var m map[string]any
	if err := json.Unmarshal(data, &m); err != nil {
		t.Fatalf("unmarshal failed: %v", err)
	}
	return m
}

func TestPayload_JSONFlattensOS(t *testing.T) {
	m := decodeJSON(t, samplePayload())

	want := map[string]string{
		"hwId":           "testhwid",
		"distro":         "testdistro",
		"packageManager": "testpm",
		"os":             "testos",
		"kernel":         "testkernel",
		"arch":           "testarch",
	}
	for key, val := range want {
		got, ok := m[key].(string)
		if !ok {
			t.Errorf("%s: missing or not a string (%v)", key, m[key])
			continue
		}
		if got != val {
			t.Errorf("%s: got %s, want %s", key, got, val)
		}
	}

	list, ok := m["packageList"].([]any)
	if !ok {
		t.Fatalf("packageList: not an array (%v)", m["packageList"])
	}
	if len(list) != 2 || list[0] != "testpackage1" || list[1] != "testpackage2" {
		t.Errorf("packageList: got %v, want [testpackage1 testpackage2]", list)
	}
	if len(m) != 7 {
		t.Errorf("key count: got %d, want 7 (%v)", len(m), m)
	}
}

func TestPayload_JSONOmitsAbsentFields(t *testing.T) {
	m := decodeJSON(t, Payload{PackageManager: PackageManagerPacman})

	for _, key := range []string{"hwId", "distro", "os", "kernel", "arch"} {
		if _, ok := m[key]; ok {
			t.Errorf("%s: present, want absent", key)
		}
	}
	if m["packageManager"] != "pacman" {
		t.Errorf("packageManager: got %v, want pacman", m["packageManager"])
	}
	list, ok := m["packageList"].([]any)
	if !ok || len(list) != 0 {
		t.Errorf("packageList: got %v, want []", m["packageList"])
	}
}

func TestPayload_JSONKeepsEmptyPresentValue(t *testing.T) {
	m := decodeJSON(t, Payload{HwID: strPtr(""), PackageManager: PackageManagerPacman})
	if v, ok := m["hwId"]; !ok || v != "" {
		t.Errorf("hwId: got %v (present=%v), want present empty string", v, ok)
	}
}

func TestPayload_MsgpackSameKeys(t *testing.T) {
	data, err := msgpack.Marshal(samplePayload())
	if err != nil {
		t.Fatalf("marshal failed: %v", err)
	}

	var m map[string]any
	if err := msgpack.Unmarshal(data, &m); err != nil {
		t.Fatalf("unmarshal failed: %v", err)
	}
	if m["kernel"] != "testkernel" {
		t.Errorf("kernel: got %v, want testkernel", m["kernel"])
	}
	if m["hwId"] != "testhwid" {
		t.Errorf("hwId: got %v, want testhwid", m["hwId"])
	}
	if _, nested := m["OS"]; nested {
		t.Error("OS encoded as nested object")
	}
}

func TestAssemble_PresenceMatrix(t *testing.T) {
	failure := probe.Fail("test", probe.Unavailable, nil)

	for mask := 0; mask < 16; mask++ {
		hwOK, osOK, distroOK, pkgsOK := mask&1 != 0, mask&2 != 0, mask&4 != 0, mask&8 != 0

		hw := Outcome[string]{Value: "abc"}
		if !hwOK {
			hw = Of("", error(failure))
		}
		osInfo := Outcome[sysinfo.OSInfo]{Value: sysinfo.OSInfo{OS: "Linux", Kernel: "6.9.1-arch1-1", Arch: "x86_64"}}
		if !osOK {
			osInfo = Of(sysinfo.OSInfo{}, error(failure))
		}
		distro := Outcome[string]{Value: "arch"}
		if !distroOK {
			distro = Of("", error(failure))
		}
		pkgs := Outcome[[]string]{Value: []string{"vim"}}
		if !pkgsOK {
			pkgs = Of[[]string](nil, failure)
		}

		p := Assemble(hw, osInfo, distro, pkgs)
		m := decodeJSON(t, p)

		if m["packageManager"] != PackageManagerPacman {
			t.Errorf("mask %04b: packageManager: got %v", mask, m["packageManager"])
		}
		list, ok := m["packageList"].([]any)
		if !ok {
			t.Errorf("mask %04b: packageList missing", mask)
		} else if pkgsOK != (len(list) == 1) {
			t.Errorf("mask %04b: packageList: got %v", mask, list)
		}

		checks := []struct {
			key     string
			present bool
		}{
			{"hwId", hwOK}, {"os", osOK}, {"kernel", osOK}, {"arch", osOK}, {"distro", distroOK},
		}
		for _, c := range checks {
			if _, ok := m[c.key]; ok != c.present {
				t.Errorf("mask %04b: %s present=%v, want %v", mask, c.key, ok, c.present)
			}
		}

		if !hwOK && !errors.Is(p.Cause(KeyHwID), probe.ErrUnavailable) {
			t.Errorf("mask %04b: hwId cause not recorded", mask)
		}
		if hwOK && p.Cause(KeyHwID) != nil {
			t.Errorf("mask %04b: unexpected hwId cause %v", mask, p.Cause(KeyHwID))
		}
	}
}

func TestAssemble_PartialScenario(t *testing.T) {
	p := Assemble(
		Of("", error(probe.Fail("hardware", probe.Unavailable, nil))),
		Of(sysinfo.OSInfo{OS: "Linux", Kernel: "6.9.1-arch1-1", Arch: "x86_64"}, nil),
		Of("", error(probe.Fail("distro", probe.NotFound, nil))),
		Of([]string{"vim", "git"}, nil),
	)

	if p.HwID != nil {
		t.Errorf("HwID: got %v, want nil", *p.HwID)
	}
	if p.Distro != nil {
		t.Errorf("Distro: got %v, want nil", *p.Distro)
	}
	if p.OS == nil || p.OS.Kernel != "6.9.1-arch1-1" {
		t.Errorf("OS: got %+v", p.OS)
	}
	if p.PackageManager != "pacman" {
		t.Errorf("PackageManager: got %s, want pacman", p.PackageManager)
	}
	if len(p.PackageList) != 2 || p.PackageList[0] != "vim" || p.PackageList[1] != "git" {
		t.Errorf("PackageList: got %v, want [vim git]", p.PackageList)
	}
	if !errors.Is(p.Cause(KeyDistro), probe.ErrNotFound) {
		t.Errorf("distro cause: got %v", p.Cause(KeyDistro))
	}
}

func TestEncode_Formats(t *testing.T) {
	var buf bytes.Buffer
	if err := Encode(&buf, samplePayload(), FormatJSON); err != nil {
		t.Fatalf("json: %v", err)
	}
	if !bytes.Contains(buf.Bytes(), []byte(`"kernel": "testkernel"`)) {
		t.Errorf("json output missing kernel: %s", buf.String())
	}

	buf.Reset()
	if err := Encode(&buf, samplePayload(), FormatMsgpack); err != nil {
		t.Fatalf("msgpack: %v", err)
	}
	if buf.Len() == 0 {
		t.Error("msgpack output is empty")
	}

	if err := Encode(&buf, samplePayload(), "xml"); err == nil {
		t.Error("expected error for unknown format")
	}
}
