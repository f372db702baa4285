// Package appinfo reports this tool's own name and version.
package appinfo

// Name is the tool name sent in outbound request headers.
const Name = "detect"

// Version is overridden at link time:
//
//	go build -ldflags "-X detect/internal/appinfo.Version=0.4.0"
var Version = "0.3.1"

// Identity is the tool's name and version. It is used for request
// metadata only and is never part of the payload.
type Identity struct {
	Name    string
	Version string
}

// Get returns the compiled-in identity.
func Get() Identity {
	return Identity{Name: Name, Version: Version}
}

// UserAgent formats the identity as name/version.
func (i Identity) UserAgent() string {
	return i.Name + "/" + i.Version
}
