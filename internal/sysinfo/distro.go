package sysinfo

import (
	"errors"
	"os"
	"strings"

	"detect/internal/probe"
)

// IdentifyDistro parses an os-release style file for the first ID= line and
// returns its value with surrounding quotes stripped. An unreadable file,
// a missing ID= line, or an empty value all report probe.NotFound.
func IdentifyDistro(path string) (string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return "", probe.Fail("distro", probe.NotFound, err)
	}

	if id, ok := parseDistroID(string(data)); ok {
		return id, nil
	}
	return "", probe.Fail("distro", probe.NotFound, errors.New("no ID= entry in "+path))
}

func parseDistroID(content string) (string, bool) {
	for _, line := range strings.Split(content, "\n") {
		line = strings.TrimSpace(line)
		if !strings.HasPrefix(line, "ID=") {
			continue
		}
		val := strings.TrimPrefix(line, "ID=")
		val = strings.Trim(val, `"'`)
		if val == "" {
			return "", false
		}
		return val, true
	}
	return "", false
}
