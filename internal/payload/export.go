package payload

import (
	"encoding/json"
	"fmt"
	"io"

	"github.com/vmihailenco/msgpack/v5"
)

// Export formats.
const (
	FormatJSON    = "json"
	FormatMsgpack = "msgpack"
)

// Encode writes the payload to w in the given format. JSON output is
// indented for reading; msgpack output carries the same keys.
func Encode(w io.Writer, p Payload, format string) error {
	switch format {
	case "", FormatJSON:
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		if err := enc.Encode(p); err != nil {
			return fmt.Errorf("encoding json: %w", err)
		}
		return nil
	case FormatMsgpack:
		if err := msgpack.NewEncoder(w).Encode(p); err != nil {
			return fmt.Errorf("encoding msgpack: %w", err)
		}
		return nil
	default:
		return fmt.Errorf("unknown export format %q (want %s or %s)", format, FormatJSON, FormatMsgpack)
	}
}
