// detect: host package inventory probe
//
// Usage:
//
//	detect              collect silently
//	detect -v           collect and print every probe result
//	detect -s           collect and submit to the collection endpoint
//	detect -o inv.json  collect and write the payload to a file
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"detect/cmd/detect"
)

func main() {
	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	if err := detect.NewCommand().ExecuteContext(ctx); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		cancel()
		os.Exit(1)
	}
}
