// command scoreforge is the developer-facing entry point for the layout
// engine: lay a score out, rasterize it to debug PNGs, or browse its page
// and system breaks interactively.
package main

import (
	"fmt"
	"os"
)

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "%v\n", err)
		os.Exit(1)
	}
}
