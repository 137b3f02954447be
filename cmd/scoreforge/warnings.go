package main

import (
	"log"

	"scoreforge.dev/engraved"
)

// reportWarnings logs every recoverable layout warning through the
// standard log package (stderr by default), with no fatal exit, since a
// warning is by definition non-fatal.
func reportWarnings(warnings []engraved.Warning) {
	for _, w := range warnings {
		log.Printf("warning: %s (measure %d, part %q)", w.Message, w.MeasureNumber, w.PartID)
	}
}
