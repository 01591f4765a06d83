package main

import (
	"errors"
	"os"

	"exifname/cmd"
	"exifname/internal"
)

func main() {
	if err := cmd.Execute(); err != nil {
		if errors.Is(err, internal.ErrPartial) {
			os.Exit(1)
		}
		os.Exit(2)
	}
}
