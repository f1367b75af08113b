// atelier - match outfit designs to retail products
//
// atelier extracts the dominant colours of an outfit design, describes its
// palette, and ranks catalog products by colour, pattern and style.
//
// Copyright (c) 2025 John Mylchreest
// Licensed under the MIT License
package main

import (
	"os"

	"github.com/jmylchreest/atelier/internal/cli"
)

func main() {
	if err := cli.NewRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}
