package main

import (
	"os"

	"github.com/ALi-ather/Video-Text-Translator/internal/cli"
)

func main() {
	if err := cli.Execute(); err != nil {
		os.Exit(1)
	}
}
