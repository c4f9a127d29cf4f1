// Package main is the entry point for the pichugo CLI.
package main

import (
	"os"
	"pichu-go/cmd/pichugo/cmd"
)

func main() {
	if err := cmd.NewRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}
