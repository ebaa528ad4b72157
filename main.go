// Package main is the entry point for the queryfix CLI.
package main

import "github.com/fleetops/queryfix/cmd"

func main() {
	cmd.Execute()
}
