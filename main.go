package main

import "itest/cmd/itestctl"

// Version can be set during build with -ldflags
var version = "dev"

func main() {
	itestctl.SetVersion(version)
	itestctl.Execute()
}
