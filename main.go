package main

import "github.com/dt-pm-tools/tracker-port/cmd"

func main() {
	cmd.Execute()
}
