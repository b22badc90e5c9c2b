package main

import "github.com/OpenTraceLab/OpenTraceRTL/cmd/netlist/cmd"

func main() {
	cmd.Execute()
}
