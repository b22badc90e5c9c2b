// Package rtl provides the structural graph shared by the netlist importer,
// the Verilog exporter and the graph utilities.
//
// A Block is a directed hypergraph of typed signals (Wire) and typed
// operation nodes (Net). Every wire has at most one producing net; inputs
// and constants have none. Registers are wires whose next value is fed by a
// REG net; the wire itself carries the current value.
//
// # Usage
//
//	b := rtl.NewBlock()
//	a := b.Input(1, "a")
//	c := b.Input(1, "c")
//	o := b.Output(1, "o")
//	_, err := b.AddNet(rtl.AND, []*rtl.Wire{a, c}, []*rtl.Wire{o})
//
// # Concurrency
//
// A Block is owned by a single builder while it is being constructed.
// Once construction is finished it must be treated as read-only; any number
// of exporters may then read it concurrently. Concurrent mutation is not
// supported.
package rtl
