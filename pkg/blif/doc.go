// Package blif imports flattened, single clock BLIF netlists as written by
// Yosys into an rtl.Block.
//
// # Overview
//
// The importer accepts one .model with .inputs, .outputs and any number of
// commands:
//   - .names logic definitions whose cover matches one of the supported
//     gate shapes (see Shape)
//   - .subckt $_DFF_PN0_ / $_DFF_PP0_ flip-flops with asynchronous reset
//   - .latch rising edge flip-flops
//
// Inputs and outputs named base[i] are merged into buses unless
// Options.MergeIOVectors is false. The clock input is not materialized as
// a signal; it is implied by every register of the block.
//
// # Usage
//
//	nl, err := blif.ImportString(text, nil)
//	if err != nil {
//		var ferr *blif.FormatError
//		if errors.As(err, &ferr) {
//			log.Fatalf("line %d: %s", ferr.Line, ferr.Msg)
//		}
//	}
//	fmt.Println(nl.Block.Dump())
package blif
