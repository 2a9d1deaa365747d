// Package pkg provides the libraries behind domclone.
//
// # Overview
//
// domclone deep-copies scene documents: trees of typed instances with
// properties, where some properties reference other instances and some carry
// application-level unique ids. The pkg directory is organized as follows:
//
//  1. [dom] - Document model (instances, referents, typed values, fingerprints)
//  2. [io] - XML and JSON codecs and atomic file import/export
//  3. [clone] - Parallel clone engine and clone verification
//  4. [observability] - Hooks and Prometheus metrics for clone runs
//  5. [errors] - Coded errors and input validation
//  6. [buildinfo] - Version information
//
// # Architecture
//
// The typical data flow through domclone:
//
//	input.rbxlx
//	     ↓
//	[io] package (decode into a dom.Document)
//	     ↓
//	[clone] package (batch the root's children, clone on workers,
//	                 attach to a fresh root from one goroutine)
//	     ↓
//	[io] package (encode the new root's children)
//	     ↓
//	output.rbxlx
//
// # Quick Start
//
//	res, err := clone.Run(ctx, "input.rbxlx", "output.rbxlx", clone.Options{})
//	if err != nil {
//	    return err
//	}
//	fmt.Println(res.Stats.Instances, "instances cloned")
//
// [dom]: github.com/matzehuels/domclone/pkg/dom
// [io]: github.com/matzehuels/domclone/pkg/io
// [clone]: github.com/matzehuels/domclone/pkg/clone
// [observability]: github.com/matzehuels/domclone/pkg/observability
// [errors]: github.com/matzehuels/domclone/pkg/errors
// [buildinfo]: github.com/matzehuels/domclone/pkg/buildinfo
package pkg
