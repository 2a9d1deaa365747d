// Package clone deep-copies scene documents.
//
// A clone is structurally identical to the part of the source reachable
// from its root (same classes, names, child order and property values) with
// three deliberate differences:
//
//   - every instance has a freshly minted referent,
//   - every [dom.Ref] property is reset to the none sentinel, and
//   - every UniqueId property holds a newly generated [dom.UniqueID], or is
//     absent when generation failed.
//
// # Components
//
// [Sanitize] decides what happens to a single property value. A [Cloner]
// walks one subtree of the read-only source and returns a detached
// [dom.Builder]. [Clone] partitions the source root's children into batches,
// clones each batch on its own worker and attaches the results to a fresh
// destination root from a single goroutine. [Run] wraps Clone with file
// import and export.
//
// # Ordering
//
// Subtrees keep their order within a batch. Across batches, results are
// attached in completion order unless [Options.PreserveOrder] is set, in
// which case they are attached in source order. Either way the set of
// top-level subtrees is the same for every batch size.
//
// # Failures
//
// Dangling child links, UniqueId generation failures and a missing source
// root are absorbed: the affected child or property is left out and the
// event is counted in [Stats]. Decode and encode failures and panicking
// workers are fatal and returned as coded errors from
// github.com/matzehuels/domclone/pkg/errors.
package clone
