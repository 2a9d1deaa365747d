// Package dom provides the in-memory scene document: a tree of typed, named
// instances with keyed properties.
//
// # Overview
//
// A [Document] owns a set of [Instance] values addressed by [Ref]. One
// instance is the root; every other instance has exactly one parent and
// appears exactly once in its parent's ordered child list. Referents are
// unique within a document and freshly minted by [NewRef], so two documents
// built independently never share them.
//
// # Building
//
// Detached subtrees are described with a [Builder] and attached with
// [Document.Insert]:
//
//	doc := dom.New(dom.NewBuilder("DataModel"))
//	folder := dom.NewBuilder("Folder").
//	    WithName("Assets").
//	    WithProperty("Tag", dom.String("x"))
//	ref, err := doc.Insert(doc.RootRef(), folder)
//
// Codecs that read flat formats use [Document.AddInstance] and
// [Document.LinkChild] instead. Child links created that way may dangle;
// readers such as [Document.Walk] skip links that do not resolve.
//
// # Values
//
// Property values implement [Value]. The set is closed: primitive variants
// ([String], [Bool], [Int32], ...), composites ([Vector3], [CFrame], [UDim2],
// [NumberSequence], ...), [Raw] for markup of types this package does not
// model, and two distinguished variants: [Ref], a node reference that is
// only meaningful inside one document, and [UniqueID], an application-level
// uniqueness stamp produced by an [IDGenerator]. [Equal] compares floats by
// bit pattern.
//
// # Concurrency
//
// A Document is not safe for concurrent mutation. Once built, any number of
// goroutines may read it concurrently as long as nobody mutates it.
package dom
