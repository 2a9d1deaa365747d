package dom

import (
	"errors"
	"slices"
)

var (
	// ErrUnknownParent is returned by [Document.Insert] and
	// [Document.LinkChild] when the parent referent is not in the document.
	ErrUnknownParent = errors.New("unknown parent instance")

	// ErrDuplicateRef is returned when an instance with the same referent
	// already exists in the document.
	ErrDuplicateRef = errors.New("duplicate referent")

	// ErrAlreadyParented is returned by [Document.LinkChild] when the child
	// already has a parent.
	ErrAlreadyParented = errors.New("instance already has a parent")

	// ErrNoneRef is returned when the sentinel is used as a referent.
	ErrNoneRef = errors.New("referent must not be none")
)

// Instance is one node of a document.
type Instance struct {
	Class      string
	Name       string
	Properties map[string]Value

	referent Ref
	parent   Ref
	children []Ref
}

// Referent returns the instance's identity within its document.
func (i *Instance) Referent() Ref { return i.referent }

// Parent returns the parent's referent, or NoneRef for the root and for
// instances not yet linked.
func (i *Instance) Parent() Ref { return i.parent }

// Children returns the ordered child referents. The slice must not be
// modified.
func (i *Instance) Children() []Ref { return i.children }

// SortedKeys returns the property keys in lexicographic order.
func (i *Instance) SortedKeys() []string {
	keys := make([]string, 0, len(i.Properties))
	for k := range i.Properties {
		keys = append(keys, k)
	}
	slices.Sort(keys)
	return keys
}

// Document is a tree of instances with a designated root.
//
// The zero value is not usable; create documents with [New].
type Document struct {
	// Metadata holds file-level key/value pairs that belong to no
	// instance, such as the <Meta> entries of an XML place file.
	Metadata map[string]string

	instances map[Ref]*Instance
	root      Ref
}

// New creates a document whose root (and subtree) is described by root.
func New(root *Builder) *Document {
	d := &Document{
		Metadata:  make(map[string]string),
		instances: make(map[Ref]*Instance),
	}
	ref, err := d.insert(NoneRef, root)
	if err != nil {
		// Only possible with duplicate referents inside root itself.
		panic(err)
	}
	d.root = ref
	return d
}

// RootRef returns the root's referent.
func (d *Document) RootRef() Ref { return d.root }

// Root returns the root instance.
func (d *Document) Root() *Instance { return d.instances[d.root] }

// Get resolves ref. It reports false for unknown referents and for NoneRef.
func (d *Document) Get(ref Ref) (*Instance, bool) {
	i, ok := d.instances[ref]
	return i, ok
}

// Len returns the number of instances, including the root and instances
// not reachable from it.
func (d *Document) Len() int { return len(d.instances) }

// Refs returns every referent in the document in unspecified order.
func (d *Document) Refs() []Ref {
	refs := make([]Ref, 0, len(d.instances))
	for r := range d.instances {
		refs = append(refs, r)
	}
	return refs
}

// Insert attaches the subtree described by b as the last child of parent
// and returns the new instance's referent. Builders without a referent get
// a freshly minted one.
func (d *Document) Insert(parent Ref, b *Builder) (Ref, error) {
	if _, ok := d.instances[parent]; !ok {
		return NoneRef, ErrUnknownParent
	}
	if err := d.checkRefs(b); err != nil {
		return NoneRef, err
	}
	return d.insert(parent, b)
}

// checkRefs rejects a subtree before any of it is inserted, so a failed
// Insert leaves the document unchanged.
func (d *Document) checkRefs(b *Builder) error {
	seen := make(map[Ref]bool)
	var walk func(*Builder) error
	walk = func(b *Builder) error {
		if !b.referent.IsNone() {
			if _, exists := d.instances[b.referent]; exists || seen[b.referent] {
				return ErrDuplicateRef
			}
			seen[b.referent] = true
		}
		for _, c := range b.children {
			if err := walk(c); err != nil {
				return err
			}
		}
		return nil
	}
	return walk(b)
}

func (d *Document) insert(parent Ref, b *Builder) (Ref, error) {
	ref := b.referent
	if ref.IsNone() {
		ref = NewRef()
	}
	if _, exists := d.instances[ref]; exists {
		return NoneRef, ErrDuplicateRef
	}

	props := make(map[string]Value, len(b.props))
	for k, v := range b.props {
		props[k] = v
	}
	inst := &Instance{
		Class:      b.class,
		Name:       b.name,
		Properties: props,
		referent:   ref,
		parent:     parent,
	}
	d.instances[ref] = inst
	if p, ok := d.instances[parent]; ok {
		p.children = append(p.children, ref)
	}

	for _, c := range b.children {
		if _, err := d.insert(ref, c); err != nil {
			return NoneRef, err
		}
	}
	return ref, nil
}

// AddInstance adds an unparented instance with the given referent. It is
// meant for codecs that build a document from a flat list; link the
// instance into the tree with [Document.LinkChild].
func (d *Document) AddInstance(ref Ref, class, name string, props map[string]Value) (*Instance, error) {
	if ref.IsNone() {
		return nil, ErrNoneRef
	}
	if _, exists := d.instances[ref]; exists {
		return nil, ErrDuplicateRef
	}
	if props == nil {
		props = make(map[string]Value)
	}
	inst := &Instance{Class: class, Name: name, Properties: props, referent: ref}
	d.instances[ref] = inst
	return inst, nil
}

// LinkChild appends child to parent's child list. The child does not need
// to exist: a link to an unknown referent is kept as a dangling link, which
// traversals skip. A child that exists must not already have a parent.
func (d *Document) LinkChild(parent, child Ref) error {
	p, ok := d.instances[parent]
	if !ok {
		return ErrUnknownParent
	}
	if child.IsNone() {
		return ErrNoneRef
	}
	if c, ok := d.instances[child]; ok {
		if !c.parent.IsNone() || child == d.root {
			return ErrAlreadyParented
		}
		c.parent = parent
	}
	p.children = append(p.children, child)
	return nil
}

// Walk calls fn for ref and each resolvable descendant in depth-first
// pre-order. Dangling child links are skipped. Returning false from fn
// skips that instance's children.
func (d *Document) Walk(ref Ref, fn func(*Instance) bool) {
	inst, ok := d.instances[ref]
	if !ok {
		return
	}
	if !fn(inst) {
		return
	}
	for _, c := range inst.children {
		d.Walk(c, fn)
	}
}

// Dangling returns the child links under ref that do not resolve.
func (d *Document) Dangling(ref Ref) []Ref {
	var out []Ref
	d.Walk(ref, func(inst *Instance) bool {
		for _, c := range inst.children {
			if _, ok := d.instances[c]; !ok {
				out = append(out, c)
			}
		}
		return true
	})
	return out
}
