package dom

// Builder describes a detached instance and its subtree. Builders are not
// part of any document until passed to [Document.Insert] or [New].
type Builder struct {
	class    string
	name     string
	props    map[string]Value
	children []*Builder
	referent Ref
}

// NewBuilder starts a description of an instance of the given class. The
// name defaults to the class.
func NewBuilder(class string) *Builder {
	return &Builder{
		class: class,
		name:  class,
		props: make(map[string]Value),
	}
}

// WithName sets the instance name.
func (b *Builder) WithName(name string) *Builder {
	b.name = name
	return b
}

// WithProperty sets a property, replacing any previous value under key.
func (b *Builder) WithProperty(key string, v Value) *Builder {
	b.props[key] = v
	return b
}

// WithChild appends a child description.
func (b *Builder) WithChild(child *Builder) *Builder {
	b.children = append(b.children, child)
	return b
}

// WithReferent fixes the referent the instance receives on insertion.
// Without it a fresh referent is minted.
func (b *Builder) WithReferent(r Ref) *Builder {
	b.referent = r
	return b
}

// Class returns the class tag.
func (b *Builder) Class() string { return b.class }

// Name returns the instance name.
func (b *Builder) Name() string { return b.name }

// Referent returns the referent set with WithReferent, or NoneRef.
func (b *Builder) Referent() Ref { return b.referent }

// Property returns the value stored under key.
func (b *Builder) Property(key string) (Value, bool) {
	v, ok := b.props[key]
	return v, ok
}

// Children returns the child descriptions in order.
func (b *Builder) Children() []*Builder { return b.children }

// Len returns the number of instances described, including b.
func (b *Builder) Len() int {
	n := 1
	for _, c := range b.children {
		n += c.Len()
	}
	return n
}
