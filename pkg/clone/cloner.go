package clone

import "github.com/matzehuels/domclone/pkg/dom"

// Stats counts what happened while cloning.
type Stats struct {
	Instances        int // Instances cloned
	RefsCleared      int // Non-none Ref properties reset to none
	IDsRegenerated   int // UniqueId properties given a fresh value
	IDsOmitted       int // UniqueId properties dropped after a generator failure
	DanglingChildren int // Child links skipped because they did not resolve
}

// Add accumulates o into s.
func (s *Stats) Add(o Stats) {
	s.Instances += o.Instances
	s.RefsCleared += o.RefsCleared
	s.IDsRegenerated += o.IDsRegenerated
	s.IDsOmitted += o.IDsOmitted
	s.DanglingChildren += o.DanglingChildren
}

// Cloner copies subtrees of a source document. It only reads the source.
// A Cloner is not safe for concurrent use; give each worker its own.
type Cloner struct {
	src   *dom.Document
	ids   dom.IDGenerator
	stats Stats
}

// NewCloner returns a Cloner reading from src and stamping UniqueId
// properties with values from ids.
func NewCloner(src *dom.Document, ids dom.IDGenerator) *Cloner {
	return &Cloner{src: src, ids: ids}
}

// Stats returns the counts accumulated by all Clone calls so far.
func (c *Cloner) Stats() Stats { return c.stats }

// Clone returns a detached copy of inst and its resolvable descendants.
func (c *Cloner) Clone(inst *dom.Instance) *dom.Builder {
	b := dom.NewBuilder(inst.Class).WithName(inst.Name)

	for _, k := range inst.SortedKeys() {
		if k == UniqueIDKey {
			continue
		}
		v := inst.Properties[k]
		if r, ok := v.(dom.Ref); ok && !r.IsNone() {
			c.stats.RefsCleared++
		}
		b.WithProperty(k, Sanitize(k, v))
	}

	if old, ok := inst.Properties[UniqueIDKey]; ok {
		// A generated value equal to the old one would leak the source's
		// stamp into the copy, so it counts as a failure.
		if id, err := c.ids.Generate(); err == nil && !dom.Equal(id, old) {
			b.WithProperty(UniqueIDKey, id)
			c.stats.IDsRegenerated++
		} else {
			c.stats.IDsOmitted++
		}
	}

	for _, ref := range inst.Children() {
		child, ok := c.src.Get(ref)
		if !ok {
			c.stats.DanglingChildren++
			continue
		}
		b.WithChild(c.Clone(child))
	}

	c.stats.Instances++
	return b.WithReferent(dom.NewRef())
}
