package clone

import (
	"errors"
	"testing"

	"github.com/matzehuels/domclone/pkg/dom"
)

func TestClonerClone(t *testing.T) {
	src := dom.New(dom.NewBuilder("DataModel"))
	oldID := dom.UniqueID{Index: 9, Time: 9, Random: 9}
	target, _ := src.Insert(src.RootRef(), dom.NewBuilder("Part").WithName("Target"))
	ref, err := src.Insert(src.RootRef(), dom.NewBuilder("Model").
		WithName("House").
		WithProperty("PrimaryPart", target).
		WithProperty("Tag", dom.String("home")).
		WithProperty(UniqueIDKey, oldID).
		WithChild(dom.NewBuilder("Part").WithName("Wall")).
		WithChild(dom.NewBuilder("Part").WithName("Roof")))
	if err != nil {
		t.Fatalf("Insert() error = %v", err)
	}
	inst, _ := src.Get(ref)

	c := NewCloner(src, seqGenerator())
	b := c.Clone(inst)

	if b.Class() != "Model" || b.Name() != "House" {
		t.Errorf("clone = %s/%s, want Model/House", b.Class(), b.Name())
	}
	if b.Referent().IsNone() || b.Referent() == ref {
		t.Errorf("clone referent = %s, want fresh", b.Referent())
	}
	if v, _ := b.Property("PrimaryPart"); !dom.Equal(v, dom.NoneRef) {
		t.Errorf("PrimaryPart = %v, want null", v)
	}
	if v, _ := b.Property("Tag"); !dom.Equal(v, dom.String("home")) {
		t.Errorf("Tag = %v, want home", v)
	}
	v, ok := b.Property(UniqueIDKey)
	if !ok {
		t.Fatal("UniqueId missing")
	}
	if dom.Equal(v, oldID) {
		t.Error("UniqueId was copied, want regenerated")
	}

	children := b.Children()
	if len(children) != 2 || children[0].Name() != "Wall" || children[1].Name() != "Roof" {
		t.Fatalf("children out of order: %v", children)
	}

	want := Stats{Instances: 3, RefsCleared: 1, IDsRegenerated: 1}
	if got := c.Stats(); got != want {
		t.Errorf("Stats() = %+v, want %+v", got, want)
	}
}

func TestClonerUniqueIDOmitted(t *testing.T) {
	oldID := dom.UniqueID{Index: 1, Time: 2, Random: 3}

	tests := []struct {
		name string
		gen  dom.IDGenerator
	}{
		{"generator error", dom.GeneratorFunc(func() (dom.UniqueID, error) {
			return dom.UniqueID{}, errors.New("no entropy")
		})},
		{"stale value", dom.GeneratorFunc(func() (dom.UniqueID, error) {
			return oldID, nil
		})},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			src := dom.New(dom.NewBuilder("DataModel"))
			ref, _ := src.Insert(src.RootRef(), dom.NewBuilder("Part").WithProperty(UniqueIDKey, oldID))
			inst, _ := src.Get(ref)

			c := NewCloner(src, tt.gen)
			b := c.Clone(inst)
			if _, ok := b.Property(UniqueIDKey); ok {
				t.Error("UniqueId present, want omitted")
			}
			if got := c.Stats().IDsOmitted; got != 1 {
				t.Errorf("IDsOmitted = %d, want 1", got)
			}
		})
	}
}

func TestClonerNoUniqueID(t *testing.T) {
	calls := 0
	gen := dom.GeneratorFunc(func() (dom.UniqueID, error) {
		calls++
		return dom.UniqueID{Index: 1}, nil
	})
	src := dom.New(dom.NewBuilder("DataModel"))
	ref, _ := src.Insert(src.RootRef(), dom.NewBuilder("Folder"))
	inst, _ := src.Get(ref)

	b := NewCloner(src, gen).Clone(inst)
	if _, ok := b.Property(UniqueIDKey); ok {
		t.Error("UniqueId added to an instance that had none")
	}
	if calls != 0 {
		t.Errorf("generator called %d times, want 0", calls)
	}
}

func TestClonerDanglingChild(t *testing.T) {
	src := dom.New(dom.NewBuilder("DataModel"))
	parent := dom.NewRef()
	child := dom.NewRef()
	if _, err := src.AddInstance(parent, "Folder", "Parent", nil); err != nil {
		t.Fatal(err)
	}
	if _, err := src.AddInstance(child, "Part", "Child", nil); err != nil {
		t.Fatal(err)
	}
	for _, link := range [][2]dom.Ref{{src.RootRef(), parent}, {parent, dom.NewRef()}, {parent, child}} {
		if err := src.LinkChild(link[0], link[1]); err != nil {
			t.Fatalf("LinkChild() error = %v", err)
		}
	}
	inst, _ := src.Get(parent)

	c := NewCloner(src, seqGenerator())
	b := c.Clone(inst)
	if len(b.Children()) != 1 || b.Children()[0].Name() != "Child" {
		t.Fatalf("children = %v, want [Child]", b.Children())
	}
	if got := c.Stats().DanglingChildren; got != 1 {
		t.Errorf("DanglingChildren = %d, want 1", got)
	}
}

func TestStatsAdd(t *testing.T) {
	s := Stats{Instances: 1, RefsCleared: 2}
	s.Add(Stats{Instances: 3, IDsRegenerated: 1, IDsOmitted: 4, DanglingChildren: 5})
	want := Stats{Instances: 4, RefsCleared: 2, IDsRegenerated: 1, IDsOmitted: 4, DanglingChildren: 5}
	if s != want {
		t.Errorf("Add() = %+v, want %+v", s, want)
	}
}
