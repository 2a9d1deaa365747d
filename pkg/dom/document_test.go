package dom

import (
	"errors"
	"testing"
)

func TestNewDocument(t *testing.T) {
	d := New(NewBuilder("DataModel"))

	if d.Len() != 1 {
		t.Fatalf("Len() = %d, want 1", d.Len())
	}
	root := d.Root()
	if root == nil {
		t.Fatal("Root() returned nil")
	}
	if root.Class != "DataModel" || root.Name != "DataModel" {
		t.Errorf("root = %s/%s, want DataModel/DataModel", root.Class, root.Name)
	}
	if root.Referent() != d.RootRef() {
		t.Error("root referent does not match RootRef()")
	}
	if !root.Parent().IsNone() {
		t.Error("root should have no parent")
	}
}

func TestInsert(t *testing.T) {
	d := New(NewBuilder("DataModel"))
	b := NewBuilder("Folder").
		WithName("Assets").
		WithProperty("Tag", String("x")).
		WithChild(NewBuilder("Part").WithName("P1")).
		WithChild(NewBuilder("Part").WithName("P2"))

	ref, err := d.Insert(d.RootRef(), b)
	if err != nil {
		t.Fatalf("Insert() error = %v", err)
	}
	if d.Len() != 4 {
		t.Errorf("Len() = %d, want 4", d.Len())
	}

	folder, ok := d.Get(ref)
	if !ok {
		t.Fatal("inserted folder not found")
	}
	if folder.Parent() != d.RootRef() {
		t.Error("folder parent should be root")
	}
	if got := folder.Properties["Tag"]; !Equal(got, String("x")) {
		t.Errorf("Tag = %v, want x", got)
	}
	if len(folder.Children()) != 2 {
		t.Fatalf("folder children = %d, want 2", len(folder.Children()))
	}
	for i, want := range []string{"P1", "P2"} {
		c, ok := d.Get(folder.Children()[i])
		if !ok || c.Name != want {
			t.Errorf("child %d = %v, want %s", i, c, want)
		}
		if c.Parent() != ref {
			t.Errorf("child %d parent mismatch", i)
		}
	}

	// The builder's property map is copied, not aliased.
	b.WithProperty("Tag", String("changed"))
	if got := folder.Properties["Tag"]; !Equal(got, String("x")) {
		t.Errorf("Tag after builder mutation = %v, want x", got)
	}
}

func TestInsertErrors(t *testing.T) {
	d := New(NewBuilder("DataModel"))

	if _, err := d.Insert(NewRef(), NewBuilder("Folder")); !errors.Is(err, ErrUnknownParent) {
		t.Errorf("unknown parent: err = %v, want ErrUnknownParent", err)
	}

	fixed := NewRef()
	if _, err := d.Insert(d.RootRef(), NewBuilder("Folder").WithReferent(fixed)); err != nil {
		t.Fatalf("Insert() error = %v", err)
	}
	before := d.Len()
	dup := NewBuilder("Model").
		WithChild(NewBuilder("Part")).
		WithChild(NewBuilder("Part").WithReferent(fixed))
	if _, err := d.Insert(d.RootRef(), dup); !errors.Is(err, ErrDuplicateRef) {
		t.Errorf("duplicate referent: err = %v, want ErrDuplicateRef", err)
	}
	if d.Len() != before {
		t.Errorf("failed Insert changed the document: Len() = %d, want %d", d.Len(), before)
	}
}

func TestLinkChildDangling(t *testing.T) {
	d := New(NewBuilder("DataModel"))
	a := NewRef()
	if _, err := d.AddInstance(a, "Folder", "A", nil); err != nil {
		t.Fatal(err)
	}
	if err := d.LinkChild(d.RootRef(), a); err != nil {
		t.Fatal(err)
	}
	missing := NewRef()
	if err := d.LinkChild(a, missing); err != nil {
		t.Fatalf("dangling link should be accepted, got %v", err)
	}
	if err := d.LinkChild(d.RootRef(), a); !errors.Is(err, ErrAlreadyParented) {
		t.Errorf("second parent: err = %v, want ErrAlreadyParented", err)
	}
	if err := d.LinkChild(a, d.RootRef()); !errors.Is(err, ErrAlreadyParented) {
		t.Errorf("root as child: err = %v, want ErrAlreadyParented", err)
	}

	var visited []string
	d.Walk(d.RootRef(), func(inst *Instance) bool {
		visited = append(visited, inst.Class)
		return true
	})
	if len(visited) != 2 {
		t.Errorf("Walk visited %v, want [DataModel Folder]", visited)
	}

	dangling := d.Dangling(d.RootRef())
	if len(dangling) != 1 || dangling[0] != missing {
		t.Errorf("Dangling() = %v, want [%v]", dangling, missing)
	}
}

func TestAddInstanceErrors(t *testing.T) {
	d := New(NewBuilder("DataModel"))
	if _, err := d.AddInstance(NoneRef, "Folder", "A", nil); !errors.Is(err, ErrNoneRef) {
		t.Errorf("none ref: err = %v, want ErrNoneRef", err)
	}
	if _, err := d.AddInstance(d.RootRef(), "Folder", "A", nil); !errors.Is(err, ErrDuplicateRef) {
		t.Errorf("duplicate: err = %v, want ErrDuplicateRef", err)
	}
}

func TestWalkSkip(t *testing.T) {
	d := New(NewBuilder("DataModel").
		WithChild(NewBuilder("Folder").WithChild(NewBuilder("Part"))).
		WithChild(NewBuilder("Model")))

	var visited []string
	d.Walk(d.RootRef(), func(inst *Instance) bool {
		visited = append(visited, inst.Class)
		return inst.Class != "Folder"
	})
	want := []string{"DataModel", "Folder", "Model"}
	if len(visited) != len(want) {
		t.Fatalf("visited = %v, want %v", visited, want)
	}
	for i := range want {
		if visited[i] != want[i] {
			t.Errorf("visited[%d] = %s, want %s", i, visited[i], want[i])
		}
	}
}

func TestSortedKeys(t *testing.T) {
	inst := &Instance{Properties: map[string]Value{
		"Zeta":  Bool(true),
		"Alpha": Int32(1),
		"Mid":   String("m"),
	}}
	got := inst.SortedKeys()
	want := []string{"Alpha", "Mid", "Zeta"}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("SortedKeys() = %v, want %v", got, want)
		}
	}
}

func TestBuilderLen(t *testing.T) {
	b := NewBuilder("Model").
		WithChild(NewBuilder("Part")).
		WithChild(NewBuilder("Folder").WithChild(NewBuilder("Part")))
	if b.Len() != 4 {
		t.Errorf("Len() = %d, want 4", b.Len())
	}
}
