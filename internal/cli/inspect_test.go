package cli

import (
	"strings"
	"testing"

	"github.com/matzehuels/domclone/pkg/dom"
)

func sampleDocument(t *testing.T) *dom.Document {
	t.Helper()
	d := dom.New(dom.NewBuilder("DataModel"))
	folder, err := d.Insert(d.RootRef(), dom.NewBuilder("Folder").WithName("Assets").
		WithChild(dom.NewBuilder("Part").WithName("Brick").
			WithProperty(dom.UniqueIDProperty, dom.UniqueID{Index: 1})).
		WithChild(dom.NewBuilder("Part").WithName("Plate")))
	if err != nil {
		t.Fatal(err)
	}
	if _, err := d.Insert(d.RootRef(), dom.NewBuilder("Model").WithName("House").
		WithProperty("PrimaryPart", folder).
		WithProperty("Empty", dom.NoneRef).
		WithProperty("Origin", dom.UniqueID{Index: 2})); err != nil {
		t.Fatal(err)
	}
	if err := d.LinkChild(folder, dom.NewRef()); err != nil {
		t.Fatal(err)
	}
	return d
}

func TestSummarize(t *testing.T) {
	s := summarize(sampleDocument(t))

	if s.Instances != 4 || s.TopLevel != 2 || s.MaxDepth != 2 {
		t.Errorf("summarize() = %d instances, %d top-level, depth %d; want 4, 2, 2", s.Instances, s.TopLevel, s.MaxDepth)
	}
	if s.UniqueIDs != 1 {
		t.Errorf("UniqueIDs = %d, want 1", s.UniqueIDs)
	}
	if s.Refs != 1 {
		t.Errorf("Refs = %d, want 1", s.Refs)
	}
	if s.Dangling != 1 {
		t.Errorf("Dangling = %d, want 1", s.Dangling)
	}

	want := []classCount{
		{Class: "Part", Instances: 2, UniqueIDs: 1},
		{Class: "Folder", Instances: 1},
		{Class: "Model", Instances: 1, Refs: 1},
	}
	if len(s.Classes) != len(want) {
		t.Fatalf("Classes = %+v, want %+v", s.Classes, want)
	}
	for i := range want {
		if s.Classes[i] != want[i] {
			t.Errorf("Classes[%d] = %+v, want %+v", i, s.Classes[i], want[i])
		}
	}
}

func TestSummarizeEmpty(t *testing.T) {
	s := summarize(dom.New(dom.NewBuilder("DataModel")))
	if s.Instances != 0 || len(s.Classes) != 0 {
		t.Errorf("summarize(empty) = %+v", s)
	}
}

func TestRenderClassTable(t *testing.T) {
	out := renderClassTable([]classCount{{Class: "Part", Instances: 12, UniqueIDs: 3}})
	for _, want := range []string{"Class", "Instances", "Part", "12"} {
		if !strings.Contains(out, want) {
			t.Errorf("table missing %q:\n%s", want, out)
		}
	}
}
