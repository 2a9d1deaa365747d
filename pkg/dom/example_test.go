package dom_test

import (
	"fmt"

	"github.com/matzehuels/domclone/pkg/dom"
)

func ExampleDocument_Insert() {
	doc := dom.New(dom.NewBuilder("DataModel"))
	_, _ = doc.Insert(doc.RootRef(), dom.NewBuilder("Folder").
		WithName("Assets").
		WithProperty("Tag", dom.String("x")).
		WithChild(dom.NewBuilder("Part").WithName("Brick")))

	doc.Walk(doc.RootRef(), func(inst *dom.Instance) bool {
		fmt.Println(inst.Class, inst.Name, len(inst.Children()))
		return true
	})
	// Output:
	// DataModel DataModel 1
	// Folder Assets 1
	// Part Brick 0
}
