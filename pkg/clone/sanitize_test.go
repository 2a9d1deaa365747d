package clone

import (
	"testing"

	"github.com/matzehuels/domclone/pkg/dom"
)

func TestSanitize(t *testing.T) {
	tests := []struct {
		name string
		key  string
		in   dom.Value
		want dom.Value
	}{
		{"ref", "PrimaryPart", dom.NewRef(), dom.NoneRef},
		{"none ref", "PrimaryPart", dom.NoneRef, dom.NoneRef},
		{"string", "Tag", dom.String("x"), dom.String("x")},
		{"bool", "Anchored", dom.Bool(true), dom.Bool(true)},
		{"int64", "Count", dom.Int64(-3), dom.Int64(-3)},
		{"vector3", "Size", dom.Vector3{X: 1, Y: 2, Z: 3}, dom.Vector3{X: 1, Y: 2, Z: 3}},
		{"binary", "Data", dom.BinaryString{1, 2}, dom.BinaryString{1, 2}},
		{"unique id under other key", "Origin", dom.UniqueID{Index: 1}, dom.UniqueID{Index: 1}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Sanitize(tt.key, tt.in)
			if !dom.Equal(got, tt.want) {
				t.Errorf("Sanitize(%q, %v) = %v, want %v", tt.key, tt.in, got, tt.want)
			}
		})
	}
}
