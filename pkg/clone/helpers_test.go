package clone

import (
	"encoding/hex"
	"fmt"
	"io"
	"math"
	"math/rand"
	"sort"
	"sync/atomic"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/domclone/pkg/dom"
	"github.com/matzehuels/domclone/pkg/observability"
)

// seqGenerator returns a deterministic generator whose values never collide
// with the ids produced by randomDocument.
func seqGenerator() dom.IDGenerator {
	var n atomic.Uint32
	return dom.GeneratorFunc(func() (dom.UniqueID, error) {
		i := n.Add(1)
		return dom.UniqueID{Index: i, Time: 1, Random: int64(i) * 7919}, nil
	})
}

func testOptions(batch int) Options {
	return Options{
		BatchSize: batch,
		Workers:   4,
		Generator: seqGenerator(),
		Logger:    log.New(io.Discard),
		Hooks:     observability.NoopCloneHooks{},
	}
}

var testClasses = []string{"Folder", "Part", "Model", "Script", "Sound"}

// randomDocument builds a pseudo-random document with n top-level subtrees,
// some UniqueId properties and Ref properties pointing anywhere in the tree.
func randomDocument(seed int64, n int) *dom.Document {
	rng := rand.New(rand.NewSource(seed))
	d := dom.New(dom.NewBuilder("DataModel"))

	var build func(depth int) *dom.Builder
	build = func(depth int) *dom.Builder {
		b := dom.NewBuilder(testClasses[rng.Intn(len(testClasses))]).
			WithName(fmt.Sprintf("n%d", rng.Intn(1000))).
			WithProperty("Tag", dom.String(fmt.Sprintf("t%d", rng.Intn(50))))
		if rng.Intn(2) == 0 {
			b.WithProperty(UniqueIDKey, dom.UniqueID{
				Index:  uint32(rng.Intn(1_000_000)),
				Time:   5,
				Random: rng.Int63(),
			})
		}
		if rng.Intn(3) == 0 {
			b.WithProperty("Size", dom.Vector3{X: rng.Float32(), Y: 1, Z: 2})
		}
		if rng.Intn(4) == 0 {
			b.WithProperty("Anchored", dom.Bool(true))
		}
		if rng.Intn(5) == 0 {
			b.WithProperty("CFrame", dom.IdentityCFrame(dom.Vector3{X: rng.Float32()}))
		}
		if rng.Intn(8) == 0 {
			b.WithProperty("Transparency", dom.Float32(float32(math.NaN())))
		}
		if depth < 3 {
			for i := rng.Intn(3); i > 0; i-- {
				b.WithChild(build(depth + 1))
			}
		}
		return b
	}
	for i := 0; i < n; i++ {
		if _, err := d.Insert(d.RootRef(), build(0)); err != nil {
			panic(err)
		}
	}

	var all []*dom.Instance
	d.Walk(d.RootRef(), func(inst *dom.Instance) bool {
		all = append(all, inst)
		return true
	})
	for _, inst := range all {
		if rng.Intn(3) == 0 {
			inst.Properties["Target"] = all[rng.Intn(len(all))].Referent()
		}
	}
	return d
}

// reachable counts the instances reachable from d's root, root excluded.
func reachable(d *dom.Document) int {
	n := -1
	d.Walk(d.RootRef(), func(*dom.Instance) bool {
		n++
		return true
	})
	return n
}

// topLevelPrints returns the sorted fingerprints of the root's resolvable
// children, so two documents can be compared as multisets.
func topLevelPrints(d *dom.Document) []string {
	var out []string
	for _, r := range d.Root().Children() {
		if _, ok := d.Get(r); !ok {
			continue
		}
		fp := dom.Fingerprint(d, r)
		out = append(out, hex.EncodeToString(fp[:]))
	}
	sort.Strings(out)
	return out
}

func topLevelNames(d *dom.Document) []string {
	var out []string
	for _, r := range d.Root().Children() {
		if inst, ok := d.Get(r); ok {
			out = append(out, inst.Name)
		}
	}
	return out
}
