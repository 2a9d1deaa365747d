package clone

import (
	"fmt"
	"maps"
	"strings"

	"github.com/matzehuels/domclone/pkg/dom"
	"github.com/matzehuels/domclone/pkg/errors"
)

// maxReported caps the problems listed in a verification error message.
const maxReported = 10

// Verify checks that dst is a faithful clone of src: no referent is shared,
// the top-level subtrees match up to order, every Ref property is none,
// every UniqueId is absent or differs from its source, and all other
// properties are equal. Below the top level, child order must match.
// File-level metadata must be carried over unchanged.
func Verify(src, dst *dom.Document) error {
	v := &verifier{src: src, dst: dst}
	v.check()
	if len(v.problems) == 0 {
		return nil
	}
	shown := v.problems
	if len(shown) > maxReported {
		shown = shown[:maxReported]
	}
	msg := strings.Join(shown, "; ")
	if extra := len(v.problems) - len(shown); extra > 0 {
		msg += fmt.Sprintf("; and %d more", extra)
	}
	return errors.New(errors.ErrCodeVerification, "%d problem(s): %s", len(v.problems), msg)
}

type verifier struct {
	src, dst *dom.Document
	problems []string
}

func (v *verifier) addf(format string, args ...any) {
	v.problems = append(v.problems, fmt.Sprintf(format, args...))
}

func (v *verifier) check() {
	if !maps.Equal(v.src.Metadata, v.dst.Metadata) {
		v.addf("metadata differs")
	}
	for _, r := range v.dst.Refs() {
		if _, ok := v.src.Get(r); ok {
			v.addf("referent %s shared with source", r)
		}
	}

	byPrint := make(map[[32]byte][]dom.Ref)
	for _, r := range resolvable(v.dst, v.dst.RootRef()) {
		fp := dom.Fingerprint(v.dst, r)
		byPrint[fp] = append(byPrint[fp], r)
	}

	var srcTop []dom.Ref
	if v.src.Root() != nil {
		srcTop = resolvable(v.src, v.src.RootRef())
	}
	for _, s := range srcTop {
		fp := dom.Fingerprint(v.src, s)
		matches := byPrint[fp]
		inst, _ := v.src.Get(s)
		if len(matches) == 0 {
			v.addf("no copy of %s %q", inst.Class, inst.Name)
			continue
		}
		byPrint[fp] = matches[1:]
		v.compare(s, matches[0])
	}
	for _, refs := range byPrint {
		for _, r := range refs {
			inst, _ := v.dst.Get(r)
			v.addf("unexpected %s %q", inst.Class, inst.Name)
		}
	}
}

// compare checks a matched pair of instances and recurses into children
// pairwise.
func (v *verifier) compare(s, d dom.Ref) {
	si, _ := v.src.Get(s)
	di, _ := v.dst.Get(d)
	path := fmt.Sprintf("%s %q", si.Class, si.Name)

	if si.Class != di.Class || si.Name != di.Name {
		v.addf("%s copied as %s %q", path, di.Class, di.Name)
	}

	for _, k := range di.SortedKeys() {
		if _, ok := si.Properties[k]; !ok {
			v.addf("%s: unexpected property %q", path, k)
		}
	}
	for _, k := range si.SortedKeys() {
		sv := si.Properties[k]
		dv, ok := di.Properties[k]
		switch {
		case k == UniqueIDKey:
			if ok && dom.Equal(sv, dv) {
				v.addf("%s: %s not regenerated", path, k)
			}
			if ok && dv.Type() != dom.TypeUniqueID {
				v.addf("%s: %s has type %s", path, k, dv.Type())
			}
		case !ok:
			v.addf("%s: missing property %q", path, k)
		case sv.Type() == dom.TypeRef:
			if r, isRef := dv.(dom.Ref); !isRef || !r.IsNone() {
				v.addf("%s: reference %q not cleared", path, k)
			}
		case !dom.Equal(sv, dv):
			v.addf("%s: property %q differs", path, k)
		}
	}

	sc, dc := resolvable(v.src, s), resolvable(v.dst, d)
	if len(sc) != len(dc) {
		v.addf("%s: %d children copied as %d", path, len(sc), len(dc))
		return
	}
	for i := range sc {
		v.compare(sc[i], dc[i])
	}
}

// resolvable returns the children of ref that exist in d, in order.
func resolvable(d *dom.Document, ref dom.Ref) []dom.Ref {
	inst, ok := d.Get(ref)
	if !ok {
		return nil
	}
	out := make([]dom.Ref, 0, len(inst.Children()))
	for _, c := range inst.Children() {
		if _, ok := d.Get(c); ok {
			out = append(out, c)
		}
	}
	return out
}
