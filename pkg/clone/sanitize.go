package clone

import "github.com/matzehuels/domclone/pkg/dom"

// UniqueIDKey is the reserved property regenerated on every cloned instance.
const UniqueIDKey = dom.UniqueIDProperty

// Sanitize returns the value a clone stores under key. References are reset
// to the none sentinel since their targets belong to the source document;
// every other value is returned unchanged.
//
// Sanitize must not be called for [UniqueIDKey]; the [Cloner] regenerates
// that property itself.
func Sanitize(key string, v dom.Value) dom.Value {
	if _, ok := v.(dom.Ref); ok {
		return dom.NoneRef
	}
	return v
}
