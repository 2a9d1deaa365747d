package dom

import (
	"encoding/hex"
	"fmt"
	"strings"

	"github.com/google/uuid"
)

// refPrefix is prepended to the hex form of a referent in serialized documents.
const refPrefix = "RBX"

// Ref identifies an instance within one document. The zero value is the
// "no reference" sentinel.
type Ref [16]byte

// NoneRef is the "no reference" sentinel.
var NoneRef Ref

// NewRef mints a random referent. The probability of two calls returning the
// same value, or of returning [NoneRef], is negligible.
func NewRef() Ref {
	return Ref(uuid.New())
}

// IsNone reports whether r is the "no reference" sentinel.
func (r Ref) IsNone() bool { return r == NoneRef }

// Type implements [Value].
func (Ref) Type() Type { return TypeRef }

// String returns "RBX" followed by 32 upper-case hex digits, or "null" for
// the sentinel.
func (r Ref) String() string {
	if r.IsNone() {
		return "null"
	}
	return refPrefix + strings.ToUpper(hex.EncodeToString(r[:]))
}

// ParseRef parses the output of [Ref.String].
func ParseRef(s string) (Ref, error) {
	if s == "" || s == "null" {
		return NoneRef, nil
	}
	if !strings.HasPrefix(s, refPrefix) || len(s) != len(refPrefix)+32 {
		return NoneRef, fmt.Errorf("invalid referent %q", s)
	}
	var r Ref
	if _, err := hex.Decode(r[:], []byte(s[len(refPrefix):])); err != nil {
		return NoneRef, fmt.Errorf("invalid referent %q: %w", s, err)
	}
	return r, nil
}
