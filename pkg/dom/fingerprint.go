package dom

import (
	"encoding/binary"
	"hash"
	"math"

	"github.com/minio/blake2b-simd"
)

// UniqueIDProperty is the reserved property key holding an instance's
// [UniqueID].
const UniqueIDProperty = "UniqueId"

// Fingerprint hashes the subtree rooted at ref with BLAKE2b-256.
//
// The hash covers class, name, properties in key order and the ordered
// fingerprints of resolvable children. It ignores everything a faithful
// clone is allowed to change: referents, the targets of [Ref] values and the
// [UniqueIDProperty] property, including whether it is present. Two subtrees
// with equal fingerprints are clones of each other with overwhelming
// probability.
func Fingerprint(d *Document, ref Ref) [32]byte {
	var out [32]byte
	inst, ok := d.Get(ref)
	if !ok {
		return out
	}

	h := blake2b.New256()
	writeString(h, inst.Class)
	writeString(h, inst.Name)
	for _, k := range inst.SortedKeys() {
		if k == UniqueIDProperty {
			continue
		}
		writeString(h, k)
		h.Write(appendValue(nil, inst.Properties[k], false))
	}
	for _, c := range inst.children {
		if _, ok := d.Get(c); !ok {
			continue
		}
		sum := Fingerprint(d, c)
		h.Write(sum[:])
	}
	copy(out[:], h.Sum(nil))
	return out
}

func writeString(h hash.Hash, s string) {
	h.Write(appendString(nil, s))
}

// appendValue appends a canonical encoding of v to buf. Floats are encoded
// by bit pattern. Ref targets are included only when withRefs is set, since
// they are local to a document.
func appendValue(buf []byte, v Value, withRefs bool) []byte {
	buf = appendUint(buf, uint64(v.Type()))
	switch v := v.(type) {
	case String:
		buf = appendString(buf, string(v))
	case BinaryString:
		buf = appendString(buf, string(v))
	case Content:
		buf = appendString(buf, string(v))
	case ProtectedString:
		buf = appendString(buf, string(v))
	case SharedString:
		buf = appendString(buf, string(v))
	case Bool:
		buf = appendBool(buf, bool(v))
	case Int32:
		buf = appendUint(buf, uint64(v))
	case Int64:
		buf = appendUint(buf, uint64(v))
	case Token:
		buf = appendUint(buf, uint64(v))
	case Faces:
		buf = appendUint(buf, uint64(v))
	case Axes:
		buf = appendUint(buf, uint64(v))
	case SecurityCapabilities:
		buf = appendUint(buf, uint64(v))
	case Float32:
		buf = appendUint(buf, uint64(math.Float32bits(float32(v))))
	case Float64:
		buf = appendUint(buf, math.Float64bits(float64(v)))
	case Vector3:
		buf = appendFloats(buf, v.X, v.Y, v.Z)
	case Color3:
		buf = appendFloats(buf, v.R, v.G, v.B)
	case Vector2:
		buf = appendFloats(buf, v.X, v.Y)
	case Vector2int16:
		buf = appendUint(appendUint(buf, uint64(v.X)), uint64(v.Y))
	case Vector3int16:
		buf = appendUint(appendUint(appendUint(buf, uint64(v.X)), uint64(v.Y)), uint64(v.Z))
	case CFrame:
		buf = appendCFrame(buf, v)
	case OptionalCFrame:
		buf = appendBool(buf, v.Valid)
		if v.Valid {
			buf = appendCFrame(buf, v.Value)
		}
	case Ray:
		buf = appendFloats(buf, v.Origin.X, v.Origin.Y, v.Origin.Z, v.Direction.X, v.Direction.Y, v.Direction.Z)
	case UDim:
		buf = appendUint(appendFloats(buf, v.Scale), uint64(v.Offset))
	case UDim2:
		buf = appendUint(appendFloats(buf, v.X.Scale), uint64(v.X.Offset))
		buf = appendUint(appendFloats(buf, v.Y.Scale), uint64(v.Y.Offset))
	case Rect:
		buf = appendFloats(buf, v.Min.X, v.Min.Y, v.Max.X, v.Max.Y)
	case NumberRange:
		buf = appendFloats(buf, v.Min, v.Max)
	case NumberSequence:
		buf = appendUint(buf, uint64(len(v)))
		for _, k := range v {
			buf = appendFloats(buf, k.Time, k.Value, k.Envelope)
		}
	case ColorSequence:
		buf = appendUint(buf, uint64(len(v)))
		for _, k := range v {
			buf = appendFloats(buf, k.Time, k.Color.R, k.Color.G, k.Color.B, k.Envelope)
		}
	case Color3uint8:
		buf = append(buf, v.R, v.G, v.B)
	case PhysicalProperties:
		buf = appendBool(buf, v.Custom)
		if v.Custom {
			buf = appendFloats(buf, v.Density, v.Friction, v.Elasticity, v.FrictionWeight, v.ElasticityWeight)
		}
	case Font:
		buf = appendString(buf, v.Family)
		buf = appendUint(buf, uint64(v.Weight))
		buf = appendString(buf, v.Style)
		buf = appendString(buf, v.CachedFaceID)
	case Raw:
		buf = appendString(buf, v.Element)
		buf = appendString(buf, v.XML)
	case UniqueID:
		buf = appendString(buf, v.String())
	case Ref:
		if withRefs {
			buf = append(buf, v[:]...)
		}
	}
	return buf
}

func appendUint(buf []byte, n uint64) []byte {
	return binary.BigEndian.AppendUint64(buf, n)
}

func appendString(buf []byte, s string) []byte {
	return append(appendUint(buf, uint64(len(s))), s...)
}

func appendBool(buf []byte, b bool) []byte {
	if b {
		return appendUint(buf, 1)
	}
	return appendUint(buf, 0)
}

func appendFloats(buf []byte, fs ...float32) []byte {
	for _, f := range fs {
		buf = binary.BigEndian.AppendUint32(buf, math.Float32bits(f))
	}
	return buf
}

func appendCFrame(buf []byte, c CFrame) []byte {
	buf = appendFloats(buf, c.Position.X, c.Position.Y, c.Position.Z)
	return appendFloats(buf, c.Rotation[:]...)
}
