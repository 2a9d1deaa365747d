package dom

import (
	"bytes"
	"fmt"
)

// Type identifies a [Value] variant.
type Type int

// Value variants.
const (
	TypeString Type = iota + 1
	TypeBinaryString
	TypeContent
	TypeBool
	TypeInt32
	TypeInt64
	TypeFloat32
	TypeFloat64
	TypeToken
	TypeVector3
	TypeColor3
	TypeRef
	TypeUniqueID
	TypeProtectedString
	TypeCFrame
	TypeOptionalCFrame
	TypeVector2
	TypeVector2int16
	TypeVector3int16
	TypeRay
	TypeUDim
	TypeUDim2
	TypeRect
	TypeNumberRange
	TypeNumberSequence
	TypeColorSequence
	TypeColor3uint8
	TypeFaces
	TypeAxes
	TypePhysicalProperties
	TypeFont
	TypeSharedString
	TypeSecurityCapabilities
	TypeRaw
)

var typeNames = map[Type]string{
	TypeString:               "String",
	TypeBinaryString:         "BinaryString",
	TypeContent:              "Content",
	TypeBool:                 "Bool",
	TypeInt32:                "Int32",
	TypeInt64:                "Int64",
	TypeFloat32:              "Float32",
	TypeFloat64:              "Float64",
	TypeToken:                "Token",
	TypeVector3:              "Vector3",
	TypeColor3:               "Color3",
	TypeRef:                  "Ref",
	TypeUniqueID:             "UniqueId",
	TypeProtectedString:      "ProtectedString",
	TypeCFrame:               "CFrame",
	TypeOptionalCFrame:       "OptionalCFrame",
	TypeVector2:              "Vector2",
	TypeVector2int16:         "Vector2int16",
	TypeVector3int16:         "Vector3int16",
	TypeRay:                  "Ray",
	TypeUDim:                 "UDim",
	TypeUDim2:                "UDim2",
	TypeRect:                 "Rect",
	TypeNumberRange:          "NumberRange",
	TypeNumberSequence:       "NumberSequence",
	TypeColorSequence:        "ColorSequence",
	TypeColor3uint8:          "Color3uint8",
	TypeFaces:                "Faces",
	TypeAxes:                 "Axes",
	TypePhysicalProperties:   "PhysicalProperties",
	TypeFont:                 "Font",
	TypeSharedString:         "SharedString",
	TypeSecurityCapabilities: "SecurityCapabilities",
	TypeRaw:                  "Raw",
}

// String returns the canonical variant name, e.g. "Vector3".
func (t Type) String() string {
	if s, ok := typeNames[t]; ok {
		return s
	}
	return fmt.Sprintf("Type(%d)", int(t))
}

// ParseType is the inverse of [Type.String].
func ParseType(s string) (Type, bool) {
	for t, name := range typeNames {
		if name == s {
			return t, true
		}
	}
	return 0, false
}

// Value is a property value. The set of implementations is closed to this
// package. Values are immutable once stored in a document; slice-backed
// variants may be shared between documents.
type Value interface {
	Type() Type
}

type (
	// String is UTF-8 text.
	String string
	// BinaryString is an opaque byte blob.
	BinaryString []byte
	// Content is an asset URI.
	Content string
	// Bool is a boolean.
	Bool bool
	// Int32 is a 32-bit signed integer.
	Int32 int32
	// Int64 is a 64-bit signed integer.
	Int64 int64
	// Float32 is a single-precision float.
	Float32 float32
	// Float64 is a double-precision float.
	Float64 float64
	// Token is an enum value.
	Token uint32
)

// Vector3 is a 3D vector.
type Vector3 struct{ X, Y, Z float32 }

// Color3 is an RGB color with components in [0, 1].
type Color3 struct{ R, G, B float32 }

func (String) Type() Type       { return TypeString }
func (BinaryString) Type() Type { return TypeBinaryString }
func (Content) Type() Type      { return TypeContent }
func (Bool) Type() Type         { return TypeBool }
func (Int32) Type() Type        { return TypeInt32 }
func (Int64) Type() Type        { return TypeInt64 }
func (Float32) Type() Type      { return TypeFloat32 }
func (Float64) Type() Type      { return TypeFloat64 }
func (Token) Type() Type        { return TypeToken }
func (Vector3) Type() Type      { return TypeVector3 }
func (Color3) Type() Type       { return TypeColor3 }

// Equal reports whether a and b are the same variant holding the same data.
// Floats compare by bit pattern: a NaN equals an identical NaN, and 0 and
// -0 differ. Ref values compare by target.
func Equal(a, b Value) bool {
	if a == nil || b == nil {
		return a == nil && b == nil
	}
	if a.Type() != b.Type() {
		return false
	}
	return bytes.Equal(appendValue(nil, a, true), appendValue(nil, b, true))
}
