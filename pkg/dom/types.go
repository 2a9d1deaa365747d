package dom

import (
	"encoding/base64"

	"github.com/minio/blake2b-simd"
)

// ProtectedString is script source text.
type ProtectedString string

// CFrame is a position and a row-major 3x3 rotation matrix.
type CFrame struct {
	Position Vector3
	Rotation [9]float32
}

// IdentityCFrame returns a CFrame at pos with no rotation.
func IdentityCFrame(pos Vector3) CFrame {
	return CFrame{Position: pos, Rotation: [9]float32{1, 0, 0, 0, 1, 0, 0, 0, 1}}
}

// OptionalCFrame is a CFrame that may be absent.
type OptionalCFrame struct {
	Value CFrame
	Valid bool
}

// Vector2 is a 2D vector.
type Vector2 struct{ X, Y float32 }

// Vector2int16 is a 2D vector of 16-bit integers.
type Vector2int16 struct{ X, Y int16 }

// Vector3int16 is a 3D vector of 16-bit integers.
type Vector3int16 struct{ X, Y, Z int16 }

// Ray is a half-line.
type Ray struct{ Origin, Direction Vector3 }

// UDim is a one-dimensional GUI measure.
type UDim struct {
	Scale  float32
	Offset int32
}

// UDim2 is a two-dimensional GUI measure.
type UDim2 struct{ X, Y UDim }

// Rect is an axis-aligned rectangle.
type Rect struct{ Min, Max Vector2 }

// NumberRange is a closed interval.
type NumberRange struct{ Min, Max float32 }

// NumberKeypoint is one point of a [NumberSequence].
type NumberKeypoint struct{ Time, Value, Envelope float32 }

// NumberSequence is a piecewise-linear curve over [0, 1].
type NumberSequence []NumberKeypoint

// ColorKeypoint is one point of a [ColorSequence].
type ColorKeypoint struct {
	Time     float32
	Color    Color3
	Envelope float32
}

// ColorSequence is a color gradient over [0, 1].
type ColorSequence []ColorKeypoint

// Color3uint8 is an RGB color with 8-bit components.
type Color3uint8 struct{ R, G, B uint8 }

// Faces is a bitmask over the six faces of a part: Right, Top, Back, Left,
// Bottom, Front from the least significant bit.
type Faces uint8

// Axes is a bitmask over X, Y and Z from the least significant bit.
type Axes uint8

// PhysicalProperties overrides a part's material physics when Custom is
// set. The remaining fields are meaningless otherwise.
type PhysicalProperties struct {
	Custom           bool
	Density          float32
	Friction         float32
	Elasticity       float32
	FrictionWeight   float32
	ElasticityWeight float32
}

// Font is a typeface reference.
type Font struct {
	Family       string
	Weight       uint16
	Style        string
	CachedFaceID string
}

// SharedString is a blob stored once per file and referenced by hash.
type SharedString []byte

// Hash returns the key under which s is stored in a file's shared string
// table: the base64 form of a 16-byte BLAKE2b digest.
func (s SharedString) Hash() string {
	sum := blake2b.Sum256(s)
	return base64.StdEncoding.EncodeToString(sum[:16])
}

// SecurityCapabilities is a capability bitmask.
type SecurityCapabilities uint64

// Raw is a property element of a type this package does not model. Element
// is the XML element name and XML its inner markup, both kept verbatim.
type Raw struct {
	Element string
	XML     string
}

func (ProtectedString) Type() Type      { return TypeProtectedString }
func (CFrame) Type() Type               { return TypeCFrame }
func (OptionalCFrame) Type() Type       { return TypeOptionalCFrame }
func (Vector2) Type() Type              { return TypeVector2 }
func (Vector2int16) Type() Type         { return TypeVector2int16 }
func (Vector3int16) Type() Type         { return TypeVector3int16 }
func (Ray) Type() Type                  { return TypeRay }
func (UDim) Type() Type                 { return TypeUDim }
func (UDim2) Type() Type                { return TypeUDim2 }
func (Rect) Type() Type                 { return TypeRect }
func (NumberRange) Type() Type          { return TypeNumberRange }
func (NumberSequence) Type() Type       { return TypeNumberSequence }
func (ColorSequence) Type() Type        { return TypeColorSequence }
func (Color3uint8) Type() Type          { return TypeColor3uint8 }
func (Faces) Type() Type                { return TypeFaces }
func (Axes) Type() Type                 { return TypeAxes }
func (PhysicalProperties) Type() Type   { return TypePhysicalProperties }
func (Font) Type() Type                 { return TypeFont }
func (SharedString) Type() Type         { return TypeSharedString }
func (SecurityCapabilities) Type() Type { return TypeSecurityCapabilities }
func (Raw) Type() Type                  { return TypeRaw }
