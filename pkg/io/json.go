package io

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"maps"
	"math"
	"strconv"

	"github.com/matzehuels/domclone/pkg/dom"
)

type document struct {
	Meta      map[string]string `json:"meta,omitempty"`
	Roots     []string          `json:"roots"`
	Instances []instance        `json:"instances"`
}

type instance struct {
	Referent   string              `json:"referent"`
	Class      string              `json:"class"`
	Name       string              `json:"name"`
	Properties map[string]property `json:"properties,omitempty"`
	Children   []string            `json:"children,omitempty"`
}

type property struct {
	Type  string          `json:"type"`
	Value json.RawMessage `json:"value"`
}

type jsonFont struct {
	Family       string `json:"family"`
	Weight       uint16 `json:"weight"`
	Style        string `json:"style"`
	CachedFaceID string `json:"cachedFaceId,omitempty"`
}

type jsonRaw struct {
	Element string `json:"element"`
	XML     string `json:"xml"`
}

// WriteJSON encodes the subtrees rooted at refs as JSON and writes them to w.
// Instances are listed in depth-first pre-order; map keys (and therefore
// property keys) are sorted by encoding/json. Non-finite floats are written
// as the strings "NaN", "+Inf" and "-Inf". Document metadata goes under
// "meta".
func WriteJSON(w io.Writer, doc *dom.Document, refs []dom.Ref) error {
	out := document{Roots: []string{}, Instances: []instance{}}
	if len(doc.Metadata) > 0 {
		out.Meta = doc.Metadata
	}
	for _, r := range refs {
		if _, ok := doc.Get(r); ok {
			out.Roots = append(out.Roots, r.String())
		}
	}
	for _, inst := range collect(doc, refs) {
		nd := instance{
			Referent: inst.Referent().String(),
			Class:    inst.Class,
			Name:     inst.Name,
		}
		if len(inst.Properties) > 0 {
			nd.Properties = make(map[string]property, len(inst.Properties))
			for k, v := range inst.Properties {
				p, err := encodeJSONValue(v)
				if err != nil {
					return fmt.Errorf("instance %s property %s: %w", nd.Referent, k, err)
				}
				nd.Properties[k] = p
			}
		}
		for _, c := range inst.Children() {
			nd.Children = append(nd.Children, c.String())
		}
		out.Instances = append(out.Instances, nd)
	}

	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(out); err != nil {
		return fmt.Errorf("encode: %w", err)
	}
	return nil
}

// ReadJSON decodes a JSON document from r.
//
// Every instance must have a canonical, unique referent. Roots and child
// links that do not resolve to a listed instance are kept as dangling links;
// an instance linked from two places is an error. ReadJSON does not close r.
func ReadJSON(r io.Reader) (*dom.Document, error) {
	var data document
	if err := json.NewDecoder(r).Decode(&data); err != nil {
		return nil, fmt.Errorf("decode: %w", err)
	}

	doc := dom.New(dom.NewBuilder(RootClass))
	maps.Copy(doc.Metadata, data.Meta)
	refs := make([]dom.Ref, len(data.Instances))
	for i, n := range data.Instances {
		ref, err := parseCanonicalRef(n.Referent)
		if err != nil {
			return nil, fmt.Errorf("instance %d: %w", i, err)
		}
		props := make(map[string]dom.Value, len(n.Properties))
		for k, p := range n.Properties {
			v, err := decodeJSONValue(p)
			if err != nil {
				return nil, fmt.Errorf("instance %s property %s: %w", n.Referent, k, err)
			}
			props[k] = v
		}
		if _, err := doc.AddInstance(ref, n.Class, n.Name, props); err != nil {
			return nil, fmt.Errorf("instance %s: %w", n.Referent, err)
		}
		refs[i] = ref
	}

	for _, s := range data.Roots {
		ref, err := parseCanonicalRef(s)
		if err != nil {
			return nil, fmt.Errorf("root: %w", err)
		}
		if err := doc.LinkChild(doc.RootRef(), ref); err != nil {
			return nil, fmt.Errorf("root %s: %w", s, err)
		}
	}
	for i, n := range data.Instances {
		for _, s := range n.Children {
			child, err := parseCanonicalRef(s)
			if err != nil {
				return nil, fmt.Errorf("instance %s child: %w", n.Referent, err)
			}
			if err := doc.LinkChild(refs[i], child); err != nil {
				return nil, fmt.Errorf("instance %s child %s: %w", n.Referent, s, err)
			}
		}
	}
	return doc, nil
}

func parseCanonicalRef(s string) (dom.Ref, error) {
	ref, err := dom.ParseRef(s)
	if err != nil {
		return dom.NoneRef, err
	}
	if ref.IsNone() {
		return dom.NoneRef, dom.ErrNoneRef
	}
	return ref, nil
}

func encodeJSONValue(v dom.Value) (property, error) {
	var payload any
	switch v := v.(type) {
	case dom.String, dom.ProtectedString, dom.Content, dom.Bool, dom.Int32, dom.Int64, dom.Token,
		dom.Faces, dom.Axes, dom.SecurityCapabilities, dom.Vector2int16, dom.Vector3int16:
		payload = v
	case dom.BinaryString:
		payload = []byte(v)
	case dom.SharedString:
		payload = []byte(v)
	case dom.Float32:
		payload = jsonFloat(float64(v), 32)
	case dom.Float64:
		payload = jsonFloat(float64(v), 64)
	case dom.Vector3:
		payload = jsonFloats(v.X, v.Y, v.Z)
	case dom.Color3:
		payload = jsonFloats(v.R, v.G, v.B)
	case dom.Vector2:
		payload = jsonFloats(v.X, v.Y)
	case dom.CFrame:
		payload = jsonCFrame(v)
	case dom.OptionalCFrame:
		if v.Valid {
			payload = jsonCFrame(v.Value)
		}
	case dom.Ray:
		payload = jsonFloats(v.Origin.X, v.Origin.Y, v.Origin.Z, v.Direction.X, v.Direction.Y, v.Direction.Z)
	case dom.UDim:
		payload = []any{jsonFloat(float64(v.Scale), 32), v.Offset}
	case dom.UDim2:
		payload = []any{jsonFloat(float64(v.X.Scale), 32), v.X.Offset, jsonFloat(float64(v.Y.Scale), 32), v.Y.Offset}
	case dom.Rect:
		payload = jsonFloats(v.Min.X, v.Min.Y, v.Max.X, v.Max.Y)
	case dom.NumberRange:
		payload = jsonFloats(v.Min, v.Max)
	case dom.NumberSequence:
		rows := make([][]any, len(v))
		for i, k := range v {
			rows[i] = jsonFloats(k.Time, k.Value, k.Envelope)
		}
		payload = rows
	case dom.ColorSequence:
		rows := make([][]any, len(v))
		for i, k := range v {
			rows[i] = jsonFloats(k.Time, k.Color.R, k.Color.G, k.Color.B, k.Envelope)
		}
		payload = rows
	case dom.Color3uint8:
		payload = [3]uint8{v.R, v.G, v.B}
	case dom.PhysicalProperties:
		if v.Custom {
			payload = jsonFloats(v.Density, v.Friction, v.Elasticity, v.FrictionWeight, v.ElasticityWeight)
		}
	case dom.Font:
		payload = jsonFont{Family: v.Family, Weight: v.Weight, Style: v.Style, CachedFaceID: v.CachedFaceID}
	case dom.Raw:
		payload = jsonRaw{Element: v.Element, XML: v.XML}
	case dom.Ref:
		if v.IsNone() {
			payload = nil
		} else {
			payload = v.String()
		}
	case dom.UniqueID:
		payload = v.String()
	default:
		return property{}, fmt.Errorf("unsupported value %T", v)
	}
	raw, err := json.Marshal(payload)
	if err != nil {
		return property{}, err
	}
	return property{Type: v.Type().String(), Value: raw}, nil
}

// jsonFloat returns f as a json.Number, or a string for non-finite values.
func jsonFloat(f float64, bits int) any {
	if math.IsNaN(f) || math.IsInf(f, 0) {
		return strconv.FormatFloat(f, 'g', -1, bits)
	}
	return json.Number(strconv.FormatFloat(f, 'g', -1, bits))
}

func jsonFloats(fs ...float32) []any {
	out := make([]any, len(fs))
	for i, f := range fs {
		out[i] = jsonFloat(float64(f), 32)
	}
	return out
}

func jsonCFrame(c dom.CFrame) []any {
	return jsonFloats(append([]float32{c.Position.X, c.Position.Y, c.Position.Z}, c.Rotation[:]...)...)
}

func decodeJSONValue(p property) (dom.Value, error) {
	typ, ok := dom.ParseType(p.Type)
	if !ok {
		return nil, fmt.Errorf("unknown type %q", p.Type)
	}
	switch typ {
	case dom.TypeString:
		var s string
		err := json.Unmarshal(p.Value, &s)
		return dom.String(s), err
	case dom.TypeProtectedString:
		var s string
		err := json.Unmarshal(p.Value, &s)
		return dom.ProtectedString(s), err
	case dom.TypeContent:
		var s string
		err := json.Unmarshal(p.Value, &s)
		return dom.Content(s), err
	case dom.TypeBinaryString:
		var b []byte
		err := json.Unmarshal(p.Value, &b)
		return dom.BinaryString(b), err
	case dom.TypeSharedString:
		var b []byte
		err := json.Unmarshal(p.Value, &b)
		return dom.SharedString(b), err
	case dom.TypeBool:
		var b bool
		err := json.Unmarshal(p.Value, &b)
		return dom.Bool(b), err
	case dom.TypeInt32:
		var n int32
		err := json.Unmarshal(p.Value, &n)
		return dom.Int32(n), err
	case dom.TypeInt64:
		var n int64
		err := json.Unmarshal(p.Value, &n)
		return dom.Int64(n), err
	case dom.TypeToken:
		var n uint32
		err := json.Unmarshal(p.Value, &n)
		return dom.Token(n), err
	case dom.TypeFaces:
		var n uint8
		err := json.Unmarshal(p.Value, &n)
		return dom.Faces(n), err
	case dom.TypeAxes:
		var n uint8
		err := json.Unmarshal(p.Value, &n)
		return dom.Axes(n), err
	case dom.TypeSecurityCapabilities:
		var n uint64
		err := json.Unmarshal(p.Value, &n)
		return dom.SecurityCapabilities(n), err
	case dom.TypeVector2int16:
		var v dom.Vector2int16
		err := json.Unmarshal(p.Value, &v)
		return v, err
	case dom.TypeVector3int16:
		var v dom.Vector3int16
		err := json.Unmarshal(p.Value, &v)
		return v, err
	case dom.TypeColor3uint8:
		var c [3]uint8
		err := json.Unmarshal(p.Value, &c)
		return dom.Color3uint8{R: c[0], G: c[1], B: c[2]}, err
	case dom.TypeFloat32:
		f, err := parseJSONFloat(p.Value, 32)
		return dom.Float32(f), err
	case dom.TypeFloat64:
		f, err := parseJSONFloat(p.Value, 64)
		return dom.Float64(f), err
	case dom.TypeVector3:
		c, err := parseJSONFloats(p.Value, 3)
		if err != nil {
			return nil, err
		}
		return dom.Vector3{X: c[0], Y: c[1], Z: c[2]}, nil
	case dom.TypeColor3:
		c, err := parseJSONFloats(p.Value, 3)
		if err != nil {
			return nil, err
		}
		return dom.Color3{R: c[0], G: c[1], B: c[2]}, nil
	case dom.TypeVector2:
		c, err := parseJSONFloats(p.Value, 2)
		if err != nil {
			return nil, err
		}
		return dom.Vector2{X: c[0], Y: c[1]}, nil
	case dom.TypeCFrame:
		return parseJSONCFrame(p.Value)
	case dom.TypeOptionalCFrame:
		if isJSONNull(p.Value) {
			return dom.OptionalCFrame{}, nil
		}
		c, err := parseJSONCFrame(p.Value)
		if err != nil {
			return nil, err
		}
		return dom.OptionalCFrame{Value: c, Valid: true}, nil
	case dom.TypeRay:
		c, err := parseJSONFloats(p.Value, 6)
		if err != nil {
			return nil, err
		}
		return dom.Ray{Origin: dom.Vector3{X: c[0], Y: c[1], Z: c[2]}, Direction: dom.Vector3{X: c[3], Y: c[4], Z: c[5]}}, nil
	case dom.TypeUDim:
		u, err := parseJSONUDims(p.Value, 1)
		if err != nil {
			return nil, err
		}
		return u[0], nil
	case dom.TypeUDim2:
		u, err := parseJSONUDims(p.Value, 2)
		if err != nil {
			return nil, err
		}
		return dom.UDim2{X: u[0], Y: u[1]}, nil
	case dom.TypeRect:
		c, err := parseJSONFloats(p.Value, 4)
		if err != nil {
			return nil, err
		}
		return dom.Rect{Min: dom.Vector2{X: c[0], Y: c[1]}, Max: dom.Vector2{X: c[2], Y: c[3]}}, nil
	case dom.TypeNumberRange:
		c, err := parseJSONFloats(p.Value, 2)
		if err != nil {
			return nil, err
		}
		return dom.NumberRange{Min: c[0], Max: c[1]}, nil
	case dom.TypeNumberSequence:
		rows, err := parseJSONRows(p.Value, 3)
		if err != nil {
			return nil, err
		}
		seq := make(dom.NumberSequence, len(rows))
		for i, r := range rows {
			seq[i] = dom.NumberKeypoint{Time: r[0], Value: r[1], Envelope: r[2]}
		}
		return seq, nil
	case dom.TypeColorSequence:
		rows, err := parseJSONRows(p.Value, 5)
		if err != nil {
			return nil, err
		}
		seq := make(dom.ColorSequence, len(rows))
		for i, r := range rows {
			seq[i] = dom.ColorKeypoint{Time: r[0], Color: dom.Color3{R: r[1], G: r[2], B: r[3]}, Envelope: r[4]}
		}
		return seq, nil
	case dom.TypePhysicalProperties:
		if isJSONNull(p.Value) {
			return dom.PhysicalProperties{}, nil
		}
		c, err := parseJSONFloats(p.Value, 5)
		if err != nil {
			return nil, err
		}
		return dom.PhysicalProperties{
			Custom:           true,
			Density:          c[0],
			Friction:         c[1],
			Elasticity:       c[2],
			FrictionWeight:   c[3],
			ElasticityWeight: c[4],
		}, nil
	case dom.TypeFont:
		var f jsonFont
		if err := json.Unmarshal(p.Value, &f); err != nil {
			return nil, err
		}
		return dom.Font{Family: f.Family, Weight: f.Weight, Style: f.Style, CachedFaceID: f.CachedFaceID}, nil
	case dom.TypeRaw:
		var r jsonRaw
		if err := json.Unmarshal(p.Value, &r); err != nil {
			return nil, err
		}
		if r.Element == "" {
			return nil, errors.New("raw value needs an element name")
		}
		return dom.Raw{Element: r.Element, XML: r.XML}, nil
	case dom.TypeRef:
		var s *string
		if err := json.Unmarshal(p.Value, &s); err != nil {
			return nil, err
		}
		if s == nil {
			return dom.NoneRef, nil
		}
		return dom.ParseRef(*s)
	case dom.TypeUniqueID:
		var s string
		if err := json.Unmarshal(p.Value, &s); err != nil {
			return nil, err
		}
		return dom.ParseUniqueID(s)
	}
	return nil, fmt.Errorf("unknown type %q", p.Type)
}

func isJSONNull(raw json.RawMessage) bool {
	return string(bytes.TrimSpace(raw)) == "null"
}

func parseJSONFloat(raw json.RawMessage, bits int) (float64, error) {
	var n json.Number
	if err := json.Unmarshal(raw, &n); err == nil {
		return strconv.ParseFloat(n.String(), bits)
	}
	var s string
	if err := json.Unmarshal(raw, &s); err != nil {
		return 0, errors.New("float must be a number or NaN/+Inf/-Inf")
	}
	return strconv.ParseFloat(s, bits)
}

func parseJSONParts(raw json.RawMessage, n int) ([]json.RawMessage, error) {
	var parts []json.RawMessage
	if err := json.Unmarshal(raw, &parts); err != nil {
		return nil, err
	}
	if len(parts) != n {
		return nil, fmt.Errorf("want %d components, got %d", n, len(parts))
	}
	return parts, nil
}

func parseJSONFloats(raw json.RawMessage, n int) ([]float32, error) {
	parts, err := parseJSONParts(raw, n)
	if err != nil {
		return nil, err
	}
	out := make([]float32, n)
	for i, part := range parts {
		f, err := parseJSONFloat(part, 32)
		if err != nil {
			return nil, err
		}
		out[i] = float32(f)
	}
	return out, nil
}

func parseJSONRows(raw json.RawMessage, n int) ([][]float32, error) {
	var rows []json.RawMessage
	if err := json.Unmarshal(raw, &rows); err != nil {
		return nil, err
	}
	out := make([][]float32, len(rows))
	for i, r := range rows {
		row, err := parseJSONFloats(r, n)
		if err != nil {
			return nil, fmt.Errorf("keypoint %d: %w", i, err)
		}
		out[i] = row
	}
	return out, nil
}

func parseJSONCFrame(raw json.RawMessage) (dom.CFrame, error) {
	c, err := parseJSONFloats(raw, 12)
	if err != nil {
		return dom.CFrame{}, err
	}
	out := dom.CFrame{Position: dom.Vector3{X: c[0], Y: c[1], Z: c[2]}}
	copy(out.Rotation[:], c[3:])
	return out, nil
}

// parseJSONUDims parses n (scale, offset) pairs from a flat array.
func parseJSONUDims(raw json.RawMessage, n int) ([]dom.UDim, error) {
	parts, err := parseJSONParts(raw, 2*n)
	if err != nil {
		return nil, err
	}
	out := make([]dom.UDim, n)
	for i := range out {
		scale, err := parseJSONFloat(parts[2*i], 32)
		if err != nil {
			return nil, err
		}
		if err := json.Unmarshal(parts[2*i+1], &out[i].Offset); err != nil {
			return nil, err
		}
		out[i].Scale = float32(scale)
	}
	return out, nil
}
