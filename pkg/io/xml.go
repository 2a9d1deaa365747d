package io

import (
	"encoding/base64"
	"encoding/xml"
	"errors"
	"fmt"
	"io"
	"maps"
	"math"
	"slices"
	"strconv"
	"strings"

	"github.com/matzehuels/domclone/pkg/dom"
)

// ErrUnknownSharedString is returned by [ReadXML] for SharedString
// properties whose key is missing from the file's shared string table.
var ErrUnknownSharedString = errors.New("unknown shared string")

// xmlVersion is written on the <roblox> root element.
const xmlVersion = "4"

// nameProperty carries the instance name in the XML format.
const nameProperty = "Name"

// xmlExternals are the <External> markers Studio writes into every file.
var xmlExternals = []string{"null", "nil"}

type xmlRoot struct {
	XMLName       xml.Name          `xml:"roblox"`
	Version       string            `xml:"version,attr"`
	Meta          []xmlMeta         `xml:"Meta"`
	External      []string          `xml:"External"`
	Items         []xmlItem         `xml:"Item"`
	SharedStrings *xmlSharedStrings `xml:"SharedStrings"`
}

type xmlMeta struct {
	Name  string `xml:"name,attr"`
	Value string `xml:",chardata"`
}

type xmlSharedStrings struct {
	Entries []xmlSharedString `xml:"SharedString"`
}

type xmlSharedString struct {
	Key  string `xml:"md5,attr"`
	Data string `xml:",chardata"`
}

type xmlItem struct {
	Class      string    `xml:"class,attr"`
	Referent   string    `xml:"referent,attr,omitempty"`
	Properties xmlProps  `xml:"Properties"`
	Items      []xmlItem `xml:"Item"`
}

type xmlProps struct {
	Props []xmlProp `xml:",any"`
}

// xmlProp is one property element. Inner holds the raw markup on decode
// and is only set on encode for [dom.Raw] values, in which case Text and
// Fields stay empty.
type xmlProp struct {
	XMLName xml.Name
	Name    string    `xml:"name,attr"`
	Text    string    `xml:",chardata"`
	Fields  xmlFields `xml:",any"`
	Inner   string    `xml:",innerxml"`
}

type xmlField struct {
	XMLName xml.Name
	Text    string    `xml:",chardata"`
	Fields  xmlFields `xml:",any"`
}

type xmlFields []xmlField

// Element names per value type. dom.Raw values carry their own.
var xmlTypeNames = map[dom.Type]string{
	dom.TypeString:               "string",
	dom.TypeBinaryString:         "BinaryString",
	dom.TypeContent:              "Content",
	dom.TypeBool:                 "bool",
	dom.TypeInt32:                "int",
	dom.TypeInt64:                "int64",
	dom.TypeFloat32:              "float",
	dom.TypeFloat64:              "double",
	dom.TypeToken:                "token",
	dom.TypeVector3:              "Vector3",
	dom.TypeColor3:               "Color3",
	dom.TypeRef:                  "Ref",
	dom.TypeUniqueID:             "UniqueId",
	dom.TypeProtectedString:      "ProtectedString",
	dom.TypeCFrame:               "CoordinateFrame",
	dom.TypeOptionalCFrame:       "OptionalCoordinateFrame",
	dom.TypeVector2:              "Vector2",
	dom.TypeVector2int16:         "Vector2int16",
	dom.TypeVector3int16:         "Vector3int16",
	dom.TypeRay:                  "Ray",
	dom.TypeUDim:                 "UDim",
	dom.TypeUDim2:                "UDim2",
	dom.TypeRect:                 "Rect2D",
	dom.TypeNumberRange:          "NumberRange",
	dom.TypeNumberSequence:       "NumberSequence",
	dom.TypeColorSequence:        "ColorSequence",
	dom.TypeColor3uint8:          "Color3uint8",
	dom.TypeFaces:                "Faces",
	dom.TypeAxes:                 "Axes",
	dom.TypePhysicalProperties:   "PhysicalProperties",
	dom.TypeFont:                 "Font",
	dom.TypeSharedString:         "SharedString",
	dom.TypeSecurityCapabilities: "SecurityCapabilities",
}

var cframeFields = []string{"X", "Y", "Z", "R00", "R01", "R02", "R10", "R11", "R12", "R20", "R21", "R22"}

// ReadXML decodes an XML document from r.
//
// Referent strings are parsed as [dom.Ref] when they have the canonical
// form and replaced by fresh referents otherwise. Ref properties pointing at
// referents that do not occur in the file decode as the none sentinel.
// Property elements of unmodelled types decode as [dom.Raw]. <Meta> entries
// land in the document's Metadata and SharedString properties are resolved
// against the file's <SharedStrings> table.
//
// Every instance has a name: an item without a Name property is named after
// its class, and [WriteXML] writes that name back.
//
// ReadXML returns an error for malformed XML, duplicate referents,
// malformed values of known types and unresolvable shared strings. It does
// not close r.
func ReadXML(r io.Reader) (*dom.Document, error) {
	var root xmlRoot
	if err := xml.NewDecoder(r).Decode(&root); err != nil {
		return nil, fmt.Errorf("decode: %w", err)
	}

	rd := xmlReader{refs: make(map[string]dom.Ref)}
	shared, err := readSharedStrings(root.SharedStrings)
	if err != nil {
		return nil, err
	}
	rd.shared = shared
	if err := rd.assignRefs(root.Items); err != nil {
		return nil, err
	}

	doc := dom.New(dom.NewBuilder(RootClass))
	for _, m := range root.Meta {
		doc.Metadata[m.Name] = m.Value
	}
	for i := range root.Items {
		b, err := rd.itemBuilder(&root.Items[i])
		if err != nil {
			return nil, err
		}
		if _, err := doc.Insert(doc.RootRef(), b); err != nil {
			return nil, fmt.Errorf("item %s: %w", root.Items[i].Referent, err)
		}
	}
	return doc, nil
}

func readSharedStrings(t *xmlSharedStrings) (map[string]dom.SharedString, error) {
	out := make(map[string]dom.SharedString)
	if t == nil {
		return out, nil
	}
	for _, e := range t.Entries {
		data, err := decodeBase64(e.Data)
		if err != nil {
			return nil, fmt.Errorf("shared string %s: %w", e.Key, err)
		}
		out[e.Key] = dom.SharedString(data)
	}
	return out, nil
}

type xmlReader struct {
	refs   map[string]dom.Ref
	shared map[string]dom.SharedString
}

func (rd *xmlReader) assignRefs(items []xmlItem) error {
	for i := range items {
		it := &items[i]
		if it.Referent == "" {
			it.Referent = dom.NewRef().String()
		}
		if _, dup := rd.refs[it.Referent]; dup {
			return fmt.Errorf("item %s: %w", it.Referent, dom.ErrDuplicateRef)
		}
		ref, err := dom.ParseRef(it.Referent)
		if err != nil || ref.IsNone() {
			ref = dom.NewRef()
		}
		rd.refs[it.Referent] = ref
		if err := rd.assignRefs(it.Items); err != nil {
			return err
		}
	}
	return nil
}

func (rd *xmlReader) itemBuilder(it *xmlItem) (*dom.Builder, error) {
	b := dom.NewBuilder(it.Class).WithReferent(rd.refs[it.Referent])
	for _, p := range it.Properties.Props {
		if p.XMLName.Local == "string" && p.Name == nameProperty {
			b.WithName(p.Text)
			continue
		}
		v, err := rd.value(p)
		if err != nil {
			return nil, fmt.Errorf("item %s property %s: %w", it.Referent, p.Name, err)
		}
		b.WithProperty(p.Name, v)
	}
	for i := range it.Items {
		child, err := rd.itemBuilder(&it.Items[i])
		if err != nil {
			return nil, err
		}
		b.WithChild(child)
	}
	return b, nil
}

func (rd *xmlReader) value(p xmlProp) (dom.Value, error) {
	text := strings.TrimSpace(p.Text)
	switch p.XMLName.Local {
	case "string":
		return dom.String(p.Text), nil
	case "ProtectedString":
		return dom.ProtectedString(p.Text), nil
	case "BinaryString":
		data, err := decodeBase64(p.Text)
		return dom.BinaryString(data), err
	case "Content":
		for _, tag := range []string{"url", "uri"} {
			if f, err := p.Fields.get(tag); err == nil {
				return dom.Content(strings.TrimSpace(f.Text)), nil
			}
		}
		return dom.Content(text), nil
	case "bool":
		v, err := strconv.ParseBool(text)
		return dom.Bool(v), err
	case "int":
		v, err := strconv.ParseInt(text, 10, 32)
		return dom.Int32(v), err
	case "int64":
		v, err := strconv.ParseInt(text, 10, 64)
		return dom.Int64(v), err
	case "float":
		v, err := parseXMLFloat(text, 32)
		return dom.Float32(v), err
	case "double":
		v, err := parseXMLFloat(text, 64)
		return dom.Float64(v), err
	case "token":
		v, err := strconv.ParseUint(text, 10, 32)
		return dom.Token(v), err
	case "SecurityCapabilities":
		v, err := strconv.ParseUint(text, 10, 64)
		return dom.SecurityCapabilities(v), err
	case "Vector3":
		return p.Fields.vector3()
	case "Color3":
		c, err := p.Fields.floats("R", "G", "B")
		if err != nil {
			return nil, err
		}
		return dom.Color3{R: c[0], G: c[1], B: c[2]}, nil
	case "Color3uint8":
		v, err := strconv.ParseUint(text, 10, 32)
		return dom.Color3uint8{R: uint8(v >> 16), G: uint8(v >> 8), B: uint8(v)}, err
	case "Vector2":
		return p.Fields.vector2()
	case "Vector2int16":
		v, err := p.Fields.ints(16, "X", "Y")
		if err != nil {
			return nil, err
		}
		return dom.Vector2int16{X: int16(v[0]), Y: int16(v[1])}, nil
	case "Vector3int16":
		v, err := p.Fields.ints(16, "X", "Y", "Z")
		if err != nil {
			return nil, err
		}
		return dom.Vector3int16{X: int16(v[0]), Y: int16(v[1]), Z: int16(v[2])}, nil
	case "CoordinateFrame":
		return p.Fields.cframe()
	case "OptionalCoordinateFrame":
		f, err := p.Fields.get("CFrame")
		if err != nil {
			return dom.OptionalCFrame{}, nil
		}
		c, err := f.Fields.cframe()
		return dom.OptionalCFrame{Value: c, Valid: err == nil}, err
	case "Ray":
		return p.Fields.ray()
	case "UDim":
		s, err := p.Fields.floats("S")
		if err != nil {
			return nil, err
		}
		o, err := p.Fields.ints(32, "O")
		if err != nil {
			return nil, err
		}
		return dom.UDim{Scale: s[0], Offset: int32(o[0])}, nil
	case "UDim2":
		s, err := p.Fields.floats("XS", "YS")
		if err != nil {
			return nil, err
		}
		o, err := p.Fields.ints(32, "XO", "YO")
		if err != nil {
			return nil, err
		}
		return dom.UDim2{
			X: dom.UDim{Scale: s[0], Offset: int32(o[0])},
			Y: dom.UDim{Scale: s[1], Offset: int32(o[1])},
		}, nil
	case "Rect2D":
		return p.Fields.rect()
	case "NumberRange":
		v, err := parseFloatList(text, 2)
		if err != nil {
			return nil, err
		}
		if len(v) != 2 {
			return nil, fmt.Errorf("got %d numbers, want 2", len(v))
		}
		return dom.NumberRange{Min: v[0], Max: v[1]}, nil
	case "NumberSequence":
		v, err := parseFloatList(text, 3)
		if err != nil {
			return nil, err
		}
		seq := make(dom.NumberSequence, 0, len(v)/3)
		for i := 0; i < len(v); i += 3 {
			seq = append(seq, dom.NumberKeypoint{Time: v[i], Value: v[i+1], Envelope: v[i+2]})
		}
		return seq, nil
	case "ColorSequence":
		v, err := parseFloatList(text, 5)
		if err != nil {
			return nil, err
		}
		seq := make(dom.ColorSequence, 0, len(v)/5)
		for i := 0; i < len(v); i += 5 {
			seq = append(seq, dom.ColorKeypoint{
				Time:     v[i],
				Color:    dom.Color3{R: v[i+1], G: v[i+2], B: v[i+3]},
				Envelope: v[i+4],
			})
		}
		return seq, nil
	case "Faces":
		v, err := p.Fields.ints(8, "faces")
		if err != nil {
			return nil, err
		}
		return dom.Faces(v[0]), nil
	case "Axes":
		v, err := p.Fields.ints(8, "axes")
		if err != nil {
			return nil, err
		}
		return dom.Axes(v[0]), nil
	case "PhysicalProperties":
		return p.Fields.physicalProperties()
	case "Font":
		return p.Fields.font()
	case "SharedString":
		v, ok := rd.shared[text]
		if !ok {
			return nil, fmt.Errorf("%w: %q", ErrUnknownSharedString, text)
		}
		return v, nil
	case "Ref":
		return rd.refs[text], nil
	case "UniqueId":
		return dom.ParseUniqueID(text)
	default:
		return dom.Raw{Element: p.XMLName.Local, XML: p.Inner}, nil
	}
}

func (fs xmlFields) get(name string) (xmlField, error) {
	for _, f := range fs {
		if f.XMLName.Local == name {
			return f, nil
		}
	}
	return xmlField{}, fmt.Errorf("missing component %s", name)
}

func (fs xmlFields) floats(names ...string) ([]float32, error) {
	out := make([]float32, len(names))
	for i, n := range names {
		f, err := fs.get(n)
		if err != nil {
			return nil, err
		}
		v, err := parseXMLFloat(f.Text, 32)
		if err != nil {
			return nil, fmt.Errorf("component %s: %w", n, err)
		}
		out[i] = float32(v)
	}
	return out, nil
}

func (fs xmlFields) ints(bits int, names ...string) ([]int64, error) {
	out := make([]int64, len(names))
	for i, n := range names {
		f, err := fs.get(n)
		if err != nil {
			return nil, err
		}
		v, err := strconv.ParseInt(strings.TrimSpace(f.Text), 10, bits)
		if err != nil {
			return nil, fmt.Errorf("component %s: %w", n, err)
		}
		out[i] = v
	}
	return out, nil
}

func (fs xmlFields) vector2() (dom.Vector2, error) {
	v, err := fs.floats("X", "Y")
	if err != nil {
		return dom.Vector2{}, err
	}
	return dom.Vector2{X: v[0], Y: v[1]}, nil
}

func (fs xmlFields) vector3() (dom.Vector3, error) {
	v, err := fs.floats("X", "Y", "Z")
	if err != nil {
		return dom.Vector3{}, err
	}
	return dom.Vector3{X: v[0], Y: v[1], Z: v[2]}, nil
}

func (fs xmlFields) cframe() (dom.CFrame, error) {
	v, err := fs.floats(cframeFields...)
	if err != nil {
		return dom.CFrame{}, err
	}
	c := dom.CFrame{Position: dom.Vector3{X: v[0], Y: v[1], Z: v[2]}}
	copy(c.Rotation[:], v[3:])
	return c, nil
}

func (fs xmlFields) ray() (dom.Ray, error) {
	var r dom.Ray
	origin, err := fs.get("origin")
	if err != nil {
		return r, err
	}
	direction, err := fs.get("direction")
	if err != nil {
		return r, err
	}
	if r.Origin, err = origin.Fields.vector3(); err != nil {
		return r, err
	}
	r.Direction, err = direction.Fields.vector3()
	return r, err
}

func (fs xmlFields) rect() (dom.Rect, error) {
	var r dom.Rect
	lo, err := fs.get("min")
	if err != nil {
		return r, err
	}
	hi, err := fs.get("max")
	if err != nil {
		return r, err
	}
	if r.Min, err = lo.Fields.vector2(); err != nil {
		return r, err
	}
	r.Max, err = hi.Fields.vector2()
	return r, err
}

func (fs xmlFields) physicalProperties() (dom.PhysicalProperties, error) {
	custom, err := fs.get("CustomPhysics")
	if err != nil {
		return dom.PhysicalProperties{}, err
	}
	on, err := strconv.ParseBool(strings.TrimSpace(custom.Text))
	if err != nil || !on {
		return dom.PhysicalProperties{}, err
	}
	v, err := fs.floats("Density", "Friction", "Elasticity", "FrictionWeight", "ElasticityWeight")
	if err != nil {
		return dom.PhysicalProperties{}, err
	}
	return dom.PhysicalProperties{
		Custom:           true,
		Density:          v[0],
		Friction:         v[1],
		Elasticity:       v[2],
		FrictionWeight:   v[3],
		ElasticityWeight: v[4],
	}, nil
}

func (fs xmlFields) font() (dom.Font, error) {
	var f dom.Font
	family, err := fs.get("Family")
	if err != nil {
		return f, err
	}
	url, err := family.Fields.get("url")
	if err != nil {
		return f, err
	}
	f.Family = strings.TrimSpace(url.Text)
	weight, err := fs.ints(16, "Weight")
	if err != nil {
		return f, err
	}
	f.Weight = uint16(weight[0])
	style, err := fs.get("Style")
	if err != nil {
		return f, err
	}
	f.Style = strings.TrimSpace(style.Text)
	if cached, err := fs.get("CachedFaceId"); err == nil {
		if url, err := cached.Fields.get("url"); err == nil {
			f.CachedFaceID = strings.TrimSpace(url.Text)
		}
	}
	return f, nil
}

// parseXMLFloat accepts the INF, -INF and NAN spellings Studio writes,
// with or without a sign on NAN.
func parseXMLFloat(s string, bits int) (float64, error) {
	s = strings.TrimSpace(s)
	if strings.EqualFold(strings.TrimLeft(s, "+-"), "nan") {
		return math.NaN(), nil
	}
	return strconv.ParseFloat(s, bits)
}

func formatXMLFloat(f float64, bits int) string {
	switch {
	case math.IsNaN(f):
		return "NAN"
	case math.IsInf(f, 1):
		return "INF"
	case math.IsInf(f, -1):
		return "-INF"
	}
	return strconv.FormatFloat(f, 'g', -1, bits)
}

// parseFloatList parses whitespace-separated floats whose count is a
// multiple of stride.
func parseFloatList(s string, stride int) ([]float32, error) {
	parts := strings.Fields(s)
	if len(parts)%stride != 0 {
		return nil, fmt.Errorf("got %d numbers, want a multiple of %d", len(parts), stride)
	}
	out := make([]float32, len(parts))
	for i, part := range parts {
		v, err := parseXMLFloat(part, 32)
		if err != nil {
			return nil, err
		}
		out[i] = float32(v)
	}
	return out, nil
}

func formatFloatList(vals ...float32) string {
	var sb strings.Builder
	for _, v := range vals {
		sb.WriteString(formatXMLFloat(float64(v), 32))
		sb.WriteByte(' ')
	}
	return sb.String()
}

func decodeBase64(s string) ([]byte, error) {
	return base64.StdEncoding.DecodeString(strings.Join(strings.Fields(s), ""))
}

// WriteXML encodes the subtrees rooted at refs as XML and writes them to w.
// Ref properties whose target is not part of the written subtrees are
// written as null. The document's Metadata is written as <Meta> entries
// and SharedString values are collected into a <SharedStrings> table keyed
// by [dom.SharedString.Hash].
func WriteXML(w io.Writer, doc *dom.Document, refs []dom.Ref) error {
	wr := xmlWriter{
		doc:     doc,
		written: make(map[dom.Ref]bool),
		shared:  make(map[string]dom.SharedString),
	}
	for _, inst := range collect(doc, refs) {
		wr.written[inst.Referent()] = true
	}

	out := xmlRoot{Version: xmlVersion, External: xmlExternals}
	for _, k := range slices.Sorted(maps.Keys(doc.Metadata)) {
		out.Meta = append(out.Meta, xmlMeta{Name: k, Value: doc.Metadata[k]})
	}
	for _, r := range refs {
		if inst, ok := doc.Get(r); ok {
			out.Items = append(out.Items, wr.item(inst))
		}
	}
	if len(wr.shared) > 0 {
		out.SharedStrings = &xmlSharedStrings{}
		for _, k := range slices.Sorted(maps.Keys(wr.shared)) {
			out.SharedStrings.Entries = append(out.SharedStrings.Entries, xmlSharedString{
				Key:  k,
				Data: base64.StdEncoding.EncodeToString(wr.shared[k]),
			})
		}
	}

	enc := xml.NewEncoder(w)
	enc.Indent("", "  ")
	if err := enc.Encode(out); err != nil {
		return fmt.Errorf("encode: %w", err)
	}
	if _, err := io.WriteString(w, "\n"); err != nil {
		return fmt.Errorf("encode: %w", err)
	}
	return nil
}

type xmlWriter struct {
	doc     *dom.Document
	written map[dom.Ref]bool
	shared  map[string]dom.SharedString
}

func (wr *xmlWriter) item(inst *dom.Instance) xmlItem {
	it := xmlItem{Class: inst.Class, Referent: inst.Referent().String()}
	it.Properties.Props = append(it.Properties.Props, xmlProp{
		XMLName: xml.Name{Local: "string"},
		Name:    nameProperty,
		Text:    inst.Name,
	})
	for _, k := range inst.SortedKeys() {
		if k == nameProperty {
			continue
		}
		it.Properties.Props = append(it.Properties.Props, wr.value(k, inst.Properties[k]))
	}
	for _, c := range inst.Children() {
		if child, ok := wr.doc.Get(c); ok {
			it.Items = append(it.Items, wr.item(child))
		}
	}
	return it
}

func (wr *xmlWriter) value(key string, v dom.Value) xmlProp {
	p := xmlProp{XMLName: xml.Name{Local: xmlTypeNames[v.Type()]}, Name: key}
	switch v := v.(type) {
	case dom.String:
		p.Text = string(v)
	case dom.ProtectedString:
		p.Text = string(v)
	case dom.BinaryString:
		p.Text = base64.StdEncoding.EncodeToString(v)
	case dom.Content:
		p.Fields = xmlFields{textField("url", string(v))}
	case dom.Bool:
		p.Text = strconv.FormatBool(bool(v))
	case dom.Int32:
		p.Text = strconv.FormatInt(int64(v), 10)
	case dom.Int64:
		p.Text = strconv.FormatInt(int64(v), 10)
	case dom.Float32:
		p.Text = formatXMLFloat(float64(v), 32)
	case dom.Float64:
		p.Text = formatXMLFloat(float64(v), 64)
	case dom.Token:
		p.Text = strconv.FormatUint(uint64(v), 10)
	case dom.SecurityCapabilities:
		p.Text = strconv.FormatUint(uint64(v), 10)
	case dom.Vector3:
		p.Fields = vector3Fields(v)
	case dom.Color3:
		p.Fields = floatFields([]string{"R", "G", "B"}, v.R, v.G, v.B)
	case dom.Color3uint8:
		p.Text = strconv.FormatUint(0xFF000000|uint64(v.R)<<16|uint64(v.G)<<8|uint64(v.B), 10)
	case dom.Vector2:
		p.Fields = vector2Fields(v)
	case dom.Vector2int16:
		p.Fields = xmlFields{intField("X", int64(v.X)), intField("Y", int64(v.Y))}
	case dom.Vector3int16:
		p.Fields = xmlFields{intField("X", int64(v.X)), intField("Y", int64(v.Y)), intField("Z", int64(v.Z))}
	case dom.CFrame:
		p.Fields = cframeXMLFields(v)
	case dom.OptionalCFrame:
		if v.Valid {
			p.Fields = xmlFields{{XMLName: xml.Name{Local: "CFrame"}, Fields: cframeXMLFields(v.Value)}}
		}
	case dom.Ray:
		p.Fields = xmlFields{
			{XMLName: xml.Name{Local: "origin"}, Fields: vector3Fields(v.Origin)},
			{XMLName: xml.Name{Local: "direction"}, Fields: vector3Fields(v.Direction)},
		}
	case dom.UDim:
		p.Fields = xmlFields{floatField("S", v.Scale), intField("O", int64(v.Offset))}
	case dom.UDim2:
		p.Fields = xmlFields{
			floatField("XS", v.X.Scale), intField("XO", int64(v.X.Offset)),
			floatField("YS", v.Y.Scale), intField("YO", int64(v.Y.Offset)),
		}
	case dom.Rect:
		p.Fields = xmlFields{
			{XMLName: xml.Name{Local: "min"}, Fields: vector2Fields(v.Min)},
			{XMLName: xml.Name{Local: "max"}, Fields: vector2Fields(v.Max)},
		}
	case dom.NumberRange:
		p.Text = formatFloatList(v.Min, v.Max)
	case dom.NumberSequence:
		vals := make([]float32, 0, 3*len(v))
		for _, k := range v {
			vals = append(vals, k.Time, k.Value, k.Envelope)
		}
		p.Text = formatFloatList(vals...)
	case dom.ColorSequence:
		vals := make([]float32, 0, 5*len(v))
		for _, k := range v {
			vals = append(vals, k.Time, k.Color.R, k.Color.G, k.Color.B, k.Envelope)
		}
		p.Text = formatFloatList(vals...)
	case dom.Faces:
		p.Fields = xmlFields{intField("faces", int64(v))}
	case dom.Axes:
		p.Fields = xmlFields{intField("axes", int64(v))}
	case dom.PhysicalProperties:
		p.Fields = xmlFields{textField("CustomPhysics", strconv.FormatBool(v.Custom))}
		if v.Custom {
			p.Fields = append(p.Fields, floatFields(
				[]string{"Density", "Friction", "Elasticity", "FrictionWeight", "ElasticityWeight"},
				v.Density, v.Friction, v.Elasticity, v.FrictionWeight, v.ElasticityWeight)...)
		}
	case dom.Font:
		p.Fields = xmlFields{
			{XMLName: xml.Name{Local: "Family"}, Fields: xmlFields{textField("url", v.Family)}},
			intField("Weight", int64(v.Weight)),
			textField("Style", v.Style),
		}
		if v.CachedFaceID != "" {
			p.Fields = append(p.Fields, xmlField{
				XMLName: xml.Name{Local: "CachedFaceId"},
				Fields:  xmlFields{textField("url", v.CachedFaceID)},
			})
		}
	case dom.SharedString:
		key := v.Hash()
		wr.shared[key] = v
		p.Text = key
	case dom.Raw:
		p.XMLName.Local = v.Element
		p.Inner = v.XML
	case dom.Ref:
		if wr.written[v] {
			p.Text = v.String()
		} else {
			p.Text = dom.NoneRef.String()
		}
	case dom.UniqueID:
		p.Text = v.String()
	}
	return p
}

func textField(name, text string) xmlField {
	return xmlField{XMLName: xml.Name{Local: name}, Text: text}
}

func intField(name string, n int64) xmlField {
	return textField(name, strconv.FormatInt(n, 10))
}

func floatField(name string, f float32) xmlField {
	return textField(name, formatXMLFloat(float64(f), 32))
}

func floatFields(names []string, vals ...float32) xmlFields {
	out := make(xmlFields, len(names))
	for i, n := range names {
		out[i] = floatField(n, vals[i])
	}
	return out
}

func vector2Fields(v dom.Vector2) xmlFields {
	return floatFields([]string{"X", "Y"}, v.X, v.Y)
}

func vector3Fields(v dom.Vector3) xmlFields {
	return floatFields([]string{"X", "Y", "Z"}, v.X, v.Y, v.Z)
}

func cframeXMLFields(c dom.CFrame) xmlFields {
	vals := append([]float32{c.Position.X, c.Position.Y, c.Position.Z}, c.Rotation[:]...)
	return floatFields(cframeFields, vals...)
}
