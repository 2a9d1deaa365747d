package io

import (
	"io"
	"path/filepath"
	"strings"

	"github.com/matzehuels/domclone/pkg/dom"
	domerrors "github.com/matzehuels/domclone/pkg/errors"
)

// Format names a document serialization.
type Format string

// Supported formats.
const (
	FormatXML  Format = "xml"
	FormatJSON Format = "json"
)

// RootClass is the class of the synthetic root created by decoders.
const RootClass = "DataModel"

var extensions = map[string]Format{
	".rbxlx": FormatXML,
	".rbxmx": FormatXML,
	".xml":   FormatXML,
	".json":  FormatJSON,
}

// DetectFormat selects a format from the extension of path.
func DetectFormat(path string) (Format, error) {
	ext := strings.ToLower(filepath.Ext(path))
	if f, ok := extensions[ext]; ok {
		return f, nil
	}
	return "", domerrors.New(domerrors.ErrCodeInvalidFormat, "unsupported document extension %q", ext)
}

// Decode reads a document in the given format.
func Decode(r io.Reader, format Format) (*dom.Document, error) {
	switch format {
	case FormatXML:
		return ReadXML(r)
	case FormatJSON:
		return ReadJSON(r)
	default:
		return nil, unsupportedFormat(format)
	}
}

// Encode writes the subtrees rooted at refs in the given format.
func Encode(w io.Writer, doc *dom.Document, refs []dom.Ref, format Format) error {
	switch format {
	case FormatXML:
		return WriteXML(w, doc, refs)
	case FormatJSON:
		return WriteJSON(w, doc, refs)
	default:
		return unsupportedFormat(format)
	}
}

func unsupportedFormat(f Format) error {
	return domerrors.New(domerrors.ErrCodeUnsupported, "unsupported document format %q", f)
}

// collect returns the resolvable instances under refs in pre-order.
func collect(doc *dom.Document, refs []dom.Ref) []*dom.Instance {
	var out []*dom.Instance
	for _, r := range refs {
		doc.Walk(r, func(inst *dom.Instance) bool {
			out = append(out, inst)
			return true
		})
	}
	return out
}
