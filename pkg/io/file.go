package io

import (
	"bufio"
	"os"
	"path/filepath"

	"github.com/matzehuels/domclone/pkg/dom"
	domerrors "github.com/matzehuels/domclone/pkg/errors"
)

// ImportFile reads the document at path, choosing the format from its
// extension. A missing file is reported as FILE_NOT_FOUND, anything that
// cannot be parsed as DECODE_ERROR.
func ImportFile(path string) (*dom.Document, error) {
	format, err := DetectFormat(path)
	if err != nil {
		return nil, err
	}
	f, err := os.Open(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, domerrors.Wrap(domerrors.ErrCodeFileNotFound, err, "open %s", path)
		}
		return nil, domerrors.Wrap(domerrors.ErrCodeDecode, err, "open %s", path)
	}
	defer f.Close()

	doc, err := Decode(bufio.NewReader(f), format)
	if err != nil {
		return nil, domerrors.Wrap(domerrors.ErrCodeDecode, err, "read %s", path)
	}
	return doc, nil
}

// ExportFile writes the subtrees rooted at refs to path, choosing the format
// from its extension. The file only appears at path once it has been
// written completely; on failure nothing is left behind.
func ExportFile(doc *dom.Document, refs []dom.Ref, path string) (err error) {
	format, err := DetectFormat(path)
	if err != nil {
		return err
	}

	f, err := os.CreateTemp(filepath.Dir(path), "."+filepath.Base(path)+".tmp-*")
	if err != nil {
		return domerrors.Wrap(domerrors.ErrCodeEncode, err, "create %s", path)
	}
	tmp := f.Name()
	defer func() {
		if err != nil {
			_ = f.Close()
			_ = os.Remove(tmp)
		}
	}()

	w := bufio.NewWriter(f)
	if err = Encode(w, doc, refs, format); err != nil {
		return domerrors.Wrap(domerrors.ErrCodeEncode, err, "write %s", path)
	}
	if err = w.Flush(); err != nil {
		return domerrors.Wrap(domerrors.ErrCodeEncode, err, "write %s", path)
	}
	if err = f.Chmod(0o644); err != nil {
		return domerrors.Wrap(domerrors.ErrCodeEncode, err, "chmod %s", path)
	}
	if err = f.Close(); err != nil {
		return domerrors.Wrap(domerrors.ErrCodeEncode, err, "close %s", path)
	}
	if err = os.Rename(tmp, path); err != nil {
		return domerrors.Wrap(domerrors.ErrCodeEncode, err, "rename %s", path)
	}
	return nil
}
