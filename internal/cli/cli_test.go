package cli

import (
	"bytes"
	"context"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/matzehuels/domclone/pkg/clone"
	"github.com/matzehuels/domclone/pkg/dom"
	"github.com/matzehuels/domclone/pkg/errors"
	pkgio "github.com/matzehuels/domclone/pkg/io"
)

// execute runs the root command with args and returns its error.
func execute(t *testing.T, args ...string) error {
	t.Helper()
	c := New(io.Discard, LogInfo)
	root := c.RootCommand()
	root.SetArgs(args)
	root.SetOut(io.Discard)
	root.SetErr(io.Discard)
	return root.ExecuteContext(context.Background())
}

func writeSample(t *testing.T, dir string) string {
	t.Helper()
	d := sampleDocument(t)
	path := filepath.Join(dir, "place.rbxlx")
	if err := pkgio.ExportFile(d, d.Root().Children(), path); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestCloneCommand(t *testing.T) {
	t.Setenv("XDG_CONFIG_HOME", t.TempDir())
	dir := t.TempDir()
	in := writeSample(t, dir)
	out := filepath.Join(dir, "copy.json")
	metrics := filepath.Join(dir, "metrics.prom")

	if err := execute(t, "clone", in, out, "--verify", "--batch-size", "1", "--metrics-file", metrics); err != nil {
		t.Fatalf("clone error = %v", err)
	}

	src, err := pkgio.ImportFile(in)
	if err != nil {
		t.Fatal(err)
	}
	dst, err := pkgio.ImportFile(out)
	if err != nil {
		t.Fatal(err)
	}
	if err := clone.Verify(src, dst); err != nil {
		t.Errorf("Verify() = %v", err)
	}

	data, err := os.ReadFile(metrics)
	if err != nil {
		t.Fatalf("metrics file: %v", err)
	}
	if !bytes.Contains(data, []byte("domclone_batches_total")) {
		t.Errorf("metrics file missing batch counter:\n%s", data)
	}
}

func TestCloneCommandDefaultPaths(t *testing.T) {
	t.Setenv("XDG_CONFIG_HOME", t.TempDir())
	dir := t.TempDir()
	in := writeSample(t, dir)
	if err := os.Rename(in, filepath.Join(dir, defaultInput)); err != nil {
		t.Fatal(err)
	}
	t.Chdir(dir)

	if err := execute(t, "clone"); err != nil {
		t.Fatalf("clone error = %v", err)
	}
	if _, err := os.Stat(filepath.Join(dir, defaultOutput)); err != nil {
		t.Errorf("default output not written: %v", err)
	}
}

func TestCloneCommandErrors(t *testing.T) {
	t.Setenv("XDG_CONFIG_HOME", t.TempDir())
	dir := t.TempDir()
	in := writeSample(t, dir)
	out := filepath.Join(dir, "out.rbxlx")

	tests := []struct {
		name string
		args []string
		code errors.Code
	}{
		{"missing input", []string{"clone", filepath.Join(dir, "missing.rbxlx"), out}, errors.ErrCodeFileNotFound},
		{"bad batch size", []string{"clone", in, out, "--batch-size", "0"}, errors.ErrCodeInvalidInput},
		{"bad root class", []string{"clone", in, out, "--root-class", "not a class"}, errors.ErrCodeInvalidInput},
		{"missing config", []string{"clone", in, out, "--config", filepath.Join(dir, "none.toml")}, errors.ErrCodeInvalidConfig},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := execute(t, tt.args...)
			if got := errors.GetCode(err); got != tt.code {
				t.Errorf("error = %v, want code %s", err, tt.code)
			}
		})
	}
}

func TestVerifyCommand(t *testing.T) {
	t.Setenv("XDG_CONFIG_HOME", t.TempDir())
	dir := t.TempDir()
	in := writeSample(t, dir)
	out := filepath.Join(dir, "copy.rbxlx")

	if err := execute(t, "clone", in, out); err != nil {
		t.Fatalf("clone error = %v", err)
	}
	if err := execute(t, "verify", in, out); err != nil {
		t.Errorf("verify of a clone error = %v", err)
	}

	// A file is never a clone of itself: every referent is shared.
	err := execute(t, "verify", in, in)
	if !errors.Is(err, errors.ErrCodeVerification) {
		t.Errorf("verify of itself error = %v, want VERIFICATION_FAILED", err)
	}
}

func TestInspectCommand(t *testing.T) {
	dir := t.TempDir()
	if err := execute(t, "inspect", writeSample(t, dir)); err != nil {
		t.Errorf("inspect error = %v", err)
	}

	empty := dom.New(dom.NewBuilder("DataModel"))
	path := filepath.Join(dir, "empty.rbxlx")
	if err := pkgio.ExportFile(empty, nil, path); err != nil {
		t.Fatal(err)
	}
	if err := execute(t, "inspect", path); err != nil {
		t.Errorf("inspect of empty document error = %v", err)
	}
}

func TestCompletionCommand(t *testing.T) {
	for _, shell := range []string{"bash", "zsh", "fish", "powershell"} {
		t.Run(shell, func(t *testing.T) {
			var buf bytes.Buffer
			root := New(io.Discard, LogInfo).RootCommand()
			root.SetArgs([]string{"completion", shell})
			root.SetOut(&buf)
			if err := root.Execute(); err != nil {
				t.Fatalf("completion %s error = %v", shell, err)
			}
			if !strings.Contains(buf.String(), appName) {
				t.Errorf("completion %s output does not mention %s", shell, appName)
			}
		})
	}
}
