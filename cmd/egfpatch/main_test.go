package main

import (
	"bytes"
	"strings"
	"testing"

	"github.com/hashicorp/go-hclog"
	"github.com/provide-io/egfpatch/pkg/patch"
	"github.com/provide-io/egfpatch/pkg/resources"
)

func TestRootCmd_Version(t *testing.T) {
	cmd := newRootCmd()
	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetArgs([]string{"--version"})

	if err := cmd.Execute(); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !strings.HasPrefix(out.String(), "egfpatch "+version) {
		t.Errorf("output = %q", out.String())
	}
	if !strings.Contains(out.String(), "Built: ") || !strings.Contains(out.String(), "(revision ") {
		t.Errorf("output %q is missing the build line", out.String())
	}
}

func TestShortRevision(t *testing.T) {
	tests := []struct {
		in, expected string
	}{
		{in: "0123456789abcdef0123", expected: "0123456789ab"},
		{in: "abc123", expected: "abc123"},
		{in: "", expected: ""},
	}
	for _, tt := range tests {
		if got := shortRevision(tt.in); got != tt.expected {
			t.Errorf("shortRevision(%q) = %q, want %q", tt.in, got, tt.expected)
		}
	}
}

func TestRootCmd_Args(t *testing.T) {
	tests := []struct {
		name string
		args []string
	}{
		{name: "no args", args: []string{}},
		{name: "missing container", args: []string{"sheet.png", "gfx013.egf"}},
		{name: "too many", args: []string{"a", "b", "c", "d"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cmd := newRootCmd()
			cmd.SetOut(&bytes.Buffer{})
			cmd.SetErr(&bytes.Buffer{})
			cmd.SetArgs(tt.args)
			if err := cmd.Execute(); err == nil {
				t.Errorf("Execute(%v) succeeded, want argument error", tt.args)
			}
		})
	}
}

func TestRootCmd_Defaults(t *testing.T) {
	cmd := newRootCmd()
	for flag, want := range map[string]string{
		"sprite-width":  "34",
		"sprite-height": "77",
		"start-x":       "1",
		"gap-y":         "1",
		"rows":          "4",
		"cols":          "6",
		"gap1":          "29",
		"gap2":          "1",
		"first-count":   "-1",
	} {
		f := cmd.Flags().Lookup(flag)
		if f == nil {
			t.Errorf("flag --%s not defined", flag)
			continue
		}
		if f.DefValue != want {
			t.Errorf("--%s default = %s, want %s", flag, f.DefValue, want)
		}
	}
}

func TestNewUpdater(t *testing.T) {
	logger := hclog.NewNullLogger()

	u, err := newUpdater("winres", logger)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if _, ok := u.(*resources.WinresUpdater); !ok {
		t.Errorf("winres backend = %T", u)
	}

	if _, err := newUpdater("rcedit", logger); err == nil {
		t.Error("unknown backend accepted")
	}
}

func TestPrintReport(t *testing.T) {
	var out bytes.Buffer
	printReport(&out, &patch.Report{
		Frames: 24,
		Results: []patch.Result{
			{Output: "gfx013_updated.egf", Existing: 100, Start: 129, IDs: []uint16{129, 130}},
		},
	})
	if !strings.Contains(out.String(), "Resource IDs used: [129 130]") {
		t.Errorf("report = %q", out.String())
	}
	if !strings.Contains(out.String(), "Done!") {
		t.Errorf("report = %q", out.String())
	}
}
