package config

import (
	"strings"
	"testing"

	"github.com/spf13/viper"
)

func TestParseDocument(t *testing.T) {
	tests := []struct {
		name     string
		document string
		wantErr  string
		check    func(t *testing.T, opts *Options)
	}{
		{
			name:     "json document",
			document: `{"path": "./src", "types": ["rs", "PY"], "show_function_stats": true}`,
			check: func(t *testing.T, opts *Options) {
				if opts.Path != "./src" {
					t.Fatalf("unexpected path: %s", opts.Path)
				}
				if len(opts.Types) != 2 || opts.Types[0] != "rs" || opts.Types[1] != "py" {
					t.Fatalf("unexpected types: %v", opts.Types)
				}
				if !opts.ShowFunctionStats || opts.ShowStats {
					t.Fatalf("unexpected flags: %+v", opts)
				}
			},
		},
		{
			name:     "json escaped solidus",
			document: `{"path":"\/tmp\/x","ignore_files":["gen\/*.go"]}`,
			check: func(t *testing.T, opts *Options) {
				if opts.Path != "/tmp/x" {
					t.Fatalf("unexpected path: %s", opts.Path)
				}
				if len(opts.IgnoreFiles) != 1 || opts.IgnoreFiles[0] != "gen/*.go" {
					t.Fatalf("unexpected ignore_files: %v", opts.IgnoreFiles)
				}
			},
		},
		{
			name:     "json surrogate pair",
			document: "\t{\n\t\"path\": \"/tmp/\\ud83d\\ude00\",\n\t\"output\": \"json\"\n}",
			check: func(t *testing.T, opts *Options) {
				if opts.Path != "/tmp/\U0001F600" {
					t.Fatalf("unexpected path: %q", opts.Path)
				}
				if opts.Output != "json" {
					t.Fatalf("unexpected output: %q", opts.Output)
				}
			},
		},
		{
			name: "yaml document",
			document: "path: /tmp/project\n" +
				"ignore_blanks: true\n" +
				"ignore_files:\n" +
				"  - \"*_test.go\"\n",
			check: func(t *testing.T, opts *Options) {
				if !opts.IgnoreBlanks || opts.IgnoreComments {
					t.Fatalf("unexpected flags: %+v", opts)
				}
				if len(opts.IgnoreFiles) != 1 || opts.IgnoreFiles[0] != "*_test.go" {
					t.Fatalf("unexpected ignore_files: %v", opts.IgnoreFiles)
				}
				if opts.Workers <= 0 {
					t.Fatalf("workers default not applied: %d", opts.Workers)
				}
			},
		},
		{
			name:     "missing path",
			document: `{"types": ["go"]}`,
			wantErr:  "path is required",
		},
		{
			name:     "malformed document",
			document: `{"path": `,
			wantErr:  "parse config document",
		},
		{
			name:     "negative workers",
			document: `{"path": ".", "workers": -2}`,
			wantErr:  "workers must be greater than 0",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			opts, err := ParseDocument([]byte(tt.document))
			if tt.wantErr != "" {
				if err == nil {
					t.Fatalf("expected error containing %q, got nil", tt.wantErr)
				}
				if !strings.Contains(err.Error(), tt.wantErr) {
					t.Fatalf("expected error containing %q, got %v", tt.wantErr, err)
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			tt.check(t, opts)
		})
	}
}

func TestLoad(t *testing.T) {
	v := viper.New()
	v.Set("path", "  ")
	v.Set("types", []string{"rust,py", "Rust"})
	v.Set("tsv", true)
	v.Set("workers", 3)

	opts, err := Load(v)
	if err != nil {
		t.Fatalf("load failed: %v", err)
	}

	if opts.Path != DefaultPath {
		t.Fatalf("expected default path, got %q", opts.Path)
	}
	if len(opts.Types) != 2 || opts.Types[0] != "rust" || opts.Types[1] != "py" {
		t.Fatalf("unexpected types: %v", opts.Types)
	}
	if !opts.TSV || opts.Workers != 3 {
		t.Fatalf("unexpected options: %+v", opts)
	}
}

func TestNormalizeFilters(t *testing.T) {
	got := NormalizeFilters([]string{" Rust , ,PY", "", "py"})
	if len(got) != 2 || got[0] != "rust" || got[1] != "py" {
		t.Fatalf("unexpected filters: %v", got)
	}

	if NormalizeFilters(nil) != nil {
		t.Fatalf("expected nil for empty input")
	}
}
