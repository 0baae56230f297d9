package main

import (
	"os"
	"testing"
)

func TestMaybeInjectRootAlias(t *testing.T) {
	tests := []struct {
		name     string
		args     []string
		wantArgs []string
	}{
		{
			name:     "bare group invocation gets run injected",
			args:     []string{"groupreport", "physics", "-S", "2026-07-01", "-E", "2026-07-31"},
			wantArgs: []string{"groupreport", "run", "physics", "-S", "2026-07-01", "-E", "2026-07-31"},
		},
		{
			name:     "explicit run is untouched",
			args:     []string{"groupreport", "run", "physics"},
			wantArgs: []string{"groupreport", "run", "physics"},
		},
		{
			name:     "version subcommand is untouched",
			args:     []string{"groupreport", "version"},
			wantArgs: []string{"groupreport", "version"},
		},
		{
			name:     "help is untouched",
			args:     []string{"groupreport", "help"},
			wantArgs: []string{"groupreport", "help"},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			savedArgs := os.Args
			defer func() { os.Args = savedArgs }()

			os.Args = tt.args
			maybeInjectRootAlias(newRootCmd(), "run")

			if len(os.Args) != len(tt.wantArgs) {
				t.Fatalf("got args %v, want %v", os.Args, tt.wantArgs)
			}
			for i := range os.Args {
				if os.Args[i] != tt.wantArgs[i] {
					t.Errorf("arg %d: got %q, want %q", i, os.Args[i], tt.wantArgs[i])
				}
			}
		})
	}
}

func TestGetRunConfigMergesSettings(t *testing.T) {
	opts, err := getRunConfig(map[string]interface{}{
		"start":     "2026-07-01",
		"end":       "2026-07-31",
		"page_size": 10,
	})
	if err != nil {
		t.Fatal(err)
	}
	if opts.Start != "2026-07-01" || opts.End != "2026-07-31" {
		t.Errorf("dates not applied: %+v", opts)
	}
	if opts.PageSize != 10 {
		t.Errorf("page_size not applied: got %d", opts.PageSize)
	}
	if opts.Concurrency != 8 {
		t.Errorf("default concurrency lost: got %d", opts.Concurrency)
	}
}
