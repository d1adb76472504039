package main

import "testing"

func TestParseFlags(t *testing.T) {
	tests := []struct {
		name string
		args []string
		want cliFlags
	}{
		{
			name: "no arguments",
			args: nil,
			want: cliFlags{},
		},
		{
			name: "long flags",
			args: []string{"--site", "https://h.io/docs", "--out", "./build", "--no-cover", "--verbose"},
			want: cliFlags{siteURL: "https://h.io/docs", outputDir: "./build", noCover: true, verbose: true},
		},
		{
			name: "short flags",
			args: []string{"-s", "https://h.io/docs", "-o", "out", "-v", "-c", "custom.yaml"},
			want: cliFlags{siteURL: "https://h.io/docs", outputDir: "out", verbose: true, configPath: "custom.yaml"},
		},
		{
			name: "version",
			args: []string{"--version"},
			want: cliFlags{version: true},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := parseFlags(tt.args)
			if err != nil {
				t.Fatalf("parseFlags(%v) error = %v", tt.args, err)
			}
			if got != tt.want {
				t.Errorf("parseFlags(%v) = %+v, want %+v", tt.args, got, tt.want)
			}
		})
	}
}

func TestParseFlagsUnknown(t *testing.T) {
	if _, err := parseFlags([]string{"--bogus"}); err == nil {
		t.Error("parseFlags() accepted an unknown flag")
	}
}
