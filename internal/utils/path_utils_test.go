package utils

import (
	"testing"
)

func TestExtractModuleName(t *testing.T) {
	tests := []struct {
		path     string
		expected string
	}{
		{"simple.logos", "simple"},
		{"path/to/module.logos", "module"},
		{"module", "module"},
		{"/absolute/path/to/mod.logos", "mod"},
		{".logos", ""}, // Edge case: just extension
		{"name.with.dots.logos", "name.with.dots"},
	}

	for _, tt := range tests {
		t.Run(tt.path, func(t *testing.T) {
			got := ExtractModuleName(tt.path)
			if got != tt.expected {
				t.Errorf("ExtractModuleName(%q) = %q; want %q", tt.path, got, tt.expected)
			}
		})
	}
}

func TestGetModuleDir(t *testing.T) {
	tests := []struct {
		path     string
		expected string
	}{
		{"path/to/file.logos", "path/to"},
		{"file.logos", "."},
		{"/abs/file.logos", "/abs"},
		// Add directory cases since behavior changed
		{"path/to/dir", "path/to/dir"},
		{"/abs/dir", "/abs/dir"},
	}

	for _, tt := range tests {
		t.Run(tt.path, func(t *testing.T) {
			got := GetModuleDir(tt.path)
			if got != tt.expected {
				t.Errorf("GetModuleDir(%q) = %q; want %q", tt.path, got, tt.expected)
			}
		})
	}
}
