package security

import (
	"bytes"
	"errors"
	"io"
	"path/filepath"
	"testing"
)

func TestValidateSourceURL(t *testing.T) {
	tests := []struct {
		url     string
		wantErr bool
	}{
		{url: "https://example.com/tile.png"},
		{url: "http://localhost:8080/tile.png"},
		{url: "", wantErr: true},
		{url: "ftp://example.com/tile.png", wantErr: true},
		{url: "file:///etc/passwd", wantErr: true},
		{url: "https://", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.url, func(t *testing.T) {
			err := ValidateSourceURL(tt.url)
			if (err != nil) != tt.wantErr {
				t.Errorf("ValidateSourceURL(%q) error = %v, wantErr %v", tt.url, err, tt.wantErr)
			}
		})
	}
}

func TestIsURL(t *testing.T) {
	if !IsURL("HTTPS://example.com/a.png") {
		t.Error("IsURL should accept upper-case scheme")
	}
	if IsURL("/tmp/a.png") {
		t.Error("IsURL should reject file paths")
	}
}

func TestValidatePluginPath(t *testing.T) {
	base := t.TempDir()

	if err := ValidatePluginPath(filepath.Join(base, "bandtint-adapter-usb"), base); err != nil {
		t.Errorf("path inside base rejected: %v", err)
	}
	if err := ValidatePluginPath(filepath.Join(base, "..", "evil"), base); err == nil {
		t.Error("path traversal accepted")
	}
	if err := ValidatePluginPath(base, base); err == nil {
		t.Error("base directory itself accepted as plugin")
	}
	if err := ValidatePluginPath("", base); err == nil {
		t.Error("empty path accepted")
	}
}

func TestLimitedReader(t *testing.T) {
	data := bytes.Repeat([]byte{'x'}, 10)

	got, err := io.ReadAll(NewLimitedReader(bytes.NewReader(data), 10))
	if err != nil || len(got) != 10 {
		t.Fatalf("ReadAll() = %d bytes, %v", len(got), err)
	}

	_, err = io.ReadAll(NewLimitedReader(bytes.NewReader(data), 5))
	if !errors.Is(err, ErrLimitExceeded) {
		t.Errorf("ReadAll() error = %v, want ErrLimitExceeded", err)
	}
}
