package imagecache

import (
	"context"
	"net/http"
	"net/http/httptest"
	"os"
	"strings"
	"sync/atomic"
	"testing"
)

func TestFilename(t *testing.T) {
	tests := []struct {
		name    string
		key     string
		ext     string
		wantExt string
	}{
		{name: "keeps extension", key: "https://x/a.png", ext: ".png", wantExt: ".png"},
		{name: "lowercases", key: "k", ext: ".JPG", wantExt: ".jpg"},
		{name: "strips query", key: "k", ext: ".webp?v=2", wantExt: ".webp"},
		{name: "missing", key: "k", ext: "", wantExt: ".img"},
		{name: "too long", key: "k", ext: ".toolong", wantExt: ".img"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Filename(tt.key, tt.ext)
			if !strings.HasSuffix(got, tt.wantExt) {
				t.Errorf("Filename() = %q, want suffix %q", got, tt.wantExt)
			}
			if len(got) != 32+len(tt.wantExt) {
				t.Errorf("Filename() = %q has unexpected length", got)
			}
		})
	}

	if Filename("a", ".png") == Filename("b", ".png") {
		t.Error("different keys produced the same name")
	}
}

func TestDownloadAndCache(t *testing.T) {
	var hits atomic.Int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		hits.Add(1)
		_, _ = w.Write([]byte("image-bytes"))
	}))
	defer server.Close()

	opts := Options{Dir: t.TempDir()}
	url := server.URL + "/tile.png"

	path, err := DownloadAndCache(context.Background(), url, opts)
	if err != nil {
		t.Fatalf("DownloadAndCache() error = %v", err)
	}
	data, err := os.ReadFile(path)
	if err != nil || string(data) != "image-bytes" {
		t.Fatalf("cached content = %q, %v", data, err)
	}

	again, err := DownloadAndCache(context.Background(), url, opts)
	if err != nil || again != path {
		t.Fatalf("second DownloadAndCache() = %q, %v", again, err)
	}
	if hits.Load() != 1 {
		t.Errorf("server hit %d times, want 1", hits.Load())
	}

	opts.AllowOverwrite = true
	if _, err := DownloadAndCache(context.Background(), url, opts); err != nil {
		t.Fatal(err)
	}
	if hits.Load() != 2 {
		t.Errorf("server hit %d times after overwrite, want 2", hits.Load())
	}
}

func TestDownloadAndCache_InvalidURL(t *testing.T) {
	if _, err := DownloadAndCache(context.Background(), "ftp://example.com/a.png", Options{Dir: t.TempDir()}); err == nil {
		t.Error("expected error for ftp URL")
	}
}

func TestStore(t *testing.T) {
	opts := Options{Dir: t.TempDir()}

	path, err := Store("a calm sea", ".png", []byte("first"), opts)
	if err != nil {
		t.Fatalf("Store() error = %v", err)
	}
	if !strings.HasSuffix(path, ".png") {
		t.Errorf("path = %q", path)
	}

	if _, err := Store("a calm sea", ".png", []byte("second"), opts); err != nil {
		t.Fatal(err)
	}
	data, _ := os.ReadFile(path)
	if string(data) != "first" {
		t.Errorf("existing entry overwritten: %q", data)
	}

	opts.AllowOverwrite = true
	if _, err := Store("a calm sea", ".png", []byte("second"), opts); err != nil {
		t.Fatal(err)
	}
	data, _ = os.ReadFile(path)
	if string(data) != "second" {
		t.Errorf("entry not overwritten: %q", data)
	}
}
