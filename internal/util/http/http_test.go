package http

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/jmylchreest/bandtint/internal/security"
)

func TestFetch(t *testing.T) {
	var gotUA, gotHeader string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotUA = r.Header.Get("User-Agent")
		gotHeader = r.Header.Get("X-Test")
		switch r.URL.Path {
		case "/ok":
			_, _ = w.Write([]byte("tile-bytes"))
		case "/big":
			_, _ = w.Write([]byte(strings.Repeat("x", 100)))
		default:
			http.NotFound(w, r)
		}
	}))
	defer srv.Close()

	ctx := context.Background()

	data, err := Fetch(ctx, srv.URL+"/ok", FetchOptions{Headers: map[string]string{"X-Test": "yes"}})
	if err != nil {
		t.Fatalf("Fetch() error = %v", err)
	}
	if string(data) != "tile-bytes" {
		t.Errorf("Fetch() = %q", data)
	}
	if !strings.HasPrefix(gotUA, "bandtint/") {
		t.Errorf("User-Agent = %q", gotUA)
	}
	if gotHeader != "yes" {
		t.Errorf("X-Test = %q", gotHeader)
	}

	if _, err := Fetch(ctx, srv.URL+"/missing", FetchOptions{}); err == nil || !strings.Contains(err.Error(), "HTTP 404") {
		t.Errorf("Fetch(missing) error = %v", err)
	}

	if _, err := Fetch(ctx, srv.URL+"/big", FetchOptions{MaxBytes: 10}); !errors.Is(err, security.ErrLimitExceeded) {
		t.Errorf("Fetch(big) error = %v, want ErrLimitExceeded", err)
	}

	if _, err := Fetch(ctx, "ftp://example.com/x", FetchOptions{}); err == nil {
		t.Error("Fetch(ftp) should fail")
	}
}
