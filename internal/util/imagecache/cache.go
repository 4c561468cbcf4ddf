// Package imagecache keeps local copies of Me Tile source images:
// downloads fetched from URLs and artwork produced from prompts.
package imagecache

import (
	"context"
	"crypto/sha256"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/jmylchreest/bandtint/internal/security"
	httputil "github.com/jmylchreest/bandtint/internal/util/http"
)

// Options configures cache behaviour.
type Options struct {
	// Dir is the cache directory. Empty means DefaultDir.
	Dir string

	// AllowOverwrite replaces an existing entry instead of reusing it.
	AllowOverwrite bool

	// Fetch is passed through to the HTTP download.
	Fetch httputil.FetchOptions
}

// DefaultDir returns the default cache directory.
func DefaultDir() (string, error) {
	cacheDir, err := os.UserCacheDir()
	if err != nil {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("failed to determine cache directory: %w", err)
		}
		return filepath.Join(home, ".cache", "bandtint", "metile"), nil
	}
	return filepath.Join(cacheDir, "bandtint", "metile"), nil
}

// Filename derives a deterministic file name from key, keeping ext when it looks sane.
func Filename(key, ext string) string {
	hash := sha256.Sum256([]byte(key))
	if idx := strings.IndexByte(ext, '?'); idx != -1 {
		ext = ext[:idx]
	}
	if ext == "" || len(ext) > 5 {
		ext = ".img"
	}
	return fmt.Sprintf("%x%s", hash[:16], strings.ToLower(ext))
}

func (o Options) dir() (string, error) {
	dir := o.Dir
	if dir == "" {
		var err error
		if dir, err = DefaultDir(); err != nil {
			return "", err
		}
	}
	if err := os.MkdirAll(dir, 0o755); err != nil { // #nosec G301 - cache directory needs standard permissions
		return "", fmt.Errorf("failed to create cache directory: %w", err)
	}
	return dir, nil
}

// DownloadAndCache downloads url into the cache and returns the local path.
// An existing entry is reused unless AllowOverwrite is set.
func DownloadAndCache(ctx context.Context, url string, opts Options) (string, error) {
	if err := security.ValidateSourceURL(url); err != nil {
		return "", err
	}

	dir, err := opts.dir()
	if err != nil {
		return "", err
	}

	path := filepath.Join(dir, Filename(url, filepath.Ext(url)))
	if !opts.AllowOverwrite {
		if _, err := os.Stat(path); err == nil {
			return path, nil
		}
	}

	data, err := httputil.Fetch(ctx, url, opts.Fetch)
	if err != nil {
		return "", fmt.Errorf("failed to download image: %w", err)
	}

	if err := os.WriteFile(path, data, 0o644); err != nil { // #nosec G306 - cache files need standard read permissions
		return "", fmt.Errorf("failed to write cached image: %w", err)
	}
	return path, nil
}

// Store writes data under key (for example a generation prompt) and returns the path.
func Store(key, ext string, data []byte, opts Options) (string, error) {
	dir, err := opts.dir()
	if err != nil {
		return "", err
	}

	path := filepath.Join(dir, Filename(key, ext))
	if !opts.AllowOverwrite {
		if _, err := os.Stat(path); err == nil {
			return path, nil
		}
	}

	if err := os.WriteFile(path, data, 0o644); err != nil { // #nosec G306 - cache files need standard read permissions
		return "", fmt.Errorf("failed to write cached image: %w", err)
	}
	return path, nil
}
