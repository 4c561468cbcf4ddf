// Package image loads source images and converts them to and from the Me Tile's native form.
package image

import (
	"bufio"
	"bytes"
	"compress/gzip"
	"context"
	"fmt"
	"image"
	_ "image/gif"  // Register GIF format
	_ "image/jpeg" // Register JPEG format
	_ "image/png"  // Register PNG format
	"io"
	"os"
	"path/filepath"
	"slices"
	"strings"

	"github.com/ulikunitz/xz"
	_ "golang.org/x/image/bmp"  // Register BMP format
	_ "golang.org/x/image/webp" // Register WebP format

	"github.com/jmylchreest/bandtint/internal/security"
	httputil "github.com/jmylchreest/bandtint/internal/util/http"
)

// DefaultMaxDecodedBytes limits how much a compressed image may expand to.
const DefaultMaxDecodedBytes = 64 << 20

var (
	gzipMagic = []byte{0x1F, 0x8B}
	xzMagic   = []byte{0xFD, '7', 'z', 'X', 'Z', 0x00}
)

// Loader handles loading images from various sources.
type Loader interface {
	// Load loads an image from a file path or http(s) URL.
	Load(ctx context.Context, source string) (image.Image, error)
}

// SmartLoader loads images from both local files and HTTP(S) URLs.
// Sources compressed with gzip or xz are decompressed transparently.
type SmartLoader struct {
	// MaxDecodedBytes caps decompressed size. Zero means DefaultMaxDecodedBytes.
	MaxDecodedBytes int64

	// FetchOptions are used for URL sources.
	FetchOptions httputil.FetchOptions
}

// NewSmartLoader creates a new SmartLoader instance.
func NewSmartLoader() *SmartLoader {
	return &SmartLoader{}
}

// Load loads an image from either a local file path or HTTP(S) URL.
func (l *SmartLoader) Load(ctx context.Context, source string) (image.Image, error) {
	if source == "" {
		return nil, fmt.Errorf("image path cannot be empty")
	}

	if security.IsURL(source) {
		data, err := httputil.Fetch(ctx, source, l.FetchOptions)
		if err != nil {
			return nil, fmt.Errorf("failed to fetch image from URL: %w", err)
		}
		return l.Decode(bytes.NewReader(data))
	}

	info, err := os.Stat(source)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("image file not found: %s", source)
		}
		return nil, fmt.Errorf("failed to stat image file: %w", err)
	}
	if info.IsDir() {
		return nil, fmt.Errorf("path is a directory, not a file: %s", source)
	}

	file, err := os.Open(source) // #nosec G304 - User-specified image path, intended to be read
	if err != nil {
		return nil, fmt.Errorf("failed to open image file: %w", err)
	}
	defer file.Close()

	return l.Decode(file)
}

// Decode decodes an image from r, unwrapping a gzip or xz layer when present.
func (l *SmartLoader) Decode(r io.Reader) (image.Image, error) {
	limit := l.MaxDecodedBytes
	if limit == 0 {
		limit = DefaultMaxDecodedBytes
	}

	br := bufio.NewReader(r)
	head, _ := br.Peek(len(xzMagic))

	var src io.Reader = br
	switch {
	case bytes.HasPrefix(head, xzMagic):
		xzr, err := xz.NewReader(br)
		if err != nil {
			return nil, fmt.Errorf("failed to create xz reader: %w", err)
		}
		src = security.NewLimitedReader(xzr, limit)
	case bytes.HasPrefix(head, gzipMagic):
		gzr, err := gzip.NewReader(br)
		if err != nil {
			return nil, fmt.Errorf("failed to create gzip reader: %w", err)
		}
		defer gzr.Close()
		src = security.NewLimitedReader(gzr, limit)
	}

	img, format, err := image.Decode(src)
	if err != nil {
		return nil, fmt.Errorf("failed to decode image (format: %s): %w", format, err)
	}
	return img, nil
}

// SupportedImageExtensions returns the file extensions the loader recognises,
// including their compressed variants.
func SupportedImageExtensions() []string {
	base := []string{".jpg", ".jpeg", ".png", ".gif", ".webp", ".bmp"}
	exts := slices.Clone(base)
	for _, ext := range base {
		exts = append(exts, ext+".gz", ext+".xz")
	}
	return exts
}

// IsImageFile checks if a file has a supported image extension.
func IsImageFile(path string) bool {
	name := strings.ToLower(filepath.Base(path))
	for _, ext := range SupportedImageExtensions() {
		if strings.HasSuffix(name, ext) {
			return true
		}
	}
	return false
}
