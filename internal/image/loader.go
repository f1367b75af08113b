// Package image loads design images from local paths or HTTP(S) URLs.
package image

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"image"
	_ "image/gif"  // Register GIF format
	_ "image/jpeg" // Register JPEG format
	_ "image/png"  // Register PNG format
	"os"
	"strings"

	_ "golang.org/x/image/webp" // Register WebP format

	"github.com/jmylchreest/atelier/internal/imagecache"
	"github.com/jmylchreest/atelier/internal/security"
	httputil "github.com/jmylchreest/atelier/internal/util/http"
)

var (
	// ErrImageUnavailable is returned when an image cannot be read or decoded.
	ErrImageUnavailable = errors.New("image unavailable")

	// ErrInvalidRef is returned when a reference is not acceptable to the
	// loader, such as a local path given to a URL-only loader.
	ErrInvalidRef = errors.New("invalid image reference")
)

// Loader handles loading images from various sources.
type Loader interface {
	// Load loads an image from the given reference (path or URL).
	Load(ctx context.Context, ref string) (image.Image, error)
}

// IsURL reports whether ref is an HTTP(S) URL.
func IsURL(ref string) bool {
	return strings.HasPrefix(ref, "http://") || strings.HasPrefix(ref, "https://")
}

// FileLoader loads images from the local filesystem.
type FileLoader struct{}

// NewFileLoader creates a new FileLoader instance.
func NewFileLoader() *FileLoader {
	return &FileLoader{}
}

// Load loads an image from a file path.
// Supported formats: JPEG, PNG, GIF, WebP.
func (l *FileLoader) Load(_ context.Context, path string) (image.Image, error) {
	if path == "" {
		return nil, fmt.Errorf("%w: image path cannot be empty", ErrImageUnavailable)
	}

	info, err := os.Stat(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("%w: image file not found: %s", ErrImageUnavailable, path)
		}
		return nil, fmt.Errorf("%w: failed to stat image file: %w", ErrImageUnavailable, err)
	}

	if info.IsDir() {
		return nil, fmt.Errorf("%w: path is a directory, not a file: %s", ErrImageUnavailable, path)
	}

	file, err := os.Open(path) // #nosec G304 - User-specified image path, intended to be read
	if err != nil {
		return nil, fmt.Errorf("%w: failed to open image file: %w", ErrImageUnavailable, err)
	}
	defer file.Close()

	img, format, err := image.Decode(file)
	if err != nil {
		return nil, fmt.Errorf("%w: failed to decode image (format: %s): %w", ErrImageUnavailable, format, err)
	}

	return img, nil
}

// ValidateImageRef checks that ref is a URL or an existing decodable image
// file. URLs are not fetched.
func ValidateImageRef(ref string) error {
	if ref == "" {
		return fmt.Errorf("image path cannot be empty")
	}
	if IsURL(ref) {
		return nil
	}

	file, err := os.Open(ref) // #nosec G304 - User-specified image path, intended to be read
	if err != nil {
		return fmt.Errorf("failed to open image file: %w", err)
	}
	defer file.Close()

	if _, _, err := image.DecodeConfig(file); err != nil {
		return fmt.Errorf("unsupported or invalid image format: %w", err)
	}
	return nil
}

// SmartLoader loads images from both local files and HTTP(S) URLs.
type SmartLoader struct {
	fileLoader   *FileLoader
	fetch        httputil.FetchOptions
	cacheDir     string
	blockPrivate bool
	urlsOnly     bool
}

// SmartLoaderOption configures a SmartLoader.
type SmartLoaderOption func(*SmartLoader)

// WithFetchOptions sets the options used for remote downloads.
func WithFetchOptions(opts httputil.FetchOptions) SmartLoaderOption {
	return func(l *SmartLoader) {
		l.fetch = opts
	}
}

// WithCacheDir enables the on-disk download cache for remote images.
func WithCacheDir(dir string) SmartLoaderOption {
	return func(l *SmartLoader) {
		l.cacheDir = dir
	}
}

// WithPrivateHostsBlocked rejects URLs that point at loopback, private or
// link-local addresses. The check is repeated for every redirect and for
// the address each connection actually dials, so hostnames resolving to a
// private address are refused too.
func WithPrivateHostsBlocked() SmartLoaderOption {
	return func(l *SmartLoader) {
		l.blockPrivate = true
	}
}

// WithURLsOnly refuses local file paths with ErrInvalidRef. The HTTP API
// uses it so clients cannot read files from the server's disk.
func WithURLsOnly() SmartLoaderOption {
	return func(l *SmartLoader) {
		l.urlsOnly = true
	}
}

// NewSmartLoader creates a new SmartLoader instance.
func NewSmartLoader(opts ...SmartLoaderOption) *SmartLoader {
	l := &SmartLoader{
		fileLoader: NewFileLoader(),
	}
	for _, opt := range opts {
		opt(l)
	}
	if l.blockPrivate {
		l.fetch.CheckURL = security.ValidateImageURL
		l.fetch.BlockPrivateAddrs = true
	}
	return l
}

// Load loads an image from either a local file path or HTTP(S) URL.
func (l *SmartLoader) Load(ctx context.Context, ref string) (image.Image, error) {
	if !IsURL(ref) {
		if l.urlsOnly {
			return nil, fmt.Errorf("%w: only http:// and https:// URLs are accepted", ErrInvalidRef)
		}
		return l.fileLoader.Load(ctx, ref)
	}

	if l.blockPrivate {
		if err := security.ValidateImageURL(ref); err != nil {
			return nil, fmt.Errorf("%w: %w", ErrImageUnavailable, err)
		}
	}

	if l.cacheDir != "" {
		path, err := imagecache.DownloadAndCache(ctx, ref, imagecache.CacheOptions{
			CacheDir: l.cacheDir,
			Fetch:    l.fetch,
		})
		if err != nil {
			return nil, fmt.Errorf("%w: %w", ErrImageUnavailable, err)
		}
		return l.fileLoader.Load(ctx, path)
	}

	return l.loadFromURL(ctx, ref)
}

// loadFromURL fetches and decodes an image from an HTTP(S) URL.
func (l *SmartLoader) loadFromURL(ctx context.Context, url string) (image.Image, error) {
	data, err := httputil.Fetch(ctx, url, l.fetch)
	if err != nil {
		return nil, fmt.Errorf("%w: failed to fetch image from URL: %w", ErrImageUnavailable, err)
	}

	img, format, err := image.Decode(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("%w: failed to decode image (format: %s): %w", ErrImageUnavailable, format, err)
	}

	return img, nil
}
