package imaging

import (
	"fmt"
	"image"
	_ "image/gif"  // Register GIF format decoder
	_ "image/jpeg" // Register JPEG format decoder
	_ "image/png"  // Register PNG format decoder
	"os"
	"path/filepath"
	"strings"
	"sync"
)

// ImageCache keeps decoded input images keyed by path, so repeated
// detection runs on the same file skip the decode.
//
// ImageCache is safe for concurrent use. Entries stay until Evict or Clear;
// paths are used verbatim, so "a.png" and "./a.png" are separate entries.
type ImageCache struct {
	mu     sync.RWMutex
	images map[string]image.Image
}

// NewImageCache returns an empty cache.
func NewImageCache() *ImageCache {
	return &ImageCache{
		images: make(map[string]image.Image),
	}
}

// Load returns the decoded image at path, reading it from disk on first use.
// PNG, JPEG and GIF are supported.
func (c *ImageCache) Load(path string) (image.Image, error) {
	c.mu.RLock()
	img, ok := c.images[path]
	c.mu.RUnlock()
	if ok {
		return img, nil
	}

	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open image: %w", err)
	}
	defer f.Close()

	img, _, err = image.Decode(f)
	if err != nil {
		return nil, fmt.Errorf("failed to decode image: %w", err)
	}

	c.mu.Lock()
	c.images[path] = img
	c.mu.Unlock()

	return img, nil
}

// Len returns the number of cached images.
func (c *ImageCache) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.images)
}

// Clear drops every cached image.
func (c *ImageCache) Clear() {
	c.mu.Lock()
	c.images = make(map[string]image.Image)
	c.mu.Unlock()
}

// Evict drops the image cached under path, if any.
func (c *ImageCache) Evict(path string) {
	c.mu.Lock()
	delete(c.images, path)
	c.mu.Unlock()
}

// ImageInfo describes an input image.
type ImageInfo struct {
	Width  int `json:"width"`
	Height int `json:"height"`

	// Format is "png", "jpeg", "gif" or "unknown", from the file extension.
	Format string `json:"format"`

	// Grayscale is true for single-channel images, the usual case for
	// edge images.
	Grayscale bool `json:"grayscale"`

	// EdgePixels is the number of pixels the default mask preparation
	// marks as edges.
	EdgePixels int `json:"edge_pixels"`

	FileSizeBytes int64 `json:"file_size_bytes"`
}

// LoadImageInfo loads the image at path through cache and describes it,
// including how many edge pixels the default preprocessing yields.
func LoadImageInfo(cache *ImageCache, path string) (*ImageInfo, error) {
	img, err := cache.Load(path)
	if err != nil {
		return nil, err
	}

	stat, err := os.Stat(path)
	if err != nil {
		return nil, fmt.Errorf("failed to stat file: %w", err)
	}

	var gray bool
	switch img.(type) {
	case *image.Gray, *image.Gray16:
		gray = true
	}

	bounds := img.Bounds()
	return &ImageInfo{
		Width:         bounds.Dx(),
		Height:        bounds.Dy(),
		Format:        formatFromExt(path),
		Grayscale:     gray,
		EdgePixels:    PrepareMask(img, DefaultMaskOptions()).Count(),
		FileSizeBytes: stat.Size(),
	}, nil
}

// DimensionsResult contains the width and height of an image.
type DimensionsResult struct {
	Width  int `json:"width"`
	Height int `json:"height"`
}

// GetDimensions returns the size of the image at path.
func GetDimensions(cache *ImageCache, path string) (*DimensionsResult, error) {
	img, err := cache.Load(path)
	if err != nil {
		return nil, err
	}

	bounds := img.Bounds()
	return &DimensionsResult{
		Width:  bounds.Dx(),
		Height: bounds.Dy(),
	}, nil
}

func formatFromExt(path string) string {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".png":
		return "png"
	case ".jpg", ".jpeg":
		return "jpeg"
	case ".gif":
		return "gif"
	default:
		return "unknown"
	}
}
