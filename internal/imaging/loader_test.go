package imaging

import (
	"image"
	"image/color"
	"image/png"
	"os"
	"path/filepath"
	"sync"
	"testing"
)

// writeTempPNG encodes img into a temp file and returns its path.
// The file is removed when the test ends.
func writeTempPNG(t *testing.T, img image.Image) string {
	t.Helper()

	tmpFile, err := os.CreateTemp("", "test-edges-*.png")
	if err != nil {
		t.Fatalf("failed to create temp file: %v", err)
	}
	defer tmpFile.Close()
	t.Cleanup(func() { os.Remove(tmpFile.Name()) })

	if err := png.Encode(tmpFile, img); err != nil {
		t.Fatalf("failed to encode image: %v", err)
	}
	return tmpFile.Name()
}

// ringImage returns a black grayscale image with a white circle outline
// whose stroke is width pixels.
func ringImage(w, h int, cx, cy, r, width float64) *image.Gray {
	img := image.NewGray(image.Rect(0, 0, w, h))
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			dx, dy := float64(x)-cx, float64(y)-cy
			d := dx*dx + dy*dy
			inner, outer := r-width/2, r+width/2
			if d >= inner*inner && d <= outer*outer {
				img.SetGray(x, y, color.Gray{Y: 255})
			}
		}
	}
	return img
}

func TestNewImageCache(t *testing.T) {
	cache := NewImageCache()
	if cache == nil {
		t.Fatal("NewImageCache returned nil")
	}
	if cache.Len() != 0 {
		t.Errorf("new cache holds %d images", cache.Len())
	}
}

func TestImageCache_Load(t *testing.T) {
	cache := NewImageCache()
	path := writeTempPNG(t, ringImage(100, 80, 50, 40, 20, 3))

	img1, err := cache.Load(path)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if b := img1.Bounds(); b.Dx() != 100 || b.Dy() != 80 {
		t.Errorf("dimensions: got %dx%d, want 100x80", b.Dx(), b.Dy())
	}

	img2, err := cache.Load(path)
	if err != nil {
		t.Fatalf("second Load failed: %v", err)
	}
	if img1 != img2 {
		t.Error("second Load did not return the cached image")
	}
	if cache.Len() != 1 {
		t.Errorf("Len: got %d, want 1", cache.Len())
	}
}

func TestImageCache_Load_Errors(t *testing.T) {
	cache := NewImageCache()

	if _, err := cache.Load("/nonexistent/path/to/edges.png"); err == nil {
		t.Error("Load should fail for a missing file")
	}

	bad := filepath.Join(t.TempDir(), "bad.png")
	if err := os.WriteFile(bad, []byte("not an image"), 0o644); err != nil {
		t.Fatalf("failed to write file: %v", err)
	}
	if _, err := cache.Load(bad); err == nil {
		t.Error("Load should fail for invalid image data")
	}
	if cache.Len() != 0 {
		t.Errorf("failed loads were cached: Len %d", cache.Len())
	}
}

func TestImageCache_EvictAndClear(t *testing.T) {
	cache := NewImageCache()
	p1 := writeTempPNG(t, ringImage(20, 20, 10, 10, 5, 1))
	p2 := writeTempPNG(t, ringImage(30, 30, 15, 15, 5, 1))

	for _, p := range []string{p1, p2} {
		if _, err := cache.Load(p); err != nil {
			t.Fatalf("Load failed: %v", err)
		}
	}

	cache.Evict(p1)
	cache.Evict("/never/loaded.png")
	if cache.Len() != 1 {
		t.Errorf("after Evict: Len %d, want 1", cache.Len())
	}

	cache.Clear()
	if cache.Len() != 0 {
		t.Errorf("after Clear: Len %d, want 0", cache.Len())
	}
}

func TestImageCache_ConcurrentAccess(t *testing.T) {
	cache := NewImageCache()
	path := writeTempPNG(t, ringImage(40, 40, 20, 20, 10, 2))

	var wg sync.WaitGroup
	errs := make(chan error, 10)
	for i := 0; i < 10; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if _, err := cache.Load(path); err != nil {
				errs <- err
			}
		}()
	}
	wg.Wait()
	close(errs)

	for err := range errs {
		t.Errorf("concurrent Load failed: %v", err)
	}
}

func TestLoadImageInfo(t *testing.T) {
	cache := NewImageCache()
	path := writeTempPNG(t, ringImage(120, 90, 60, 45, 30, 5))

	info, err := LoadImageInfo(cache, path)
	if err != nil {
		t.Fatalf("LoadImageInfo failed: %v", err)
	}

	if info.Width != 120 || info.Height != 90 {
		t.Errorf("dimensions: got %dx%d, want 120x90", info.Width, info.Height)
	}
	if info.Format != "png" {
		t.Errorf("Format: got %s, want png", info.Format)
	}
	if !info.Grayscale {
		t.Error("expected grayscale PNG to be reported as grayscale")
	}
	if info.EdgePixels == 0 {
		t.Error("expected edge pixels after default preprocessing")
	}
	if info.FileSizeBytes <= 0 {
		t.Errorf("FileSizeBytes: got %d", info.FileSizeBytes)
	}
}

func TestFormatFromExt(t *testing.T) {
	tests := []struct {
		path string
		want string
	}{
		{"a.png", "png"},
		{"a.PNG", "png"},
		{"a.jpg", "jpeg"},
		{"a.jpeg", "jpeg"},
		{"a.gif", "gif"},
		{"a.bmp", "unknown"},
		{"noext", "unknown"},
	}

	for _, tt := range tests {
		if got := formatFromExt(tt.path); got != tt.want {
			t.Errorf("formatFromExt(%q): got %s, want %s", tt.path, got, tt.want)
		}
	}
}

func TestGetDimensions(t *testing.T) {
	cache := NewImageCache()
	path := writeTempPNG(t, ringImage(64, 32, 32, 16, 10, 2))

	dims, err := GetDimensions(cache, path)
	if err != nil {
		t.Fatalf("GetDimensions failed: %v", err)
	}
	if dims.Width != 64 || dims.Height != 32 {
		t.Errorf("dimensions: got %dx%d, want 64x32", dims.Width, dims.Height)
	}

	if _, err := GetDimensions(cache, "/nonexistent.png"); err == nil {
		t.Error("GetDimensions should fail for a missing file")
	}
}
