package imaging

import (
	"image"
	"image/color"
	"testing"

	"cardapio-go/internal/model"
)

// createTestImage creates a simple test image with the given dimensions.
func createTestImage(width, height int) image.Image {
	img := image.NewRGBA(image.Rect(0, 0, width, height))
	for y := 0; y < height; y++ {
		for x := 0; x < width; x++ {
			img.Set(x, y, color.RGBA{R: uint8(x), G: uint8(y), B: 128, A: 255})
		}
	}
	return img
}

func TestDetectFormat(t *testing.T) {
	tests := []struct {
		name string
		data []byte
		want string
	}{
		{"jpeg magic bytes", []byte{0xFF, 0xD8, 0xFF, 0xE0}, "jpeg"},
		{"png magic bytes", []byte{0x89, 0x50, 0x4E, 0x47, 0x0D, 0x0A, 0x1A, 0x0A}, "png"},
		{"gif magic bytes", []byte{0x47, 0x49, 0x46, 0x38, 0x39, 0x61}, "gif"},
		{"unknown", []byte{0x00, 0x01, 0x02, 0x03}, ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := detectFormat(tt.data); got != tt.want {
				t.Errorf("detectFormat() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestDetectFormatFromFilename(t *testing.T) {
	tests := []struct {
		filename string
		want     string
	}{
		{"foto.jpg", "jpeg"},
		{"foto.jpeg", "jpeg"},
		{"foto.JPG", "jpeg"},
		{"foto.png", "png"},
		{"foto.gif", "gif"},
		{"foto.webp", "webp"},
		{"foto.unknown", "jpeg"},
		{"noextension", "jpeg"},
	}

	for _, tt := range tests {
		t.Run(tt.filename, func(t *testing.T) {
			if got := detectFormatFromFilename(tt.filename); got != tt.want {
				t.Errorf("detectFormatFromFilename(%q) = %v, want %v", tt.filename, got, tt.want)
			}
		})
	}
}

func TestFormatToMimeType(t *testing.T) {
	tests := []struct {
		format string
		want   string
	}{
		{"jpeg", model.MimeTypeJPEG},
		{"jpg", model.MimeTypeJPEG},
		{"png", model.MimeTypePNG},
		{"gif", model.MimeTypeGIF},
		{"webp", model.MimeTypeWebP},
		{"unknown", "application/octet-stream"},
	}

	for _, tt := range tests {
		t.Run(tt.format, func(t *testing.T) {
			if got := formatToMimeType(tt.format); got != tt.want {
				t.Errorf("formatToMimeType(%q) = %v, want %v", tt.format, got, tt.want)
			}
		})
	}
}

func TestApplyOrientation(t *testing.T) {
	// Verify it doesn't panic for all orientations 1-8 plus out-of-range values.
	tests := []int{1, 2, 3, 4, 5, 6, 7, 8, 0, 9}

	for _, orientation := range tests {
		img := createTestImage(10, 10)
		result := applyOrientation(img, orientation)
		if result == nil {
			t.Errorf("applyOrientation(img, %d) returned nil", orientation)
		}
	}
}

func TestApplyOrientationRotatesDimensions(t *testing.T) {
	img := createTestImage(20, 10)

	rotated := applyOrientation(img, 6)
	bounds := rotated.Bounds()
	if bounds.Dx() != 10 || bounds.Dy() != 20 {
		t.Errorf("orientation 6: dimensions = %dx%d, want 10x20", bounds.Dx(), bounds.Dy())
	}
}

func TestSaveImageFileRejectsTraversal(t *testing.T) {
	p := NewProcessor(t.TempDir())

	if _, err := p.saveImageFile("../outside", "f.jpg", []byte("x")); err == nil {
		t.Error("saveImageFile with ../ subdir: want error")
	}
	if _, err := p.saveImageFile("originals/x", "..", []byte("x")); err == nil {
		t.Error("saveImageFile with .. filename: want error")
	}
}
