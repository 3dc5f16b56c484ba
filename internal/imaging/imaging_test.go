package imaging

import (
	"bytes"
	"image"
	"image/color"
	"image/jpeg"
	"image/png"
	"testing"
)

// pngBytes encodes a solid-color RGBA image of the given size.
func pngBytes(t *testing.T, w, h int, c color.Color) []byte {
	t.Helper()
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			img.Set(x, y, c)
		}
	}
	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		t.Fatalf("encode png: %v", err)
	}
	return buf.Bytes()
}

func decodeJPEG(t *testing.T, data []byte) image.Image {
	t.Helper()
	img, err := jpeg.Decode(bytes.NewReader(data))
	if err != nil {
		t.Fatalf("result is not a decodable JPEG: %v", err)
	}
	return img
}

func TestThumbnail_ScalesDown(t *testing.T) {
	tests := []struct {
		name       string
		w, h       int
		wantW      int
		wantH      int
	}{
		{name: "wide landscape", w: 1200, h: 600, wantW: 600, wantH: 300},
		{name: "tall portrait", w: 600, h: 1200, wantW: 300, wantH: 600},
		{name: "large square", w: 2400, h: 2400, wantW: 600, wantH: 600},
		{name: "slightly over in one dimension", w: 601, h: 100, wantW: 600, wantH: 99},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			source := pngBytes(t, tt.w, tt.h, color.RGBA{R: 200, G: 40, B: 40, A: 255})

			out, err := Thumbnail(source)
			if err != nil {
				t.Fatalf("Thumbnail error: %v", err)
			}

			img := decodeJPEG(t, out)
			b := img.Bounds()
			if b.Dx() != tt.wantW || b.Dy() != tt.wantH {
				t.Errorf("result %dx%d, want %dx%d", b.Dx(), b.Dy(), tt.wantW, tt.wantH)
			}
		})
	}
}

// TestThumbnail_NoUpscale verifies images already inside the bounding box
// keep their dimensions.
func TestThumbnail_NoUpscale(t *testing.T) {
	source := pngBytes(t, 320, 240, color.RGBA{R: 40, G: 40, B: 200, A: 255})

	out, err := Thumbnail(source)
	if err != nil {
		t.Fatalf("Thumbnail error: %v", err)
	}

	img := decodeJPEG(t, out)
	b := img.Bounds()
	if b.Dx() != 320 || b.Dy() != 240 {
		t.Errorf("result %dx%d, want 320x240 unchanged", b.Dx(), b.Dy())
	}
}

// TestThumbnail_AlphaSource verifies a transparent PNG round-trips into an
// opaque JPEG: transparent regions composite onto the white background.
func TestThumbnail_AlphaSource(t *testing.T) {
	source := pngBytes(t, 100, 100, color.RGBA{})

	out, err := Thumbnail(source)
	if err != nil {
		t.Fatalf("Thumbnail error: %v", err)
	}

	img := decodeJPEG(t, out)
	r, g, b, _ := img.At(50, 50).RGBA()
	// JPEG is lossy; just require something near white, far from black.
	if r>>8 < 200 || g>>8 < 200 || b>>8 < 200 {
		t.Errorf("transparent pixel became (%d, %d, %d), want near-white", r>>8, g>>8, b>>8)
	}
}

// TestThumbnail_PalettedSource exercises the GIF decode path, which yields
// a paletted color model.
func TestThumbnail_PalettedSource(t *testing.T) {
	img := image.NewPaletted(image.Rect(0, 0, 900, 300), color.Palette{
		color.RGBA{R: 255, G: 255, B: 255, A: 255},
		color.RGBA{R: 0, G: 0, B: 0, A: 255},
	})
	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		t.Fatalf("encode png: %v", err)
	}

	out, err := Thumbnail(buf.Bytes())
	if err != nil {
		t.Fatalf("Thumbnail error: %v", err)
	}

	got := decodeJPEG(t, out)
	b := got.Bounds()
	if b.Dx() != 600 || b.Dy() != 200 {
		t.Errorf("result %dx%d, want 600x200", b.Dx(), b.Dy())
	}
}

func TestThumbnail_RejectsGarbage(t *testing.T) {
	if _, err := Thumbnail([]byte("not an image at all")); err == nil {
		t.Error("Thumbnail accepted non-image data")
	}
}

func TestThumbnail_RejectsEmpty(t *testing.T) {
	if _, err := Thumbnail(nil); err == nil {
		t.Error("Thumbnail accepted empty input")
	}
}

func TestFitWithin(t *testing.T) {
	tests := []struct {
		name         string
		w, h         int
		wantW, wantH int
	}{
		{name: "inside box unchanged", w: 100, h: 100, wantW: 100, wantH: 100},
		{name: "exact box unchanged", w: 600, h: 600, wantW: 600, wantH: 600},
		{name: "double width", w: 1200, h: 400, wantW: 600, wantH: 200},
		{name: "double height", w: 400, h: 1200, wantW: 200, wantH: 600},
		{name: "extreme panorama keeps a pixel", w: 100000, h: 10, wantW: 600, wantH: 1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			gotW, gotH := fitWithin(tt.w, tt.h, BoundWidth, BoundHeight)
			if gotW != tt.wantW || gotH != tt.wantH {
				t.Errorf("fitWithin(%d, %d) = (%d, %d), want (%d, %d)", tt.w, tt.h, gotW, gotH, tt.wantW, tt.wantH)
			}
		})
	}
}
