// Package imaging resizes uploaded post images. Images are scaled to fit
// inside a bounding box preserving aspect ratio and re-encoded as JPEG.
// JPEG cannot represent transparency or palette data, so sources with an
// alpha channel or palette color model are composited onto an opaque
// background before encoding.
package imaging

import (
	"bytes"
	"fmt"
	"image"
	"image/color"
	"image/jpeg"

	_ "image/gif"
	_ "image/png"

	"golang.org/x/image/draw"
)

// BoundWidth and BoundHeight define the bounding box a processed post
// image must fit inside. Aspect ratio is always preserved.
const (
	BoundWidth  = 600
	BoundHeight = 600
)

// jpegQuality is the encode quality for processed images.
const jpegQuality = 85

// Thumbnail scales the source image down to fit within BoundWidth x
// BoundHeight and returns it as JPEG bytes. Images already inside the box
// are re-encoded without upscaling. The decoded image is converted to an
// opaque RGB model first when the source carries alpha or palette data;
// if that conversion path also fails the error is returned, never
// swallowed.
func Thumbnail(source []byte) ([]byte, error) {
	img, format, err := image.Decode(bytes.NewReader(source))
	if err != nil {
		return nil, fmt.Errorf("imaging: decode: %w", err)
	}

	bounds := img.Bounds()
	w, h := bounds.Dx(), bounds.Dy()
	if w <= 0 || h <= 0 {
		return nil, fmt.Errorf("imaging: empty %s image", format)
	}

	outW, outH := fitWithin(w, h, BoundWidth, BoundHeight)

	// Composite onto an opaque white canvas. This both performs the scale
	// and drops alpha/palette color models that JPEG cannot encode.
	dst := image.NewRGBA(image.Rect(0, 0, outW, outH))
	draw.Draw(dst, dst.Bounds(), image.NewUniform(color.White), image.Point{}, draw.Src)
	draw.CatmullRom.Scale(dst, dst.Bounds(), img, bounds, draw.Over, nil)

	var buf bytes.Buffer
	if err := jpeg.Encode(&buf, dst, &jpeg.Options{Quality: jpegQuality}); err != nil {
		return nil, fmt.Errorf("imaging: encode jpeg: %w", err)
	}
	return buf.Bytes(), nil
}

// fitWithin computes output dimensions that fit inside maxW x maxH while
// preserving aspect ratio. Dimensions already inside the box are returned
// unchanged; results never drop below 1 pixel.
func fitWithin(w, h, maxW, maxH int) (int, int) {
	if w <= maxW && h <= maxH {
		return w, h
	}

	scaleW := float64(maxW) / float64(w)
	scaleH := float64(maxH) / float64(h)
	scale := scaleW
	if scaleH < scale {
		scale = scaleH
	}

	outW := int(float64(w) * scale)
	outH := int(float64(h) * scale)
	if outW < 1 {
		outW = 1
	}
	if outH < 1 {
		outH = 1
	}
	return outW, outH
}
