package domain

import "image"

// ImageSample is one decoded input photo. Pixels are stored as a flat
// RGBA buffer (4 bytes per pixel, row-major) so analysis stays free of
// codec concerns.
type ImageSample struct {
	Width  int
	Height int
	Pix    []uint8
}

// NewImageSample flattens a decoded image into an ImageSample.
func NewImageSample(img image.Image) ImageSample {
	b := img.Bounds()
	s := ImageSample{
		Width:  b.Dx(),
		Height: b.Dy(),
		Pix:    make([]uint8, 0, b.Dx()*b.Dy()*4),
	}
	for y := b.Min.Y; y < b.Max.Y; y++ {
		for x := b.Min.X; x < b.Max.X; x++ {
			r, g, bl, a := img.At(x, y).RGBA()
			s.Pix = append(s.Pix, uint8(r>>8), uint8(g>>8), uint8(bl>>8), uint8(a>>8))
		}
	}
	return s
}

// Valid reports whether the sample carries at least one pixel.
func (s ImageSample) Valid() bool {
	return s.Width > 0 && s.Height > 0 && len(s.Pix) >= s.Width*s.Height*4
}

// RGBAAt returns the pixel at (x, y). The caller must stay in bounds.
func (s ImageSample) RGBAAt(x, y int) (r, g, b uint8) {
	i := (y*s.Width + x) * 4
	return s.Pix[i], s.Pix[i+1], s.Pix[i+2]
}

// LuminanceAt returns the Rec. 601 luma of the pixel at (x, y).
func (s ImageSample) LuminanceAt(x, y int) float64 {
	r, g, b := s.RGBAAt(x, y)
	return 0.299*float64(r) + 0.587*float64(g) + 0.114*float64(b)
}
