package core

import (
	"github.com/chewxy/math32"
	"github.com/go-gl/mathgl/mgl32"
)

// HDRImage is a linear float RGB raster stored row-major, row 0 at the top.
type HDRImage struct {
	Width  int
	Height int
	Pix    []mgl32.Vec3
}

func NewHDRImage(width, height int) *HDRImage {
	return &HDRImage{
		Width:  width,
		Height: height,
		Pix:    make([]mgl32.Vec3, width*height),
	}
}

// NewUniformImage returns an image where every pixel holds c.
func NewUniformImage(width, height int, c mgl32.Vec3) *HDRImage {
	img := NewHDRImage(width, height)
	for i := range img.Pix {
		img.Pix[i] = c
	}
	return img
}

func (img *HDRImage) At(x, y int) mgl32.Vec3 {
	return img.Pix[y*img.Width+x]
}

func (img *HDRImage) Set(x, y int, c mgl32.Vec3) {
	img.Pix[y*img.Width+x] = c
}

// Row returns the pixels of row y; writes through the slice land in the image.
func (img *HDRImage) Row(y int) []mgl32.Vec3 {
	return img.Pix[y*img.Width : (y+1)*img.Width : (y+1)*img.Width]
}

// Sample bilinearly filters the image at normalized (u, v). When wrapU is set
// the horizontal axis repeats (longitude of a panorama), otherwise both axes
// clamp to the edge.
func (img *HDRImage) Sample(u, v float32, wrapU bool) mgl32.Vec3 {
	return sampleBilinear(img.Pix, img.Width, img.Height, u, v, wrapU)
}

func sampleBilinear(pix []mgl32.Vec3, w, h int, u, v float32, wrapU bool) mgl32.Vec3 {
	// -0.5 moves from texel edges to texel centres
	fx := u*float32(w) - 0.5
	fy := v*float32(h) - 0.5

	x0f := math32.Floor(fx)
	y0f := math32.Floor(fy)
	tx := fx - x0f
	ty := fy - y0f

	x0, x1 := int(x0f), int(x0f)+1
	y0, y1 := int(y0f), int(y0f)+1

	if wrapU {
		x0 = ((x0 % w) + w) % w
		x1 = ((x1 % w) + w) % w
	} else {
		x0 = clampInt(x0, 0, w-1)
		x1 = clampInt(x1, 0, w-1)
	}
	y0 = clampInt(y0, 0, h-1)
	y1 = clampInt(y1, 0, h-1)

	c00 := pix[y0*w+x0]
	c10 := pix[y0*w+x1]
	c01 := pix[y1*w+x0]
	c11 := pix[y1*w+x1]

	top := Lerp3(c00, c10, tx)
	bottom := Lerp3(c01, c11, tx)
	return Lerp3(top, bottom, ty)
}

func clampInt(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
