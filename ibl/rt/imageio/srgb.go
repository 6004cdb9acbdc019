// Package imageio reads environment panoramas and writes display images,
// Radiance HDR frames and unfolded cubemap sheets.
package imageio

import (
	"image"
	"image/color"

	"github.com/chewxy/math32"
	"github.com/go-gl/mathgl/mgl32"

	"github.com/gekko3d/gekko-ibl/ibl/rt/core"
)

// SRGBToLinear is the sRGB electro-optical transfer function.
func SRGBToLinear(c float32) float32 {
	if c <= 0.04045 {
		return c / 12.92
	}
	return math32.Pow((c+0.055)/1.055, 2.4)
}

// LinearToSRGB is the inverse of SRGBToLinear for c in [0, 1].
func LinearToSRGB(c float32) float32 {
	if c <= 0.0031308 {
		return c * 12.92
	}
	return 1.055*math32.Pow(c, 1/2.4) - 0.055
}

func to8(c float32) uint8 {
	return uint8(LinearToSRGB(core.Clamp01(c))*255 + 0.5)
}

// ToSRGB8 encodes a display-referred linear image to 8-bit sRGB. Values
// outside [0, 1] are clamped.
func ToSRGB8(img *core.HDRImage) *image.NRGBA {
	out := image.NewNRGBA(image.Rect(0, 0, img.Width, img.Height))
	for y := 0; y < img.Height; y++ {
		for x, c := range img.Row(y) {
			i := out.PixOffset(x, y)
			out.Pix[i+0] = to8(c[0])
			out.Pix[i+1] = to8(c[1])
			out.Pix[i+2] = to8(c[2])
			out.Pix[i+3] = 0xff
		}
	}
	return out
}

// FromSRGB decodes any image.Image holding sRGB values into linear RGB.
func FromSRGB(img image.Image) *core.HDRImage {
	b := img.Bounds()
	out := core.NewHDRImage(b.Dx(), b.Dy())
	for y := 0; y < b.Dy(); y++ {
		row := out.Row(y)
		for x := range row {
			c := color.NRGBAModel.Convert(img.At(b.Min.X+x, b.Min.Y+y)).(color.NRGBA)
			row[x] = mgl32.Vec3{
				SRGBToLinear(float32(c.R) / 255),
				SRGBToLinear(float32(c.G) / 255),
				SRGBToLinear(float32(c.B) / 255),
			}
		}
	}
	return out
}
