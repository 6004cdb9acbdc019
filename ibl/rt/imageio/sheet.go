package imageio

import (
	"fmt"
	"image"
	"image/color"

	"github.com/go-gl/mathgl/mgl32"
	"golang.org/x/image/draw"
	"golang.org/x/image/font"
	"golang.org/x/image/font/basicfont"
	"golang.org/x/image/math/fixed"

	"github.com/gekko3d/gekko-ibl/ibl/rt/core"
	"github.com/gekko3d/gekko-ibl/ibl/rt/envmap"
)

// crossCells places each face in a 4x3 horizontal cross, seen from inside
// the cube:
//
//	     +Y
//	-X   +Z   +X   -Z
//	     -Y
var crossCells = [core.FaceCount]image.Point{
	core.FacePosX: {2, 1},
	core.FaceNegX: {0, 1},
	core.FacePosY: {1, 0},
	core.FaceNegY: {1, 2},
	core.FacePosZ: {1, 1},
	core.FaceNegZ: {3, 1},
}

// CubeCross unfolds the six faces into a 4*Size x 3*Size image. Unused
// cells stay black.
func CubeCross(cube *core.Cubemap) *core.HDRImage {
	s := cube.Size
	out := core.NewHDRImage(4*s, 3*s)
	for f := core.Face(0); f < core.FaceCount; f++ {
		cell := crossCells[f]
		for y := 0; y < s; y++ {
			copy(out.Row(cell.Y*s + y)[cell.X*s:], cube.Faces[f][y*s:(y+1)*s])
		}
	}
	return out
}

// Mapper turns radiance into display-referred linear values before encoding.
type Mapper func(c mgl32.Vec3) mgl32.Vec3

// CrossSheet renders the cube as a labelled 8-bit cross with faces of
// faceSize pixels.
func CrossSheet(cube *core.Cubemap, faceSize int, mapper Mapper) *image.NRGBA {
	cross := CubeCross(cube)
	if mapper != nil {
		for i, c := range cross.Pix {
			cross.Pix[i] = mapper(c)
		}
	}
	sheet := Resize(ToSRGB8(cross), 4*faceSize, 3*faceSize)

	for f := core.Face(0); f < core.FaceCount; f++ {
		cell := crossCells[f]
		Label(sheet, image.Pt(cell.X*faceSize+3, cell.Y*faceSize+13), f.String())
	}
	return sheet
}

// ChainSheet stacks the crosses of every level of a chain, each scaled to
// the same face size and labelled with its mip index.
func ChainSheet(chain *core.CubeChain, faceSize int, mapper Mapper) *image.NRGBA {
	h := 3 * faceSize
	sheet := image.NewNRGBA(image.Rect(0, 0, 4*faceSize, h*len(chain.Levels)))
	for level, cube := range chain.Levels {
		cross := CrossSheet(cube, faceSize, mapper)
		dst := image.Rect(0, level*h, 4*faceSize, (level+1)*h)
		draw.Draw(sheet, dst, cross, image.Point{}, draw.Src)
		Label(sheet, image.Pt(3, level*h+2*faceSize+13), fmt.Sprintf("mip %d", level))
	}
	return sheet
}

// Resize scales img to w x h. Upscaling keeps texels hard edged so cube
// texels stay readable; downscaling filters with Catmull-Rom.
func Resize(img *image.NRGBA, w, h int) *image.NRGBA {
	b := img.Bounds()
	if b.Dx() == w && b.Dy() == h {
		return img
	}
	var scaler draw.Scaler = draw.CatmullRom
	if w > b.Dx() {
		scaler = draw.NearestNeighbor
	}
	dst := image.NewNRGBA(image.Rect(0, 0, w, h))
	scaler.Scale(dst, dst.Bounds(), img, b, draw.Src, nil)
	return dst
}

// Label draws text with its baseline at dot.
func Label(img draw.Image, dot image.Point, text string) {
	d := font.Drawer{
		Dst:  img,
		Src:  image.NewUniform(color.NRGBA{R: 255, G: 255, B: 0, A: 255}),
		Face: basicfont.Face7x13,
		Dot:  fixed.P(dot.X, dot.Y),
	}
	d.DrawString(text)
}

// LUTSheet draws the split-sum table as raw 8-bit values, scale in red and
// bias in green, NdotV to the right and roughness increasing upwards.
func LUTSheet(lut *envmap.LUT, size int) *image.NRGBA {
	img := image.NewNRGBA(image.Rect(0, 0, lut.Size, lut.Size))
	for y := 0; y < lut.Size; y++ {
		for x := 0; x < lut.Size; x++ {
			v := lut.At(x, y)
			i := img.PixOffset(x, lut.Size-1-y)
			img.Pix[i+0] = uint8(core.Clamp01(v[0])*255 + 0.5)
			img.Pix[i+1] = uint8(core.Clamp01(v[1])*255 + 0.5)
			img.Pix[i+3] = 0xff
		}
	}
	return Resize(img, size, size)
}
