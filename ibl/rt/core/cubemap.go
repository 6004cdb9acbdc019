package core

import (
	"fmt"

	"github.com/chewxy/math32"
	"github.com/go-gl/mathgl/mgl32"
)

// Face indexes a cubemap face. The order matches the layer order expected by
// OpenGL/Vulkan cube textures.
type Face int

const (
	FacePosX Face = iota
	FaceNegX
	FacePosY
	FaceNegY
	FacePosZ
	FaceNegZ
)

const FaceCount = 6

var faceNames = [FaceCount]string{"+X", "-X", "+Y", "-Y", "+Z", "-Z"}

func (f Face) String() string {
	if f < 0 || int(f) >= FaceCount {
		return fmt.Sprintf("Face(%d)", int(f))
	}
	return faceNames[f]
}

// FaceDirection maps normalized face coordinates (u right, v down, both in
// [0,1]) to a unit world direction.
//
// This table is the single source of the face orientation. It follows the
// Khronos cube map axes, where s grows to the right and t grows downwards
// on every face when viewed from the cube's centre. Every stage that writes
// or reads faces goes through FaceDirection / DirectionToFace.
func FaceDirection(face Face, u, v float32) mgl32.Vec3 {
	s := 2*u - 1
	t := 2*v - 1

	var d mgl32.Vec3
	switch face {
	case FacePosX:
		d = mgl32.Vec3{1, -t, -s}
	case FaceNegX:
		d = mgl32.Vec3{-1, -t, s}
	case FacePosY:
		d = mgl32.Vec3{s, 1, t}
	case FaceNegY:
		d = mgl32.Vec3{s, -1, -t}
	case FacePosZ:
		d = mgl32.Vec3{s, -t, 1}
	default:
		d = mgl32.Vec3{-s, -t, -1}
	}
	return d.Normalize()
}

// DirectionToFace is the inverse of FaceDirection. dir need not be normalized.
func DirectionToFace(dir mgl32.Vec3) (face Face, u, v float32) {
	ax := math32.Abs(dir[0])
	ay := math32.Abs(dir[1])
	az := math32.Abs(dir[2])

	var s, t, ma float32
	switch {
	case ax >= ay && ax >= az:
		ma = ax
		t = -dir[1]
		if dir[0] >= 0 {
			face = FacePosX
			s = -dir[2]
		} else {
			face = FaceNegX
			s = dir[2]
		}
	case ay >= az:
		ma = ay
		s = dir[0]
		if dir[1] >= 0 {
			face = FacePosY
			t = dir[2]
		} else {
			face = FaceNegY
			t = -dir[2]
		}
	default:
		ma = az
		t = -dir[1]
		if dir[2] >= 0 {
			face = FacePosZ
			s = dir[0]
		} else {
			face = FaceNegZ
			s = -dir[0]
		}
	}

	if ma == 0 {
		return FacePosZ, 0.5, 0.5
	}

	u = 0.5*s/ma + 0.5
	v = 0.5*t/ma + 0.5
	return face, u, v
}

// Cubemap holds six square HDR faces of Size x Size texels.
type Cubemap struct {
	Size  int
	Faces [FaceCount][]mgl32.Vec3
}

func NewCubemap(size int) *Cubemap {
	c := &Cubemap{Size: size}
	for f := range c.Faces {
		c.Faces[f] = make([]mgl32.Vec3, size*size)
	}
	return c
}

func (c *Cubemap) At(face Face, x, y int) mgl32.Vec3 {
	return c.Faces[face][y*c.Size+x]
}

func (c *Cubemap) Set(face Face, x, y int, v mgl32.Vec3) {
	c.Faces[face][y*c.Size+x] = v
}

// TexelDirection returns the world direction through the centre of texel (x, y).
func (c *Cubemap) TexelDirection(face Face, x, y int) mgl32.Vec3 {
	return TexelDirection(face, x, y, c.Size)
}

// TexelDirection returns the direction through the centre of texel (x, y) of
// a face with the given resolution.
func TexelDirection(face Face, x, y, size int) mgl32.Vec3 {
	u := (float32(x) + 0.5) / float32(size)
	v := (float32(y) + 0.5) / float32(size)
	return FaceDirection(face, u, v)
}

// Sample looks the cubemap up in direction dir with bilinear filtering inside
// the selected face.
func (c *Cubemap) Sample(dir mgl32.Vec3) mgl32.Vec3 {
	face, u, v := DirectionToFace(dir)
	return sampleBilinear(c.Faces[face], c.Size, c.Size, u, v, false)
}

// TexelSolidAngle approximates the solid angle covered by one texel, assuming
// texels are spread evenly over the sphere.
func (c *Cubemap) TexelSolidAngle() float32 {
	return TexelSolidAngle(c.Size)
}

// TexelSolidAngle is the mean texel solid angle of a cubemap of the given
// face resolution.
func TexelSolidAngle(size int) float32 {
	return 4 * math32.Pi / float32(FaceCount*size*size)
}

// Downsample returns a cubemap of half the resolution where each texel is the
// average of a 2x2 block. A 1x1 cubemap is returned unchanged.
func (c *Cubemap) Downsample() *Cubemap {
	if c.Size <= 1 {
		return c
	}
	half := c.Size / 2
	out := NewCubemap(half)
	for f := Face(0); f < FaceCount; f++ {
		for y := 0; y < half; y++ {
			for x := 0; x < half; x++ {
				sum := c.At(f, 2*x, 2*y).
					Add(c.At(f, 2*x+1, 2*y)).
					Add(c.At(f, 2*x, 2*y+1)).
					Add(c.At(f, 2*x+1, 2*y+1))
				out.Set(f, x, y, sum.Mul(0.25))
			}
		}
	}
	return out
}

// CubeChain is a mip chain of cubemaps, level 0 being the largest.
type CubeChain struct {
	Levels []*Cubemap
}

// BuildMipChain box-filters c down to a 1x1 cubemap.
func BuildMipChain(c *Cubemap) *CubeChain {
	chain := &CubeChain{Levels: []*Cubemap{c}}
	for cur := c; cur.Size > 1; {
		cur = cur.Downsample()
		chain.Levels = append(chain.Levels, cur)
	}
	return chain
}

func (ch *CubeChain) Base() *Cubemap {
	return ch.Levels[0]
}

func (ch *CubeChain) MaxLevel() int {
	return len(ch.Levels) - 1
}

// SampleLevel filters trilinearly between the two mip levels around lod.
func (ch *CubeChain) SampleLevel(dir mgl32.Vec3, lod float32) mgl32.Vec3 {
	maxLevel := float32(ch.MaxLevel())
	if lod <= 0 || math32.IsNaN(lod) {
		return ch.Levels[0].Sample(dir)
	}
	if lod >= maxLevel {
		return ch.Levels[ch.MaxLevel()].Sample(dir)
	}
	l0 := math32.Floor(lod)
	frac := lod - l0
	lo := ch.Levels[int(l0)].Sample(dir)
	if frac == 0 {
		return lo
	}
	hi := ch.Levels[int(l0)+1].Sample(dir)
	return Lerp3(lo, hi, frac)
}
