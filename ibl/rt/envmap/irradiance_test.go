package envmap

import (
	"testing"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/stretchr/testify/assert"

	"github.com/gekko3d/gekko-ibl/ibl/rt/core"
)

func uniformCube(size int, c mgl32.Vec3) *core.Cubemap {
	cube := core.NewCubemap(size)
	for f := range cube.Faces {
		for i := range cube.Faces[f] {
			cube.Faces[f][i] = c
		}
	}
	return cube
}

func TestIrradianceOfUniformRadiance(t *testing.T) {
	src := uniformCube(8, mgl32.Vec3{1, 1, 1})
	conv := IrradianceConvolver{Size: 4, ThetaSamples: 64, PhiSamples: 16}
	out := conv.Convolve(src)

	assert.Equal(t, 4, out.Size)
	for f := core.Face(0); f < core.FaceCount; f++ {
		for _, texel := range out.Faces[f] {
			for i := 0; i < 3; i++ {
				assert.InDelta(t, 1.0, texel[i], 0.01, "%s", f)
			}
		}
	}
}

func TestIrradianceDefaultPhiSamples(t *testing.T) {
	conv := IrradianceConvolver{Size: 1, ThetaSamples: 32}
	assert.Len(t, conv.samples(), 32*8)
}

func TestIrradianceFollowsBrightHemisphere(t *testing.T) {
	src := core.NewCubemap(8)
	for f := core.Face(0); f < core.FaceCount; f++ {
		for y := 0; y < 8; y++ {
			for x := 0; x < 8; x++ {
				if src.TexelDirection(f, x, y)[1] > 0 {
					src.Set(f, x, y, mgl32.Vec3{1, 1, 1})
				}
			}
		}
	}
	conv := IrradianceConvolver{Size: 8, ThetaSamples: 64, PhiSamples: 16}
	out := conv.Convolve(src)

	up := out.Sample(mgl32.Vec3{0, 1, 0})
	down := out.Sample(mgl32.Vec3{0, -1, 0})
	side := out.Sample(mgl32.Vec3{1, 0, 0})
	assert.Greater(t, up[0], side[0])
	assert.Greater(t, side[0], down[0])
	assert.InDelta(t, 0.5, side[0], 0.1)
}

func TestHemisphereFrameAtPoles(t *testing.T) {
	for _, n := range []mgl32.Vec3{{0, 1, 0}, {0, -1, 0}, {0, 0, 1}} {
		right, up := hemisphereFrame(n)
		assert.InDelta(t, 1.0, right.Len(), 1e-5, "%v", n)
		assert.InDelta(t, 1.0, up.Len(), 1e-5, "%v", n)
		assert.InDelta(t, 0.0, right.Dot(n), 1e-5)
		assert.InDelta(t, 0.0, up.Dot(n), 1e-5)
		assert.InDelta(t, 0.0, right.Dot(up), 1e-5)
	}
}
