package envmap

import (
	"testing"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gekko3d/gekko-ibl/ibl/rt/core"
)

func TestRoughnessForLevel(t *testing.T) {
	assert.Equal(t, float32(0), RoughnessForLevel(0, 5))
	assert.Equal(t, float32(0.25), RoughnessForLevel(1, 5))
	assert.Equal(t, float32(1), RoughnessForLevel(4, 5))
	assert.Equal(t, float32(0), RoughnessForLevel(0, 1))
}

func TestPrefilterAlphaIsCubic(t *testing.T) {
	assert.InDelta(t, 0.125, PrefilterAlpha(0.5), 1e-7)
	assert.Equal(t, float32(1), PrefilterAlpha(1))
}

func TestSourceLOD(t *testing.T) {
	assert.Equal(t, float32(0), SourceLOD(1, 1, 0, 1024, 256))

	smooth := SourceLOD(1, 1, 0.3, 1024, 256)
	rough := SourceLOD(1, 1, 0.9, 1024, 256)
	assert.Greater(t, rough, smooth)

	fewer := SourceLOD(1, 1, 0.9, 64, 256)
	assert.Greater(t, fewer, rough)
}

func TestPrefilterPreservesUniformRadiance(t *testing.T) {
	c := mgl32.Vec3{0.5, 2, 4}
	src := core.BuildMipChain(uniformCube(16, c))

	conv := PrefilterConvolver{Size: 8, Levels: 4, SampleCount: 64}
	chain := conv.Convolve(src)

	require.Len(t, chain.Levels, 4)
	for level, cube := range chain.Levels {
		assert.Equal(t, max(8>>level, 1), cube.Size)
		for f := core.Face(0); f < core.FaceCount; f++ {
			for _, texel := range cube.Faces[f] {
				assert.True(t, texel.ApproxEqualThreshold(c, 1e-4), "level %d %s: %v", level, f, texel)
			}
		}
	}
}

func TestPrefilterMirrorLevelCopiesSource(t *testing.T) {
	src := core.NewCubemap(8)
	for f := core.Face(0); f < core.FaceCount; f++ {
		for i := range src.Faces[f] {
			src.Faces[f][i] = mgl32.Vec3{float32(f), float32(i), 1}
		}
	}
	conv := PrefilterConvolver{Size: 8, Levels: 2, SampleCount: 16}
	chain := conv.Convolve(core.BuildMipChain(src))

	for f := core.Face(0); f < core.FaceCount; f++ {
		for i, texel := range chain.Levels[0].Faces[f] {
			assert.True(t, texel.ApproxEqualThreshold(src.Faces[f][i], 1e-4), "%s texel %d", f, i)
		}
	}
}

func TestPrefilterBlursWithRoughness(t *testing.T) {
	// one bright face; rougher levels spread it into the neighbours
	src := core.NewCubemap(16)
	for i := range src.Faces[core.FacePosY] {
		src.Faces[core.FacePosY][i] = mgl32.Vec3{1, 1, 1}
	}
	conv := PrefilterConvolver{Size: 16, Levels: 3, SampleCount: 256}
	chain := conv.Convolve(core.BuildMipChain(src))

	dir := mgl32.Vec3{1, 0.3, 0}.Normalize()
	sharp := chain.Levels[0].Sample(dir)
	blurred := chain.Levels[2].Sample(dir)
	assert.Equal(t, float32(0), sharp[0])
	assert.Greater(t, blurred[0], float32(0))
}
