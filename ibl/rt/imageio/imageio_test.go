package imageio

import (
	"bytes"
	"image"
	"image/color"
	"image/png"
	"os"
	"path/filepath"
	"testing"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/image/webp"

	"github.com/gekko3d/gekko-ibl/ibl/rt/core"
	"github.com/gekko3d/gekko-ibl/ibl/rt/envmap"
)

func TestSRGBRoundTrip(t *testing.T) {
	for _, v := range []float32{0, 0.001, 0.04, 0.2, 0.5, 0.9, 1} {
		assert.InDelta(t, v, SRGBToLinear(LinearToSRGB(v)), 1e-5, "v=%v", v)
	}
	assert.InDelta(t, 0.21404, SRGBToLinear(0.5), 1e-4)
}

func TestToSRGB8Clamps(t *testing.T) {
	img := core.NewHDRImage(3, 1)
	img.Set(0, 0, mgl32.Vec3{-1, 0, 0})
	img.Set(1, 0, mgl32.Vec3{5, 1, SRGBToLinear(128.0 / 255)})
	out := ToSRGB8(img)

	assert.Equal(t, color.NRGBA{0, 0, 0, 255}, out.NRGBAAt(0, 0))
	assert.Equal(t, color.NRGBA{255, 255, 128, 255}, out.NRGBAAt(1, 0))
}

func testLDR() *image.NRGBA {
	img := image.NewNRGBA(image.Rect(0, 0, 8, 4))
	for y := 0; y < 4; y++ {
		for x := 0; x < 8; x++ {
			img.SetNRGBA(x, y, color.NRGBA{uint8(x * 30), uint8(y * 60), 128, 255})
		}
	}
	return img
}

func TestEncodeDecodeFormats(t *testing.T) {
	src := testLDR()
	for _, f := range []Format{FormatPNG, FormatTGA, FormatBMP, FormatTIFF} {
		t.Run(string(f), func(t *testing.T) {
			var buf bytes.Buffer
			require.NoError(t, Encode(&buf, src, f))

			got, name, err := DecodeLDR(buf.Bytes())
			require.NoError(t, err)
			assert.Equal(t, string(f), name)
			require.Equal(t, 8, got.Width)
			require.Equal(t, 4, got.Height)
			assert.InDelta(t, SRGBToLinear(float32(90)/255), got.At(3, 0)[0], 1e-5)
			assert.InDelta(t, SRGBToLinear(float32(128)/255), got.At(3, 2)[2], 1e-5)
		})
	}
}

func TestEncodeWebP(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, Encode(&buf, testLDR(), FormatWebP))

	cfg, err := webp.DecodeConfig(bytes.NewReader(buf.Bytes()))
	require.NoError(t, err)
	assert.Equal(t, 8, cfg.Width)
	assert.Equal(t, 4, cfg.Height)
}

func TestParseFormat(t *testing.T) {
	f, err := ParseFormat(".PNG")
	require.NoError(t, err)
	assert.Equal(t, FormatPNG, f)
	f, err = ParseFormat("tif")
	require.NoError(t, err)
	assert.Equal(t, FormatTIFF, f)
	_, err = ParseFormat("gif")
	assert.Error(t, err)
	assert.Equal(t, ".webp", FormatWebP.Ext())
}

func TestLoadPanoramaFromFiles(t *testing.T) {
	dir := t.TempDir()

	hdrPath := filepath.Join(dir, "sky.hdr")
	require.NoError(t, SaveRadiance(hdrPath, core.NewUniformImage(16, 8, mgl32.Vec3{2, 4, 8})))
	pano, err := LoadPanorama(hdrPath)
	require.NoError(t, err)
	assert.Equal(t, mgl32.Vec3{2, 4, 8}, pano.At(5, 5))

	pngPath := filepath.Join(dir, "nested", "sky.png")
	require.NoError(t, SaveImage(pngPath, testLDR()))
	pano, err = LoadPanorama(pngPath)
	require.NoError(t, err)
	assert.Equal(t, 8, pano.Width)

	_, err = LoadPanorama(filepath.Join(dir, "missing.hdr"))
	assert.ErrorIs(t, err, os.ErrNotExist)

	assert.Error(t, SaveImage(filepath.Join(dir, "x.gif"), testLDR()))
}

func TestCubeCrossLayout(t *testing.T) {
	cube := core.NewCubemap(2)
	for f := core.Face(0); f < core.FaceCount; f++ {
		for i := range cube.Faces[f] {
			cube.Faces[f][i] = mgl32.Vec3{float32(f) + 1, float32(i), 0}
		}
	}
	cross := CubeCross(cube)
	require.Equal(t, 8, cross.Width)
	require.Equal(t, 6, cross.Height)

	for f, cell := range crossCells {
		for i := 0; i < 4; i++ {
			x, y := cell.X*2+i%2, cell.Y*2+i/2
			assert.Equal(t, mgl32.Vec3{float32(f) + 1, float32(i), 0}, cross.At(x, y), "face %d texel %d", f, i)
		}
	}
	assert.Equal(t, mgl32.Vec3{}, cross.At(0, 0))
	assert.Equal(t, mgl32.Vec3{}, cross.At(7, 5))
}

func TestSheetsRender(t *testing.T) {
	chain := core.BuildMipChain(core.NewCubemap(4))
	sheet := ChainSheet(chain, 16, func(c mgl32.Vec3) mgl32.Vec3 { return c.Add(mgl32.Vec3{0.5, 0.5, 0.5}) })
	assert.Equal(t, image.Rect(0, 0, 64, 48*3), sheet.Bounds())

	var buf bytes.Buffer
	require.NoError(t, png.Encode(&buf, sheet))

	// labels are drawn on top of the grey faces
	cross := CrossSheet(chain.Base(), 16, nil)
	yellow := 0
	for i := 0; i < len(cross.Pix); i += 4 {
		if cross.Pix[i] == 255 && cross.Pix[i+1] == 255 && cross.Pix[i+2] == 0 {
			yellow++
		}
	}
	assert.Greater(t, yellow, 0)
}

func TestLUTSheetOrientation(t *testing.T) {
	lut := &envmap.LUT{Size: 2, Data: []mgl32.Vec2{
		{1, 0}, {0, 0},
		{0, 0}, {0, 1},
	}}
	img := LUTSheet(lut, 2)
	require.Equal(t, image.Rect(0, 0, 2, 2), img.Bounds())

	// roughness 0 is the bottom row
	assert.Equal(t, color.NRGBA{255, 0, 0, 255}, img.NRGBAAt(0, 1))
	assert.Equal(t, color.NRGBA{0, 255, 0, 255}, img.NRGBAAt(1, 0))

	big := LUTSheet(lut, 8)
	assert.Equal(t, image.Rect(0, 0, 8, 8), big.Bounds())
}
