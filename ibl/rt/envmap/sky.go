package envmap

import (
	"github.com/chewxy/math32"
	"github.com/go-gl/mathgl/mgl32"

	"github.com/gekko3d/gekko-ibl/ibl/rt/core"
)

// SkyParams describes a simple analytic sky used when no panorama is given.
type SkyParams struct {
	Zenith    mgl32.Vec3
	Horizon   mgl32.Vec3
	Ground    mgl32.Vec3
	SunDir    mgl32.Vec3
	SunColor  mgl32.Vec3
	SunRadius float32 // angular radius in radians
}

func DefaultSky() SkyParams {
	return SkyParams{
		Zenith:    mgl32.Vec3{0.15, 0.3, 0.8},
		Horizon:   mgl32.Vec3{0.8, 0.85, 0.95},
		Ground:    mgl32.Vec3{0.2, 0.17, 0.14},
		SunDir:    mgl32.Vec3{0.4, 0.6, 0.7}.Normalize(),
		SunColor:  mgl32.Vec3{40, 36, 30},
		SunRadius: 0.05,
	}
}

// Radiance evaluates the sky in direction dir.
func (s SkyParams) Radiance(dir mgl32.Vec3) mgl32.Vec3 {
	d := dir.Normalize()
	var c mgl32.Vec3
	if d[1] >= 0 {
		c = core.Lerp3(s.Horizon, s.Zenith, math32.Sqrt(d[1]))
	} else {
		c = core.Lerp3(s.Horizon, s.Ground, math32.Min(-d[1]*4, 1))
	}
	if s.SunRadius > 0 && d.Dot(s.SunDir) >= math32.Cos(s.SunRadius) {
		c = c.Add(s.SunColor)
	}
	return c
}

// Panorama renders the sky into a width x width/2 equirectangular image
// using the same mapping the projector reads with.
func (s SkyParams) Panorama(width int) *core.HDRImage {
	height := max(width/2, 1)
	img := core.NewHDRImage(width, height)
	for y := 0; y < height; y++ {
		phi := ((float32(y)+0.5)/float32(height) - 0.5) * math32.Pi
		for x := 0; x < width; x++ {
			theta := ((float32(x)+0.5)/float32(width) - 0.5) * 2 * math32.Pi
			dir := mgl32.Vec3{
				math32.Cos(phi) * math32.Sin(theta),
				-math32.Sin(phi),
				math32.Cos(phi) * math32.Cos(theta),
			}
			img.Set(x, y, s.Radiance(dir))
		}
	}
	return img
}
