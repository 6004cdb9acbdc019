package envmap

import (
	"errors"
	"fmt"

	"github.com/chewxy/math32"
	"github.com/go-gl/mathgl/mgl32"

	"github.com/gekko3d/gekko-ibl/ibl/rt/core"
	"github.com/gekko3d/gekko-ibl/ibl/rt/parallel"
)

var ErrInvalidPanorama = errors.New("envmap: invalid panorama")

// Handedness describes how longitude grows across the panorama relative to
// the cube basis.
type Handedness int

const (
	// RightHanded: +Z sits at the image centre (u = 0.5) and +X at u = 0.75.
	RightHanded Handedness = iota
	// LeftHanded mirrors longitude, for panoramas authored for a left handed
	// cube convention.
	LeftHanded
)

// PanoramaUV maps a direction to equirectangular coordinates: u follows
// longitude theta = atan2(x, z), v follows latitude phi = asin(-y), so v = 0
// is straight up.
func PanoramaUV(dir mgl32.Vec3, handedness Handedness) (u, v float32) {
	d := dir.Normalize()
	x := d[0]
	if handedness == LeftHanded {
		x = -x
	}
	theta := math32.Atan2(x, d[2])
	phi := math32.Asin(mgl32.Clamp(-d[1], -1, 1))

	u = theta/(2*math32.Pi) + 0.5
	v = phi/math32.Pi + 0.5
	return u, v
}

// Projector resamples an equirectangular panorama onto the six cube faces.
type Projector struct {
	Size       int
	Handedness Handedness
	Pool       *parallel.WorkerPool
}

// Project fills a Size x Size cubemap, one bilinear panorama lookup per texel.
func (p *Projector) Project(pano *core.HDRImage) (*core.Cubemap, error) {
	if pano == nil || pano.Width == 0 || pano.Height == 0 || len(pano.Pix) != pano.Width*pano.Height {
		return nil, ErrInvalidPanorama
	}
	if p.Size <= 0 {
		return nil, fmt.Errorf("envmap: cube size %d: %w", p.Size, ErrInvalidSettings)
	}

	cube := core.NewCubemap(p.Size)
	pool := poolOrDefault(p.Pool)

	pool.Rows(core.FaceCount*p.Size, func(row int) {
		face := core.Face(row / p.Size)
		y := row % p.Size
		for x := 0; x < p.Size; x++ {
			u, v := PanoramaUV(cube.TexelDirection(face, x, y), p.Handedness)
			cube.Set(face, x, y, pano.Sample(u, v, true))
		}
	})
	return cube, nil
}

func poolOrDefault(pool *parallel.WorkerPool) *parallel.WorkerPool {
	if pool == nil {
		return parallel.NewWorkerPool(0)
	}
	return pool
}
