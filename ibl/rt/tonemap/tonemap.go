// Package tonemap maps linear HDR radiance into [0, 1] display-referred
// linear values. Encoding to sRGB happens when the image is written.
package tonemap

import (
	"fmt"
	"strings"

	"github.com/chewxy/math32"
	"github.com/go-gl/mathgl/mgl32"

	"github.com/gekko3d/gekko-ibl/ibl/rt/core"
	"github.com/gekko3d/gekko-ibl/ibl/rt/parallel"
)

type Curve int32

const (
	CurveACES Curve = iota
	CurveFilmic
	CurveComparison
)

var curveNames = [...]string{"aces", "filmic", "comparison"}

func (c Curve) String() string {
	if c >= 0 && int(c) < len(curveNames) {
		return curveNames[c]
	}
	return fmt.Sprintf("Curve(%d)", int32(c))
}

// ParseCurve accepts a curve name or its numeric selector.
func ParseCurve(s string) (Curve, error) {
	for i, name := range curveNames {
		if strings.EqualFold(s, name) || s == fmt.Sprint(i) {
			return Curve(i), nil
		}
	}
	return CurveACES, fmt.Errorf("tonemap: unknown curve %q", s)
}

// ExposureStep is the exposure change of one adjustment, in stops.
const ExposureStep = 0.1

type Params struct {
	Exposure         float32 // stops
	Curve            Curve
	ComparisonFactor float32 // ACES left of this fraction of the width
}

func DefaultParams() Params {
	return Params{Exposure: 0, Curve: CurveACES, ComparisonFactor: 0.5}
}

// AdjustExposure moves the exposure by steps * ExposureStep stops.
func (p *Params) AdjustExposure(steps int) {
	p.Exposure += float32(steps) * ExposureStep
}

// ComparisonFromCursor turns a cursor x position into a split fraction.
func ComparisonFromCursor(cursorX, width float32) float32 {
	if width <= 0 {
		return 0.5
	}
	return core.Clamp01(cursorX / width)
}

// Multiplier returns 2^Exposure.
func (p Params) Multiplier() float32 {
	return math32.Exp2(p.Exposure)
}

var acesInput = mgl32.Mat3{
	// column major: rows of the fitted matrix read down each column
	0.59719, 0.07600, 0.02840,
	0.35458, 0.90834, 0.13383,
	0.04823, 0.01566, 0.83777,
}

var acesOutput = mgl32.Mat3{
	1.60475, -0.10208, -0.00327,
	-0.53108, 1.10813, -0.07276,
	-0.07367, -0.00605, 1.07602,
}

func rrtAndODTFit(v float32) float32 {
	a := v*(v+0.0245786) - 0.000090537
	b := v*(0.983729*v+0.4329510) + 0.238081
	return a / b
}

// ACES is the Stephen Hill fit of the ACES reference and output transforms,
// clamped to [0, 1].
func ACES(c mgl32.Vec3) mgl32.Vec3 {
	v := acesInput.Mul3x1(c)
	v = mgl32.Vec3{rrtAndODTFit(v[0]), rrtAndODTFit(v[1]), rrtAndODTFit(v[2])}
	v = acesOutput.Mul3x1(v)
	return mgl32.Vec3{core.Clamp01(v[0]), core.Clamp01(v[1]), core.Clamp01(v[2])}
}

const (
	filmicA     = 0.15
	filmicB     = 0.50
	filmicC     = 0.10
	filmicD     = 0.20
	filmicE     = 0.02
	filmicF     = 0.30
	filmicWhite = 11.2
)

func uncharted2(x float32) float32 {
	return ((x*(filmicA*x+filmicC*filmicB) + filmicD*filmicE) /
		(x*(filmicA*x+filmicB) + filmicD*filmicF)) - filmicE/filmicF
}

// Filmic is the Uncharted 2 curve normalized so the white point maps to 1.
func Filmic(c mgl32.Vec3) mgl32.Vec3 {
	w := 1 / uncharted2(filmicWhite)
	return mgl32.Vec3{uncharted2(c[0]) * w, uncharted2(c[1]) * w, uncharted2(c[2]) * w}
}

// Map tone maps one exposed pixel at horizontal position x of a row of the
// given width.
func (p Params) Map(c mgl32.Vec3, x, width int) mgl32.Vec3 {
	c = c.Mul(p.Multiplier())
	switch p.Curve {
	case CurveFilmic:
		return Filmic(c)
	case CurveComparison:
		u := (float32(x) + 0.5) / float32(width)
		if u < p.ComparisonFactor {
			return ACES(c)
		}
		return Filmic(c)
	default:
		return ACES(c)
	}
}

// Apply tone maps frame into a new image.
func Apply(frame *core.HDRImage, p Params, pool *parallel.WorkerPool) *core.HDRImage {
	out := core.NewHDRImage(frame.Width, frame.Height)
	if pool == nil {
		pool = parallel.NewWorkerPool(0)
	}
	pool.Rows(frame.Height, func(y int) {
		src := frame.Row(y)
		dst := out.Row(y)
		for x, c := range src {
			dst[x] = p.Map(c, x, frame.Width)
		}
	})
	return out
}
