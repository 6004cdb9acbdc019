package envmap

import (
	"errors"
	"fmt"
	"time"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/google/uuid"

	"github.com/gekko3d/gekko-ibl/ibl/rt/core"
	"github.com/gekko3d/gekko-ibl/ibl/rt/parallel"
)

var ErrInvalidSettings = errors.New("envmap: invalid settings")

// Logger is the subset of the engine logger the pipeline reports through.
type Logger interface {
	Debugf(format string, args ...any)
	Infof(format string, args ...any)
}

type nopLogger struct{}

func (nopLogger) Debugf(string, ...any) {}
func (nopLogger) Infof(string, ...any)  {}

type Settings struct {
	CubeSize        int
	Handedness      Handedness
	IrradianceSize  int
	ThetaSamples    int
	PhiSamples      int
	SpecularSize    int
	SpecularLevels  int
	SpecularSamples int
	LUTSize         int
	LUTSamples      int
}

func DefaultSettings() Settings {
	return Settings{
		CubeSize:        256,
		Handedness:      RightHanded,
		IrradianceSize:  32,
		ThetaSamples:    256,
		PhiSamples:      64,
		SpecularSize:    128,
		SpecularLevels:  5,
		SpecularSamples: 1024,
		LUTSize:         64,
		LUTSamples:      512,
	}
}

func isPowerOfTwo(n int) bool {
	return n > 0 && n&(n-1) == 0
}

// Validate reports the first setting the pipeline cannot run with.
func (s Settings) Validate() error {
	switch {
	case !isPowerOfTwo(s.CubeSize):
		return fmt.Errorf("cube size %d is not a power of two: %w", s.CubeSize, ErrInvalidSettings)
	case !isPowerOfTwo(s.IrradianceSize):
		return fmt.Errorf("irradiance size %d is not a power of two: %w", s.IrradianceSize, ErrInvalidSettings)
	case !isPowerOfTwo(s.SpecularSize):
		return fmt.Errorf("specular size %d is not a power of two: %w", s.SpecularSize, ErrInvalidSettings)
	case s.ThetaSamples <= 0 || s.PhiSamples < 0:
		return fmt.Errorf("irradiance samples %dx%d: %w", s.ThetaSamples, s.PhiSamples, ErrInvalidSettings)
	case s.SpecularLevels <= 0 || s.SpecularSize>>(s.SpecularLevels-1) == 0:
		return fmt.Errorf("%d specular levels for size %d: %w", s.SpecularLevels, s.SpecularSize, ErrInvalidSettings)
	case s.SpecularSamples <= 0:
		return fmt.Errorf("specular samples %d: %w", s.SpecularSamples, ErrInvalidSettings)
	case s.LUTSize <= 0 || s.LUTSamples <= 0:
		return fmt.Errorf("lut %d with %d samples: %w", s.LUTSize, s.LUTSamples, ErrInvalidSettings)
	case s.Handedness != RightHanded && s.Handedness != LeftHanded:
		return fmt.Errorf("handedness %d: %w", s.Handedness, ErrInvalidSettings)
	}
	return nil
}

type StageTiming struct {
	Name     string
	Duration time.Duration
}

// Environment is one immutable set of precomputed lighting data. Nothing
// writes to it after Pipeline.Run returns.
type Environment struct {
	ID         uuid.UUID
	Source     *core.CubeChain
	Irradiance *core.Cubemap
	Specular   *core.CubeChain
	LUT        *LUT
	CreatedAt  time.Time
	Timings    []StageTiming
}

// IrradianceAt returns the diffuse irradiance around normal n.
func (e *Environment) IrradianceAt(n mgl32.Vec3) mgl32.Vec3 {
	return e.Irradiance.Sample(n)
}

// PrefilteredRadiance samples the specular chain at a fractional mip.
func (e *Environment) PrefilteredRadiance(r mgl32.Vec3, lod float32) mgl32.Vec3 {
	return e.Specular.SampleLevel(r, lod)
}

func (e *Environment) MaxSpecularLevel() int {
	return e.Specular.MaxLevel()
}

// BRDF returns the split-sum (scale, bias) pair.
func (e *Environment) BRDF(nDotV, roughness float32) mgl32.Vec2 {
	return e.LUT.Lookup(nDotV, roughness)
}

// Pipeline runs the precompute stages in producer to consumer order.
type Pipeline struct {
	Settings Settings
	Logger   Logger
	Pool     *parallel.WorkerPool
}

func NewPipeline(settings Settings, pool *parallel.WorkerPool) *Pipeline {
	return &Pipeline{Settings: settings, Logger: nopLogger{}, Pool: pool}
}

func (p *Pipeline) Run(pano *core.HDRImage) (*Environment, error) {
	if err := p.Settings.Validate(); err != nil {
		return nil, err
	}
	log := p.Logger
	if log == nil {
		log = nopLogger{}
	}
	pool := poolOrDefault(p.Pool)
	s := p.Settings

	env := &Environment{ID: uuid.New()}
	stage := func(name string, fn func()) {
		start := time.Now()
		fn()
		d := time.Since(start)
		env.Timings = append(env.Timings, StageTiming{Name: name, Duration: d})
		log.Debugf("envmap %s: %s took %s", env.ID, name, d)
	}

	var base *core.Cubemap
	var err error
	stage("project", func() {
		proj := Projector{Size: s.CubeSize, Handedness: s.Handedness, Pool: pool}
		base, err = proj.Project(pano)
	})
	if err != nil {
		return nil, fmt.Errorf("envmap: project: %w", err)
	}

	stage("mipchain", func() {
		env.Source = core.BuildMipChain(base)
	})
	stage("irradiance", func() {
		conv := IrradianceConvolver{
			Size:         s.IrradianceSize,
			ThetaSamples: s.ThetaSamples,
			PhiSamples:   s.PhiSamples,
			Pool:         pool,
		}
		env.Irradiance = conv.Convolve(base)
	})
	stage("prefilter", func() {
		conv := PrefilterConvolver{
			Size:        s.SpecularSize,
			Levels:      s.SpecularLevels,
			SampleCount: s.SpecularSamples,
			Pool:        pool,
		}
		env.Specular = conv.Convolve(env.Source)
	})
	stage("lut", func() {
		env.LUT = GenerateLUT(s.LUTSize, s.LUTSamples, pool)
	})

	env.CreatedAt = time.Now()
	log.Infof("envmap %s: %d cube, %d irradiance, %d specular levels, %dx%d lut",
		env.ID, s.CubeSize, s.IrradianceSize, s.SpecularLevels, s.LUTSize, s.LUTSize)
	return env, nil
}
