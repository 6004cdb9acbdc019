package envmap

import (
	"sync"
	"testing"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gekko3d/gekko-ibl/ibl/rt/core"
	"github.com/gekko3d/gekko-ibl/ibl/rt/parallel"
)

func smallSettings() Settings {
	return Settings{
		CubeSize:        16,
		IrradianceSize:  4,
		ThetaSamples:    64,
		PhiSamples:      16,
		SpecularSize:    8,
		SpecularLevels:  3,
		SpecularSamples: 32,
		LUTSize:         8,
		LUTSamples:      64,
	}
}

func TestDefaultSettingsAreValid(t *testing.T) {
	assert.NoError(t, DefaultSettings().Validate())
	assert.NoError(t, smallSettings().Validate())
}

func TestSettingsValidate(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Settings)
	}{
		{"cube not pow2", func(s *Settings) { s.CubeSize = 12 }},
		{"irradiance zero", func(s *Settings) { s.IrradianceSize = 0 }},
		{"too many levels", func(s *Settings) { s.SpecularLevels = 5 }},
		{"no levels", func(s *Settings) { s.SpecularLevels = 0 }},
		{"no samples", func(s *Settings) { s.SpecularSamples = 0 }},
		{"no theta", func(s *Settings) { s.ThetaSamples = 0 }},
		{"no lut", func(s *Settings) { s.LUTSize = 0 }},
		{"bad handedness", func(s *Settings) { s.Handedness = 7 }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := smallSettings()
			tt.mutate(&s)
			assert.ErrorIs(t, s.Validate(), ErrInvalidSettings)
		})
	}
}

type recordingLogger struct {
	mu    sync.Mutex
	lines int
}

func (l *recordingLogger) Debugf(string, ...any) { l.mu.Lock(); l.lines++; l.mu.Unlock() }
func (l *recordingLogger) Infof(string, ...any)  { l.mu.Lock(); l.lines++; l.mu.Unlock() }

func TestPipelineUniformPanorama(t *testing.T) {
	c := mgl32.Vec3{2, 2, 2}
	log := &recordingLogger{}
	p := NewPipeline(smallSettings(), parallel.NewWorkerPool(2))
	p.Logger = log

	env, err := p.Run(core.NewUniformImage(32, 16, c))
	require.NoError(t, err)

	assert.NotEqual(t, uuid.Nil, env.ID)
	assert.False(t, env.CreatedAt.IsZero())
	require.Len(t, env.Timings, 5)
	assert.Equal(t, "project", env.Timings[0].Name)
	assert.Equal(t, "lut", env.Timings[4].Name)
	assert.Equal(t, 6, log.lines)

	assert.Equal(t, 16, env.Source.Base().Size)
	assert.Equal(t, 4, env.Source.MaxLevel())
	assert.Equal(t, 2, env.MaxSpecularLevel())

	for _, dir := range []mgl32.Vec3{{0, 1, 0}, {1, -1, 0.5}, {0, 0, -1}} {
		irr := env.IrradianceAt(dir)
		assert.InDelta(t, 2.0, irr[0], 0.05)
		for lod := float32(0); lod <= 2; lod += 0.5 {
			spec := env.PrefilteredRadiance(dir, lod)
			assert.InDelta(t, 2.0, spec[1], 1e-3)
		}
	}

	brdf := env.BRDF(1, 0)
	assert.Greater(t, brdf[0], float32(0.8))
}

func TestPipelineErrors(t *testing.T) {
	s := smallSettings()
	s.CubeSize = 3
	_, err := NewPipeline(s, nil).Run(core.NewUniformImage(4, 2, mgl32.Vec3{}))
	assert.ErrorIs(t, err, ErrInvalidSettings)

	_, err = NewPipeline(smallSettings(), nil).Run(nil)
	assert.ErrorIs(t, err, ErrInvalidPanorama)
}

func TestStoreConcurrentReaders(t *testing.T) {
	var store Store
	assert.Nil(t, store.Current())

	envs := make([]*Environment, 8)
	for i := range envs {
		envs[i] = &Environment{ID: uuid.New()}
	}

	var wg sync.WaitGroup
	for r := 0; r < 4; r++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for i := 0; i < 1000; i++ {
				if env := store.Current(); env != nil {
					assert.NotEqual(t, uuid.Nil, env.ID)
				}
			}
		}()
	}
	for _, env := range envs {
		store.Publish(env)
	}
	wg.Wait()
	assert.Same(t, envs[len(envs)-1], store.Current())
}
