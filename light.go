package gekko

import (
	"github.com/go-gl/mathgl/mgl32"

	"github.com/gekko3d/gekko-ibl/ibl/rt/core"
)

// LightConfig is one point light as written in the config file.
type LightConfig struct {
	Position  [3]float32 `yaml:"position"`
	Color     [3]float32 `yaml:"color"` // linear RGB
	Intensity float32    `yaml:"intensity"`
}

func (l LightConfig) PointLight() core.PointLight {
	return core.PointLight{
		Position:  mgl32.Vec3(l.Position),
		Color:     mgl32.Vec3(l.Color),
		Intensity: l.Intensity,
	}
}

// DefaultLights places four white lights in front of the chart.
func DefaultLights() []LightConfig {
	lights := make([]LightConfig, 0, 4)
	for _, p := range [][3]float32{{-5, 5, 10}, {5, 5, 10}, {-5, -5, 10}, {5, -5, 10}} {
		lights = append(lights, LightConfig{Position: p, Color: [3]float32{1, 1, 1}, Intensity: 300})
	}
	return lights
}

// PointLights converts the configured lights. Lights past core.MaxLights
// are kept here and dropped by the shading pass.
func PointLights(configs []LightConfig) []core.PointLight {
	lights := make([]core.PointLight, len(configs))
	for i, c := range configs {
		lights[i] = c.PointLight()
	}
	return lights
}
