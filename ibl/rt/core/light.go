package core

import "github.com/go-gl/mathgl/mgl32"

// MaxLights is the number of point lights the shading pass considers.
const MaxLights = 32

type PointLight struct {
	Position  mgl32.Vec3
	Color     mgl32.Vec3 // linear RGB
	Intensity float32
}

// ActiveLights returns the prefix of lights that is shaded. Lights past
// MaxLights are dropped without error.
func ActiveLights(lights []PointLight) []PointLight {
	if len(lights) > MaxLights {
		return lights[:MaxLights]
	}
	return lights
}
