// Package populate holds the content producers biomes hand to the population
// engine. Producers build plain-data node payloads describing what exists at
// a placement and attach them to the shared scene; interpreting the payloads
// (meshes, animation, audio) is entirely the renderer's business.
package populate

import (
	"github.com/go-gl/mathgl/mgl64"
)

// IslandNode is the payload of a composite island landmark. Everything on
// the island (peaks, tree cover) is described by the node itself, so the
// whole landmark is one scene attachment under one handle.
type IslandNode struct {
	Position mgl64.Vec3
	Radius   float64
	Peaks    int
	Trees    int
	Palette  string
	Yaw      float64
}

// StructureNode is the payload of a built feature such as a shipwreck or a
// hut.
type StructureNode struct {
	Position mgl64.Vec3
	Kind     string
	Yaw      float64
	Scale    float64
}

// CreatureNode is the payload of an ambient creature.
type CreatureNode struct {
	Position mgl64.Vec3
	Kind     string
	Speed    float64
	Heading  float64
}

// VegetationNode is the payload of a plant instance.
type VegetationNode struct {
	Position mgl64.Vec3
	Kind     string
	Height   float64
	Yaw      float64
}

// EffectNode is the payload of a non-physical ambient effect.
type EffectNode struct {
	Position  mgl64.Vec3
	Kind      string
	Radius    float64
	Intensity float64
}
