package populate

import (
	"math"
	"math/rand/v2"
	"testing"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/windward-gs/windward/server/scene"
	"github.com/windward-gs/windward/server/world"
)

func testCtx() world.PlacementContext {
	return world.PlacementContext{
		Position: mgl64.Vec3{10, 0, -20},
		Yaw:      1.2,
		Scale:    1,
		Rand:     rand.New(rand.NewPCG(1, 2)),
	}
}

func TestIslandProduce(t *testing.T) {
	s := scene.New()
	p := Island{MinRadius: 20, MaxRadius: 60, MaxPeaks: 3, Palettes: []string{"tropical", "temperate"}}
	h, err := p.Produce(s, testCtx())
	if err != nil {
		t.Fatalf("failed producing island: %v", err)
	}
	payload, _ := s.Payload(h)
	node, ok := payload.(IslandNode)
	if !ok {
		t.Fatalf("payload is %T, want IslandNode", payload)
	}
	if node.Radius < 20 || node.Radius > 60 {
		t.Fatalf("radius %v outside configured range", node.Radius)
	}
	if node.Peaks < 1 || node.Peaks > 3 {
		t.Fatalf("peaks = %d outside [1, 3]", node.Peaks)
	}
	if node.Palette != "tropical" && node.Palette != "temperate" {
		t.Fatalf("palette %q not in configured set", node.Palette)
	}
	if node.Position != (mgl64.Vec3{10, 0, -20}) {
		t.Fatalf("position = %v", node.Position)
	}
}

func TestIslandInvalidRadius(t *testing.T) {
	s := scene.New()
	for _, p := range []Island{
		{MinRadius: 60, MaxRadius: 20},
		{MinRadius: 0, MaxRadius: 20},
		{MinRadius: -5, MaxRadius: 20},
	} {
		if _, err := p.Produce(s, testCtx()); err == nil {
			t.Fatalf("invalid radius range %+v did not fail", p)
		}
	}
	if s.Len() != 0 {
		t.Fatalf("failed productions attached %d nodes", s.Len())
	}
}

func TestIslandDeterministicFromRand(t *testing.T) {
	p := Island{MinRadius: 20, MaxRadius: 60, MaxPeaks: 4}
	s := scene.New()
	ha, _ := p.Produce(s, testCtx())
	hb, _ := p.Produce(s, testCtx())
	a, _ := s.Payload(ha)
	b, _ := s.Payload(hb)
	if a != b {
		t.Fatalf("identical placement contexts produced different islands:\n%+v\n%+v", a, b)
	}
}

func TestStructureProduce(t *testing.T) {
	s := scene.New()
	p := Structure{Kinds: []string{"shipwreck", "buoy"}}
	h, err := p.Produce(s, testCtx())
	if err != nil {
		t.Fatalf("failed producing structure: %v", err)
	}
	payload, _ := s.Payload(h)
	node := payload.(StructureNode)
	if node.Kind != "shipwreck" && node.Kind != "buoy" {
		t.Fatalf("kind %q not in configured set", node.Kind)
	}
	if node.Yaw != 1.2 || node.Scale != 1 {
		t.Fatalf("placement context not applied: %+v", node)
	}

	if _, err := (Structure{}).Produce(s, testCtx()); err == nil {
		t.Fatalf("structure with no kinds did not fail")
	}
}

func TestCreatureProduce(t *testing.T) {
	s := scene.New()
	p := Creature{Kind: "gull", MinSpeed: 2, MaxSpeed: 6}
	h, err := p.Produce(s, testCtx())
	if err != nil {
		t.Fatalf("failed producing creature: %v", err)
	}
	payload, _ := s.Payload(h)
	node := payload.(CreatureNode)
	if node.Speed < 2 || node.Speed > 6 {
		t.Fatalf("speed %v outside configured range", node.Speed)
	}
	if node.Heading < 0 || node.Heading >= 2*math.Pi {
		t.Fatalf("heading %v outside [0, 2π)", node.Heading)
	}

	if _, err := (Creature{Kind: "orca", MinSpeed: 5, MaxSpeed: 1}).Produce(s, testCtx()); err == nil {
		t.Fatalf("inverted speed range did not fail")
	}
	if _, err := (Creature{MinSpeed: 1, MaxSpeed: 2}).Produce(s, testCtx()); err == nil {
		t.Fatalf("creature without kind did not fail")
	}
}

func TestVegetationProduce(t *testing.T) {
	s := scene.New()
	p := Vegetation{Kind: "palm", MinHeight: 4, MaxHeight: 9}
	h, err := p.Produce(s, testCtx())
	if err != nil {
		t.Fatalf("failed producing vegetation: %v", err)
	}
	payload, _ := s.Payload(h)
	node := payload.(VegetationNode)
	if node.Height < 4 || node.Height > 9 {
		t.Fatalf("height %v outside configured range", node.Height)
	}

	if _, err := (Vegetation{Kind: "kelp", MinHeight: 9, MaxHeight: 4}).Produce(s, testCtx()); err == nil {
		t.Fatalf("inverted height range did not fail")
	}
}

func TestEffectProduce(t *testing.T) {
	s := scene.New()
	h, err := Effect{Kind: "fog"}.Produce(s, testCtx())
	if err != nil {
		t.Fatalf("failed producing effect: %v", err)
	}
	payload, _ := s.Payload(h)
	node := payload.(EffectNode)
	if node.Radius != 12 {
		t.Fatalf("radius = %v, want the default 12", node.Radius)
	}
	if node.Intensity < 0.4 || node.Intensity > 1 {
		t.Fatalf("intensity %v outside [0.4, 1]", node.Intensity)
	}

	if _, err := (Effect{}).Produce(s, testCtx()); err == nil {
		t.Fatalf("effect without kind did not fail")
	}
}
