package world

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"bump3d/internal/body"
	"bump3d/internal/shape"

	rl "github.com/gen2brain/raylib-go/raylib"
)

// --- YAML types ---

type SceneFile struct {
	Bodies []BodyDef `yaml:"bodies"`
}

type BodyDef struct {
	Name     string     `yaml:"name,omitempty"`
	Category string     `yaml:"category"`
	Shape    ShapeDef   `yaml:"shape"`
	Position [3]float32 `yaml:"position"`
	Rotation [3]float32 `yaml:"rotation,omitempty"`
	Layer    *uint64    `yaml:"layer,omitempty"`
	Mask     *uint64    `yaml:"mask,omitempty"`
}

type ShapeDef struct {
	Type        string     `yaml:"type"`
	Radius      float32    `yaml:"radius,omitempty"`
	HalfExtents [3]float32 `yaml:"halfExtents,omitempty"`
	HalfHeight  float32    `yaml:"halfHeight,omitempty"`
}

var categoryByName = map[string]body.Category{
	"kinematic": body.Kinematic,
	"static":    body.Static,
	"trigger":   body.Trigger,
}

func (d ShapeDef) build() (shape.Shape, error) {
	switch d.Type {
	case "sphere":
		return shape.Sphere{Radius: d.Radius}, nil
	case "box":
		return shape.Box{HalfExtents: rl.Vector3{
			X: d.HalfExtents[0],
			Y: d.HalfExtents[1],
			Z: d.HalfExtents[2],
		}}, nil
	case "capsule":
		return shape.Capsule{Radius: d.Radius, HalfHeight: d.HalfHeight}, nil
	}
	return nil, fmt.Errorf("unknown shape type %q", d.Type)
}

// --- Loading ---

// LoadScene reads a YAML scene file and creates its bodies. Returned ids
// follow the file's body order, so a scene can address its own bodies by
// index (the first kinematic body is usually the player).
func (w *World) LoadScene(path string) ([]body.ID, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read scene: %w", err)
	}
	return w.LoadSceneData(data)
}

// LoadSceneData creates bodies from in-memory YAML scene data.
func (w *World) LoadSceneData(data []byte) ([]body.ID, error) {
	var sf SceneFile
	if err := yaml.Unmarshal(data, &sf); err != nil {
		return nil, fmt.Errorf("parse scene: %w", err)
	}

	ids := make([]body.ID, 0, len(sf.Bodies))
	for i, def := range sf.Bodies {
		cat, ok := categoryByName[def.Category]
		if !ok {
			return ids, fmt.Errorf("scene body %d (%s): unknown category %q", i, def.Name, def.Category)
		}
		s, err := def.Shape.build()
		if err != nil {
			return ids, fmt.Errorf("scene body %d (%s): %w", i, def.Name, err)
		}

		// Omitted layer/mask means "everything", not zero.
		layer, mask := body.MaskAll, body.MaskAll
		if def.Layer != nil {
			layer = body.Mask(*def.Layer)
		}
		if def.Mask != nil {
			mask = body.Mask(*def.Mask)
		}

		tr := shape.Transform{
			Position: rl.Vector3{X: def.Position[0], Y: def.Position[1], Z: def.Position[2]},
			Rotation: rl.Vector3{X: def.Rotation[0], Y: def.Rotation[1], Z: def.Rotation[2]},
		}
		ids = append(ids, w.Create(cat, s, tr, layer, mask))
	}
	return ids, nil
}

// --- Saving ---

// SaveScene writes the current bodies back out as a YAML scene.
func (w *World) SaveScene(path string) error {
	var sf SceneFile
	w.reg.Each(func(v body.View) {
		def := BodyDef{
			Category: v.Category.String(),
			Position: [3]float32{v.Transform.Position.X, v.Transform.Position.Y, v.Transform.Position.Z},
			Rotation: [3]float32{v.Transform.Rotation.X, v.Transform.Rotation.Y, v.Transform.Rotation.Z},
		}
		if v.Layer != body.MaskAll {
			layer := uint64(v.Layer)
			def.Layer = &layer
		}
		if v.Mask != body.MaskAll {
			mask := uint64(v.Mask)
			def.Mask = &mask
		}
		switch s := v.Shape.(type) {
		case shape.Sphere:
			def.Shape = ShapeDef{Type: "sphere", Radius: s.Radius}
		case shape.Box:
			def.Shape = ShapeDef{Type: "box", HalfExtents: [3]float32{s.HalfExtents.X, s.HalfExtents.Y, s.HalfExtents.Z}}
		case shape.Capsule:
			def.Shape = ShapeDef{Type: "capsule", Radius: s.Radius, HalfHeight: s.HalfHeight}
		}
		sf.Bodies = append(sf.Bodies, def)
	})

	data, err := yaml.Marshal(&sf)
	if err != nil {
		return fmt.Errorf("marshal scene: %w", err)
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("write scene: %w", err)
	}
	return nil
}
