package memscene

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/go-gl/mathgl/mgl64"
	"gopkg.in/yaml.v3"

	"quickflip/geom"
	"quickflip/scene"
)

// fileScene is the YAML layout of a scene file:
//
//	objects:
//	  - name: Rig
//	    type: armature
//	    bones:
//	      - name: Arm.L
//	        pose: {location: [1, 0, 0]}
//	  - name: Prop
//	    parent: Rig
//	    location: [0, 2, 0]
//	    rotation_mode: XYZ
//	    rotation: [0, 0, 1.57]
//	collections:
//	  - name: Props
//	    objects: [Prop]
//	    children: [Lights]
//	selection: [Rig/Arm.L, Prop]
type fileScene struct {
	Objects     []fileObject     `yaml:"objects"`
	Collections []fileCollection `yaml:"collections,omitempty"`
	Selection   []string         `yaml:"selection,omitempty"`
}

type fileObject struct {
	Name          string `yaml:"name"`
	Type          string `yaml:"type,omitempty"`
	Parent        string `yaml:"parent,omitempty"`
	Hidden        bool   `yaml:"hidden,omitempty"`
	Linked        bool   `yaml:"linked,omitempty"`
	fileTransform `yaml:",inline"`
	Bones         []fileBone `yaml:"bones,omitempty"`
}

type fileBone struct {
	Name   string        `yaml:"name"`
	Parent string        `yaml:"parent,omitempty"`
	Rest   fileTransform `yaml:"rest,omitempty"`
	Pose   fileTransform `yaml:"pose,omitempty"`
}

// fileTransform holds a transform. Rotation is [w, x, y, z] for quaternions
// and Euler angles in radians otherwise.
type fileTransform struct {
	Location     []float64 `yaml:"location,flow,omitempty"`
	RotationMode string    `yaml:"rotation_mode,omitempty"`
	Rotation     []float64 `yaml:"rotation,flow,omitempty"`
	Scale        []float64 `yaml:"scale,flow,omitempty"`
}

type fileCollection struct {
	Name     string   `yaml:"name"`
	Objects  []string `yaml:"objects,flow,omitempty"`
	Children []string `yaml:"children,flow,omitempty"`
}

// LoadFile loads and parses a YAML scene file from the given path.
func LoadFile(path string) (*Scene, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read scene file %s: %w", path, err)
	}

	return Parse(data)
}

// Parse parses YAML data into a Scene.
func Parse(data []byte) (*Scene, error) {
	var fs fileScene

	if err := yaml.Unmarshal(data, &fs); err != nil {
		return nil, fmt.Errorf("failed to parse scene YAML: %w", err)
	}

	s := New()

	for _, fo := range fs.Objects {
		obj, err := fo.object()
		if err != nil {
			return nil, err
		}

		if err := s.AddObject(obj); err != nil {
			return nil, err
		}
	}

	for _, fc := range fs.Collections {
		if err := s.AddCollection(Collection{Name: fc.Name, Objects: fc.Objects, Children: fc.Children}); err != nil {
			return nil, err
		}
	}

	refs := make([]scene.Ref, 0, len(fs.Selection))
	for _, sel := range fs.Selection {
		ref := scene.ParseRef(sel)
		if _, err := s.Info(ref); err != nil {
			return nil, fmt.Errorf("selection: %w", err)
		}

		refs = append(refs, ref)
	}

	s.Select(refs...)

	return s, nil
}

// Marshal serializes the current scene to YAML.
func (s *Scene) Marshal() ([]byte, error) {
	st, err := s.Snapshot()
	if err != nil {
		return nil, err
	}

	var fs fileScene

	for _, o := range st.Objects {
		fo := fileObject{
			Name:          o.Name,
			Type:          o.Type,
			Parent:        o.Parent,
			Hidden:        o.Hidden,
			Linked:        o.Linked,
			fileTransform: toFileTransform(o.Transform),
		}

		for _, b := range o.Bones {
			fo.Bones = append(fo.Bones, fileBone{
				Name:   b.Name,
				Parent: b.Parent,
				Rest:   toFileTransform(b.Rest),
				Pose:   toFileTransform(b.Pose),
			})
		}

		fs.Objects = append(fs.Objects, fo)
	}

	for _, c := range st.Collections {
		fs.Collections = append(fs.Collections, fileCollection{Name: c.Name, Objects: c.Objects, Children: c.Children})
	}

	for _, ref := range st.Selection {
		fs.Selection = append(fs.Selection, ref.String())
	}

	return yaml.Marshal(&fs)
}

// WriteFile writes the scene to the given path.
func (s *Scene) WriteFile(path string) error {
	data, err := s.Marshal()
	if err != nil {
		return fmt.Errorf("failed to marshal scene: %w", err)
	}

	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("failed to write scene file %s: %w", path, err)
	}

	return nil
}

func (fo fileObject) object() (Object, error) {
	if strings.Contains(fo.Name, "/") {
		return Object{}, fmt.Errorf("object %q: names may not contain '/'", fo.Name)
	}

	t, err := fo.transform()
	if err != nil {
		return Object{}, fmt.Errorf("object %q: %w", fo.Name, err)
	}

	obj := Object{
		Name:      fo.Name,
		Type:      fo.Type,
		Parent:    fo.Parent,
		Hidden:    fo.Hidden,
		Linked:    fo.Linked,
		Transform: t,
	}

	for _, fb := range fo.Bones {
		rest, err := fb.Rest.transform()
		if err != nil {
			return Object{}, fmt.Errorf("bone %s/%s rest: %w", fo.Name, fb.Name, err)
		}

		pose, err := fb.Pose.transform()
		if err != nil {
			return Object{}, fmt.Errorf("bone %s/%s pose: %w", fo.Name, fb.Name, err)
		}

		obj.Bones = append(obj.Bones, &Bone{Name: fb.Name, Parent: fb.Parent, Rest: rest, Pose: pose})
	}

	if len(obj.Bones) > 0 && obj.Type == "" {
		obj.Type = TypeArmature
	}

	return obj, nil
}

func (ft fileTransform) transform() (geom.Transform, error) {
	t := geom.Identity()

	var err error

	if t.Location, err = vec3(ft.Location, t.Location, "location"); err != nil {
		return t, err
	}

	if t.Scale, err = vec3(ft.Scale, t.Scale, "scale"); err != nil {
		return t, err
	}

	mode, ok := geom.ParseRotationMode(ft.RotationMode)
	if !ok {
		return t, fmt.Errorf("unknown rotation_mode %q", ft.RotationMode)
	}

	switch {
	case mode.IsEuler():
		angles, err := vec3(ft.Rotation, mgl64.Vec3{}, "rotation")
		if err != nil {
			return t, err
		}

		t.Rotation = geom.EulerRotation(mode, angles)
	case len(ft.Rotation) == 0:
	case len(ft.Rotation) == 4:
		q := mgl64.Quat{W: ft.Rotation[0], V: mgl64.Vec3{ft.Rotation[1], ft.Rotation[2], ft.Rotation[3]}}
		if q.Len() == 0 {
			return t, errors.New("rotation quaternion has zero length")
		}

		t.Rotation = geom.QuatRotation(q)
	default:
		return t, fmt.Errorf("rotation: want 4 components [w, x, y, z], got %d", len(ft.Rotation))
	}

	return t, nil
}

func toFileTransform(t geom.Transform) fileTransform {
	ft := fileTransform{
		Location: t.Location[:],
		Scale:    t.Scale[:],
	}

	if t.Rotation.Mode.IsEuler() {
		ft.RotationMode = t.Rotation.Mode.String()
		ft.Rotation = t.Rotation.Euler[:]
	} else {
		q := t.Rotation.Quat
		ft.Rotation = []float64{q.W, q.V[0], q.V[1], q.V[2]}
	}

	return ft
}

func vec3(in []float64, def mgl64.Vec3, field string) (mgl64.Vec3, error) {
	switch len(in) {
	case 0:
		return def, nil
	case 3:
		return mgl64.Vec3{in[0], in[1], in[2]}, nil
	default:
		return def, fmt.Errorf("%s: want 3 components, got %d", field, len(in))
	}
}
