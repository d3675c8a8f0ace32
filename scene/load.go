package scene

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/go-gl/mathgl/mgl32"
	toml "github.com/pelletier/go-toml/v2"
	"gopkg.in/yaml.v3"
)

// ErrInvalidScene is returned for documents that decode but do not describe
// a usable scene.
var ErrInvalidScene = errors.New("invalid scene")

// Format is a scene file encoding.
type Format int

const (
	JSON Format = iota
	TOML
	YAML
)

func (f Format) String() string {
	switch f {
	case JSON:
		return "json"
	case TOML:
		return "toml"
	case YAML:
		return "yaml"
	default:
		return "unknown"
	}
}

// FormatFromPath picks the format from the file extension. Unknown
// extensions are treated as JSON.
func FormatFromPath(path string) Format {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".toml":
		return TOML
	case ".yaml", ".yml":
		return YAML
	default:
		return JSON
	}
}

// The file shapes use pointers so a missing field can be told apart from a
// zero value.
type sceneFile struct {
	Camera  *cameraFile  `json:"camera" toml:"camera" yaml:"camera"`
	Sphere  *sphereFile  `json:"sphere" toml:"sphere" yaml:"sphere"`
	Spheres []sphereFile `json:"spheres" toml:"spheres" yaml:"spheres"`
}

// Vectors decode as slices so a wrong component count is reported instead of
// being zero-filled or truncated.
type cameraFile struct {
	Position []float32 `json:"position" toml:"position" yaml:"position"`
	Angles   []float32 `json:"angles" toml:"angles" yaml:"angles"`
	FOV      *float32  `json:"fov" toml:"fov" yaml:"fov"`
}

type materialFile struct {
	Albedo    []float32 `json:"albedo" toml:"albedo" yaml:"albedo"`
	Metallic  *float32  `json:"metallic" toml:"metallic" yaml:"metallic"`
	Roughness *float32  `json:"roughness" toml:"roughness" yaml:"roughness"`
}

type sphereFile struct {
	Position []float32     `json:"position" toml:"position" yaml:"position"`
	Radius   *float32      `json:"radius" toml:"radius" yaml:"radius"`
	Material *materialFile `json:"material" toml:"material" yaml:"material"`
}

// Load reads and validates a scene file.
func Load(path string) (*Scene, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read scene file: %w", err)
	}
	sc, err := Decode(data, FormatFromPath(path))
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return sc, nil
}

// Decode parses and validates a scene document.
func Decode(data []byte, format Format) (*Scene, error) {
	var f sceneFile
	var err error
	switch format {
	case JSON:
		err = json.Unmarshal(data, &f)
	case TOML:
		err = toml.Unmarshal(data, &f)
	case YAML:
		err = yaml.Unmarshal(data, &f)
	default:
		err = fmt.Errorf("unsupported format %d", format)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to decode %s scene: %w", format, err)
	}
	return f.scene()
}

func invalid(format string, args ...any) error {
	return fmt.Errorf("%w: %s", ErrInvalidScene, fmt.Sprintf(format, args...))
}

func (f *sceneFile) scene() (*Scene, error) {
	if f.Camera == nil {
		return nil, invalid("missing camera")
	}
	cam, err := f.Camera.camera()
	if err != nil {
		return nil, err
	}

	var files []sphereFile
	var names []string
	switch {
	case f.Sphere != nil && f.Spheres != nil:
		return nil, invalid("both sphere and spheres are set")
	case f.Sphere != nil:
		files = []sphereFile{*f.Sphere}
		names = []string{"sphere"}
	case len(f.Spheres) > 0:
		files = f.Spheres
		for i := range files {
			names = append(names, fmt.Sprintf("spheres[%d]", i))
		}
	default:
		return nil, invalid("no spheres")
	}

	sc := &Scene{Camera: cam, Spheres: make([]Sphere, 0, len(files))}
	for i := range files {
		s, err := files[i].sphere(names[i])
		if err != nil {
			return nil, err
		}
		sc.Spheres = append(sc.Spheres, s)
	}
	return sc, nil
}

func vec3(field string, v []float32) (mgl32.Vec3, error) {
	if len(v) != 3 {
		return mgl32.Vec3{}, invalid("%s: want 3 components, got %d", field, len(v))
	}
	return mgl32.Vec3{v[0], v[1], v[2]}, nil
}

func (c *cameraFile) camera() (Camera, error) {
	if c.Position == nil {
		return Camera{}, invalid("camera: missing position")
	}
	if c.FOV == nil {
		return Camera{}, invalid("camera: missing fov")
	}
	if !finite(*c.FOV) || *c.FOV <= 0 {
		return Camera{}, invalid("camera: fov must be positive, got %g", *c.FOV)
	}
	pos, err := vec3("camera.position", c.Position)
	if err != nil {
		return Camera{}, err
	}
	cam := Camera{Position: pos, FOV: *c.FOV}
	if c.Angles != nil {
		if cam.Angles, err = vec3("camera.angles", c.Angles); err != nil {
			return Camera{}, err
		}
	}
	return cam, nil
}

func (s *sphereFile) sphere(name string) (Sphere, error) {
	switch {
	case s.Position == nil:
		return Sphere{}, invalid("%s: missing position", name)
	case s.Radius == nil:
		return Sphere{}, invalid("%s: missing radius", name)
	case !finite(*s.Radius) || *s.Radius <= 0:
		return Sphere{}, invalid("%s: radius must be positive, got %g", name, *s.Radius)
	case s.Material == nil:
		return Sphere{}, invalid("%s: missing material", name)
	}
	m := s.Material
	switch {
	case m.Albedo == nil:
		return Sphere{}, invalid("%s.material: missing albedo", name)
	case m.Metallic == nil:
		return Sphere{}, invalid("%s.material: missing metallic", name)
	case m.Roughness == nil:
		return Sphere{}, invalid("%s.material: missing roughness", name)
	}
	pos, err := vec3(name+".position", s.Position)
	if err != nil {
		return Sphere{}, err
	}
	albedo, err := vec3(name+".material.albedo", m.Albedo)
	if err != nil {
		return Sphere{}, err
	}
	return Sphere{
		Position: pos,
		Radius:   *s.Radius,
		Material: Material{
			Albedo:    albedo,
			Metallic:  *m.Metallic,
			Roughness: *m.Roughness,
		},
	}, nil
}
