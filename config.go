package gekko

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"runtime"

	"github.com/go-gl/mathgl/mgl32"
	"gopkg.in/yaml.v3"

	"github.com/gekko3d/gekko-ibl/ibl/rt/core"
	"github.com/gekko3d/gekko-ibl/ibl/rt/envmap"
	"github.com/gekko3d/gekko-ibl/ibl/rt/imageio"
	"github.com/gekko3d/gekko-ibl/ibl/rt/shading"
	"github.com/gekko3d/gekko-ibl/ibl/rt/tonemap"
)

var ErrInvalidConfig = errors.New("invalid config")

// Config holds everything one run needs. Zero values are replaced by
// defaults in Resolve.
type Config struct {
	Environment EnvironmentConfig `yaml:"environment"`
	Render      RenderConfig      `yaml:"render"`
	Tonemap     TonemapConfig     `yaml:"tonemap"`
	Lights      []LightConfig     `yaml:"lights"`
	Output      OutputConfig      `yaml:"output"`
	Workers     int               `yaml:"workers"`
	Debug       bool              `yaml:"debug"`
}

type EnvironmentConfig struct {
	// Panorama is an equirectangular .hdr, png, jpeg, bmp, tiff or tga file.
	// Empty selects the procedural sky.
	Panorama        string `yaml:"panorama"`
	LeftHanded      bool   `yaml:"left_handed"`
	SkyWidth        int    `yaml:"sky_width"`
	CubeSize        int    `yaml:"cube_size"`
	IrradianceSize  int    `yaml:"irradiance_size"`
	ThetaSamples    int    `yaml:"theta_samples"`
	PhiSamples      int    `yaml:"phi_samples"`
	SpecularSize    int    `yaml:"specular_size"`
	SpecularLevels  int    `yaml:"specular_levels"`
	SpecularSamples int    `yaml:"specular_samples"`
	LUTSize         int    `yaml:"lut_size"`
	LUTSamples      int    `yaml:"lut_samples"`
}

type CameraConfig struct {
	Yaw      float32    `yaml:"yaw"`   // degrees
	Pitch    float32    `yaml:"pitch"` // degrees
	Distance float32    `yaml:"distance"`
	Focus    [3]float32 `yaml:"focus"`
	FovY     float32    `yaml:"fov"` // degrees
	Near     float32    `yaml:"near"`
	Far      float32    `yaml:"far"`
}

type RenderConfig struct {
	Width  int    `yaml:"width"`
	Height int    `yaml:"height"`
	View   string `yaml:"view"`
	// Roughness selects the mip of the specular view.
	Roughness float32      `yaml:"roughness"`
	Rows      int          `yaml:"rows"`
	Cols      int          `yaml:"cols"`
	Spacing   float32      `yaml:"spacing"`
	Albedo    [3]float32   `yaml:"albedo"`
	Camera    CameraConfig `yaml:"camera"`
}

type TonemapConfig struct {
	Exposure float32 `yaml:"exposure"`
	Curve    string  `yaml:"curve"`
	Split    float32 `yaml:"split"`
}

type OutputConfig struct {
	Path          string `yaml:"path"`
	Format        string `yaml:"format"`
	Sheets        bool   `yaml:"sheets"`
	SheetFaceSize int    `yaml:"sheet_face_size"`
	RawHDR        bool   `yaml:"raw_hdr"`
}

// Flags holds CLI values that override the config file. Nil pointers and
// empty strings leave the file value alone.
type Flags struct {
	Panorama  string
	Out       string
	Format    string
	Curve     string
	View      string
	Exposure  *float32
	Split     *float32
	Roughness *float32
	Workers   int
	Debug     bool
}

// LoadConfig reads a YAML config file. Unknown keys are an error.
func LoadConfig(path string) (Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Config{}, fmt.Errorf("config: read %s: %w", path, err)
	}
	cfg, err := ParseConfig(data)
	if err != nil {
		return Config{}, fmt.Errorf("config: parse %s: %w", path, err)
	}
	return cfg, nil
}

func ParseConfig(data []byte) (Config, error) {
	var cfg Config
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(&cfg); err != nil && !errors.Is(err, io.EOF) {
		return Config{}, err
	}
	return cfg, nil
}

// DefaultConfig is an empty config after Resolve.
func DefaultConfig() Config {
	var cfg Config
	cfg.Resolve(Flags{})
	return cfg
}

// Resolve applies flag overrides, then fills every unset field.
func (c *Config) Resolve(flags Flags) {
	if flags.Panorama != "" {
		c.Environment.Panorama = flags.Panorama
	}
	if flags.Out != "" {
		c.Output.Path = flags.Out
	}
	if flags.Format != "" {
		c.Output.Format = flags.Format
	}
	if flags.Curve != "" {
		c.Tonemap.Curve = flags.Curve
	}
	if flags.View != "" {
		c.Render.View = flags.View
	}
	if flags.Exposure != nil {
		c.Tonemap.Exposure = *flags.Exposure
	}
	if flags.Split != nil {
		c.Tonemap.Split = *flags.Split
	}
	if flags.Roughness != nil {
		c.Render.Roughness = *flags.Roughness
	}
	if flags.Workers > 0 {
		c.Workers = flags.Workers
	}
	if flags.Debug {
		c.Debug = true
	}

	env := &c.Environment
	def := envmap.DefaultSettings()
	setDefault(&env.SkyWidth, 1024)
	setDefault(&env.CubeSize, def.CubeSize)
	setDefault(&env.IrradianceSize, def.IrradianceSize)
	setDefault(&env.ThetaSamples, def.ThetaSamples)
	setDefault(&env.PhiSamples, max(env.ThetaSamples/4, 1))
	setDefault(&env.SpecularSize, def.SpecularSize)
	setDefault(&env.SpecularLevels, def.SpecularLevels)
	setDefault(&env.SpecularSamples, def.SpecularSamples)
	setDefault(&env.LUTSize, def.LUTSize)
	setDefault(&env.LUTSamples, def.LUTSamples)

	r := &c.Render
	setDefault(&r.Width, 640)
	setDefault(&r.Height, 480)
	setDefault(&r.Rows, 5)
	setDefault(&r.Cols, 5)
	if r.View == "" {
		r.View = shading.ViewMain.String()
	}
	if r.Spacing <= 0 {
		r.Spacing = 2.5
	}
	if r.Albedo == [3]float32{} {
		r.Albedo = [3]float32{0.9, 0.1, 0.1}
	}
	cam := &r.Camera
	if cam.Distance <= 0 {
		cam.Distance = 18
	}
	if cam.FovY <= 0 {
		cam.FovY = 45
	}
	if cam.Near <= 0 {
		cam.Near = 0.1
	}
	if cam.Far <= 0 {
		cam.Far = 100
	}

	if c.Tonemap.Curve == "" {
		c.Tonemap.Curve = tonemap.CurveACES.String()
	}
	if c.Tonemap.Split == 0 && flags.Split == nil {
		c.Tonemap.Split = 0.5
	}

	if c.Lights == nil {
		c.Lights = DefaultLights()
	}

	if c.Output.Path == "" {
		c.Output.Path = "ibl_out"
	}
	if c.Output.Format == "" {
		c.Output.Format = string(imageio.FormatPNG)
	}
	setDefault(&c.Output.SheetFaceSize, 128)

	if c.Workers <= 0 {
		c.Workers = runtime.NumCPU()
	}
}

func setDefault(v *int, def int) {
	if *v <= 0 {
		*v = def
	}
}

// Validate reports the first problem, wrapped in ErrInvalidConfig.
func (c *Config) Validate() error {
	if err := c.EnvironmentSettings().Validate(); err != nil {
		return fmt.Errorf("%w: environment: %w", ErrInvalidConfig, err)
	}
	if c.Render.Width <= 0 || c.Render.Height <= 0 {
		return fmt.Errorf("%w: render size %dx%d", ErrInvalidConfig, c.Render.Width, c.Render.Height)
	}
	if _, err := shading.ParseViewMode(c.Render.View); err != nil {
		return fmt.Errorf("%w: %w", ErrInvalidConfig, err)
	}
	if c.Render.Roughness < 0 || c.Render.Roughness > 1 {
		return fmt.Errorf("%w: roughness %v outside [0, 1]", ErrInvalidConfig, c.Render.Roughness)
	}
	if _, err := c.ToneParams(); err != nil {
		return fmt.Errorf("%w: %w", ErrInvalidConfig, err)
	}
	if c.Tonemap.Split < 0 || c.Tonemap.Split > 1 {
		return fmt.Errorf("%w: comparison split %v outside [0, 1]", ErrInvalidConfig, c.Tonemap.Split)
	}
	if _, err := imageio.ParseFormat(c.Output.Format); err != nil {
		return fmt.Errorf("%w: %w", ErrInvalidConfig, err)
	}
	return nil
}

func (c *Config) EnvironmentSettings() envmap.Settings {
	e := c.Environment
	handedness := envmap.RightHanded
	if e.LeftHanded {
		handedness = envmap.LeftHanded
	}
	return envmap.Settings{
		CubeSize:        e.CubeSize,
		Handedness:      handedness,
		IrradianceSize:  e.IrradianceSize,
		ThetaSamples:    e.ThetaSamples,
		PhiSamples:      e.PhiSamples,
		SpecularSize:    e.SpecularSize,
		SpecularLevels:  e.SpecularLevels,
		SpecularSamples: e.SpecularSamples,
		LUTSize:         e.LUTSize,
		LUTSamples:      e.LUTSamples,
	}
}

func (c *Config) ToneParams() (tonemap.Params, error) {
	curve, err := tonemap.ParseCurve(c.Tonemap.Curve)
	if err != nil {
		return tonemap.Params{}, err
	}
	return tonemap.Params{
		Exposure:         c.Tonemap.Exposure,
		Curve:            curve,
		ComparisonFactor: c.Tonemap.Split,
	}, nil
}

func (c *Config) OrbitCamera() *core.OrbitCamera {
	cc := c.Render.Camera
	return &core.OrbitCamera{
		Yaw:      mgl32.DegToRad(cc.Yaw),
		Pitch:    mgl32.DegToRad(cc.Pitch),
		Distance: cc.Distance,
		Focus:    mgl32.Vec3(cc.Focus),
		FovY:     mgl32.DegToRad(cc.FovY),
		Near:     cc.Near,
		Far:      cc.Far,
	}
}
