package gekko

import (
	"fmt"
	"image"
	"path/filepath"
	"strings"

	"github.com/go-gl/mathgl/mgl32"

	"github.com/gekko3d/gekko-ibl/ibl/rt/envmap"
	"github.com/gekko3d/gekko-ibl/ibl/rt/imageio"
	"github.com/gekko3d/gekko-ibl/ibl/rt/tonemap"
)

type OutputSettings struct {
	// Path is the output base; a known image extension on it is replaced
	// by Format.
	Path          string
	Format        imageio.Format
	Sheets        bool
	SheetFaceSize int
	RawHDR        bool
}

// OutputReport lists the files written, in order.
type OutputReport struct {
	Files []string
}

// OutputModule writes the display image, and optionally the raw frame and
// the precompute sheets, after tone mapping.
type OutputModule struct {
	Settings OutputSettings
}

func (m OutputModule) Install(app *App, cmd *Commands) {
	settings := m.Settings
	if settings.SheetFaceSize <= 0 {
		settings.SheetFaceSize = 128
	}
	cmd.AddResources(&settings, &OutputReport{})
	cmd.UseSystem(System(writeOutputs).InStage(Finale).InState(OnEnter(StatePresent)))
}

func (s *OutputSettings) base() string {
	ext := filepath.Ext(s.Path)
	if _, err := imageio.ParseFormat(ext); err == nil && ext != "" {
		return strings.TrimSuffix(s.Path, ext)
	}
	if strings.EqualFold(ext, ".hdr") {
		return strings.TrimSuffix(s.Path, ext)
	}
	return s.Path
}

func writeOutputs(frame *Frame, store *envmap.Store, settings *OutputSettings, params *tonemap.Params, report *OutputReport, profiler *Profiler, cmd *Commands) {
	if frame.Display == nil {
		cmd.Fail(fmt.Errorf("output: nothing to write"))
		return
	}
	profiler.BeginScope("output")
	defer profiler.EndScope("output")

	base := settings.base()
	write := func(path string, save func(string) error) bool {
		if err := save(path); err != nil {
			cmd.Fail(fmt.Errorf("output: %w", err))
			return false
		}
		report.Files = append(report.Files, path)
		cmd.Logger().Named("output").Infof("wrote %s", path)
		return true
	}

	display := imageio.ToSRGB8(frame.Display)
	if !write(base+settings.Format.Ext(), func(p string) error { return imageio.SaveImage(p, display) }) {
		return
	}

	if settings.RawHDR && frame.HDR != nil {
		if !write(base+".hdr", func(p string) error { return imageio.SaveRadiance(p, frame.HDR) }) {
			return
		}
	}

	env := store.Current()
	if !settings.Sheets || env == nil {
		return
	}

	// sheets always use the ACES curve so one split does not cut them in half
	mapper := func(c mgl32.Vec3) mgl32.Vec3 { return tonemap.ACES(c.Mul(params.Multiplier())) }
	face := settings.SheetFaceSize
	sheets := []struct {
		name  string
		sheet func() *image.NRGBA
	}{
		{"environment", func() *image.NRGBA { return imageio.CrossSheet(env.Source.Base(), face, mapper) }},
		{"irradiance", func() *image.NRGBA { return imageio.CrossSheet(env.Irradiance, face, mapper) }},
		{"specular", func() *image.NRGBA { return imageio.ChainSheet(env.Specular, face, mapper) }},
		{"brdf_lut", func() *image.NRGBA { return imageio.LUTSheet(env.LUT, face) }},
	}
	for _, s := range sheets {
		img := s.sheet()
		path := fmt.Sprintf("%s_%s%s", base, s.name, settings.Format.Ext())
		if !write(path, func(p string) error { return imageio.SaveImage(p, img) }) {
			return
		}
	}
	profiler.SetCount("files", len(report.Files))
}
