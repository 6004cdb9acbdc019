package main

import (
	"flag"
	"fmt"
	"os"

	gekko "github.com/gekko3d/gekko-ibl"
)

func main() {
	configPath := flag.String("config", "", "YAML config file")
	panorama := flag.String("panorama", "", "Equirectangular panorama (.hdr, png, jpeg, bmp, tiff, tga); procedural sky if empty")
	out := flag.String("out", "", "Output path without extension")
	format := flag.String("format", "", "Output format: png, webp, tga, bmp, tiff")
	curve := flag.String("curve", "", "Tone curve: aces, filmic, comparison (or 0, 1, 2)")
	exposure := flag.Float64("exposure", 0, "Exposure in stops")
	split := flag.Float64("split", 0.5, "Comparison split, ACES left of this fraction")
	view := flag.String("view", "", "View: main, environment, irradiance, specular")
	roughness := flag.Float64("mip", 0, "Roughness of the specular view, selects the mip")
	workers := flag.Int("workers", 0, "Worker goroutines (0 = all CPUs)")
	debug := flag.Bool("debug", false, "Debug logging and stage timings")
	flag.Parse()

	var cfg gekko.Config
	if *configPath != "" {
		var err error
		cfg, err = gekko.LoadConfig(*configPath)
		if err != nil {
			fmt.Fprintln(os.Stderr, err)
			os.Exit(1)
		}
	}

	flags := gekko.Flags{
		Panorama: *panorama,
		Out:      *out,
		Format:   *format,
		Curve:    *curve,
		View:     *view,
		Workers:  *workers,
		Debug:    *debug,
	}
	flag.Visit(func(f *flag.Flag) {
		switch f.Name {
		case "exposure":
			v := float32(*exposure)
			flags.Exposure = &v
		case "split":
			v := float32(*split)
			flags.Split = &v
		case "mip":
			v := float32(*roughness)
			flags.Roughness = &v
		}
	})
	cfg.Resolve(flags)

	app, err := gekko.NewIBLApp(cfg, nil)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(2)
	}
	if err := app.Run(); err != nil {
		os.Exit(1)
	}
}
