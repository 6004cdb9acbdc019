package imageio

import (
	"bytes"
	"fmt"
	"image"
	"image/jpeg"
	"image/png"
	"io"
	"os"

	"github.com/ftrvxmtrx/tga"
	"golang.org/x/image/bmp"
	"golang.org/x/image/tiff"

	"github.com/gekko3d/gekko-ibl/ibl/rt/core"
)

type ldrDecoder struct {
	name   string
	magic  []string
	decode func(io.Reader) (image.Image, error)
}

// tga has no signature and is tried last.
var ldrDecoders = []ldrDecoder{
	{"png", []string{"\x89PNG\r\n\x1a\n"}, png.Decode},
	{"jpeg", []string{"\xff\xd8"}, jpeg.Decode},
	{"bmp", []string{"BM"}, bmp.Decode},
	{"tiff", []string{"II*\x00", "MM\x00*"}, tiff.Decode},
	{"tga", []string{""}, tga.Decode},
}

// DecodeLDR decodes an 8-bit png, jpeg, bmp, tiff or tga image and converts
// it from sRGB to linear radiance. The detected format name is returned.
func DecodeLDR(data []byte) (*core.HDRImage, string, error) {
	for _, d := range ldrDecoders {
		for _, magic := range d.magic {
			if !bytes.HasPrefix(data, []byte(magic)) {
				continue
			}
			img, err := d.decode(bytes.NewReader(data))
			if err != nil {
				return nil, d.name, fmt.Errorf("imageio: decode %s: %w", d.name, err)
			}
			return FromSRGB(img), d.name, nil
		}
	}
	return nil, "", fmt.Errorf("imageio: unknown image format")
}

// DecodePanorama accepts a Radiance file or any format DecodeLDR reads.
func DecodePanorama(r io.Reader) (*core.HDRImage, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("imageio: read panorama: %w", err)
	}
	if bytes.HasPrefix(data, []byte("#?")) {
		return DecodeRadiance(bytes.NewReader(data))
	}
	img, _, err := DecodeLDR(data)
	return img, err
}

// LoadPanorama reads an equirectangular panorama from disk.
func LoadPanorama(path string) (*core.HDRImage, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("imageio: open panorama: %w", err)
	}
	defer f.Close()

	img, err := DecodePanorama(f)
	if err != nil {
		return nil, fmt.Errorf("imageio: %s: %w", path, err)
	}
	return img, nil
}
