package imageio

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"math"
	"strings"

	"github.com/go-gl/mathgl/mgl32"

	"github.com/gekko3d/gekko-ibl/ibl/rt/core"
)

var ErrNotRadiance = errors.New("imageio: not a radiance hdr file")

const (
	rgbeFormat    = "32-bit_rle_rgbe"
	minRLEWidth   = 8
	maxRLEWidth   = 0x7fff
	minRunLength  = 4
	maxRunLength  = 127
	maxLiteralRun = 128

	// MaxRadiancePixels bounds the image size a header may declare.
	MaxRadiancePixels = 1 << 28

	maxRGBEExponent = 127
)

// DecodeRadiance reads a Radiance RGBE (.hdr) image. Flat, old-style run
// length and adaptive run length scanlines are all accepted.
func DecodeRadiance(r io.Reader) (*core.HDRImage, error) {
	br := bufio.NewReader(r)

	magic, err := br.ReadString('\n')
	if err != nil || !strings.HasPrefix(magic, "#?") {
		return nil, ErrNotRadiance
	}

	for {
		line, err := br.ReadString('\n')
		if err != nil {
			return nil, fmt.Errorf("imageio: radiance header: %w", err)
		}
		line = strings.TrimRight(line, "\r\n")
		if line == "" {
			break
		}
		if format, ok := strings.CutPrefix(line, "FORMAT="); ok && format != rgbeFormat {
			return nil, fmt.Errorf("imageio: radiance format %q: %w", format, ErrNotRadiance)
		}
	}

	res, err := br.ReadString('\n')
	if err != nil {
		return nil, fmt.Errorf("imageio: radiance resolution: %w", err)
	}
	var yAxis, xAxis string
	var width, height int
	if _, err := fmt.Sscanf(res, "%s %d %s %d", &yAxis, &height, &xAxis, &width); err != nil {
		return nil, fmt.Errorf("imageio: radiance resolution %q: %w", strings.TrimSpace(res), err)
	}
	if xAxis != "+X" || (yAxis != "-Y" && yAxis != "+Y") || width <= 0 || height <= 0 {
		return nil, fmt.Errorf("imageio: unsupported orientation %q", strings.TrimSpace(res))
	}
	if width > MaxRadiancePixels/height {
		return nil, fmt.Errorf("imageio: radiance image %dx%d exceeds %d pixels", width, height, MaxRadiancePixels)
	}

	img := core.NewHDRImage(width, height)
	scan := make([]byte, 4*width)
	for y := 0; y < height; y++ {
		if err := readScanline(br, scan, width); err != nil {
			return nil, fmt.Errorf("imageio: radiance scanline %d: %w", y, err)
		}
		dst := y
		if yAxis == "+Y" {
			dst = height - 1 - y
		}
		row := img.Row(dst)
		for x := range row {
			row[x] = rgbeToFloat(scan[4*x : 4*x+4])
		}
	}
	return img, nil
}

func readScanline(br *bufio.Reader, scan []byte, width int) error {
	if width < minRLEWidth || width > maxRLEWidth {
		return readFlat(br, scan, 0)
	}

	var head [4]byte
	if _, err := io.ReadFull(br, head[:]); err != nil {
		return err
	}
	if head[0] != 2 || head[1] != 2 || head[2]&0x80 != 0 {
		copy(scan, head[:])
		return readFlat(br, scan, 1)
	}
	if int(head[2])<<8|int(head[3]) != width {
		return errors.New("scanline width mismatch")
	}

	// adaptive RLE stores each channel separately
	for ch := 0; ch < 4; ch++ {
		for x := 0; x < width; {
			count, err := br.ReadByte()
			if err != nil {
				return err
			}
			if count > maxLiteralRun {
				n := int(count) - maxLiteralRun
				if x+n > width {
					return errors.New("run overflows scanline")
				}
				v, err := br.ReadByte()
				if err != nil {
					return err
				}
				for ; n > 0; n-- {
					scan[4*x+ch] = v
					x++
				}
				continue
			}
			n := int(count)
			if n == 0 || x+n > width {
				return errors.New("bad literal run")
			}
			for ; n > 0; n-- {
				v, err := br.ReadByte()
				if err != nil {
					return err
				}
				scan[4*x+ch] = v
				x++
			}
		}
	}
	return nil
}

// readFlat reads uncompressed pixels starting at pixel index from, expanding
// old-style (1,1,1,n) repeat markers.
func readFlat(br *bufio.Reader, scan []byte, from int) error {
	width := len(scan) / 4
	shift := 0
	for x := from; x < width; {
		px := scan[4*x : 4*x+4]
		if _, err := io.ReadFull(br, px); err != nil {
			return err
		}
		if px[0] == 1 && px[1] == 1 && px[2] == 1 {
			if x == 0 {
				return errors.New("repeat marker at scanline start")
			}
			n := int(px[3]) << shift
			if x+n > width {
				return errors.New("repeat overflows scanline")
			}
			prev := scan[4*(x-1) : 4*x]
			for ; n > 0; n-- {
				copy(scan[4*x:4*x+4], prev)
				x++
			}
			shift += 8
			continue
		}
		shift = 0
		x++
	}
	return nil
}

func rgbeToFloat(p []byte) mgl32.Vec3 {
	if p[3] == 0 {
		return mgl32.Vec3{}
	}
	f := float32(math.Ldexp(1, int(p[3])-(128+8)))
	return mgl32.Vec3{float32(p[0]) * f, float32(p[1]) * f, float32(p[2]) * f}
}

func floatToRGBE(c mgl32.Vec3, p []byte) {
	v := max(c[0], c[1], c[2])
	if v < 1e-32 {
		p[0], p[1], p[2], p[3] = 0, 0, 0, 0
		return
	}
	m, e := math.Frexp(float64(v))
	if e > maxRGBEExponent || math.IsInf(float64(v), 1) {
		// saturate at the largest encodable value, keeping the hue
		for i := 0; i < 3; i++ {
			if math.IsInf(float64(c[i]), 1) {
				p[i] = 255
			} else {
				p[i] = uint8(255 * core.Clamp01(c[i]/v))
			}
		}
		p[3] = maxRGBEExponent + 128
		return
	}
	scale := float32(m * 256 / float64(v))
	p[0] = uint8(max(c[0], 0) * scale)
	p[1] = uint8(max(c[1], 0) * scale)
	p[2] = uint8(max(c[2], 0) * scale)
	p[3] = uint8(e + 128)
}

// EncodeRadiance writes img as a run length encoded Radiance file, top row
// first. Widths the adaptive encoding cannot express are written flat.
func EncodeRadiance(w io.Writer, img *core.HDRImage) error {
	bw := bufio.NewWriter(w)
	fmt.Fprintf(bw, "#?RADIANCE\nFORMAT=%s\n\n-Y %d +X %d\n", rgbeFormat, img.Height, img.Width)

	scan := make([]byte, 4*img.Width)
	channel := make([]byte, img.Width)
	rle := img.Width >= minRLEWidth && img.Width <= maxRLEWidth
	for y := 0; y < img.Height; y++ {
		for x, c := range img.Row(y) {
			floatToRGBE(c, scan[4*x:4*x+4])
		}
		if !rle {
			if _, err := bw.Write(scan); err != nil {
				return err
			}
			continue
		}
		bw.Write([]byte{2, 2, byte(img.Width >> 8), byte(img.Width)})
		for ch := 0; ch < 4; ch++ {
			for x := range channel {
				channel[x] = scan[4*x+ch]
			}
			writeRLE(bw, channel)
		}
	}
	return bw.Flush()
}

func writeRLE(bw *bufio.Writer, data []byte) {
	cur := 0
	for cur < len(data) {
		begRun := cur
		runCount, oldRunCount := 0, 0
		for runCount < minRunLength && begRun < len(data) {
			begRun += runCount
			oldRunCount = runCount
			runCount = 1
			for begRun+runCount < len(data) && runCount < maxRunLength && data[begRun] == data[begRun+runCount] {
				runCount++
			}
		}

		// a short run directly before the long one
		if oldRunCount > 1 && oldRunCount == begRun-cur {
			bw.WriteByte(byte(maxLiteralRun + oldRunCount))
			bw.WriteByte(data[cur])
			cur = begRun
		}
		for cur < begRun {
			n := min(begRun-cur, maxLiteralRun)
			bw.WriteByte(byte(n))
			bw.Write(data[cur : cur+n])
			cur += n
		}
		if runCount >= minRunLength {
			bw.WriteByte(byte(maxLiteralRun + runCount))
			bw.WriteByte(data[begRun])
			cur += runCount
		}
	}
}
