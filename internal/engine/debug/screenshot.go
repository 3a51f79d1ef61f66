// Package debug provides frame capture for inspecting rendered output.
package debug

import (
	"fmt"
	"image"
	"image/png"
	"io"
	"os"
	"path/filepath"
	"time"

	"golang.org/x/image/bmp"

	"github.com/Faultbox/virtual-vista/internal/engine/gpu"
)

// Format is a screenshot file format.
type Format string

const (
	FormatPNG Format = "png"
	FormatBMP Format = "bmp"
)

// ScreenshotCapture writes framebuffer contents to image files.
type ScreenshotCapture struct {
	outputDir string
	prefix    string
	format    Format
	seq       int
}

// NewScreenshotCapture creates a capture handler writing prefix_<timestamp>_<n>.<format>
// files into outputDir. An empty outputDir writes to the working directory.
func NewScreenshotCapture(outputDir, prefix string, format Format) (*ScreenshotCapture, error) {
	switch format {
	case FormatPNG, FormatBMP:
	default:
		return nil, fmt.Errorf("unknown screenshot format %q", format)
	}
	return &ScreenshotCapture{
		outputDir: outputDir,
		prefix:    prefix,
		format:    format,
	}, nil
}

// CaptureFrame reads the current framebuffer from dev and saves it.
func (sc *ScreenshotCapture) CaptureFrame(dev gpu.Device, width, height int) (string, error) {
	if width <= 0 || height <= 0 {
		return "", fmt.Errorf("invalid framebuffer size %dx%d", width, height)
	}
	pixels := make([]byte, width*height*4)
	dev.ReadPixels(width, height, pixels)
	return sc.CaptureFromPixels(pixels, width, height)
}

// CaptureFromPixels saves raw RGBA pixel data (width*height*4 bytes).
// The image is flipped vertically since OpenGL has origin at bottom-left,
// and alpha is forced opaque.
func (sc *ScreenshotCapture) CaptureFromPixels(pixels []byte, width, height int) (string, error) {
	if len(pixels) != width*height*4 {
		return "", fmt.Errorf("pixel data size mismatch: expected %d, got %d", width*height*4, len(pixels))
	}

	img := image.NewRGBA(image.Rect(0, 0, width, height))

	rowSize := width * 4
	for y := 0; y < height; y++ {
		srcOffset := (height - 1 - y) * rowSize
		dstOffset := y * img.Stride

		row := img.Pix[dstOffset : dstOffset+rowSize]
		copy(row, pixels[srcOffset:srcOffset+rowSize])
		for a := 3; a < rowSize; a += 4 {
			row[a] = 0xff
		}
	}

	return sc.CaptureFromImage(img)
}

// CaptureFromImage saves img in the configured format.
func (sc *ScreenshotCapture) CaptureFromImage(img image.Image) (string, error) {
	if sc.outputDir != "" {
		if err := os.MkdirAll(sc.outputDir, 0755); err != nil {
			return "", fmt.Errorf("creating output dir: %w", err)
		}
	}

	filename := sc.GenerateFilename()
	file, err := os.Create(filename)
	if err != nil {
		return "", fmt.Errorf("creating file: %w", err)
	}
	defer file.Close()

	if err := sc.encode(file, img); err != nil {
		return "", fmt.Errorf("encoding %s: %w", sc.format, err)
	}
	sc.seq++

	return filename, nil
}

func (sc *ScreenshotCapture) encode(w io.Writer, img image.Image) error {
	if sc.format == FormatBMP {
		return bmp.Encode(w, img)
	}
	return png.Encode(w, img)
}

// GenerateFilename returns the name the next capture will be written to.
func (sc *ScreenshotCapture) GenerateFilename() string {
	timestamp := time.Now().Format("2006-01-02_15-04-05")
	filename := fmt.Sprintf("%s_%s_%03d.%s", sc.prefix, timestamp, sc.seq, sc.format)
	if sc.outputDir != "" {
		filename = filepath.Join(sc.outputDir, filename)
	}
	return filename
}
