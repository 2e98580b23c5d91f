package renderer

import (
	"image"
	"image/color"

	"github.com/df07/go-whitted-raytracer/pkg/core"
)

// PixelSink receives rendered pixel colors. Values are linear and unclamped.
// Implementations must accept concurrent writes to distinct pixels.
type PixelSink interface {
	SetPixel(col, row int, c core.Vec3)
}

// FrameBuffer is an in-memory PixelSink. Each pixel has its own slot, so
// writes to different pixels never touch shared memory and need no lock.
type FrameBuffer struct {
	width, height int
	pixels        []core.Vec3
}

// NewFrameBuffer creates a black frame buffer
func NewFrameBuffer(width, height int) *FrameBuffer {
	return &FrameBuffer{
		width:  width,
		height: height,
		pixels: make([]core.Vec3, width*height),
	}
}

// Width returns the buffer width in pixels
func (fb *FrameBuffer) Width() int { return fb.width }

// Height returns the buffer height in pixels
func (fb *FrameBuffer) Height() int { return fb.height }

// SetPixel stores a color. Row 0 is the top of the image.
func (fb *FrameBuffer) SetPixel(col, row int, c core.Vec3) {
	fb.pixels[row*fb.width+col] = c
}

// At returns the stored color of a pixel
func (fb *FrameBuffer) At(col, row int) core.Vec3 {
	return fb.pixels[row*fb.width+col]
}

// Image clamps, gamma corrects and quantizes the buffer to 8-bit RGBA.
// A gamma of 1 (or less) leaves values linear.
func (fb *FrameBuffer) Image(gamma float64) *image.RGBA {
	img := image.NewRGBA(image.Rect(0, 0, fb.width, fb.height))
	for row := 0; row < fb.height; row++ {
		for col := 0; col < fb.width; col++ {
			img.SetRGBA(col, row, vec3ToColor(fb.At(col, row), gamma))
		}
	}
	return img
}

// vec3ToColor converts a Vec3 color to RGBA with clamping and gamma correction
func vec3ToColor(colorVec core.Vec3, gamma float64) color.RGBA {
	colorVec = colorVec.Clamp(0.0, 1.0)
	if gamma > 1 {
		colorVec = colorVec.GammaCorrect(gamma)
	}

	return color.RGBA{
		R: uint8(255*colorVec.X + 0.5),
		G: uint8(255*colorVec.Y + 0.5),
		B: uint8(255*colorVec.Z + 0.5),
		A: 255,
	}
}

// CalculateAverageLuminance returns the mean luminance of an image in [0, 1]
func CalculateAverageLuminance(img *image.RGBA) float64 {
	bounds := img.Bounds()
	pixels := bounds.Dx() * bounds.Dy()
	if pixels == 0 {
		return 0
	}

	total := 0.0
	for y := bounds.Min.Y; y < bounds.Max.Y; y++ {
		for x := bounds.Min.X; x < bounds.Max.X; x++ {
			c := img.RGBAAt(x, y)
			total += core.NewColor(float64(c.R)/255, float64(c.G)/255, float64(c.B)/255).Luminance()
		}
	}
	return total / float64(pixels)
}
