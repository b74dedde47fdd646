package captcha

import (
	"bytes"
	"fmt"
	"math/rand"

	"github.com/fogleman/gg"
	"github.com/golang/freetype/truetype"
	"golang.org/x/image/font"
	"golang.org/x/image/font/basicfont"
	"golang.org/x/image/font/gofont/goregular"
)

// Default canvas size for rendered challenges.
const (
	DefaultWidth  = 120
	DefaultHeight = 50
)

const (
	noiseDots        = 50
	obfuscationLines = 3
)

// Render draws the code onto a width x height canvas and returns it as PNG
// bytes. Layout is deterministic (centered text, shadow offset, line count);
// noise positions and colors are randomized per call. Render performs no I/O.
func Render(code string, width, height int) ([]byte, error) {
	if width <= 0 || height <= 0 {
		return nil, fmt.Errorf("captcha: invalid dimensions %dx%d", width, height)
	}

	dc := gg.NewContext(width, height)
	dc.SetRGB255(255, 255, 255)
	dc.Clear()

	// Scattered single-pixel noise. Channels stay in a mid band so the dots
	// cannot be stripped with a simple threshold filter.
	for i := 0; i < noiseDots; i++ {
		dc.SetRGB255(mutedChannel(), mutedChannel(), mutedChannel())
		dc.SetPixel(rand.Intn(width), rand.Intn(height))
	}

	dc.SetFontFace(textFace(height))
	cx := float64(width) / 2
	cy := float64(height) / 2

	// Shadow one pixel down-right, then the foreground on top.
	dc.SetRGB255(128, 128, 128)
	dc.DrawStringAnchored(code, cx+1, cy+1, 0.5, 0.5)
	dc.SetRGB255(16, 16, 16)
	dc.DrawStringAnchored(code, cx, cy, 0.5, 0.5)

	// Line segments crossing from the left half into the right half so each
	// one passes through the text region.
	dc.SetLineWidth(1)
	for i := 0; i < obfuscationLines; i++ {
		dc.SetRGB255(mutedChannel(), mutedChannel(), mutedChannel())
		x1 := rand.Intn((width + 1) / 2)
		y1 := rand.Intn(height)
		x2 := width/2 + rand.Intn(width-width/2)
		y2 := rand.Intn(height)
		dc.DrawLine(float64(x1), float64(y1), float64(x2), float64(y2))
		dc.Stroke()
	}

	buf := new(bytes.Buffer)
	if err := dc.EncodePNG(buf); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// mutedChannel samples one RGB channel from the 64-192 band.
func mutedChannel() int {
	return 64 + rand.Intn(129)
}

// textFace returns the face used for the challenge text, sized relative to
// the canvas height. Font choice is a policy, not a contract: if the bundled
// Go Regular face cannot be parsed we fall back to the basic bitmap font.
func textFace(height int) font.Face {
	f, err := truetype.Parse(goregular.TTF)
	if err != nil {
		return basicfont.Face7x13
	}
	return truetype.NewFace(f, &truetype.Options{
		Size: float64(height) * 0.6,
	})
}
