// Package scanner prepares captured card photographs for submission to the
// recognition service.
package scanner

import (
	"bytes"
	"fmt"
	"image"
	_ "image/gif"  // registered for image.Decode
	"image/jpeg"
	_ "image/png" // registered for image.Decode
	"os"

	"golang.org/x/image/draw"

	"cardlens/internal/common"
)

// Profile bounds the output image: longest edge in pixels and JPEG quality.
type Profile struct {
	MaxEdge int
	Quality int
}

// Preprocessing profiles. HighQuality matches the capture settings the scanner
// uses by default; FastScan trades fidelity for a smaller upload.
var (
	HighQuality = Profile{MaxEdge: 1024, Quality: 80}
	FastScan    = Profile{MaxEdge: 768, Quality: 60}
)

// Preprocessor normalizes raw images into bounded JPEG payloads.
type Preprocessor struct {
	profile Profile
}

// NewPreprocessor creates a preprocessor with the given profile.
func NewPreprocessor(profile Profile) *Preprocessor {
	if profile.MaxEdge <= 0 {
		profile.MaxEdge = HighQuality.MaxEdge
	}
	if profile.Quality <= 0 || profile.Quality > 100 {
		profile.Quality = HighQuality.Quality
	}
	return &Preprocessor{profile: profile}
}

// Process decodes a raw image, scales it down so its longest edge does not
// exceed the profile bound, and re-encodes it as JPEG. Images already within
// bounds are re-encoded without scaling.
func (p *Preprocessor) Process(data []byte) ([]byte, error) {
	src, format, err := image.Decode(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("%w: decode %s: %v", common.ErrImageProcessing, format, err)
	}

	bounds := src.Bounds()
	width, height := bounds.Dx(), bounds.Dy()
	if width <= 0 || height <= 0 {
		return nil, fmt.Errorf("%w: empty image", common.ErrImageProcessing)
	}

	scaled := src
	if longest := max(width, height); longest > p.profile.MaxEdge {
		scale := float64(p.profile.MaxEdge) / float64(longest)
		dst := image.NewRGBA(image.Rect(0, 0,
			int(float64(width)*scale+0.5),
			int(float64(height)*scale+0.5)))
		draw.CatmullRom.Scale(dst, dst.Bounds(), src, bounds, draw.Over, nil)
		scaled = dst
	}

	var buf bytes.Buffer
	if err := jpeg.Encode(&buf, scaled, &jpeg.Options{Quality: p.profile.Quality}); err != nil {
		return nil, fmt.Errorf("%w: encode: %v", common.ErrImageProcessing, err)
	}

	return buf.Bytes(), nil
}

// ProcessFile reads an image from disk and processes it.
func (p *Preprocessor) ProcessFile(path string) ([]byte, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("%w: read %s: %v", common.ErrImageProcessing, path, err)
	}
	return p.Process(data)
}
