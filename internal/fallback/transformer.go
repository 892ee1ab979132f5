// Package fallback applies a deterministic, local pixel-filter approximation
// of a style when no provider result can be obtained.
package fallback

import (
	"bytes"
	"image"
	"image/color"
	"math"
	"strings"

	"github.com/disintegration/imaging"

	"stylerelay/internal/domain"
)

// FilterParams is one fixed adjustment set. Saturation, Contrast, and
// Brightness are percentage deltas; Sepia is a 0..1 blend toward a sepia
// palette; HueDeg rotates hues in degrees; BlurSigma is a gaussian radius.
type FilterParams struct {
	Saturation float64
	Contrast   float64
	Brightness float64
	HueDeg     float64
	Sepia      float64
	BlurSigma  float64
}

type filterRule struct {
	keywords []string
	params   FilterParams
}

// filterRules is keyed by substring match on the category (or raw style)
// text, first match wins. The final generic entry is applied when nothing
// matches.
var filterRules = []filterRule{
	{[]string{"ghibli", "anime"}, FilterParams{Saturation: 30, Contrast: 10, Brightness: 5, HueDeg: 5}},
	{[]string{"vintage", "retro"}, FilterParams{Sepia: 0.6, Contrast: 10, Brightness: -10, Saturation: -20}},
	{[]string{"oil", "painting"}, FilterParams{Saturation: 40, Contrast: 20, Brightness: 10}},
	{[]string{"watercolor"}, FilterParams{Saturation: 20, Contrast: -10, Brightness: 10, BlurSigma: 0.5}},
}

var genericParams = FilterParams{Saturation: 20, Contrast: 10, Brightness: 5}

// ParamsFor selects the filter parameter set for a category name.
func ParamsFor(category string) FilterParams {
	lower := strings.ToLower(category)
	for _, r := range filterRules {
		for _, kw := range r.keywords {
			if strings.Contains(lower, kw) {
				return r.params
			}
		}
	}
	return genericParams
}

// Transform decodes src, applies the category's filter set, and re-encodes as
// PNG. It is synchronous, touches no network, and is deterministic: the same
// input and category always produce identical bytes.
func Transform(src []byte, category string) ([]byte, error) {
	img, err := imaging.Decode(bytes.NewReader(src))
	if err != nil {
		return nil, domain.NewError(domain.KindImageDecode, "could not decode input image").
			WithDetail(err.Error())
	}
	filtered := Apply(img, ParamsFor(category))

	var buf bytes.Buffer
	if err := imaging.Encode(&buf, filtered, imaging.PNG); err != nil {
		return nil, domain.NewError(domain.KindInternal, "could not encode filtered image").
			WithDetail(err.Error())
	}
	return buf.Bytes(), nil
}

// Apply runs one filter pass over img.
func Apply(img image.Image, p FilterParams) *image.NRGBA {
	out := imaging.Clone(img)
	if p.Sepia != 0 {
		out = imaging.AdjustFunc(out, sepia(p.Sepia))
	}
	if p.HueDeg != 0 {
		out = imaging.AdjustFunc(out, hueRotate(p.HueDeg))
	}
	if p.Saturation != 0 {
		out = imaging.AdjustSaturation(out, p.Saturation)
	}
	if p.Contrast != 0 {
		out = imaging.AdjustContrast(out, p.Contrast)
	}
	if p.Brightness != 0 {
		out = imaging.AdjustBrightness(out, p.Brightness)
	}
	if p.BlurSigma > 0 {
		out = imaging.Blur(out, p.BlurSigma)
	}
	return out
}

// sepia blends each pixel toward the classic sepia palette by amount (0..1).
func sepia(amount float64) func(color.NRGBA) color.NRGBA {
	return func(c color.NRGBA) color.NRGBA {
		r, g, b := float64(c.R), float64(c.G), float64(c.B)
		sr := 0.393*r + 0.769*g + 0.189*b
		sg := 0.349*r + 0.686*g + 0.168*b
		sb := 0.272*r + 0.534*g + 0.131*b
		return color.NRGBA{
			R: clamp(r + (sr-r)*amount),
			G: clamp(g + (sg-g)*amount),
			B: clamp(b + (sb-b)*amount),
			A: c.A,
		}
	}
}

// hueRotate applies the standard luminance-preserving hue rotation matrix.
func hueRotate(deg float64) func(color.NRGBA) color.NRGBA {
	rad := deg * math.Pi / 180
	cos, sin := math.Cos(rad), math.Sin(rad)
	m := [9]float64{
		0.213 + cos*0.787 - sin*0.213, 0.715 - cos*0.715 - sin*0.715, 0.072 - cos*0.072 + sin*0.928,
		0.213 - cos*0.213 + sin*0.143, 0.715 + cos*0.285 + sin*0.140, 0.072 - cos*0.072 - sin*0.283,
		0.213 - cos*0.213 - sin*0.787, 0.715 - cos*0.715 + sin*0.715, 0.072 + cos*0.928 + sin*0.072,
	}
	return func(c color.NRGBA) color.NRGBA {
		r, g, b := float64(c.R), float64(c.G), float64(c.B)
		return color.NRGBA{
			R: clamp(m[0]*r + m[1]*g + m[2]*b),
			G: clamp(m[3]*r + m[4]*g + m[5]*b),
			B: clamp(m[6]*r + m[7]*g + m[8]*b),
			A: c.A,
		}
	}
}

func clamp(v float64) uint8 {
	if v < 0 {
		return 0
	}
	if v > 255 {
		return 255
	}
	return uint8(v + 0.5)
}
