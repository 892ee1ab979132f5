// Package styleasset maps a prompt to a reference style image for providers
// that need a content+style pair.
package styleasset

import "strings"

const (
	ghibliURL     = "https://raw.githubusercontent.com/pytorch/examples/main/fast_neural_style/images/style-images/mosaic.jpg"
	vintageURL    = "https://raw.githubusercontent.com/pytorch/examples/main/fast_neural_style/images/style-images/starry_night.jpg"
	watercolorURL = "https://raw.githubusercontent.com/pytorch/examples/main/fast_neural_style/images/style-images/wave.jpg"
	oilURL        = "https://raw.githubusercontent.com/pytorch/examples/main/fast_neural_style/images/style-images/starry_night.jpg"
	cyberpunkURL  = "https://raw.githubusercontent.com/pytorch/examples/main/fast_neural_style/images/style-images/mosaic.jpg"
	comicURL      = "https://raw.githubusercontent.com/pytorch/examples/main/fast_neural_style/images/style-images/candy.jpg"
	actionURL     = "https://raw.githubusercontent.com/pytorch/examples/main/fast_neural_style/images/style-images/udnie.jpg"
	bwURL         = "https://raw.githubusercontent.com/pytorch/examples/main/fast_neural_style/images/style-images/starry_night.jpg"
	defaultURL    = "https://raw.githubusercontent.com/pytorch/examples/main/fast_neural_style/images/style-images/starry_night.jpg"
)

type family struct {
	keywords []string
	url      string
}

// families is a coarser scan than the prompt normalizer on purpose: the style
// reference only has to be in the right neighborhood, the textual instruction
// does the fine-grained steering.
var families = []family{
	{[]string{"ghibli", "anime"}, ghibliURL},
	{[]string{"vintage", "old"}, vintageURL},
	{[]string{"watercolor"}, watercolorURL},
	{[]string{"oil"}, oilURL},
	{[]string{"cyberpunk"}, cyberpunkURL},
	{[]string{"comic"}, comicURL},
	{[]string{"action"}, actionURL},
	{[]string{"black", "white"}, bwURL},
}

// Resolve returns the reference style image URL for a prompt. Unknown prompts
// get the default asset.
func Resolve(promptText string) string {
	lower := strings.ToLower(promptText)
	for _, f := range families {
		for _, kw := range f.keywords {
			if strings.Contains(lower, kw) {
				return f.url
			}
		}
	}
	return defaultURL
}
