// Package prompt turns free-text user intent into a canonical style category
// and a provider-oriented instruction.
package prompt

import "strings"

// Category is the canonical style classification derived from user intent.
type Category string

const (
	CategoryAnime      Category = "anime"
	CategoryVintage    Category = "vintage"
	CategoryMonochrome Category = "monochrome"
	CategoryWatercolor Category = "watercolor"
	CategoryOil        Category = "oil"
	CategoryArtistic   Category = "artistic"
	CategoryComic      Category = "comic"
	CategoryCinematic  Category = "cinematic"
	CategoryCyberpunk  Category = "cyberpunk"
	CategoryGeneral    Category = "general"
)

// Normalized is the validated, enhanced form of a user prompt.
type Normalized struct {
	Category    Category
	Instruction string
	Valid       bool
}

// minPromptLength is the smallest trimmed prompt we accept.
const minPromptLength = 3

type rule struct {
	category Category
	keywords []string
	// template is the fixed instruction for the category. When embedRaw is set
	// the trimmed user text is spliced into the template instead.
	template string
	embedRaw bool
}

// rules is scanned in order; the first match wins. The order matters: "anime"
// must beat the generic artistic keywords, and "oil painting" must be checked
// before plain "painting".
var rules = []rule{
	{
		category: CategoryAnime,
		keywords: []string{"ghibli", "anime", "studio ghibli", "spirited away", "totoro", "miyazaki"},
		template: "Convert this image to Studio Ghibli anime style with soft pastels, dreamy atmosphere, hand-drawn animation aesthetic, warm lighting, gentle watercolor-like textures, and whimsical details. Maintain the original composition while applying the distinctive Ghibli art style.",
	},
	{
		category: CategoryVintage,
		keywords: []string{"vintage", "retro", "old film", "film look", "nostalgic", "classic", "sepia", "antique"},
		template: "Transform this image into a vintage photograph with classic retro film aesthetic, warm sepia tones, aged paper texture, nostalgic atmosphere, subtle film grain, and the characteristic look of old photographs from the 1970s-80s.",
	},
	{
		category: CategoryMonochrome,
		keywords: []string{"black and white", "monochrome", "grayscale", "b&w", "greyscale"},
		template: "Convert this image to dramatic black and white with high contrast, professional monochrome photography aesthetic, rich shadows and highlights, and classic black and white film look.",
	},
	{
		category: CategoryWatercolor,
		keywords: []string{"watercolor"},
		template: "Transform this image into a watercolor painting with soft flowing colors, artistic brushstrokes, paper texture, delicate color bleeding effects, and the characteristic look of professional watercolor artwork.",
	},
	{
		category: CategoryOil,
		keywords: []string{"oil painting", "oil paint"},
		template: "Convert this image to an oil painting with rich textures, visible brushstrokes, thick paint application, vibrant colors, and the classic look of traditional oil painting artwork.",
	},
	{
		category: CategoryArtistic,
		keywords: []string{"painting", "sketch", "drawing", "artistic", "impressionist", "abstract"},
		template: "Transform this image into artistic style: %s. High quality artistic rendering, detailed brushwork, professional art style with rich textures and artistic details.",
		embedRaw: true,
	},
	{
		category: CategoryComic,
		keywords: []string{"comic", "cartoon", "superhero", "action hero", "marvel", "dc comics"},
		template: "Transform this image into comic book style with bold colors, dramatic lighting, clean illustration lines, vibrant comic book aesthetic, and professional graphic novel appearance.",
	},
	{
		category: CategoryCinematic,
		keywords: []string{"action", "hero", "cinematic", "movie", "epic"},
		template: "Transform this image into action hero cinematic style with dramatic lighting, bold colors, movie poster aesthetic, high contrast, and epic film-like atmosphere.",
	},
	{
		category: CategoryCyberpunk,
		keywords: []string{"cyberpunk", "futuristic", "neon", "sci-fi", "blade runner"},
		template: "Convert this image to cyberpunk style with neon lighting, futuristic aesthetic, high-tech atmosphere, electric blue and purple colors, and sci-fi movie lighting effects.",
	},
}

const generalTemplate = "Apply the following transformation to this image: %s. Maintain high quality and professional results while preserving the original composition."

// Normalize validates and enhances a free-text transformation prompt. It is a
// pure function: no side effects, deterministic for a given input.
func Normalize(userPrompt string) Normalized {
	trimmed := strings.TrimSpace(userPrompt)
	if len(trimmed) < minPromptLength {
		return Normalized{}
	}

	lower := strings.ToLower(trimmed)
	for _, r := range rules {
		if !matchesAny(lower, r.keywords) {
			continue
		}
		instruction := r.template
		if r.embedRaw {
			instruction = strings.Replace(r.template, "%s", trimmed, 1)
		}
		return Normalized{Category: r.category, Instruction: instruction, Valid: true}
	}

	return Normalized{
		Category:    CategoryGeneral,
		Instruction: strings.Replace(generalTemplate, "%s", trimmed, 1),
		Valid:       true,
	}
}

func matchesAny(lower string, keywords []string) bool {
	for _, kw := range keywords {
		if strings.Contains(lower, kw) {
			return true
		}
	}
	return false
}
