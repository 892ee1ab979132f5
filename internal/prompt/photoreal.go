package prompt

import "strings"

// artisticIntent covers prompts where the user explicitly asked for a
// non-photographic rendering; those are passed through untouched.
var artisticIntent = []string{
	"painting", "artwork", "digital art", "illustration", "drawing", "sketch",
	"anime", "cartoon", "abstract", "impressionist", "oil painting", "watercolor",
	"artistic", "stylized", "fantasy art", "concept art",
}

var photorealismMarkers = []string{
	"photorealistic", "high resolution", "professional photography", "detailed",
	"realistic", "sharp focus", "natural lighting", "dslr camera",
	"8k resolution", "ultra detailed", "lifelike",
}

// EnhanceForPhotorealism appends photorealism qualifiers to a text-to-image
// prompt unless the user clearly wants an artistic style.
func EnhanceForPhotorealism(userPrompt string) string {
	lower := strings.ToLower(userPrompt)
	if matchesAny(lower, artisticIntent) {
		return userPrompt
	}
	if matchesAny(lower, photorealismMarkers) {
		return userPrompt + ", photorealistic, high resolution, detailed"
	}
	return userPrompt + ", photorealistic, professional photography, high resolution, detailed, realistic, sharp focus, natural lighting, DSLR camera quality, 8K resolution"
}
