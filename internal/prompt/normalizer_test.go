package prompt

import (
	"strings"
	"testing"
)

func TestNormalizeRejectsShortPrompts(t *testing.T) {
	for _, in := range []string{"", "  ", "ab", " a ", "\t x \n"} {
		got := Normalize(in)
		if got.Valid {
			t.Fatalf("Normalize(%q).Valid = true, want false", in)
		}
		if got.Instruction != "" {
			t.Fatalf("Normalize(%q) produced an instruction for an invalid prompt", in)
		}
	}
}

func TestNormalizeCategories(t *testing.T) {
	cases := []struct {
		in   string
		want Category
	}{
		{"convert to Ghibli anime style", CategoryAnime},
		{"something by Miyazaki please", CategoryAnime},
		{"make it look like a vintage photograph", CategoryVintage},
		{"apply sepia effect", CategoryVintage},
		{"make it black and white", CategoryMonochrome},
		{"grayscale please", CategoryMonochrome},
		{"transform into a watercolor painting", CategoryWatercolor},
		{"convert to oil painting style", CategoryOil},
		{"an impressionist rendering", CategoryArtistic},
		{"turn into comic book style", CategoryComic},
		{"make it action hero cinematic style", CategoryComic}, // "action hero" is a comic keyword
		{"epic movie poster look", CategoryCinematic},
		{"convert to cyberpunk style", CategoryCyberpunk},
		{"neon lighting everywhere", CategoryCyberpunk},
		{"make it more vibrant", CategoryGeneral},
	}
	for _, tc := range cases {
		got := Normalize(tc.in)
		if !got.Valid {
			t.Fatalf("Normalize(%q).Valid = false, want true", tc.in)
		}
		if got.Category != tc.want {
			t.Fatalf("Normalize(%q).Category = %q, want %q", tc.in, got.Category, tc.want)
		}
		if got.Instruction == "" {
			t.Fatalf("Normalize(%q) produced an empty instruction", tc.in)
		}
	}
}

func TestNormalizePriorityOrder(t *testing.T) {
	// "anime" must win even when lower-priority artistic keywords are present.
	got := Normalize("an artistic anime painting sketch")
	if got.Category != CategoryAnime {
		t.Fatalf("category = %q, want %q", got.Category, CategoryAnime)
	}

	// "oil painting" must be matched before plain "painting".
	got = Normalize("a lovely oil painting")
	if got.Category != CategoryOil {
		t.Fatalf("category = %q, want %q", got.Category, CategoryOil)
	}
}

func TestNormalizeIsCaseInsensitive(t *testing.T) {
	for _, in := range []string{"GHIBLI style", "Anime Style", "gHiBlI"} {
		if got := Normalize(in); got.Category != CategoryAnime {
			t.Fatalf("Normalize(%q).Category = %q, want %q", in, got.Category, CategoryAnime)
		}
	}
}

func TestNormalizeAnimeInstructionMentionsGhibli(t *testing.T) {
	got := Normalize("convert to Ghibli anime style")
	if !strings.Contains(got.Instruction, "Ghibli") {
		t.Fatalf("anime instruction does not mention Ghibli: %q", got.Instruction)
	}
	if !strings.Contains(got.Instruction, "original composition") {
		t.Fatalf("anime instruction does not direct composition preservation: %q", got.Instruction)
	}
}

func TestNormalizeEmbedsRawTextForOpenEndedPrompts(t *testing.T) {
	raw := "give it a dreamy pastel glow"
	got := Normalize(raw)
	if got.Category != CategoryGeneral {
		t.Fatalf("category = %q, want %q", got.Category, CategoryGeneral)
	}
	if !strings.Contains(got.Instruction, raw) {
		t.Fatalf("general instruction does not embed the raw prompt: %q", got.Instruction)
	}

	raw = "an abstract composition of circles"
	got = Normalize(raw)
	if got.Category != CategoryArtistic {
		t.Fatalf("category = %q, want %q", got.Category, CategoryArtistic)
	}
	if !strings.Contains(got.Instruction, raw) {
		t.Fatalf("artistic instruction does not embed the raw prompt: %q", got.Instruction)
	}
}

func TestNormalizeIsDeterministic(t *testing.T) {
	first := Normalize("convert to cyberpunk style")
	second := Normalize("convert to cyberpunk style")
	if first != second {
		t.Fatalf("Normalize is not deterministic: %#v vs %#v", first, second)
	}
}
