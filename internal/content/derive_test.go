package content

import (
	"strings"
	"testing"
	"unicode/utf8"

	"github.com/leanovate/gopter"
	"github.com/leanovate/gopter/gen"
	"github.com/leanovate/gopter/prop"
)

func TestSlugify(t *testing.T) {
	tests := []struct {
		name   string
		input  string
		maxLen int
		want   string
	}{
		{"punctuation and underscore stripped", "Hello, World! Foo_Bar", 80, "hello-world-foobar"},
		{"whitespace runs collapse", "Dental   Implants \t Abroad", 80, "dental-implants-abroad"},
		{"hyphens kept", "all-on-4 implants", 80, "all-on-4-implants"},
		{"truncated to max length", "dental implants abroad", 10, "dental-imp"},
		{"no limit when maxLen is zero", strings.Repeat("a", 200), 0, strings.Repeat("a", 200)},
		{"empty input", "", 80, ""},
		{"only stripped characters", "!!!???", 80, ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Slugify(tt.input, tt.maxLen); got != tt.want {
				t.Errorf("Slugify(%q, %d) = %q, want %q", tt.input, tt.maxLen, got, tt.want)
			}
		})
	}
}

func TestExcerpt(t *testing.T) {
	t.Run("strips heading and bold markers", func(t *testing.T) {
		got := Excerpt("## Dental Implants\n\nThis is **important** info.")
		want := "Dental Implants This is important info...."
		if got != want {
			t.Errorf("Excerpt() = %q, want %q", got, want)
		}
	})

	t.Run("long bodies truncate to 160 characters plus ellipsis", func(t *testing.T) {
		body := strings.Repeat("abcde ", 100)
		got := Excerpt(body)
		if len(got) != ExcerptLength+3 {
			t.Errorf("Excerpt() length = %d, want %d", len(got), ExcerptLength+3)
		}
		if !strings.HasSuffix(got, "...") {
			t.Errorf("Excerpt() = %q, want ellipsis suffix", got)
		}
	})

	t.Run("multi-byte runes are not split at the boundary", func(t *testing.T) {
		body := strings.Repeat("a", ExcerptLength-1) + "é and more text after the cut"
		got := Excerpt(body)
		if !utf8.ValidString(got) {
			t.Errorf("Excerpt() = %q, not valid UTF-8", got)
		}
		if n := utf8.RuneCountInString(got); n != ExcerptLength+3 {
			t.Errorf("Excerpt() rune count = %d, want %d", n, ExcerptLength+3)
		}
		if !strings.HasSuffix(got, "é...") {
			t.Errorf("Excerpt() = %q, want the accented rune kept before the ellipsis", got)
		}
	})

	t.Run("short bodies keep full text", func(t *testing.T) {
		got := Excerpt("Short body.")
		if got != "Short body...." {
			t.Errorf("Excerpt() = %q", got)
		}
	})
}

func TestReadingTime(t *testing.T) {
	tests := []struct {
		words int
		want  int
	}{
		{400, 2},
		{201, 2},
		{200, 1},
		{1, 1},
		{0, 0},
	}

	for _, tt := range tests {
		body := strings.TrimSpace(strings.Repeat("word ", tt.words))
		if got := ReadingTime(body); got != tt.want {
			t.Errorf("ReadingTime(%d words) = %d, want %d", tt.words, got, tt.want)
		}
	}
}

func TestProperty_SlugifyOutputAlphabet(t *testing.T) {
	parameters := gopter.DefaultTestParameters()
	parameters.MinSuccessfulTests = 50
	properties := gopter.NewProperties(parameters)

	properties.Property("slug_contains_only_lowercase_digits_and_hyphens", prop.ForAll(
		func(input string) bool {
			slug := Slugify(input, 100)
			for _, r := range slug {
				if !(r >= 'a' && r <= 'z') && !(r >= '0' && r <= '9') && r != '-' {
					return false
				}
			}
			return len(slug) <= 100
		},
		gen.AnyString(),
	))

	properties.Property("slugify_is_idempotent", prop.ForAll(
		func(input string) bool {
			once := Slugify(input, 100)
			return Slugify(once, 100) == once
		},
		gen.AnyString(),
	))

	properties.TestingRun(t)
}

func TestProperty_ExcerptValidUTF8(t *testing.T) {
	parameters := gopter.DefaultTestParameters()
	parameters.MinSuccessfulTests = 50
	properties := gopter.NewProperties(parameters)

	properties.Property("excerpt_is_valid_utf8_and_bounded", prop.ForAll(
		func(input string) bool {
			got := Excerpt(input)
			return utf8.ValidString(got) && utf8.RuneCountInString(got) <= ExcerptLength+3
		},
		gen.AnyString(),
	))

	properties.TestingRun(t)
}

func TestProperty_ReadingTimeCeiling(t *testing.T) {
	parameters := gopter.DefaultTestParameters()
	parameters.MinSuccessfulTests = 30
	properties := gopter.NewProperties(parameters)

	properties.Property("reading_time_equals_ceiling_of_word_count", prop.ForAll(
		func(words int) bool {
			body := strings.TrimSpace(strings.Repeat("word ", words))
			want := (words + WordsPerMinute - 1) / WordsPerMinute
			return ReadingTime(body) == want
		},
		gen.IntRange(0, 3000),
	))

	properties.TestingRun(t)
}
