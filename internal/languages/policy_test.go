package languages

import (
	"errors"
	"slices"
	"testing"

	goerrors "github.com/goliatone/go-errors"

	"github.com/goliatone/go-translatable/internal/domain"
)

func scenarioSettings() Settings {
	return Settings{
		Default: "en",
		Languages: []Language{
			{Code: "en", Title: "English"},
			{Code: "fr", Fallback: "en", Title: "Français"},
			{Code: "de", Fallback: "en"},
			{Code: "pt_br", Fallback: "pt_br"},
		},
	}
}

func TestPolicyNormalize(t *testing.T) {
	policy, err := NewPolicy(scenarioSettings())
	if err != nil {
		t.Fatalf("NewPolicy returned error: %v", err)
	}

	cases := map[string]string{
		"en":    "en",
		" FR ":  "fr",
		"pt_BR": "pt-BR",
		"PT-br": "pt-BR",
		"de":    "de",
	}
	for input, want := range cases {
		got, err := policy.Normalize(input)
		if err != nil {
			t.Fatalf("Normalize(%q) returned error: %v", input, err)
		}
		if got != want {
			t.Fatalf("Normalize(%q) = %q, want %q", input, got, want)
		}
	}
}

func TestPolicyNormalizeUnknownLanguage(t *testing.T) {
	policy, err := NewPolicy(scenarioSettings())
	if err != nil {
		t.Fatalf("NewPolicy returned error: %v", err)
	}

	for _, input := range []string{"es", "", "   "} {
		_, err := policy.Normalize(input)
		if !errors.Is(err, domain.ErrUnknownLanguage) {
			t.Fatalf("Normalize(%q): expected ErrUnknownLanguage, got %v", input, err)
		}
		if !errors.Is(err, domain.ErrConfiguration) {
			t.Fatalf("Normalize(%q): expected ErrConfiguration in chain, got %v", input, err)
		}
		if !goerrors.IsCategory(err, goerrors.CategoryValidation) {
			t.Fatalf("Normalize(%q): expected validation category, got %v", input, err)
		}
	}
}

func TestPolicyFallbackOf(t *testing.T) {
	policy, err := NewPolicy(scenarioSettings())
	if err != nil {
		t.Fatalf("NewPolicy returned error: %v", err)
	}

	if fallback, ok := policy.FallbackOf("fr"); !ok || fallback != "en" {
		t.Fatalf("FallbackOf(fr) = %q, %v", fallback, ok)
	}
	if fallback, ok := policy.FallbackOf("DE"); !ok || fallback != "en" {
		t.Fatalf("FallbackOf(DE) = %q, %v", fallback, ok)
	}
	if _, ok := policy.FallbackOf("en"); ok {
		t.Fatal("expected no fallback for en")
	}
	if _, ok := policy.FallbackOf("pt-BR"); ok {
		t.Fatal("expected self fallback to be reported as absent")
	}
	if _, ok := policy.FallbackOf("es"); ok {
		t.Fatal("expected unknown language to have no fallback")
	}
}

func TestPolicyAccessors(t *testing.T) {
	policy, err := NewPolicy(scenarioSettings())
	if err != nil {
		t.Fatalf("NewPolicy returned error: %v", err)
	}

	if policy.Default() != "en" {
		t.Fatalf("expected default en, got %q", policy.Default())
	}
	want := []string{"de", "en", "fr", "pt-BR"}
	if got := policy.Codes(); !slices.Equal(got, want) {
		t.Fatalf("Codes() = %v, want %v", got, want)
	}
	if !policy.Has("pt_br") || policy.Has("es") {
		t.Fatal("unexpected Has results")
	}
	if policy.Title("fr") != "Français" || policy.Title("de") != "de" {
		t.Fatalf("unexpected titles %q %q", policy.Title("fr"), policy.Title("de"))
	}

	codes := policy.Codes()
	codes[0] = "zz"
	if policy.Codes()[0] != "de" {
		t.Fatal("Codes() must return a copy")
	}
}

func TestNewPolicyRejectsInvalidSettings(t *testing.T) {
	cases := map[string]Settings{
		"no languages": {Default: "en"},
		"no default":   {Languages: []Language{{Code: "en"}}},
		"unknown default": {
			Default:   "fr",
			Languages: []Language{{Code: "en"}},
		},
		"unknown fallback": {
			Default:   "en",
			Languages: []Language{{Code: "en"}, {Code: "fr", Fallback: "es"}},
		},
		"duplicate code": {
			Default:   "en",
			Languages: []Language{{Code: "en"}, {Code: "EN"}},
		},
		"code too long": {
			Default:   "en",
			Languages: []Language{{Code: "en"}, {Code: "abcdefghijklmnopq"}},
		},
	}

	for name, settings := range cases {
		t.Run(name, func(t *testing.T) {
			if _, err := NewPolicy(settings); !errors.Is(err, domain.ErrConfiguration) {
				t.Fatalf("expected ErrConfiguration, got %v", err)
			}
		})
	}
}
