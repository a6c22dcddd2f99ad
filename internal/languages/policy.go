package languages

import (
	"fmt"
	"slices"
	"strings"

	validation "github.com/go-ozzo/ozzo-validation/v4"
	"golang.org/x/text/language"

	"github.com/goliatone/go-translatable/internal/domain"
)

// Language is one entry of the language table. An empty Fallback, or one equal
// to Code, means the language has no fallback.
type Language struct {
	Code     string `json:"code" yaml:"code"`
	Fallback string `json:"fallback,omitempty" yaml:"fallback,omitempty"`
	Title    string `json:"title,omitempty" yaml:"title,omitempty"`
}

// Settings is the static language table consulted at process start.
type Settings struct {
	Default   string     `json:"default" yaml:"default"`
	Languages []Language `json:"languages" yaml:"languages"`
}

// Validate checks the table shape before codes are canonicalized.
func (s Settings) Validate() error {
	return validation.ValidateStruct(&s,
		validation.Field(&s.Default, validation.Required),
		validation.Field(&s.Languages, validation.Required, validation.Each(validation.By(func(value any) error {
			lang, _ := value.(Language)
			return validation.ValidateStruct(&lang,
				validation.Field(&lang.Code, validation.Required, validation.Length(1, domain.MaxLanguageCodeLength)),
				validation.Field(&lang.Fallback, validation.Length(0, domain.MaxLanguageCodeLength)),
			)
		}))),
	)
}

// Policy canonicalizes language codes and answers fallback lookups. It holds
// no mutable state once constructed and is safe for concurrent use.
type Policy struct {
	defaultCode string
	codes       []string
	entries     map[string]Language
	folded      map[string]string
}

// NewPolicy validates settings and builds a Policy. Every fallback and the
// default language must themselves be configured.
func NewPolicy(settings Settings) (*Policy, error) {
	if err := settings.Validate(); err != nil {
		return nil, domain.ConfigError(domain.ErrConfiguration, domain.TextCodeUnknownLanguage, "invalid language settings", map[string]any{
			"validation": err.Error(),
		})
	}

	p := &Policy{
		entries: make(map[string]Language, len(settings.Languages)),
		folded:  make(map[string]string, len(settings.Languages)),
	}
	for _, lang := range settings.Languages {
		code := canonical(lang.Code)
		if _, exists := p.entries[code]; exists {
			return nil, domain.ConfigError(domain.ErrConfiguration, domain.TextCodeUnknownLanguage,
				fmt.Sprintf("language %q configured twice", code), map[string]any{"language": code})
		}
		lang.Code = code
		if fallback := strings.TrimSpace(lang.Fallback); fallback != "" {
			lang.Fallback = canonical(fallback)
		}
		p.entries[code] = lang
		p.folded[strings.ToLower(code)] = code
		p.codes = append(p.codes, code)
	}
	slices.Sort(p.codes)

	for _, code := range p.codes {
		fallback := p.entries[code].Fallback
		if fallback == "" {
			continue
		}
		if _, ok := p.lookup(fallback); !ok {
			return nil, unknownLanguage(fallback)
		}
	}

	def, ok := p.lookup(settings.Default)
	if !ok {
		return nil, unknownLanguage(settings.Default)
	}
	p.defaultCode = def
	return p, nil
}

// Normalize returns the configured canonical form of code. Region and case
// differences are folded ("en_us" and "EN-us" both become "en-US").
func (p *Policy) Normalize(code string) (string, error) {
	if strings.TrimSpace(code) == "" {
		return "", unknownLanguage(code)
	}
	normalized, ok := p.lookup(code)
	if !ok {
		return "", unknownLanguage(code)
	}
	return normalized, nil
}

// FallbackOf reports the configured fallback for code. It returns false when
// the language has none, when the fallback equals code, or when code is unknown.
func (p *Policy) FallbackOf(code string) (string, bool) {
	normalized, ok := p.lookup(code)
	if !ok {
		return "", false
	}
	fallback := p.entries[normalized].Fallback
	if fallback == "" {
		return "", false
	}
	fallback, _ = p.lookup(fallback)
	if fallback == normalized {
		return "", false
	}
	return fallback, true
}

// Default returns the canonical default language.
func (p *Policy) Default() string {
	return p.defaultCode
}

// Codes returns every configured language code in ascending order.
func (p *Policy) Codes() []string {
	return slices.Clone(p.codes)
}

// Has reports whether code resolves to a configured language.
func (p *Policy) Has(code string) bool {
	_, ok := p.lookup(code)
	return ok
}

// Title returns the display title for code, or the code itself when unset.
func (p *Policy) Title(code string) string {
	normalized, ok := p.lookup(code)
	if !ok {
		return code
	}
	if title := p.entries[normalized].Title; title != "" {
		return title
	}
	return normalized
}

// Settings returns the canonicalized table backing the policy.
func (p *Policy) Settings() Settings {
	out := Settings{Default: p.defaultCode, Languages: make([]Language, 0, len(p.codes))}
	for _, code := range p.codes {
		out.Languages = append(out.Languages, p.entries[code])
	}
	return out
}

func (p *Policy) lookup(code string) (string, bool) {
	if p == nil {
		return "", false
	}
	canon := canonical(code)
	if _, ok := p.entries[canon]; ok {
		return canon, true
	}
	folded, ok := p.folded[strings.ToLower(domain.CleanLanguageCode(code))]
	return folded, ok
}

func canonical(code string) string {
	cleaned := domain.CleanLanguageCode(code)
	if cleaned == "" {
		return ""
	}
	tag, err := language.Parse(cleaned)
	if err != nil {
		return cleaned
	}
	return tag.String()
}

func unknownLanguage(code string) error {
	return domain.ConfigError(domain.ErrUnknownLanguage, domain.TextCodeUnknownLanguage,
		fmt.Sprintf("language %q is not configured", code), map[string]any{"language": code})
}
