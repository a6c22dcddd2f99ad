package domain

import "strings"

// MaxLanguageCodeLength mirrors the width of the language_code column.
const MaxLanguageCodeLength = 15

// CleanLanguageCode trims whitespace and converts POSIX separators so codes
// such as "pt_BR" and "pt-BR" are treated alike before canonicalization.
func CleanLanguageCode(code string) string {
	return strings.ReplaceAll(strings.TrimSpace(code), "_", "-")
}
