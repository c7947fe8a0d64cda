package mock

import "github.com/fwojciec/skillreview"

// Compile-time interface verification.
var (
	_ skillreview.Tokenizer        = (*Tokenizer)(nil)
	_ skillreview.LanguageDetector = (*LanguageDetector)(nil)
)

// Tokenizer is a mock implementation of skillreview.Tokenizer.
type Tokenizer struct {
	TokenizeFn func(language, source string) []skillreview.Token
}

func (t *Tokenizer) Tokenize(language, source string) []skillreview.Token {
	return t.TokenizeFn(language, source)
}

// LanguageDetector is a mock implementation of skillreview.LanguageDetector.
type LanguageDetector struct {
	DetectFromPathFn func(path string) string
}

func (d *LanguageDetector) DetectFromPath(path string) string {
	return d.DetectFromPathFn(path)
}
