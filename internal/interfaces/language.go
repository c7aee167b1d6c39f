package interfaces

// LanguageDetector decides whether text is natural-language English.
// Implementations never fail: anything undetectable is simply not English.
type LanguageDetector interface {
	IsEnglish(text string) bool
}
