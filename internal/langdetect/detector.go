// Package langdetect gates posts on natural-language English using trigram
// detection from whatlanggo. Detection problems never escape: a text that
// cannot be classified is reported as not English.
package langdetect

import (
	"context"
	"strings"
	"unicode"

	"github.com/abadojack/whatlanggo"

	"ticker-sentiment/internal/interfaces"
	"ticker-sentiment/internal/logger"
)

// Detector reports whether text is English
type Detector struct {
	minConfidence float64
}

var _ interfaces.LanguageDetector = (*Detector)(nil)

// New returns a detector. minConfidence in [0,1]; 0 accepts whatever language wins.
func New(minConfidence float64) *Detector {
	return &Detector{minConfidence: minConfidence}
}

// IsEnglish returns true iff the dominant detected language is English
func (d *Detector) IsEnglish(text string) (english bool) {
	defer func() {
		if r := recover(); r != nil {
			logger.Warn(context.Background(), "Language detection failed", "panic", r)
			english = false
		}
	}()

	text = strings.TrimSpace(text)
	if text == "" || !hasLetters(text) {
		return false
	}

	if whatlanggo.DetectScript(text) != unicode.Latin {
		return false
	}

	info := whatlanggo.Detect(text)
	if info.Lang != whatlanggo.Eng {
		return false
	}
	return info.Confidence >= d.minConfidence
}

// hasLetters filters out numeric-only or symbol-only input, which detectors guess on wildly
func hasLetters(s string) bool {
	for _, r := range s {
		if unicode.IsLetter(r) {
			return true
		}
	}
	return false
}
