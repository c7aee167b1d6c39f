package validate

import (
	"context"
	"fmt"
	"os"
	"strings"

	"ticker-sentiment/internal/interfaces"
	"ticker-sentiment/internal/store"
)

// Normalize upper-cases and trims a ticker symbol
func Normalize(symbol string) string {
	return strings.ToUpper(strings.TrimSpace(symbol))
}

// Static accepts only symbols on an allow-list
type Static struct {
	allowed map[string]bool
}

var _ interfaces.TickerValidator = (*Static)(nil)

func NewStatic(symbols []string) *Static {
	s := &Static{allowed: make(map[string]bool, len(symbols))}
	for _, sym := range symbols {
		s.allowed[Normalize(sym)] = true
	}
	return s
}

func (s *Static) Validate(ctx context.Context, symbol string) (bool, error) {
	return s.allowed[Normalize(symbol)], nil
}

// None accepts every non-empty symbol
type None struct{}

func (None) Validate(ctx context.Context, symbol string) (bool, error) {
	return Normalize(symbol) != "", nil
}

// FromConfig picks the validator named by cfg.Validator.Provider
func FromConfig(cfg *store.Config) (interfaces.TickerValidator, error) {
	switch cfg.Validator.Provider {
	case store.ValidatorYahoo:
		return NewYahoo(), nil
	case store.ValidatorKite:
		apiKey := os.Getenv("KITE_API_KEY")
		if apiKey == "" {
			return nil, fmt.Errorf("KITE_API_KEY missing")
		}
		return NewKite(apiKey, os.Getenv("KITE_ACCESS_TOKEN"), cfg.Validator.Exchange), nil
	case store.ValidatorStatic:
		return NewStatic(cfg.Validator.Allow), nil
	case store.ValidatorNone:
		return None{}, nil
	default:
		return nil, fmt.Errorf("unknown validator %q", cfg.Validator.Provider)
	}
}
