package validate

import (
	"context"
	"fmt"
	"sync"

	kiteconnect "github.com/zerodha/gokiteconnect/v4"

	"ticker-sentiment/internal/interfaces"
	"ticker-sentiment/internal/logger"
)

// Kite validates symbols against the Zerodha instrument dump of one exchange.
// The dump is downloaded once and kept as a symbol to token map.
type Kite struct {
	exchange string
	load     func(exchange string) (map[string]int, error)

	mu      sync.Mutex
	symbols map[string]int
}

var _ interfaces.TickerValidator = (*Kite)(nil)

func NewKite(apiKey, accessToken, exchange string) *Kite {
	kc := kiteconnect.New(apiKey)
	if accessToken != "" {
		kc.SetAccessToken(accessToken)
	}
	return &Kite{
		exchange: exchange,
		load: func(exchange string) (map[string]int, error) {
			instruments, err := kc.GetInstrumentsByExchange(exchange)
			if err != nil {
				return nil, err
			}
			m := make(map[string]int, len(instruments))
			for _, ins := range instruments {
				m[Normalize(ins.Tradingsymbol)] = ins.InstrumentToken
			}
			return m, nil
		},
	}
}

func (k *Kite) Validate(ctx context.Context, symbol string) (bool, error) {
	sym := Normalize(symbol)
	if sym == "" {
		return false, nil
	}

	symbols, err := k.instruments(ctx)
	if err != nil {
		return false, err
	}
	_, ok := symbols[sym]
	return ok, nil
}

func (k *Kite) instruments(ctx context.Context) (map[string]int, error) {
	k.mu.Lock()
	defer k.mu.Unlock()

	if k.symbols != nil {
		return k.symbols, nil
	}

	symbols, err := k.load(k.exchange)
	if err != nil {
		return nil, fmt.Errorf("failed to load %s instruments: %w", k.exchange, err)
	}
	logger.Info(ctx, "Instrument list loaded", "exchange", k.exchange, "count", len(symbols))
	k.symbols = symbols
	return symbols, nil
}
