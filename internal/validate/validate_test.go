package validate

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"ticker-sentiment/internal/api"
	"ticker-sentiment/internal/store"
)

func TestStatic(t *testing.T) {
	s := NewStatic([]string{"acme", " TSLA "})
	for sym, want := range map[string]bool{"ACME": true, "tsla": true, "MSFT": false, "": false} {
		got, err := s.Validate(context.Background(), sym)
		if err != nil || got != want {
			t.Errorf("Validate(%q) = %v (%v), want %v", sym, got, err, want)
		}
	}
}

func TestNone(t *testing.T) {
	if ok, _ := (None{}).Validate(context.Background(), "anything"); !ok {
		t.Error("None should accept any symbol")
	}
	if ok, _ := (None{}).Validate(context.Background(), "  "); ok {
		t.Error("None should reject a blank symbol")
	}
}

func newTestYahoo(url string) *Yahoo {
	y := NewYahoo()
	y.searchURL = url
	y.retry = &api.RetryConfig{MaxAttempts: 2, InitialWait: time.Millisecond, MaxWait: time.Millisecond}
	return y
}

func TestYahoo(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Header.Get("Referer") != "https://finance.yahoo.com/" {
			t.Errorf("expected yahoo headers")
		}
		switch r.URL.Query().Get("q") {
		case "AAPL":
			fmt.Fprint(w, `{"quotes":[{"symbol":"AAPL","quoteType":"EQUITY"},{"symbol":"AAPL.MX"}]}`)
		case "APPL":
			fmt.Fprint(w, `{"quotes":[{"symbol":"AAPL"}]}`)
		default:
			fmt.Fprint(w, `{"quotes":[]}`)
		}
	}))
	defer srv.Close()

	y := newTestYahoo(srv.URL)
	ctx := context.Background()

	if ok, err := y.Validate(ctx, "aapl"); err != nil || !ok {
		t.Errorf("expected aapl valid, got %v (%v)", ok, err)
	}
	if ok, err := y.Validate(ctx, "APPL"); err != nil || ok {
		t.Errorf("a near match must not validate, got %v (%v)", ok, err)
	}
	if ok, err := y.Validate(ctx, "ZZZZ"); err != nil || ok {
		t.Errorf("expected ZZZZ invalid, got %v (%v)", ok, err)
	}
}

func TestYahooServerError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer srv.Close()

	if _, err := newTestYahoo(srv.URL).Validate(context.Background(), "AAPL"); err == nil {
		t.Fatal("expected error")
	}
}

func TestKiteLoadsOnce(t *testing.T) {
	loads := 0
	k := &Kite{
		exchange: "NSE",
		load: func(exchange string) (map[string]int, error) {
			loads++
			if exchange != "NSE" {
				t.Errorf("unexpected exchange %s", exchange)
			}
			return map[string]int{"RELIANCE": 738561, "INFY": 408065}, nil
		},
	}
	ctx := context.Background()

	for sym, want := range map[string]bool{"reliance": true, "INFY": true, "ACME": false} {
		if got, err := k.Validate(ctx, sym); err != nil || got != want {
			t.Errorf("Validate(%q) = %v (%v), want %v", sym, got, err, want)
		}
	}
	if loads != 1 {
		t.Errorf("instrument list should be loaded once, loaded %d times", loads)
	}
}

func TestKiteLoadError(t *testing.T) {
	k := &Kite{exchange: "NSE", load: func(string) (map[string]int, error) { return nil, errors.New("forbidden") }}
	if _, err := k.Validate(context.Background(), "INFY"); err == nil {
		t.Fatal("expected load error")
	}
}

func TestFromConfig(t *testing.T) {
	cfg := store.DefaultConfig()

	cfg.Validator.Provider = store.ValidatorStatic
	cfg.Validator.Allow = []string{"ACME"}
	v, err := FromConfig(cfg)
	if err != nil {
		t.Fatal(err)
	}
	if ok, _ := v.Validate(context.Background(), "acme"); !ok {
		t.Error("expected static validator from config")
	}

	cfg.Validator.Provider = "BOGUS"
	if _, err := FromConfig(cfg); err == nil {
		t.Error("expected error for unknown provider")
	}
}
