package validate

import (
	"context"
	"fmt"
	"net/http"
	"net/url"

	"ticker-sentiment/internal/api"
	"ticker-sentiment/internal/interfaces"
)

const yahooSearchURL = "https://query2.finance.yahoo.com/v1/finance/search"

// Yahoo checks a symbol against Yahoo Finance symbol search
type Yahoo struct {
	client    *api.Client
	searchURL string
	retry     *api.RetryConfig
}

var _ interfaces.TickerValidator = (*Yahoo)(nil)

func NewYahoo() *Yahoo {
	return &Yahoo{
		client:    api.NewClient(api.WithHeaders(api.YahooFinanceHeaders())),
		searchURL: yahooSearchURL,
		retry:     api.DefaultRetryConfig(),
	}
}

type yahooSearch struct {
	Quotes []struct {
		Symbol    string `json:"symbol"`
		QuoteType string `json:"quoteType"`
	} `json:"quotes"`
}

// Validate reports whether Yahoo lists a quote whose symbol is exactly symbol (case-insensitive)
func (y *Yahoo) Validate(ctx context.Context, symbol string) (bool, error) {
	sym := Normalize(symbol)
	if sym == "" {
		return false, nil
	}

	u := fmt.Sprintf("%s?q=%s&quotesCount=10&newsCount=0", y.searchURL, url.QueryEscape(sym))
	resp, err := y.client.DoWithRetry(ctx, http.MethodGet, u, nil, nil, y.retry)
	if err != nil {
		return false, fmt.Errorf("yahoo symbol search: %w", err)
	}

	var out yahooSearch
	if err := resp.ParseJSON(&out); err != nil {
		return false, err
	}
	for _, q := range out.Quotes {
		if Normalize(q.Symbol) == sym {
			return true, nil
		}
	}
	return false, nil
}
