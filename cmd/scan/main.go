package main

import (
	"bufio"
	"context"
	"encoding/json"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"ticker-sentiment/internal/fetch"
	"ticker-sentiment/internal/logger"
	"ticker-sentiment/internal/scan"
	"ticker-sentiment/internal/trace"
	"ticker-sentiment/internal/types"
)

func main() {
	var (
		symbol     = flag.String("symbol", "", "stock symbol or keyword to search")
		timeFilter = flag.String("t", "", "time filter: hour, day, week, month, year, all (default from config)")
		configPath = flag.String("config", "config.yaml", "path to config file")
		asJSON     = flag.Bool("json", false, "print results as JSON")
		minWords   = flag.Int("min-words", 0, "override pipeline.min_words")
	)
	flag.Parse()

	if err := initializeSystem(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}

	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()
	defer trace.Shutdown(context.Background())

	if err := run(ctx, *configPath, *symbol, *timeFilter, *minWords, *asJSON); err != nil {
		if errors.Is(err, scan.ErrInvalidTicker) || errors.Is(err, fetch.ErrInvalidTimeFilter) {
			fmt.Fprintln(os.Stderr, "Invalid input. Please try again.")
		}
		logger.ErrorWithErr(ctx, "Scan failed", err)
		os.Exit(1)
	}
}

func run(ctx context.Context, configPath, symbol, timeFilter string, minWords int, asJSON bool) error {
	cfg, err := loadConfig(ctx, configPath)
	if err != nil {
		return err
	}

	in := bufio.NewReader(os.Stdin)
	if strings.TrimSpace(symbol) == "" {
		symbol = prompt(in, "Enter the stock symbol or keyword to search: ")
	}
	if strings.TrimSpace(timeFilter) == "" {
		timeFilter = cfg.Fetch.TimeFilter
	}

	classifier, closeClassifier, err := initializeClassifier(ctx, cfg)
	if err != nil {
		return err
	}
	defer closeClassifier()

	svc, err := initializeService(ctx, cfg, initializePipeline(ctx, cfg, classifier, minWords))
	if err != nil {
		return err
	}

	result, err := svc.Scan(ctx, symbol, timeFilter)
	if err != nil {
		return err
	}

	if asJSON {
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		return enc.Encode(result)
	}
	printResult(os.Stdout, result)
	return nil
}

func prompt(in *bufio.Reader, question string) string {
	fmt.Print(question)
	line, _ := in.ReadString('\n')
	return strings.TrimSpace(line)
}

func printResult(w io.Writer, r *types.ScanResult) {
	if len(r.Posts) == 0 {
		fmt.Fprintln(w, "\nNo valid posts found.")
		return
	}

	fmt.Fprintln(w, "\n--- Analysis Results ---")
	fmt.Fprintln(w)
	for _, p := range r.Posts {
		fmt.Fprintf(w, "Source: %s\n", p.Source)
		fmt.Fprintf(w, "Title: %s\n", p.DisplayTitle())
		fmt.Fprintf(w, "Post URL: %s\n", p.URL)
		fmt.Fprintf(w, "Content Sentiment: neg=%.3f neu=%.3f pos=%.3f compound=%.4f\n",
			p.Sentiment.Negative, p.Sentiment.Neutral, p.Sentiment.Positive, p.Sentiment.Compound)
		fmt.Fprintln(w, strings.Repeat("-", 80))
	}
	fmt.Fprintf(w, "%d posts kept of %d candidates (%d duplicates removed)\n",
		r.Stats.Survivors, r.Stats.Candidates, r.Stats.Duplicates)
}
