package main

import (
	"bufio"
	"context"
	"flag"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/selivandex/stockspan/internal/adapters/market"
	"github.com/selivandex/stockspan/internal/bot"
	"github.com/selivandex/stockspan/pkg/logger"
)

const cliChatID = 0

func main() {
	dataPath := flag.String("data", "", "price CSV (Date,Open,High,Low,Close[,Volume])")
	demo := flag.Int("demo", 0, "use a synthetic series with this many points instead of -data")
	seed := flag.Int64("seed", 1, "random seed for sentiment noise and the demo series")
	symbol := flag.String("symbol", "STOCK", "display symbol")
	summary := flag.Bool("summary", false, "print the snapshot summary before answering")
	logLevel := flag.String("log-level", "warn", "log level")
	flag.Parse()

	if err := logger.Init(*logLevel, ""); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
	defer logger.Sync()

	if err := run(context.Background(), *dataPath, *demo, *seed, *symbol, *summary, flag.Args(), os.Stdin, os.Stdout); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func run(ctx context.Context, dataPath string, demo int, seed int64, symbol string, summary bool, args []string, in io.Reader, out io.Writer) error {
	manager, err := bot.NewManager(bot.Options{Symbol: symbol, Seed: seed})
	if err != nil {
		return err
	}

	switch {
	case dataPath != "":
		if _, err := manager.LoadFile(ctx, dataPath); err != nil {
			return err
		}
	case demo > 0:
		if _, err := manager.Load(ctx, market.NewSynthetic(seed).Generate(demo)); err != nil {
			return err
		}
	default:
		return fmt.Errorf("either -data or -demo is required")
	}

	if summary {
		text, err := manager.Summary()
		if err != nil {
			return err
		}
		fmt.Fprintln(out, text)
	}

	if len(args) > 0 {
		fmt.Fprintln(out, manager.Answer(cliChatID, strings.Join(args, " ")))
		return nil
	}

	scanner := bufio.NewScanner(in)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}
		if line == "quit" || line == "exit" {
			return nil
		}
		fmt.Fprintln(out, manager.Answer(cliChatID, line))
		fmt.Fprintln(out)
	}
	return scanner.Err()
}
