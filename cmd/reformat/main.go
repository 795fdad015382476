// Command reformat rewrites the answer fields of a vocabulary deck in a
// locally running Anki (via the AnkiConnect add-on) into a structured
// definitions template, filling definitions from an external dictionary
// service. Cards whose answer already carries the template are left
// untouched; scheduling data and note identity are never modified.
//
// Flags:
//
//	-config   path to YAML config file (overrides CONFIG_PATH)
//	-deck     deck name to process (overrides config)
//	-dry-run  report intended changes without writing
//	-version  print build version and exit
//
// Exit codes: 0 = success, 1 = error.
package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"

	"github.com/heartmarshall/anki-reformat/internal/adapter/ankiconnect"
	"github.com/heartmarshall/anki-reformat/internal/adapter/provider/cambridge"
	"github.com/heartmarshall/anki-reformat/internal/adapter/provider/freedict"
	"github.com/heartmarshall/anki-reformat/internal/app"
	"github.com/heartmarshall/anki-reformat/internal/config"
	"github.com/heartmarshall/anki-reformat/internal/provider"
	"github.com/heartmarshall/anki-reformat/internal/service/reformat"
)

func main() {
	configFlag := flag.String("config", "", "path to YAML config file")
	deckFlag := flag.String("deck", "", "deck name to process (overrides config)")
	dryRunFlag := flag.Bool("dry-run", false, "report intended changes without writing")
	versionFlag := flag.Bool("version", false, "print build version and exit")
	flag.Parse()

	if *versionFlag {
		fmt.Println(app.BuildVersion())
		return
	}

	// Local convenience: pick up ANKI_*/DICT_* vars from a .env file.
	_ = godotenv.Load()

	if *configFlag != "" {
		os.Setenv("CONFIG_PATH", *configFlag)
	}

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("load config: %v", err)
	}

	// CLI flags override config.
	if *deckFlag != "" {
		cfg.Anki.DeckName = *deckFlag
	}
	if *dryRunFlag {
		cfg.Reformat.DryRun = true
	}

	logger := app.NewLogger(cfg.Log)
	logger.Info("starting reformat",
		slog.String("version", app.BuildVersion()),
		slog.String("deck", cfg.Anki.DeckName),
		slog.Bool("dry_run", cfg.Reformat.DryRun),
	)

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()
	ctx, cancelTimeout := context.WithTimeout(ctx, cfg.Reformat.Timeout)
	defer cancelTimeout()

	client := ankiconnect.NewClient(cfg.Anki.URL, cfg.Anki.Timeout, logger)
	col := ankiconnect.NewCollection(client, cfg.Anki.WordField, cfg.Anki.AnswerField, logger)

	var src provider.Source = cambridge.NewProvider(cfg.Dictionary.BaseURL, cfg.Dictionary.Timeout, logger)
	if cfg.Dictionary.FallbackEnabled {
		fb := freedict.NewProvider(cfg.Dictionary.FallbackURL, cfg.Dictionary.Timeout, logger)
		src = provider.NewFallback(src, fb, logger)
	}
	cached, err := provider.NewCached(src, cfg.Dictionary.CacheSize)
	if err != nil {
		logger.Error("create lookup cache", slog.String("error", err.Error()))
		os.Exit(1)
	}

	svc := reformat.NewService(logger, col, cached, reformat.Config{
		DeckName:    cfg.Anki.DeckName,
		DryRun:      cfg.Reformat.DryRun,
		LookupRate:  cfg.Dictionary.RatePerSec,
		LookupBurst: cfg.Dictionary.Burst,
	})

	report, err := svc.Run(ctx)
	if err != nil {
		logger.Error("run failed", slog.String("error", err.Error()))
		os.Exit(1)
	}

	printReport(report)
}

// printReport writes the human-readable run summary to stdout.
// Structured logs go to stderr; this is the part meant for the user.
func printReport(r *reformat.Report) {
	mode := ""
	if r.DryRun {
		mode = " (dry-run)"
	}

	fmt.Printf("Deck %q processed%s.\n", r.Deck, mode)
	fmt.Printf("  Cards:              %d\n", r.Total)
	fmt.Printf("  Already formatted:  %d\n", r.AlreadyFormatted)
	fmt.Printf("  Updated:            %d\n", r.Updated)
	fmt.Printf("  No definition:      %d\n", r.NotFound)
	fmt.Printf("  Lookup failed:      %d\n", r.LookupFailed)
	fmt.Printf("  Update failed:      %d\n", r.UpdateFailed)
	if r.MissingFields > 0 {
		fmt.Printf("  Skipped (fields):   %d\n", r.MissingFields)
	}

	if len(r.Failures) > 0 {
		fmt.Println("\nCards needing manual attention:")
		for _, f := range r.Failures {
			fmt.Printf("  - %s (note %d): %s\n", f.Word, f.NoteID, f.Reason)
		}
	}
}
