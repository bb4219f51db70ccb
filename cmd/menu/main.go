// Command menu prints the menu for one day, either fetched through the
// configured source or read from a local week file.
//
// Flags:
//
//	--date               day to print, YYYY-MM-DD (default: today)
//	--file               read this week file instead of the configured source
//	--date-pattern       date layout inside --file (default: 02.01.2006)
//	--exclude-additives  comma-separated additive codes, indexes or descriptions
//	--exclude-allergens  comma-separated allergen codes or descriptions
//	--exclude-tags       comma-separated tag codes or descriptions
//	--json               print JSON instead of a table
//
// Exit codes: 0 = success, 1 = error, 2 = bad flags.
package main

import (
	"context"
	"encoding/json"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"os/signal"
	"strings"
	"text/tabwriter"
	"time"

	"github.com/heartmarshall/mensa-backend/internal/app"
	"github.com/heartmarshall/mensa-backend/internal/config"
	"github.com/heartmarshall/mensa-backend/internal/domain"
	"github.com/heartmarshall/mensa-backend/internal/menufile"
	"github.com/heartmarshall/mensa-backend/internal/service/menu"
	"github.com/heartmarshall/mensa-backend/internal/transport/rest"
)

type options struct {
	date        time.Time
	file        string
	datePattern string
	filter      domain.MenuFilter
	json        bool
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	opts, err := parseFlags(os.Args[1:], time.Now())
	if err != nil {
		if errors.Is(err, flag.ErrHelp) {
			return
		}
		fmt.Fprintln(os.Stderr, err)
		stop()
		os.Exit(2)
	}

	if err := run(ctx, opts, os.Stdout); err != nil {
		fmt.Fprintln(os.Stderr, err)
		stop()
		os.Exit(1)
	}
}

func parseFlags(args []string, now time.Time) (options, error) {
	fs := flag.NewFlagSet("menu", flag.ContinueOnError)
	dateFlag := fs.String("date", "", "day to print, YYYY-MM-DD (default: today)")
	fileFlag := fs.String("file", "", "read this week file instead of the configured source")
	patternFlag := fs.String("date-pattern", menufile.DefaultDateLayout, "date layout inside --file")
	additivesFlag := fs.String("exclude-additives", "", "comma-separated additive codes, indexes or descriptions")
	allergensFlag := fs.String("exclude-allergens", "", "comma-separated allergen codes or descriptions")
	tagsFlag := fs.String("exclude-tags", "", "comma-separated tag codes or descriptions")
	jsonFlag := fs.Bool("json", false, "print JSON instead of a table")
	if err := fs.Parse(args); err != nil {
		return options{}, err
	}

	opts := options{
		date:        domain.DateOf(now),
		file:        *fileFlag,
		datePattern: *patternFlag,
		json:        *jsonFlag,
	}
	if *dateFlag != "" {
		d, err := time.Parse(rest.DateLayout, *dateFlag)
		if err != nil {
			return options{}, fmt.Errorf("invalid --date %q: expected YYYY-MM-DD", *dateFlag)
		}
		opts.date = d
	}

	filter, err := domain.ParseMenuFilter(split(*additivesFlag), split(*allergensFlag), split(*tagsFlag))
	if err != nil {
		return options{}, err
	}
	opts.filter = filter
	return opts, nil
}

func run(ctx context.Context, opts options, out io.Writer) error {
	var (
		entries []domain.MenuEntry
		err     error
	)
	if opts.file != "" {
		entries, err = fromFile(opts)
	} else {
		entries, err = fromSource(ctx, opts)
	}
	if err != nil {
		return err
	}

	if opts.json {
		enc := json.NewEncoder(out)
		enc.SetIndent("", "  ")
		return enc.Encode(rest.NewMenuResponse(opts.date, entries))
	}
	return printTable(out, opts.date, entries)
}

func fromFile(opts options) ([]domain.MenuEntry, error) {
	res, err := menufile.ParseFile(opts.file, opts.datePattern)
	if err != nil {
		return nil, err
	}

	day := make([]domain.MenuEntry, 0, len(res.Entries))
	for _, e := range res.Entries {
		if e.ServedOnDay(opts.date) {
			day = append(day, e)
		}
	}
	return opts.filter.Apply(day), nil
}

func fromSource(ctx context.Context, opts options) ([]domain.MenuEntry, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, fmt.Errorf("load config: %w", err)
	}
	logger := app.NewLogger(cfg.Log)

	cache, err := app.NewSourceCache(cfg.Source, logger)
	if err != nil {
		return nil, err
	}
	svc := menu.NewService(logger, cache, nil, menu.Config{
		DateLayout: cfg.Source.DatePattern,
		MaxAge:     cfg.Source.MaxAge,
	})
	return svc.FilterEntries(ctx, opts.date, opts.filter)
}

func printTable(out io.Writer, date time.Time, entries []domain.MenuEntry) error {
	fmt.Fprintf(out, "Menu for %s\n", date.Format("Monday, 02.01.2006"))
	if len(entries) == 0 {
		_, err := fmt.Fprintln(out, "no dishes")
		return err
	}

	tw := tabwriter.NewWriter(out, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "COURSE\tDISH\tSTUDENT\tSTAFF\tGUEST\tADDITIVES\tALLERGENS\tTAGS")
	for _, e := range entries {
		fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%s\t%s\t%s\t%s\n",
			e.Category().Label(),
			e.Name(),
			e.StudentPrice().StringFixed(2),
			e.StaffPrice().StringFixed(2),
			e.GuestPrice().StringFixed(2),
			join(e.Additives()),
			join(e.Allergens()),
			join(e.Tags()),
		)
	}
	return tw.Flush()
}

func split(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}

func join[T ~string](codes []T) string {
	if len(codes) == 0 {
		return "-"
	}
	parts := make([]string, len(codes))
	for i, c := range codes {
		parts[i] = string(c)
	}
	return strings.Join(parts, ",")
}
