package main

import (
	"context"
	"flag"
	"fmt"
	"os"

	"github.com/dustin/go-humanize"
	"github.com/google/uuid"

	"periodica/internal/life"
	"periodica/internal/oracle"
	"periodica/internal/search"
)

func main() {
	if err := run(context.Background(), os.Args[1:]); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func run(ctx context.Context, args []string) error {
	if len(args) == 0 {
		return usageError("missing command")
	}

	switch args[0] {
	case "search":
		return runSearch(ctx, args[1:])
	case "explain":
		return runExplain(ctx, args[1:])
	default:
		return usageError(fmt.Sprintf("unknown command: %s", args[0]))
	}
}

func runSearch(ctx context.Context, args []string) error {
	fs := flag.NewFlagSet("search", flag.ContinueOnError)
	configPath := fs.String("config", "", "JSON search config; flags override it")
	dbPath := fs.String("db", "", "transition table database path")
	tableName := fs.String("table", "", `transition table name (default "transition")`)
	period := fs.Int("period", 0, "temporal period to search for")
	seedTop := fs.String("seed-top", "", "comma-separated top seed rows, one per phase")
	seedMid := fs.String("seed-mid", "", "comma-separated mid seed rows, one per phase")
	targetTop := fs.String("target-top", "", "target top rows (default all zero)")
	targetMid := fs.String("target-mid", "", "target mid rows (default all zero)")
	cacheGiB := fs.Int("cache-gb", 0, "sqlite page cache size in GiB")
	gen := fs.Int("gen", 0, "generation to render the found pattern at")
	maxSteps := fs.Uint64("max-steps", 0, "stop after this many expansions (0 = unbounded)")
	reportEvery := fs.Uint64("report-every", 0, "print progress every N expansions (0 = never)")
	if err := fs.Parse(args); err != nil {
		return err
	}

	cfg := searchConfig{
		DBPath:      *dbPath,
		Table:       *tableName,
		Period:      *period,
		SeedTop:     *seedTop,
		SeedMid:     *seedMid,
		TargetTop:   *targetTop,
		TargetMid:   *targetMid,
		CacheGiB:    *cacheGiB,
		Gen:         *gen,
		MaxSteps:    *maxSteps,
		ReportEvery: *reportEvery,
	}
	if *configPath != "" {
		fileCfg, err := loadSearchConfig(*configPath)
		if err != nil {
			return err
		}
		cfg = fileCfg.overriddenBy(cfg)
	}
	if cfg.DBPath == "" {
		return usageError("search: -db is required")
	}
	if cfg.Period <= 0 {
		return usageError("search: -period must be positive")
	}
	if cfg.SeedMid == "" {
		return usageError("search: -seed-mid is required")
	}

	seedTopTuple, seedMidTuple, err := cfg.seedTuples()
	if err != nil {
		return err
	}
	targetTopTuple, targetMidTuple, err := cfg.targetTuples()
	if err != nil {
		return err
	}

	table, err := oracle.Open(ctx, cfg.DBPath, oracle.Options{Table: cfg.Table, CacheGiB: cfg.CacheGiB})
	if err != nil {
		return err
	}
	defer func() {
		_ = table.Close()
	}()

	query, err := table.ExtensionQuery(ctx, cfg.Period)
	if err != nil {
		return err
	}
	defer func() {
		_ = query.Close()
	}()

	runID := uuid.NewString()
	fmt.Printf("run %s: period=%d layout=%s db=%s table=%s\n",
		runID, cfg.Period, table.Layout(), cfg.DBPath, table.Name())

	driver, err := search.NewDriver(search.Config{
		Source:      query,
		SeedTop:     seedTopTuple,
		SeedMid:     seedMidTuple,
		TargetTop:   targetTopTuple,
		TargetMid:   targetMidTuple,
		MaxSteps:    cfg.MaxSteps,
		ReportEvery: cfg.ReportEvery,
		OnProgress: func(p search.Progress) {
			fmt.Printf("expanded %s states, %s enqueued, frontier %s, last cost %d\n",
				humanize.Comma(int64(p.Expanded)), humanize.Comma(int64(p.Enqueued)),
				humanize.Comma(int64(p.FrontierLen)), p.LastCost)
		},
	})
	if err != nil {
		return err
	}

	status, err := driver.Run(ctx)
	if err != nil {
		return err
	}

	switch status {
	case search.Found:
		fmt.Printf("found after %s expansions, pattern at generation %d:\n",
			humanize.Comma(int64(driver.Expanded())), cfg.Gen)
		text, err := driver.Result().PatternTextAt(cfg.Gen)
		if err != nil {
			return err
		}
		fmt.Print(text)
	case search.Exhausted:
		fmt.Printf("exhausted after %s expansions: no reachable pattern\n",
			humanize.Comma(int64(driver.Expanded())))
	case search.Running:
		fmt.Printf("stopped at step budget after %s expansions\n",
			humanize.Comma(int64(driver.Expanded())))
	}
	return nil
}

func runExplain(ctx context.Context, args []string) error {
	fs := flag.NewFlagSet("explain", flag.ContinueOnError)
	dbPath := fs.String("db", "", "transition table database path (detects the layout)")
	tableName := fs.String("table", "transition", "transition table name")
	layoutName := fs.String("layout", "", "layout to explain without a database: packed|unpacked")
	period := fs.Int("period", 0, "temporal period")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if *period <= 0 {
		return usageError("explain: -period must be positive")
	}

	layout := oracle.LayoutUnknown
	switch *layoutName {
	case "packed":
		layout = oracle.LayoutPacked
	case "unpacked":
		layout = oracle.LayoutUnpacked
	case "":
		// With a database at hand, print the query that would actually be
		// prepared against it.
		if *dbPath == "" {
			return usageError("explain: either -db or -layout is required")
		}
		table, err := oracle.Open(ctx, *dbPath, oracle.Options{Table: *tableName})
		if err != nil {
			return err
		}
		defer func() {
			_ = table.Close()
		}()
		query, err := table.ExtensionQuery(ctx, *period)
		if err != nil {
			return err
		}
		defer func() {
			_ = query.Close()
		}()
		fmt.Println(query.SQL())
		return nil
	default:
		return usageError(fmt.Sprintf("explain: unknown layout %q", *layoutName))
	}

	text, err := oracle.QueryText(layout, *tableName, *period)
	if err != nil {
		return err
	}
	fmt.Println(text)
	return nil
}

func parseTuple(s string, period int, what string) (life.RowTuple, error) {
	tuple, err := life.ParseRowTuple(s, period)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", what, err)
	}
	return tuple, nil
}

func usageError(msg string) error {
	return fmt.Errorf("%s\nusage: periodica <search|explain> [flags]", msg)
}
