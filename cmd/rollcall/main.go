package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log"
	"os"
	"os/signal"
	"path/filepath"
	"strconv"
	"strings"
	"syscall"
	"time"

	"go.uber.org/zap"

	"github.com/fieldhouse/rollcall/internal/aggregate"
	"github.com/fieldhouse/rollcall/internal/config"
	"github.com/fieldhouse/rollcall/internal/ingest"
	"github.com/fieldhouse/rollcall/internal/logging"
	"github.com/fieldhouse/rollcall/internal/model"
	"github.com/fieldhouse/rollcall/internal/pipeline"
	"github.com/fieldhouse/rollcall/internal/report"
	"github.com/fieldhouse/rollcall/internal/schema"
	"github.com/fieldhouse/rollcall/internal/search"
	"github.com/fieldhouse/rollcall/internal/source"
	"github.com/fieldhouse/rollcall/internal/store"
	"github.com/fieldhouse/rollcall/internal/store/multistore"

	// Register source formats.
	_ "github.com/fieldhouse/rollcall/internal/source/csvfile"
	_ "github.com/fieldhouse/rollcall/internal/source/jsonl"

	// Register store backends.
	_ "github.com/fieldhouse/rollcall/internal/store/filestore"
	_ "github.com/fieldhouse/rollcall/internal/store/memstore"
	_ "github.com/fieldhouse/rollcall/internal/store/redistore"
	_ "github.com/fieldhouse/rollcall/internal/store/sqlitestore"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}

	logger, err := logging.New(cfg.Environment, cfg.LogLevel)
	if err != nil {
		log.Fatalf("failed to initialize logger: %v", err)
	}
	defer logger.Sync()

	// Set up graceful shutdown.
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		sig := <-sigCh
		logger.Info("received signal, shutting down", zap.Stringer("signal", sig))
		cancel()
	}()

	switch cfg.Mode {
	case "run":
		err = runMode(ctx, cfg, logger)
	case "lookup":
		err = lookupMode(ctx, cfg)
	case "search":
		err = searchMode(ctx, cfg, logger)
	default:
		err = fmt.Errorf("unknown mode %q (want run, lookup, or search)", cfg.Mode)
	}
	if err != nil && !errors.Is(err, context.Canceled) {
		logger.Fatal("rollcall failed", zap.Error(err))
	}
}

// runMode ingests the configured source, renders the report on stdout,
// and persists metric results when a store is configured.
func runMode(ctx context.Context, cfg *config.Config, logger *zap.Logger) error {
	src, path, err := buildSource(cfg)
	if err != nil {
		return err
	}

	sc, err := loadSchema(cfg.Ingest.SchemaPath)
	if err != nil {
		return err
	}

	metrics, err := buildMetrics(cfg.Ingest.Metrics)
	if err != nil {
		return err
	}

	policy, err := ingest.ParsePolicy(cfg.Ingest.OnError)
	if err != nil {
		return err
	}

	opts := []pipeline.Option{
		pipeline.WithDatasetKey(datasetKey(cfg.Ingest.DatasetKey, path)),
		pipeline.WithSourceInfo(cfg.Source.Format, path),
	}

	st, err := buildStore(cfg.Store)
	if err != nil {
		return err
	}
	if st != nil {
		defer st.Close()
		opts = append(opts, pipeline.WithStore(st))
	}

	ing := ingest.New(sc, policy, logger)
	p, err := pipeline.New(src, ing, metrics, logger, opts...)
	if err != nil {
		return err
	}

	rep, err := p.Run(ctx)
	if err != nil {
		return err
	}
	return report.Render(os.Stdout, rep, report.ParseFormat(cfg.Output.Format), cfg.Output.Pretty)
}

// lookupMode fetches one stored MetricResult by key and renders it.
// Nothing is recomputed; the key must name a previously persisted run.
func lookupMode(ctx context.Context, cfg *config.Config) error {
	key := cfg.Output.LookupKey
	if key == "" {
		return errors.New("no lookup key: set ROLLCALL_LOOKUP_KEY, e.g. schools-2024-01-31/by_state")
	}

	st, err := buildStore(cfg.Store)
	if err != nil {
		return err
	}
	if st == nil {
		return errors.New("lookup needs a store backend: set ROLLCALL_STORE")
	}
	defer st.Close()

	res, err := st.Get(ctx, key)
	if err != nil {
		return fmt.Errorf("lookup %s: %w", key, err)
	}
	return renderResult(os.Stdout, key, res, report.ParseFormat(cfg.Output.Format), cfg.Output.Pretty)
}

// searchMode ingests the source into an in-memory index over the
// schema's searchable fields and hands the terminal an interactive
// prompt.
func searchMode(ctx context.Context, cfg *config.Config, logger *zap.Logger) error {
	src, _, err := buildSource(cfg)
	if err != nil {
		return err
	}

	sc, err := loadSchema(cfg.Ingest.SchemaPath)
	if err != nil {
		return err
	}

	policy, err := ingest.ParsePolicy(cfg.Ingest.OnError)
	if err != nil {
		return err
	}

	ix, err := search.NewIndex(sc.Searchable)
	if err != nil {
		return err
	}

	stream, err := ingest.New(sc, policy, logger).Open(ctx, src)
	if err != nil {
		return err
	}
	defer stream.Close()

	for {
		rec, err := stream.Next()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return err
		}
		ix.Add(rec)
	}

	logger.Info("index ready",
		zap.Int("records", ix.Len()),
		zap.Int64("skipped", stream.Skipped()))

	return search.Prompt(os.Stdin, os.Stdout, ix)
}

// buildSource resolves the configured source format and path. A
// positional argument overrides ROLLCALL_SOURCE_PATH.
func buildSource(cfg *config.Config) (source.Source, string, error) {
	path := cfg.Source.Path
	if len(os.Args) > 1 {
		path = os.Args[1]
	}
	if path == "" {
		return nil, "", errors.New("no source path: set ROLLCALL_SOURCE_PATH or pass a file argument")
	}

	ctor, err := source.Get(cfg.Source.Format)
	if err != nil {
		return nil, "", err
	}

	srcCfg := source.Config{Path: path}
	if cfg.Source.Delimiter != "" {
		srcCfg.Extra = map[string]string{"delimiter": cfg.Source.Delimiter}
	}
	return ctor(srcCfg), path, nil
}

func loadSchema(path string) (*schema.Schema, error) {
	if path == "" {
		return schema.Default(), nil
	}
	return schema.Load(path)
}

func buildMetrics(spec string) ([]aggregate.Metric, error) {
	if spec == "" {
		return aggregate.DefaultMetrics(), nil
	}
	return aggregate.ParseMetrics(spec)
}

// datasetKey falls back to "<file stem>-<run date>" so repeated runs
// over the same export land under a stable, dated key.
func datasetKey(configured, path string) string {
	if configured != "" {
		return configured
	}
	stem := strings.TrimSuffix(filepath.Base(path), filepath.Ext(path))
	return stem + "-" + time.Now().Format("2006-01-02")
}

// buildStore opens every backend named in ROLLCALL_STORE. Zero names
// disables persistence; several names fan out through a multi store.
func buildStore(cfg config.StoreConfig) (store.Store, error) {
	var names []string
	for _, name := range strings.Split(cfg.Backends, ",") {
		if name = strings.TrimSpace(name); name != "" {
			names = append(names, name)
		}
	}
	if len(names) == 0 {
		return nil, nil
	}

	storeCfg := store.Config{
		FileRoot:   cfg.FileRoot,
		SQLitePath: cfg.SQLitePath,
		RedisAddr:  cfg.RedisAddr,
		RedisTTL:   cfg.RedisTTL,
	}

	stores := make([]store.Store, 0, len(names))
	for _, name := range names {
		ctor, err := store.Get(name)
		if err != nil {
			closeStores(stores)
			return nil, err
		}
		st, err := ctor(storeCfg)
		if err != nil {
			closeStores(stores)
			return nil, fmt.Errorf("open %s store: %w", name, err)
		}
		stores = append(stores, st)
	}

	if len(stores) == 1 {
		return stores[0], nil
	}
	return multistore.New(stores...), nil
}

func closeStores(stores []store.Store) {
	for _, st := range stores {
		st.Close()
	}
}

// renderResult prints a single stored result: the metric block layout
// for text, the report encoder settings for JSON.
func renderResult(w io.Writer, key string, res *model.MetricResult, format report.Format, pretty bool) error {
	if format == report.JSON {
		enc := json.NewEncoder(w)
		if pretty {
			enc.SetIndent("", "  ")
		}
		return enc.Encode(res)
	}

	if _, err := fmt.Fprintf(w, "%s (%s):\n", key, res.Kind()); err != nil {
		return err
	}
	for _, k := range res.Keys() {
		v, _ := res.Get(k)
		if _, err := fmt.Fprintf(w, "%s: %s\n", k, strconv.FormatFloat(v, 'f', -1, 64)); err != nil {
			return err
		}
	}
	return nil
}
