// World converter: decodes the client world (world/*.rgn, *.area), applies
// prop visibility for a feature setting and exports the result.
//
// Usage:
//
//	rewpa -export dat -out regioninfo.dat
//	rewpa -export spawns
//	rewpa -export regions -config config/rewpa.yaml
//	rewpa -export db
//	rewpa -list
package main

import (
	"context"
	"flag"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/udisondev/rewpa/internal/config"
	"github.com/udisondev/rewpa/internal/features"
	"github.com/udisondev/rewpa/internal/propdb"
	"github.com/udisondev/rewpa/internal/trn"
	"github.com/udisondev/rewpa/internal/visibility"
	"github.com/udisondev/rewpa/internal/world"
)

const ConfigPath = "config/rewpa.yaml"

type options struct {
	configPath string
	dataDir    string
	target     string
	out        string
	list       bool
}

func main() {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		sig := <-sigCh
		slog.Info("shutting down", "signal", sig)
		cancel()
	}()

	opts := parseFlags()
	if opts.list {
		printTargets()
		return
	}

	if err := run(ctx, opts); err != nil {
		slog.Error("fatal", "err", err)
		os.Exit(1)
	}
}

func parseFlags() options {
	var opts options

	defaultConfig := ConfigPath
	if p := os.Getenv("REWPA_CONFIG"); p != "" {
		defaultConfig = p
	}

	flag.StringVar(&opts.configPath, "config", defaultConfig, "path to YAML config (env REWPA_CONFIG)")
	flag.StringVar(&opts.dataDir, "data", "", "client data directory (overrides data_dir)")
	flag.StringVar(&opts.target, "export", "dat", "export target, see -list")
	flag.StringVar(&opts.out, "out", "", "output path (default depends on target)")
	flag.BoolVar(&opts.list, "list", false, "list export targets")
	flag.Parse()

	return opts
}

func run(ctx context.Context, opts options) error {
	start := time.Now()

	cfg, err := config.LoadConverter(opts.configPath)
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}
	if opts.dataDir != "" {
		cfg.DataDir = opts.dataDir
	}

	slog.SetDefault(slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{
		Level: parseLogLevel(cfg.LogLevel),
	})))

	exp, ok := lookupTarget(opts.target)
	if !ok {
		return fmt.Errorf("unknown export target %q", opts.target)
	}

	slog.Info("rewpa starting",
		"data_dir", cfg.DataDir,
		"target", exp.name,
		"filter", cfg.FilterMode,
		"setting", cfg.FeatureSetting,
		"workers", cfg.Workers)

	fsys := os.DirFS(cfg.DataDir)

	refs, err := loadIndex(fsys, cfg.WorldIndex)
	if err != nil {
		return err
	}

	filter, err := buildFilter(fsys, cfg)
	if err != nil {
		return err
	}

	dec := world.NewDecoder(fsys, world.Options{
		Filter:         filter,
		NormalizeNames: cfg.NormalizeNames,
	})
	w, err := world.Load(ctx, dec, refs, world.LoadOptions{
		Workers:    cfg.Workers,
		SkipFailed: cfg.SkipFailed,
	})
	if err != nil {
		return fmt.Errorf("loading world: %w", err)
	}

	out := opts.out
	if out == "" {
		out = exp.defaultOut
	}
	if err := exp.export(ctx, cfg, w, out); err != nil {
		return fmt.Errorf("export %s: %w", exp.name, err)
	}

	slog.Info("done", "target", exp.name, "out", out, "took", time.Since(start).Round(time.Millisecond))
	return nil
}

func loadIndex(fsys fs.FS, path string) ([]trn.RegionRef, error) {
	f, err := fsys.Open(path)
	if err != nil {
		return nil, fmt.Errorf("opening world index: %w", err)
	}
	defer f.Close()

	refs, err := trn.Load(f)
	if err != nil {
		return nil, err
	}
	slog.Info("world index loaded", "path", path, "regions", len(refs))
	return refs, nil
}

// buildFilter returns nil in raw mode: only the fixed deny lists apply.
func buildFilter(fsys fs.FS, cfg config.Converter) (world.PropFilter, error) {
	if cfg.FilterMode == config.FilterRaw {
		return nil, nil
	}

	pf, err := fsys.Open(cfg.PropDB)
	if err != nil {
		return nil, fmt.Errorf("opening prop db: %w", err)
	}
	defer pf.Close()

	catalog, err := propdb.Load(pf)
	if err != nil {
		return nil, fmt.Errorf("loading prop db: %w", err)
	}

	ff, err := fsys.Open(cfg.FeaturesFile)
	if err != nil {
		return nil, fmt.Errorf("opening features: %w", err)
	}
	defer ff.Close()

	feats, err := features.Read(ff, cfg.FeatureSetting)
	if err != nil {
		return nil, fmt.Errorf("loading features: %w", err)
	}

	s := feats.Setting()
	slog.Info("features loaded",
		"setting", s.Name,
		"locale", s.Locale,
		"gs", s.GS(),
		"features", feats.FeatureCount())

	return visibility.NewFilter(catalog, feats, cfg.PseudoFeatures), nil
}

func parseLogLevel(level string) slog.Level {
	switch level {
	case "debug":
		return slog.LevelDebug
	case "info":
		return slog.LevelInfo
	case "warn":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}
