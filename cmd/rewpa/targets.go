package main

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"os"
	"sort"

	"github.com/udisondev/rewpa/internal/config"
	"github.com/udisondev/rewpa/internal/db"
	"github.com/udisondev/rewpa/internal/export"
	"github.com/udisondev/rewpa/internal/world"
)

type target struct {
	name       string
	desc       string
	defaultOut string
	export     func(ctx context.Context, cfg config.Converter, w *world.World, out string) error
}

var targets []target

func registerTarget(name, desc, defaultOut string, fn func(ctx context.Context, cfg config.Converter, w *world.World, out string) error) {
	targets = append(targets, target{name: name, desc: desc, defaultOut: defaultOut, export: fn})
}

func init() {
	registerTarget("dat", "Region data, gzip dump (regioninfo.dat)", "regioninfo.dat", toFile(export.WriteDat))
	registerTarget("spawns", "Spawn information (creaturespawns.txt)", "creaturespawns.txt", toFile(export.WriteSpawns))
	registerTarget("regions", "Region list (regions.txt)", "regions.txt", toFile(export.WriteRegions))
	registerTarget("db", "PostgreSQL tables (database section of the config)", "", saveToDB)
}

func lookupTarget(name string) (target, bool) {
	for _, t := range targets {
		if t.name == name {
			return t, true
		}
	}
	return target{}, false
}

func printTargets() {
	sorted := make([]target, len(targets))
	copy(sorted, targets)
	sort.Slice(sorted, func(i, j int) bool { return sorted[i].name < sorted[j].name })

	fmt.Println("Available export targets:")
	for _, t := range sorted {
		fmt.Printf("  %-10s %s\n", t.name, t.desc)
	}
}

// toFile adapts a writer based exporter to a file target.
func toFile(write func(io.Writer, *world.World) error) func(context.Context, config.Converter, *world.World, string) error {
	return func(_ context.Context, _ config.Converter, w *world.World, out string) error {
		f, err := os.Create(out)
		if err != nil {
			return fmt.Errorf("creating %s: %w", out, err)
		}

		bw := bufio.NewWriterSize(f, 256*1024)
		if err := write(bw, w); err != nil {
			f.Close()
			return err
		}
		if err := bw.Flush(); err != nil {
			f.Close()
			return fmt.Errorf("writing %s: %w", out, err)
		}
		return f.Close()
	}
}

func saveToDB(ctx context.Context, cfg config.Converter, w *world.World, _ string) error {
	dsn := cfg.Database.DSN()

	if err := db.RunMigrations(ctx, dsn); err != nil {
		return fmt.Errorf("running migrations: %w", err)
	}

	database, err := db.New(ctx, dsn)
	if err != nil {
		return fmt.Errorf("connecting to database: %w", err)
	}
	defer database.Close()

	return database.Worlds().Save(ctx, w)
}
