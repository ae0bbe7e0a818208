package world

import (
	"cmp"
	"context"
	"fmt"
	"io/fs"
	"log/slog"
	"path"
	"slices"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/udisondev/rewpa/internal/trn"
)

// Root directory of world files inside the data tree.
const worldDir = "world"

// RegionPath returns the path of a region file inside the data tree.
func RegionPath(workDir, fileName string) string {
	return path.Join(worldDir, workDir, fileName+".rgn")
}

// AreaPath returns the path of an area file inside the data tree.
func AreaPath(workDir, areaName string) string {
	return path.Join(worldDir, workDir, areaName+".area")
}

// Options configures a Decoder.
type Options struct {
	// Filter is consulted for every prop after the fixed deny lists.
	// nil keeps every prop that passes them.
	Filter PropFilter

	// NormalizeNames replaces Region.Name with its server slug.
	NormalizeNames bool
}

// Decoder reads region and area files from a data tree.
// Safe for concurrent use as long as the filter is.
type Decoder struct {
	fsys fs.FS
	opts Options
}

// NewDecoder creates a decoder over fsys (typically os.DirFS(dataDir)).
func NewDecoder(fsys fs.FS, opts Options) *Decoder {
	return &Decoder{fsys: fsys, opts: opts}
}

// ReadArea decodes world/<workDir>/<areaName>.area.
func (d *Decoder) ReadArea(workDir, areaName string) (*Area, error) {
	p := AreaPath(workDir, areaName)
	data, err := fs.ReadFile(d.fsys, p)
	if err != nil {
		return nil, fmt.Errorf("reading %s: %w", p, err)
	}

	area, err := DecodeArea(data, d.opts.Filter)
	if err != nil {
		return nil, fmt.Errorf("decoding %s: %w", p, err)
	}
	return area, nil
}

// ReadRegion decodes the region file named by ref and all of its areas.
func (d *Decoder) ReadRegion(ref trn.RegionRef) (*Region, error) {
	p := RegionPath(ref.WorkDir, ref.FileName)
	data, err := fs.ReadFile(d.fsys, p)
	if err != nil {
		return nil, fmt.Errorf("reading %s: %w", p, err)
	}

	rg, err := DecodeRegion(data, func(areaName string) (*Area, error) {
		return d.ReadArea(ref.WorkDir, areaName)
	})
	if err != nil {
		return nil, fmt.Errorf("decoding %s: %w", p, err)
	}

	if d.opts.NormalizeNames {
		rg.Name = NormalizeRegionName(rg.ClientName)
	}
	return rg, nil
}

// World is the full set of decoded regions.
type World struct {
	Regions []*Region
}

// Stats counts the decoded entities.
type Stats struct {
	Regions int
	Areas   int
	Props   int
	Events  int
}

// Stats returns entity counts over the whole world.
func (w *World) Stats() Stats {
	s := Stats{Regions: len(w.Regions)}
	for _, rg := range w.Regions {
		s.Areas += len(rg.Areas)
		for _, a := range rg.Areas {
			s.Props += len(a.Props)
			s.Events += len(a.Events)
		}
	}
	return s
}

// Sort puts the world in canonical order: regions by id, areas by id,
// props and events by their 64-bit ids. All sorts are stable, so entries
// with equal keys keep file order.
func (w *World) Sort() {
	slices.SortStableFunc(w.Regions, func(a, b *Region) int {
		return cmp.Compare(a.RegionID, b.RegionID)
	})

	for _, rg := range w.Regions {
		slices.SortStableFunc(rg.Areas, func(a, b *Area) int {
			return cmp.Compare(a.AreaID, b.AreaID)
		})

		for _, a := range rg.Areas {
			slices.SortStableFunc(a.Props, func(x, y *Prop) int {
				return cmp.Compare(x.PropID, y.PropID)
			})
			slices.SortStableFunc(a.Events, func(x, y *Event) int {
				return cmp.Compare(x.EventID, y.EventID)
			})
		}
	}
}

// LoadOptions configures Load.
type LoadOptions struct {
	// Workers bounds the number of region files decoded at once.
	// Values below 1 mean one.
	Workers int

	// SkipFailed logs and drops region files that fail to decode instead
	// of aborting the load.
	SkipFailed bool
}

// Load decodes every referenced region and returns the world in canonical
// order. Region files are independent and decoded in parallel; each file is
// read sequentially by its own cursor.
func Load(ctx context.Context, d *Decoder, refs []trn.RegionRef, opts LoadOptions) (*World, error) {
	start := time.Now()

	workers := max(opts.Workers, 1)
	regions := make([]*Region, len(refs))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(workers)

	for i, ref := range refs {
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}

			rg, err := d.ReadRegion(ref)
			if err != nil {
				if opts.SkipFailed {
					slog.Warn("skipping region", "workdir", ref.WorkDir, "file", ref.FileName, "err", err)
					return nil
				}
				return fmt.Errorf("region %d/%d %s: %w", i+1, len(refs), ref.FileName, err)
			}

			slog.Debug("region decoded",
				"n", i+1,
				"file", ref.FileName,
				"region_id", rg.RegionID,
				"areas", len(rg.Areas))
			regions[i] = rg
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}

	w := &World{Regions: make([]*Region, 0, len(regions))}
	for _, rg := range regions {
		if rg != nil {
			w.Regions = append(w.Regions, rg)
		}
	}
	w.Sort()

	st := w.Stats()
	slog.Info("world loaded",
		"regions", st.Regions,
		"areas", st.Areas,
		"props", st.Props,
		"events", st.Events,
		"skipped", len(refs)-st.Regions,
		"took", time.Since(start).Round(time.Millisecond))

	return w, nil
}
