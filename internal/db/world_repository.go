package db

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/udisondev/rewpa/internal/world"
)

// Shape owner kinds in the shapes table.
const (
	ownerProp  = "p"
	ownerEvent = "e"
)

// worldTables in dependency order; TRUNCATE lists them all at once.
var worldTables = []string{
	"regions", "areas", "props", "prop_parameters", "events", "event_parameters", "shapes",
}

// RegionRow is a short region listing entry.
type RegionRow struct {
	ID     int32
	Name   string
	Indoor bool
}

// WorldRepository stores a converted world.
type WorldRepository struct {
	db *pgxpool.Pool
}

// NewWorldRepository creates a new WorldRepository.
func NewWorldRepository(db *pgxpool.Pool) *WorldRepository {
	return &WorldRepository{db: db}
}

// worldRows holds COPY rows per table.
type worldRows struct {
	regions, areas      [][]any
	props, propParams   [][]any
	events, eventParams [][]any
	shapes              [][]any
}

func collectRows(w *world.World) *worldRows {
	rows := &worldRows{}

	for ri, rg := range w.Regions {
		rows.regions = append(rows.regions, []any{
			int32(ri), rg.RegionID, rg.GroupID, rg.Name, rg.ClientName, rg.Version,
			rg.CellSize, int16(rg.Sight), rg.AreaType, rg.IndoorType,
			rg.Scene, rg.Camera, rg.Light, rg.XML,
		})

		for ai, a := range rg.Areas {
			rows.areas = append(rows.areas, []any{
				int32(ri), int32(ai), a.AreaID, a.RegionID, a.Version, a.Server, a.Name,
				a.X1, a.Y1, a.X2, a.Y2,
			})

			for pi, p := range a.Props {
				rows.props = append(rows.props, []any{
					int32(ri), int32(ai), int32(pi), p.PropID, p.ClassID, p.Name,
					p.X, p.Y, p.Solid, p.Scale, p.Direction, p.Title, p.State,
				})
				for ki, prm := range p.Parameters {
					rows.propParams = append(rows.propParams, []any{
						int32(ri), int32(ai), int32(pi), int32(ki),
						prm.EventType, prm.SignalType, prm.Name, prm.XML,
					})
				}
				rows.addShapes(int32(ri), int32(ai), ownerProp, int32(pi), p.Shapes)
			}

			for ei, ev := range a.Events {
				rows.events = append(rows.events, []any{
					int32(ri), int32(ai), int32(ei), ev.EventID, ev.Name, ev.X, ev.Y, ev.EventType,
				})
				for ki, prm := range ev.Parameters {
					rows.eventParams = append(rows.eventParams, []any{
						int32(ri), int32(ai), int32(ei), int32(ki),
						prm.EventType, prm.SignalType, prm.Name, prm.XML,
					})
				}
				rows.addShapes(int32(ri), int32(ai), ownerEvent, int32(ei), ev.Shapes)
			}
		}
	}

	return rows
}

func (r *worldRows) addShapes(region, area int32, kind string, owner int32, shapes []world.Shape) {
	for si, s := range shapes {
		r.shapes = append(r.shapes, []any{
			region, area, kind, owner, int32(si),
			s.DirX1, s.DirX2, s.DirY1, s.DirY2, s.LenX, s.LenY, s.Type, s.PosX, s.PosY,
		})
	}
}

// SaveTx replaces the stored world within a transaction.
func (r *WorldRepository) SaveTx(ctx context.Context, tx pgx.Tx, w *world.World) error {
	start := time.Now()

	if _, err := tx.Exec(ctx, "TRUNCATE "+strings.Join(worldTables, ", ")); err != nil {
		return fmt.Errorf("truncating world tables: %w", err)
	}

	rows := collectRows(w)
	copies := []struct {
		table   string
		columns []string
		rows    [][]any
	}{
		{"regions", []string{
			"region_ordinal", "region_id", "group_id", "name", "client_name", "version",
			"cell_size", "sight", "area_type", "indoor_type", "scene", "camera", "light", "xml",
		}, rows.regions},
		{"areas", []string{
			"region_ordinal", "area_ordinal", "area_id", "region_id", "version", "server", "name",
			"x1", "y1", "x2", "y2",
		}, rows.areas},
		{"props", []string{
			"region_ordinal", "area_ordinal", "prop_ordinal", "prop_id", "class_id", "name",
			"x", "y", "solid", "scale", "direction", "title", "state",
		}, rows.props},
		{"prop_parameters", []string{
			"region_ordinal", "area_ordinal", "prop_ordinal", "param_ordinal",
			"event_type", "signal_type", "name", "xml",
		}, rows.propParams},
		{"events", []string{
			"region_ordinal", "area_ordinal", "event_ordinal", "event_id", "name", "x", "y", "event_type",
		}, rows.events},
		{"event_parameters", []string{
			"region_ordinal", "area_ordinal", "event_ordinal", "param_ordinal",
			"event_type", "signal_type", "name", "xml",
		}, rows.eventParams},
		{"shapes", []string{
			"region_ordinal", "area_ordinal", "owner_kind", "owner_ordinal", "shape_ordinal",
			"dir_x1", "dir_x2", "dir_y1", "dir_y2", "len_x", "len_y", "shape_type", "pos_x", "pos_y",
		}, rows.shapes},
	}

	for _, c := range copies {
		if len(c.rows) == 0 {
			continue
		}
		n, err := tx.CopyFrom(ctx, pgx.Identifier{c.table}, c.columns, pgx.CopyFromRows(c.rows))
		if err != nil {
			return fmt.Errorf("copying %s: %w", c.table, err)
		}
		slog.Debug("copied world rows", "table", c.table, "rows", n)
	}

	slog.Info("world saved",
		"regions", len(rows.regions),
		"areas", len(rows.areas),
		"props", len(rows.props),
		"events", len(rows.events),
		"took", time.Since(start).Round(time.Millisecond))

	return nil
}

// Save replaces the stored world (standalone, creates own transaction).
func (r *WorldRepository) Save(ctx context.Context, w *world.World) error {
	tx, err := r.db.Begin(ctx)
	if err != nil {
		return fmt.Errorf("begin transaction: %w", err)
	}
	defer func() {
		if err := tx.Rollback(ctx); err != nil && !errors.Is(err, pgx.ErrTxClosed) {
			slog.Error("rollback failed", "error", err)
		}
	}()

	if err := r.SaveTx(ctx, tx, w); err != nil {
		return err
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("commit transaction: %w", err)
	}

	return nil
}

// Regions lists stored regions in canonical order.
func (r *WorldRepository) Regions(ctx context.Context) ([]RegionRow, error) {
	query := `
		SELECT region_id, client_name, indoor_type
		FROM regions
		ORDER BY region_ordinal
	`

	rows, err := r.db.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("querying regions: %w", err)
	}
	defer rows.Close()

	var regions []RegionRow
	for rows.Next() {
		var row RegionRow
		var indoorType int32
		if err := rows.Scan(&row.ID, &row.Name, &indoorType); err != nil {
			return nil, fmt.Errorf("scanning region row: %w", err)
		}
		row.Indoor = indoorType == world.IndoorTypeIndoor
		regions = append(regions, row)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating region rows: %w", err)
	}

	return regions, nil
}

// Stats counts the stored entities.
func (r *WorldRepository) Stats(ctx context.Context) (world.Stats, error) {
	var s world.Stats
	err := r.db.QueryRow(ctx, `
		SELECT
			(SELECT count(*) FROM regions),
			(SELECT count(*) FROM areas),
			(SELECT count(*) FROM props),
			(SELECT count(*) FROM events)
	`).Scan(&s.Regions, &s.Areas, &s.Props, &s.Events)
	if err != nil {
		return s, fmt.Errorf("counting world rows: %w", err)
	}
	return s, nil
}

// PropIDs returns the prop ids of one stored area in canonical order.
func (r *WorldRepository) PropIDs(ctx context.Context, regionOrdinal, areaOrdinal int) ([]int64, error) {
	rows, err := r.db.Query(ctx, `
		SELECT prop_id FROM props
		WHERE region_ordinal = $1 AND area_ordinal = $2
		ORDER BY prop_ordinal
	`, regionOrdinal, areaOrdinal)
	if err != nil {
		return nil, fmt.Errorf("querying props: %w", err)
	}

	ids, err := pgx.CollectRows(rows, pgx.RowTo[int64])
	if err != nil {
		return nil, fmt.Errorf("collecting props: %w", err)
	}
	return ids, nil
}
