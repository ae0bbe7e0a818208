// Package export renders a decoded world into the server side formats:
// the gzip region dump (regioninfo.dat) and the text reports.
//
// All writers expect the world in canonical order (world.World.Sort) and
// produce byte identical output for identical input.
package export

import (
	"fmt"
	"io"
	"math"

	"github.com/klauspost/compress/gzip"

	"github.com/udisondev/rewpa/internal/packet"
	"github.com/udisondev/rewpa/internal/world"
)

// Initial capacity of the uncompressed dump buffer.
const datBufferSize = 4 << 20

// WriteDat writes the gzip compressed region dump to w.
func WriteDat(w io.Writer, wd *world.World) error {
	buf := packet.NewWriter(datBufferSize)
	encodeWorld(buf, wd)

	zw, err := gzip.NewWriterLevel(w, gzip.BestCompression)
	if err != nil {
		return fmt.Errorf("creating gzip writer: %w", err)
	}
	if _, err := buf.WriteTo(zw); err != nil {
		zw.Close()
		return fmt.Errorf("writing dump: %w", err)
	}
	if err := zw.Close(); err != nil {
		return fmt.Errorf("flushing dump: %w", err)
	}
	return nil
}

func encodeWorld(w *packet.Writer, wd *world.World) {
	w.WriteInt(int32(len(wd.Regions)))
	for _, rg := range wd.Regions {
		encodeRegion(w, rg)
	}
}

// regionBounds returns the union of the area bounds, truncated to integers.
// A region without areas yields (MaxInt32, MaxInt32, 0, 0).
func regionBounds(rg *world.Region) (x1, y1, x2, y2 int32) {
	x1, y1 = math.MaxInt32, math.MaxInt32
	for _, a := range rg.Areas {
		if a.X1 < float32(x1) {
			x1 = int32(a.X1)
		}
		if a.Y1 < float32(y1) {
			y1 = int32(a.Y1)
		}
		if a.X2 > float32(x2) {
			x2 = int32(a.X2)
		}
		if a.Y2 > float32(y2) {
			y2 = int32(a.Y2)
		}
	}
	return x1, y1, x2, y2
}

func encodeRegion(w *packet.Writer, rg *world.Region) {
	w.WriteInt(rg.RegionID)
	w.WriteString(rg.Name)
	w.WriteInt(rg.GroupID)

	x1, y1, x2, y2 := regionBounds(rg)
	w.WriteInt(x1)
	w.WriteInt(y1)
	w.WriteInt(x2)
	w.WriteInt(y2)

	w.WriteInt(int32(len(rg.Areas)))
	for _, a := range rg.Areas {
		encodeArea(w, a)
	}
}

func encodeArea(w *packet.Writer, a *world.Area) {
	w.WriteInt(int32(a.AreaID))
	w.WriteString(a.Name)
	w.WriteInt(int32(a.X1))
	w.WriteInt(int32(a.Y1))
	w.WriteInt(int32(a.X2))
	w.WriteInt(int32(a.Y2))

	w.WriteInt(int32(len(a.Props)))
	for _, p := range a.Props {
		w.WriteLong(p.PropID)
		w.WriteInt(p.ClassID)
		w.WriteString(p.Name)
		w.WriteFloat(p.X)
		w.WriteFloat(p.Y)
		w.WriteFloat(p.Direction)
		w.WriteFloat(p.Scale)
		w.WriteString(p.Title)
		w.WriteString(p.State)
		encodeShapes(w, p.Shapes)
		encodeParameters(w, p.Parameters)
	}

	w.WriteInt(int32(len(a.Events)))
	for _, ev := range a.Events {
		w.WriteLong(ev.EventID)
		w.WriteString(ev.Name)
		w.WriteFloat(ev.X)
		w.WriteFloat(ev.Y)
		w.WriteInt(ev.EventType)
		encodeShapes(w, ev.Shapes)
		encodeParameters(w, ev.Parameters)
	}
}

// Shape type is not part of the dump.
func encodeShapes(w *packet.Writer, shapes []world.Shape) {
	w.WriteInt(int32(len(shapes)))
	for _, s := range shapes {
		w.WriteFloat(s.DirX1)
		w.WriteFloat(s.DirX2)
		w.WriteFloat(s.DirY1)
		w.WriteFloat(s.DirY2)
		w.WriteFloat(s.LenX)
		w.WriteFloat(s.LenY)
		w.WriteFloat(s.PosX)
		w.WriteFloat(s.PosY)
	}
}

func encodeParameters(w *packet.Writer, params []world.Parameter) {
	w.WriteInt(int32(len(params)))
	for _, p := range params {
		w.WriteInt(p.EventType)
		w.WriteInt(p.SignalType)
		w.WriteString(p.Name)
		w.WriteString(p.XML)
	}
}
