package world

import (
	"fmt"

	"github.com/udisondev/rewpa/internal/packet"
)

// MinAreaVersion is the oldest .area layout the decoder understands.
const MinAreaVersion = 202

// Opaque regions of the .area layout, in stream order. Their meaning is
// unknown but their width is fixed; any drift corrupts every later read.
const (
	areaVersionPad  = 0x02 + 0x04 // after version
	areaNamesPad    = 0x10        // after area name
	areaBoundsLead  = 0x14        // after prop count, before X1
	areaBoundsGapXY = 0x04        // between X1/Y1 and X2/Y2
	areaBoundsTail  = 0x0C        // after Y1 and after Y2
	areaV203Pad     = 0x04        // only in version 203
	areaCheckPad    = 0x02        // between repeated version and prop count

	objectZPad     = 0x04 // after X/Y of props and events, probably Z
	shapeHeaderGap = 0x04 // after shape count
	propSolidPad   = 0x01 // after solid flag
	propColorsSize = 0x40
)

// Smallest encodings of a prop and an event: empty strings, no shapes,
// no parameters.
const (
	minPropSize  = 4 + 8 + 2 + 8 + objectZPad + 1 + shapeHeaderGap + 1 + propSolidPad + 4 + 4 + propColorsSize + 2 + 2 + 1
	minEventSize = 8 + 2 + 8 + objectZPad + 1 + shapeHeaderGap + 4 + 1
)

// Legacy content that is dropped regardless of feature settings.
const (
	// Blocking fence used in Bangor and Sen Mag in early generations,
	// enabled only before G4 (feature "-401").
	blockingFenceClassID = 41277

	// Tir Chonaill anniversary decorations.
	anniversaryClassIDMin = 44000
)

var anniversaryAreas = map[string]struct{}{
	"field_Tir_S_aa": {},
	"field_Tir_S_ba": {},
}

// areaLayout selects version dependent parts of the .area header.
type areaLayout int

const (
	areaLayout202 areaLayout = iota
	areaLayout203
	areaLayout204
)

func areaLayoutFor(version int16) (areaLayout, error) {
	switch {
	case version < MinAreaVersion:
		return 0, fmt.Errorf("%w: area version %d", ErrFormatVersion, version)
	case version == 202:
		return areaLayout202, nil
	case version == 203:
		return areaLayout203, nil
	default:
		return areaLayout204, nil
	}
}

// headerPad returns the width of the opaque block before the repeated version.
func (l areaLayout) headerPad() int {
	if l == areaLayout203 {
		return areaV203Pad
	}
	return 0
}

// PropFilter decides whether a decoded prop is kept. It is consulted after
// the fixed legacy deny lists. Implementations must be safe for concurrent use.
type PropFilter interface {
	KeepProp(p *Prop) (bool, error)
}

// DecodeArea decodes one .area file. A nil filter applies only the fixed
// deny lists.
func DecodeArea(data []byte, filter PropFilter) (*Area, error) {
	r := packet.NewReader(data)
	a := &Area{}

	version, err := r.ReadShort()
	if err != nil {
		return nil, fmt.Errorf("reading version: %w", err)
	}
	layout, err := areaLayoutFor(version)
	if err != nil {
		return nil, err
	}
	a.Version = version

	eventCount, propCount, err := readAreaHeader(r, a, layout)
	if err != nil {
		return nil, err
	}

	a.Props = make([]*Prop, 0, capHint(propCount, r, minPropSize))
	for i := range int(propCount) {
		p, err := readProp(r)
		if err != nil {
			return nil, fmt.Errorf("reading prop %d: %w", i, err)
		}

		keep, err := keepProp(a.Name, p, filter)
		if err != nil {
			return nil, fmt.Errorf("filtering prop %d (class %d): %w", p.PropID, p.ClassID, err)
		}
		if keep {
			a.Props = append(a.Props, p)
		}
	}

	a.Events = make([]*Event, 0, capHint(eventCount, r, minEventSize))
	for i := range int(eventCount) {
		ev, err := readEvent(r)
		if err != nil {
			return nil, fmt.Errorf("reading event %d: %w", i, err)
		}
		a.Events = append(a.Events, ev)
	}

	return a, nil
}

func readAreaHeader(r *packet.Reader, a *Area, layout areaLayout) (eventCount, propCount int32, err error) {
	fail := func(field string, err error) (int32, int32, error) {
		return 0, 0, fmt.Errorf("reading %s: %w", field, err)
	}

	if err := r.Skip(areaVersionPad); err != nil {
		return fail("header", err)
	}
	if a.AreaID, err = r.ReadShort(); err != nil {
		return fail("area id", err)
	}
	if a.RegionID, err = r.ReadShort(); err != nil {
		return fail("region id", err)
	}
	if a.Server, err = r.ReadString(); err != nil {
		return fail("server", err)
	}
	if a.Name, err = r.ReadString(); err != nil {
		return fail("name", err)
	}
	if err := r.Skip(areaNamesPad); err != nil {
		return fail("header", err)
	}
	if eventCount, err = r.ReadInt(); err != nil {
		return fail("event count", err)
	}
	if propCount, err = r.ReadInt(); err != nil {
		return fail("prop count", err)
	}
	if eventCount < 0 || propCount < 0 {
		return 0, 0, fmt.Errorf("%w: negative counts (events %d, props %d)",
			ErrFormatVersion, eventCount, propCount)
	}

	bounds := []struct {
		dst *float32
		pad int
	}{
		{&a.X1, areaBoundsGapXY},
		{&a.Y1, areaBoundsTail},
		{&a.X2, areaBoundsGapXY},
		{&a.Y2, areaBoundsTail + layout.headerPad()},
	}
	if err := r.Skip(areaBoundsLead); err != nil {
		return fail("bounds", err)
	}
	for _, b := range bounds {
		if *b.dst, err = r.ReadFloat(); err != nil {
			return fail("bounds", err)
		}
		if err := r.Skip(b.pad); err != nil {
			return fail("bounds", err)
		}
	}

	checkVersion, err := r.ReadShort()
	if err != nil {
		return fail("repeated version", err)
	}
	if err := r.Skip(areaCheckPad); err != nil {
		return fail("repeated version", err)
	}
	propCountCheck, err := r.ReadInt()
	if err != nil {
		return fail("repeated prop count", err)
	}
	if checkVersion < MinAreaVersion || propCountCheck != propCount {
		return 0, 0, fmt.Errorf("%w: repeated version %d, prop count %d != %d",
			ErrFormatVersion, checkVersion, propCountCheck, propCount)
	}

	return eventCount, propCount, nil
}

func keepProp(areaName string, p *Prop, filter PropFilter) (bool, error) {
	if p.ClassID == blockingFenceClassID {
		return false, nil
	}
	if _, ok := anniversaryAreas[areaName]; ok && p.ClassID > anniversaryClassIDMin {
		return false, nil
	}
	if filter == nil {
		return true, nil
	}
	return filter.KeepProp(p)
}

func readProp(r *packet.Reader) (*Prop, error) {
	p := &Prop{}
	var err error

	if p.ClassID, err = r.ReadInt(); err != nil {
		return nil, err
	}
	if p.PropID, err = r.ReadLong(); err != nil {
		return nil, err
	}
	if p.Name, err = r.ReadString(); err != nil {
		return nil, err
	}
	if p.X, p.Y, err = readPosition(r); err != nil {
		return nil, err
	}
	if p.Shapes, err = readShapes(r); err != nil {
		return nil, err
	}

	solid, err := r.ReadByte()
	if err != nil {
		return nil, err
	}
	p.Solid = solid != 0
	if err := r.Skip(propSolidPad); err != nil {
		return nil, err
	}

	if p.Scale, err = r.ReadFloat(); err != nil {
		return nil, err
	}
	if p.Direction, err = r.ReadFloat(); err != nil {
		return nil, err
	}
	if err := r.Skip(propColorsSize); err != nil {
		return nil, err
	}
	if p.Title, err = r.ReadString(); err != nil {
		return nil, err
	}
	if p.State, err = r.ReadString(); err != nil {
		return nil, err
	}
	if p.Parameters, err = readParameters(r, true); err != nil {
		return nil, err
	}

	return p, nil
}

func readEvent(r *packet.Reader) (*Event, error) {
	ev := &Event{}
	var err error

	if ev.EventID, err = r.ReadLong(); err != nil {
		return nil, err
	}
	if ev.Name, err = r.ReadString(); err != nil {
		return nil, err
	}
	if ev.X, ev.Y, err = readPosition(r); err != nil {
		return nil, err
	}
	if ev.Shapes, err = readShapes(r); err != nil {
		return nil, err
	}
	if ev.EventType, err = r.ReadInt(); err != nil {
		return nil, err
	}
	if ev.Parameters, err = readParameters(r, false); err != nil {
		return nil, err
	}

	return ev, nil
}

// capHint bounds a header count by the number of records of at least
// minSize bytes the rest of the input can hold.
func capHint(count int32, r *packet.Reader, minSize int) int {
	if n := r.Remaining() / minSize; int(count) > n {
		return n
	}
	return int(count)
}

// readPosition reads X, Y and skips the trailing coordinate.
func readPosition(r *packet.Reader) (x, y float32, err error) {
	if x, err = r.ReadFloat(); err != nil {
		return 0, 0, err
	}
	if y, err = r.ReadFloat(); err != nil {
		return 0, 0, err
	}
	if err = r.Skip(objectZPad); err != nil {
		return 0, 0, err
	}
	return x, y, nil
}
