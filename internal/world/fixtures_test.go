package world

import "github.com/udisondev/rewpa/internal/packet"

// areaEncoding controls the header fields that DecodeArea cross-checks.
type areaEncoding struct {
	version      int16
	checkVersion int16
	eventCount   int32
	propCount    int32
	propCheck    int32 // repeated prop count
	pad203       bool
}

func encodingFor(a *Area) areaEncoding {
	return areaEncoding{
		version:      a.Version,
		checkVersion: a.Version,
		eventCount:   int32(len(a.Events)),
		propCount:    int32(len(a.Props)),
		propCheck:    int32(len(a.Props)),
		pad203:       a.Version == 203,
	}
}

// encodeArea writes a in the .area layout.
func encodeArea(a *Area, enc areaEncoding) []byte {
	w := packet.NewWriter(512)

	w.WriteShort(enc.version)
	w.WriteZeros(areaVersionPad)
	w.WriteShort(a.AreaID)
	w.WriteShort(a.RegionID)
	w.WriteString(a.Server)
	w.WriteString(a.Name)
	w.WriteZeros(areaNamesPad)
	w.WriteInt(enc.eventCount)
	w.WriteInt(enc.propCount)

	w.WriteZeros(areaBoundsLead)
	w.WriteFloat(a.X1)
	w.WriteZeros(areaBoundsGapXY)
	w.WriteFloat(a.Y1)
	w.WriteZeros(areaBoundsTail)
	w.WriteFloat(a.X2)
	w.WriteZeros(areaBoundsGapXY)
	w.WriteFloat(a.Y2)
	w.WriteZeros(areaBoundsTail)
	if enc.pad203 {
		w.WriteZeros(areaV203Pad)
	}

	w.WriteShort(enc.checkVersion)
	w.WriteZeros(areaCheckPad)
	w.WriteInt(enc.propCheck)

	for _, p := range a.Props {
		encodeProp(w, p)
	}
	for _, ev := range a.Events {
		encodeEvent(w, ev)
	}
	return w.Bytes()
}

func encodeProp(w *packet.Writer, p *Prop) {
	w.WriteInt(p.ClassID)
	w.WriteLong(p.PropID)
	w.WriteString(p.Name)
	encodePosition(w, p.X, p.Y)
	encodeShapes(w, p.Shapes)

	var solid byte
	if p.Solid {
		solid = 1
	}
	_ = w.WriteByte(solid)
	w.WriteZeros(propSolidPad)
	w.WriteFloat(p.Scale)
	w.WriteFloat(p.Direction)
	w.WriteZeros(propColorsSize)
	w.WriteString(p.Title)
	w.WriteString(p.State)
	encodeParameters(w, p.Parameters)
}

func encodeEvent(w *packet.Writer, ev *Event) {
	w.WriteLong(ev.EventID)
	w.WriteString(ev.Name)
	encodePosition(w, ev.X, ev.Y)
	encodeShapes(w, ev.Shapes)
	w.WriteInt(ev.EventType)
	encodeParameters(w, ev.Parameters)
}

func encodePosition(w *packet.Writer, x, y float32) {
	w.WriteFloat(x)
	w.WriteFloat(y)
	w.WriteFloat(0)
}

func encodeShapes(w *packet.Writer, shapes []Shape) {
	_ = w.WriteByte(byte(len(shapes)))
	w.WriteZeros(shapeHeaderGap)
	for _, s := range shapes {
		for _, f := range []float32{s.DirX1, s.DirX2, s.DirY1, s.DirY2, s.LenX, s.LenY} {
			w.WriteFloat(f)
		}
		w.WriteInt(s.Type)
		w.WriteFloat(s.PosX)
		w.WriteFloat(s.PosY)
		w.WriteZeros(shapeTrailerSize)
	}
}

func encodeParameters(w *packet.Writer, params []Parameter) {
	_ = w.WriteByte(byte(len(params)))
	for _, p := range params {
		_ = w.WriteByte(p.Definition)
		w.WriteInt(p.EventType)
		w.WriteInt(p.SignalType)
		w.WriteString(p.Name)
		w.WriteString(p.XML)
	}
}

// encodeRegion writes rg in the .rgn layout, listing areaNames as its areas.
func encodeRegion(rg *Region, areaNames []string) []byte {
	return encodeRegionCount(rg, areaNames, int32(len(areaNames)))
}

// encodeRegionCount is encodeRegion with an explicit header area count.
func encodeRegionCount(rg *Region, areaNames []string, areaCount int32) []byte {
	w := packet.NewWriter(256)

	w.WriteInt(rg.Version)
	w.WriteZeros(regionVersionPad)
	w.WriteInt(rg.RegionID)
	w.WriteInt(rg.GroupID)
	w.WriteString(rg.ClientName)
	w.WriteInt(rg.CellSize)
	_ = w.WriteByte(rg.Sight)
	w.WriteInt(areaCount)
	w.WriteZeros(regionHeaderPad)
	w.WriteInt(rg.AreaType)
	w.WriteInt(rg.IndoorType)
	w.WriteZeros(regionIndoorPad)
	w.WriteString(rg.Scene)
	w.WriteZeros(regionScenePad)
	w.WriteString(rg.Camera)
	w.WriteString(rg.Light)
	w.WriteZeros(regionLightPad)
	for _, name := range areaNames {
		w.WriteString(name)
	}
	w.WriteZeros(regionTrailerPad)
	w.WriteString(rg.XML)
	return w.Bytes()
}

var (
	spawnParam = Parameter{Definition: 1, EventType: 1, SignalType: 2, Name: "spawn", XML: `<xml group="3"/>`}
	otherParam = Parameter{Definition: 1, EventType: 4, SignalType: 5, Name: "say", XML: `<xml text="hi"/>`}
)

func sampleArea(version int16) *Area {
	return &Area{
		Version:  version,
		AreaID:   3,
		RegionID: 1,
		Server:   "Uladh",
		Name:     "main_field_a",
		X1:       100,
		Y1:       200,
		X2:       3000,
		Y2:       4000,
		Props: []*Prop{
			{
				ClassID:   100,
				PropID:    0x00A0000100030001,
				Name:      "tree",
				X:         500,
				Y:         600,
				Shapes:    []Shape{{DirX1: 1, DirY2: 1, LenX: 10, LenY: 20, Type: 1, PosX: 500, PosY: 600}},
				Solid:     true,
				Scale:     1.5,
				Direction: 0.25,
				Title:     "old tree",
				State:     "normal",
				Parameters: []Parameter{
					spawnParam, spawnParam, otherParam,
				},
			},
		},
		Events: []*Event{
			{
				EventID:    0x00B0000100030001,
				Name:       "spawner",
				X:          700,
				Y:          800,
				EventType:  2000,
				Shapes:     []Shape{{DirX1: 1, DirY2: 1, LenX: 5, LenY: 5, Type: 1, PosX: 700, PosY: 800}},
				Parameters: []Parameter{spawnParam, spawnParam},
			},
		},
	}
}
