package world

import (
	"errors"
	"fmt"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/udisondev/rewpa/internal/packet"
)

type filterFunc func(p *Prop) (bool, error)

func (f filterFunc) KeepProp(p *Prop) (bool, error) { return f(p) }

func TestDecodeArea(t *testing.T) {
	for _, version := range []int16{202, 203, 204} {
		t.Run(fmt.Sprint(version), func(t *testing.T) {
			src := sampleArea(version)

			a, err := DecodeArea(encodeArea(src, encodingFor(src)), nil)
			require.NoError(t, err)

			assert.Equal(t, version, a.Version)
			assert.Equal(t, int16(3), a.AreaID)
			assert.Equal(t, int16(1), a.RegionID)
			assert.Equal(t, "Uladh", a.Server)
			assert.Equal(t, "main_field_a", a.Name)
			assert.Equal(t, []float32{100, 200, 3000, 4000}, []float32{a.X1, a.Y1, a.X2, a.Y2})

			require.Len(t, a.Props, 1)
			p := a.Props[0]
			assert.Equal(t, int32(100), p.ClassID)
			assert.Equal(t, int64(0x00A0000100030001), p.PropID)
			assert.Equal(t, "tree", p.Name)
			assert.Equal(t, float32(500), p.X)
			assert.Equal(t, float32(600), p.Y)
			assert.True(t, p.Solid)
			assert.Equal(t, float32(1.5), p.Scale)
			assert.Equal(t, float32(0.25), p.Direction)
			assert.Equal(t, "old tree", p.Title)
			assert.Equal(t, "normal", p.State)
			assert.Equal(t, src.Props[0].Shapes, p.Shapes)

			require.Len(t, a.Events, 1)
			ev := a.Events[0]
			assert.Equal(t, int64(0x00B0000100030001), ev.EventID)
			assert.Equal(t, "spawner", ev.Name)
			assert.Equal(t, int32(2000), ev.EventType)
			assert.Equal(t, src.Events[0].Shapes, ev.Shapes)
		})
	}
}

func TestDecodeArea_ParameterDedupe(t *testing.T) {
	src := sampleArea(204)

	a, err := DecodeArea(encodeArea(src, encodingFor(src)), nil)
	require.NoError(t, err)

	// props drop repeated parameters, events keep them
	assert.Equal(t, []Parameter{spawnParam, otherParam}, a.Props[0].Parameters)
	assert.Equal(t, []Parameter{spawnParam, spawnParam}, a.Events[0].Parameters)
}

func TestDecodeArea_DedupeIgnoresDefinition(t *testing.T) {
	src := sampleArea(204)
	redefined := spawnParam
	redefined.Definition = 7
	src.Props[0].Parameters = []Parameter{spawnParam, redefined, otherParam}
	src.Events[0].Parameters = []Parameter{spawnParam, redefined}

	a, err := DecodeArea(encodeArea(src, encodingFor(src)), nil)
	require.NoError(t, err)

	// the first occurrence wins, its definition byte kept as read
	assert.Equal(t, []Parameter{spawnParam, otherParam}, a.Props[0].Parameters)
	assert.Equal(t, []Parameter{spawnParam, redefined}, a.Events[0].Parameters)
}

func TestDecodeArea_VersionChecks(t *testing.T) {
	src := sampleArea(204)

	tests := []struct {
		name string
		enc  func(e *areaEncoding)
	}{
		{"too old", func(e *areaEncoding) { e.version, e.checkVersion = 201, 201 }},
		{"repeated version too old", func(e *areaEncoding) { e.checkVersion = 150 }},
		{"repeated prop count mismatch", func(e *areaEncoding) { e.propCheck = 7 }},
		{"negative event count", func(e *areaEncoding) { e.eventCount = -1 }},
		{"negative prop count", func(e *areaEncoding) { e.propCount, e.propCheck = -5, -5 }},
		// 204 header with the 203 pad: repeated version lands in the pad
		{"unexpected 203 pad", func(e *areaEncoding) { e.pad203 = true }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			enc := encodingFor(src)
			tt.enc(&enc)

			_, err := DecodeArea(encodeArea(src, enc), nil)
			require.ErrorIs(t, err, ErrFormatVersion)
		})
	}
}

func TestDecodeArea_HugeCounts(t *testing.T) {
	// header claims more records than the file holds
	src := &Area{Version: 204, AreaID: 1, RegionID: 1, Name: "empty"}

	tests := []struct {
		name string
		enc  func(e *areaEncoding)
	}{
		{"props", func(e *areaEncoding) { e.propCount, e.propCheck = math.MaxInt32, math.MaxInt32 }},
		{"events", func(e *areaEncoding) { e.eventCount = math.MaxInt32 }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			enc := encodingFor(src)
			tt.enc(&enc)

			_, err := DecodeArea(encodeArea(src, enc), nil)
			require.ErrorIs(t, err, packet.ErrNotEnoughData)
		})
	}
}

func TestDecodeArea_Truncated(t *testing.T) {
	src := sampleArea(202)
	data := encodeArea(src, encodingFor(src))

	for _, n := range []int{0, 1, 40, len(data) / 2, len(data) - 1} {
		_, err := DecodeArea(data[:n], nil)
		require.Error(t, err, "len %d", n)
		if !errors.Is(err, ErrFormatVersion) {
			assert.ErrorIs(t, err, packet.ErrNotEnoughData, "len %d", n)
		}
	}
}

func TestDecodeArea_DenyLists(t *testing.T) {
	src := sampleArea(204)
	base := src.Props[0]

	withClass := func(classID int32, id int64) *Prop {
		p := *base
		p.ClassID = classID
		p.PropID = id
		return &p
	}
	src.Props = []*Prop{
		withClass(blockingFenceClassID, 1),
		withClass(44000, 2),
		withClass(44001, 3),
		withClass(100, 4),
	}

	var seen []int64
	filter := filterFunc(func(p *Prop) (bool, error) {
		seen = append(seen, p.PropID)
		return true, nil
	})

	t.Run("regular area", func(t *testing.T) {
		seen = nil
		a, err := DecodeArea(encodeArea(src, encodingFor(src)), filter)
		require.NoError(t, err)

		assert.Equal(t, []int64{2, 3, 4}, propIDs(a))
		assert.Equal(t, []int64{2, 3, 4}, seen, "fence must not reach the filter")
	})

	t.Run("anniversary area", func(t *testing.T) {
		seen = nil
		anniversary := *src
		anniversary.Name = "field_Tir_S_aa"

		a, err := DecodeArea(encodeArea(&anniversary, encodingFor(&anniversary)), filter)
		require.NoError(t, err)

		assert.Equal(t, []int64{2, 4}, propIDs(a))
		assert.Equal(t, []int64{2, 4}, seen)
	})
}

func TestDecodeArea_Filter(t *testing.T) {
	src := sampleArea(204)

	t.Run("drop", func(t *testing.T) {
		a, err := DecodeArea(encodeArea(src, encodingFor(src)), filterFunc(func(*Prop) (bool, error) {
			return false, nil
		}))
		require.NoError(t, err)
		assert.Empty(t, a.Props)
		assert.Len(t, a.Events, 1, "events are never filtered")
	})

	t.Run("error", func(t *testing.T) {
		boom := errors.New("boom")
		_, err := DecodeArea(encodeArea(src, encodingFor(src)), filterFunc(func(*Prop) (bool, error) {
			return false, boom
		}))
		require.ErrorIs(t, err, boom)
	})
}

func propIDs(a *Area) []int64 {
	ids := make([]int64, 0, len(a.Props))
	for _, p := range a.Props {
		ids = append(ids, p.PropID)
	}
	return ids
}
