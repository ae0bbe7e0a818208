package visibility

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/udisondev/rewpa/internal/propdb"
	"github.com/udisondev/rewpa/internal/world"
)

// fakeFeatures enables names listed as true; "-" negates like the real table.
type fakeFeatures struct {
	enabled map[string]bool
	err     error
	calls   []string
}

func (f *fakeFeatures) IsEnabled(name string) (bool, error) {
	f.calls = append(f.calls, name)
	if f.err != nil {
		return false, f.err
	}
	if len(name) > 0 && name[0] == '-' {
		return !f.enabled[name[1:]], nil
	}
	return f.enabled[name], nil
}

func class(id int32, stringID string, usedServer bool, feature string) propdb.Class {
	c := propdb.Class{ClassID: id, StringID: stringID, UsedServer: usedServer, Extra: map[string]string{}}
	if feature != "" {
		c.Extra["feature"] = feature
	}
	return c
}

func testCatalog() *propdb.Catalog {
	return propdb.NewCatalog(
		class(1, "/prop/tree/", false, ""),
		class(2, "/prop/lamp/", false, "gfOn"),
		class(3, "/prop/lamp/", false, "gfOff"),
		class(4, "/prop/lamp/", false, "-gfOn"),
		class(5, "/prop/event/xmas/", true, "gfOn"),
		class(6, "/prop/event/xmas/", false, "gfOn"),
		class(7, "/prop/event/xmas/", true, ""),
		class(8, "/prop/sign/", false, "gfDisable"),
		class(9, "/prop/sign/", false, "-gfDisable"),
		class(10, "/prop/sign/", false, "gfEnable"),
	)
}

func TestFilter_KeepProp(t *testing.T) {
	feats := &fakeFeatures{enabled: map[string]bool{"gfOn": true}}
	f := NewFilter(testCatalog(), feats, nil)

	tests := []struct {
		classID int32
		want    bool
	}{
		{1, true},  // no feature
		{2, true},  // enabled feature
		{3, false}, // disabled feature
		{4, false}, // negated
		{5, false}, // server-side event content
		{6, true},  // event marker without server use
		{7, false}, // server-side event content, no feature
		{8, false}, // pseudo off
		{9, true},  // pseudo off, negated
		{10, true}, // pseudo on
	}

	for _, tt := range tests {
		got, err := f.KeepProp(&world.Prop{ClassID: tt.classID})
		require.NoError(t, err)
		assert.Equal(t, tt.want, got, "class %d", tt.classID)
	}

	assert.NotContains(t, feats.calls, "gfDisable", "pseudo features must not reach the table")
	assert.NotContains(t, feats.calls, "gfEnable")
}

func TestFilter_UnknownClass(t *testing.T) {
	f := NewFilter(testCatalog(), &fakeFeatures{}, nil)

	_, err := f.KeepProp(&world.Prop{ClassID: 999})
	require.ErrorIs(t, err, ErrUnknownClass)
}

func TestFilter_FeatureError(t *testing.T) {
	boom := errors.New("malformed")
	f := NewFilter(testCatalog(), &fakeFeatures{err: boom}, nil)

	_, err := f.KeepProp(&world.Prop{ClassID: 2})
	require.ErrorIs(t, err, boom)

	// classes without a feature never consult the table
	ok, err := f.KeepProp(&world.Prop{ClassID: 1})
	require.NoError(t, err)
	assert.True(t, ok)
}

func TestFilter_CustomPseudo(t *testing.T) {
	f := NewFilter(testCatalog(), &fakeFeatures{}, map[string]bool{"gfOn": true})

	// gfOn is now pseudo; the fake table would report it disabled
	ok, err := f.KeepProp(&world.Prop{ClassID: 2})
	require.NoError(t, err)
	assert.True(t, ok)

	// the default pseudo set is replaced, not merged
	ok, err = f.KeepProp(&world.Prop{ClassID: 10})
	require.NoError(t, err)
	assert.False(t, ok)
}
