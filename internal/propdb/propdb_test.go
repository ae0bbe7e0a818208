package propdb

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const sampleDB = `<?xml version="1.0" encoding="utf-8"?>
<PropClassList>
	<Category name="fence">
		<PropClass ClassID="41277" ClassName="fence_block" StringID="/fence/bangor/" UsedServer="True" ExtraXML="&lt;xml feature=&quot;-401&quot;/&gt;"/>
	</Category>
	<PropClass ClassID="45001" ClassName="lantern" StringID="/event/halloween/lantern/" UsedServer="true" ExtraXML="&lt;xml feature=&quot;halloween2010&quot;&gt;"/>
	<PropClass ClassID="100" ClassName="chair" StringID="/chair/" ExtraXML="&lt;xml sit_motion=&quot;98&quot;hideidle=&quot;true&quot;/&gt;"/>
	<PropClass ClassID="101" ClassName="rock"/>
</PropClassList>`

func TestLoad(t *testing.T) {
	c, err := Load(strings.NewReader(sampleDB))
	require.NoError(t, err)
	assert.Equal(t, 4, c.Len())

	fence, ok := c.Lookup(41277)
	require.True(t, ok)
	assert.Equal(t, "fence_block", fence.ClassName)
	assert.Equal(t, "/fence/bangor/", fence.StringID)
	assert.True(t, fence.UsedServer)
	feature, ok := fence.Feature()
	assert.True(t, ok)
	assert.Equal(t, "-401", feature)

	// unterminated snippet gets closed
	lantern, ok := c.Lookup(45001)
	require.True(t, ok)
	feature, _ = lantern.Feature()
	assert.Equal(t, "halloween2010", feature)

	// glued attributes get separated
	chair, ok := c.Lookup(100)
	require.True(t, ok)
	assert.False(t, chair.UsedServer)
	assert.Equal(t, "98", chair.Extra["sit_motion"])
	assert.Equal(t, "true", chair.Extra["hideidle"])
	_, ok = chair.Feature()
	assert.False(t, ok)

	rock, ok := c.Lookup(101)
	require.True(t, ok)
	assert.Empty(t, rock.StringID)
	assert.Empty(t, rock.Extra)

	_, ok = c.Lookup(7)
	assert.False(t, ok)
}

func TestLoad_BadClassID(t *testing.T) {
	_, err := Load(strings.NewReader(`<list><PropClass ClassID="abc"/></list>`))
	require.Error(t, err)
}

func TestLoad_Malformed(t *testing.T) {
	_, err := Load(strings.NewReader(`<list><PropClass ClassID="1"`))
	require.Error(t, err)
}

func TestNewCatalog(t *testing.T) {
	c := NewCatalog(
		Class{ClassID: 1, ClassName: "a"},
		Class{ClassID: 1, ClassName: "b"},
		Class{ClassID: 2},
	)

	assert.Equal(t, 2, c.Len())
	cls, ok := c.Lookup(1)
	require.True(t, ok)
	assert.Equal(t, "b", cls.ClassName)
}
