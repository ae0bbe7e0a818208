// Package visibility decides which decoded props are visible to clients,
// combining the prop class catalog with the compiled feature table.
package visibility

import (
	"errors"
	"fmt"
	"strings"

	"github.com/udisondev/rewpa/internal/propdb"
	"github.com/udisondev/rewpa/internal/world"
)

// ErrUnknownClass is returned for a prop whose class id is not in the catalog.
var ErrUnknownClass = errors.New("unknown prop class")

// Marker in a class string id for event-only content.
const eventMarker = "/event/"

// DefaultPseudoFeatures are feature names used by prop classes that do not
// exist in the compiled feature table.
var DefaultPseudoFeatures = map[string]bool{
	"gfEnable":  true,
	"gfDisable": false,
}

// Catalog looks up prop classes by id.
type Catalog interface {
	Lookup(classID int32) (propdb.Class, bool)
}

// Features evaluates feature expressions such as "gfFoo" or "-401".
type Features interface {
	IsEnabled(featureName string) (bool, error)
}

// Filter is a world.PropFilter backed by a catalog and a feature table.
// It is read-only after construction and safe for concurrent use.
type Filter struct {
	catalog  Catalog
	features Features
	pseudo   map[string]bool
}

var _ world.PropFilter = (*Filter)(nil)

// NewFilter creates a filter. A nil pseudo map selects DefaultPseudoFeatures.
func NewFilter(catalog Catalog, features Features, pseudo map[string]bool) *Filter {
	if pseudo == nil {
		pseudo = DefaultPseudoFeatures
	}
	return &Filter{catalog: catalog, features: features, pseudo: pseudo}
}

// KeepProp reports whether p is visible under the configured setting.
func (f *Filter) KeepProp(p *world.Prop) (bool, error) {
	class, ok := f.catalog.Lookup(p.ClassID)
	if !ok {
		return false, fmt.Errorf("%w: %d", ErrUnknownClass, p.ClassID)
	}

	enabled := true
	if feature, ok := class.Feature(); ok {
		var err error
		if enabled, err = f.featureEnabled(feature); err != nil {
			return false, fmt.Errorf("class %d feature %q: %w", class.ClassID, feature, err)
		}
	}

	// server-side event props stay hidden even with their feature on
	if class.UsedServer && strings.Contains(class.StringID, eventMarker) {
		return false, nil
	}
	return enabled, nil
}

func (f *Filter) featureEnabled(feature string) (bool, error) {
	name := strings.TrimSpace(feature)
	negate := strings.HasPrefix(name, "-")

	if v, ok := f.pseudo[strings.Trim(name, "-")]; ok {
		return v != negate, nil
	}
	return f.features.IsEnabled(name)
}
