package world

import (
	"fmt"

	"github.com/udisondev/rewpa/internal/packet"
)

// Indoor type sentinels; every region is exactly one of them.
const (
	IndoorTypeIndoor  = 100
	IndoorTypeOutdoor = 200
)

// Opaque regions of the .rgn layout, in stream order.
const (
	regionVersionPad = 0x04 // after version
	regionHeaderPad  = 0x34 // after area count
	regionIndoorPad  = 0x04 // after indoor type
	regionScenePad   = 0x2D // after scene
	regionLightPad   = 0x0C // after light
	regionTrailerPad = 0x1B // after area names

	minAreaNameSize = 2 // terminator of an empty name
)

// AreaResolver loads the area referenced by name from a region file.
type AreaResolver func(areaName string) (*Area, error)

// DecodeRegion decodes one .rgn file, resolving each listed area through
// resolve in file order.
func DecodeRegion(data []byte, resolve AreaResolver) (*Region, error) {
	r := packet.NewReader(data)
	rg := &Region{}
	var err error

	fail := func(field string, err error) (*Region, error) {
		return nil, fmt.Errorf("reading %s: %w", field, err)
	}

	if rg.Version, err = r.ReadInt(); err != nil {
		return fail("version", err)
	}
	if err := r.Skip(regionVersionPad); err != nil {
		return fail("header", err)
	}
	if rg.RegionID, err = r.ReadInt(); err != nil {
		return fail("region id", err)
	}
	if rg.GroupID, err = r.ReadInt(); err != nil {
		return fail("group id", err)
	}
	if rg.ClientName, err = r.ReadString(); err != nil {
		return fail("client name", err)
	}
	if rg.CellSize, err = r.ReadInt(); err != nil {
		return fail("cell size", err)
	}
	if rg.Sight, err = r.ReadByte(); err != nil {
		return fail("sight", err)
	}
	areaCount, err := r.ReadInt()
	if err != nil {
		return fail("area count", err)
	}
	if err := r.Skip(regionHeaderPad); err != nil {
		return fail("header", err)
	}
	if rg.AreaType, err = r.ReadInt(); err != nil {
		return fail("area type", err)
	}
	if rg.IndoorType, err = r.ReadInt(); err != nil {
		return fail("indoor type", err)
	}
	if err := r.Skip(regionIndoorPad); err != nil {
		return fail("header", err)
	}
	if rg.Scene, err = r.ReadString(); err != nil {
		return fail("scene", err)
	}
	if err := r.Skip(regionScenePad); err != nil {
		return fail("header", err)
	}
	if rg.Camera, err = r.ReadString(); err != nil {
		return fail("camera", err)
	}
	if rg.Light, err = r.ReadString(); err != nil {
		return fail("light", err)
	}
	if err := r.Skip(regionLightPad); err != nil {
		return fail("header", err)
	}

	if rg.IndoorType != IndoorTypeIndoor && rg.IndoorType != IndoorTypeOutdoor {
		return nil, fmt.Errorf("%w: %d", ErrUnknownIndoorType, rg.IndoorType)
	}
	if areaCount < 0 {
		return nil, fmt.Errorf("%w: negative area count %d", ErrFormatVersion, areaCount)
	}

	rg.Areas = make([]*Area, 0, capHint(areaCount, r, minAreaNameSize))
	for i := range int(areaCount) {
		name, err := r.ReadString()
		if err != nil {
			return nil, fmt.Errorf("reading area name %d: %w", i, err)
		}
		area, err := resolve(name)
		if err != nil {
			return nil, fmt.Errorf("area %q: %w", name, err)
		}
		rg.Areas = append(rg.Areas, area)
	}

	if err := r.Skip(regionTrailerPad); err != nil {
		return fail("trailer", err)
	}
	if rg.XML, err = r.ReadString(); err != nil {
		return fail("xml", err)
	}

	rg.Name = rg.ClientName
	return rg, nil
}
