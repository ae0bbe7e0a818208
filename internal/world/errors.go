package world

import "errors"

var (
	// ErrFormatVersion is returned for unsupported versions and for a
	// repeated version/prop count that does not match the header.
	ErrFormatVersion = errors.New("unsupported or inconsistent format version")
	// ErrUnknownIndoorType is returned when a region's indoor type is not 100 or 200.
	ErrUnknownIndoorType = errors.New("unknown indoor type")
)
