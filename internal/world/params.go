package world

import (
	"fmt"
	"slices"

	"github.com/udisondev/rewpa/internal/packet"
)

// readParameters reads a byte-counted parameter list. With dedupe set,
// entries equal to an already collected one are dropped (props do this,
// events keep duplicates).
func readParameters(r *packet.Reader, dedupe bool) ([]Parameter, error) {
	count, err := r.ReadByte()
	if err != nil {
		return nil, fmt.Errorf("parameter count: %w", err)
	}

	params := make([]Parameter, 0, count)
	for i := range int(count) {
		p, err := readParameter(r)
		if err != nil {
			return nil, fmt.Errorf("parameter %d: %w", i, err)
		}
		if dedupe && slices.ContainsFunc(params, p.Equal) {
			continue
		}
		params = append(params, p)
	}
	return params, nil
}

func readParameter(r *packet.Reader) (Parameter, error) {
	var p Parameter
	var err error

	if p.Definition, err = r.ReadByte(); err != nil {
		return p, err
	}
	if p.EventType, err = r.ReadInt(); err != nil {
		return p, err
	}
	if p.SignalType, err = r.ReadInt(); err != nil {
		return p, err
	}
	if p.Name, err = r.ReadString(); err != nil {
		return p, err
	}
	if p.XML, err = r.ReadString(); err != nil {
		return p, err
	}
	return p, nil
}
