// Package trn reads the world index (world/world.trn): the list of region
// files that make up the world, in document order.
package trn

import (
	"encoding/xml"
	"errors"
	"fmt"
	"io"
)

// RegionRef names one region file: world/<WorkDir>/<FileName>.rgn.
type RegionRef struct {
	WorkDir  string
	FileName string
}

// Load returns every <region workdir name> element found inside the first
// <regions> element. A document without <regions> yields an empty list.
func Load(r io.Reader) ([]RegionRef, error) {
	dec := xml.NewDecoder(r)

	var refs []RegionRef
	depth := 0 // >0 while inside <regions>

	for {
		tok, err := dec.Token()
		if errors.Is(err, io.EOF) {
			return refs, nil
		}
		if err != nil {
			return nil, fmt.Errorf("reading world index: %w", err)
		}

		switch t := tok.(type) {
		case xml.StartElement:
			if depth > 0 {
				depth++
				if t.Name.Local == "region" {
					refs = append(refs, regionRef(t))
				}
				continue
			}
			if t.Name.Local == "regions" {
				depth = 1
			}
		case xml.EndElement:
			if depth == 0 {
				continue
			}
			depth--
			if depth == 0 {
				return refs, nil
			}
		}
	}
}

func regionRef(se xml.StartElement) RegionRef {
	var ref RegionRef
	for _, a := range se.Attr {
		switch a.Name.Local {
		case "workdir":
			ref.WorkDir = a.Value
		case "name":
			ref.FileName = a.Value
		}
	}
	return ref
}
