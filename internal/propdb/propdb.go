// Package propdb loads the client prop class catalog (db/propdb.xml).
package propdb

import (
	"encoding/xml"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"strconv"
	"strings"
)

// Class is one PropClass entry.
type Class struct {
	ClassID    int32
	ClassName  string
	StringID   string
	UsedServer bool
	Extra      map[string]string
}

// Feature returns the "feature" attribute of the class' ExtraXML.
func (c Class) Feature() (string, bool) {
	v, ok := c.Extra["feature"]
	return v, ok
}

// Catalog maps class ids to classes. Read-only after Load.
type Catalog struct {
	classes map[int32]Class
}

// NewCatalog builds a catalog from already decoded classes.
// Later entries with the same id replace earlier ones.
func NewCatalog(classes ...Class) *Catalog {
	c := &Catalog{classes: make(map[int32]Class, len(classes))}
	for _, cls := range classes {
		c.classes[cls.ClassID] = cls
	}
	return c
}

// Lookup returns the class with the given id.
func (c *Catalog) Lookup(classID int32) (Class, bool) {
	cls, ok := c.classes[classID]
	return cls, ok
}

// Len returns the number of classes.
func (c *Catalog) Len() int {
	return len(c.classes)
}

// extraXMLFixes repairs snippets that are not well-formed in shipped data.
var extraXMLFixes = []struct{ from, to string }{
	{`sit_motion="98"hideidle="`, `sit_motion="98" hideidle="`},
	{`sit_motion="89"sit_motion2="90"`, `sit_motion="89" sit_motion2="90"`},
	{`sit_motion = "27" sit_motion_category="2" sit_motion="102"`, `sit_motion = "27" sit_motion_category="2"`},
	{`"101"hideidle="false"`, `"101" hideidle="false"`},
}

// Load streams PropClass elements from r. Elements may appear at any depth.
func Load(r io.Reader) (*Catalog, error) {
	c := &Catalog{classes: make(map[int32]Class, 4096)}

	dec := xml.NewDecoder(r)
	for {
		tok, err := dec.Token()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("reading propdb: %w", err)
		}

		se, ok := tok.(xml.StartElement)
		if !ok || se.Name.Local != "PropClass" {
			continue
		}

		cls, err := parseClass(se)
		if err != nil {
			return nil, err
		}
		c.classes[cls.ClassID] = cls
	}

	slog.Info("loaded prop classes", "count", len(c.classes))
	return c, nil
}

func parseClass(se xml.StartElement) (Class, error) {
	cls := Class{Extra: make(map[string]string)}

	var extraXML string
	for _, a := range se.Attr {
		switch a.Name.Local {
		case "ClassID":
			if a.Value == "" {
				continue
			}
			id, err := strconv.ParseInt(strings.TrimSpace(a.Value), 10, 32)
			if err != nil {
				return cls, fmt.Errorf("parsing ClassID %q: %w", a.Value, err)
			}
			cls.ClassID = int32(id)
		case "ClassName":
			cls.ClassName = a.Value
		case "StringID":
			cls.StringID = a.Value
		case "UsedServer":
			cls.UsedServer = strings.EqualFold(a.Value, "true")
		case "ExtraXML":
			extraXML = a.Value
		}
	}

	if strings.TrimSpace(extraXML) == "" {
		return cls, nil
	}

	attrs, err := parseExtraXML(extraXML)
	if err != nil {
		return cls, fmt.Errorf("parsing ExtraXML of class %d: %w", cls.ClassID, err)
	}
	for _, a := range attrs {
		cls.Extra[a.Name.Local] = a.Value
	}

	return cls, nil
}

// parseExtraXML returns the attributes of the first element in s.
func parseExtraXML(s string) ([]xml.Attr, error) {
	trimmed := strings.TrimSpace(s)
	if !strings.HasSuffix(trimmed, "/>") && !strings.HasSuffix(trimmed, "</xml>") {
		s = strings.Trim(s, ">") + "/>"
	}
	for _, fix := range extraXMLFixes {
		s = strings.ReplaceAll(s, fix.from, fix.to)
	}

	dec := xml.NewDecoder(strings.NewReader(s))
	for {
		tok, err := dec.Token()
		if err != nil {
			return nil, err
		}
		if se, ok := tok.(xml.StartElement); ok {
			return se.Attr, nil
		}
	}
}
