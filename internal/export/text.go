package export

import (
	"bufio"
	"fmt"
	"io"
	"strings"

	"github.com/udisondev/rewpa/internal/world"
)

// Parameters whose payload contains this marker describe creature spawns.
const spawnMarker = "group"

// regionListHeader opens regions.txt.
var regionListHeader = []string{
	"// Aura",
	"// Database file",
	"//---------------------------------------------------------------------------",
	"",
	"[",
}

// WriteSpawns writes one line per spawn parameter of every event:
//
//	region: 1, area: 2, id: 00B0000100020001, type: 2000, pType: 1, name: 'Uladh_main/town/ev', xml: '<xml group="3"/>', coords: {X=1,Y=2}, ...
func WriteSpawns(w io.Writer, wd *world.World) error {
	bw := bufio.NewWriter(w)
	var line strings.Builder

	for _, rg := range wd.Regions {
		for _, a := range rg.Areas {
			for _, ev := range a.Events {
				for _, p := range ev.Parameters {
					if !strings.Contains(p.XML, spawnMarker) {
						continue
					}

					line.Reset()
					fmt.Fprintf(&line, "region: %d, area: %d, id: %016X, type: %d, pType: %d, name: '%s/%s/%s', xml: '%s', coords: ",
						rg.RegionID, a.AreaID, uint64(ev.EventID), ev.EventType, p.EventType,
						rg.ClientName, a.Name, ev.Name, p.XML)
					for _, s := range ev.Shapes {
						for _, pt := range s.Points() {
							line.WriteString(pt.String())
							line.WriteString(", ")
						}
					}

					// drop the trailing separator (or ": " without shapes)
					s := line.String()
					bw.WriteString(s[:len(s)-2])
					bw.WriteByte('\n')
				}
			}
		}
	}

	return bw.Flush()
}

// WriteRegions writes the region list in the server database file format.
func WriteRegions(w io.Writer, wd *world.World) error {
	bw := bufio.NewWriter(w)

	for _, l := range regionListHeader {
		bw.WriteString(l)
		bw.WriteByte('\n')
	}
	for _, rg := range wd.Regions {
		fmt.Fprintf(bw, "{ id: %d, name: \"%s\", indoor: %t },\n", rg.RegionID, rg.ClientName, rg.Indoor())
	}
	bw.WriteString("]\n")

	return bw.Flush()
}
