package world

// Region is one decoded .rgn file with its areas.
type Region struct {
	Version    int32
	RegionID   int32
	GroupID    int32
	Name       string // display name, ClientName or its normalized slug
	ClientName string
	CellSize   int32
	Sight      byte
	AreaType   int32
	IndoorType int32
	Scene      string
	Camera     string
	Light      string
	XML        string

	Areas []*Area
}

// Indoor reports whether the region is an indoor map.
func (r *Region) Indoor() bool {
	return r.IndoorType == IndoorTypeIndoor
}

// Area is one decoded .area file.
type Area struct {
	Version  int16
	AreaID   int16
	RegionID int16
	Server   string
	Name     string

	X1, Y1, X2, Y2 float32

	Props  []*Prop
	Events []*Event
}

// Prop is a placed object.
type Prop struct {
	ClassID   int32
	PropID    int64
	Name      string
	X, Y      float32
	Shapes    []Shape
	Solid     bool
	Scale     float32
	Direction float32
	Title     string
	State     string

	Parameters []Parameter
}

// Event is a trigger or spawn definition.
type Event struct {
	EventID   int64
	Name      string
	X, Y      float32
	EventType int32
	Shapes    []Shape

	Parameters []Parameter
}

// Parameter is a scripted key/value record attached to props and events.
// Two parameters are equal when EventType, SignalType, Name and XML match;
// Definition is kept as read and does not take part in equality.
type Parameter struct {
	Definition byte
	EventType  int32
	SignalType int32
	Name       string
	XML        string
}

// Equal reports whether p and o carry the same event, signal, name and XML.
func (p Parameter) Equal(o Parameter) bool {
	return p.EventType == o.EventType &&
		p.SignalType == o.SignalType &&
		p.Name == o.Name &&
		p.XML == o.XML
}
