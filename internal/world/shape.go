package world

import (
	"fmt"
	"math"

	"github.com/udisondev/rewpa/internal/packet"
)

// shapeTrailerSize: непонятные 16 байт после каждой shape.
const shapeTrailerSize = 0x10

// Shape is an oriented rectangle: two unit axes, a half-length per axis
// and a center.
type Shape struct {
	DirX1, DirX2 float32
	DirY1, DirY2 float32
	LenX, LenY   float32
	Type         int32
	PosX, PosY   float32
}

// Point is an integer world coordinate.
type Point struct {
	X, Y int32
}

// String formats the point the way the spawn listing expects.
func (p Point) String() string {
	return fmt.Sprintf("{X=%d,Y=%d}", p.X, p.Y)
}

// Points returns the four corners of the shape.
//
// A raw coordinate below its center component is rounded up before the
// final truncation, one above is only truncated. The corner order depends
// on the orientation of the axes (1,2,3,4 or 1,4,3,2) and downstream
// consumers rely on it.
func (s Shape) Points() [4]Point {
	a00 := float64(s.DirX1 * s.LenX)
	a01 := float64(s.DirX2 * s.LenX)
	a02 := float64(s.DirY1 * s.LenY)
	a03 := float64(s.DirY2 * s.LenY)

	px := float64(s.PosX)
	py := float64(s.PosY)

	c1 := corner(px, py, px-a00-a02, py-a01-a03)
	c2 := corner(px, py, px+a00-a02, py+a01-a03)
	c3 := corner(px, py, px+a00+a02, py+a01+a03)
	c4 := corner(px, py, px-a00+a02, py-a01+a03)

	if a02*a01 > a03*a00 {
		return [4]Point{c1, c2, c3, c4}
	}
	return [4]Point{c1, c4, c3, c2}
}

func corner(px, py, x, y float64) Point {
	return Point{X: roundCoord(x, px), Y: roundCoord(y, py)}
}

func roundCoord(v, center float64) int32 {
	if v < center {
		v = math.Ceil(v)
	}
	return int32(v)
}

func readShapes(r *packet.Reader) ([]Shape, error) {
	count, err := r.ReadByte()
	if err != nil {
		return nil, fmt.Errorf("shape count: %w", err)
	}
	if err := r.Skip(shapeHeaderGap); err != nil {
		return nil, err
	}

	shapes := make([]Shape, 0, count)
	for i := range int(count) {
		s, err := readShape(r)
		if err != nil {
			return nil, fmt.Errorf("shape %d: %w", i, err)
		}
		shapes = append(shapes, s)
	}
	return shapes, nil
}

func readShape(r *packet.Reader) (Shape, error) {
	var s Shape
	floats := []*float32{&s.DirX1, &s.DirX2, &s.DirY1, &s.DirY2, &s.LenX, &s.LenY}
	for _, f := range floats {
		v, err := r.ReadFloat()
		if err != nil {
			return s, err
		}
		*f = v
	}

	var err error
	if s.Type, err = r.ReadInt(); err != nil {
		return s, err
	}
	if s.PosX, err = r.ReadFloat(); err != nil {
		return s, err
	}
	if s.PosY, err = r.ReadFloat(); err != nil {
		return s, err
	}
	if err := r.Skip(shapeTrailerSize); err != nil {
		return s, err
	}
	return s, nil
}
