// Package geo maps board hexes to planar points for storage. Hexes are
// flat-topped with a centre-to-corner size of 1; the centre of hex 0101 is
// the origin and y grows down the board.
package geo

import (
	"errors"
	"math"

	geom "github.com/peterstace/simplefeatures/geom"

	"github.com/OCAP2/roundengine/internal/hex"
)

// ErrEmptyPoint is returned when a point without coordinates is converted back to a hex.
var ErrEmptyPoint = errors.New("empty point")

var sqrt3 = math.Sqrt(3)

// Center returns the planar centre of c.
func Center(c hex.Coords) (x, y float64) {
	cube := c.ToCube()
	q, z := float64(cube.Q), float64(cube.S)
	return 1.5 * q, sqrt3 * (z + q/2)
}

// Point returns the centre of c as a 2D point.
func Point(c hex.Coords) geom.Point {
	x, y := Center(c)
	return geom.NewPoint(geom.Coordinates{XY: geom.XY{X: x, Y: y}, Type: geom.DimXY})
}

// Nearest returns the hex containing (x, y).
func Nearest(x, y float64) hex.Coords {
	q := x / 1.5
	z := y/sqrt3 - q/2
	return hex.FromCube(roundCube(q, -q-z, z))
}

// FromPoint returns the hex containing p.
func FromPoint(p geom.Point) (hex.Coords, error) {
	xy, ok := p.XY()
	if !ok {
		return hex.Coords{}, ErrEmptyPoint
	}
	return Nearest(xy.X, xy.Y), nil
}

// Footprint returns the centres of cells as a multipoint, for entities that
// cover more than one hex.
func Footprint(cells []hex.Coords) geom.MultiPoint {
	pts := make([]geom.Point, len(cells))
	for i, c := range cells {
		pts[i] = Point(c)
	}
	return geom.NewMultiPoint(pts)
}

func roundCube(q, r, s float64) hex.Cube {
	rq, rr, rs := math.Round(q), math.Round(r), math.Round(s)
	dq, dr, ds := math.Abs(rq-q), math.Abs(rr-r), math.Abs(rs-s)
	switch {
	case dq > dr && dq > ds:
		rq = -rr - rs
	case dr > ds:
		rr = -rq - rs
	default:
		rs = -rq - rr
	}
	return hex.Cube{Q: int(rq), R: int(rr), S: int(rs)}
}
