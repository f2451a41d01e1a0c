// Package hex provides board coordinates for the odd-q offset hex grid used by
// every map in a game.
package hex

import "fmt"

// Coords is a 1-indexed offset coordinate (column, row). Odd columns are
// shifted down by half a hex.
type Coords struct {
	Col int `json:"col" yaml:"col"`
	Row int `json:"row" yaml:"row"`
}

// Cube is the cube-coordinate form of Coords, used for distance math.
type Cube struct {
	Q, R, S int
}

func (c Coords) String() string {
	return fmt.Sprintf("%02d%02d", c.Col, c.Row)
}

// ToCube converts offset coordinates to cube coordinates.
func (c Coords) ToCube() Cube {
	q := c.Col - 1
	r := c.Row - 1
	x := q
	z := r - (q+(q&1))/2
	return Cube{Q: x, R: -x - z, S: z}
}

// FromCube converts cube coordinates back to offset coordinates.
func FromCube(c Cube) Coords {
	col := c.Q
	row := c.S + (c.Q+(c.Q&1))/2
	return Coords{Col: col + 1, Row: row + 1}
}

// Distance returns the number of hexes between a and b.
func Distance(a, b Coords) int {
	ac := a.ToCube()
	bc := b.ToCube()
	return (abs(ac.Q-bc.Q) + abs(ac.R-bc.R) + abs(ac.S-bc.S)) / 2
}

// Neighbor returns the adjacent hex in the given facing.
func (c Coords) Neighbor(f Facing) Coords {
	odd := c.Col%2 == 1
	switch f.Normalize() {
	case North:
		return Coords{c.Col, c.Row - 1}
	case NorthEast:
		if odd {
			return Coords{c.Col + 1, c.Row}
		}
		return Coords{c.Col + 1, c.Row - 1}
	case SouthEast:
		if odd {
			return Coords{c.Col + 1, c.Row + 1}
		}
		return Coords{c.Col + 1, c.Row}
	case South:
		return Coords{c.Col, c.Row + 1}
	case SouthWest:
		if odd {
			return Coords{c.Col - 1, c.Row + 1}
		}
		return Coords{c.Col - 1, c.Row}
	default:
		if odd {
			return Coords{c.Col - 1, c.Row}
		}
		return Coords{c.Col - 1, c.Row - 1}
	}
}

// Within returns every hex at distance <= radius from c, centre first.
func (c Coords) Within(radius int) []Coords {
	out := []Coords{c}
	if radius <= 0 {
		return out
	}
	center := c.ToCube()
	for dq := -radius; dq <= radius; dq++ {
		for dr := max(-radius, -dq-radius); dr <= min(radius, -dq+radius); dr++ {
			if dq == 0 && dr == 0 {
				continue
			}
			out = append(out, FromCube(Cube{Q: center.Q + dq, R: center.R + dr, S: center.S - dq - dr}))
		}
	}
	return out
}

// Facing 0-5: 0=N, 1=NE, 2=SE, 3=S, 4=SW, 5=NW (clockwise from top).
type Facing int

const (
	North Facing = iota
	NorthEast
	SouthEast
	South
	SouthWest
	NorthWest
)

// Normalize folds any integer facing into 0..5.
func (f Facing) Normalize() Facing {
	n := int(f) % 6
	if n < 0 {
		n += 6
	}
	return Facing(n)
}

// Rotate turns the facing clockwise by steps (negative for counter-clockwise).
func (f Facing) Rotate(steps int) Facing {
	return Facing(int(f) + steps).Normalize()
}

// Opposite returns the facing pointing the other way.
func (f Facing) Opposite() Facing {
	return f.Rotate(3)
}

func abs(x int) int {
	if x < 0 {
		return -x
	}
	return x
}
