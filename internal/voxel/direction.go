package voxel

// Direction is one of the six axis aligned face directions
type Direction int

const (
	NegX Direction = iota
	PosX
	NegY
	PosY
	NegZ
	PosZ
)

// Directions lists the six directions in the order faces are emitted
var Directions = [6]Direction{NegX, PosX, NegY, PosY, NegZ, PosZ}

// Axis returns 0, 1 or 2 for x, y and z
func (d Direction) Axis() int {
	return int(d) / 2
}

// Positive returns true when the direction points towards increasing coordinates
func (d Direction) Positive() bool {
	return d%2 == 1
}

func (d Direction) Sign() int {
	if d.Positive() {
		return 1
	}
	return -1
}

// Offset returns the unit step along the direction
func (d Direction) Offset() [3]int {
	var o [3]int
	o[d.Axis()] = d.Sign()
	return o
}

// Returns the direction along the given axis with the given orientation
func DirectionOf(axis int, positive bool) Direction {
	d := Direction(axis * 2)
	if positive {
		d++
	}
	return d
}

func (d Direction) String() string {
	return [6]string{"-x", "+x", "-y", "+y", "-z", "+z"}[d]
}
