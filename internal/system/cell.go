package system

// Cell is the simulation box, a 3x3 matrix stored row-major.
type Cell struct {
	H []float64
}

// NewCell returns a cubic cell of side a.
func NewCell(a float64) *Cell {
	return &Cell{H: []float64{a, 0, 0, 0, a, 0, 0, 0, a}}
}

// Volume returns det(H).
func (c *Cell) Volume() float64 {
	h := c.H
	return h[0]*(h[4]*h[8]-h[5]*h[7]) -
		h[1]*(h[3]*h[8]-h[5]*h[6]) +
		h[2]*(h[3]*h[7]-h[4]*h[6])
}

// Scale multiplies the cell matrix by s, as an isotropic barostat does.
func (c *Cell) Scale(s float64) {
	for i := range c.H {
		c.H[i] *= s
	}
}
