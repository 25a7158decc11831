package math

// Mat3 is a 3x3 matrix in row-major order.
// Layout: [m0 m1 m2]
//
//	[m3 m4 m5]
//	[m6 m7 m8]
type Mat3 [9]float64

// Rows builds a matrix from three row vectors.
func Rows(a, b, c Vec3) Mat3 {
	return Mat3{
		a.X, a.Y, a.Z,
		b.X, b.Y, b.Z,
		c.X, c.Y, c.Z,
	}
}

// Row returns row i as a vector.
func (m Mat3) Row(i int) Vec3 {
	return Vec3{m[i*3], m[i*3+1], m[i*3+2]}
}

// Determinant returns the determinant of the matrix.
func (m Mat3) Determinant() float64 {
	return Determinant3x3(m[0], m[1], m[2], m[3], m[4], m[5], m[6], m[7], m[8])
}

// WithColumn returns a copy of m with column col replaced by v.
// Used for Cramer's rule.
func (m Mat3) WithColumn(col int, v Vec3) Mat3 {
	m[col] = v.X
	m[3+col] = v.Y
	m[6+col] = v.Z
	return m
}

// Determinant3x3 returns the determinant of the row-major matrix
//
//	| a1 a2 a3 |
//	| b1 b2 b3 |
//	| c1 c2 c3 |
func Determinant3x3(a1, a2, a3, b1, b2, b3, c1, c2, c3 float64) float64 {
	return a1*(b2*c3-b3*c2) -
		a2*(b1*c3-b3*c1) +
		a3*(b1*c2-b2*c1)
}
