// Package gf256 implements arithmetic over GF(256) with the QR code primitive
// polynomial 0x11D, polynomial operations over the field, and a Reed-Solomon
// codec built on them.
//
// Polynomials are coefficient slices ordered from highest degree to lowest,
// stripped of leading zeros; the zero polynomial is [0].
package gf256

// Primitive is the field's primitive polynomial, x^8 + x^4 + x^3 + x^2 + 1.
const Primitive = 0x11D

var (
	expTable [256]int
	logTable [256]int
)

func init() {
	x := 1
	for i := 0; i < 256; i++ {
		expTable[i] = x
		x <<= 1
		if x&0x100 != 0 {
			x ^= Primitive
		}
	}
	for i := 0; i < 255; i++ {
		logTable[expTable[i]] = i
	}
}

// Add returns a + b; addition and subtraction coincide in GF(2^n).
func Add(a, b int) int {
	return a ^ b
}

// Exp returns 2^a.
func Exp(a int) int {
	return expTable[a%255]
}

// Log returns log2(a). a must be nonzero.
func Log(a int) int {
	if a == 0 {
		panic("gf256: log of zero")
	}
	return logTable[a]
}

// Mul returns a * b.
func Mul(a, b int) int {
	if a == 0 || b == 0 {
		return 0
	}
	return expTable[(logTable[a]+logTable[b])%255]
}

// Pow returns a^n.
func Pow(a, n int) int {
	if a == 0 {
		return 0
	}
	return expTable[logTable[a]*n%255]
}

// Inv returns the multiplicative inverse of a. a must be nonzero.
func Inv(a int) int {
	if a == 0 {
		panic("gf256: inverse of zero")
	}
	return expTable[255-logTable[a]]
}

// normalize strips leading zero coefficients, collapsing to [0].
func normalize(p []int) []int {
	i := 0
	for i < len(p)-1 && p[i] == 0 {
		i++
	}
	return p[i:]
}

// polyIsZero reports whether p is the zero polynomial.
func polyIsZero(p []int) bool {
	return len(p) == 1 && p[0] == 0
}

// PolyDegree returns the degree of p.
func PolyDegree(p []int) int {
	return len(p) - 1
}

// PolyAdd returns p + q.
func PolyAdd(p, q []int) []int {
	if len(p) < len(q) {
		p, q = q, p
	}
	out := make([]int, len(p))
	copy(out, p)
	diff := len(p) - len(q)
	for i, c := range q {
		out[diff+i] ^= c
	}
	return normalize(out)
}

// PolyMul returns p * q.
func PolyMul(p, q []int) []int {
	if polyIsZero(p) || polyIsZero(q) {
		return []int{0}
	}
	out := make([]int, len(p)+len(q)-1)
	for i, a := range p {
		if a == 0 {
			continue
		}
		for j, b := range q {
			out[i+j] ^= Mul(a, b)
		}
	}
	return normalize(out)
}

// PolyMulScalar returns p * s.
func PolyMulScalar(p []int, s int) []int {
	if s == 0 {
		return []int{0}
	}
	out := make([]int, len(p))
	for i, c := range p {
		out[i] = Mul(c, s)
	}
	return normalize(out)
}

// PolyMulMonomial returns p * s*x^degree.
func PolyMulMonomial(p []int, degree, s int) []int {
	if degree < 0 {
		panic("gf256: negative degree")
	}
	if s == 0 || polyIsZero(p) {
		return []int{0}
	}
	out := make([]int, len(p)+degree)
	for i, c := range p {
		out[i] = Mul(c, s)
	}
	return normalize(out)
}

// PolyRem returns the remainder of p divided by q.
func PolyRem(p, q []int) []int {
	if polyIsZero(q) {
		panic("gf256: divide by zero polynomial")
	}
	rem := normalize(append([]int(nil), p...))
	dltInv := Inv(q[0])
	for !polyIsZero(rem) && PolyDegree(rem) >= PolyDegree(q) {
		scale := Mul(rem[0], dltInv)
		rem = PolyAdd(rem, PolyMulMonomial(q, PolyDegree(rem)-PolyDegree(q), scale))
	}
	return rem
}

// PolyEval evaluates p at a using Horner's method.
func PolyEval(p []int, a int) int {
	if a == 0 {
		return p[len(p)-1]
	}
	result := p[0]
	for _, c := range p[1:] {
		result = Mul(a, result) ^ c
	}
	return result
}

// Generator returns the Reed-Solomon generator polynomial of the given
// degree, the product of (x - 2^i) for i in [0, degree).
func Generator(degree int) []int {
	g := []int{1}
	for i := 0; i < degree; i++ {
		g = PolyMul(g, []int{1, Exp(i)})
	}
	return g
}
