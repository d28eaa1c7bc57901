package gf256

import "errors"

// ErrUndecodable is returned when a Reed-Solomon codeword carries more errors
// than the parity can correct.
var ErrUndecodable = errors.New("gf256: reedsolomon decoding failed")

var generatorCache = map[int][]int{}

func cachedGenerator(degree int) []int {
	if g, ok := generatorCache[degree]; ok {
		return g
	}
	g := Generator(degree)
	generatorCache[degree] = g
	return g
}

// RSEncode computes ecLen parity codewords for data: the remainder of
// data * x^ecLen modulo the degree-ecLen generator polynomial.
func RSEncode(data []byte, ecLen int) []byte {
	if ecLen < 1 {
		panic("gf256: no error correction codewords")
	}
	poly := make([]int, len(data)+ecLen)
	for i, b := range data {
		poly[i] = int(b)
	}
	rem := PolyRem(poly, cachedGenerator(ecLen))

	out := make([]byte, ecLen)
	for i, c := range rem {
		out[ecLen-len(rem)+i] = byte(c)
	}
	return out
}

// RSDecode corrects up to ecLen/2 errors in codeword in place. The codeword
// is data followed by ecLen parity codewords. It returns the number of
// corrected positions, or ErrUndecodable if the error locator cannot be
// resolved or points outside the codeword.
func RSDecode(codeword []byte, ecLen int) (int, error) {
	poly := make([]int, len(codeword))
	for i, b := range codeword {
		poly[i] = int(b)
	}

	syndromes := make([]int, ecLen)
	noError := true
	for i := 0; i < ecLen; i++ {
		s := PolyEval(poly, Exp(i))
		syndromes[ecLen-1-i] = s
		if s != 0 {
			noError = false
		}
	}
	if noError {
		return 0, nil
	}

	locator, evaluator, err := euclidean(PolyMulMonomial([]int{1}, ecLen, 1), normalize(syndromes), ecLen)
	if err != nil {
		return 0, err
	}
	locations, err := findErrorLocations(locator)
	if err != nil {
		return 0, err
	}
	magnitudes := findErrorMagnitudes(evaluator, locations)
	for i, loc := range locations {
		position := len(codeword) - 1 - Log(loc)
		if position < 0 {
			return 0, ErrUndecodable
		}
		codeword[position] ^= byte(magnitudes[i])
	}
	return len(locations), nil
}

// euclidean runs the extended Euclidean algorithm on (a, b), stopping when
// 2*deg(r) < R, and returns the error locator and evaluator polynomials
// normalized so the locator's constant term is 1.
func euclidean(a, b []int, R int) (sigma, omega []int, err error) {
	if PolyDegree(a) < PolyDegree(b) {
		a, b = b, a
	}

	rLast, r := a, b
	tLast, t := []int{0}, []int{1}

	for 2*PolyDegree(r) >= R {
		rLastLast, tLastLast := rLast, tLast
		rLast, tLast = r, t

		if polyIsZero(rLast) {
			return nil, nil, ErrUndecodable
		}
		r = rLastLast
		q := []int{0}
		dltInv := Inv(rLast[0])
		for !polyIsZero(r) && PolyDegree(r) >= PolyDegree(rLast) {
			degreeDiff := PolyDegree(r) - PolyDegree(rLast)
			scale := Mul(r[0], dltInv)
			q = PolyAdd(q, PolyMulMonomial([]int{1}, degreeDiff, scale))
			r = PolyAdd(r, PolyMulMonomial(rLast, degreeDiff, scale))
		}
		t = PolyAdd(PolyMul(q, tLast), tLastLast)

		if PolyDegree(r) >= PolyDegree(rLast) {
			return nil, nil, ErrUndecodable
		}
	}

	sigmaAtZero := t[len(t)-1]
	if sigmaAtZero == 0 {
		return nil, nil, ErrUndecodable
	}
	inv := Inv(sigmaAtZero)
	return PolyMulScalar(t, inv), PolyMulScalar(r, inv), nil
}

// findErrorLocations searches the field for roots of the error locator and
// returns their inverses.
func findErrorLocations(locator []int) ([]int, error) {
	numErrors := PolyDegree(locator)
	if numErrors == 1 {
		return []int{locator[0]}, nil
	}
	result := make([]int, 0, numErrors)
	for i := 1; i < 256 && len(result) < numErrors; i++ {
		if PolyEval(locator, i) == 0 {
			result = append(result, Inv(i))
		}
	}
	if len(result) != numErrors {
		return nil, ErrUndecodable
	}
	return result, nil
}

// findErrorMagnitudes applies Forney's formula at each error location.
func findErrorMagnitudes(evaluator []int, locations []int) []int {
	result := make([]int, len(locations))
	for i, loc := range locations {
		xiInv := Inv(loc)
		denominator := 1
		for j, other := range locations {
			if i != j {
				denominator = Mul(denominator, 1^Mul(other, xiInv))
			}
		}
		result[i] = Mul(PolyEval(evaluator, xiInv), Inv(denominator))
	}
	return result
}
