package engine

import (
	"math"
	"math/bits"
)

// satAdd adds without wrapping
func satAdd(a, b uint64) uint64 {
	sum, carry := bits.Add64(a, b, 0)
	if carry != 0 {
		return math.MaxUint64
	}
	return sum
}

// satMul multiplies without wrapping
func satMul(a, b uint64) uint64 {
	hi, lo := bits.Mul64(a, b)
	if hi != 0 {
		return math.MaxUint64
	}
	return lo
}

// withBonus inflates base by an integer percentage, floor division
func withBonus(base, percent uint64) uint64 {
	return satAdd(base, satMul(base, percent)/100)
}

// contains reports whether p is one of the cells
func contains(cells []Point, p Point) bool {
	for _, c := range cells {
		if c == p {
			return true
		}
	}
	return false
}
