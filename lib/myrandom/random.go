package myrandom

import "math/rand/v2"

type RealRandomer struct{}

func (r RealRandomer) IntN(n int) int {
	return rand.IntN(n)
}
