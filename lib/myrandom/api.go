package myrandom

//go:generate mockgen -source=api.go -package myrandom -destination randomer_mock.go Randomer
type Randomer interface {
	// IntN returns a non-negative integer in the half-open interval [0,n).
	IntN(n int) int
}
