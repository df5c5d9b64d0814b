package kernel

import (
	"fmt"

	"pixquant/failure"
)

// MaxBayerOrder keeps the matrix (2^order square) within a sane size.
const MaxBayerOrder = 8

// Bayer returns the Bayer threshold matrix of the given order: a square of
// side 2^order holding every value in [0, 4^order). Order 0 is [[0]]; each
// higher order tiles the previous one as
//
//	4v    4v+2
//	4v+3  4v+1
func Bayer(order int) ([][]uint32, error) {
	if order < 0 || order > MaxBayerOrder {
		return nil, fmt.Errorf("%w: bayer order must be in [0, %d], got %d", failure.ErrInvalidArgument, MaxBayerOrder, order)
	}

	m := [][]uint32{{0}}
	for range order {
		size := len(m)
		next := make([][]uint32, 2*size)
		for i := range next {
			next[i] = make([]uint32, 2*size)
		}
		for i, row := range m {
			for j, v := range row {
				next[i][j] = 4 * v
				next[i][j+size] = 4*v + 2
				next[i+size][j] = 4*v + 3
				next[i+size][j+size] = 4*v + 1
			}
		}
		m = next
	}
	return m, nil
}
