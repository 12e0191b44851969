// Package counter implements checked arithmetic for the u64 aggregate
// counters kept on records. Overflow or underflow is returned as an error so
// the surrounding transaction can abort without committing a half-updated
// pair. No counter is expected to approach the bound in practice, but the
// check is load-bearing for the consistency invariants, not decoration.
package counter

import (
	"math"

	apperr "github.com/soundgraph/soundgraph/internal/errors"
)

// Add returns v + delta, failing with ErrArithmeticOverflow at the bound.
func Add(v, delta uint64) (uint64, error) {
	if v > math.MaxUint64-delta {
		return v, apperr.ErrArithmeticOverflow
	}
	return v + delta, nil
}

// Sub returns v - delta, failing with ErrArithmeticUnderflow below zero.
func Sub(v, delta uint64) (uint64, error) {
	if v < delta {
		return v, apperr.ErrArithmeticUnderflow
	}
	return v - delta, nil
}

// Inc applies a checked +1 to the counter cell in place.
func Inc(cell *uint64) error {
	v, err := Add(*cell, 1)
	if err != nil {
		return err
	}
	*cell = v
	return nil
}

// Dec applies a checked -1 to the counter cell in place.
func Dec(cell *uint64) error {
	v, err := Sub(*cell, 1)
	if err != nil {
		return err
	}
	*cell = v
	return nil
}

// PairedInc increments two denormalized mirror counters together, e.g. a
// track's likes_count and the creator's total_likes_received. Keeping both
// writes in one helper means a future edit cannot update one side and forget
// the other. The first failure leaves both cells untouched.
func PairedInc(a, b *uint64) error {
	va, err := Add(*a, 1)
	if err != nil {
		return err
	}
	vb, err := Add(*b, 1)
	if err != nil {
		return err
	}
	*a, *b = va, vb
	return nil
}

// PairedDec is the inverse of PairedInc.
func PairedDec(a, b *uint64) error {
	va, err := Sub(*a, 1)
	if err != nil {
		return err
	}
	vb, err := Sub(*b, 1)
	if err != nil {
		return err
	}
	*a, *b = va, vb
	return nil
}
