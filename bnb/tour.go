// Package bnb: tour utilities.
//
// Small, side-effect free checks over an instance and a visiting order:
//   - ValidateOrder: every instance id exactly once.
//   - CheckPrecedence: every constraint First strictly before Second,
//     with no wraparound credit from the closing edge.
//   - OrderCost: sum of consecutive distances plus the closing edge.
//   - Verify: all of the above plus a cost comparison.
//
// Complexity: O(n + m) time and O(n) space for each helper.
package bnb

import (
	"fmt"
	"math"

	"github.com/katalvlaran/etsppc/instance"
)

// ValidateOrder checks that order is a permutation of the instance ids.
func ValidateOrder(in *instance.Instance, order []int) error {
	if in == nil {
		return ErrNilInstance
	}
	if len(order) != in.Len() {
		return fmt.Errorf("%w: %d ids, want %d", ErrNotPermutation, len(order), in.Len())
	}
	seen := make(map[int]struct{}, len(order))
	for _, id := range order {
		if _, ok := in.Location(id); !ok {
			return fmt.Errorf("%w: %d", ErrUnknownLocation, id)
		}
		if _, dup := seen[id]; dup {
			return fmt.Errorf("%w: %d repeated", ErrNotPermutation, id)
		}
		seen[id] = struct{}{}
	}

	return nil
}

// CheckPrecedence checks that every constraint holds in order. Ids missing
// from order are ignored, so the check also works on prefixes where only
// the Second-present rule applies: a present Second needs an earlier First.
func CheckPrecedence(in *instance.Instance, order []int) error {
	if in == nil {
		return ErrNilInstance
	}
	pos := make(map[int]int, len(order))
	for i, id := range order {
		pos[id] = i
	}
	for _, c := range in.Constraints() {
		ps, ok := pos[c.Second]
		if !ok {
			continue
		}
		pf, ok := pos[c.First]
		if !ok || pf >= ps {
			return fmt.Errorf("%w: %s", ErrPrecedenceViolated, c)
		}
	}

	return nil
}

// OrderCost sums the distances along order and back to order[0].
// Summation runs in visiting order, exactly as the search accumulates it.
func OrderCost(in *instance.Instance, order []int) (float64, error) {
	if in == nil {
		return 0, ErrNilInstance
	}
	if len(order) == 0 {
		return 0, ErrNotPermutation
	}
	var total float64
	for i := 1; i < len(order); i++ {
		d, err := in.Distance(order[i-1], order[i])
		if err != nil {
			return 0, fmt.Errorf("%w: %d", ErrUnknownLocation, order[i])
		}
		total += d
	}
	back, err := in.Distance(order[len(order)-1], order[0])
	if err != nil {
		return 0, fmt.Errorf("%w: %d", ErrUnknownLocation, order[0])
	}

	return total + back, nil
}

// Verify checks that sol is a complete, precedence-respecting tour of in
// whose cost matches its order within tol.
func Verify(in *instance.Instance, sol Solution, tol float64) error {
	if err := ValidateOrder(in, sol.Order); err != nil {
		return err
	}
	if err := CheckPrecedence(in, sol.Order); err != nil {
		return err
	}
	want, err := OrderCost(in, sol.Order)
	if err != nil {
		return err
	}
	if math.Abs(want-sol.Cost) > tol {
		return fmt.Errorf("%w: got %.12f, want %.12f", ErrCostMismatch, sol.Cost, want)
	}

	return nil
}
