package reconcile

import (
	"context"
	"errors"
	"fmt"
)

// ErrDuplicateKey is returned when the desired set repeats a natural key.
var ErrDuplicateKey = errors.New("duplicate natural key in desired set")

// Ops holds the callbacks applied for each matched, new or missing item.
// Equal may be nil, in which case every match is updated. Missing may be nil,
// in which case stored items absent from the desired set are left alone.
type Ops[S, D any] struct {
	Equal   func(stored S, desired D) bool
	Update  func(ctx context.Context, stored S, desired D) error
	Insert  func(ctx context.Context, desired D) error
	Missing func(ctx context.Context, stored S) error
}

// Result counts what Apply did.
type Result struct {
	Inserted  int `json:"inserted"`
	Updated   int `json:"updated"`
	Unchanged int `json:"unchanged"`
	Missing   int `json:"missing"`
}

// Changed reports whether any write was issued.
func (r Result) Changed() bool {
	return r.Inserted+r.Updated+r.Missing > 0
}

// Apply matches stored and desired items by natural key. Desired items are
// visited in submission order, then unmatched stored items in stored order.
// When stored repeats a key only its first occurrence is matched; later
// duplicates are reported as missing.
func Apply[S, D any, K comparable](
	ctx context.Context,
	stored []S,
	desired []D,
	storedKey func(S) K,
	desiredKey func(D) K,
	ops Ops[S, D],
) (Result, error) {
	var res Result

	seen := make(map[K]struct{}, len(desired))
	for _, d := range desired {
		k := desiredKey(d)
		if _, dup := seen[k]; dup {
			return res, fmt.Errorf("%w: %v", ErrDuplicateKey, k)
		}
		seen[k] = struct{}{}
	}

	index := make(map[K]int, len(stored))
	for i, s := range stored {
		k := storedKey(s)
		if _, ok := index[k]; !ok {
			index[k] = i
		}
	}

	matched := make([]bool, len(stored))
	for _, d := range desired {
		k := desiredKey(d)
		i, ok := index[k]
		if !ok {
			if err := ops.Insert(ctx, d); err != nil {
				return res, fmt.Errorf("insert %v: %w", k, err)
			}
			res.Inserted++
			continue
		}
		matched[i] = true
		if ops.Equal != nil && ops.Equal(stored[i], d) {
			res.Unchanged++
			continue
		}
		if err := ops.Update(ctx, stored[i], d); err != nil {
			return res, fmt.Errorf("update %v: %w", k, err)
		}
		res.Updated++
	}

	if ops.Missing == nil {
		return res, nil
	}
	for i, s := range stored {
		if matched[i] {
			continue
		}
		if err := ops.Missing(ctx, s); err != nil {
			return res, fmt.Errorf("remove %v: %w", storedKey(s), err)
		}
		res.Missing++
	}
	return res, nil
}
