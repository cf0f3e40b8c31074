// Package favorites stores the ordered set of favorite country codes per
// account.
package favorites

import "context"

// Repository persists favorites. List returns codes in insertion order.
// Add reports false when the code was already present; Remove of an absent
// code is not an error.
type Repository interface {
	List(ctx context.Context, userID string) ([]string, error)
	Add(ctx context.Context, userID, code string) (bool, error)
	Remove(ctx context.Context, userID, code string) error
}
