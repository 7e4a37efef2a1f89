package services

import (
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5/pgconn"
)

var (
	ErrNotFound        = errors.New("not found")
	ErrConflict        = errors.New("already exists")
	ErrInvalidState    = errors.New("cart already checked out")
	ErrInvalidQuantity = errors.New("quantity must be greater than zero")
	ErrUnauthenticated = errors.New("invalid username or password")
	ErrTransient       = errors.New("transient storage conflict")
)

// InsufficientStockError names the product whose stock cannot cover the
// requested quantity.
type InsufficientStockError struct {
	ProductID   uint
	ProductName string
	Requested   int
	Available   int
}

func (e *InsufficientStockError) Error() string {
	return fmt.Sprintf("not enough stock for product %q: requested %d, available %d",
		e.ProductName, e.Requested, e.Available)
}

// isRetryable matches serialization failures, deadlocks and lock timeouts.
func isRetryable(err error) bool {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		switch pgErr.Code {
		case "40001", "40P01", "55P03":
			return true
		}
	}
	return false
}

// classify wraps retryable persistence conflicts in ErrTransient so callers
// can tell them apart from permanent business-rule rejections.
func classify(err error) error {
	if err == nil {
		return nil
	}
	if isRetryable(err) {
		return fmt.Errorf("%w: %v", ErrTransient, err)
	}
	return err
}
