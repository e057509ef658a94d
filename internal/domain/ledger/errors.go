// internal/domain/ledger/errors.go
package ledger

import "errors"

var (
	ErrUnknownFeatureCost  = errors.New("no token cost configured for feature")
	ErrInsufficientBalance = errors.New("insufficient token balance")
	ErrInvalidQuantity     = errors.New("quantity must be positive")
	ErrUnknownPackage      = errors.New("unknown token package")
)
