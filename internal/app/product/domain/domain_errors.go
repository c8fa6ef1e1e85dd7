package domain

import (
	"errors"
	"fmt"
)

// Error classes. Transport maps these to status codes.
var (
	// ErrInvalidArgument marks a numeric input outside its documented domain.
	ErrInvalidArgument = errors.New("invalid argument")

	// ErrValidation marks invalid top-level parameters of a bulk operation.
	ErrValidation = errors.New("validation error")
)

// Domain errors as sentinel values
var (
	// Pricing errors
	ErrNegativeAmount         = fmt.Errorf("%w: amount must not be negative", ErrInvalidArgument)
	ErrInvalidDiscountPercent = fmt.Errorf("%w: discount percentage must be between 0 and 100", ErrInvalidArgument)

	// Product errors
	ErrProductNotFound = errors.New("product not found")
	ErrEmptyName       = errors.New("product name cannot be empty")
	ErrInvalidCategory = errors.New("product category cannot be empty")

	// Variant errors
	ErrNotVariantProduct   = errors.New("product does not use variant pricing")
	ErrUnknownVariantKey   = errors.New("variant key has no price")
	ErrVariantNotAvailable = errors.New("variant is not available")
)
