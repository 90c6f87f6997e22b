package domain

import (
	"errors"
	"fmt"
)

var (
	ErrFetchProducts        = errors.New("products fetch failed")
	ErrFetchTimeout         = errors.New("request timeout")
	ErrInvalidPayload       = errors.New("invalid data format")
	ErrEmptyCart            = errors.New("cart is empty")
	ErrInvalidCheckoutState = errors.New("invalid checkout state")
	ErrInvalidPaymentMethod = errors.New("invalid payment method")
	ErrSearchClosed         = errors.New("search is closed")
)

// A FetchError is the single error kind returned when the catalog could not
// be retrieved. Reason is suitable for showing to the user.
type FetchError struct {
	Reason string
	Err    error
}

func (e *FetchError) Error() string {
	return fmt.Sprintf("%s: %s", ErrFetchProducts, e.Reason)
}

func (e *FetchError) Unwrap() []error {
	if e.Err == nil {
		return []error{ErrFetchProducts}
	}
	return []error{ErrFetchProducts, e.Err}
}
