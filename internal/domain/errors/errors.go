package errors

import (
	"errors"
)

var (
	ErrEmptySelection     = errors.New("no items selected for checkout")
	ErrCheckoutInProgress = errors.New("checkout attempt already in progress")
	ErrNoPendingChoice    = errors.New("no checkout attempt awaiting a choice")
	ErrUnknownChoice      = errors.New("unknown checkout choice")

	ErrOrderLookupFailed = errors.New("failed to check existing orders")
	ErrOrderCreateFailed = errors.New("failed to create order")
	ErrOrderAppendFailed = errors.New("failed to add items to order")
	ErrOrderNotFound     = errors.New("order not found")

	ErrMysteryBoxContentsRequired = errors.New("mystery box contents cannot be empty")
	ErrTagLookupFailed            = errors.New("failed to resolve tags")

	ErrBackendUnavailable = errors.New("order backend unavailable")
)
