package service

import "errors"

// Domain errors. Handlers map these onto HTTP statuses; messages are
// client-safe and match the wire contract.
var (
	ErrItemNotFound          = errors.New("Item not found")
	ErrInsufficientInventory = errors.New("Insufficient inventory")
)
