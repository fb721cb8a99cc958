package model

import "github.com/m-mizutani/goerr/v2"

// Sentinel errors for the jar domain
var (
	// ErrStorageFull is returned when the durable store rejects a write for
	// lack of space
	ErrStorageFull = goerr.New("storage is full")
	// ErrValidation marks rejected user input
	ErrValidation = goerr.New("validation failed")
)

// User facing messages
const (
	MsgStorageFull = "Storage full! Please delete data."
	MsgSaveFailed  = "Could not save to storage."
	MsgAllSeen     = "All memories have been seen!"
	MsgRetry       = "Mali love, try mo ulit."
)

// Context keys for error values
const (
	DateKey     = "date"
	StoreKeyKey = "store_key"
	BackendKey  = "backend"
	MemoryIDKey = "memory_id"
)
