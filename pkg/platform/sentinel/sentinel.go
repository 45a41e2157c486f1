package sentinel

import "errors"

// Sentinel errors for infrastructure facts. Stores and collaborator adapters
// return these (optionally wrapped) so the engine and services can translate
// them into domain errors.
//
// These represent factual states about resources, not validation failures:
// - ErrNotFound: entity does not exist in store or directory
// - ErrConflict: concurrent writer detected (lock already held)
// - ErrInvalidState: entity in wrong state for requested operation
// - ErrUnavailable: external system or resource unreachable
//
// For validation errors (bad input, missing config), use pkg/domain-errors
// directly.
var (
	ErrNotFound     = errors.New("not found")
	ErrConflict     = errors.New("conflict")
	ErrInvalidState = errors.New("invalid state")
	ErrUnavailable  = errors.New("unavailable")
)
