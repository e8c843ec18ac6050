package sentinel

import "errors"

// Sentinel errors for infrastructure facts. Stores return these (optionally
// wrapped) so services can translate them into coded domain errors.
//
// These represent factual states about resources, not validation failures:
//   - ErrNotFound: entity does not exist (or is soft-deleted) in the store
//   - ErrVersionConflict: conditional write lost to a concurrent writer
//   - ErrAlreadyExists: unique constraint would be violated
//   - ErrInvalidState: entity in wrong state for the requested operation
var (
	ErrNotFound        = errors.New("not found")
	ErrVersionConflict = errors.New("version conflict")
	ErrAlreadyExists   = errors.New("already exists")
	ErrInvalidState    = errors.New("invalid state")
)
