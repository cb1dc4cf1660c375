package attrpool

import "errors"

// Pool errors.
var (
	// ErrCapacityExceeded is returned by Create when every slot is live.
	// Callers that need more room build a larger pool.
	ErrCapacityExceeded = errors.New("attrpool: pool capacity exceeded")

	// ErrInvalidHandle is returned when a handle is stale, already freed,
	// or belongs to another pool.
	ErrInvalidHandle = errors.New("attrpool: invalid handle")

	// ErrCapacityMismatch is returned when restoring a snapshot taken from
	// a pool of a different capacity.
	ErrCapacityMismatch = errors.New("attrpool: snapshot capacity mismatch")

	// ErrSchemaViolation is returned while building a schema from an
	// inconsistent description.
	ErrSchemaViolation = errors.New("attrpool: schema violation")

	// ErrUnknownAttribute is returned when an attribute or accessor name is
	// not part of the schema.
	ErrUnknownAttribute = errors.New("attrpool: unknown attribute")

	// ErrNoAccessor is returned when the accessor for an attribute was
	// suppressed in its description.
	ErrNoAccessor = errors.New("attrpool: accessor suppressed")
)
