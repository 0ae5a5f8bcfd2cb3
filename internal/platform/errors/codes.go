// Package errors provides structured error handling for the consistency
// layer, including the fatal error kind used for invariant violations.
package errors

import "google.golang.org/grpc/codes"

// Code is a machine-readable error code.
type Code string

const (
	// CodeUnknown represents an unknown error.
	CodeUnknown Code = "UNKNOWN"

	// Addressing errors
	CodeTagInvalid Code = "TAG_INVALID"

	// Arbitration errors
	CodeOpClassUnknown Code = "OP_CLASS_UNKNOWN"

	// Operation log errors
	CodeOpKindUnknown    Code = "OP_KIND_UNKNOWN"
	CodeOpRecordCorrupt  Code = "OP_RECORD_CORRUPT"
	CodeOpRecordTooShort Code = "OP_RECORD_TOO_SHORT"

	// Replay errors
	CodeReplayNodeMissing    Code = "REPLAY_NODE_MISSING"
	CodeReplayArmMissing     Code = "REPLAY_ARM_MISSING"
	CodeReplaySourceMismatch Code = "REPLAY_SOURCE_MISMATCH"

	// Geometry errors
	CodeBoxInvalidBounds Code = "BOX_INVALID_BOUNDS"

	// Storage errors
	CodeNotFound Code = "NOT_FOUND"
)

// GRPCCode maps domain codes to gRPC status codes.
func (c Code) GRPCCode() codes.Code {
	switch c {
	// InvalidArgument - validation failures, bad input
	case CodeBoxInvalidBounds,
		CodeOpRecordCorrupt,
		CodeOpRecordTooShort:
		return codes.InvalidArgument

	// NotFound - missing resources
	case CodeNotFound,
		CodeReplayNodeMissing,
		CodeReplayArmMissing:
		return codes.NotFound

	// Internal - invariant violations; the distributed state may already
	// be inconsistent when one of these is raised.
	case CodeTagInvalid,
		CodeOpClassUnknown,
		CodeOpKindUnknown,
		CodeReplaySourceMismatch:
		return codes.Internal

	default:
		return codes.Unknown
	}
}
