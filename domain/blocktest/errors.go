package blocktest

import "github.com/pkg/errors"

var (
	// ErrMalformedFixture indicates a fixture file that doesn't follow the
	// BlockchainTests format.
	ErrMalformedFixture = errors.New("malformed fixture")

	// ErrGenesisMismatch indicates the genesis built from a fixture differs
	// from its declared genesis header.
	ErrGenesisMismatch = errors.New("genesis mismatch")

	// ErrUnexpectedRejection indicates a block declared valid was rejected.
	ErrUnexpectedRejection = errors.New("block should be good")

	// ErrUnexpectedAcceptance indicates a block declared invalid was accepted.
	ErrUnexpectedAcceptance = errors.New("block should have caused a validation error")

	// ErrBlockMismatch indicates an accepted block doesn't hash to its
	// declared header.
	ErrBlockMismatch = errors.New("block mismatch")

	// ErrLastBlockHashMismatch indicates the chain tip isn't the declared
	// last block.
	ErrLastBlockHashMismatch = errors.New("last block hash mismatch")

	// ErrPostStateMismatch indicates the final state differs from the
	// declared post state.
	ErrPostStateMismatch = errors.New("post state mismatch")
)
