package transferhook

import (
	"github.com/pkg/errors"
)

var (
	// ErrInvalidSeed indicates a seed operation references out-of-bounds
	// data or overflows the 32-byte address config window.
	ErrInvalidSeed = errors.New("invalid seed configuration")

	// ErrAccountDataNotFound indicates the data of an account required
	// during seed resolution could not be fetched.
	ErrAccountDataNotFound = errors.New("required account data not found")

	// ErrInvalidDiscriminator indicates a validation account holds data
	// for a different instruction than the one being resolved.
	ErrInvalidDiscriminator = errors.New("invalid account discriminator")

	// ErrTruncatedTable indicates a validation account holds fewer bytes
	// than its declared entry count implies.
	ErrTruncatedTable = errors.New("truncated extra account meta list")

	// ErrInvalidAccountReference indicates an extra account meta references
	// an account index that does not exist in the accounts resolved so far.
	ErrInvalidAccountReference = errors.New("invalid account reference")

	// ErrIncorrectAccount indicates the instruction being resolved doesn't
	// contain the accounts required by the transfer hook interface.
	ErrIncorrectAccount = errors.New("incorrect account")
)
