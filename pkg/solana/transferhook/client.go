package transferhook

import (
	"crypto/ed25519"

	"github.com/pkg/errors"

	"github.com/tokenwire/tokenwire-go/pkg/solana"
)

var (
	// ErrValidationStateNotFound indicates the hook program has no
	// validation state account for the requested mint.
	ErrValidationStateNotFound = errors.New("validation state account not found")
)

// Client provides utilities for reading a hook program's validation state.
type Client struct {
	sc          solana.Client
	hookProgram ed25519.PublicKey
}

// NewClient creates a new Client for the given hook program.
func NewClient(sc solana.Client, hookProgram ed25519.PublicKey) *Client {
	return &Client{
		sc:          sc,
		hookProgram: hookProgram,
	}
}

func (c *Client) HookProgram() ed25519.PublicKey {
	return c.hookProgram
}

// GetExtraAccountMetas returns the extra account metas configured for the
// given mint, in stored order.
func (c *Client) GetExtraAccountMetas(mint ed25519.PublicKey, commitment solana.Commitment) ([]ExtraAccountMeta, error) {
	validationState, err := GetExtraAccountMetasAddress(mint, c.hookProgram)
	if err != nil {
		return nil, errors.Wrap(err, "failed to derive validation state address")
	}

	accountInfo, err := c.sc.GetAccountInfo(validationState, commitment)
	if err == solana.ErrNoAccountInfo {
		return nil, ErrValidationStateNotFound
	} else if err != nil {
		return nil, errors.Wrap(err, "failed to get validation state account")
	}

	return DecodeExtraAccountMetaList(accountInfo.Data, ExecuteInstructionDiscriminator)
}

// GetValidationStateRent returns the minimum lamport balance for a
// rent-exempt validation state account holding count entries. Useful when
// funding the account ahead of an initialize instruction.
func (c *Client) GetValidationStateRent(count int) (uint64, error) {
	return c.sc.GetMinimumBalanceForRentExemption(uint64(GetExtraAccountMetaListSize(count)))
}
