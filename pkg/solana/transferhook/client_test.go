package transferhook

import (
	"crypto/ed25519"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tokenwire/tokenwire-go/pkg/solana"
)

type fakeSolanaClient struct {
	accounts  map[string]solana.AccountInfo
	requested []ed25519.PublicKey
}

func (f *fakeSolanaClient) GetAccountInfo(account ed25519.PublicKey, _ solana.Commitment) (solana.AccountInfo, error) {
	f.requested = append(f.requested, account)

	accountInfo, ok := f.accounts[string(account)]
	if !ok {
		return solana.AccountInfo{}, solana.ErrNoAccountInfo
	}
	return accountInfo, nil
}

func (f *fakeSolanaClient) GetMinimumBalanceForRentExemption(size uint64) (uint64, error) {
	// lamports scale linearly with account size
	return 10 * size, nil
}

func TestClient_GetExtraAccountMetas(t *testing.T) {
	keys := generateKeys(t, 3)
	hookProgram, mint := keys[0], keys[1]

	validationState, err := GetExtraAccountMetasAddress(mint, hookProgram)
	require.NoError(t, err)

	entries := []ExtraAccountMeta{
		NewExtraAccountMetaWithPubkey(keys[2], true, false),
	}

	sc := &fakeSolanaClient{
		accounts: map[string]solana.AccountInfo{
			string(validationState): {
				Data:  EncodeExtraAccountMetaList(ExecuteInstructionDiscriminator, entries),
				Owner: hookProgram,
			},
		},
	}
	client := NewClient(sc, hookProgram)
	assert.EqualValues(t, hookProgram, client.HookProgram())

	actual, err := client.GetExtraAccountMetas(mint, solana.CommitmentFinalized)
	require.NoError(t, err)
	assert.Equal(t, entries, actual)

	require.Len(t, sc.requested, 1)
	assert.EqualValues(t, validationState, sc.requested[0])
}

func TestClient_GetExtraAccountMetas_NotFound(t *testing.T) {
	keys := generateKeys(t, 2)

	client := NewClient(&fakeSolanaClient{}, keys[0])

	_, err := client.GetExtraAccountMetas(keys[1], solana.CommitmentFinalized)
	assert.ErrorIs(t, err, ErrValidationStateNotFound)
}

func TestClient_GetValidationStateRent(t *testing.T) {
	keys := generateKeys(t, 1)

	client := NewClient(&fakeSolanaClient{}, keys[0])

	lamports, err := client.GetValidationStateRent(2)
	require.NoError(t, err)
	assert.EqualValues(t, 10*GetExtraAccountMetaListSize(2), lamports)
}

func TestNewAccountDataFunc(t *testing.T) {
	keys := generateKeys(t, 2)

	sc := &fakeSolanaClient{
		accounts: map[string]solana.AccountInfo{
			string(keys[0]): {Data: []byte{1, 2, 3}},
		},
	}
	fetch := NewAccountDataFunc(sc, solana.CommitmentFinalized)

	data, err := fetch(keys[0])
	require.NoError(t, err)
	assert.Equal(t, []byte{1, 2, 3}, data)

	// missing accounts are reported as nil data, not an error
	data, err = fetch(keys[1])
	require.NoError(t, err)
	assert.Nil(t, data)
}
