package transferhook

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tokenwire/tokenwire-go/pkg/solana"
)

func TestExtraAccountMeta_MarshalUnmarshal(t *testing.T) {
	keys := generateKeys(t, 1)

	original := NewExtraAccountMetaWithPubkey(keys[0], true, false)

	b := make([]byte, ExtraAccountMetaSize)
	original.Marshal(b)

	var unmarshalled ExtraAccountMeta
	require.True(t, unmarshalled.Unmarshal(b))
	assert.Equal(t, original, unmarshalled)

	assert.False(t, unmarshalled.Unmarshal(b[:ExtraAccountMetaSize-1]))
}

func TestResolve_LiteralPubkey(t *testing.T) {
	keys := generateKeys(t, 1)

	entry := NewExtraAccountMetaWithPubkey(keys[0], false, true)

	resolved, err := entry.Resolve(nil, nil, nil, noFetch(t))
	require.NoError(t, err)
	assert.EqualValues(t, keys[0], resolved.PublicKey)
	assert.False(t, resolved.IsSigner)
	assert.True(t, resolved.IsWritable)
}

func TestResolve_PDA(t *testing.T) {
	keys := generateKeys(t, 3)
	hookProgram := keys[0]
	metas := []solana.AccountMeta{
		solana.NewAccountMeta(keys[1], false),
		solana.NewReadonlyAccountMeta(keys[2], true),
	}

	entry, err := NewExtraAccountMetaWithSeeds(
		[]Seed{
			NewLiteralSeed([]byte("counter")),
			NewAccountKeySeed(1),
		},
		false,
		true,
	)
	require.NoError(t, err)

	expected, err := solana.FindProgramAddress(hookProgram, []byte("counter"), keys[2])
	require.NoError(t, err)

	resolved, err := entry.Resolve(metas, nil, hookProgram, noFetch(t))
	require.NoError(t, err)
	assert.EqualValues(t, expected, resolved.PublicKey)
	assert.False(t, resolved.IsSigner)
	assert.True(t, resolved.IsWritable)
}

func TestResolve_ExternalPDA(t *testing.T) {
	keys := generateKeys(t, 3)
	hookProgram := keys[0]
	metas := []solana.AccountMeta{
		solana.NewAccountMeta(keys[1], false),
		solana.NewReadonlyAccountMeta(keys[2], false),
	}

	entry, err := NewExtraAccountMetaWithExternalSeeds(
		1,
		[]Seed{NewAccountKeySeed(0)},
		false,
		false,
	)
	require.NoError(t, err)

	// derived under the program at account index 1, not the hook program
	expected, err := solana.FindProgramAddress(keys[2], keys[1])
	require.NoError(t, err)

	resolved, err := entry.Resolve(metas, nil, hookProgram, noFetch(t))
	require.NoError(t, err)
	assert.EqualValues(t, expected, resolved.PublicKey)
}

func TestResolve_InvalidDiscriminator(t *testing.T) {
	keys := generateKeys(t, 1)
	metas := []solana.AccountMeta{
		solana.NewReadonlyAccountMeta(keys[0], false),
	}

	// 2..127 sit between the literal/pda values and the external pda range
	for _, discriminator := range []uint8{2, 64, 127} {
		entry := ExtraAccountMeta{Discriminator: discriminator}
		_, err := entry.Resolve(metas, nil, keys[0], noFetch(t))
		assert.ErrorIs(t, err, ErrInvalidAccountReference)
	}
}

func TestResolve_InvalidAccountReference(t *testing.T) {
	keys := generateKeys(t, 1)

	entry := ExtraAccountMeta{Discriminator: 128}
	_, err := entry.Resolve(nil, nil, keys[0], noFetch(t))
	assert.ErrorIs(t, err, ErrInvalidAccountReference)

	_, err = NewExtraAccountMetaWithExternalSeeds(128, nil, false, false)
	assert.ErrorIs(t, err, ErrInvalidAccountReference)
}

func TestResolve_SeedResolutionFailed(t *testing.T) {
	keys := generateKeys(t, 1)

	entry, err := NewExtraAccountMetaWithSeeds(
		[]Seed{NewAccountKeySeed(3)},
		false,
		false,
	)
	require.NoError(t, err)

	_, err = entry.Resolve(nil, nil, keys[0], noFetch(t))
	assert.ErrorIs(t, err, ErrInvalidSeed)
}

func TestResolve_PrivilegeUnion(t *testing.T) {
	keys := generateKeys(t, 2)
	metas := []solana.AccountMeta{
		solana.NewReadonlyAccountMeta(keys[0], true),
		solana.NewAccountMeta(keys[1], false),
	}

	// resolved as non-signer writable; the earlier occurrence requires a
	// signer, so the final flags are the union of both
	entry := NewExtraAccountMetaWithPubkey(keys[0], false, true)

	resolved, err := entry.Resolve(metas, nil, nil, noFetch(t))
	require.NoError(t, err)
	assert.True(t, resolved.IsSigner)
	assert.True(t, resolved.IsWritable)

	// flags are never narrowed for accounts that only appear once
	entry = NewExtraAccountMetaWithPubkey(keys[1], false, false)
	resolved, err = entry.Resolve(metas, nil, nil, noFetch(t))
	require.NoError(t, err)
	assert.False(t, resolved.IsSigner)
	assert.True(t, resolved.IsWritable)
}
