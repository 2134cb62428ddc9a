package transferhook

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestExtraAccountMetaList_RoundTrip(t *testing.T) {
	keys := generateKeys(t, 2)

	pdaEntry, err := NewExtraAccountMetaWithSeeds(
		[]Seed{
			NewLiteralSeed([]byte("state")),
			NewAccountKeySeed(0),
			NewInstructionDataSeed(8, 8),
		},
		false,
		true,
	)
	require.NoError(t, err)

	entries := []ExtraAccountMeta{
		NewExtraAccountMetaWithPubkey(keys[0], true, false),
		NewExtraAccountMetaWithPubkey(keys[1], false, true),
		pdaEntry,
	}

	data := EncodeExtraAccountMetaList(ExecuteInstructionDiscriminator, entries)
	assert.Len(t, data, GetExtraAccountMetaListSize(len(entries)))

	decoded, err := DecodeExtraAccountMetaList(data, ExecuteInstructionDiscriminator)
	require.NoError(t, err)
	assert.Equal(t, entries, decoded)
}

func TestExtraAccountMetaList_Empty(t *testing.T) {
	data := EncodeExtraAccountMetaList(ExecuteInstructionDiscriminator, nil)

	decoded, err := DecodeExtraAccountMetaList(data, ExecuteInstructionDiscriminator)
	require.NoError(t, err)
	assert.Empty(t, decoded)
}

func TestExtraAccountMetaList_PaddingIgnored(t *testing.T) {
	keys := generateKeys(t, 1)
	entries := []ExtraAccountMeta{
		NewExtraAccountMetaWithPubkey(keys[0], false, false),
	}

	// accounts are often allocated with spare capacity for future updates
	data := EncodeExtraAccountMetaList(ExecuteInstructionDiscriminator, entries)
	data = append(data, make([]byte, 3*ExtraAccountMetaSize)...)

	decoded, err := DecodeExtraAccountMetaList(data, ExecuteInstructionDiscriminator)
	require.NoError(t, err)
	assert.Equal(t, entries, decoded)
}

func TestExtraAccountMetaList_InvalidDiscriminator(t *testing.T) {
	data := EncodeExtraAccountMetaList(UpdateExtraAccountMetaListDiscriminator, nil)

	_, err := DecodeExtraAccountMetaList(data, ExecuteInstructionDiscriminator)
	assert.ErrorIs(t, err, ErrInvalidDiscriminator)

	_, err = DecodeExtraAccountMetaList(data[:4], ExecuteInstructionDiscriminator)
	assert.ErrorIs(t, err, ErrInvalidDiscriminator)
}

func TestExtraAccountMetaList_Truncated(t *testing.T) {
	keys := generateKeys(t, 2)
	entries := []ExtraAccountMeta{
		NewExtraAccountMetaWithPubkey(keys[0], false, false),
		NewExtraAccountMetaWithPubkey(keys[1], false, false),
	}

	data := EncodeExtraAccountMetaList(ExecuteInstructionDiscriminator, entries)

	// header only
	_, err := DecodeExtraAccountMetaList(data[:10], ExecuteInstructionDiscriminator)
	assert.ErrorIs(t, err, ErrTruncatedTable)

	// fewer record bytes than the declared count implies
	_, err = DecodeExtraAccountMetaList(data[:len(data)-1], ExecuteInstructionDiscriminator)
	assert.ErrorIs(t, err, ErrTruncatedTable)
}
