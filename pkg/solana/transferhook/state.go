package transferhook

import (
	"bytes"

	"github.com/pkg/errors"

	"github.com/tokenwire/tokenwire-go/pkg/solana"
	"github.com/tokenwire/tokenwire-go/pkg/solana/binary"
)

// Validation state account layout:
//
//   [8-byte instruction discriminator]
//   [u32 byte length of the list that follows]
//   [u32 entry count]
//   [count * 35-byte records]
//   [optional zeroed capacity]
//
// All integers are little-endian. Records are stored, and must be resolved,
// in order: later entries may reference accounts appended by earlier ones.
const extraAccountMetaListHeaderSize = binary.DiscriminatorSize + 4 + 4

// GetExtraAccountMetaListSize returns the byte size of a validation state
// account holding count entries.
func GetExtraAccountMetaListSize(count int) int {
	return extraAccountMetaListHeaderSize + count*ExtraAccountMetaSize
}

// EncodeExtraAccountMetaList packs the provided entries into validation
// state account data for the instruction identified by discriminator.
func EncodeExtraAccountMetaList(discriminator []byte, metas []ExtraAccountMeta) []byte {
	var offset int
	data := make([]byte, GetExtraAccountMetaListSize(len(metas)))
	binary.PutDiscriminator(data, discriminator, &offset)
	binary.PutUint32(data[offset:], uint32(4+len(metas)*ExtraAccountMetaSize), &offset)
	binary.PutUint32(data[offset:], uint32(len(metas)), &offset)
	for i := range metas {
		metas[i].Marshal(data[offset:])
		offset += ExtraAccountMetaSize
	}
	return data
}

// DecodeExtraAccountMetaList unpacks the entries stored in validation state
// account data, in stored order. Capacity beyond the entry count is ignored.
func DecodeExtraAccountMetaList(data []byte, discriminator []byte) ([]ExtraAccountMeta, error) {
	if len(data) < binary.DiscriminatorSize {
		return nil, errors.Wrap(ErrInvalidDiscriminator, "data too small for discriminator")
	}

	var offset int
	var actual []byte
	binary.GetDiscriminator(data, &actual, &offset)
	if !bytes.Equal(actual, discriminator) {
		return nil, ErrInvalidDiscriminator
	}

	if len(data) < extraAccountMetaListHeaderSize {
		return nil, errors.Wrap(ErrTruncatedTable, "data too small for list header")
	}

	var length, count uint32
	binary.GetUint32(data[offset:], &length, &offset)
	binary.GetUint32(data[offset:], &count, &offset)

	if uint64(length) < uint64(4+int(count)*ExtraAccountMetaSize) {
		return nil, errors.Wrap(ErrTruncatedTable, "declared length too small for entry count")
	}
	if len(data)-offset < int(count)*ExtraAccountMetaSize {
		return nil, errors.Wrapf(ErrTruncatedTable, "%d bytes remaining for %d entries", len(data)-offset, count)
	}

	metas := make([]ExtraAccountMeta, count)
	for i := range metas {
		if !metas[i].Unmarshal(data[offset:]) {
			return nil, ErrTruncatedTable
		}
		offset += ExtraAccountMetaSize
	}

	return metas, nil
}

// AddExtraAccountMetasToInstruction decodes the validation account data and
// appends each resolved extra account meta to the instruction.
//
// Entries are resolved strictly sequentially against the instruction's
// growing account list, since an entry may reference accounts appended by
// the entries before it.
func AddExtraAccountMetasToInstruction(
	instruction *solana.Instruction,
	validationData []byte,
	fetch AccountDataFunc,
) error {
	metas, err := DecodeExtraAccountMetaList(validationData, ExecuteInstructionDiscriminator)
	if err != nil {
		return errors.Wrap(err, "failed to decode extra account meta list")
	}

	for i := range metas {
		resolved, err := metas[i].Resolve(instruction.Accounts, instruction.Data, instruction.Program, fetch)
		if err != nil {
			return errors.Wrapf(err, "failed to resolve extra account meta at index %d", i)
		}
		instruction.Accounts = append(instruction.Accounts, resolved)
	}

	return nil
}
