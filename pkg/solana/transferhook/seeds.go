package transferhook

import (
	"crypto/ed25519"

	"github.com/pkg/errors"

	"github.com/tokenwire/tokenwire-go/pkg/solana"
)

// AddressConfigSize is the fixed size of the seed configuration blob
// embedded in every extra account meta.
const AddressConfigSize = 32

// SeedType tags a seed-producing operation inside an address config.
type SeedType uint8

const (
	// SeedTypeEnd terminates a seed sequence. The remainder of the
	// address config must be zeroed.
	SeedTypeEnd SeedType = iota
	// SeedTypeLiteral is a fixed byte string embedded in the config.
	SeedTypeLiteral
	// SeedTypeInstructionData is a slice of the transfer instruction's data.
	SeedTypeInstructionData
	// SeedTypeAccountKey is the public key of a previously-resolved account.
	SeedTypeAccountKey
	// SeedTypeAccountData is a slice of another account's on-chain data.
	SeedTypeAccountData
)

// Seed describes one seed used to derive a program-derived address. The
// field set in use depends on Type.
type Seed struct {
	Type SeedType

	// Literal bytes, for SeedTypeLiteral.
	Bytes []byte

	// Slice bounds, for SeedTypeInstructionData and SeedTypeAccountData.
	Offset uint8
	Length uint8

	// Account index into the resolved account metas, for SeedTypeAccountKey
	// and SeedTypeAccountData.
	Index uint8
}

// NewLiteralSeed returns a seed holding a fixed byte string.
func NewLiteralSeed(b []byte) Seed {
	return Seed{Type: SeedTypeLiteral, Bytes: b}
}

// NewInstructionDataSeed returns a seed sliced from the transfer
// instruction's data buffer.
func NewInstructionDataSeed(offset, length uint8) Seed {
	return Seed{Type: SeedTypeInstructionData, Offset: offset, Length: length}
}

// NewAccountKeySeed returns a seed holding the public key of the account at
// the provided index in the accounts resolved so far.
func NewAccountKeySeed(index uint8) Seed {
	return Seed{Type: SeedTypeAccountKey, Index: index}
}

// NewAccountDataSeed returns a seed sliced from the on-chain data of the
// account at the provided index in the accounts resolved so far.
func NewAccountDataSeed(index, offset, length uint8) Seed {
	return Seed{Type: SeedTypeAccountData, Index: index, Offset: offset, Length: length}
}

func (s Seed) packedSize() int {
	switch s.Type {
	case SeedTypeLiteral:
		return 2 + len(s.Bytes)
	case SeedTypeInstructionData:
		return 3
	case SeedTypeAccountKey:
		return 2
	case SeedTypeAccountData:
		return 4
	default:
		return 0
	}
}

// PackSeeds packs the provided seeds into a fixed 32-byte address config.
// Unused trailing bytes are zeroed, which terminates the sequence.
func PackSeeds(seeds []Seed) ([AddressConfigSize]byte, error) {
	var config [AddressConfigSize]byte

	var offset int
	for _, s := range seeds {
		if offset+s.packedSize() > AddressConfigSize {
			return config, errors.Wrap(ErrInvalidSeed, "packed seeds exceed address config size")
		}

		config[offset] = byte(s.Type)
		switch s.Type {
		case SeedTypeLiteral:
			config[offset+1] = byte(len(s.Bytes))
			copy(config[offset+2:], s.Bytes)
		case SeedTypeInstructionData:
			config[offset+1] = s.Offset
			config[offset+2] = s.Length
		case SeedTypeAccountKey:
			config[offset+1] = s.Index
		case SeedTypeAccountData:
			config[offset+1] = s.Index
			config[offset+2] = s.Offset
			config[offset+3] = s.Length
		default:
			return config, errors.Wrapf(ErrInvalidSeed, "unsupported seed type %d", s.Type)
		}

		offset += s.packedSize()
	}

	return config, nil
}

// AccountDataFunc fetches the raw data of the account at the provided
// address. Implementations return a nil slice with no error when the account
// does not exist.
//
// Resolution only invokes the fetch when an account-data seed is present, so
// callers that know their configs never use that seed variant may pass nil.
type AccountDataFunc func(account ed25519.PublicKey) ([]byte, error)

// NewAccountDataFunc returns an AccountDataFunc backed by a solana.Client.
func NewAccountDataFunc(sc solana.Client, commitment solana.Commitment) AccountDataFunc {
	return func(account ed25519.PublicKey) ([]byte, error) {
		accountInfo, err := sc.GetAccountInfo(account, commitment)
		if err == solana.ErrNoAccountInfo {
			return nil, nil
		} else if err != nil {
			return nil, err
		}
		return accountInfo.Data, nil
	}
}

// ResolveSeeds evaluates the seed operations packed into config against the
// transfer instruction's data and the account metas resolved so far, and
// returns the seed byte strings ready for address derivation.
//
// The sequence ends at the first zero discriminator, or at the 32-byte
// boundary. The cursor strictly advances on every operation, so decoding
// terminates even on malformed input.
func ResolveSeeds(
	config []byte,
	instructionData []byte,
	metas []solana.AccountMeta,
	fetch AccountDataFunc,
) ([][]byte, error) {
	if len(config) != AddressConfigSize {
		return nil, errors.Wrapf(ErrInvalidSeed, "address config must be %d bytes", AddressConfigSize)
	}

	var seeds [][]byte
	for i := 0; i < AddressConfigSize; {
		switch SeedType(config[i]) {
		case SeedTypeEnd:
			return seeds, nil

		case SeedTypeLiteral:
			if i+1 >= AddressConfigSize {
				return nil, errors.Wrap(ErrInvalidSeed, "literal seed missing length")
			}
			length := int(config[i+1])
			if i+2+length > AddressConfigSize {
				return nil, errors.Wrap(ErrInvalidSeed, "literal seed overflows address config")
			}
			seeds = append(seeds, config[i+2:i+2+length])
			i += 2 + length

		case SeedTypeInstructionData:
			if i+2 >= AddressConfigSize {
				return nil, errors.Wrap(ErrInvalidSeed, "instruction data seed missing bounds")
			}
			offset, length := int(config[i+1]), int(config[i+2])
			if offset+length > len(instructionData) {
				return nil, errors.Wrap(ErrInvalidSeed, "instruction data seed out of bounds")
			}
			seeds = append(seeds, instructionData[offset:offset+length])
			i += 3

		case SeedTypeAccountKey:
			if i+1 >= AddressConfigSize {
				return nil, errors.Wrap(ErrInvalidSeed, "account key seed missing index")
			}
			index := int(config[i+1])
			if index >= len(metas) {
				return nil, errors.Wrapf(ErrInvalidSeed, "account key seed index %d out of range", index)
			}
			seeds = append(seeds, metas[index].PublicKey)
			i += 2

		case SeedTypeAccountData:
			if i+3 >= AddressConfigSize {
				return nil, errors.Wrap(ErrInvalidSeed, "account data seed missing bounds")
			}
			index, offset, length := int(config[i+1]), int(config[i+2]), int(config[i+3])
			if index >= len(metas) {
				return nil, errors.Wrapf(ErrInvalidSeed, "account data seed index %d out of range", index)
			}
			if fetch == nil {
				return nil, ErrAccountDataNotFound
			}
			data, err := fetch(metas[index].PublicKey)
			if err != nil {
				return nil, errors.Wrap(err, "failed to fetch account data")
			}
			if data == nil {
				return nil, ErrAccountDataNotFound
			}
			if offset+length > len(data) {
				return nil, errors.Wrap(ErrInvalidSeed, "account data seed out of bounds")
			}
			seeds = append(seeds, data[offset:offset+length])
			i += 4

		default:
			return nil, errors.Wrapf(ErrInvalidSeed, "unknown seed discriminator %d", config[i])
		}
	}

	return seeds, nil
}
