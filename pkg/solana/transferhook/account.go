package transferhook

import (
	"bytes"
	"crypto/ed25519"

	"github.com/pkg/errors"

	"github.com/tokenwire/tokenwire-go/pkg/solana"
	"github.com/tokenwire/tokenwire-go/pkg/solana/binary"
)

// ExtraAccountMetaSize is the packed size of one extra account meta record.
const ExtraAccountMetaSize = (1 + // discriminator
	AddressConfigSize + // address config
	1 + // is_signer
	1) // is_writable

// Address discriminators for an extra account meta. Values 2..127 are
// invalid; values >= 128 reference the program id at account index
// (discriminator - 128) in the accounts resolved so far.
const (
	addressTypeLiteralPubkey uint8 = 0
	addressTypePDA           uint8 = 1
	addressTypeExternalPDA   uint8 = 1 << 7
)

// ExtraAccountMeta describes one additional account required by a hook
// program, stored in its validation state account.
type ExtraAccountMeta struct {
	Discriminator uint8
	AddressConfig [AddressConfigSize]byte
	IsSigner      bool
	IsWritable    bool
}

// NewExtraAccountMetaWithPubkey returns an entry whose address is the
// provided public key, stored verbatim in the address config.
func NewExtraAccountMetaWithPubkey(pub ed25519.PublicKey, isSigner, isWritable bool) ExtraAccountMeta {
	var config [AddressConfigSize]byte
	copy(config[:], pub)

	return ExtraAccountMeta{
		Discriminator: addressTypeLiteralPubkey,
		AddressConfig: config,
		IsSigner:      isSigner,
		IsWritable:    isWritable,
	}
}

// NewExtraAccountMetaWithSeeds returns an entry whose address is a PDA of
// the hook program itself, derived from the provided seeds.
func NewExtraAccountMetaWithSeeds(seeds []Seed, isSigner, isWritable bool) (ExtraAccountMeta, error) {
	config, err := PackSeeds(seeds)
	if err != nil {
		return ExtraAccountMeta{}, err
	}

	return ExtraAccountMeta{
		Discriminator: addressTypePDA,
		AddressConfig: config,
		IsSigner:      isSigner,
		IsWritable:    isWritable,
	}, nil
}

// NewExtraAccountMetaWithExternalSeeds returns an entry whose address is a
// PDA of the program found at programIndex in the accounts resolved so far,
// derived from the provided seeds.
func NewExtraAccountMetaWithExternalSeeds(programIndex uint8, seeds []Seed, isSigner, isWritable bool) (ExtraAccountMeta, error) {
	if programIndex >= addressTypeExternalPDA {
		return ExtraAccountMeta{}, errors.Wrapf(ErrInvalidAccountReference, "program index %d out of range", programIndex)
	}

	config, err := PackSeeds(seeds)
	if err != nil {
		return ExtraAccountMeta{}, err
	}

	return ExtraAccountMeta{
		Discriminator: addressTypeExternalPDA + programIndex,
		AddressConfig: config,
		IsSigner:      isSigner,
		IsWritable:    isWritable,
	}, nil
}

// Marshal packs the record into dst, which must hold at least
// ExtraAccountMetaSize bytes.
func (m *ExtraAccountMeta) Marshal(dst []byte) {
	var offset int
	binary.PutUint8(dst, m.Discriminator, &offset)
	binary.PutKey32(dst[offset:], m.AddressConfig[:], &offset)
	binary.PutBool(dst[offset:], m.IsSigner, &offset)
	binary.PutBool(dst[offset:], m.IsWritable, &offset)
}

// Unmarshal unpacks the record from src.
func (m *ExtraAccountMeta) Unmarshal(src []byte) bool {
	if len(src) < ExtraAccountMetaSize {
		return false
	}

	var offset int
	binary.GetUint8(src, &m.Discriminator, &offset)
	copy(m.AddressConfig[:], src[offset:offset+AddressConfigSize])
	offset += AddressConfigSize
	binary.GetBool(src[offset:], &m.IsSigner, &offset)
	binary.GetBool(src[offset:], &m.IsWritable, &offset)

	return true
}

// Resolve computes the account meta described by this entry against the
// accounts resolved so far, the transfer instruction's data buffer, and the
// hook program the execute instruction targets.
//
// The returned meta carries the union of the entry's privilege flags and the
// flags of every occurrence of the same address in metas. Flags are only ever
// widened here; an account already required to sign (or be writable)
// elsewhere in the instruction keeps that requirement.
func (m *ExtraAccountMeta) Resolve(
	metas []solana.AccountMeta,
	instructionData []byte,
	hookProgram ed25519.PublicKey,
	fetch AccountDataFunc,
) (solana.AccountMeta, error) {
	var pubkey ed25519.PublicKey

	switch {
	case m.Discriminator == addressTypeLiteralPubkey:
		pubkey = make([]byte, ed25519.PublicKeySize)
		copy(pubkey, m.AddressConfig[:])

	case m.Discriminator == addressTypePDA || m.Discriminator >= addressTypeExternalPDA:
		programID := hookProgram
		if m.Discriminator >= addressTypeExternalPDA {
			programIndex := int(m.Discriminator - addressTypeExternalPDA)
			if programIndex >= len(metas) {
				return solana.AccountMeta{}, errors.Wrapf(ErrInvalidAccountReference, "program id account index %d out of range", programIndex)
			}
			programID = metas[programIndex].PublicKey
		}

		seeds, err := ResolveSeeds(m.AddressConfig[:], instructionData, metas, fetch)
		if err != nil {
			return solana.AccountMeta{}, errors.Wrap(err, "failed to resolve seeds")
		}

		pubkey, err = solana.FindProgramAddress(programID, seeds...)
		if err != nil {
			return solana.AccountMeta{}, errors.Wrap(err, "failed to derive program address")
		}

	default:
		return solana.AccountMeta{}, errors.Wrapf(ErrInvalidAccountReference, "unknown address discriminator %d", m.Discriminator)
	}

	resolved := solana.AccountMeta{
		PublicKey:  pubkey,
		IsSigner:   m.IsSigner,
		IsWritable: m.IsWritable,
	}
	for _, existing := range metas {
		if bytes.Equal(existing.PublicKey, resolved.PublicKey) {
			resolved.IsSigner = resolved.IsSigner || existing.IsSigner
			resolved.IsWritable = resolved.IsWritable || existing.IsWritable
		}
	}

	return resolved, nil
}
