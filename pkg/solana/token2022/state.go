package token2022

import (
	"crypto/ed25519"

	"github.com/tokenwire/tokenwire-go/pkg/solana/binary"
)

// Reference: https://github.com/solana-labs/solana-program-library/blob/master/token/program-2022/src/state.rs
const MintSize = 82

// Token accounts are 165 bytes; mints with extensions are padded out to this
// size plus one account-type byte so the two can never be confused.
const baseAccountSize = 165

const optionSize = 4

type AccountType byte

const (
	AccountTypeUninitialized AccountType = iota
	AccountTypeMint
	AccountTypeAccount
)

// ExtensionType identifies one TLV-encoded extension trailing the base
// state of a token-2022 mint or account.
type ExtensionType uint16

// Reference: https://github.com/solana-labs/solana-program-library/blob/master/token/program-2022/src/extension/mod.rs
const (
	ExtensionTypeUninitialized ExtensionType = iota
	ExtensionTypeTransferFeeConfig
	ExtensionTypeTransferFeeAmount
	ExtensionTypeMintCloseAuthority
	ExtensionTypeConfidentialTransferMint
	ExtensionTypeConfidentialTransferAccount
	ExtensionTypeDefaultAccountState
	ExtensionTypeImmutableOwner
	ExtensionTypeMemoTransfer
	ExtensionTypeNonTransferable
	ExtensionTypeInterestBearingConfig
	ExtensionTypeCpiGuard
	ExtensionTypePermanentDelegate
	ExtensionTypeNonTransferableAccount
	ExtensionTypeTransferHook
	ExtensionTypeTransferHookAccount
)

type Mint struct {
	// Optional authority used to mint new tokens.
	MintAuthority ed25519.PublicKey
	// Total supply of tokens.
	Supply uint64
	// Number of base 10 digits to the right of the decimal place.
	Decimals uint8
	// Is true if this structure has been initialized.
	IsInitialized bool
	// Optional authority to freeze token accounts.
	FreezeAuthority ed25519.PublicKey
}

// Unmarshal decodes the base mint state. Mint accounts are either exactly
// MintSize bytes, or carry TLV extensions after an account-type byte at
// offset 165.
func (m *Mint) Unmarshal(b []byte) bool {
	if len(b) != MintSize {
		if len(b) <= baseAccountSize || AccountType(b[baseAccountSize]) != AccountTypeMint {
			return false
		}
	}

	var offset int
	binary.GetOptionalKey32(b, &m.MintAuthority, &offset, optionSize)
	binary.GetUint64(b[offset:], &m.Supply, &offset)
	binary.GetUint8(b[offset:], &m.Decimals, &offset)
	binary.GetBool(b[offset:], &m.IsInitialized, &offset)
	binary.GetOptionalKey32(b[offset:], &m.FreezeAuthority, &offset, optionSize)

	return true
}

// getExtensionData returns the value bytes of the requested extension, or
// nil if the account carries no such extension.
//
// Extensions are packed as [type u16 LE][length u16 LE][value] entries
// starting right after the account-type byte.
func getExtensionData(accountData []byte, extensionType ExtensionType) []byte {
	if len(accountData) <= baseAccountSize+1 {
		return nil
	}

	offset := baseAccountSize + 1
	for offset+4 <= len(accountData) {
		var entryType, entryLength uint16
		binary.GetUint16(accountData[offset:], &entryType, &offset)
		binary.GetUint16(accountData[offset:], &entryLength, &offset)

		if ExtensionType(entryType) == ExtensionTypeUninitialized {
			return nil
		}
		if offset+int(entryLength) > len(accountData) {
			return nil
		}
		if ExtensionType(entryType) == extensionType {
			return accountData[offset : offset+int(entryLength)]
		}

		offset += int(entryLength)
	}

	return nil
}
