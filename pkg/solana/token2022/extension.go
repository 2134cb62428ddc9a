package token2022

import (
	"crypto/ed25519"

	"github.com/tokenwire/tokenwire-go/pkg/solana/binary"
)

const transferHookExtensionSize = 2 * ed25519.PublicKeySize

// TransferHook is the mint extension pointing at the program invoked on
// every transfer of the mint's tokens.
//
// Reference: https://github.com/solana-labs/solana-program-library/blob/master/token/program-2022/src/extension/transfer_hook/mod.rs
type TransferHook struct {
	// Authority that can update the hook program id.
	Authority ed25519.PublicKey
	// The hook program invoked on transfer. Stored as an optional
	// non-zero pubkey; nil when unset.
	ProgramID ed25519.PublicKey
}

// GetTransferHook returns the mint's transfer hook extension, or false if
// the mint does not carry one.
func GetTransferHook(mintData []byte) (TransferHook, bool) {
	data := getExtensionData(mintData, ExtensionTypeTransferHook)
	if len(data) != transferHookExtensionSize {
		return TransferHook{}, false
	}

	var offset int
	var hook TransferHook
	binary.GetKey32(data, &hook.Authority, &offset)
	binary.GetKey32(data[offset:], &hook.ProgramID, &offset)

	if isZeroPubkey(hook.Authority) {
		hook.Authority = nil
	}
	if isZeroPubkey(hook.ProgramID) {
		hook.ProgramID = nil
	}

	return hook, true
}

// GetTransferHookProgramID returns the hook program configured on the mint,
// or nil when the mint has no transfer hook.
func GetTransferHookProgramID(mintData []byte) ed25519.PublicKey {
	hook, ok := GetTransferHook(mintData)
	if !ok {
		return nil
	}
	return hook.ProgramID
}

func isZeroPubkey(pub ed25519.PublicKey) bool {
	for _, b := range pub {
		if b != 0 {
			return false
		}
	}
	return true
}
