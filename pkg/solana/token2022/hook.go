package token2022

import (
	"bytes"
	"crypto/ed25519"
	"encoding/binary"

	"github.com/pkg/errors"

	"github.com/tokenwire/tokenwire-go/pkg/solana"
	"github.com/tokenwire/tokenwire-go/pkg/solana/transferhook"
)

var (
	ErrIncorrectProgram     = errors.New("incorrect program")
	ErrIncorrectInstruction = errors.New("incorrect instruction")
)

// ResolveTransferHookExtraAccountMetas returns the provided TransferChecked
// instruction augmented with the extra account metas required by the mint's
// transfer hook program, followed by the hook program and its validation
// state account.
//
// The instruction is returned unchanged when the mint carries no transfer
// hook extension, and when the hook program has no validation state account
// for the mint. Any resolution failure aborts the whole call; no partially
// augmented instruction is ever returned.
func ResolveTransferHookExtraAccountMetas(
	instruction solana.Instruction,
	mint ed25519.PublicKey,
	fetch transferhook.AccountDataFunc,
) (solana.Instruction, error) {
	if !bytes.Equal(instruction.Program, ProgramKey) {
		return solana.Instruction{}, ErrIncorrectProgram
	}
	if len(instruction.Data) != transferCheckedDataSize || Command(instruction.Data[0]) != CommandTransferChecked {
		return solana.Instruction{}, ErrIncorrectInstruction
	}
	if len(instruction.Accounts) < 4 {
		return solana.Instruction{}, errors.Wrapf(transferhook.ErrIncorrectAccount, "invalid number of accounts: %d", len(instruction.Accounts))
	}
	if !bytes.Equal(instruction.Accounts[1].PublicKey, mint) {
		return solana.Instruction{}, errors.Wrap(transferhook.ErrIncorrectAccount, "mint account mismatch")
	}

	if fetch == nil {
		return solana.Instruction{}, transferhook.ErrAccountDataNotFound
	}
	mintData, err := fetch(mint)
	if err != nil {
		return solana.Instruction{}, errors.Wrap(err, "failed to fetch mint account")
	}
	if mintData == nil {
		return solana.Instruction{}, errors.Wrap(transferhook.ErrAccountDataNotFound, "mint account not found")
	}

	hookProgram := GetTransferHookProgramID(mintData)
	if hookProgram == nil {
		return instruction, nil
	}

	amount := binary.LittleEndian.Uint64(instruction.Data[1:9])

	// Resolution appends to a private copy so a failure never leaves the
	// caller's instruction partially augmented.
	augmented := instruction
	augmented.Accounts = make([]solana.AccountMeta, len(instruction.Accounts))
	copy(augmented.Accounts, instruction.Accounts)

	err = transferhook.AddExtraAccountMetasForExecute(
		&augmented,
		hookProgram,
		instruction.Accounts[0].PublicKey,
		mint,
		instruction.Accounts[2].PublicKey,
		instruction.Accounts[3].PublicKey,
		amount,
		fetch,
	)
	if err != nil {
		return solana.Instruction{}, err
	}

	return augmented, nil
}

// TransferCheckedWithTransferHook builds a TransferChecked instruction and
// resolves any extra account metas required by the mint's transfer hook.
func TransferCheckedWithTransferHook(
	source, mint, dest, owner ed25519.PublicKey,
	amount uint64,
	decimals byte,
	fetch transferhook.AccountDataFunc,
) (solana.Instruction, error) {
	return ResolveTransferHookExtraAccountMetas(
		TransferChecked(source, mint, dest, owner, amount, decimals),
		mint,
		fetch,
	)
}
