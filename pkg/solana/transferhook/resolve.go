package transferhook

import (
	"bytes"
	"crypto/ed25519"

	"github.com/pkg/errors"

	"github.com/tokenwire/tokenwire-go/pkg/solana"
)

// AddExtraAccountMetasForExecute appends every extra account meta required
// by hookProgram for the given mint, followed by the hook program itself and
// its validation state account, to the provided instruction.
//
// The instruction must already contain the source, mint, destination and
// authority accounts. Resolution runs against a synthetic Execute
// instruction, and only the accounts beyond its first five (the execute
// shape plus the validation state) are copied back, so the caller's
// instruction keeps its original shape.
//
// A hook program that has no validation state account for the mint is not an
// error. Transfer hooks are optional per-mint, so the instruction is left
// unchanged in that case.
func AddExtraAccountMetasForExecute(
	instruction *solana.Instruction,
	hookProgram ed25519.PublicKey,
	source, mint, destination, authority ed25519.PublicKey,
	amount uint64,
	fetch AccountDataFunc,
) error {
	validationState, err := GetExtraAccountMetasAddress(mint, hookProgram)
	if err != nil {
		return errors.Wrap(err, "failed to derive validation state address")
	}

	if fetch == nil {
		return ErrAccountDataNotFound
	}
	validationData, err := fetch(validationState)
	if err != nil {
		return errors.Wrap(err, "failed to fetch validation state account")
	}
	if validationData == nil {
		return nil
	}

	for _, required := range []ed25519.PublicKey{source, mint, destination, authority} {
		if !containsAccount(instruction.Accounts, required) {
			return errors.Wrapf(ErrIncorrectAccount, "instruction missing account %v", required)
		}
	}

	execute := NewExecuteInstruction(hookProgram, source, mint, destination, authority, validationState, amount)
	if err := AddExtraAccountMetasToInstruction(&execute, validationData, fetch); err != nil {
		return err
	}

	// Only the accounts resolved from the validation state; the execute
	// shape itself stays behind.
	instruction.Accounts = append(instruction.Accounts, execute.Accounts[5:]...)

	instruction.Accounts = append(instruction.Accounts,
		solana.NewReadonlyAccountMeta(hookProgram, false),
		solana.NewReadonlyAccountMeta(validationState, false),
	)

	return nil
}

func containsAccount(metas []solana.AccountMeta, pub ed25519.PublicKey) bool {
	for _, m := range metas {
		if bytes.Equal(m.PublicKey, pub) {
			return true
		}
	}
	return false
}
