package transferhook

import (
	"crypto/ed25519"
	"crypto/sha256"

	"github.com/mr-tron/base58"

	"github.com/tokenwire/tokenwire-go/pkg/solana"
	"github.com/tokenwire/tokenwire-go/pkg/solana/binary"
)

var (
	SYSTEM_PROGRAM_ID = ed25519.PublicKey(mustBase58Decode("11111111111111111111111111111111"))
)

// Seed prefix for the validation state account holding a hook program's
// extra account metas for a given mint.
//
// Reference: https://github.com/solana-labs/solana-program-library/blob/master/token/transfer-hook/interface/src/lib.rs
var extraAccountMetasPrefix = []byte("extra-account-metas")

// Instruction discriminators are the first 8 bytes of the SHA-256 hash of
// the namespaced instruction name, per the spl-discriminator convention.
var (
	ExecuteInstructionDiscriminator             = instructionDiscriminator("spl-transfer-hook-interface:execute")
	InitializeExtraAccountMetaListDiscriminator = instructionDiscriminator("spl-transfer-hook-interface:initialize-extra-account-metas")
	UpdateExtraAccountMetaListDiscriminator     = instructionDiscriminator("spl-transfer-hook-interface:update-extra-account-metas")
)

func instructionDiscriminator(name string) []byte {
	h := sha256.Sum256([]byte(name))
	return h[:binary.DiscriminatorSize]
}

// GetExtraAccountMetasAddress returns the validation state address for the
// given mint and hook program pair.
func GetExtraAccountMetasAddress(mint, hookProgram ed25519.PublicKey) (ed25519.PublicKey, error) {
	return solana.FindProgramAddress(
		hookProgram,
		extraAccountMetasPrefix,
		mint,
	)
}

const executeInstructionDataSize = binary.DiscriminatorSize + 8

// NewExecuteInstruction builds the hook program's Execute instruction for a
// transfer of amount tokens.
func NewExecuteInstruction(
	hookProgram ed25519.PublicKey,
	source, mint, destination, authority, validationState ed25519.PublicKey,
	amount uint64,
) solana.Instruction {
	// Accounts expected by this instruction:
	//
	//   0. `[]` Source account
	//   1. `[]` Token mint
	//   2. `[]` Destination account
	//   3. `[]` Source account's owner/delegate
	//   4. `[]` Validation account
	//   5..5+M `[]` M additional accounts, written in validation account data
	var offset int
	data := make([]byte, executeInstructionDataSize)
	binary.PutDiscriminator(data, ExecuteInstructionDiscriminator, &offset)
	binary.PutUint64(data[offset:], amount, &offset)

	return solana.NewInstruction(
		hookProgram,
		data,
		solana.NewReadonlyAccountMeta(source, false),
		solana.NewReadonlyAccountMeta(mint, false),
		solana.NewReadonlyAccountMeta(destination, false),
		solana.NewReadonlyAccountMeta(authority, false),
		solana.NewReadonlyAccountMeta(validationState, false),
	)
}

// NewInitializeExtraAccountMetaListInstruction builds the instruction that
// writes the provided extra account metas into a hook program's validation
// state account for the given mint.
func NewInitializeExtraAccountMetaListInstruction(
	hookProgram ed25519.PublicKey,
	validationState, mint, mintAuthority ed25519.PublicKey,
	metas []ExtraAccountMeta,
) solana.Instruction {
	// Accounts expected by this instruction:
	//
	//   0. `[writable]` Account with extra account metas
	//   1. `[]` Mint
	//   2. `[signer]` Mint authority
	//   3. `[]` System program
	return solana.NewInstruction(
		hookProgram,
		marshalMetaListInstructionData(InitializeExtraAccountMetaListDiscriminator, metas),
		solana.NewAccountMeta(validationState, false),
		solana.NewReadonlyAccountMeta(mint, false),
		solana.NewReadonlyAccountMeta(mintAuthority, true),
		solana.NewReadonlyAccountMeta(SYSTEM_PROGRAM_ID, false),
	)
}

// NewUpdateExtraAccountMetaListInstruction builds the instruction that
// overwrites the extra account metas stored in a hook program's validation
// state account.
func NewUpdateExtraAccountMetaListInstruction(
	hookProgram ed25519.PublicKey,
	validationState, mint, mintAuthority ed25519.PublicKey,
	metas []ExtraAccountMeta,
) solana.Instruction {
	// Accounts expected by this instruction:
	//
	//   0. `[writable]` Account with extra account metas
	//   1. `[]` Mint
	//   2. `[signer]` Mint authority
	return solana.NewInstruction(
		hookProgram,
		marshalMetaListInstructionData(UpdateExtraAccountMetaListDiscriminator, metas),
		solana.NewAccountMeta(validationState, false),
		solana.NewReadonlyAccountMeta(mint, false),
		solana.NewReadonlyAccountMeta(mintAuthority, true),
	)
}

// Instruction data layout for initialize/update:
//
//   [8-byte discriminator][u32 count][count * 35-byte records]
func marshalMetaListInstructionData(discriminator []byte, metas []ExtraAccountMeta) []byte {
	var offset int
	data := make([]byte, binary.DiscriminatorSize+4+len(metas)*ExtraAccountMetaSize)
	binary.PutDiscriminator(data, discriminator, &offset)
	binary.PutUint32(data[offset:], uint32(len(metas)), &offset)
	for i := range metas {
		metas[i].Marshal(data[offset:])
		offset += ExtraAccountMetaSize
	}
	return data
}

func mustBase58Decode(value string) []byte {
	decoded, err := base58.Decode(value)
	if err != nil {
		panic(err)
	}
	return decoded
}
