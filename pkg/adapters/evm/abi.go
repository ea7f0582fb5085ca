package evm

import (
	"encoding/hex"
	"fmt"
	"math"
	"math/big"
	"strings"

	"github.com/TilepMony-Project/flowcore/pkg/domain"
)

// Minimal ABI word encoding for the controller's simulation entry point.
// The controller contract's ABI is fixed upstream; this file only produces
// calldata for it, it does not define it.
//
// simulateWorkflow(
//     (uint8,uint256,uint256,bytes32,bytes32,uint256)[] actions,
//     bytes32 initialToken,
//     uint256 initialAmount,
//     address caller
// )

const wordSize = 32

// amountScale converts decimal token amounts to the controller's fixed
// 6-decimal integer representation.
const amountScale = 1e6

var actionKindCodes = map[string]uint8{
	domain.ActionMint:     1,
	domain.ActionSwap:     2,
	domain.ActionBridge:   3,
	domain.ActionVault:    4,
	domain.ActionTransfer: 5,
}

// encodeSimulateCall builds the full calldata: 4-byte selector plus the
// ABI-encoded argument block.
func encodeSimulateCall(selector [4]byte, actions []domain.Action, initialToken string, initialAmount float64, caller string) ([]byte, error) {
	callerWord, err := addressWord(caller)
	if err != nil {
		return nil, err
	}

	// Head: 4 argument slots; the dynamic actions array points past them.
	head := make([]byte, 0, 4*wordSize)
	head = append(head, uintWord(4*wordSize)...)
	head = append(head, bytes32Word(initialToken)...)
	head = append(head, amountWord(initialAmount)...)
	head = append(head, callerWord...)

	// Tail: array length followed by the static 6-word tuples.
	tail := make([]byte, 0, (1+6*len(actions))*wordSize)
	tail = append(tail, uintWord(uint64(len(actions)))...)
	for _, a := range actions {
		kind, ok := actionKindCodes[a.Kind]
		if !ok {
			return nil, fmt.Errorf("action kind %q has no ABI code", a.Kind)
		}
		tail = append(tail, uintWord(uint64(kind))...)
		tail = append(tail, amountWord(a.InputAmount)...)
		tail = append(tail, amountWord(a.OutputAmount)...)
		tail = append(tail, bytes32Word(a.InputToken)...)
		tail = append(tail, bytes32Word(a.OutputToken)...)
		tail = append(tail, uintWord(uint64(a.TargetChainID))...)
	}

	data := make([]byte, 0, 4+len(head)+len(tail))
	data = append(data, selector[:]...)
	data = append(data, head...)
	data = append(data, tail...)
	return data, nil
}

// uintWord encodes an unsigned integer as a 32-byte big-endian word.
func uintWord(v uint64) []byte {
	word := make([]byte, wordSize)
	new(big.Int).SetUint64(v).FillBytes(word)
	return word
}

// amountWord scales a decimal amount to 6-decimal fixed point. Negative or
// non-finite amounts encode as zero.
func amountWord(amount float64) []byte {
	if amount < 0 || math.IsNaN(amount) || math.IsInf(amount, 0) {
		amount = 0
	}
	return uintWord(uint64(math.Round(amount * amountScale)))
}

// bytes32Word left-aligns an ASCII token symbol in a 32-byte word.
func bytes32Word(s string) []byte {
	word := make([]byte, wordSize)
	copy(word, s)
	return word
}

// addressWord right-aligns a 20-byte hex address in a 32-byte word.
func addressWord(addr string) ([]byte, error) {
	trimmed := strings.TrimPrefix(strings.TrimSpace(addr), "0x")
	if trimmed == "" {
		return make([]byte, wordSize), nil // zero caller: static simulation context
	}
	raw, err := hex.DecodeString(trimmed)
	if err != nil || len(raw) != 20 {
		return nil, fmt.Errorf("invalid caller address %q", addr)
	}
	word := make([]byte, wordSize)
	copy(word[wordSize-20:], raw)
	return word, nil
}

// decodeRevertReason extracts the human-readable message from an
// Error(string) revert payload (selector 0x08c379a0). Unrecognized payloads
// are returned as-is so the caller still sees something actionable.
func decodeRevertReason(data string) string {
	trimmed := strings.TrimPrefix(data, "0x")
	raw, err := hex.DecodeString(trimmed)
	if err != nil || len(raw) < 4 {
		return data
	}
	if raw[0] != 0x08 || raw[1] != 0xc3 || raw[2] != 0x79 || raw[3] != 0xa0 {
		return data
	}
	body := raw[4:]
	if len(body) < 2*wordSize {
		return data
	}
	strLen := new(big.Int).SetBytes(body[wordSize : 2*wordSize]).Int64()
	if strLen < 0 || int64(len(body)) < int64(2*wordSize)+strLen {
		return data
	}
	return string(body[2*wordSize : int64(2*wordSize)+strLen])
}
