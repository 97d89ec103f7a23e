// Package eth implements wallet signature recovery for the EIP-191
// personal-sign scheme used by browser and mobile wallets.
package eth

import (
	"crypto/ecdsa"
	"fmt"

	"github.com/ethereum/go-ethereum/accounts"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/common/hexutil"
	"github.com/ethereum/go-ethereum/crypto"
)

// SignatureLength is the byte length of a wallet signature (r || s || v).
const SignatureLength = 65

// RecoverAddress derives the signer's address from a personal-sign message
// and its signature. The signature is the 65-byte r||s||v form, with v
// accepted as either 0/1 or the legacy 27/28.
func RecoverAddress(message string, signature []byte) (common.Address, error) {
	if len(signature) != SignatureLength {
		return common.Address{}, fmt.Errorf("signature must be %d bytes, got %d", SignatureLength, len(signature))
	}

	// Wallets emit v as 27/28; go-ethereum expects 0/1.
	sig := make([]byte, SignatureLength)
	copy(sig, signature)
	if sig[64] >= 27 {
		sig[64] -= 27
	}

	hash := accounts.TextHash([]byte(message))
	pub, err := crypto.SigToPub(hash, sig)
	if err != nil {
		return common.Address{}, fmt.Errorf("failed to recover public key: %w", err)
	}

	return crypto.PubkeyToAddress(*pub), nil
}

// Verify reports whether the hex-encoded signature over message was produced
// by the key behind the claimed address. The address comparison is
// case-insensitive. Malformed input yields false, never an error.
func Verify(address, message, signatureHex string) bool {
	sig, err := hexutil.Decode(signatureHex)
	if err != nil {
		return false
	}

	recovered, err := RecoverAddress(message, sig)
	if err != nil {
		return false
	}

	return recovered == common.HexToAddress(address)
}

// Sign produces a personal-sign signature over message with the given key,
// in the 65-byte r||s||v form with v as 27/28. It is the reference signer
// used by tests and tooling.
func Sign(message string, key *ecdsa.PrivateKey) ([]byte, error) {
	sig, err := crypto.Sign(accounts.TextHash([]byte(message)), key)
	if err != nil {
		return nil, err
	}
	sig[64] += 27
	return sig, nil
}
