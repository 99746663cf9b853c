package testutils

import (
	"crypto/ecdsa"
	"fmt"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/crypto"
)

// PrivateKey returns the i-th deterministic test key
func PrivateKey(i int) *ecdsa.PrivateKey {
	key, err := crypto.ToECDSA(crypto.Keccak256([]byte(fmt.Sprintf("ledgerd test key %d", i))))
	if err != nil {
		panic(fmt.Sprintf("test key %d is invalid: %s", i, err))
	}
	return key
}

// Address returns the address of the i-th deterministic test key
func Address(i int) common.Address {
	return crypto.PubkeyToAddress(PrivateKey(i).PublicKey)
}
