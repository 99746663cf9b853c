package statecommitment

import (
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/core/types"
	"github.com/ethereum/go-ethereum/rlp"
	"github.com/holiman/uint256"
	"github.com/kaspanet/ledgerd/domain/consensus/model/externalapi"
	"github.com/pkg/errors"
)

// encodeAccount returns RLP(nonce, balance, storageRoot, codeHash)
func encodeAccount(account *externalapi.Account, storageRoot common.Hash) ([]byte, error) {
	stateAccount := &types.StateAccount{
		Nonce:    account.Nonce,
		Balance:  new(uint256.Int).Set(account.Balance),
		Root:     storageRoot,
		CodeHash: account.CodeHash.Bytes(),
	}
	accountBytes, err := rlp.EncodeToBytes(stateAccount)
	if err != nil {
		return nil, errors.Wrapf(err, "failed to encode account %s", account.Address)
	}
	return accountBytes, nil
}

// encodeStorageValue returns the RLP of the value with its leading zeroes
// trimmed, as storage tries hold it
func encodeStorageValue(value common.Hash) ([]byte, error) {
	valueBytes, err := rlp.EncodeToBytes(common.TrimLeftZeroes(value[:]))
	if err != nil {
		return nil, errors.WithStack(err)
	}
	return valueBytes, nil
}
