package consensushashing

import (
	"math/big"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/core/types"
	"github.com/kaspanet/ledgerd/domain/consensus/model/externalapi"
	"github.com/kaspanet/ledgerd/domain/consensus/utils/codec"
)

// TransactionHash returns the given transaction's hash: keccak256 of its
// RLP encoding
func TransactionHash(tx *externalapi.DomainTransaction) common.Hash {
	return codec.ToEthTransaction(tx).Hash()
}

// SigningHash returns the hash a transaction's signature signs. A nil
// chainID returns the pre-EIP-155 hash.
func SigningHash(tx *externalapi.DomainTransaction, chainID *big.Int) common.Hash {
	ethTx := codec.ToEthTransaction(tx)
	if chainID == nil {
		return types.HomesteadSigner{}.Hash(ethTx)
	}
	return types.NewEIP155Signer(chainID).Hash(ethTx)
}
