package testutils

import (
	"crypto/ecdsa"
	"math/big"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/core/types"
	"github.com/holiman/uint256"
	"github.com/kaspanet/ledgerd/domain/chainconfig"
	"github.com/kaspanet/ledgerd/domain/consensus/model/externalapi"
	"github.com/kaspanet/ledgerd/domain/consensus/utils/codec"
	"github.com/pkg/errors"
)

// TransferGasLimit is the gas limit of the transfers built by
// SignedTransfer: exactly the intrinsic gas of a payload-less call
const TransferGasLimit = 21000

// DefaultGasPrice is the gas price of the transfers built by SignedTransfer
const DefaultGasPrice = 10

// SignedTransfer returns a value transfer from the owner of key, signed
// with replay protection when chainID is not nil
func SignedTransfer(key *ecdsa.PrivateKey, nonce uint64, to common.Address, value uint64,
	chainID *big.Int) (*externalapi.DomainTransaction, error) {

	return SignedTransaction(key, chainID, &types.LegacyTx{
		Nonce:    nonce,
		GasPrice: big.NewInt(DefaultGasPrice),
		Gas:      TransferGasLimit,
		To:       &to,
		Value:    new(big.Int).SetUint64(value),
	})
}

// SignedTransaction signs legacyTx with key and converts it to a domain
// transaction, the same way the codec does on decoding
func SignedTransaction(key *ecdsa.PrivateKey, chainID *big.Int,
	legacyTx *types.LegacyTx) (*externalapi.DomainTransaction, error) {

	var signer types.Signer = types.HomesteadSigner{}
	if chainID != nil {
		signer = types.NewEIP155Signer(chainID)
	}

	signedTx, err := types.SignNewTx(key, signer, legacyTx)
	if err != nil {
		return nil, errors.WithStack(err)
	}
	return codec.FromEthTransaction(signedTx)
}

// Ether returns the given amount of ether in wei
func Ether(amount uint64) *uint256.Int {
	return new(uint256.Int).Mul(uint256.NewInt(amount), uint256.NewInt(1e18))
}

// ChainID returns the chain id transactions of the block with the given
// number can be signed with, or nil before replay protection
func ChainID(params *chainconfig.Params, blockNumber uint64) *big.Int {
	if !params.Rules(blockNumber).IsEIP155() {
		return nil
	}
	return new(big.Int).Set(params.ChainID)
}
