package executor

import (
	"github.com/ethereum/go-ethereum/core/types"
	"github.com/kaspanet/ledgerd/domain/chainconfig"
	"github.com/kaspanet/ledgerd/domain/consensus/model/externalapi"
	"github.com/kaspanet/ledgerd/domain/consensus/ruleerrors"
	"github.com/kaspanet/ledgerd/domain/consensus/utils/codec"
	"github.com/pkg/errors"
)

// signer returns the signer that recovers transaction senders under rules.
// Homestead and later signers reject high-s signatures (EIP-2).
func signer(transaction *externalapi.DomainTransaction, rules *chainconfig.Rules) (types.Signer, error) {
	if transaction.ChainID != nil {
		if !rules.IsEIP155() {
			return nil, errors.Wrapf(ruleerrors.ErrBadSignature, "replay protected transaction "+
				"before EIP-155 is active")
		}
		if transaction.ChainID.Cmp(rules.ChainID) != 0 {
			return nil, errors.Wrapf(ruleerrors.ErrBadSignature, "transaction chain id %s does not "+
				"match chain id %s", transaction.ChainID, rules.ChainID)
		}
		return types.NewEIP155Signer(rules.ChainID), nil
	}
	if rules.IsHomestead {
		return types.HomesteadSigner{}, nil
	}
	return types.FrontierSigner{}, nil
}

// checkSignature recovers the sender of the transaction and makes sure it
// is the sender the transaction claims
func checkSignature(transaction *externalapi.DomainTransaction, rules *chainconfig.Rules) error {
	if transaction.V == nil || transaction.R == nil || transaction.S == nil {
		return errors.Wrapf(ruleerrors.ErrBadSignature, "transaction is not signed")
	}

	transactionSigner, err := signer(transaction, rules)
	if err != nil {
		return err
	}

	sender, err := types.Sender(transactionSigner, codec.ToEthTransaction(transaction))
	if err != nil {
		return errors.Wrapf(ruleerrors.ErrBadSignature, "cannot recover transaction sender: %s", err)
	}
	if sender != transaction.Sender {
		return errors.Wrapf(ruleerrors.ErrBadSignature, "recovered sender %s is not the transaction "+
			"sender %s", sender, transaction.Sender)
	}
	return nil
}
