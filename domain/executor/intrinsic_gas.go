package executor

import (
	"math"

	"github.com/kaspanet/ledgerd/domain/chainconfig"
	"github.com/kaspanet/ledgerd/domain/consensus/ruleerrors"
	"github.com/pkg/errors"
)

const (
	transactionGas                    = 21000
	transactionGasContractCreation    = 53000
	transactionDataZeroGas            = 4
	transactionDataNonZeroGasFrontier = 68
	transactionDataNonZeroGasEIP2028  = 16
)

// IntrinsicGas returns the gas a transaction costs before any code runs
func IntrinsicGas(payload []byte, isContractCreation bool, rules *chainconfig.Rules) (uint64, error) {
	gas := uint64(transactionGas)
	if isContractCreation && rules.IsHomestead {
		gas = transactionGasContractCreation
	}

	if len(payload) == 0 {
		return gas, nil
	}

	nonZeroBytes := uint64(0)
	for _, b := range payload {
		if b != 0 {
			nonZeroBytes++
		}
	}
	zeroBytes := uint64(len(payload)) - nonZeroBytes

	nonZeroGas := uint64(transactionDataNonZeroGasFrontier)
	if rules.IsIstanbul {
		nonZeroGas = transactionDataNonZeroGasEIP2028
	}
	if (math.MaxUint64-gas)/nonZeroGas < nonZeroBytes {
		return 0, errors.Wrapf(ruleerrors.ErrOutOfGas, "intrinsic gas of %d non-zero payload bytes overflows", nonZeroBytes)
	}
	gas += nonZeroBytes * nonZeroGas

	if (math.MaxUint64-gas)/transactionDataZeroGas < zeroBytes {
		return 0, errors.Wrapf(ruleerrors.ErrOutOfGas, "intrinsic gas of %d zero payload bytes overflows", zeroBytes)
	}
	gas += zeroBytes * transactionDataZeroGas

	return gas, nil
}
