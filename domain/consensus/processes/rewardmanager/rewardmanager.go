package rewardmanager

import (
	"math/big"

	"github.com/ethereum/go-ethereum/common"
	"github.com/holiman/uint256"
	"github.com/kaspanet/ledgerd/domain/chainconfig"
	"github.com/kaspanet/ledgerd/domain/consensus/model"
	"github.com/kaspanet/ledgerd/domain/consensus/model/externalapi"
	"github.com/kaspanet/ledgerd/domain/consensus/ruleerrors"
	"github.com/kaspanet/ledgerd/domain/consensus/utils/worldstate"
	"github.com/pkg/errors"
)

var (
	big8  = big.NewInt(8)
	big32 = big.NewInt(32)
)

type rewardManager struct {
	params *chainconfig.Params
}

// New instantiates a new RewardManager
func New(params *chainconfig.Params) model.RewardManager {
	return &rewardManager{
		params: params,
	}
}

// ApplyRewards credits the block coinbase with the block reward plus
// reward / 32 per included uncle, and every uncle coinbase with
// (uncleNumber + 8 - blockNumber) * reward / 8
func (rm *rewardManager) ApplyRewards(state *worldstate.WorldState, header *externalapi.DomainBlockHeader,
	uncles []*externalapi.DomainBlockHeader) (*worldstate.WorldState, error) {

	blockReward := rm.params.BlockReward(header.Number)
	rules := rm.params.Rules(header.Number)
	mutable := state.Mutate()

	coinbaseReward := new(big.Int).Set(blockReward)
	for _, uncle := range uncles {
		if uncle.Number+8 < header.Number || uncle.Number >= header.Number {
			return nil, errors.Wrapf(ruleerrors.ErrInvalidUncle, "uncle %d cannot be rewarded in block %d",
				uncle.Number, header.Number)
		}
		uncleReward := new(big.Int).SetUint64(uncle.Number + 8 - header.Number)
		uncleReward.Mul(uncleReward, blockReward)
		uncleReward.Div(uncleReward, big8)
		err := credit(mutable, uncle.Coinbase, uncleReward, rules)
		if err != nil {
			return nil, err
		}

		coinbaseReward.Add(coinbaseReward, new(big.Int).Div(blockReward, big32))
	}

	err := credit(mutable, header.Coinbase, coinbaseReward, rules)
	if err != nil {
		return nil, err
	}
	log.Tracef("Credited %s wei to coinbase %s of block %d", coinbaseReward, header.Coinbase, header.Number)

	return mutable.Commit(), nil
}

// credit adds amount to the balance of address. From Spurious Dragon on, a
// credited account that remains empty is removed, as it is touched.
func credit(mutable *worldstate.Mutable, address common.Address, amount *big.Int, rules *chainconfig.Rules) error {
	amountUint256, overflow := uint256.FromBig(amount)
	if overflow {
		return errors.Errorf("reward %s overflows 256 bits", amount)
	}

	account := mutable.GetOrCreateAccount(address)
	_, overflow = account.Balance.AddOverflow(account.Balance, amountUint256)
	if overflow {
		return errors.Errorf("crediting %s overflows the balance of %s", amount, address)
	}

	if rules.IsEIP158() && account.IsEmpty() {
		mutable.DeleteAccount(address)
	}
	return nil
}
