package difficultymanager

import (
	"math/big"

	"github.com/ethereum/go-ethereum/core/types"
	"github.com/kaspanet/ledgerd/domain/chainconfig"
	"github.com/kaspanet/ledgerd/domain/consensus/model"
	"github.com/kaspanet/ledgerd/domain/consensus/model/externalapi"
)

var (
	bigOne      = big.NewInt(1)
	bigTwo      = big.NewInt(2)
	bigMinus99  = big.NewInt(-99)
	homesteadDT = big.NewInt(10)
	byzantiumDT = big.NewInt(9)
)

// DifficultyManager provides a method to resolve the
// difficulty value of a block
type difficultyManager struct {
	params *chainconfig.Params
}

// New instantiates a new difficultyManager
func New(params *chainconfig.Params) model.DifficultyManager {
	return &difficultyManager{
		params: params,
	}
}

// RequiredDifficulty returns the difficulty required for header, given its
// parent. The rule is chosen by the fork active at the header's number.
func (dm *difficultyManager) RequiredDifficulty(header *externalapi.DomainBlockHeader,
	parent *externalapi.DomainBlockHeader) *big.Int {

	switch {
	case dm.params.IsActive(chainconfig.Byzantium, header.Number):
		return dm.byzantiumDifficulty(header, parent)
	case dm.params.IsActive(chainconfig.Homestead, header.Number):
		return dm.homesteadDifficulty(header, parent)
	default:
		return dm.frontierDifficulty(header, parent)
	}
}

// frontierDifficulty raises or lowers the parent difficulty by a fixed
// step depending on whether the block came faster than DurationLimit.
func (dm *difficultyManager) frontierDifficulty(header *externalapi.DomainBlockHeader,
	parent *externalapi.DomainBlockHeader) *big.Int {

	adjustment := new(big.Int).Div(parent.Difficulty, new(big.Int).SetUint64(dm.params.DifficultyBoundDivisor))
	difficulty := new(big.Int)
	if header.Timestamp-parent.Timestamp < dm.params.DurationLimit {
		difficulty.Add(parent.Difficulty, adjustment)
	} else {
		difficulty.Sub(parent.Difficulty, adjustment)
	}
	dm.clampToMinimum(difficulty)

	dm.addExponentialFactor(difficulty, header.Number)
	return difficulty
}

// homesteadDifficulty implements EIP-2:
// diff = parentDiff + parentDiff / 2048 * max(1 - timeDelta // 10, -99)
func (dm *difficultyManager) homesteadDifficulty(header *externalapi.DomainBlockHeader,
	parent *externalapi.DomainBlockHeader) *big.Int {

	difficulty := dm.adjustedDifficulty(header, parent, bigOne, homesteadDT)
	dm.addExponentialFactor(difficulty, header.Number)
	return difficulty
}

// byzantiumDifficulty implements EIP-100, together with the bomb delays of
// Byzantium, Constantinople and Muir Glacier:
// diff = parentDiff + parentDiff / 2048 * max((2 if parent has uncles else 1) - timeDelta // 9, -99)
func (dm *difficultyManager) byzantiumDifficulty(header *externalapi.DomainBlockHeader,
	parent *externalapi.DomainBlockHeader) *big.Int {

	uncleFactor := bigOne
	if parent.UncleHash != types.EmptyUncleHash {
		uncleFactor = bigTwo
	}
	difficulty := dm.adjustedDifficulty(header, parent, uncleFactor, byzantiumDT)

	bombDelay := dm.params.BombDelay(header.Number)
	fakeBlockNumber := uint64(0)
	if header.Number >= bombDelay {
		fakeBlockNumber = header.Number - bombDelay
	}
	dm.addExponentialFactor(difficulty, fakeBlockNumber)
	return difficulty
}

func (dm *difficultyManager) adjustedDifficulty(header *externalapi.DomainBlockHeader,
	parent *externalapi.DomainBlockHeader, base *big.Int, timeDivisor *big.Int) *big.Int {

	timeDelta := new(big.Int).SetUint64(header.Timestamp - parent.Timestamp)
	factor := new(big.Int).Div(timeDelta, timeDivisor)
	factor.Sub(base, factor)
	if factor.Cmp(bigMinus99) < 0 {
		factor.Set(bigMinus99)
	}

	difficulty := new(big.Int).Div(parent.Difficulty, new(big.Int).SetUint64(dm.params.DifficultyBoundDivisor))
	difficulty.Mul(difficulty, factor)
	difficulty.Add(difficulty, parent.Difficulty)
	dm.clampToMinimum(difficulty)
	return difficulty
}

// addExponentialFactor adds 2^(number / ExpDiffPeriod - 2) once more than
// one period has passed
func (dm *difficultyManager) addExponentialFactor(difficulty *big.Int, blockNumber uint64) {
	periodCount := blockNumber / dm.params.ExpDiffPeriod
	if periodCount <= 1 {
		return
	}
	exponentialFactor := new(big.Int).Lsh(bigOne, uint(periodCount-2))
	difficulty.Add(difficulty, exponentialFactor)
	dm.clampToMinimum(difficulty)
}

func (dm *difficultyManager) clampToMinimum(difficulty *big.Int) {
	if difficulty.Cmp(dm.params.MinimumDifficulty) < 0 {
		difficulty.Set(dm.params.MinimumDifficulty)
	}
}
