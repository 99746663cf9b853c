package chainconfig

import (
	"math/big"

	"github.com/pkg/errors"
)

// CommitmentScheme selects how state, receipt and transaction roots
// are computed.
type CommitmentScheme int

const (
	// MerklePatriciaScheme commits to data through a Merkle-Patricia trie,
	// compatible with Ethereum roots.
	MerklePatriciaScheme CommitmentScheme = iota

	// MultisetScheme commits to data through an ECMH multiset hash. It is
	// not compatible with Ethereum roots.
	MultisetScheme
)

func (s CommitmentScheme) String() string {
	switch s {
	case MerklePatriciaScheme:
		return "merkle-patricia"
	case MultisetScheme:
		return "multiset"
	default:
		return "unknown scheme"
	}
}

var (
	// ether is 10^18 wei.
	ether = new(big.Int).Exp(big.NewInt(10), big.NewInt(18), nil)

	// minimumDifficulty is the lowest difficulty a proof-of-work block can
	// declare.
	minimumDifficulty = big.NewInt(131072)
)

const (
	minGasLimit          = 5000
	maxGasLimit          = 0x7fffffffffffffff
	gasLimitBoundDivisor = 1024
	maximumExtraDataSize = 32

	difficultyBoundDivisor = 2048
	durationLimit          = 13
	expDiffPeriod          = 100000

	maxUncles     = 2
	maxUncleDepth = 6
)

// Params defines a ledger network by its parameters. These parameters
// decide which consensus rules apply to a block.
type Params struct {
	// Name defines a human-readable identifier for the network.
	Name string

	// ChainID is the replay-protection chain id (EIP-155).
	ChainID *big.Int

	// Forks holds the activation block of every fork.
	Forks ForkSchedule

	// CommitmentScheme selects how roots are computed.
	CommitmentScheme CommitmentScheme

	// SkipProofOfWork disables difficulty rules. Blocks on such a network
	// must declare zero difficulty.
	SkipProofOfWork bool

	// MinGasLimit and MaxGasLimit bound every block's gas limit.
	MinGasLimit uint64
	MaxGasLimit uint64

	// GasLimitBoundDivisor bounds how much a block's gas limit may differ
	// from its parent's: the difference must be below
	// parentGasLimit / GasLimitBoundDivisor.
	GasLimitBoundDivisor uint64

	// MaximumExtraDataSize is the maximum length of a header's extra data.
	MaximumExtraDataSize uint64

	// MinimumDifficulty is the lowest difficulty before the exponential
	// factor is added.
	MinimumDifficulty *big.Int

	// DifficultyBoundDivisor bounds the difficulty adjustment per block.
	DifficultyBoundDivisor uint64

	// DurationLimit is the Frontier block time target in seconds.
	DurationLimit uint64

	// ExpDiffPeriod is the period, in blocks, of the exponential
	// difficulty factor.
	ExpDiffPeriod uint64

	// MaxUncles is the maximum number of uncle headers in a block.
	MaxUncles int

	// MaxUncleDepth is how many generations below a block an uncle may be:
	// an uncle of block N has a number of at least N-MaxUncleDepth.
	MaxUncleDepth uint64

	// DisableBlockReward zeroes block and uncle rewards.
	DisableBlockReward bool
}

// IsActive returns whether fork applies to the block with the given number.
func (p *Params) IsActive(fork Fork, blockNumber uint64) bool {
	activation := p.Forks[fork]
	return activation != NotActivated && blockNumber >= activation
}

// ActiveFork returns the latest fork active at the given block number.
func (p *Params) ActiveFork(blockNumber uint64) Fork {
	active := Frontier
	for fork := Frontier; fork < numberOfForks; fork++ {
		if p.IsActive(fork, blockNumber) {
			active = fork
		}
	}
	return active
}

// Rules returns the fork rules at the given block number.
func (p *Params) Rules(blockNumber uint64) *Rules {
	return &Rules{
		ChainID:            new(big.Int).Set(p.ChainID),
		IsHomestead:        p.IsActive(Homestead, blockNumber),
		IsTangerineWhistle: p.IsActive(TangerineWhistle, blockNumber),
		IsSpuriousDragon:   p.IsActive(SpuriousDragon, blockNumber),
		IsByzantium:        p.IsActive(Byzantium, blockNumber),
		IsConstantinople:   p.IsActive(Constantinople, blockNumber),
		IsPetersburg:       p.IsActive(Petersburg, blockNumber),
		IsIstanbul:         p.IsActive(Istanbul, blockNumber),
		IsMuirGlacier:      p.IsActive(MuirGlacier, blockNumber),
	}
}

// BlockReward returns the reward for mining the block with the given
// number, in wei.
func (p *Params) BlockReward(blockNumber uint64) *big.Int {
	switch {
	case p.DisableBlockReward:
		return new(big.Int)
	case p.IsActive(Constantinople, blockNumber):
		return new(big.Int).Mul(big.NewInt(2), ether)
	case p.IsActive(Byzantium, blockNumber):
		return new(big.Int).Mul(big.NewInt(3), ether)
	default:
		return new(big.Int).Mul(big.NewInt(5), ether)
	}
}

// BombDelay returns the number of blocks by which the exponential
// difficulty factor is delayed at the given block number.
func (p *Params) BombDelay(blockNumber uint64) uint64 {
	switch {
	case p.IsActive(MuirGlacier, blockNumber):
		return 9000000
	case p.IsActive(Constantinople, blockNumber):
		return 5000000
	case p.IsActive(Byzantium, blockNumber):
		return 3000000
	default:
		return 0
	}
}

// validate makes sure the fork schedule is ordered and the limits are sane.
func (p *Params) validate() error {
	if p.Name == "" {
		return errors.New("network has no name")
	}
	if p.ChainID == nil || p.ChainID.Sign() <= 0 {
		return errors.Errorf("network %s has an invalid chain id", p.Name)
	}
	for fork := Homestead; fork < numberOfForks; fork++ {
		previous := p.Forks[fork-1]
		current := p.Forks[fork]
		if previous == NotActivated && current != NotActivated {
			return errors.Errorf("network %s activates %s without %s", p.Name, fork, fork-1)
		}
		if current < previous {
			return errors.Errorf("network %s activates %s before %s", p.Name, fork, fork-1)
		}
	}
	if p.MinGasLimit > p.MaxGasLimit {
		return errors.Errorf("network %s has min gas limit %d above max gas limit %d",
			p.Name, p.MinGasLimit, p.MaxGasLimit)
	}
	if p.GasLimitBoundDivisor == 0 {
		return errors.Errorf("network %s has a zero gas limit bound divisor", p.Name)
	}
	if !p.SkipProofOfWork && (p.MinimumDifficulty == nil || p.DifficultyBoundDivisor == 0) {
		return errors.Errorf("network %s has no difficulty parameters", p.Name)
	}
	return nil
}
