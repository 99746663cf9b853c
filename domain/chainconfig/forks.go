package chainconfig

import "math/big"

// Fork identifies a protocol upgrade. Forks are ordered: a network that
// activates a fork has activated every fork preceding it.
type Fork int

// The supported forks, in activation order.
const (
	Frontier Fork = iota
	Homestead
	TangerineWhistle
	SpuriousDragon
	Byzantium
	Constantinople
	Petersburg
	Istanbul
	MuirGlacier

	// NOTE: numberOfForks must always come last since it is used to
	// size the fork schedule.
	numberOfForks
)

var forkNames = [numberOfForks]string{
	Frontier:         "Frontier",
	Homestead:        "Homestead",
	TangerineWhistle: "TangerineWhistle",
	SpuriousDragon:   "SpuriousDragon",
	Byzantium:        "Byzantium",
	Constantinople:   "Constantinople",
	Petersburg:       "Petersburg",
	Istanbul:         "Istanbul",
	MuirGlacier:      "MuirGlacier",
}

func (f Fork) String() string {
	if f < 0 || f >= numberOfForks {
		return "unknown fork"
	}
	return forkNames[f]
}

// NotActivated marks a fork that a network never activates.
const NotActivated = ^uint64(0)

// ForkSchedule maps every fork to the number of the first block it applies to.
type ForkSchedule [numberOfForks]uint64

// scheduleFrom returns a schedule that activates every fork up to and
// including last at block 0, and leaves the rest unactivated.
func scheduleFrom(last Fork) ForkSchedule {
	var schedule ForkSchedule
	for fork := Frontier; fork < numberOfForks; fork++ {
		if fork <= last {
			schedule[fork] = 0
		} else {
			schedule[fork] = NotActivated
		}
	}
	return schedule
}

// transitionAt returns a schedule that runs the forks up to and including
// from at genesis and activates every fork up to and including to at the
// given block number.
func transitionAt(from, to Fork, number uint64) ForkSchedule {
	schedule := scheduleFrom(from)
	for fork := from + 1; fork <= to; fork++ {
		schedule[fork] = number
	}
	return schedule
}

// Rules is the set of forks active at a single block number. It's what
// block-level processes consult instead of the raw schedule.
type Rules struct {
	ChainID *big.Int

	IsHomestead        bool
	IsTangerineWhistle bool
	IsSpuriousDragon   bool
	IsByzantium        bool
	IsConstantinople   bool
	IsPetersburg       bool
	IsIstanbul         bool
	IsMuirGlacier      bool
}

// IsEIP155 returns whether replay-protected signatures are accepted.
func (r *Rules) IsEIP155() bool {
	return r.IsSpuriousDragon
}

// IsEIP158 returns whether empty touched accounts are removed from the state.
func (r *Rules) IsEIP158() bool {
	return r.IsSpuriousDragon
}
