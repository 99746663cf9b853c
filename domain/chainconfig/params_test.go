package chainconfig

import (
	"math/big"
	"testing"

	"github.com/pkg/errors"
)

func TestTransitionSchedule(t *testing.T) {
	params := &FrontierToHomesteadAt5Params
	tests := []struct {
		number        uint64
		wantHomestead bool
		wantFork      Fork
	}{
		{number: 0, wantHomestead: false, wantFork: Frontier},
		{number: 4, wantHomestead: false, wantFork: Frontier},
		{number: 5, wantHomestead: true, wantFork: Homestead},
		{number: 100, wantHomestead: true, wantFork: Homestead},
	}
	for _, test := range tests {
		rules := params.Rules(test.number)
		if rules.IsHomestead != test.wantHomestead {
			t.Errorf("block %d: IsHomestead is %t, want %t", test.number, rules.IsHomestead, test.wantHomestead)
		}
		if fork := params.ActiveFork(test.number); fork != test.wantFork {
			t.Errorf("block %d: active fork is %s, want %s", test.number, fork, test.wantFork)
		}
		if rules.IsTangerineWhistle {
			t.Errorf("block %d: TangerineWhistle unexpectedly active", test.number)
		}
	}
}

func TestByzantiumToConstantinopleFixActivatesEveryIntermediateFork(t *testing.T) {
	rules := ByzantiumToConstantinopleFixAt5Params.Rules(5)
	if !rules.IsConstantinople || !rules.IsPetersburg {
		t.Fatalf("expected Constantinople and Petersburg at block 5, got %+v", rules)
	}
	rules = ByzantiumToConstantinopleFixAt5Params.Rules(4)
	if rules.IsConstantinople || !rules.IsByzantium {
		t.Fatalf("expected plain Byzantium at block 4, got %+v", rules)
	}
}

func TestBlockReward(t *testing.T) {
	ether := new(big.Int).Exp(big.NewInt(10), big.NewInt(18), nil)
	tests := []struct {
		params *Params
		number uint64
		want   int64
	}{
		{&FrontierParams, 1, 5},
		{&HomesteadParams, 1, 5},
		{&ByzantiumParams, 1, 3},
		{&ConstantinopleFixParams, 1, 2},
		{&EIP158ToByzantiumAt5Params, 4, 5},
		{&EIP158ToByzantiumAt5Params, 5, 3},
		{&DevnetParams, 1, 0},
	}
	for _, test := range tests {
		want := new(big.Int).Mul(big.NewInt(test.want), ether)
		if got := test.params.BlockReward(test.number); got.Cmp(want) != 0 {
			t.Errorf("%s block %d: reward %s, want %s", test.params.Name, test.number, got, want)
		}
	}
}

func TestByName(t *testing.T) {
	params, err := ByName("eip158tobyzantiumat5")
	if err != nil {
		t.Fatalf("ByName: %+v", err)
	}
	if params != &EIP158ToByzantiumAt5Params {
		t.Fatalf("ByName returned %s", params.Name)
	}

	_, err = ByName("HomesteadToDaoAt5")
	if !errors.Is(err, ErrUnknownNet) {
		t.Fatalf("ByName of an unknown network returned %v", err)
	}
}

func TestRegister(t *testing.T) {
	err := Register(&HomesteadParams)
	if !errors.Is(err, ErrDuplicateNet) {
		t.Fatalf("registering a default network returned %v, want ErrDuplicateNet", err)
	}

	badSchedule := proofOfWorkParams("badschedule", scheduleFrom(Frontier))
	badSchedule.Forks[Byzantium] = 10
	err = Register(&badSchedule)
	if err == nil {
		t.Fatalf("registering a network that skips forks unexpectedly succeeded")
	}

	mocknet := proofOfWorkParams("mocknet", transitionAt(Homestead, Istanbul, 10))
	err = Register(&mocknet)
	if err != nil {
		t.Fatalf("Register: %+v", err)
	}
	defer delete(registeredNets, "mocknet")

	found := false
	for _, name := range Names() {
		if name == "mocknet" {
			found = true
		}
	}
	if !found {
		t.Fatalf("mocknet is missing from Names()")
	}
}

func TestBombDelay(t *testing.T) {
	if delay := HomesteadParams.BombDelay(10); delay != 0 {
		t.Errorf("Homestead bomb delay is %d", delay)
	}
	if delay := ByzantiumParams.BombDelay(10); delay != 3000000 {
		t.Errorf("Byzantium bomb delay is %d", delay)
	}
	if delay := IstanbulParams.BombDelay(10); delay != 5000000 {
		t.Errorf("Istanbul bomb delay is %d", delay)
	}
	if delay := MuirGlacierParams.BombDelay(10); delay != 9000000 {
		t.Errorf("MuirGlacier bomb delay is %d", delay)
	}
}
