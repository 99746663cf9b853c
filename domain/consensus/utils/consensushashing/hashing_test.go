package consensushashing

import (
	"math/big"
	"testing"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/core/types"
	"github.com/holiman/uint256"
	"github.com/kaspanet/ledgerd/domain/consensus/model/externalapi"
)

func TestEmptyUncleHash(t *testing.T) {
	if hash := UncleHash(nil); hash != types.EmptyUncleHash {
		t.Fatalf("UncleHash(nil) is %s, want %s", hash, types.EmptyUncleHash)
	}
}

func TestHeaderHashMatchesGoEthereum(t *testing.T) {
	header := &externalapi.DomainBlockHeader{
		ParentHash: common.HexToHash("0x01"),
		UncleHash:  types.EmptyUncleHash,
		Coinbase:   common.HexToAddress("0x8888f1f195afa192cfee860698584c030f4c9db1"),
		StateRoot:  common.HexToHash("0x02"),
		Difficulty: big.NewInt(131072),
		Number:     1,
		GasLimit:   3141592,
		Timestamp:  1000,
		ExtraData:  []byte("ledgerd"),
	}
	ethHeader := &types.Header{
		ParentHash: header.ParentHash,
		UncleHash:  header.UncleHash,
		Coinbase:   header.Coinbase,
		Root:       header.StateRoot,
		Difficulty: big.NewInt(131072),
		Number:     big.NewInt(1),
		GasLimit:   3141592,
		Time:       1000,
		Extra:      []byte("ledgerd"),
	}
	if HeaderHash(header) != ethHeader.Hash() {
		t.Fatalf("HeaderHash is %s, want %s", HeaderHash(header), ethHeader.Hash())
	}

	changed := header.Clone()
	changed.Timestamp++
	if HeaderHash(changed) == HeaderHash(header) {
		t.Fatalf("changing the timestamp didn't change the header hash")
	}
}

func TestSigningHashDependsOnChainID(t *testing.T) {
	to := common.HexToAddress("0x01")
	tx := &externalapi.DomainTransaction{
		Nonce:    0,
		GasPrice: uint256.NewInt(1),
		GasLimit: 21000,
		To:       &to,
		Value:    uint256.NewInt(10),
	}
	unprotected := SigningHash(tx, nil)
	protected := SigningHash(tx, big.NewInt(1))
	if unprotected == protected {
		t.Fatalf("the EIP-155 signing hash equals the unprotected one")
	}
	if SigningHash(tx, big.NewInt(1)) != protected {
		t.Fatalf("SigningHash is not deterministic")
	}
}
