// Package blocktest runs Ethereum BlockchainTests fixtures against fresh
// chains: every fixture seeds a genesis, imports its blocks expecting each
// to be accepted or rejected as declared, and finally compares the chain
// tip and the world state with the declared ones.
package blocktest

import (
	"github.com/ethereum/go-ethereum/common"
	"github.com/kaspanet/ledgerd/domain/consensus/model/externalapi"
)

// Fixture is a single normalized BlockchainTests case
type Fixture struct {
	// Name is the key of the case inside its file
	Name string

	// Path is the path of the file, relative to the fixtures root
	Path string

	// SkipReason is set for cases that are loaded but not run
	SkipReason string

	Network       string
	GenesisHeader *externalapi.DomainBlockHeader
	GenesisHash   common.Hash
	GenesisRLP    []byte
	Pre           map[common.Address]*externalapi.GenesisAccount
	Blocks        []*FixtureBlock
	PostState     map[common.Address]*externalapi.GenesisAccount
	LastBlockHash common.Hash
}

// ID identifies the fixture in logs and results
func (f *Fixture) ID() string {
	return f.Path + ":" + f.Name
}

// FixtureBlock is a block to import. Header and Hash are set only for
// blocks the fixture declares valid.
type FixtureBlock struct {
	RLP    []byte
	Header *externalapi.DomainBlockHeader
	Hash   common.Hash

	// ExpectedException is the exception an invalid block is declared to
	// raise, if any
	ExpectedException string

	// RLPError marks blocks whose encoding is known to be undecodable.
	// They are not imported.
	RLPError bool
}

// ShouldBeValid returns whether the fixture declares the block valid
func (b *FixtureBlock) ShouldBeValid() bool {
	return b.Header != nil
}

// JSON layouts of the BlockchainTests format. Quantities are hex or decimal
// strings, normalized by the loader.

type fixtureJSON struct {
	Network            string                 `json:"network"`
	GenesisBlockHeader *headerJSON            `json:"genesisBlockHeader"`
	GenesisRLP         string                 `json:"genesisRLP"`
	Pre                map[string]accountJSON `json:"pre"`
	Blocks             []blockJSON            `json:"blocks"`
	PostState          map[string]accountJSON `json:"postState"`
	LastBlockHash      string                 `json:"lastblockhash"`
}

type headerJSON struct {
	ParentHash       string `json:"parentHash"`
	UncleHash        string `json:"uncleHash"`
	Coinbase         string `json:"coinbase"`
	StateRoot        string `json:"stateRoot"`
	TransactionsTrie string `json:"transactionsTrie"`
	ReceiptTrie      string `json:"receiptTrie"`
	Bloom            string `json:"bloom"`
	Difficulty       string `json:"difficulty"`
	Number           string `json:"number"`
	GasLimit         string `json:"gasLimit"`
	GasUsed          string `json:"gasUsed"`
	Timestamp        string `json:"timestamp"`
	ExtraData        string `json:"extraData"`
	MixHash          string `json:"mixHash"`
	Nonce            string `json:"nonce"`
	BaseFeePerGas    string `json:"baseFeePerGas"`
	Hash             string `json:"hash"`
}

type blockJSON struct {
	RLP         string      `json:"rlp"`
	BlockHeader *headerJSON `json:"blockHeader"`
	RLPError    string      `json:"rlp_error"`

	// Exception keys carry a network suffix (expectExceptionByzantium...)
	// and are collected by the loader from the raw object.
	exceptions map[string]string
}

type accountJSON struct {
	Balance string            `json:"balance"`
	Nonce   string            `json:"nonce"`
	Code    string            `json:"code"`
	Storage map[string]string `json:"storage"`
}
