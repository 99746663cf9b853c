package config

import (
	"bytes"
	"encoding/json"
	"math/big"
	"os"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/common/hexutil"
	"github.com/ethereum/go-ethereum/common/math"
	"github.com/ethereum/go-ethereum/core/types"
	"github.com/kaspanet/ledgerd/domain/consensus/model/externalapi"
	"github.com/kaspanet/ledgerd/domain/consensus/ruleerrors"
	"github.com/pkg/errors"
)

// genesisJSON is the layout of a genesis file. Quantities are hex or
// decimal.
type genesisJSON struct {
	Coinbase   common.Address                        `json:"coinbase"`
	Difficulty *math.HexOrDecimal256                 `json:"difficulty"`
	GasLimit   math.HexOrDecimal64                   `json:"gasLimit"`
	Timestamp  math.HexOrDecimal64                   `json:"timestamp"`
	ExtraData  hexutil.Bytes                         `json:"extraData"`
	MixHash    common.Hash                           `json:"mixHash"`
	Nonce      math.HexOrDecimal64                   `json:"nonce"`
	Alloc      map[common.Address]genesisAccountJSON `json:"alloc"`

	StateRoot *common.Hash `json:"stateRoot"`
	Hash      *common.Hash `json:"hash"`
}

type genesisAccountJSON struct {
	Balance *math.HexOrDecimal256       `json:"balance"`
	Nonce   math.HexOrDecimal64         `json:"nonce"`
	Code    hexutil.Bytes               `json:"code"`
	Storage map[common.Hash]common.Hash `json:"storage"`
}

// LoadGenesisFile reads a genesis configuration from a JSON file. Files
// that don't parse are ruleerrors.ErrMalformedGenesis.
func LoadGenesisFile(path string) (*externalapi.GenesisConfig, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.WithStack(err)
	}
	return ParseGenesis(data)
}

// ParseGenesis parses a JSON genesis configuration
func ParseGenesis(data []byte) (*externalapi.GenesisConfig, error) {
	raw := &genesisJSON{}
	decoder := json.NewDecoder(bytes.NewReader(data))
	decoder.DisallowUnknownFields()
	err := decoder.Decode(raw)
	if err != nil {
		return nil, errors.Wrapf(ruleerrors.ErrMalformedGenesis, "couldn't parse the genesis: %s", err)
	}

	config := &externalapi.GenesisConfig{
		Coinbase:  raw.Coinbase,
		GasLimit:  uint64(raw.GasLimit),
		Timestamp: uint64(raw.Timestamp),
		ExtraData: common.CopyBytes(raw.ExtraData),
		MixDigest: raw.MixHash,
		Nonce:     types.EncodeNonce(uint64(raw.Nonce)),
		Alloc:     make(map[common.Address]*externalapi.GenesisAccount, len(raw.Alloc)),
		StateRoot: raw.StateRoot,
		Hash:      raw.Hash,
	}
	if raw.Difficulty != nil {
		config.Difficulty = (*big.Int)(raw.Difficulty)
	}

	for address, rawAccount := range raw.Alloc {
		account := &externalapi.GenesisAccount{
			Balance: new(big.Int),
			Nonce:   uint64(rawAccount.Nonce),
			Code:    common.CopyBytes(rawAccount.Code),
			Storage: rawAccount.Storage,
		}
		if rawAccount.Balance != nil {
			account.Balance = (*big.Int)(rawAccount.Balance)
		}
		config.Alloc[address] = account
	}
	return config, nil
}
