package blocktest

import (
	"encoding/json"
	"math/big"
	"sort"
	"strings"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/common/hexutil"
	"github.com/ethereum/go-ethereum/common/math"
	"github.com/ethereum/go-ethereum/core/types"
	"github.com/kaspanet/ledgerd/domain/consensus/model/externalapi"
	"github.com/pkg/errors"
)

const exceptionKeyPrefix = "expectException"

// UnmarshalJSON decodes a block object, collecting its network specific
// exception keys
func (b *blockJSON) UnmarshalJSON(data []byte) error {
	type plainBlockJSON blockJSON
	err := json.Unmarshal(data, (*plainBlockJSON)(b))
	if err != nil {
		return err
	}

	var raw map[string]json.RawMessage
	err = json.Unmarshal(data, &raw)
	if err != nil {
		return err
	}
	for key, value := range raw {
		if !strings.HasPrefix(key, exceptionKeyPrefix) {
			continue
		}
		var exception string
		err := json.Unmarshal(value, &exception)
		if err != nil {
			return errors.Wrapf(err, "field %s", key)
		}
		if b.exceptions == nil {
			b.exceptions = make(map[string]string)
		}
		b.exceptions[key] = exception
	}
	return nil
}

func normalizeFixture(name, path string, raw *fixtureJSON) (*Fixture, error) {
	if raw.GenesisBlockHeader == nil {
		return nil, errors.Wrapf(ErrMalformedFixture, "missing genesisBlockHeader")
	}
	genesisHeader, genesisHash, err := normalizeHeader(raw.GenesisBlockHeader)
	if err != nil {
		return nil, errors.Wrap(err, "genesisBlockHeader")
	}
	genesisRLP, err := parseBytes(raw.GenesisRLP)
	if err != nil {
		return nil, errors.Wrap(err, "genesisRLP")
	}
	pre, err := normalizeAccounts(raw.Pre)
	if err != nil {
		return nil, errors.Wrap(err, "pre")
	}
	postState, err := normalizeAccounts(raw.PostState)
	if err != nil {
		return nil, errors.Wrap(err, "postState")
	}
	lastBlockHash, err := parseHash(raw.LastBlockHash)
	if err != nil {
		return nil, errors.Wrap(err, "lastblockhash")
	}

	blocks := make([]*FixtureBlock, len(raw.Blocks))
	for i := range raw.Blocks {
		blocks[i], err = normalizeBlock(&raw.Blocks[i])
		if err != nil {
			return nil, errors.Wrapf(err, "block %d", i)
		}
	}

	return &Fixture{
		Name:          name,
		Path:          path,
		Network:       raw.Network,
		GenesisHeader: genesisHeader,
		GenesisHash:   genesisHash,
		GenesisRLP:    genesisRLP,
		Pre:           pre,
		Blocks:        blocks,
		PostState:     postState,
		LastBlockHash: lastBlockHash,
	}, nil
}

func normalizeBlock(raw *blockJSON) (*FixtureBlock, error) {
	block := &FixtureBlock{RLPError: raw.RLPError != ""}

	// Undecodable blocks may carry RLP that isn't even valid hex
	if !block.RLPError {
		var err error
		block.RLP, err = parseBytes(raw.RLP)
		if err != nil {
			return nil, errors.Wrap(err, "rlp")
		}
	}

	// Fixtures filled for several networks carry one exception per network
	exceptionKeys := make([]string, 0, len(raw.exceptions))
	for key := range raw.exceptions {
		exceptionKeys = append(exceptionKeys, key)
	}
	sort.Strings(exceptionKeys)
	if len(exceptionKeys) > 0 {
		block.ExpectedException = raw.exceptions[exceptionKeys[0]]
	}

	if raw.BlockHeader != nil {
		if block.RLPError {
			return nil, errors.Wrapf(ErrMalformedFixture, "block is declared both valid and undecodable")
		}
		header, hash, err := normalizeHeader(raw.BlockHeader)
		if err != nil {
			return nil, errors.Wrap(err, "blockHeader")
		}
		block.Header = header
		block.Hash = hash
	}
	return block, nil
}

func normalizeHeader(raw *headerJSON) (*externalapi.DomainBlockHeader, common.Hash, error) {
	header := &externalapi.DomainBlockHeader{}
	var err error

	parsers := []struct {
		name  string
		parse func() error
	}{
		{"parentHash", func() (err error) { header.ParentHash, err = parseHash(raw.ParentHash); return }},
		{"uncleHash", func() (err error) { header.UncleHash, err = parseHash(raw.UncleHash); return }},
		{"coinbase", func() (err error) { header.Coinbase, err = parseAddress(raw.Coinbase); return }},
		{"stateRoot", func() (err error) { header.StateRoot, err = parseHash(raw.StateRoot); return }},
		{"transactionsTrie", func() (err error) { header.TransactionsRoot, err = parseHash(raw.TransactionsTrie); return }},
		{"receiptTrie", func() (err error) { header.ReceiptsRoot, err = parseHash(raw.ReceiptTrie); return }},
		{"bloom", func() (err error) { header.Bloom, err = parseBloom(raw.Bloom); return }},
		{"difficulty", func() (err error) { header.Difficulty, err = parseQuantity(raw.Difficulty); return }},
		{"number", func() (err error) { header.Number, err = parseUint64(raw.Number); return }},
		{"gasLimit", func() (err error) { header.GasLimit, err = parseUint64(raw.GasLimit); return }},
		{"gasUsed", func() (err error) { header.GasUsed, err = parseUint64(raw.GasUsed); return }},
		{"timestamp", func() (err error) { header.Timestamp, err = parseUint64(raw.Timestamp); return }},
		{"extraData", func() (err error) { header.ExtraData, err = parseBytes(raw.ExtraData); return }},
		{"mixHash", func() (err error) { header.MixDigest, err = parseHash(raw.MixHash); return }},
		{"nonce", func() (err error) { header.Nonce, err = parseNonce(raw.Nonce); return }},
	}
	for _, parser := range parsers {
		err = parser.parse()
		if err != nil {
			return nil, common.Hash{}, errors.Wrap(err, parser.name)
		}
	}

	if raw.BaseFeePerGas != "" {
		header.BaseFee, err = parseQuantity(raw.BaseFeePerGas)
		if err != nil {
			return nil, common.Hash{}, errors.Wrap(err, "baseFeePerGas")
		}
	}
	if len(header.ExtraData) == 0 {
		header.ExtraData = nil
	}

	hash, err := parseHash(raw.Hash)
	if err != nil {
		return nil, common.Hash{}, errors.Wrap(err, "hash")
	}
	return header, hash, nil
}

func normalizeAccounts(raw map[string]accountJSON) (map[common.Address]*externalapi.GenesisAccount, error) {
	accounts := make(map[common.Address]*externalapi.GenesisAccount, len(raw))
	for rawAddress, rawAccount := range raw {
		address, err := parseAddress(rawAddress)
		if err != nil {
			return nil, err
		}
		account, err := normalizeAccount(rawAccount)
		if err != nil {
			return nil, errors.Wrapf(err, "account %s", rawAddress)
		}
		accounts[address] = account
	}
	return accounts, nil
}

func normalizeAccount(raw accountJSON) (*externalapi.GenesisAccount, error) {
	balance, err := parseQuantity(raw.Balance)
	if err != nil {
		return nil, errors.Wrap(err, "balance")
	}
	nonce, err := parseUint64(raw.Nonce)
	if err != nil {
		return nil, errors.Wrap(err, "nonce")
	}
	code, err := parseBytes(raw.Code)
	if err != nil {
		return nil, errors.Wrap(err, "code")
	}

	storage := make(map[common.Hash]common.Hash, len(raw.Storage))
	for rawSlot, rawValue := range raw.Storage {
		slot, err := parseStorageWord(rawSlot)
		if err != nil {
			return nil, errors.Wrapf(err, "storage slot %s", rawSlot)
		}
		value, err := parseStorageWord(rawValue)
		if err != nil {
			return nil, errors.Wrapf(err, "storage value of slot %s", rawSlot)
		}
		if value == (common.Hash{}) {
			continue
		}
		storage[slot] = value
	}

	return &externalapi.GenesisAccount{
		Balance: balance,
		Nonce:   nonce,
		Code:    code,
		Storage: storage,
	}, nil
}

// parseQuantity parses a hex or decimal quantity of at most 256 bits. An
// empty string is zero.
func parseQuantity(s string) (*big.Int, error) {
	value, ok := math.ParseBig256(strings.TrimSpace(s))
	if !ok {
		return nil, errors.Wrapf(ErrMalformedFixture, "invalid quantity %q", s)
	}
	return value, nil
}

func parseUint64(s string) (uint64, error) {
	value, ok := math.ParseUint64(strings.TrimSpace(s))
	if !ok {
		return 0, errors.Wrapf(ErrMalformedFixture, "invalid uint64 %q", s)
	}
	return value, nil
}

// parseBytes parses hex data. The 0x prefix is optional, since older
// fixtures omit it.
func parseBytes(s string) ([]byte, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil, nil
	}
	if !strings.HasPrefix(s, "0x") && !strings.HasPrefix(s, "0X") {
		s = "0x" + s
	}
	data, err := hexutil.Decode(s)
	if err != nil {
		return nil, errors.Wrapf(ErrMalformedFixture, "invalid hex data %q: %s", s, err)
	}
	return data, nil
}

func parseFixed(s string, length int) ([]byte, error) {
	data, err := parseBytes(s)
	if err != nil {
		return nil, err
	}
	if len(data) != length {
		return nil, errors.Wrapf(ErrMalformedFixture, "%q has %d bytes instead of %d", s, len(data), length)
	}
	return data, nil
}

func parseHash(s string) (common.Hash, error) {
	data, err := parseFixed(s, common.HashLength)
	if err != nil {
		return common.Hash{}, err
	}
	return common.BytesToHash(data), nil
}

func parseAddress(s string) (common.Address, error) {
	data, err := parseFixed(s, common.AddressLength)
	if err != nil {
		return common.Address{}, err
	}
	return common.BytesToAddress(data), nil
}

func parseBloom(s string) (types.Bloom, error) {
	data, err := parseFixed(s, types.BloomByteLength)
	if err != nil {
		return types.Bloom{}, err
	}
	return types.BytesToBloom(data), nil
}

func parseNonce(s string) (types.BlockNonce, error) {
	data, err := parseFixed(s, len(types.BlockNonce{}))
	if err != nil {
		return types.BlockNonce{}, err
	}
	var nonce types.BlockNonce
	copy(nonce[:], data)
	return nonce, nil
}

// parseStorageWord parses a storage slot or value: a quantity of at most
// 256 bits, left padded to a word
func parseStorageWord(s string) (common.Hash, error) {
	value, err := parseQuantity(s)
	if err != nil {
		return common.Hash{}, err
	}
	if value.Sign() < 0 {
		return common.Hash{}, errors.Wrapf(ErrMalformedFixture, "negative storage word %q", s)
	}
	return common.BigToHash(value), nil
}
