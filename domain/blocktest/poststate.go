package blocktest

import (
	"bytes"
	"encoding/json"
	"math/big"
	"sort"
	"strings"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/common/hexutil"
	"github.com/kaspanet/ledgerd/domain/consensus/model/externalapi"
	"github.com/pkg/errors"
	"github.com/yudai/gojsondiff"
	"github.com/yudai/gojsondiff/formatter"
)

// accountView is the canonical JSON rendering of an account, shared by
// expected and actual accounts so that they compare field by field
type accountView struct {
	Balance string            `json:"balance"`
	Nonce   string            `json:"nonce"`
	Code    string            `json:"code"`
	Storage map[string]string `json:"storage"`
}

func expectedAccountView(account *externalapi.GenesisAccount) *accountView {
	balance := account.Balance
	if balance == nil {
		balance = new(big.Int)
	}
	storage := make(map[string]string, len(account.Storage))
	for slot, value := range account.Storage {
		if value == (common.Hash{}) {
			continue
		}
		storage[slot.Hex()] = value.Hex()
	}
	return &accountView{
		Balance: hexutil.EncodeBig(balance),
		Nonce:   hexutil.EncodeUint64(account.Nonce),
		Code:    hexutil.Encode(account.Code),
		Storage: storage,
	}
}

func actualAccountView(account *externalapi.Account) *accountView {
	storage := make(map[string]string, len(account.Storage))
	for slot, value := range account.Storage {
		storage[slot.Hex()] = value.Hex()
	}
	return &accountView{
		Balance: hexutil.EncodeBig(account.Balance.ToBig()),
		Nonce:   hexutil.EncodeUint64(account.Nonce),
		Code:    hexutil.Encode(account.Code),
		Storage: storage,
	}
}

// verifyPostState compares every account the fixture declares with the
// account in state. An account missing from state compares as empty.
func verifyPostState(expected map[common.Address]*externalapi.GenesisAccount, state externalapi.StateView) error {
	expectedViews := make(map[string]*accountView, len(expected))
	actualViews := make(map[string]*accountView, len(expected))
	var mismatchedAddresses []string

	for address, expectedAccount := range expected {
		actualAccount, ok := state.Account(address)
		if !ok {
			actualAccount = externalapi.NewAccount(address)
		}

		key := strings.ToLower(address.Hex())
		expectedViews[key] = expectedAccountView(expectedAccount)
		actualViews[key] = actualAccountView(actualAccount)

		equal, err := viewsEqual(expectedViews[key], actualViews[key])
		if err != nil {
			return err
		}
		if !equal {
			mismatchedAddresses = append(mismatchedAddresses, key)
		}
	}
	if len(mismatchedAddresses) == 0 {
		return nil
	}
	sort.Strings(mismatchedAddresses)

	diff, err := renderDiff(expectedViews, actualViews)
	if err != nil {
		return err
	}
	return errors.Wrapf(ErrPostStateMismatch, "accounts %s differ from the declared post state:\n%s",
		strings.Join(mismatchedAddresses, ", "), diff)
}

func viewsEqual(a, b *accountView) (bool, error) {
	aJSON, err := json.Marshal(a)
	if err != nil {
		return false, errors.WithStack(err)
	}
	bJSON, err := json.Marshal(b)
	if err != nil {
		return false, errors.WithStack(err)
	}
	return bytes.Equal(aJSON, bJSON), nil
}

// renderDiff renders the changes from expected to actual as an ASCII JSON
// diff
func renderDiff(expected, actual map[string]*accountView) (string, error) {
	expectedJSON, err := json.Marshal(expected)
	if err != nil {
		return "", errors.WithStack(err)
	}
	actualJSON, err := json.Marshal(actual)
	if err != nil {
		return "", errors.WithStack(err)
	}

	delta, err := gojsondiff.New().Compare(expectedJSON, actualJSON)
	if err != nil {
		return "", errors.WithStack(err)
	}

	var expectedObject map[string]interface{}
	err = json.Unmarshal(expectedJSON, &expectedObject)
	if err != nil {
		return "", errors.WithStack(err)
	}
	asciiFormatter := formatter.NewAsciiFormatter(expectedObject, formatter.AsciiFormatterConfig{
		ShowArrayIndex: true,
	})
	diff, err := asciiFormatter.Format(delta)
	if err != nil {
		return "", errors.WithStack(err)
	}
	return diff, nil
}
