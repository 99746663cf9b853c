package consensus_test

import (
	"testing"

	"github.com/ethereum/go-ethereum/common"
	"github.com/kaspanet/ledgerd/domain/chainconfig"
	"github.com/kaspanet/ledgerd/domain/consensus"
	"github.com/kaspanet/ledgerd/domain/consensus/model/externalapi"
	"github.com/kaspanet/ledgerd/domain/consensus/utils/codec"
	"github.com/kaspanet/ledgerd/domain/consensus/utils/consensushashing"
	"github.com/kaspanet/ledgerd/domain/consensus/utils/testutils"
	"github.com/kaspanet/ledgerd/infrastructure/db/database/ldb"
	"github.com/stretchr/testify/require"
)

func TestReopenLevelDB(t *testing.T) {
	params := &chainconfig.IstanbulParams
	genesisConfig := testutils.GenesisConfig(params, 2, testutils.Ether(5).ToBig())
	builder, err := testutils.NewChainBuilder(params, genesisConfig)
	require.NoError(t, err)

	var blocks []*externalapi.DomainBlock
	for i := uint64(0); i < 3; i++ {
		transfer, err := testutils.SignedTransfer(testutils.PrivateKey(0), i, testutils.Address(1), 1,
			testutils.ChainID(params, i+1))
		require.NoError(t, err)
		block, err := builder.Extend(common.Address{0x01}, []*externalapi.DomainTransaction{transfer}, nil)
		require.NoError(t, err)
		blocks = append(blocks, block)
	}

	dbPath := t.TempDir()
	config := &consensus.Config{Params: *params}

	db, err := ldb.NewLevelDB(dbPath, 8)
	if err != nil {
		t.Fatalf("NewLevelDB: %+v", err)
	}
	tc, err := consensus.NewFactory().NewConsensus(config, db, nil)
	require.NoError(t, err)
	_, err = tc.InitializeGenesis(genesisConfig)
	require.NoError(t, err)
	for _, block := range blocks[:2] {
		blockBytes, err := codec.EncodeBlock(block)
		require.NoError(t, err)
		_, err = tc.ImportEncodedBlock(blockBytes)
		if err != nil {
			t.Fatalf("ImportEncodedBlock %d: %+v", block.Header.Number, err)
		}
	}
	require.NoError(t, db.Close())

	db, err = ldb.NewLevelDB(dbPath, 8)
	if err != nil {
		t.Fatalf("NewLevelDB: %+v", err)
	}
	defer db.Close()
	reopened, err := consensus.NewFactory().NewConsensus(config, db, nil)
	require.NoError(t, err)

	isReady, err := reopened.IsReady()
	require.NoError(t, err)
	require.True(t, isReady)

	tip, err := reopened.Tip()
	require.NoError(t, err)
	require.Equal(t, consensushashing.BlockHash(blocks[1]), consensushashing.BlockHash(tip))

	_, err = reopened.ImportBlock(blocks[2])
	if err != nil {
		t.Fatalf("ImportBlock after reopen: %+v", err)
	}

	state, err := reopened.TipState()
	require.NoError(t, err)
	expected := builder.TipState().Accounts()
	actual := state.Accounts()
	require.Len(t, actual, len(expected))
	for i := range expected {
		require.True(t, expected[i].Equal(actual[i]), "account %s differs", expected[i].Address)
	}
}
