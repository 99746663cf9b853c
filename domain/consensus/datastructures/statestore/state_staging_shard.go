package statestore

import (
	"github.com/kaspanet/ledgerd/domain/consensus/database/serialization"
	"github.com/kaspanet/ledgerd/domain/consensus/model"
	"github.com/kaspanet/ledgerd/domain/consensus/utils/worldstate"
)

type stagedState struct {
	blockNumber uint64
	state       *worldstate.WorldState
	diff        *worldstate.Diff
}

type stateStagingShard struct {
	store *stateStore
	toAdd []stagedState
}

func (ss *stateStore) stagingShard(stagingArea *model.StagingArea) *stateStagingShard {
	return stagingArea.GetOrCreateShard(model.StagingShardIDStateStore, func() model.StagingShard {
		return &stateStagingShard{
			store: ss,
			toAdd: nil,
		}
	}).(*stateStagingShard)
}

func (sss *stateStagingShard) Commit(dbTx model.DBTransaction) error {
	for _, staged := range sss.toAdd {
		err := dbTx.Put(sss.store.numberAsKey(staged.blockNumber), serialization.SerializeStateDiff(staged.diff))
		if err != nil {
			return err
		}
	}
	return nil
}

func (sss *stateStagingShard) Finalize() {
	for _, staged := range sss.toAdd {
		sss.store.states = append(sss.store.states, staged.state)
	}
}

func (sss *stateStagingShard) isStaged() bool {
	return len(sss.toAdd) != 0
}
