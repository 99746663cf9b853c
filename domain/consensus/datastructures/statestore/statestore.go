package statestore

import (
	"github.com/kaspanet/ledgerd/domain/consensus/database"
	"github.com/kaspanet/ledgerd/domain/consensus/database/binaryserialization"
	"github.com/kaspanet/ledgerd/domain/consensus/database/serialization"
	"github.com/kaspanet/ledgerd/domain/consensus/model"
	"github.com/kaspanet/ledgerd/domain/consensus/ruleerrors"
	"github.com/kaspanet/ledgerd/domain/consensus/utils/worldstate"
	"github.com/kaspanet/ledgerd/infrastructure/logger"
	"github.com/pkg/errors"
)

var stateDiffsBucket = database.MakeBucket([]byte("state-diffs"))

// stateStore represents a store of world state snapshots. Each block's
// state is persisted as the account diff against its parent's state, and
// the snapshots are kept in memory once rebuilt.
type stateStore struct {
	states []*worldstate.WorldState
}

// New instantiates a new StateStore, replaying every persisted diff
func New(dbContext model.DBReader) (model.StateStore, error) {
	stateStore := &stateStore{}
	err := stateStore.replay(dbContext)
	if err != nil {
		return nil, err
	}
	return stateStore, nil
}

func (ss *stateStore) replay(dbContext model.DBReader) error {
	onEnd := logger.LogAndMeasureExecutionTime(log, "stateStore.replay")
	defer onEnd()

	cursor, err := dbContext.Cursor(stateDiffsBucket)
	if err != nil {
		return err
	}
	defer cursor.Close()

	state := worldstate.Empty()
	for cursor.Next() {
		key, err := cursor.Key()
		if err != nil {
			return err
		}
		blockNumber, err := binaryserialization.DeserializeBlockNumber(key.Suffix())
		if err != nil {
			return err
		}
		if blockNumber != uint64(len(ss.states)) {
			return errors.Errorf("state diff of block %d found where block %d was expected",
				blockNumber, len(ss.states))
		}

		diffBytes, err := cursor.Value()
		if err != nil {
			return err
		}
		diff, err := serialization.DeserializeStateDiff(diffBytes)
		if err != nil {
			return errors.Wrapf(err, "state diff of block %d is corrupt", blockNumber)
		}
		state = state.ApplyDiff(diff)
		ss.states = append(ss.states, state)
	}

	log.Debugf("Rebuilt %d world state snapshots", len(ss.states))
	return nil
}

// Stage stages the state produced by the block with the given number.
// States must be staged in block number order.
func (ss *stateStore) Stage(stagingArea *model.StagingArea, blockNumber uint64, state *worldstate.WorldState) error {
	stagingShard := ss.stagingShard(stagingArea)

	expectedNumber := ss.Len(stagingArea)
	if blockNumber != expectedNumber {
		return ruleerrors.NewInvariantViolation("cannot stage the state of block %d while expecting block %d",
			blockNumber, expectedNumber)
	}

	base := worldstate.Empty()
	if blockNumber > 0 {
		var err error
		base, err = ss.StateAt(stagingArea, blockNumber-1)
		if err != nil {
			return err
		}
	}

	stagingShard.toAdd = append(stagingShard.toAdd, stagedState{
		blockNumber: blockNumber,
		state:       state,
		diff:        state.Diff(base),
	})
	return nil
}

func (ss *stateStore) IsStaged(stagingArea *model.StagingArea) bool {
	return ss.stagingShard(stagingArea).isStaged()
}

// StateAt returns the state after the block with the given number
func (ss *stateStore) StateAt(stagingArea *model.StagingArea, blockNumber uint64) (*worldstate.WorldState, error) {
	if blockNumber < uint64(len(ss.states)) {
		return ss.states[blockNumber], nil
	}

	stagingShard := ss.stagingShard(stagingArea)
	for _, staged := range stagingShard.toAdd {
		if staged.blockNumber == blockNumber {
			return staged.state, nil
		}
	}

	return nil, errors.Wrapf(database.ErrNotFound, "no state for block %d", blockNumber)
}

// Len returns the number of stored states, staged ones included
func (ss *stateStore) Len(stagingArea *model.StagingArea) uint64 {
	return uint64(len(ss.states) + len(ss.stagingShard(stagingArea).toAdd))
}

func (ss *stateStore) numberAsKey(blockNumber uint64) model.DBKey {
	return stateDiffsBucket.Key(binaryserialization.SerializeBlockNumber(blockNumber))
}
