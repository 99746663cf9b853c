package model

import "github.com/pkg/errors"

// StagingShardID is used to identify a shard within a StagingArea
type StagingShardID uint64

// StagingShardID constants, in the order in which the shards are committed
const (
	StagingShardIDChainStore StagingShardID = iota
	StagingShardIDStateStore

	// Always leave StagingShardIDLen as the last constant
	StagingShardIDLen
)

// StagingShard is an interface that enables every store to have it's own Commit logic
// See StagingArea for more details
type StagingShard interface {
	Commit(dbTx DBTransaction) error
}

// StagingShardFinalizer is implemented by shards that keep in-memory state
// which may only change once the database transaction has been committed
type StagingShardFinalizer interface {
	Finalize()
}

// StagingArea is single changeset inside the consensus database, similar to a transaction in a classic database.
// Each StagingArea consists of multiple StagingShards, one for each dataStore that has any changes within it.
// To enable maximum flexibility for all stores, each has to define it's own Commit method, and pass it to the
// StagingArea through the relevant StagingShard.
//
// When the StagingArea is being Committed, it goes over all it's shards, and commits those one-by-one.
// Since Commit happens in a DatabaseTransaction, a StagingArea is atomic.
type StagingArea struct {
	shards      []StagingShard
	isCommitted bool
}

// NewStagingArea creates a new, empty staging area.
func NewStagingArea() *StagingArea {
	return &StagingArea{
		shards:      make([]StagingShard, StagingShardIDLen),
		isCommitted: false,
	}
}

// GetOrCreateShard attempts to retrieve a shard with the given name.
// If it does not exist - a new shard is created using `createFunc`.
func (sa *StagingArea) GetOrCreateShard(shardID StagingShardID, createFunc func() StagingShard) StagingShard {
	if sa.shards[shardID] == nil {
		sa.shards[shardID] = createFunc()
	}
	return sa.shards[shardID]
}

// Commit goes over all the Shards in the StagingArea and commits them, inside the provided database transaction.
// Note: the transaction itself is not committed, this is the callers responsibility to commit it.
func (sa *StagingArea) Commit(dbTx DBTransaction) error {
	if sa.isCommitted {
		return errors.New("Attempt to call Commit on already committed stagingArea")
	}

	for _, shard := range sa.shards {
		if shard == nil { // since sa.shards is an array and not a map, some shard slots might be empty.
			continue
		}
		err := shard.Commit(dbTx)
		if err != nil {
			return err
		}
	}

	sa.isCommitted = true

	return nil
}

// Finalize lets shards update their in-memory state after the database
// transaction holding their changes has been committed.
func (sa *StagingArea) Finalize() {
	for _, shard := range sa.shards {
		finalizer, ok := shard.(StagingShardFinalizer)
		if !ok {
			continue
		}
		finalizer.Finalize()
	}
}

// IsCommitted returns whether Commit has been called on this staging area
func (sa *StagingArea) IsCommitted() bool {
	return sa.isCommitted
}
