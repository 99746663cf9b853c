package chainstore

import (
	"github.com/ethereum/go-ethereum/common"
	"github.com/kaspanet/ledgerd/domain/consensus/database"
	"github.com/kaspanet/ledgerd/domain/consensus/database/binaryserialization"
	"github.com/kaspanet/ledgerd/domain/consensus/database/serialization"
	"github.com/kaspanet/ledgerd/domain/consensus/model"
	"github.com/kaspanet/ledgerd/domain/consensus/model/externalapi"
	"github.com/kaspanet/ledgerd/domain/consensus/ruleerrors"
	"github.com/kaspanet/ledgerd/domain/consensus/utils/codec"
	"github.com/kaspanet/ledgerd/domain/consensus/utils/consensushashing"
	"github.com/kaspanet/ledgerd/domain/consensus/utils/lrucache"
	"github.com/pkg/errors"
)

var blocksBucket = database.MakeBucket([]byte("blocks"))
var numbersBucket = database.MakeBucket([]byte("block-numbers"))
var tipKey = database.MakeBucket(nil).Key([]byte("tip"))

// chainStore represents a store of the canonical chain
type chainStore struct {
	blocksByHash   *lrucache.LRUCache[common.Hash, *externalapi.DomainBlock]
	hashesByNumber *lrucache.LRUCache[uint64, common.Hash]

	// tip is nil while the chain holds no block
	tip *serialization.DbTip
}

// New instantiates a new ChainStore
func New(dbContext model.DBReader, cacheSize int) (model.ChainStore, error) {
	chainStore := &chainStore{
		blocksByHash:   lrucache.New[common.Hash, *externalapi.DomainBlock](cacheSize),
		hashesByNumber: lrucache.New[uint64, common.Hash](cacheSize),
	}

	err := chainStore.initializeTip(dbContext)
	if err != nil {
		return nil, err
	}

	return chainStore, nil
}

func (cs *chainStore) initializeTip(dbContext model.DBReader) error {
	hasTip, err := dbContext.Has(tipKey)
	if err != nil {
		return err
	}
	if !hasTip {
		return nil
	}

	tipBytes, err := dbContext.Get(tipKey)
	if err != nil {
		return err
	}
	cs.tip, err = serialization.DeserializeTip(tipBytes)
	if err != nil {
		return err
	}
	log.Debugf("Loaded chain tip %s at number %d", cs.tip.Hash, cs.tip.Number)
	return nil
}

// Append stages block as the new tip. The block must directly follow the
// current tip, or be block 0 of an empty chain.
func (cs *chainStore) Append(stagingArea *model.StagingArea, block *externalapi.DomainBlock) error {
	stagingShard := cs.stagingShard(stagingArea)

	blockHash := consensushashing.BlockHash(block)
	tipHash, tipNumber, hasTip := cs.currentTip(stagingShard)
	if !hasTip {
		if block.Header.Number != 0 {
			return ruleerrors.NewInvariantViolation("cannot append block %s with number %d to an empty chain",
				blockHash, block.Header.Number)
		}
	} else {
		if block.Header.Number != tipNumber+1 {
			return ruleerrors.NewInvariantViolation("cannot append block %s with number %d on top of tip %d",
				blockHash, block.Header.Number, tipNumber)
		}
		if block.Header.ParentHash != tipHash {
			return ruleerrors.NewInvariantViolation("cannot append block %s with parent %s on top of tip %s",
				blockHash, block.Header.ParentHash, tipHash)
		}
	}

	stagingShard.toAdd = append(stagingShard.toAdd, stagedBlock{hash: blockHash, block: block.Clone()})
	return nil
}

func (cs *chainStore) currentTip(stagingShard *chainStagingShard) (common.Hash, uint64, bool) {
	if stagingShard.isStaged() {
		staged := stagingShard.toAdd[len(stagingShard.toAdd)-1]
		return staged.hash, staged.block.Header.Number, true
	}
	if cs.tip == nil {
		return common.Hash{}, 0, false
	}
	return cs.tip.Hash, cs.tip.Number, true
}

func (cs *chainStore) IsStaged(stagingArea *model.StagingArea) bool {
	return cs.stagingShard(stagingArea).isStaged()
}

// HasTip returns whether the chain holds at least one block
func (cs *chainStore) HasTip(dbContext model.DBReader, stagingArea *model.StagingArea) (bool, error) {
	_, _, hasTip := cs.currentTip(cs.stagingShard(stagingArea))
	return hasTip, nil
}

// Tip returns the latest block of the chain
func (cs *chainStore) Tip(dbContext model.DBReader, stagingArea *model.StagingArea) (*externalapi.DomainBlock, error) {
	stagingShard := cs.stagingShard(stagingArea)
	tipHash, _, hasTip := cs.currentTip(stagingShard)
	if !hasTip {
		return nil, errors.Wrapf(database.ErrNotFound, "the chain has no tip")
	}
	return cs.block(dbContext, stagingShard, tipHash)
}

// BlockByNumber returns the canonical block with the given number
func (cs *chainStore) BlockByNumber(dbContext model.DBReader, stagingArea *model.StagingArea,
	number uint64) (*externalapi.DomainBlock, error) {

	stagingShard := cs.stagingShard(stagingArea)
	if block, ok := stagingShard.stagedByNumber(number); ok {
		return block.Clone(), nil
	}

	blockHash, ok := cs.hashesByNumber.Get(number)
	if !ok {
		hashBytes, err := dbContext.Get(cs.numberAsKey(number))
		if err != nil {
			return nil, err
		}
		blockHash, err = binaryserialization.DeserializeHash(hashBytes)
		if err != nil {
			return nil, err
		}
		cs.hashesByNumber.Add(number, blockHash)
	}

	return cs.block(dbContext, stagingShard, blockHash)
}

// BlockByHash returns the canonical block with the given hash
func (cs *chainStore) BlockByHash(dbContext model.DBReader, stagingArea *model.StagingArea,
	blockHash common.Hash) (*externalapi.DomainBlock, error) {

	return cs.block(dbContext, cs.stagingShard(stagingArea), blockHash)
}

func (cs *chainStore) block(dbContext model.DBReader, stagingShard *chainStagingShard,
	blockHash common.Hash) (*externalapi.DomainBlock, error) {

	if block, ok := stagingShard.stagedByHash(blockHash); ok {
		return block.Clone(), nil
	}

	if block, ok := cs.blocksByHash.Get(blockHash); ok {
		return block.Clone(), nil
	}

	blockBytes, err := dbContext.Get(cs.hashAsKey(blockHash))
	if err != nil {
		return nil, err
	}

	block, err := codec.DecodeBlock(blockBytes)
	if err != nil {
		return nil, errors.Wrapf(err, "stored block %s is corrupt", blockHash)
	}
	cs.blocksByHash.Add(blockHash, block)
	return block.Clone(), nil
}

// HasBlock returns whether a block with a given hash is part of the chain
func (cs *chainStore) HasBlock(dbContext model.DBReader, stagingArea *model.StagingArea,
	blockHash common.Hash) (bool, error) {

	stagingShard := cs.stagingShard(stagingArea)
	if _, ok := stagingShard.stagedByHash(blockHash); ok {
		return true, nil
	}

	if cs.blocksByHash.Has(blockHash) {
		return true, nil
	}

	return dbContext.Has(cs.hashAsKey(blockHash))
}

func (cs *chainStore) hashAsKey(hash common.Hash) model.DBKey {
	return blocksBucket.Key(binaryserialization.SerializeHash(hash))
}

func (cs *chainStore) numberAsKey(number uint64) model.DBKey {
	return numbersBucket.Key(binaryserialization.SerializeBlockNumber(number))
}
