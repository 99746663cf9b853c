package chainstore

import (
	"github.com/ethereum/go-ethereum/common"
	"github.com/kaspanet/ledgerd/domain/consensus/database/binaryserialization"
	"github.com/kaspanet/ledgerd/domain/consensus/database/serialization"
	"github.com/kaspanet/ledgerd/domain/consensus/model"
	"github.com/kaspanet/ledgerd/domain/consensus/model/externalapi"
	"github.com/kaspanet/ledgerd/domain/consensus/utils/codec"
)

type stagedBlock struct {
	hash  common.Hash
	block *externalapi.DomainBlock
}

type chainStagingShard struct {
	store *chainStore
	toAdd []stagedBlock
}

func (cs *chainStore) stagingShard(stagingArea *model.StagingArea) *chainStagingShard {
	return stagingArea.GetOrCreateShard(model.StagingShardIDChainStore, func() model.StagingShard {
		return &chainStagingShard{
			store: cs,
			toAdd: nil,
		}
	}).(*chainStagingShard)
}

func (css *chainStagingShard) Commit(dbTx model.DBTransaction) error {
	if !css.isStaged() {
		return nil
	}

	for _, staged := range css.toAdd {
		blockBytes, err := codec.EncodeBlock(staged.block)
		if err != nil {
			return err
		}
		err = dbTx.Put(css.store.hashAsKey(staged.hash), blockBytes)
		if err != nil {
			return err
		}
		err = dbTx.Put(css.store.numberAsKey(staged.block.Header.Number), binaryserialization.SerializeHash(staged.hash))
		if err != nil {
			return err
		}
	}

	tip := css.toAdd[len(css.toAdd)-1]
	tipBytes := serialization.SerializeTip(&serialization.DbTip{Hash: tip.hash, Number: tip.block.Header.Number})
	return dbTx.Put(tipKey, tipBytes)
}

// Finalize moves the committed blocks into the caches
func (css *chainStagingShard) Finalize() {
	if !css.isStaged() {
		return
	}
	for _, staged := range css.toAdd {
		css.store.blocksByHash.Add(staged.hash, staged.block)
		css.store.hashesByNumber.Add(staged.block.Header.Number, staged.hash)
	}
	tip := css.toAdd[len(css.toAdd)-1]
	css.store.tip = &serialization.DbTip{Hash: tip.hash, Number: tip.block.Header.Number}
}

func (css *chainStagingShard) isStaged() bool {
	return len(css.toAdd) != 0
}

func (css *chainStagingShard) stagedByHash(hash common.Hash) (*externalapi.DomainBlock, bool) {
	for _, staged := range css.toAdd {
		if staged.hash == hash {
			return staged.block, true
		}
	}
	return nil, false
}

func (css *chainStagingShard) stagedByNumber(number uint64) (*externalapi.DomainBlock, bool) {
	for _, staged := range css.toAdd {
		if staged.block.Header.Number == number {
			return staged.block, true
		}
	}
	return nil, false
}
