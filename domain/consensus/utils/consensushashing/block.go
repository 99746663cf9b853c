package consensushashing

import (
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/crypto"
	"github.com/kaspanet/ledgerd/domain/consensus/model/externalapi"
	"github.com/kaspanet/ledgerd/domain/consensus/utils/codec"
	"github.com/pkg/errors"
)

// BlockHash returns the given block's hash
func BlockHash(block *externalapi.DomainBlock) common.Hash {
	return HeaderHash(block.Header)
}

// HeaderHash returns the given header's hash: keccak256 of its RLP encoding
func HeaderHash(header *externalapi.DomainBlockHeader) common.Hash {
	return codec.ToEthHeader(header).Hash()
}

// UncleHash returns the hash of a list of uncle headers
func UncleHash(uncles []*externalapi.DomainBlockHeader) common.Hash {
	unclesBytes, err := codec.EncodeHeaders(uncles)
	if err != nil {
		// Headers hold no types RLP can't encode; this could only
		// happen after an incompatible change of the header type.
		panic(errors.Wrap(err, "this should never happen. Headers should always be encodable"))
	}
	return crypto.Keccak256Hash(unclesBytes)
}
