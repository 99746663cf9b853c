package main

import (
	"bufio"
	"io"

	"github.com/ethereum/go-ethereum/rlp"
	"github.com/pkg/errors"
)

// blockReader reads RLP encoded blocks that are stored one after the other
type blockReader struct {
	stream *rlp.Stream
}

func newBlockReader(r io.Reader) *blockReader {
	return &blockReader{stream: rlp.NewStream(bufio.NewReader(r), 0)}
}

// next returns the encoding of the next block, or io.EOF once there are
// no more blocks
func (br *blockReader) next() ([]byte, error) {
	blockBytes, err := br.stream.Raw()
	if err != nil {
		if errors.Is(err, io.EOF) {
			return nil, io.EOF
		}
		return nil, errors.Wrap(err, "couldn't read the next block")
	}
	return blockBytes, nil
}
