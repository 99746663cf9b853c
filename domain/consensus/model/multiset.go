package model

import "github.com/ethereum/go-ethereum/common"

// Multiset represents a MuHash multiset over arbitrary elements
type Multiset interface {
	Add(data []byte)
	Remove(data []byte)
	Hash() common.Hash
	Serialize() []byte
	Clone() Multiset
}
