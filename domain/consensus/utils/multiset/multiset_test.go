package multiset

import (
	"testing"

	"github.com/ethereum/go-ethereum/common"
	"github.com/kaspanet/go-muhash"
)

func TestMultisetIsOrderIndependent(t *testing.T) {
	first := New()
	first.Add([]byte("a"))
	first.Add([]byte("b"))
	first.Add([]byte("c"))

	second := New()
	second.Add([]byte("c"))
	second.Add([]byte("a"))
	second.Add([]byte("b"))

	if first.Hash() != second.Hash() {
		t.Fatalf("multiset hash depends on insertion order")
	}

	second.Remove([]byte("c"))
	if first.Hash() == second.Hash() {
		t.Fatalf("removing an element didn't change the hash")
	}
	second.Add([]byte("c"))
	if first.Hash() != second.Hash() {
		t.Fatalf("re-adding a removed element didn't restore the hash")
	}
}

func TestMultisetSerialization(t *testing.T) {
	ms := New()
	ms.Add([]byte("element"))

	deserialized, err := FromBytes(ms.Serialize())
	if err != nil {
		t.Fatalf("FromBytes: %+v", err)
	}
	if deserialized.Hash() != ms.Hash() {
		t.Fatalf("deserialized multiset has a different hash")
	}

	clone := ms.Clone()
	clone.Add([]byte("another"))
	if clone.Hash() == ms.Hash() {
		t.Fatalf("changing a clone changed the original")
	}

	_, err = FromBytes([]byte{1, 2, 3})
	if err == nil {
		t.Fatalf("FromBytes of a short slice unexpectedly succeeded")
	}
}

func TestMultisetHashMatchesMuHash(t *testing.T) {
	ms := New()
	reference := muhash.NewMuHash()
	if ms.Hash() != common.Hash(reference.Finalize()) {
		t.Fatalf("empty multiset hash differs from the empty MuHash")
	}

	ms.Add([]byte("element"))
	reference.Add([]byte("element"))
	expected := reference.Finalize()
	if ms.Hash() != common.BytesToHash(expected[:]) {
		t.Fatalf("multiset hash %s differs from the MuHash %s", ms.Hash(), expected)
	}
	if ms.Hash() == (common.Hash{}) {
		t.Fatalf("multiset hash is zero")
	}
}
