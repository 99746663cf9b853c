package binaryserialization

import (
	"bytes"
	"testing"

	"github.com/ethereum/go-ethereum/common"
)

func TestSerializeBlockNumberPreservesOrder(t *testing.T) {
	numbers := []uint64{0, 1, 255, 256, 65535, 1 << 40}
	for i := 1; i < len(numbers); i++ {
		previous := SerializeBlockNumber(numbers[i-1])
		current := SerializeBlockNumber(numbers[i])
		if bytes.Compare(previous, current) >= 0 {
			t.Fatalf("serialized %d is not ordered before serialized %d", numbers[i-1], numbers[i])
		}
		deserialized, err := DeserializeBlockNumber(current)
		if err != nil {
			t.Fatalf("DeserializeBlockNumber: %+v", err)
		}
		if deserialized != numbers[i] {
			t.Fatalf("got %d, want %d", deserialized, numbers[i])
		}
	}

	_, err := DeserializeBlockNumber([]byte{1})
	if err == nil {
		t.Fatalf("DeserializeBlockNumber of a short slice unexpectedly succeeded")
	}
}

func TestDeserializeHash(t *testing.T) {
	hash := common.HexToHash("0x1234")
	deserialized, err := DeserializeHash(SerializeHash(hash))
	if err != nil {
		t.Fatalf("DeserializeHash: %+v", err)
	}
	if deserialized != hash {
		t.Fatalf("got %s, want %s", deserialized, hash)
	}

	_, err = DeserializeHash(hash[:31])
	if err == nil {
		t.Fatalf("DeserializeHash of a short slice unexpectedly succeeded")
	}
}
