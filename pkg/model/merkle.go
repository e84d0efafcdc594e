package model

import "fmt"

// MerkleMetadata is the committed state of a merkle tree.
type MerkleMetadata struct {
	_     struct{} `cbor:",toarray"`
	Root  MerkleRoot
	Count uint64
}

func NewMerkleMetadata(root MerkleRoot, count uint64) MerkleMetadata {
	return MerkleMetadata{Root: root, Count: count}
}

func (m MerkleMetadata) String() string {
	return fmt.Sprintf("MerkleMetadata{Root: %s, Count: %d}", m.Root, m.Count)
}
