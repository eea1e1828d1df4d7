// Copyright 2017 Cameron Bergoon
// https://github.com/cbergoon/merkletree
// Licensed under the MIT License, see LICENCE file for details.
// This code has been cleaned up, refactored, and turned into generics.

// Package merkle provides an implementation of a merkel tree for validation
// support for the blockchain.
//
// The tree is reduced with a work list instead of level by level. The leaf
// hashes are queued in order, the last leaf is duplicated when the count is
// odd, and then the two leftmost hashes are repeatedly removed, combined and
// the result appended to the right end until a single hash remains. Only the
// leaf level is padded, so for counts that are not a power of two the shape
// differs from a classic level-by-level tree.
package merkle

import (
	"errors"
	"fmt"

	"github.com/ardanlabs/minichain/foundation/blockchain/signature"
)

// Hashable represents the behavior concrete data must exhibit to be used in
// the merkle tree.
type Hashable[T any] interface {
	Hash() string
	Equals(other T) bool
}

// =============================================================================

// Tree represents a merkle tree that uses data of some type T that exhibits the
// behavior defined by the Hashable constraint.
type Tree[T Hashable[T]] struct {
	Root         *Node[T]
	Leafs        []*Node[T]
	MerkleRoot   string
	emptyHash    string
	leafStrategy func(value T) string
	hashStrategy func(left string, right string) string
}

// WithHashStrategy is used to change the default strategy of combining two
// hashes, which is to hash the concatenated hex strings.
func WithHashStrategy[T Hashable[T]](hashStrategy func(left string, right string) string) func(t *Tree[T]) {
	return func(t *Tree[T]) {
		t.hashStrategy = hashStrategy
	}
}

// WithHasher hashes the leaves, the combined hashes and the empty tree with
// the specified hasher instead of the package defaults. A leaf is the digest
// of the value's JSON form, so a type with unexported state must implement
// json.Marshaler to keep distinct values from producing the same leaf.
func WithHasher[T Hashable[T]](h signature.Hasher) func(t *Tree[T]) {
	return func(t *Tree[T]) {
		t.emptyHash = h.HashBytes(nil)
		t.leafStrategy = func(value T) string {
			return h.Hash(value)
		}
		t.hashStrategy = func(left string, right string) string {
			return h.Hash(left + right)
		}
	}
}

// NewTree constructs a new merkle tree that uses data of some type T that
// exhibits the behavior defined by the Hashable interface.
func NewTree[T Hashable[T]](values []T, options ...func(t *Tree[T])) (*Tree[T], error) {
	t := Tree[T]{
		emptyHash:    signature.EmptyHash,
		leafStrategy: func(value T) string { return value.Hash() },
		hashStrategy: combine,
	}

	for _, option := range options {
		option(&t)
	}

	if err := t.Generate(values); err != nil {
		return nil, err
	}

	return &t, nil
}

// Digest returns only the merkle root for the specified values.
func Digest[T Hashable[T]](values []T, options ...func(t *Tree[T])) string {
	t, err := NewTree(values, options...)
	if err != nil {
		return ""
	}

	return t.MerkleRoot
}

// Generate constructs the leafs and nodes of the tree from the specified
// data. If the tree has been generated previously, the tree is re-generated
// from scratch. An empty set of values produces a tree with no root whose
// merkle root is the digest of an empty byte sequence.
func (t *Tree[T]) Generate(values []T) error {
	if len(values) == 0 {
		t.Root = nil
		t.Leafs = nil
		t.MerkleRoot = t.emptyHash
		return nil
	}

	leafs := make([]*Node[T], 0, len(values)+1)
	for _, value := range values {
		leafs = append(leafs, &Node[T]{
			Hash:  t.leafStrategy(value),
			Value: value,
			leaf:  true,
			Tree:  t,
		})
	}

	if len(leafs)%2 == 1 {
		last := leafs[len(leafs)-1]
		leafs = append(leafs, &Node[T]{
			Hash:  last.Hash,
			Value: last.Value,
			leaf:  true,
			dup:   true,
			Tree:  t,
		})
	}

	t.Root = reduce(leafs, t)
	t.Leafs = leafs
	t.MerkleRoot = t.Root.Hash

	return nil
}

// Rebuild is a helper function that will rebuild the tree reusing only the
// data that it currently holds in the leaves.
func (t *Tree[T]) Rebuild() error {
	return t.Generate(t.Values())
}

// Proof returns the set of hashes and the order of concatenating those
// hashes for proving a value is in the tree. An order of 0 means the proof
// hash comes first, 1 means it comes second.
//
// Given proof = [p0, p1] and order = [1, 0] for the leaf hash h:
//
//	h1   = combine(h, p0)   -- Order 1 says proof comes second.
//	root = combine(p1, h1)  -- Order 0 says proof comes first.
//
// The calculated root should match the merkle root. See VerifyProof and
// VerifyProofWithHasher.
func (t *Tree[T]) Proof(data T) ([]string, []int64, error) {
	for _, node := range t.Leafs {
		if !node.Value.Equals(data) {
			continue
		}

		var merkleProof []string
		var order []int64

		for parent := node.Parent; parent != nil; parent = parent.Parent {
			if parent.Left == node {
				merkleProof = append(merkleProof, parent.Right.Hash)
				order = append(order, 1)
			} else {
				merkleProof = append(merkleProof, parent.Left.Hash)
				order = append(order, 0)
			}
			node = parent
		}

		return merkleProof, order, nil
	}

	return nil, nil, errors.New("unable to find data in tree")
}

// Verify validates the hashes at each level of the tree and returns an error
// if the resulting hash at the root of the tree doesn't match the root hash.
func (t *Tree[T]) Verify() error {
	if t.Root == nil {
		if t.MerkleRoot != t.emptyHash {
			return errors.New("root hash invalid")
		}
		return nil
	}

	if t.Root.verify() != t.MerkleRoot {
		return errors.New("root hash invalid")
	}

	return nil
}

// VerifyData indicates whether a given piece of data is in the tree and if the
// hashes are valid for that data.
func (t *Tree[T]) VerifyData(data T) error {
	for _, node := range t.Leafs {
		if !node.Value.Equals(data) {
			continue
		}

		for parent := node.Parent; parent != nil; parent = parent.Parent {
			calc := t.hashStrategy(parent.Left.CalculateHash(), parent.Right.CalculateHash())
			if calc != parent.Hash {
				return errors.New("merkle root is not equivalent to the merkle root calculated on the critical path")
			}
		}

		return nil
	}

	return errors.New("unable to find data in tree")
}

// Values returns the values stored in the tree, without the duplicate that
// pads an odd number of leaves.
func (t *Tree[T]) Values() []T {
	values := make([]T, 0, len(t.Leafs))
	for _, node := range t.Leafs {
		if node.dup {
			continue
		}
		values = append(values, node.Value)
	}

	return values
}

// RootHex returns the merkle root hex string.
func (t *Tree[T]) RootHex() string {
	return t.MerkleRoot
}

// String returns a string representation of the tree. Only leaf nodes are
// included in the output.
func (t *Tree[T]) String() string {
	s := ""

	for _, l := range t.Leafs {
		s += fmt.Sprint(l)
		s += "\n"
	}

	return s
}

// MarshalText implements the TextMarshaler interface and produces a panic
// if anyone tries to marshal the Merkle tree. I don't want this to happen.
// Use the Values function to return a slice that can be marshaled.
func (t *Tree[T]) MarshalText() (text []byte, err error) {
	panic("do not marshal the merkle tree, use Values")
}

// =============================================================================

// VerifyProof recalculates the merkle root from a leaf hash and the proof
// returned by Proof using the default combine strategy.
func VerifyProof(leafHash string, proof []string, order []int64, merkleRoot string) bool {
	return verifyProof(combine, leafHash, proof, order, merkleRoot)
}

// VerifyProofWithHasher is VerifyProof for a tree built WithHasher(h).
func VerifyProofWithHasher(h signature.Hasher, leafHash string, proof []string, order []int64, merkleRoot string) bool {
	hashStrategy := func(left string, right string) string {
		return h.Hash(left + right)
	}

	return verifyProof(hashStrategy, leafHash, proof, order, merkleRoot)
}

// VerifyProof recalculates the merkle root from a leaf hash and a proof
// using the tree's own hash strategy.
func (t *Tree[T]) VerifyProof(leafHash string, proof []string, order []int64) bool {
	return verifyProof(t.hashStrategy, leafHash, proof, order, t.MerkleRoot)
}

// =============================================================================

// Node represents a node, root, or leaf in the tree. It stores pointers to its
// immediate relationships, a hash, the data if it is a leaf, and other metadata.
type Node[T Hashable[T]] struct {
	Tree   *Tree[T]
	Parent *Node[T]
	Left   *Node[T]
	Right  *Node[T]
	Hash   string
	Value  T
	leaf   bool
	dup    bool
}

// verify walks down the tree until hitting a leaf, calculating the hash at
// each level and returning the resulting hash of the node.
func (n *Node[T]) verify() string {
	if n.leaf {
		return n.Tree.leafStrategy(n.Value)
	}

	return n.Tree.hashStrategy(n.Left.verify(), n.Right.verify())
}

// CalculateHash is a helper function that calculates the hash of the node.
func (n *Node[T]) CalculateHash() string {
	if n.leaf {
		return n.Tree.leafStrategy(n.Value)
	}

	return n.Tree.hashStrategy(n.Left.Hash, n.Right.Hash)
}

// String returns a string representation of the node.
func (n *Node[T]) String() string {
	return fmt.Sprintf("%t %t %v %v", n.leaf, n.dup, n.Hash, n.Value)
}

// =============================================================================

// combine hashes the concatenation of two hex digests. The concatenation is
// hashed as a JSON string value, the same way every other value is hashed.
func combine(left string, right string) string {
	return signature.Hash(left + right)
}

func verifyProof(hashStrategy func(left string, right string) string, leafHash string, proof []string, order []int64, merkleRoot string) bool {
	if len(proof) != len(order) {
		return false
	}

	hash := leafHash
	for i := range proof {
		switch order[i] {
		case 0:
			hash = hashStrategy(proof[i], hash)
		default:
			hash = hashStrategy(hash, proof[i])
		}
	}

	return hash == merkleRoot
}

// reduce consumes the work list two nodes at a time from the left, pushing
// each parent onto the right end until a single root is left.
func reduce[T Hashable[T]](leafs []*Node[T], t *Tree[T]) *Node[T] {
	work := make([]*Node[T], len(leafs))
	copy(work, leafs)

	for len(work) > 1 {
		left, right := work[0], work[1]
		work = work[2:]

		n := Node[T]{
			Left:  left,
			Right: right,
			Hash:  t.hashStrategy(left.Hash, right.Hash),
			Tree:  t,
		}
		left.Parent = &n
		right.Parent = &n

		work = append(work, &n)
	}

	return work[0]
}
