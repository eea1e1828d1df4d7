package database

import (
	"encoding/json"
	"errors"
	"fmt"

	"github.com/ardanlabs/minichain/foundation/blockchain/merkle"
	"github.com/ardanlabs/minichain/foundation/blockchain/signature"
)

// Set of errors returned when validating a block.
var (
	ErrPrevHashMismatch = errors.New("parent block hash doesn't match our known parent")
	ErrHashNotSolved    = errors.New("block hash does not satisfy the difficulty")
	ErrMerkleMismatch   = errors.New("merkle root does not match transactions")
	ErrMissingReward    = errors.New("first transaction is not the mining reward")
)

// =============================================================================

// BlockHeader represents common information required for each block. The
// nonce only changes while the block is being mined.
type BlockHeader struct {
	TimeStamp     int64  `json:"timestamp"`  // Time the block was assembled in milliseconds.
	Nonce         uint64 `json:"nonce"`      // Value identified to solve the hash solution.
	PrevBlockHash string `json:"pre_hash"`   // Hash of the previous block header in the chain.
	MerkleRoot    string `json:"merkle"`     // Merkle root hash for the transactions in this block.
	Difficulty    uint   `json:"difficulty"` // Length of the hash prefix checked by the predicate.
}

// Hash returns the unique hash for the header using the default hasher.
func (bh BlockHeader) Hash() string {
	return signature.Hash(bh)
}

// Block represents a group of transactions batched together.
type Block struct {
	Header     BlockHeader
	TransCount uint
	Trans      *merkle.Tree[BlockTx]
	hasher     signature.Hasher
}

// newBlock constructs a block over the transactions, filling in the merkle
// root of the header.
func newBlock(header BlockHeader, trans []BlockTx, hasher signature.Hasher) (Block, error) {
	tree, err := merkle.NewTree(trans, merkle.WithHasher[BlockTx](hasher))
	if err != nil {
		return Block{}, err
	}

	header.MerkleRoot = tree.RootHex()

	nb := Block{
		Header:     header,
		TransCount: uint(len(trans)),
		Trans:      tree,
		hasher:     hasher,
	}

	return nb, nil
}

// Hash returns the unique hash for the Block.
//
// The block header is hashed and not the whole block, so the chain can be
// cryptographically checked with only the block headers. The transactions
// are covered through the merkle root.
func (b Block) Hash() string {
	return b.hasher.Hash(b.Header)
}

// Hasher returns the hasher this block was built with.
func (b Block) Hasher() signature.Hasher {
	return b.hasher
}

// Transactions returns the transactions in the block in their mined order.
func (b Block) Transactions() []BlockTx {
	if b.Trans == nil {
		return nil
	}

	return b.Trans.Values()
}

// String returns an indented, human readable dump of the block.
func (b Block) String() string {
	data, err := json.MarshalIndent(NewBlockData(b), "", "  ")
	if err != nil {
		return fmt.Sprintf("block[%s]: %s", b.Hash(), err)
	}

	return string(data)
}

// ValidateBlock takes a block and validates it to be placed after the
// specified previous block. A nil previous block means this is the genesis
// block.
func (b Block) ValidateBlock(previousBlock *Block, predicate Predicate, evHandler func(v string, args ...any)) error {
	if evHandler == nil {
		evHandler = func(v string, args ...any) {}
	}

	hash := b.Hash()

	evHandler("database: ValidateBlock: validate: blk[%s]: check: parent hash does match parent block", hash)

	prevHash := signature.ZeroHash
	if previousBlock != nil {
		prevHash = previousBlock.Hash()
	}

	if b.Header.PrevBlockHash != prevHash {
		return fmt.Errorf("%w: got %s, exp %s", ErrPrevHashMismatch, b.Header.PrevBlockHash, prevHash)
	}

	evHandler("database: ValidateBlock: validate: blk[%s]: check: block hash has been solved", hash)

	if !IsHashSolved(b.hasher, predicate, b.Header) {
		return fmt.Errorf("%w: %s difficulty %d", ErrHashNotSolved, hash, b.Header.Difficulty)
	}

	if previousBlock != nil {
		evHandler("database: ValidateBlock: validate: blk[%s]: check: block's timestamp is not before parent block's timestamp", hash)

		if b.Header.TimeStamp < previousBlock.Header.TimeStamp {
			return fmt.Errorf("block timestamp is before parent block, parent %d, block %d", previousBlock.Header.TimeStamp, b.Header.TimeStamp)
		}
	}

	evHandler("database: ValidateBlock: validate: blk[%s]: check: transaction count and reward", hash)

	trans := b.Transactions()
	if int(b.TransCount) != len(trans) {
		return fmt.Errorf("transaction count mismatch, got %d, exp %d", len(trans), b.TransCount)
	}

	if len(trans) == 0 || !trans[0].IsReward() {
		return ErrMissingReward
	}

	evHandler("database: ValidateBlock: validate: blk[%s]: check: merkle root does match transactions", hash)

	if err := b.Trans.Verify(); err != nil {
		return fmt.Errorf("%w: %s", ErrMerkleMismatch, err)
	}

	if b.Header.MerkleRoot != b.Trans.RootHex() {
		return fmt.Errorf("%w: got %s, exp %s", ErrMerkleMismatch, b.Trans.RootHex(), b.Header.MerkleRoot)
	}

	return nil
}

// =============================================================================

// BlockData represents what can be serialized for display or transport.
type BlockData struct {
	Hash   string      `json:"hash"`
	Header BlockHeader `json:"header"`
	Count  uint        `json:"count"`
	Trans  []BlockTx   `json:"trans"`
}

// NewBlockData constructs the value to serialize.
func NewBlockData(block Block) BlockData {
	blockData := BlockData{
		Hash:   block.Hash(),
		Header: block.Header,
		Count:  block.TransCount,
		Trans:  block.Transactions(),
	}

	return blockData
}

// ToBlock converts a BlockData into a Block, rebuilding the merkle tree with
// the specified hasher.
func ToBlock(blockData BlockData, hasher signature.Hasher) (Block, error) {
	if int(blockData.Count) != len(blockData.Trans) {
		return Block{}, fmt.Errorf("transaction count mismatch, got %d, exp %d", len(blockData.Trans), blockData.Count)
	}

	tree, err := merkle.NewTree(blockData.Trans, merkle.WithHasher[BlockTx](hasher))
	if err != nil {
		return Block{}, err
	}

	block := Block{
		Header:     blockData.Header,
		TransCount: blockData.Count,
		Trans:      tree,
		hasher:     hasher,
	}

	return block, nil
}
