package database

import (
	"context"
	"errors"
	"fmt"
	"math"
	"sort"
	"strconv"
	"sync"

	"github.com/ardanlabs/minichain/foundation/blockchain/signature"
)

// List of different difficulty strategies.
const (
	// StrategyLeadingZeros accepts a hash when its first difficulty
	// characters are literally '0'.
	StrategyLeadingZeros = "LeadingZeros"

	// StrategyDecimalPrefix accepts a hash when its first difficulty
	// characters parse as a base 10 integer equal to zero. A prefix holding
	// any of the hex digits a-f fails to parse and is rejected. This is the
	// rule the legacy ledger used.
	StrategyDecimalPrefix = "DecimalPrefix"
)

// Map of different difficulty strategies with functions.
var strategies = map[string]Predicate{
	StrategyLeadingZeros:  leadingZeros,
	StrategyDecimalPrefix: decimalPrefix,
}

// ErrNonceExhausted is returned when every nonce was tried without success.
var ErrNonceExhausted = errors.New("nonce space exhausted")

// Predicate decides if a block hash satisfies the difficulty.
type Predicate func(hash string, difficulty uint) bool

// RetrievePredicate returns the specified difficulty strategy. An empty
// name returns the LeadingZeros strategy.
func RetrievePredicate(strategy string) (Predicate, error) {
	if strategy == "" {
		strategy = StrategyLeadingZeros
	}

	fn, exists := strategies[strategy]
	if !exists {
		return nil, fmt.Errorf("strategy %q does not exist", strategy)
	}
	return fn, nil
}

// Strategies returns the names of the known difficulty strategies.
func Strategies() []string {
	names := make([]string, 0, len(strategies))
	for name := range strategies {
		names = append(names, name)
	}
	sort.Strings(names)

	return names
}

// leadingZeros checks the hash starts with difficulty '0' characters.
func leadingZeros(hash string, difficulty uint) bool {
	if difficulty > uint(len(hash)) {
		return false
	}

	for _, c := range hash[:difficulty] {
		if c != '0' {
			return false
		}
	}

	return true
}

// decimalPrefix parses the first difficulty characters of the hash as a
// base 10 number and accepts a value of zero. An empty prefix is accepted.
func decimalPrefix(hash string, difficulty uint) bool {
	if difficulty > uint(len(hash)) {
		return false
	}

	if difficulty == 0 {
		return true
	}

	v, err := strconv.ParseUint(hash[:difficulty], 10, 64)
	if err != nil {
		return false
	}

	return v == 0
}

// =============================================================================

// POWArgs represents the set of arguments required to run POW.
type POWArgs struct {
	Miner      string
	Reward     float64
	Difficulty uint
	TimeStamp  int64
	PrevBlock  *Block
	Trans      []BlockTx
	Hasher     signature.Hasher
	Predicate  Predicate
	Threads    int
	EvHandler  func(v string, args ...any)
}

// POW constructs a new Block and performs the work to find a nonce that
// solves the cryptographic POW puzzel. The reward transaction is placed in
// front of the specified transactions.
func POW(ctx context.Context, args POWArgs) (Block, error) {
	ev := args.EvHandler
	if ev == nil {
		ev = func(v string, args ...any) {}
	}

	if args.Predicate == nil {
		args.Predicate = leadingZeros
	}

	// When mining the first block, the previous block's hash will be zero.
	prevBlockHash := signature.ZeroHash
	if args.PrevBlock != nil {
		prevBlockHash = args.PrevBlock.Hash()
	}

	trans := make([]BlockTx, 0, len(args.Trans)+1)
	trans = append(trans, NewRewardTx(args.Miner, args.Reward))
	trans = append(trans, args.Trans...)

	for _, tx := range trans {
		if err := tx.Validate(); err != nil {
			return Block{}, fmt.Errorf("tx[%s]: %w", tx, err)
		}
	}

	nb, err := newBlock(BlockHeader{
		TimeStamp:     args.TimeStamp,
		Nonce:         0, // Will be identified by the POW algorithm.
		PrevBlockHash: prevBlockHash,
		Difficulty:    args.Difficulty,
	}, trans, args.Hasher)
	if err != nil {
		return Block{}, err
	}

	ev("database: POW: MINING: started: difficulty[%d]", nb.Header.Difficulty)
	defer ev("database: POW: MINING: completed")

	for _, tx := range trans {
		ev("database: POW: MINING: tx[%s]", tx)
	}

	nonce, err := FindNonce(ctx, nb.Header, args)
	if err != nil {
		ev("database: POW: MINING: CANCELLED: %s", err)
		return Block{}, err
	}
	nb.Header.Nonce = nonce

	ev("database: POW: MINING: SOLVED: prevBlk[%s]: newBlk[%s]: nonce[%d]", nb.Header.PrevBlockHash, nb.Hash(), nonce)

	return nb, nil
}

// FindNonce searches for a nonce, starting with the header's nonce and
// counting up, that makes the header hash satisfy the predicate. The header
// is not modified. With more than one thread the nonce space is split into
// interleaved strides and the first thread to find a solution wins, so the
// nonce returned may not be the smallest one.
func FindNonce(ctx context.Context, header BlockHeader, args POWArgs) (uint64, error) {
	predicate := args.Predicate
	if predicate == nil {
		predicate = leadingZeros
	}

	ev := args.EvHandler
	if ev == nil {
		ev = func(v string, args ...any) {}
	}

	if args.Threads <= 1 {
		return search(ctx, header, args.Hasher, predicate, header.Nonce, 1, ev)
	}

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	found := make(chan uint64, 1)

	var wg sync.WaitGroup
	wg.Add(args.Threads)

	for i := 0; i < args.Threads; i++ {
		start := header.Nonce + uint64(i)
		go func() {
			defer wg.Done()

			nonce, err := search(ctx, header, args.Hasher, predicate, start, uint64(args.Threads), ev)
			if err != nil {
				return
			}

			select {
			case found <- nonce:
				cancel()
			default:
			}
		}()
	}

	wg.Wait()

	select {
	case nonce := <-found:
		return nonce, nil
	default:
	}

	if err := ctx.Err(); err != nil {
		return 0, err
	}

	return 0, ErrNonceExhausted
}

// IsHashSolved checks the header hash complies with the specified predicate
// for the difficulty recorded in the header.
func IsHashSolved(hasher signature.Hasher, predicate Predicate, header BlockHeader) bool {
	if predicate == nil {
		predicate = leadingZeros
	}

	return predicate(hasher.Hash(header), header.Difficulty)
}

// search walks the nonce space from start in steps of stride.
func search(ctx context.Context, header BlockHeader, hasher signature.Hasher, predicate Predicate, start uint64, stride uint64, ev func(v string, args ...any)) (uint64, error) {
	var attempts uint64
	for nonce := start; ; nonce += stride {
		attempts++
		if attempts%1_000_000 == 0 {
			ev("database: POW: MINING: attempts[%d]", attempts)
		}

		// Did we timeout trying to solve the problem.
		if ctx.Err() != nil {
			return 0, ctx.Err()
		}

		header.Nonce = nonce
		if predicate(hasher.Hash(header), header.Difficulty) {
			return nonce, nil
		}

		if nonce > math.MaxUint64-stride {
			return 0, ErrNonceExhausted
		}
	}
}
