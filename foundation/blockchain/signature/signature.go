// Package signature provides helper functions for handling the blockchain
// hashing needs. Every digest in the ledger is produced by marshaling a value
// to its canonical JSON form and hashing those bytes.
package signature

import (
	"crypto/sha256"
	"encoding/json"
	"fmt"
	"strconv"
	"strings"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/crypto"
	"github.com/zeebo/blake3"
)

// ZeroHash represents a hash code of zeros. It is used as the previous block
// hash for the genesis block.
const ZeroHash string = "0000000000000000000000000000000000000000000000000000000000000000"

// EmptyHash is the SHA-256 digest of an empty byte sequence.
const EmptyHash string = "e3b0c44298fc1c149afbf4c8996fb92427ae41e4649b934ca495991b7852b855"

// HashLength is the number of hex characters in a strictly encoded digest.
const HashLength = 64

// =============================================================================

// Algorithm names a digest function.
type Algorithm string

// Set of supported digest functions. All of them produce 32 bytes.
const (
	SHA256    Algorithm = "sha256"
	Keccak256 Algorithm = "keccak256"
	BLAKE3    Algorithm = "blake3"
)

// Encoding names the way digest bytes are rendered as text.
type Encoding string

// Set of supported encodings.
const (
	// StrictHex renders every byte as exactly two lowercase hex digits.
	StrictHex Encoding = "strict"

	// CompactHex renders every byte with the minimum number of hex digits,
	// so a byte value of 5 becomes "5" and not "05". Digests produced this
	// way are not fixed length. This reproduces only the byte to text
	// rendering of the legacy ledger. The legacy hash inputs differ, since
	// amounts were written as 100.0 where encoding/json writes 100, so legacy
	// digests are not reproduced. Do not use it for new chains.
	CompactHex Encoding = "compact"
)

// ParseAlgorithm converts a name into an Algorithm.
func ParseAlgorithm(name string) (Algorithm, error) {
	switch alg := Algorithm(strings.ToLower(name)); alg {
	case "", SHA256:
		return SHA256, nil
	case Keccak256, BLAKE3:
		return alg, nil
	}

	return "", fmt.Errorf("algorithm %q does not exist", name)
}

// ParseEncoding converts a name into an Encoding.
func ParseEncoding(name string) (Encoding, error) {
	switch enc := Encoding(strings.ToLower(name)); enc {
	case "", StrictHex:
		return StrictHex, nil
	case CompactHex:
		return enc, nil
	}

	return "", fmt.Errorf("encoding %q does not exist", name)
}

// =============================================================================

// Hasher turns any JSON serializable value into a digest string. The zero
// value uses SHA256 with StrictHex.
type Hasher struct {
	alg Algorithm
	enc Encoding
}

// New constructs a Hasher for the specified algorithm and encoding.
func New(alg Algorithm, enc Encoding) (Hasher, error) {
	alg, err := ParseAlgorithm(string(alg))
	if err != nil {
		return Hasher{}, err
	}

	enc, err = ParseEncoding(string(enc))
	if err != nil {
		return Hasher{}, err
	}

	return Hasher{alg: alg, enc: enc}, nil
}

// Algorithm returns the digest function in use.
func (h Hasher) Algorithm() Algorithm {
	if h.alg == "" {
		return SHA256
	}
	return h.alg
}

// Encoding returns the text encoding in use.
func (h Hasher) Encoding() Encoding {
	if h.enc == "" {
		return StrictHex
	}
	return h.enc
}

// String implements the Stringer interface.
func (h Hasher) String() string {
	return fmt.Sprintf("%s/%s", h.Algorithm(), h.Encoding())
}

// Hash returns a unique string for the value. A value that can't be
// marshaled means the caller is hashing a type that doesn't belong in the
// ledger, so this panics.
func (h Hasher) Hash(value any) string {
	hash, err := h.TryHash(value)
	if err != nil {
		panic(fmt.Sprintf("signature: hash: %s", err))
	}

	return hash
}

// TryHash returns a unique string for the value or the marshaling error.
func (h Hasher) TryHash(value any) (string, error) {
	data, err := json.Marshal(value)
	if err != nil {
		return "", fmt.Errorf("marshal: %w", err)
	}

	return h.HashBytes(data), nil
}

// HashBytes returns the encoded digest of the raw bytes.
func (h Hasher) HashBytes(data []byte) string {
	var sum []byte
	switch h.Algorithm() {
	case Keccak256:
		sum = crypto.Keccak256(data)
	case BLAKE3:
		b := blake3.Sum256(data)
		sum = b[:]
	default:
		b := sha256.Sum256(data)
		sum = b[:]
	}

	if h.Encoding() == CompactHex {
		return compactHex(sum)
	}

	return common.Bytes2Hex(sum)
}

// =============================================================================

var std Hasher

// Hash returns a unique string for the value using SHA256 and StrictHex.
func Hash(value any) string {
	return std.Hash(value)
}

// TryHash is like Hash but returns marshaling errors.
func TryHash(value any) (string, error) {
	return std.TryHash(value)
}

// HashBytes returns the SHA256 StrictHex digest of the raw bytes.
func HashBytes(data []byte) string {
	return std.HashBytes(data)
}

// IsHex reports whether s is a strictly encoded digest.
func IsHex(s string) bool {
	if len(s) != HashLength {
		return false
	}

	for _, c := range s {
		if !strings.ContainsRune("0123456789abcdef", c) {
			return false
		}
	}

	return true
}

// =============================================================================

// compactHex renders each byte without zero padding.
func compactHex(sum []byte) string {
	var b strings.Builder
	for _, v := range sum {
		b.WriteString(strconv.FormatUint(uint64(v), 16))
	}

	return b.String()
}
