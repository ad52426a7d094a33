package crypto

import (
	"crypto/rand"
	"encoding/binary"
	"fmt"
	mathrand "math/rand"
	"sync"
)

// SeedLength is the length of the seed handed to every operation.
const SeedLength = 32

// SeedSource supplies the per-operation random seed.
type SeedSource interface {
	Seed() ([]byte, error)
}

type cryptoSeedSource struct{}

// NewCryptoSeedSource returns a SeedSource reading from the operating system
// CSPRNG.
func NewCryptoSeedSource() *cryptoSeedSource {
	return &cryptoSeedSource{}
}

func (s *cryptoSeedSource) Seed() ([]byte, error) {
	seed := make([]byte, SeedLength)
	if _, err := rand.Read(seed); err != nil {
		return nil, err
	}

	return seed, nil
}

type seededSource struct {
	mutex sync.Mutex
	rand  *mathrand.Rand
}

// NewSeededSource returns a reproducible SeedSource. Two sources created with
// the same value produce the same sequence of seeds.
func NewSeededSource(value int64) *seededSource {
	return &seededSource{rand: mathrand.New(mathrand.NewSource(value))}
}

func (s *seededSource) Seed() ([]byte, error) {
	s.mutex.Lock()
	defer s.mutex.Unlock()

	seed := make([]byte, SeedLength)
	s.rand.Read(seed)
	return seed, nil
}

// RandomUint32 reads a little-endian uint32 from the seed after rotating it
// left by shift bytes.
func RandomUint32(seed []byte, shift int) (uint32, error) {
	b, err := rotate(seed, shift, 4)
	if err != nil {
		return 0, err
	}

	return binary.LittleEndian.Uint32(b), nil
}

// RandomUint64 reads a little-endian uint64 from the seed after rotating it
// left by shift bytes.
func RandomUint64(seed []byte, shift int) (uint64, error) {
	b, err := rotate(seed, shift, 8)
	if err != nil {
		return 0, err
	}

	return binary.LittleEndian.Uint64(b), nil
}

func rotate(seed []byte, shift, n int) ([]byte, error) {
	if len(seed) < n {
		return nil, fmt.Errorf("seed too short: got %d bytes, need %d", len(seed), n)
	}

	if shift < 0 {
		return nil, fmt.Errorf("invalid shift %d", shift)
	}

	offset := shift % len(seed)
	rotated := make([]byte, 0, len(seed))
	rotated = append(rotated, seed[offset:]...)
	rotated = append(rotated, seed[:offset]...)
	return rotated[:n], nil
}
