package dom

import (
	"encoding/binary"
	"encoding/hex"
	"errors"
	"fmt"
	"sync/atomic"
	"time"

	"github.com/google/uuid"
)

// UniqueIDEpoch is the zero point of [UniqueID.Time].
var UniqueIDEpoch = time.Date(2021, time.January, 1, 0, 0, 0, 0, time.UTC)

// ErrClockBeforeEpoch is returned by [SystemGenerator] when the wall clock
// reads earlier than [UniqueIDEpoch] or too late to fit in 32 bits.
var ErrClockBeforeEpoch = errors.New("clock outside unique id range")

// UniqueID is an application-level uniqueness stamp carried as ordinary
// property data. It is independent of the instance's [Ref].
type UniqueID struct {
	Index  uint32 // Per-process sequence number
	Time   uint32 // Seconds since UniqueIDEpoch
	Random int64  // Entropy
}

// Type implements [Value].
func (UniqueID) Type() Type { return TypeUniqueID }

// IsZero reports whether u is the zero UniqueID.
func (u UniqueID) IsZero() bool { return u == UniqueID{} }

// String returns 32 lower-case hex digits: random, time, index.
func (u UniqueID) String() string {
	var buf [16]byte
	binary.BigEndian.PutUint64(buf[0:8], uint64(u.Random))
	binary.BigEndian.PutUint32(buf[8:12], u.Time)
	binary.BigEndian.PutUint32(buf[12:16], u.Index)
	return hex.EncodeToString(buf[:])
}

// ParseUniqueID parses the output of [UniqueID.String].
func ParseUniqueID(s string) (UniqueID, error) {
	if len(s) != 32 {
		return UniqueID{}, fmt.Errorf("invalid unique id %q: want 32 hex digits", s)
	}
	var buf [16]byte
	if _, err := hex.Decode(buf[:], []byte(s)); err != nil {
		return UniqueID{}, fmt.Errorf("invalid unique id %q: %w", s, err)
	}
	return UniqueID{
		Random: int64(binary.BigEndian.Uint64(buf[0:8])),
		Time:   binary.BigEndian.Uint32(buf[8:12]),
		Index:  binary.BigEndian.Uint32(buf[12:16]),
	}, nil
}

// IDGenerator produces fresh [UniqueID] values. Any two generated values
// must differ from each other and from values produced earlier.
type IDGenerator interface {
	Generate() (UniqueID, error)
}

// GeneratorFunc adapts a function to [IDGenerator].
type GeneratorFunc func() (UniqueID, error)

// Generate calls f.
func (f GeneratorFunc) Generate() (UniqueID, error) { return f() }

// SystemGenerator stamps ids with the wall clock, a process-wide sequence
// number and random entropy. It is safe for concurrent use.
type SystemGenerator struct {
	// Now returns the current time. Defaults to time.Now.
	Now func() time.Time
	// Entropy returns random bytes. Defaults to uuid.NewRandom.
	Entropy func() ([16]byte, error)

	index atomic.Uint32
}

// NewSystemGenerator returns a generator backed by the wall clock and the
// system entropy source.
func NewSystemGenerator() *SystemGenerator {
	return &SystemGenerator{}
}

// Generate returns a fresh UniqueID.
func (g *SystemGenerator) Generate() (UniqueID, error) {
	now := time.Now
	if g.Now != nil {
		now = g.Now
	}
	secs := now().Sub(UniqueIDEpoch) / time.Second
	if secs < 0 || secs > 1<<32-1 {
		return UniqueID{}, ErrClockBeforeEpoch
	}

	var entropy [16]byte
	if g.Entropy != nil {
		b, err := g.Entropy()
		if err != nil {
			return UniqueID{}, fmt.Errorf("entropy: %w", err)
		}
		entropy = b
	} else {
		u, err := uuid.NewRandom()
		if err != nil {
			return UniqueID{}, fmt.Errorf("entropy: %w", err)
		}
		entropy = u
	}

	return UniqueID{
		Index:  g.index.Add(1),
		Time:   uint32(secs),
		Random: int64(binary.BigEndian.Uint64(entropy[:8])),
	}, nil
}
