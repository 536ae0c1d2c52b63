package sim

import (
	"fmt"
	"hash/fnv"
	"math"
	"math/rand"
	"time"
)

// === SimulationKey ===

// SimulationKey uniquely identifies a reproducible simulation run.
// Two simulators with the same SimulationKey and identical configuration
// MUST produce bit-for-bit identical results.
type SimulationKey int64

// NewSimulationKey creates a SimulationKey from a seed value.
func NewSimulationKey(seed int64) SimulationKey {
	return SimulationKey(seed)
}

// TimeDerivedKey returns a non-reproducible key taken from the wall clock.
// Callers should log it so the run can be replayed with --seed.
func TimeDerivedKey() SimulationKey {
	return SimulationKey(time.Now().UnixNano())
}

// === Stream ===

// Stream is the single pseudo-random source shared by every replication and
// every arrival rate of one Simulator. Draw order is the determinism contract.
//
// Thread-safety: NOT thread-safe. Must be called from single goroutine.
type Stream struct {
	key SimulationKey
	rng *rand.Rand
}

// NewStream creates a Stream seeded from key.
func NewStream(key SimulationKey) *Stream {
	return &Stream{
		key: key,
		rng: rand.New(rand.NewSource(int64(key))),
	}
}

// Uniform draws U ~ Uniform[0, 1).
func (s *Stream) Uniform() float64 {
	return s.rng.Float64()
}

// Exponential draws an exponential variate with the given rate by inversion.
// Uses 1-U so a zero draw never reaches the logarithm.
func (s *Stream) Exponential(rate float64) float64 {
	return -math.Log(1-s.Uniform()) / rate
}

// Key returns the SimulationKey used to seed this Stream.
func (s *Stream) Key() SimulationKey {
	return s.key
}

// === PartitionedRNG ===

// SubsystemReplication returns the subsystem name for replication i at the given rate.
// Used only when replications run in parallel.
func SubsystemReplication(rate float64, i int) string {
	return fmt.Sprintf("rate_%g/rep_%d", rate, i)
}

// PartitionedRNG provides deterministic, isolated Streams per subsystem.
//
// Derivation formula: masterSeed XOR fnv1a64(subsystemName)
//
// Thread-safety: NOT thread-safe. Derive every Stream before handing
// them to worker goroutines.
type PartitionedRNG struct {
	key        SimulationKey
	subsystems map[string]*Stream
}

// NewPartitionedRNG creates a PartitionedRNG from a SimulationKey.
func NewPartitionedRNG(key SimulationKey) *PartitionedRNG {
	return &PartitionedRNG{
		key:        key,
		subsystems: make(map[string]*Stream),
	}
}

// ForSubsystem returns a deterministically-seeded Stream for the named subsystem.
// The same subsystem name always returns the same *Stream instance (cached).
// Never returns nil.
func (p *PartitionedRNG) ForSubsystem(name string) *Stream {
	if s, ok := p.subsystems[name]; ok {
		return s
	}
	s := NewStream(SimulationKey(int64(p.key) ^ fnv1a64(name)))
	p.subsystems[name] = s
	return s
}

// Key returns the SimulationKey used to create this PartitionedRNG.
func (p *PartitionedRNG) Key() SimulationKey {
	return p.key
}

// fnv1a64 computes a 64-bit FNV-1a hash of the input string.
func fnv1a64(s string) int64 {
	h := fnv.New64a()
	h.Write([]byte(s))
	return int64(h.Sum64())
}
