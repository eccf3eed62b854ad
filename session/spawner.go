package session

import (
	"math/rand/v2"

	"github.com/plus3/blockfall/piece"
)

// Spawner picks the kind of the next piece.
type Spawner interface {
	Next() piece.Kind
}

// RandomSpawner draws every kind uniformly and independently.
type RandomSpawner struct {
	rng *rand.Rand
}

// NewRandomSpawner draws kinds from rng.
func NewRandomSpawner(rng *rand.Rand) *RandomSpawner {
	return &RandomSpawner{rng: rng}
}

// Next returns a uniformly chosen kind.
func (s *RandomSpawner) Next() piece.Kind {
	return piece.Kinds[s.rng.IntN(len(piece.Kinds))]
}

// BagSpawner deals the seven kinds in shuffled bags, so every kind appears once per seven
// pieces.
type BagSpawner struct {
	rng *rand.Rand
	bag []piece.Kind
}

// NewBagSpawner shuffles each bag with rng.
func NewBagSpawner(rng *rand.Rand) *BagSpawner {
	return &BagSpawner{rng: rng}
}

// Next deals the next kind of the current bag, refilling it when empty.
func (s *BagSpawner) Next() piece.Kind {
	if len(s.bag) == 0 {
		s.bag = append(s.bag, piece.Kinds[:]...)
		s.rng.Shuffle(len(s.bag), func(i, j int) {
			s.bag[i], s.bag[j] = s.bag[j], s.bag[i]
		})
	}

	kind := s.bag[0]
	s.bag = s.bag[1:]
	return kind
}

// FixedSpawner repeats a fixed sequence of kinds.
type FixedSpawner struct {
	kinds []piece.Kind
	next  int
}

// NewFixedSpawner panics if no kinds are given.
func NewFixedSpawner(kinds ...piece.Kind) *FixedSpawner {
	if len(kinds) == 0 {
		panic("fixed spawner needs at least one kind")
	}
	return &FixedSpawner{kinds: kinds}
}

// Next returns the next kind of the sequence, wrapping around at the end.
func (s *FixedSpawner) Next() piece.Kind {
	kind := s.kinds[s.next]
	s.next = (s.next + 1) % len(s.kinds)
	return kind
}
