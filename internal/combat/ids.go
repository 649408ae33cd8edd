package combat

import (
	"fmt"

	"github.com/google/uuid"
)

// IDSource hands out identifiers for battles, units, and obstacles. It is
// injected into spawn paths so tests can supply deterministic IDs.
type IDSource interface {
	Next(prefix string) string
}

// UUIDSource generates collision-free IDs for live games.
type UUIDSource struct{}

// Next returns "<prefix>-<uuid>".
func (UUIDSource) Next(prefix string) string {
	return prefix + "-" + uuid.NewString()
}

// Sequence is a deterministic monotonic IDSource for tests and replays.
type Sequence struct {
	n int
}

// Next returns "<prefix>-<n>" with n increasing from 1.
func (s *Sequence) Next(prefix string) string {
	s.n++
	return fmt.Sprintf("%s-%d", prefix, s.n)
}
