package wallet

import (
	"fmt"
	"sync/atomic"
	"time"

	"github.com/google/uuid"
)

// =============================================================================
// CLOCK - Source of CreatedAt timestamps
// =============================================================================

type Clock interface {
	Now() time.Time
}

// SystemClock reads the wall clock in UTC.
type SystemClock struct{}

func (SystemClock) Now() time.Time { return time.Now().UTC() }

// ManualClock returns At and then advances it by Step on every call.
// Useful for tests that need strictly increasing timestamps.
type ManualClock struct {
	At   time.Time
	Step time.Duration
}

func (c *ManualClock) Now() time.Time {
	t := c.At
	c.At = c.At.Add(c.Step)
	return t
}

// =============================================================================
// ID SOURCE - Source of transaction identifiers
// =============================================================================

type IDSource interface {
	NextID() TransactionID
}

// UUIDSource issues random v4 UUIDs.
type UUIDSource struct{}

func (UUIDSource) NextID() TransactionID { return TransactionID(uuid.NewString()) }

// SequenceIDs issues monotonic ids "<prefix><n>" starting after Start.
type SequenceIDs struct {
	Prefix string
	n      atomic.Int64
}

// NewSequenceIDs returns a sequence whose first id is start+1.
func NewSequenceIDs(prefix string, start int64) *SequenceIDs {
	s := &SequenceIDs{Prefix: prefix}
	s.n.Store(start)
	return s
}

func (s *SequenceIDs) NextID() TransactionID {
	return TransactionID(fmt.Sprintf("%s%d", s.Prefix, s.n.Add(1)))
}
