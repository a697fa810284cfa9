package app

import (
	"fmt"
	"sync"
	"time"
)

// IDGenerator produces reservation ids. It is injected so tests can supply
// deterministic ids.
type IDGenerator interface {
	Next(now time.Time) string
}

// SequentialIDs generates ids of the form <yymmddhhmmss><6-digit counter>.
// The counter is process-wide, starts at 1, and never resets while the
// process lives. It is NOT persisted: after a restart the counter starts
// over, so ids are only unique within one process lifetime unless the
// sequence is externalized (the reservations primary key is the backstop).
type SequentialIDs struct {
	mu   sync.Mutex
	next uint64
}

func NewSequentialIDs() *SequentialIDs {
	return &SequentialIDs{next: 1}
}

func (g *SequentialIDs) Next(now time.Time) string {
	g.mu.Lock()
	n := g.next
	g.next++
	g.mu.Unlock()

	return fmt.Sprintf("%s%06d", now.UTC().Format("060102150405"), n)
}
