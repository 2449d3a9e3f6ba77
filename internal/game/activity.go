package game

import (
	"sync/atomic"
	"time"
)

// activity records when a session was last used, for idle eviction.
type activity struct {
	lastSeen atomic.Int64
}

func (a *activity) touch(t time.Time) { a.lastSeen.Store(t.UnixNano()) }

func (a *activity) idleSince() time.Time { return time.Unix(0, a.lastSeen.Load()) }
