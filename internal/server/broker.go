package server

import (
	"encoding/json"
	"sync"

	"github.com/playperu/campusguessr/internal/campus"
)

const (
	EventBuildingFound = "building_found"
	EventGuessRecorded = "guess_recorded"
	EventRoundChanged  = "round_changed"
	EventGameComplete  = "game_complete"
	EventGameReset     = "game_reset"
)

// Event is the payload pushed to a session's subscribers. Round is
// 1-based so it survives omitempty.
type Event struct {
	Type     string        `json:"type"`
	Building string        `json:"building,omitempty"`
	Round    int           `json:"round,omitempty"`
	Location *campus.Point `json:"location,omitempty"`
	Distance *float64      `json:"distance,omitempty"`
	Score    *float64      `json:"score,omitempty"`
	Found    int           `json:"found,omitempty"`
	Total    int           `json:"total,omitempty"`
}

// Message is one encoded Event ready to be written to a stream.
type Message struct {
	Event string
	Data  []byte
}

// Broker is an in-process pub/sub for SSE events, keyed by session ID.
type Broker struct {
	mu   sync.RWMutex
	subs map[string]map[chan Message]struct{}
}

func NewBroker() *Broker {
	return &Broker{
		subs: make(map[string]map[chan Message]struct{}),
	}
}

func (b *Broker) Subscribe(sessionID string) chan Message {
	ch := make(chan Message, 16)
	b.mu.Lock()
	if b.subs[sessionID] == nil {
		b.subs[sessionID] = make(map[chan Message]struct{})
	}
	b.subs[sessionID][ch] = struct{}{}
	b.mu.Unlock()
	return ch
}

func (b *Broker) Unsubscribe(sessionID string, ch chan Message) {
	b.mu.Lock()
	if _, ok := b.subs[sessionID][ch]; ok {
		delete(b.subs[sessionID], ch)
		close(ch)
	}
	if len(b.subs[sessionID]) == 0 {
		delete(b.subs, sessionID)
	}
	b.mu.Unlock()
}

// Publish sends ev to every subscriber of the session. Slow subscribers
// miss events rather than block the publisher.
func (b *Broker) Publish(sessionID string, ev Event) {
	data, _ := json.Marshal(ev)
	msg := Message{Event: ev.Type, Data: data}

	b.mu.RLock()
	for ch := range b.subs[sessionID] {
		select {
		case ch <- msg:
		default:
		}
	}
	b.mu.RUnlock()
}

// Close ends every stream of the given sessions, e.g. after eviction.
func (b *Broker) Close(sessionIDs ...string) {
	b.mu.Lock()
	for _, id := range sessionIDs {
		for ch := range b.subs[id] {
			close(ch)
		}
		delete(b.subs, id)
	}
	b.mu.Unlock()
}

func (b *Broker) subscribers(sessionID string) int {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return len(b.subs[sessionID])
}
