package app

import (
	"sync"
)

// LiveBoard fans out leaderboard snapshots to websocket subscribers, one
// subscriber set per tournament. Slow subscribers are dropped rather than
// blocking the publisher.
type LiveBoard struct {
	mu   sync.Mutex
	subs map[int64]map[chan []RankedParticipant]struct{}
}

func NewLiveBoard() *LiveBoard {
	return &LiveBoard{subs: make(map[int64]map[chan []RankedParticipant]struct{})}
}

// Subscribe registers a listener for one tournament. The returned cancel
// func must be called when the listener goes away.
func (b *LiveBoard) Subscribe(tournamentID int64) (<-chan []RankedParticipant, func()) {
	ch := make(chan []RankedParticipant, 8)

	b.mu.Lock()
	set, ok := b.subs[tournamentID]
	if !ok {
		set = make(map[chan []RankedParticipant]struct{})
		b.subs[tournamentID] = set
	}
	set[ch] = struct{}{}
	b.mu.Unlock()

	cancel := func() {
		b.mu.Lock()
		if set, ok := b.subs[tournamentID]; ok {
			if _, live := set[ch]; live {
				delete(set, ch)
				close(ch)
			}
			if len(set) == 0 {
				delete(b.subs, tournamentID)
			}
		}
		b.mu.Unlock()
	}
	return ch, cancel
}

// Publish pushes a ranking snapshot to every subscriber of the tournament.
func (b *LiveBoard) Publish(tournamentID int64, ranking []RankedParticipant) {
	if b == nil {
		return
	}
	b.mu.Lock()
	defer b.mu.Unlock()
	for ch := range b.subs[tournamentID] {
		select {
		case ch <- ranking:
		default:
			delete(b.subs[tournamentID], ch)
			close(ch)
		}
	}
}

// Subscribers reports the listener count for one tournament.
func (b *LiveBoard) Subscribers(tournamentID int64) int {
	b.mu.Lock()
	defer b.mu.Unlock()
	return len(b.subs[tournamentID])
}
