package model

import (
	"slices"
	"sync"
	"time"
)

type QueuedPlayer struct {
	Player   Player
	JoinedAt time.Time
}

// Queue is the matchmaking FIFO.
type Queue struct {
	players []QueuedPlayer
	mu      sync.Mutex
}

func NewQueue() *Queue {
	return &Queue{}
}

func (q *Queue) AddPlayer(player Player) error {
	if player.ID == "" {
		return ErrNoPlayerID
	}
	q.mu.Lock()
	defer q.mu.Unlock()

	if q.contains(player.ID) {
		return ErrAlreadyQueued
	}
	q.players = append(q.players, QueuedPlayer{Player: player, JoinedAt: time.Now()})
	return nil
}

// Requeue puts popped players back at the head of the queue, keeping their
// order. Players who queued again in the meantime are skipped.
func (q *Queue) Requeue(players ...Player) {
	q.mu.Lock()
	defer q.mu.Unlock()

	head := make([]QueuedPlayer, 0, len(players))
	for _, p := range players {
		if !q.contains(p.ID) {
			head = append(head, QueuedPlayer{Player: p, JoinedAt: time.Now()})
		}
	}
	q.players = append(head, q.players...)
}

func (q *Queue) contains(playerID string) bool {
	return slices.ContainsFunc(q.players, func(p QueuedPlayer) bool {
		return p.Player.ID == playerID
	})
}

// Remove drops a player who left before being matched.
func (q *Queue) Remove(playerID string) bool {
	q.mu.Lock()
	defer q.mu.Unlock()

	n := len(q.players)
	q.players = slices.DeleteFunc(q.players, func(p QueuedPlayer) bool {
		return p.Player.ID == playerID
	})
	return len(q.players) != n
}

// GetNextPair pops the two players who have waited longest.
func (q *Queue) GetNextPair() (Player, Player, bool) {
	q.mu.Lock()
	defer q.mu.Unlock()

	if len(q.players) < 2 {
		return Player{}, Player{}, false
	}
	p1, p2 := q.players[0].Player, q.players[1].Player
	q.players = q.players[2:]
	return p1, p2, true
}

func (q *Queue) Size() int {
	q.mu.Lock()
	defer q.mu.Unlock()
	return len(q.players)
}
