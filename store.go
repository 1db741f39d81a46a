package main

import (
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/bodul/xwedit/grid"
)

// Store holds all puzzles and game sessions in memory.
type Store struct {
	mu      sync.RWMutex
	puzzles map[string]*Document
	games   map[string]*GameSession
}

// NewStore creates an empty store.
func NewStore() *Store {
	return &Store{
		puzzles: make(map[string]*Document),
		games:   make(map[string]*GameSession),
	}
}

// CreatePuzzle stores a new document over g and returns it with a generated
// ID.
func (s *Store) CreatePuzzle(g *grid.Grid) *Document {
	now := time.Now()
	d := &Document{
		ID:        generateID(),
		CreatedAt: now,
		UpdatedAt: now,
		puzzle:    grid.NewPuzzle(g),
	}

	s.mu.Lock()
	s.puzzles[d.ID] = d
	s.mu.Unlock()

	return d
}

// GetPuzzle returns a document by ID, or nil if not found.
func (s *Store) GetPuzzle(id string) *Document {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.puzzles[id]
}

// ListPuzzles returns all documents, most recent first.
func (s *Store) ListPuzzles() []*Document {
	s.mu.RLock()
	list := make([]*Document, 0, len(s.puzzles))
	for _, d := range s.puzzles {
		list = append(list, d)
	}
	s.mu.RUnlock()

	sort.Slice(list, func(i, j int) bool {
		return list[i].CreatedAt.After(list[j].CreatedAt)
	})
	return list
}

// CreateGame starts a solving session from the current state of a puzzle.
// Returns an error if the puzzle does not exist.
func (s *Store) CreateGame(puzzleID string) (*GameSession, error) {
	doc := s.GetPuzzle(puzzleID)
	if doc == nil {
		return nil, fmt.Errorf("puzzle not found: %s", puzzleID)
	}

	game := newGameSession(generateID(), puzzleID, doc.Snapshot())

	s.mu.Lock()
	s.games[game.ID] = game
	s.mu.Unlock()

	return game, nil
}

// GetGame returns a game session by ID, or nil if not found.
func (s *Store) GetGame(id string) *GameSession {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.games[id]
}

// ListGames returns all game sessions.
func (s *Store) ListGames() []*GameSession {
	s.mu.RLock()
	defer s.mu.RUnlock()

	list := make([]*GameSession, 0, len(s.games))
	for _, g := range s.games {
		list = append(list, g)
	}
	return list
}

func generateID() string {
	return uuid.NewString()
}
