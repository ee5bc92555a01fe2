package account

import (
	"encoding/json"
	"errors"
	"log"
	"os"
	"path/filepath"
	"regexp"
	"sync"
)

const StartingTrophies = 1000

// Account is the persisted per-player record.
type Account struct {
	ID            string   `json:"id"`
	Name          string   `json:"name"`
	Trophies      int      `json:"trophies"`
	Deck          []string `json:"deck"`          // 8 card names
	CurrentBattle string   `json:"currentBattle"` // match id, empty when not in one
	LastUpdated   int64    `json:"lastUpdated"`
}

// Store persists accounts as one JSON file per player under dir.
type Store struct {
	mu    sync.Mutex
	dir   string
	locks map[string]*sync.Mutex
}

func NewStore(dir string) *Store {
	_ = os.MkdirAll(dir, 0o755)
	return &Store{dir: dir, locks: make(map[string]*sync.Mutex)}
}

var unsafeName = regexp.MustCompile(`[^a-zA-Z0-9]+`)

func safeFileName(name string) string {
	s := unsafeName.ReplaceAllString(name, "_")
	if s == "" {
		s = "player"
	}
	return s
}

func (s *Store) lockFor(id string) *sync.Mutex {
	s.mu.Lock()
	defer s.mu.Unlock()
	l, ok := s.locks[id]
	if !ok {
		l = &sync.Mutex{}
		s.locks[id] = l
	}
	return l
}

func (s *Store) path(id string) string {
	return filepath.Join(s.dir, safeFileName(id)+".json")
}

// Load reads the account for id, creating a default record when none exists.
func (s *Store) Load(id string) (*Account, error) {
	if id == "" {
		return nil, errors.New("empty account id")
	}
	l := s.lockFor(id)
	l.Lock()
	defer l.Unlock()
	return s.load(id)
}

// load requires the per-account lock for id.
func (s *Store) load(id string) (*Account, error) {
	b, err := os.ReadFile(s.path(id))
	if errors.Is(err, os.ErrNotExist) {
		log.Printf("ACCOUNT: creating new account for %q", id)
		return &Account{ID: id, Name: id, Trophies: StartingTrophies}, nil
	}
	if err != nil {
		return nil, err
	}
	var acc Account
	if err := json.Unmarshal(b, &acc); err != nil {
		return nil, err
	}
	return &acc, nil
}

// Save writes the account atomically (tmp file + rename).
func (s *Store) Save(acc *Account) error {
	l := s.lockFor(acc.ID)
	l.Lock()
	defer l.Unlock()
	return s.save(acc)
}

func (s *Store) save(acc *Account) error {
	b, err := json.MarshalIndent(acc, "", "  ")
	if err != nil {
		return err
	}
	path := s.path(acc.ID)
	tmp := path + ".tmp"
	if err := os.WriteFile(tmp, b, 0o644); err != nil {
		return err
	}
	return os.Rename(tmp, path)
}

// ApplyTrophyDelta adds a signed trophy delta, clamping at zero. The
// read-modify-write runs under one hold of the per-account lock.
func (s *Store) ApplyTrophyDelta(id string, delta int) error {
	if id == "" {
		return errors.New("empty account id")
	}
	l := s.lockFor(id)
	l.Lock()
	defer l.Unlock()
	acc, err := s.load(id)
	if err != nil {
		return err
	}
	acc.Trophies += delta
	if acc.Trophies < 0 {
		acc.Trophies = 0
	}
	return s.save(acc)
}

// SetCurrentBattle records (or clears, with "") the player's live match so
// reconnecting clients can rejoin it.
func (s *Store) SetCurrentBattle(id, matchID string) error {
	if id == "" {
		return errors.New("empty account id")
	}
	l := s.lockFor(id)
	l.Lock()
	defer l.Unlock()
	acc, err := s.load(id)
	if err != nil {
		return err
	}
	acc.CurrentBattle = matchID
	return s.save(acc)
}
