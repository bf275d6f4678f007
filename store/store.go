// Package store keeps one identity's roster (players, coaches, teams and
// seasons with their assignments) in memory and applies every change
// through the data service, reloading the whole roster afterwards.
package store

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/rs/zerolog"
	"golang.org/x/sync/errgroup"

	"roster/models"
)

// Identity is the signed-in user a roster is loaded for. An empty ID means
// nobody is signed in.
type Identity struct {
	ID    string `json:"id"`
	Email string `json:"email"`
}

func (i Identity) Same(other Identity) bool {
	return i.ID == other.ID && strings.EqualFold(i.Email, other.Email)
}

// Snapshot is one consistent load of the roster. Its slices are replaced on
// every reload and never modified after publication; callers must not
// modify them either.
type Snapshot struct {
	Players []models.Player `json:"players"`
	Coaches []models.Coach  `json:"coaches"`
	Teams   []models.Team   `json:"teams"`
	Seasons []models.Season `json:"seasons"`
}

func emptySnapshot() Snapshot {
	return Snapshot{
		Players: []models.Player{},
		Coaches: []models.Coach{},
		Teams:   []models.Team{},
		Seasons: []models.Season{},
	}
}

type Store struct {
	data DataService
	log  zerolog.Logger
	now  func() time.Time

	// reloadMu serializes reloads so the last one to finish always read
	// the latest server state.
	reloadMu sync.Mutex

	mu       sync.RWMutex
	identity Identity
	snapshot Snapshot
	loading  bool
	loaded   bool
	gen      uint64
}

func New(data DataService, logger zerolog.Logger) *Store {
	return &Store{
		data:     data,
		log:      logger,
		now:      time.Now,
		snapshot: emptySnapshot(),
		loading:  true,
	}
}

func (s *Store) Snapshot() Snapshot {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.snapshot
}

func (s *Store) Loading() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.loading
}

func (s *Store) Identity() Identity {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.identity
}

// SetIdentity switches the store to identity. When it differs from the
// current one the collections are dropped immediately and reloaded.
func (s *Store) SetIdentity(ctx context.Context, identity Identity) {
	s.mu.Lock()
	changed := !s.identity.Same(identity)
	if changed {
		s.switchLocked(identity)
	}
	stale := changed || !s.loaded
	s.mu.Unlock()

	if stale {
		s.Reload(ctx, identity)
	}
}

// Reload replaces every collection with a fresh load for identity. Fetch
// failures are logged and leave only the affected collection empty.
func (s *Store) Reload(ctx context.Context, identity Identity) {
	s.load(ctx, identity, true)
}

// refresh reloads after a write, unless the store has moved on to another
// identity in the meantime.
func (s *Store) refresh(ctx context.Context, identity Identity) {
	s.load(ctx, identity, false)
}

func (s *Store) load(ctx context.Context, identity Identity, adopt bool) {
	s.reloadMu.Lock()
	defer s.reloadMu.Unlock()

	s.mu.Lock()
	if !s.identity.Same(identity) {
		if !adopt && s.identity.ID != "" {
			s.mu.Unlock()
			s.log.Debug().Str("user_id", identity.ID).Msg("Skipping reload for inactive identity")
			return
		}
		s.switchLocked(identity)
	}
	if identity.ID == "" {
		s.snapshot = emptySnapshot()
		s.loading = false
		s.loaded = true
		s.mu.Unlock()
		return
	}
	gen := s.gen
	s.loading = true
	s.mu.Unlock()

	snapshot := s.fetch(ctx, identity)

	s.mu.Lock()
	defer s.mu.Unlock()
	if gen != s.gen {
		s.log.Debug().Str("user_id", identity.ID).Msg("Discarding roster loaded for a previous identity")
		return
	}
	if err := ctx.Err(); err != nil {
		// The collections may be incomplete. Keep the previous ones and leave
		// the store stale so the next SetIdentity loads again.
		s.log.Warn().Err(err).Str("user_id", identity.ID).Msg("Roster load canceled")
		s.loading = !s.loaded
		s.loaded = false
		return
	}
	s.snapshot = snapshot
	s.loading = false
	s.loaded = true
}

func (s *Store) switchLocked(identity Identity) {
	s.identity = identity
	s.snapshot = emptySnapshot()
	s.loading = identity.ID != ""
	s.loaded = false
	s.gen++
}

func (s *Store) fetch(ctx context.Context, identity Identity) Snapshot {
	snapshot := emptySnapshot()

	var g errgroup.Group
	g.Go(func() error {
		teams, err := s.data.ListTeams(ctx, identity.ID)
		if err != nil {
			s.fetchFailed(err, identity, "teams")
			return nil
		}
		if teams != nil {
			snapshot.Teams = teams
		}
		return nil
	})
	g.Go(func() error {
		seasons, err := s.data.ListSeasons(ctx, identity.ID)
		if err != nil {
			s.fetchFailed(err, identity, "seasons")
			return nil
		}
		if seasons != nil {
			snapshot.Seasons = seasons
		}
		return nil
	})
	g.Go(func() error {
		coaches, err := s.data.ListCoaches(ctx, identity.ID)
		if err != nil {
			s.fetchFailed(err, identity, "coaches")
			return nil
		}
		snapshot.Coaches = normalizeCoaches(coaches)
		return nil
	})
	g.Go(func() error {
		snapshot.Players = s.fetchPlayers(ctx, identity)
		return nil
	})
	_ = g.Wait()

	return snapshot
}

// fetchPlayers merges players the identity owns (or has taken over) with
// players linked to a parent carrying the identity's email.
func (s *Store) fetchPlayers(ctx context.Context, identity Identity) []models.Player {
	direct, err := s.data.ListOwnedPlayers(ctx, identity.ID)
	if err != nil {
		s.fetchFailed(err, identity, "players")
		direct = nil
	}

	linked, err := s.fetchLinkedPlayers(ctx, identity.Email)
	if err != nil {
		s.fetchFailed(err, identity, "linked players")
		linked = nil
	}

	return normalizePlayers(dedupPlayers(direct, linked))
}

func (s *Store) fetchLinkedPlayers(ctx context.Context, email string) ([]models.Player, error) {
	email = strings.TrimSpace(email)
	if email == "" {
		return nil, nil
	}

	parentIDs, err := s.data.ParentIDsByEmail(ctx, email)
	if err != nil {
		return nil, fmt.Errorf("match parents: %w", err)
	}
	if len(parentIDs) == 0 {
		return nil, nil
	}

	playerIDs, err := s.data.ConnectedPlayerIDs(ctx, parentIDs)
	if err != nil {
		return nil, fmt.Errorf("load parent connections: %w", err)
	}
	if len(playerIDs) == 0 {
		return nil, nil
	}

	players, err := s.data.ListPlayersByID(ctx, playerIDs)
	if err != nil {
		return nil, fmt.Errorf("load connected players: %w", err)
	}
	return players, nil
}

func (s *Store) fetchFailed(err error, identity Identity, collection string) {
	s.log.Error().
		Err(err).
		Str("user_id", identity.ID).
		Str("collection", collection).
		Msg("Failed to load roster collection")
}

// commit runs a single write for identity and reloads the roster when it
// succeeds. A failed write leaves the current snapshot untouched.
func (s *Store) commit(ctx context.Context, identity Identity, op string, write func() error) error {
	if identity.ID == "" {
		return ErrNoIdentity
	}
	if err := write(); err != nil {
		s.log.Error().
			Err(err).
			Str("user_id", identity.ID).
			Str("op", op).
			Msg("Roster write failed")
		return fmt.Errorf("%s: %w", op, err)
	}
	s.refresh(ctx, identity)
	return nil
}
