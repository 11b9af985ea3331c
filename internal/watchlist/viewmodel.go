package watchlist

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/miyashiroo/trackfilmes-frontend/internal/models"
)

// Gateway is the remote watchlist surface the view-model drives.
type Gateway interface {
	List(ctx context.Context) ([]models.WatchlistEntry, error)
	Remove(ctx context.Context, movieID int) error
	SetWatched(ctx context.Context, movieID int, watched bool) (*models.WatchlistEntry, error)
}

// Filter selects a partition of the in-memory list.
type Filter string

const (
	FilterAll       Filter = "all"
	FilterWatched   Filter = "watched"
	FilterUnwatched Filter = "unwatched"
)

// ParseFilter maps a query value to a Filter, defaulting to FilterAll.
func ParseFilter(s string) Filter {
	switch Filter(s) {
	case FilterWatched:
		return FilterWatched
	case FilterUnwatched:
		return FilterUnwatched
	}
	return FilterAll
}

// ErrMutationInFlight is returned when a remove or toggle is already running
// for the same entry. Other entries stay mutable.
var ErrMutationInFlight = errors.New("mutation already in flight for this entry")

// ViewModel holds the last-fetched watchlist in memory for the lifetime of a
// mounted view. Single-item mutations are applied optimistically so the UI
// never waits for a full reload; the next Load reconciles with the server.
type ViewModel struct {
	mu       sync.Mutex
	gw       Gateway
	entries  []models.WatchlistEntry
	inFlight map[int]struct{}
	loaded   bool
	now      func() time.Time
}

// NewViewModel creates an empty view-model over the given gateway.
func NewViewModel(gw Gateway) *ViewModel {
	return &ViewModel{
		gw:       gw,
		inFlight: make(map[int]struct{}),
		now:      time.Now,
	}
}

// Load fetches the full list and replaces the in-memory sequence.
func (vm *ViewModel) Load(ctx context.Context) error {
	entries, err := vm.gw.List(ctx)
	if err != nil {
		return err
	}
	if ctx.Err() != nil {
		// The view is gone; do not mutate state for a dead consumer.
		return ctx.Err()
	}

	vm.mu.Lock()
	defer vm.mu.Unlock()
	vm.entries = entries
	vm.loaded = true
	return nil
}

// Loaded reports whether an initial Load has completed.
func (vm *ViewModel) Loaded() bool {
	vm.mu.Lock()
	defer vm.mu.Unlock()
	return vm.loaded
}

// Entries returns a copy of the in-memory sequence.
func (vm *ViewModel) Entries() []models.WatchlistEntry {
	vm.mu.Lock()
	defer vm.mu.Unlock()
	out := make([]models.WatchlistEntry, len(vm.entries))
	copy(out, vm.entries)
	return out
}

// FilterBy partitions the in-memory sequence. Pure and synchronous: no
// network cost, recomputed on every call.
func (vm *ViewModel) FilterBy(f Filter) []models.WatchlistEntry {
	vm.mu.Lock()
	defer vm.mu.Unlock()

	out := make([]models.WatchlistEntry, 0, len(vm.entries))
	for _, e := range vm.entries {
		switch f {
		case FilterWatched:
			if !e.Watched {
				continue
			}
		case FilterUnwatched:
			if e.Watched {
				continue
			}
		}
		out = append(out, e)
	}
	return out
}

// InFlight reports whether a mutation is running for the given entry. The UI
// disables that entry's controls while true.
func (vm *ViewModel) InFlight(movieID int) bool {
	vm.mu.Lock()
	defer vm.mu.Unlock()
	_, busy := vm.inFlight[movieID]
	return busy
}

func (vm *ViewModel) begin(movieID int) error {
	vm.mu.Lock()
	defer vm.mu.Unlock()
	if _, busy := vm.inFlight[movieID]; busy {
		return ErrMutationInFlight
	}
	vm.inFlight[movieID] = struct{}{}
	return nil
}

func (vm *ViewModel) end(movieID int) {
	vm.mu.Lock()
	defer vm.mu.Unlock()
	delete(vm.inFlight, movieID)
}

// Remove deletes the entry on the server, then drops it from the in-memory
// sequence without a refetch. The server mutation has committed by the time
// the filter runs; there is no rollback path.
func (vm *ViewModel) Remove(ctx context.Context, movieID int) error {
	if err := vm.begin(movieID); err != nil {
		return err
	}
	defer vm.end(movieID)

	if err := vm.gw.Remove(ctx, movieID); err != nil {
		return err
	}
	if ctx.Err() != nil {
		return ctx.Err()
	}

	vm.mu.Lock()
	defer vm.mu.Unlock()
	kept := vm.entries[:0]
	for _, e := range vm.entries {
		if e.TMDBMovieID != movieID {
			kept = append(kept, e)
		}
	}
	vm.entries = kept
	return nil
}

// ToggleWatched inverts the entry's watched flag on the server and applies
// the result locally. The server's updated entry wins when the response
// carries one; otherwise watchedAt falls back to the client clock until the
// next full reload.
func (vm *ViewModel) ToggleWatched(ctx context.Context, movieID int) (*models.WatchlistEntry, error) {
	vm.mu.Lock()
	var current *models.WatchlistEntry
	for i := range vm.entries {
		if vm.entries[i].TMDBMovieID == movieID {
			current = &vm.entries[i]
			break
		}
	}
	if current == nil {
		vm.mu.Unlock()
		return nil, errors.New("entry not on watchlist")
	}
	target := !current.Watched
	vm.mu.Unlock()

	if err := vm.begin(movieID); err != nil {
		return nil, err
	}
	defer vm.end(movieID)

	serverEntry, err := vm.gw.SetWatched(ctx, movieID, target)
	if err != nil {
		return nil, err
	}
	if ctx.Err() != nil {
		return nil, ctx.Err()
	}

	vm.mu.Lock()
	defer vm.mu.Unlock()
	for i := range vm.entries {
		if vm.entries[i].TMDBMovieID != movieID {
			continue
		}
		if serverEntry != nil {
			vm.entries[i] = *serverEntry
		} else {
			vm.entries[i].Watched = target
			if target {
				at := vm.now()
				vm.entries[i].WatchedAt = &at
			} else {
				vm.entries[i].WatchedAt = nil
			}
		}
		updated := vm.entries[i]
		return &updated, nil
	}
	// Entry vanished between the call and the apply (concurrent remove on
	// another entry cannot do this, but a reload can).
	return nil, nil
}
