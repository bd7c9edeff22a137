package services

import (
	"context"
	"errors"
	"log/slog"
	"sync"
	"time"

	"github.com/BradenHooton/userdir/internal/directory"
	"github.com/BradenHooton/userdir/internal/models"
	"github.com/BradenHooton/userdir/internal/repositories"
	"github.com/google/uuid"
)

// UserSource provides the full user collection
type UserSource interface {
	ListUsers(ctx context.Context) ([]models.UserRecord, error)
}

// ViewRepository stores active views
type ViewRepository interface {
	Insert(view *repositories.View) error
	Get(id string) (*repositories.View, error)
	Update(id string, fn func(repositories.View) (repositories.View, error)) (*repositories.View, error)
	Delete(id string) error
	DeleteIdleBefore(cutoff time.Time) ([]string, error)
	Count() int
}

// DirectoryConfig holds the defaults applied to every activation
type DirectoryConfig struct {
	PageSize      int
	Mode          directory.Mode
	QueryDebounce time.Duration
	FetchTimeout  time.Duration
}

// errStaleFetch marks a fetch completion for a superseded activation
var errStaleFetch = errors.New("stale fetch")

// DirectoryService drives directory views: one fetch per activation, then pure state
// transitions applied through the view repository.
type DirectoryService struct {
	source UserSource
	views  ViewRepository
	cfg    DirectoryConfig
	logger *slog.Logger
	now    func() time.Time

	mu     sync.Mutex
	drafts map[string]*directory.Debouncer[string]

	fetches sync.WaitGroup
}

// NewDirectoryService creates a new DirectoryService
func NewDirectoryService(source UserSource, views ViewRepository, cfg DirectoryConfig, logger *slog.Logger) *DirectoryService {
	if cfg.FetchTimeout <= 0 {
		cfg.FetchTimeout = 30 * time.Second
	}
	return &DirectoryService{
		source: source,
		views:  views,
		cfg:    cfg,
		logger: logger,
		now:    time.Now,
		drafts: make(map[string]*directory.Debouncer[string]),
	}
}

// Activate creates a view in the loading state and starts its fetch. It returns without
// waiting for the fetch.
func (s *DirectoryService) Activate(ctx context.Context) (*directory.VisiblePage, string, error) {
	now := s.now()
	view := &repositories.View{
		ID:          uuid.New().String(),
		Generation:  1,
		State:       directory.NewViewState(s.cfg.PageSize, s.cfg.Mode),
		ActivatedAt: now,
		LastAccess:  now,
	}

	if err := s.views.Insert(view); err != nil {
		s.logger.Error("failed to store view", slog.Any("error", err))
		return nil, "", models.ErrInternalServer
	}

	s.logger.Info("view activated",
		slog.String("view_id", view.ID),
		slog.Int("page_size", view.State.PageSize),
		slog.String("mode", string(view.State.Mode)),
	)

	s.startFetch(view.ID, view.Generation)

	page := directory.DeriveVisiblePage(view.State)
	return &page, view.ID, nil
}

// Reactivate resets a view to the activation defaults and fetches again. A fetch still
// running for the previous activation is discarded when it completes.
func (s *DirectoryService) Reactivate(ctx context.Context, id string) (*directory.VisiblePage, error) {
	s.cancelDraft(id)

	view, err := s.views.Update(id, func(v repositories.View) (repositories.View, error) {
		now := s.now()
		v.Generation++
		v.State = directory.NewViewState(s.cfg.PageSize, s.cfg.Mode)
		v.ActivatedAt = now
		v.LastAccess = now
		return v, nil
	})
	if err != nil {
		return nil, s.mapViewError(id, err)
	}

	s.logger.Info("view reactivated",
		slog.String("view_id", id),
		slog.Uint64("generation", view.Generation),
	)

	s.startFetch(id, view.Generation)

	page := directory.DeriveVisiblePage(view.State)
	return &page, nil
}

// Deactivate removes a view. A fetch completing afterwards is dropped.
func (s *DirectoryService) Deactivate(ctx context.Context, id string) error {
	if err := s.views.Delete(id); err != nil {
		return s.mapViewError(id, err)
	}
	s.stopDraft(id)

	s.logger.Info("view deactivated", slog.String("view_id", id))
	return nil
}

// Page returns the visible page of a view
func (s *DirectoryService) Page(ctx context.Context, id string) (*directory.VisiblePage, error) {
	return s.transition(id, func(st directory.ViewState) (directory.ViewState, error) {
		return st, nil
	})
}

// SubmitQuery applies a query immediately, replacing any draft still waiting
func (s *DirectoryService) SubmitQuery(ctx context.Context, id, query string) (*directory.VisiblePage, error) {
	s.cancelDraft(id)
	return s.transition(id, func(st directory.ViewState) (directory.ViewState, error) {
		return st.ApplyQuery(query), nil
	})
}

// DraftQuery records a query being typed. It is applied once no newer draft has arrived
// for the configured debounce delay.
func (s *DirectoryService) DraftQuery(ctx context.Context, id, query string) error {
	d, err := s.draft(id)
	if err != nil {
		return s.mapViewError(id, err)
	}

	d.Trigger(query)
	return nil
}

// SetStateFilter filters by address state; "" removes the filter
func (s *DirectoryService) SetStateFilter(ctx context.Context, id, state string) (*directory.VisiblePage, error) {
	return s.transition(id, func(st directory.ViewState) (directory.ViewState, error) {
		return st.ApplyFilter(state), nil
	})
}

// ResetFilters clears the query and the state filter
func (s *DirectoryService) ResetFilters(ctx context.Context, id string) (*directory.VisiblePage, error) {
	s.cancelDraft(id)
	return s.transition(id, func(st directory.ViewState) (directory.ViewState, error) {
		return st.ResetFilters(), nil
	})
}

// ToggleSort cycles the direction of a column
func (s *DirectoryService) ToggleSort(ctx context.Context, id, key string) (*directory.VisiblePage, error) {
	sortKey, err := directory.ParseSortKey(key)
	if err != nil {
		return nil, models.ErrBadRequest
	}
	return s.transition(id, func(st directory.ViewState) (directory.ViewState, error) {
		return st.ApplySort(sortKey), nil
	})
}

// SetSort sets column and direction explicitly
func (s *DirectoryService) SetSort(ctx context.Context, id, key, dir string) (*directory.VisiblePage, error) {
	sortKey, err := directory.ParseSortKey(key)
	if err != nil {
		return nil, models.ErrBadRequest
	}
	sortDir, err := directory.ParseSortDirection(dir)
	if err != nil {
		return nil, models.ErrBadRequest
	}
	return s.transition(id, func(st directory.ViewState) (directory.ViewState, error) {
		return st.ApplySortDirection(sortKey, sortDir), nil
	})
}

// GoToPage moves to page n; out-of-range values are clamped
func (s *DirectoryService) GoToPage(ctx context.Context, id string, n int) (*directory.VisiblePage, error) {
	return s.transition(id, func(st directory.ViewState) (directory.ViewState, error) {
		return st.ApplyPage(n), nil
	})
}

func (s *DirectoryService) NextPage(ctx context.Context, id string) (*directory.VisiblePage, error) {
	return s.transition(id, func(st directory.ViewState) (directory.ViewState, error) {
		return st.NextPage(), nil
	})
}

func (s *DirectoryService) PrevPage(ctx context.Context, id string) (*directory.VisiblePage, error) {
	return s.transition(id, func(st directory.ViewState) (directory.ViewState, error) {
		return st.PrevPage(), nil
	})
}

// SetMode switches between table and grid presentation
func (s *DirectoryService) SetMode(ctx context.Context, id, mode string) (*directory.VisiblePage, error) {
	m, err := directory.ParseMode(mode)
	if err != nil {
		return nil, models.ErrBadRequest
	}
	return s.transition(id, func(st directory.ViewState) (directory.ViewState, error) {
		return st.ApplyMode(m), nil
	})
}

// States lists the address states available to the state filter
func (s *DirectoryService) States(ctx context.Context, id string) ([]string, error) {
	view, err := s.views.Get(id)
	if err != nil {
		return nil, s.mapViewError(id, err)
	}
	if view.State.Status == directory.StatusLoading {
		return nil, models.ErrViewLoading
	}
	return view.State.DistinctStates(), nil
}

// ExpireIdle deactivates views not accessed since cutoff
func (s *DirectoryService) ExpireIdle(ctx context.Context, cutoff time.Time) (int, error) {
	ids, err := s.views.DeleteIdleBefore(cutoff)
	if err != nil {
		s.logger.Error("failed to expire idle views", slog.Any("error", err))
		return 0, models.ErrInternalServer
	}
	for _, id := range ids {
		s.stopDraft(id)
	}
	return len(ids), nil
}

// ActiveViews returns the number of active views
func (s *DirectoryService) ActiveViews() int {
	return s.views.Count()
}

// Close stops all pending drafts and waits for running fetches
func (s *DirectoryService) Close() {
	s.mu.Lock()
	drafts := s.drafts
	s.drafts = make(map[string]*directory.Debouncer[string])
	s.mu.Unlock()

	for _, d := range drafts {
		d.Stop()
	}
	s.fetches.Wait()
}

// transition applies fn to the view state and returns the resulting page
func (s *DirectoryService) transition(id string, fn func(directory.ViewState) (directory.ViewState, error)) (*directory.VisiblePage, error) {
	view, err := s.views.Update(id, func(v repositories.View) (repositories.View, error) {
		next, err := fn(v.State)
		if err != nil {
			return v, err
		}
		v.State = next
		v.LastAccess = s.now()
		return v, nil
	})
	if err != nil {
		return nil, s.mapViewError(id, err)
	}

	page := directory.DeriveVisiblePage(view.State)
	return &page, nil
}

func (s *DirectoryService) startFetch(id string, generation uint64) {
	s.fetches.Add(1)
	go func() {
		defer s.fetches.Done()

		ctx, cancel := context.WithTimeout(context.Background(), s.cfg.FetchTimeout)
		defer cancel()

		users, fetchErr := s.source.ListUsers(ctx)
		if fetchErr != nil {
			s.logger.Error("failed to fetch users",
				slog.String("view_id", id),
				slog.Any("error", fetchErr),
			)
		}

		_, err := s.views.Update(id, func(v repositories.View) (repositories.View, error) {
			if v.Generation != generation {
				return v, errStaleFetch
			}
			if fetchErr != nil {
				v.State = v.State.WithLoadFailure(models.ErrSourceUnavailable)
			} else {
				v.State = v.State.WithCollection(users)
			}
			return v, nil
		})

		switch {
		case err == nil:
			s.logger.Info("view loaded",
				slog.String("view_id", id),
				slog.Int("users", len(users)),
				slog.Bool("failed", fetchErr != nil),
			)
		case errors.Is(err, errStaleFetch), errors.Is(err, models.ErrViewNotFound):
			s.logger.Debug("discarding fetch result",
				slog.String("view_id", id),
				slog.Uint64("generation", generation),
			)
		default:
			s.logger.Error("failed to store fetch result", slog.String("view_id", id), slog.Any("error", err))
		}
	}()
}

// draft returns the debouncer of a view, creating it if needed. The view is looked up
// under s.mu so a concurrent Deactivate either runs first, making the lookup fail, or
// removes the debouncer afterwards in stopDraft.
func (s *DirectoryService) draft(id string) (*directory.Debouncer[string], error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, err := s.views.Get(id); err != nil {
		return nil, err
	}

	d, ok := s.drafts[id]
	if !ok {
		d = directory.NewDebouncer(s.cfg.QueryDebounce, func(query string) {
			if _, err := s.transition(id, func(st directory.ViewState) (directory.ViewState, error) {
				return st.ApplyQuery(query), nil
			}); err != nil {
				s.logger.Debug("dropping draft query", slog.String("view_id", id), slog.Any("error", err))
			}
		})
		s.drafts[id] = d
	}
	return d, nil
}

func (s *DirectoryService) cancelDraft(id string) {
	s.mu.Lock()
	d := s.drafts[id]
	s.mu.Unlock()

	if d != nil {
		d.Cancel()
	}
}

func (s *DirectoryService) stopDraft(id string) {
	s.mu.Lock()
	d := s.drafts[id]
	delete(s.drafts, id)
	s.mu.Unlock()

	if d != nil {
		d.Stop()
	}
}

func (s *DirectoryService) mapViewError(id string, err error) error {
	if errors.Is(err, models.ErrViewNotFound) {
		return models.ErrViewNotFound
	}
	if errors.Is(err, models.ErrBadRequest) {
		return models.ErrBadRequest
	}
	s.logger.Error("view operation failed", slog.String("view_id", id), slog.Any("error", err))
	return models.ErrInternalServer
}
