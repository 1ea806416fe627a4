package dashboard

import (
	"context"
	"sync"
	"time"

	dashboarderrors "hris-admin/internal/dashboard/errors"
	"hris-admin/internal/shared/contextutil"

	"github.com/romdo/go-debounce"
	"go.uber.org/zap"
)

const (
	refreshDebounceWait = 300 * time.Millisecond
	refreshMaxWait      = 2 * time.Second
	refreshTimeout      = 15 * time.Second
)

// Session is the dashboard state of one signed-in admin: the record store,
// the menu/modal controller and the gateway that mutates both.
type Session struct {
	ID        string
	store     *Store
	selection *Selection
	gateway   *Gateway
	toasts    *ToastQueue
	logger    *zap.Logger

	mu          sync.Mutex
	token       string
	refresh     func()
	stopRefresh func()
}

type SessionDeps struct {
	Backend  Backend
	Gate     *Gate
	Metrics  *Metrics
	Notifier Notifier
	Logger   *zap.Logger
}

func NewSession(id string, deps SessionDeps) *Session {
	logger := deps.Logger
	if logger == nil {
		logger = zap.L()
	}
	logger = logger.Named("dashboard.session").With(zap.String("session_id", id))

	store := NewStore()
	toasts := NewToastQueue(20)
	s := &Session{
		ID:        id,
		store:     store,
		selection: NewSelection(deps.Gate),
		toasts:    toasts,
		logger:    logger,
	}
	s.gateway = NewGateway(deps.Backend, store, MultiNotifier(toasts, deps.Notifier), deps.Metrics, logger)

	// Coalesce bursts of remote change events into one refetch.
	s.refresh, s.stopRefresh = debounce.NewWithMaxWait(refreshDebounceWait, refreshMaxWait, s.refetch)
	return s
}

func (s *Session) Store() *Store         { return s.store }
func (s *Session) Selection() *Selection { return s.selection }
func (s *Session) Gateway() *Gateway     { return s.gateway }
func (s *Session) Toasts() *ToastQueue   { return s.toasts }

// Touch remembers the caller's bearer token for background refetches.
func (s *Session) Touch(ctx context.Context) {
	token := contextutil.GetAccessToken(ctx)
	if token == "" {
		return
	}
	s.mu.Lock()
	s.token = token
	s.mu.Unlock()
}

// List applies the criteria and returns the view, loading the collection
// first when it has never been loaded.
func (s *Session) List(ctx context.Context, c FilterCriteria) ([]EmployeeRecord, error) {
	if !s.store.Loaded() {
		if err := s.Refresh(ctx); err != nil {
			return nil, err
		}
	}
	return s.store.ApplyFilter(c), nil
}

// Refresh refetches the whole collection. The controller is closed when its
// target is gone from the new collection.
func (s *Session) Refresh(ctx context.Context) error {
	err := s.gateway.FetchAll(ctx)
	if err == nil {
		s.selection.Prune(func(id string) bool {
			_, ok := s.store.Get(id)
			return ok
		})
	}
	snap := s.selection.Snapshot()
	if snap.State != StateIdle {
		if _, ok := s.store.Get(snap.RowID); !ok {
			s.selection.CloseIfTargets(snap.RowID)
		}
	}
	return err
}

func (s *Session) OpenMenu(id string) (SelectionSnapshot, error) {
	if _, ok := s.store.Get(id); !ok {
		return SelectionSnapshot{}, dashboarderrors.ErrEmployeeNotFound
	}
	s.selection.OpenMenu(id)
	return s.selection.Snapshot(), nil
}

func (s *Session) CloseSelection() SelectionSnapshot {
	s.selection.Close()
	return s.selection.Snapshot()
}

func (s *Session) ToggleLock(ctx context.Context, id string, confirm ConfirmFunc) (LockOutcome, error) {
	// Menu hanya ditutup bila prompt dijawab ya.
	answered := func(ctx context.Context, message string) bool {
		if confirm == nil || !confirm(ctx, message) {
			return false
		}
		s.selection.CloseIfTargets(id)
		return true
	}
	return s.gateway.ToggleLock(ctx, id, answered)
}

func (s *Session) OpenDeleteConfirmation(id string, permanent bool) (PendingDeletion, error) {
	rec, ok := s.store.Get(id)
	if !ok {
		return PendingDeletion{}, dashboarderrors.ErrEmployeeNotFound
	}
	return s.selection.OpenDeleteConfirmation(rec, permanent)
}

func (s *Session) EnterConfirmation(text string) (PendingDeletion, error) {
	return s.selection.Enter(text)
}

// SubmitDeletion runs the pending deletion if the entered text (or text, when
// non-empty) equals the generated phrase. The pending deletion is claimed
// before the remote call, so one phrase authorizes one request.
func (s *Session) SubmitDeletion(ctx context.Context, text *string) (PendingDeletion, error) {
	if text != nil {
		if _, err := s.selection.Enter(*text); err != nil {
			return PendingDeletion{}, err
		}
	}
	pending, err := s.selection.Claim()
	if err != nil {
		return pending, err
	}

	if err := s.gateway.Delete(ctx, pending.RecordID, pending.Permanent); err != nil {
		s.selection.Release(pending)
		return pending, err
	}
	s.selection.CompleteIf(pending)
	return pending, nil
}

// Update sends the form and merges the returned record into the store.
func (s *Session) Update(ctx context.Context, id string, fields UpdateFields, photo *Photo) (EmployeeRecord, error) {
	rec, err := s.gateway.Update(ctx, id, fields, photo)
	if err != nil {
		return EmployeeRecord{}, err
	}
	if !s.store.Reconcile(id, func(r *EmployeeRecord) { *r = rec.clone() }) {
		s.logger.Debug("updated employee not in local list", zap.String("employee_id", id))
	}
	return rec, nil
}

// ApplyRemoteLock applies a lock change made elsewhere. Unknown ids are ignored.
func (s *Session) ApplyRemoteLock(id string, locked bool) bool {
	return s.store.Reconcile(id, func(r *EmployeeRecord) { r.Locked = locked })
}

// ApplyRemoteRemoval drops a record deleted elsewhere and closes its menu or
// confirmation if open.
func (s *Session) ApplyRemoteRemoval(id string) bool {
	removed := s.store.Remove(id)
	s.selection.CloseIfTargets(id)
	s.selection.Forget(id)
	return removed
}

// ScheduleRefresh asks for a debounced refetch using the last seen token.
func (s *Session) ScheduleRefresh() {
	if !s.store.Loaded() {
		return
	}
	s.refresh()
}

func (s *Session) Close() {
	s.stopRefresh()
}

func (s *Session) refetch() {
	s.mu.Lock()
	token := s.token
	s.mu.Unlock()
	if token == "" {
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), refreshTimeout)
	defer cancel()
	ctx = contextutil.WithAccessToken(ctx, token)
	if err := s.Refresh(ctx); err != nil {
		s.logger.Warn("background refresh failed", zap.Error(err))
	}
}
