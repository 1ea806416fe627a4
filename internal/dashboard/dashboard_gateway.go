package dashboard

import (
	"context"
	"fmt"
	"strings"

	dashboarderrors "hris-admin/internal/dashboard/errors"
	"hris-admin/internal/shared/apperror"
	"hris-admin/internal/shared/contextutil"

	"github.com/gabriel-vasile/mimetype"
	"github.com/gin-gonic/gin/binding"
	"go.uber.org/zap"
)

const MaxPhotoSize = 5 << 20

//go:generate mockgen -source=dashboard_gateway.go -destination=mock/backend_mock.go -package=mock
type Backend interface {
	FetchAll(ctx context.Context) ([]EmployeeRecord, error)
	// ToggleLock returns the lock state reported by the backend after the toggle.
	ToggleLock(ctx context.Context, id string) (bool, error)
	SoftDelete(ctx context.Context, id string) error
	HardDelete(ctx context.Context, id string) error
	Update(ctx context.Context, id string, fields UpdateFields, photo *Photo) (EmployeeRecord, error)
}

// ConfirmFunc is the yes/no prompt asked before a lock toggle.
type ConfirmFunc func(ctx context.Context, message string) bool

// Answer returns a ConfirmFunc that always gives the same answer.
func Answer(yes bool) ConfirmFunc {
	return func(context.Context, string) bool { return yes }
}

// LockOutcome describes a finished lock toggle. Applied is false when the
// record left the store while the request was in flight.
type LockOutcome struct {
	ID      string
	Locked  bool
	Applied bool
	Record  EmployeeRecord
}

// Gateway issues remote operations and reconciles their results into the
// Store by record id.
type Gateway struct {
	backend  Backend
	store    *Store
	notifier Notifier
	metrics  *Metrics
	logger   *zap.Logger
}

func NewGateway(backend Backend, store *Store, notifier Notifier, metrics *Metrics, logger ...*zap.Logger) *Gateway {
	l := zap.L().Named("dashboard.gateway")
	if len(logger) > 0 && logger[0] != nil {
		l = logger[0].Named("dashboard.gateway")
	}
	if notifier == nil {
		notifier = MultiNotifier()
	}
	return &Gateway{
		backend:  backend,
		store:    store,
		notifier: notifier,
		metrics:  metrics,
		logger:   l,
	}
}

// FetchAll replaces the store with the backend collection. On failure the
// store is left empty and the error is returned for a manual retry.
func (g *Gateway) FetchAll(ctx context.Context) error {
	log := contextutil.GetLogger(ctx, g.logger)
	g.notifier.Loading(ctx, "Loading employees")

	records, err := g.backend.FetchAll(ctx)
	g.metrics.observe("fetch_all", outcomeOf(err))
	if err != nil {
		g.store.Clear()
		log.Warn("fetch employees failed", zap.Error(err))
		g.notifier.Error(ctx, "Failed to load employees", err)
		return err
	}

	g.store.Load(records)
	log.Debug("fetch employees success", zap.Int("count", len(records)))
	return nil
}

// ToggleLock asks confirm first, then toggles the lock remotely and applies the
// reported state to the record with this id only.
func (g *Gateway) ToggleLock(ctx context.Context, id string, confirm ConfirmFunc) (LockOutcome, error) {
	log := contextutil.GetLogger(ctx, g.logger)

	rec, ok := g.store.Get(id)
	if !ok {
		return LockOutcome{}, dashboarderrors.ErrEmployeeNotFound
	}

	verb := "lock"
	if rec.Locked {
		verb = "unlock"
	}
	if confirm == nil || !confirm(ctx, fmt.Sprintf("Are you sure you want to %s %s?", verb, rec.Label())) {
		g.metrics.observe("toggle_lock", outcomeCancelled)
		log.Debug("toggle lock cancelled", zap.String("employee_id", id))
		return LockOutcome{}, dashboarderrors.ErrActionCancelled
	}

	g.notifier.Loading(ctx, strings.ToUpper(verb[:1])+verb[1:]+"ing "+rec.Label())
	locked, err := g.backend.ToggleLock(ctx, id)
	if err != nil {
		g.metrics.observe("toggle_lock", outcomeOf(err))
		log.Warn("toggle lock failed", zap.String("employee_id", id), zap.Error(err))
		g.notifier.Error(ctx, fmt.Sprintf("Failed to %s %s", verb, rec.Label()), err)
		return LockOutcome{}, err
	}

	out := LockOutcome{ID: id, Locked: locked}
	out.Applied = g.store.Reconcile(id, func(r *EmployeeRecord) {
		r.Locked = locked
		out.Record = r.clone()
	})
	if !out.Applied {
		g.metrics.observe("toggle_lock", outcomeStale)
		log.Info("toggle lock result ignored, employee no longer listed", zap.String("employee_id", id))
	} else {
		g.metrics.observe("toggle_lock", outcomeSuccess)
	}

	state := "unlocked"
	if locked {
		state = "locked"
	}
	g.notifier.Success(ctx, fmt.Sprintf("%s has been %s", rec.Label(), state))
	return out, nil
}

// Delete removes the employee remotely and then from the store. It must only
// be called once the confirmation gate has passed.
func (g *Gateway) Delete(ctx context.Context, id string, permanent bool) error {
	log := contextutil.GetLogger(ctx, g.logger)

	label := id
	if rec, ok := g.store.Get(id); ok {
		label = rec.Label()
	}
	action := "soft_delete"
	if permanent {
		action = "hard_delete"
	}

	g.notifier.Loading(ctx, "Deleting "+label)
	var err error
	if permanent {
		err = g.backend.HardDelete(ctx, id)
	} else {
		err = g.backend.SoftDelete(ctx, id)
	}
	if err != nil {
		g.metrics.observe(action, outcomeOf(err))
		log.Warn("delete employee failed",
			zap.String("employee_id", id),
			zap.Bool("permanent", permanent),
			zap.Error(err),
		)
		g.notifier.Error(ctx, "Failed to delete "+label, err)
		return err
	}

	if g.store.Remove(id) {
		g.metrics.observe(action, outcomeSuccess)
	} else {
		g.metrics.observe(action, outcomeStale)
		log.Info("delete result ignored, employee no longer listed", zap.String("employee_id", id))
	}

	msg := label + " has been deleted"
	if permanent {
		msg = label + " has been permanently deleted"
	}
	g.notifier.Success(ctx, msg)
	return nil
}

// Update validates the form locally and sends it as a multipart update.
// The store is not touched here.
func (g *Gateway) Update(ctx context.Context, id string, fields UpdateFields, photo *Photo) (EmployeeRecord, error) {
	log := contextutil.GetLogger(ctx, g.logger)

	if err := ValidateUpdate(&fields, photo); err != nil {
		g.metrics.observe("update", outcomeValidation)
		log.Debug("update employee validation failed", zap.String("employee_id", id), zap.Error(err))
		g.notifier.Error(ctx, err.Error(), err)
		return EmployeeRecord{}, err
	}

	g.notifier.Loading(ctx, "Saving "+fields.Name)
	rec, err := g.backend.Update(ctx, id, fields, photo)
	g.metrics.observe("update", outcomeOf(err))
	if err != nil {
		log.Warn("update employee failed", zap.String("employee_id", id), zap.Error(err))
		g.notifier.Error(ctx, "Failed to update "+fields.Name, err)
		return EmployeeRecord{}, err
	}

	g.notifier.Success(ctx, rec.Label()+" has been updated")
	return rec, nil
}

// ValidateUpdate checks the form fields and the optional photo. The photo's
// ContentType is replaced by the sniffed type.
func ValidateUpdate(fields *UpdateFields, photo *Photo) error {
	fields.Name = strings.TrimSpace(fields.Name)
	fields.Email = strings.TrimSpace(fields.Email)
	fields.Phone = strings.TrimSpace(fields.Phone)
	fields.EmployeeCode = strings.TrimSpace(fields.EmployeeCode)
	fields.Designation = strings.TrimSpace(fields.Designation)

	if err := binding.Validator.ValidateStruct(fields); err != nil {
		mapped := apperror.MapValidationError(err)
		return dashboarderrors.Validation(mapped.Error(), err)
	}

	if photo == nil {
		return nil
	}
	if len(photo.Content) == 0 {
		return dashboarderrors.Validation("Photo is empty", nil)
	}
	if len(photo.Content) > MaxPhotoSize {
		return dashboarderrors.Validation("Photo must be 5 MB or smaller", nil)
	}
	mt := mimetype.Detect(photo.Content)
	if !strings.HasPrefix(mt.String(), "image/") {
		return dashboarderrors.Validation("Photo must be an image", fmt.Errorf("detected %s", mt.String()))
	}
	photo.ContentType = mt.String()
	return nil
}
