package directory

import (
	"context"
	"database/sql"
	"encoding/json"
	"time"

	directoryerrors "hris-admin/internal/directory/errors"
	"hris-admin/internal/events"
	"hris-admin/internal/messaging/kafka"
	"hris-admin/internal/shared/contextutil"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
	"golang.org/x/sync/singleflight"
)

const UsersCacheKey = "directory:users"

const usersCacheTTL = 5 * time.Minute

//go:generate mockgen -source=directory_service.go -destination=mock/directory_service_mock.go -package=mock
type Service interface {
	GetAll(ctx context.Context) ([]UserResponse, error)
	ToggleLock(ctx context.Context, id string) (LockResponse, error)
	SoftDelete(ctx context.Context, id string) error
	HardDelete(ctx context.Context, id string) error
	Update(ctx context.Context, id string, req UpdateUserRequest, photo *PhotoUpload) (UserResponse, error)
}

type service struct {
	db     *sql.DB
	repo   Repository
	outbox kafka.OutboxRepository
	rdb    *redis.Client
	photos PhotoStore
	sf     *singleflight.Group
	logger *zap.Logger
}

func NewService(
	db *sql.DB,
	repo Repository,
	outboxRepo kafka.OutboxRepository,
	rdb *redis.Client,
	photos PhotoStore,
	logger ...*zap.Logger,
) Service {
	l := zap.L().Named("directory.service")
	if len(logger) > 0 && logger[0] != nil {
		l = logger[0].Named("directory.service")
	}
	return &service{
		db:     db,
		repo:   repo,
		outbox: outboxRepo,
		rdb:    rdb,
		photos: photos,
		sf:     &singleflight.Group{},
		logger: l,
	}
}

func (s *service) GetAll(ctx context.Context) ([]UserResponse, error) {
	if s.rdb != nil {
		if cached, err := s.rdb.Get(ctx, UsersCacheKey).Result(); err == nil {
			var resp []UserResponse
			if json.Unmarshal([]byte(cached), &resp) == nil {
				return resp, nil
			}
		}
	}

	// Banyak admin membuka dashboard bersamaan setelah event update.
	v, err, _ := s.sf.Do(UsersCacheKey, func() (interface{}, error) {
		empls, err := s.repo.FindAll(ctx)
		if err != nil {
			s.logger.Error("get all users failed", zap.Error(err))
			return nil, mapRepositoryError(err)
		}

		resp := mapToListResponse(empls)
		if s.rdb != nil {
			if jsonData, err := json.Marshal(resp); err == nil {
				s.rdb.Set(ctx, UsersCacheKey, jsonData, usersCacheTTL)
			}
		}
		return resp, nil
	})
	if err != nil {
		return nil, err
	}

	return v.([]UserResponse), nil
}

func (s *service) ToggleLock(ctx context.Context, id string) (LockResponse, error) {
	rid := contextutil.GetRequestID(ctx)
	if _, err := uuid.Parse(id); err != nil {
		return LockResponse{}, directoryerrors.ErrInvalidUserID
	}
	s.logger.Debug("toggle lock requested", zap.String("request_id", rid), zap.String("employee_id", id))

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		s.logger.Error("toggle lock begin tx failed", zap.String("request_id", rid), zap.Error(err))
		return LockResponse{}, err
	}
	defer tx.Rollback()

	qtx := s.repo.WithTx(tx)
	locked, err := qtx.ToggleLocked(ctx, id)
	if err != nil {
		s.logger.Warn("toggle lock persist failed", zap.String("employee_id", id), zap.Error(err))
		return LockResponse{}, mapRepositoryError(err)
	}

	if err := s.queueEvent(ctx, tx, events.DirectoryEvent{
		EventType:  events.EmployeeLockToggled,
		EmployeeID: id,
		Locked:     &locked,
	}); err != nil {
		return LockResponse{}, err
	}

	if err := tx.Commit(); err != nil {
		s.logger.Error("toggle lock commit failed", zap.String("request_id", rid), zap.Error(err))
		return LockResponse{}, err
	}
	s.invalidateCache(ctx)

	s.logger.Info("toggle lock success",
		zap.String("request_id", rid),
		zap.String("employee_id", id),
		zap.Bool("locked", locked),
	)
	return LockResponse{ID: id, IsLocked: locked}, nil
}

func (s *service) SoftDelete(ctx context.Context, id string) error {
	return s.delete(ctx, id, false)
}

func (s *service) HardDelete(ctx context.Context, id string) error {
	return s.delete(ctx, id, true)
}

func (s *service) delete(ctx context.Context, id string, permanent bool) error {
	rid := contextutil.GetRequestID(ctx)
	if _, err := uuid.Parse(id); err != nil {
		return directoryerrors.ErrInvalidUserID
	}
	s.logger.Debug("delete user requested",
		zap.String("request_id", rid),
		zap.String("employee_id", id),
		zap.Bool("permanent", permanent),
	)

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		s.logger.Error("delete user begin tx failed", zap.Error(err))
		return err
	}
	defer tx.Rollback()

	qtx := s.repo.WithTx(tx)
	var photo string
	if permanent {
		empl, err := qtx.FindByID(ctx, id)
		if err != nil {
			return mapRepositoryError(err)
		}
		photo = empl.Photo
		err = qtx.HardDelete(ctx, id)
		if err != nil {
			s.logger.Error("hard delete user failed", zap.Error(err))
			return mapRepositoryError(err)
		}
	} else if err := qtx.SoftDelete(ctx, id); err != nil {
		s.logger.Error("soft delete user failed", zap.Error(err))
		return mapRepositoryError(err)
	}

	if err := s.queueEvent(ctx, tx, events.DirectoryEvent{
		EventType:  events.EmployeeDeleted,
		EmployeeID: id,
		Permanent:  permanent,
	}); err != nil {
		return err
	}

	if err := tx.Commit(); err != nil {
		s.logger.Error("delete user commit failed", zap.Error(err))
		return err
	}
	s.invalidateCache(ctx)

	if photo != "" && s.photos != nil {
		if err := s.photos.Remove(photo); err != nil {
			s.logger.Warn("remove photo failed", zap.String("photo", photo), zap.Error(err))
		}
	}

	s.logger.Info("delete user success",
		zap.String("request_id", rid),
		zap.String("employee_id", id),
		zap.Bool("permanent", permanent),
	)
	return nil
}

func (s *service) Update(
	ctx context.Context,
	id string,
	req UpdateUserRequest,
	photo *PhotoUpload,
) (UserResponse, error) {
	rid := contextutil.GetRequestID(ctx)
	if _, err := uuid.Parse(id); err != nil {
		return UserResponse{}, directoryerrors.ErrInvalidUserID
	}
	s.logger.Debug("update user requested",
		zap.String("request_id", rid),
		zap.String("employee_id", id),
		zap.Bool("with_photo", photo != nil),
	)

	var passwordHash string
	if req.Password != "" {
		hashed, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
		if err != nil {
			return UserResponse{}, err
		}
		passwordHash = string(hashed)
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		s.logger.Error("update user begin tx failed", zap.Error(err))
		return UserResponse{}, err
	}
	defer tx.Rollback()

	qtx := s.repo.WithTx(tx)
	empl, err := qtx.FindByID(ctx, id)
	if err != nil {
		return UserResponse{}, mapRepositoryError(err)
	}

	empl.Name = req.Name
	empl.Email = req.Email
	empl.Phone = req.Phone
	empl.EmployeeCode = req.EmployeeCode
	empl.Designation = req.Designation
	if passwordHash != "" {
		empl.PasswordHash = passwordHash
	}
	oldPhoto := empl.Photo
	var staged *StagedPhoto
	if photo != nil && s.photos != nil {
		sp, err := s.photos.Stage(id, photo.Content)
		if err != nil {
			s.logger.Warn("update user stage photo failed", zap.Error(err))
			return UserResponse{}, err
		}
		staged = &sp
		// Setelah Promote file sementara sudah tidak ada, Discard jadi no-op.
		defer func() {
			if err := s.photos.Discard(sp); err != nil {
				s.logger.Warn("discard staged photo failed", zap.Error(err))
			}
		}()
		empl.Photo = sp.URL
	}

	if err := qtx.Update(ctx, empl); err != nil {
		s.logger.Error("update user persist failed", zap.Error(err))
		return UserResponse{}, mapRepositoryError(err)
	}

	if err := s.queueEvent(ctx, tx, events.DirectoryEvent{
		EventType:  events.EmployeeUpdated,
		EmployeeID: id,
	}); err != nil {
		return UserResponse{}, err
	}

	if err := tx.Commit(); err != nil {
		s.logger.Error("update user commit failed", zap.Error(err))
		return UserResponse{}, err
	}
	s.invalidateCache(ctx)
	if staged != nil {
		s.promotePhoto(*staged, oldPhoto)
	}

	s.logger.Info("update user success", zap.String("request_id", rid), zap.String("employee_id", id))
	return mapToResponse(*empl), nil
}

func (s *service) promotePhoto(staged StagedPhoto, oldPhoto string) {
	if err := s.photos.Promote(staged); err != nil {
		s.logger.Error("promote photo failed", zap.String("photo", staged.URL), zap.Error(err))
		return
	}
	if oldPhoto != "" && oldPhoto != staged.URL {
		if err := s.photos.Remove(oldPhoto); err != nil {
			s.logger.Warn("remove old photo failed", zap.String("photo", oldPhoto), zap.Error(err))
		}
	}
}

// queueEvent menulis event ke outbox dalam transaksi yang sama.
func (s *service) queueEvent(ctx context.Context, tx *sql.Tx, event events.DirectoryEvent) error {
	if s.outbox == nil {
		return nil
	}
	event.RequestID = contextutil.GetRequestID(ctx)
	event.ActorID = contextutil.GetUserID(ctx)
	event.OccurredAt = time.Now().UTC()

	payload, err := json.Marshal(event)
	if err != nil {
		s.logger.Error("marshal event failed", zap.String("request_id", event.RequestID), zap.Error(err))
		return err
	}

	if err := s.outbox.WithTx(tx).Create(ctx, kafka.OutboxEvent{
		ID:            uuid.NewString(),
		RequestID:     event.RequestID,
		AggregateType: "employee",
		AggregateID:   event.EmployeeID,
		EventType:     event.EventType,
		Topic:         events.DirectoryTopic,
		Payload:       payload,
		Status:        kafka.OutboxStatusPending,
	}); err != nil {
		s.logger.Error("outbox persist failed",
			zap.String("employee_id", event.EmployeeID),
			zap.String("event_type", event.EventType),
			zap.Error(err),
		)
		return err
	}
	return nil
}

func (s *service) invalidateCache(ctx context.Context) {
	if s.rdb == nil {
		return
	}
	if err := s.rdb.Del(ctx, UsersCacheKey).Err(); err != nil {
		s.logger.Error("failed to invalidate users cache",
			zap.Error(err),
			zap.String("key", UsersCacheKey),
		)
	}
}

func mapToResponse(empl Employee) UserResponse {
	projects := make([]ProjectResponse, 0, len(empl.Projects))
	for _, p := range empl.Projects {
		projects = append(projects, ProjectResponse{
			ID:     p.ID.String(),
			Name:   p.Name,
			Status: p.Status,
		})
	}
	return UserResponse{
		ID:           empl.ID.String(),
		Name:         empl.Name,
		Email:        empl.Email,
		Phone:        empl.Phone,
		EmployeeCode: empl.EmployeeCode,
		Designation:  empl.Designation,
		Photo:        empl.Photo,
		IsActive:     empl.IsActive,
		IsLocked:     empl.IsLocked,
		Projects:     projects,
	}
}

func mapToListResponse(empls []Employee) []UserResponse {
	resp := make([]UserResponse, 0, len(empls))
	for _, e := range empls {
		resp = append(resp, mapToResponse(e))
	}
	return resp
}
