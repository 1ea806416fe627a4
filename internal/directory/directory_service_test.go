package directory_test

import (
	"bytes"
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"image"
	"image/png"
	"testing"
	"time"

	"hris-admin/internal/directory"
	directoryerrors "hris-admin/internal/directory/errors"
	directoryMock "hris-admin/internal/directory/mock"
	"hris-admin/internal/events"
	"hris-admin/internal/messaging/kafka"
	kafkaMock "hris-admin/internal/messaging/kafka/mock"
	"hris-admin/internal/shared/contextutil"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/go-redis/redismock/v9"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/spf13/afero"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

type serviceDeps struct {
	db        *sql.DB
	sqlMock   sqlmock.Sqlmock
	service   directory.Service
	repo      *directoryMock.MockRepository
	outbox    *kafkaMock.MockOutboxRepository
	redismock redismock.ClientMock
	fs        afero.Fs
}

func setupServiceTest(t *testing.T) *serviceDeps {
	t.Helper()
	ctrl := gomock.NewController(t)

	db, sqlMock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	rdb, redisMock := redismock.NewClientMock()
	repo := directoryMock.NewMockRepository(ctrl)
	outboxRepo := kafkaMock.NewMockOutboxRepository(ctrl)

	fs := afero.NewMemMapFs()
	photos, err := directory.NewPhotoStore(fs, "uploads")
	require.NoError(t, err)

	return &serviceDeps{
		db:        db,
		sqlMock:   sqlMock,
		service:   directory.NewService(db, repo, outboxRepo, rdb, photos),
		repo:      repo,
		outbox:    outboxRepo,
		redismock: redisMock,
		fs:        fs,
	}
}

func expectTx(t *testing.T, mock sqlmock.Sqlmock, commit bool) {
	t.Helper()
	mock.ExpectBegin()
	if commit {
		mock.ExpectCommit()
	} else {
		mock.ExpectRollback()
	}
}

func pngBytes(t *testing.T) []byte {
	t.Helper()
	var buf bytes.Buffer
	require.NoError(t, png.Encode(&buf, image.NewRGBA(image.Rect(0, 0, 2, 2))))
	return buf.Bytes()
}

// eventMatcher memeriksa payload DirectoryEvent di dalam OutboxEvent.
type eventMatcher struct {
	check func(kafka.OutboxEvent, events.DirectoryEvent) bool
}

func (m eventMatcher) Matches(x any) bool {
	ev, ok := x.(kafka.OutboxEvent)
	if !ok || ev.Topic != events.DirectoryTopic {
		return false
	}
	var payload events.DirectoryEvent
	if err := json.Unmarshal(ev.Payload, &payload); err != nil {
		return false
	}
	return m.check(ev, payload)
}

func (m eventMatcher) String() string { return "directory outbox event" }

func sampleEmployee(id uuid.UUID) *directory.Employee {
	return &directory.Employee{
		ID:           id,
		Name:         "Ann",
		Email:        "ann@x.io",
		EmployeeCode: "E-001",
		Designation:  "Engineer",
		IsActive:     true,
		Projects: []directory.Project{
			{ID: uuid.New(), Name: "Apollo", Status: "active"},
			{ID: uuid.New(), Name: "Legacy", Status: "dropped"},
		},
	}
}

func TestDirectoryService_GetAll(t *testing.T) {
	ctx := context.Background()

	t.Run("cache miss loads from repo and fills cache", func(t *testing.T) {
		deps := setupServiceTest(t)
		empl := sampleEmployee(uuid.New())

		deps.redismock.ExpectGet(directory.UsersCacheKey).RedisNil()
		deps.repo.EXPECT().FindAll(gomock.Any()).Return([]directory.Employee{*empl}, nil)

		users, err := deps.service.GetAll(ctx)
		require.NoError(t, err)
		require.Len(t, users, 1)
		assert.Equal(t, empl.ID.String(), users[0].ID)
		assert.Equal(t, "E-001", users[0].EmployeeCode)
		assert.True(t, users[0].IsActive)
		// Project dropped tetap dikirim, filtering dilakukan client.
		assert.Len(t, users[0].Projects, 2)
	})

	t.Run("cache hit skips repo", func(t *testing.T) {
		deps := setupServiceTest(t)
		cached := []directory.UserResponse{{ID: "u-1", Name: "Bo", Projects: []directory.ProjectResponse{}}}
		raw, _ := json.Marshal(cached)

		deps.redismock.ExpectGet(directory.UsersCacheKey).SetVal(string(raw))

		users, err := deps.service.GetAll(ctx)
		require.NoError(t, err)
		assert.Equal(t, cached, users)
		assert.NoError(t, deps.redismock.ExpectationsWereMet())
	})

	t.Run("repo error", func(t *testing.T) {
		deps := setupServiceTest(t)
		deps.redismock.ExpectGet(directory.UsersCacheKey).RedisNil()
		deps.repo.EXPECT().FindAll(gomock.Any()).Return(nil, errors.New("db down"))

		_, err := deps.service.GetAll(ctx)
		assert.EqualError(t, err, "db down")
	})
}

func TestDirectoryService_ToggleLock(t *testing.T) {
	id := uuid.New()
	ctx := contextutil.WithUserID(contextutil.WithRequestID(context.Background(), "REQ-1"), "admin-1")

	t.Run("success flips and queues event", func(t *testing.T) {
		deps := setupServiceTest(t)

		expectTx(t, deps.sqlMock, true)
		deps.repo.EXPECT().WithTx(gomock.Any()).Return(deps.repo)
		deps.repo.EXPECT().ToggleLocked(gomock.Any(), id.String()).Return(true, nil)
		deps.outbox.EXPECT().WithTx(gomock.Any()).Return(deps.outbox)
		deps.outbox.EXPECT().
			Create(gomock.Any(), eventMatcher{check: func(ev kafka.OutboxEvent, p events.DirectoryEvent) bool {
				return ev.RequestID == "REQ-1" &&
					p.EventType == events.EmployeeLockToggled &&
					p.EmployeeID == id.String() &&
					p.ActorID == "admin-1" &&
					p.Locked != nil && *p.Locked
			}}).
			Return(nil)
		deps.redismock.ExpectDel(directory.UsersCacheKey).SetVal(1)

		resp, err := deps.service.ToggleLock(ctx, id.String())
		require.NoError(t, err)
		assert.Equal(t, directory.LockResponse{ID: id.String(), IsLocked: true}, resp)
		assert.NoError(t, deps.sqlMock.ExpectationsWereMet())
		assert.NoError(t, deps.redismock.ExpectationsWereMet())
	})

	t.Run("invalid id", func(t *testing.T) {
		deps := setupServiceTest(t)
		_, err := deps.service.ToggleLock(ctx, "not-a-uuid")
		assert.ErrorIs(t, err, directoryerrors.ErrInvalidUserID)
	})

	t.Run("not found rolls back", func(t *testing.T) {
		deps := setupServiceTest(t)
		expectTx(t, deps.sqlMock, false)
		deps.repo.EXPECT().WithTx(gomock.Any()).Return(deps.repo)
		deps.repo.EXPECT().ToggleLocked(gomock.Any(), id.String()).Return(false, gorm.ErrRecordNotFound)

		_, err := deps.service.ToggleLock(ctx, id.String())
		assert.ErrorIs(t, err, directoryerrors.ErrUserNotFound)
		assert.NoError(t, deps.sqlMock.ExpectationsWereMet())
	})

	t.Run("outbox failure rolls back without cache invalidation", func(t *testing.T) {
		deps := setupServiceTest(t)
		expectTx(t, deps.sqlMock, false)
		deps.repo.EXPECT().WithTx(gomock.Any()).Return(deps.repo)
		deps.repo.EXPECT().ToggleLocked(gomock.Any(), id.String()).Return(true, nil)
		deps.outbox.EXPECT().WithTx(gomock.Any()).Return(deps.outbox)
		deps.outbox.EXPECT().Create(gomock.Any(), gomock.Any()).Return(errors.New("outbox down"))

		_, err := deps.service.ToggleLock(ctx, id.String())
		assert.EqualError(t, err, "outbox down")
		assert.NoError(t, deps.sqlMock.ExpectationsWereMet())
	})

	t.Run("event carries state returned by the database", func(t *testing.T) {
		deps := setupServiceTest(t)
		expectTx(t, deps.sqlMock, true)
		deps.repo.EXPECT().WithTx(gomock.Any()).Return(deps.repo)
		deps.repo.EXPECT().ToggleLocked(gomock.Any(), id.String()).Return(false, nil)
		deps.outbox.EXPECT().WithTx(gomock.Any()).Return(deps.outbox)
		deps.outbox.EXPECT().
			Create(gomock.Any(), eventMatcher{check: func(_ kafka.OutboxEvent, p events.DirectoryEvent) bool {
				return p.Locked != nil && !*p.Locked
			}}).
			Return(nil)
		deps.redismock.ExpectDel(directory.UsersCacheKey).SetVal(1)

		resp, err := deps.service.ToggleLock(ctx, id.String())
		require.NoError(t, err)
		assert.False(t, resp.IsLocked)
	})
}

func TestDirectoryService_Delete(t *testing.T) {
	id := uuid.New()
	ctx := context.Background()

	t.Run("soft delete", func(t *testing.T) {
		deps := setupServiceTest(t)
		expectTx(t, deps.sqlMock, true)
		deps.repo.EXPECT().WithTx(gomock.Any()).Return(deps.repo)
		deps.repo.EXPECT().SoftDelete(gomock.Any(), id.String()).Return(nil)
		deps.outbox.EXPECT().WithTx(gomock.Any()).Return(deps.outbox)
		deps.outbox.EXPECT().
			Create(gomock.Any(), eventMatcher{check: func(_ kafka.OutboxEvent, p events.DirectoryEvent) bool {
				return p.EventType == events.EmployeeDeleted && !p.Permanent && p.Locked == nil
			}}).
			Return(nil)
		deps.redismock.ExpectDel(directory.UsersCacheKey).SetVal(1)

		require.NoError(t, deps.service.SoftDelete(ctx, id.String()))
		assert.NoError(t, deps.sqlMock.ExpectationsWereMet())
	})

	t.Run("hard delete removes photo", func(t *testing.T) {
		deps := setupServiceTest(t)
		require.NoError(t, afero.WriteFile(deps.fs, "uploads/"+id.String()+".png", pngBytes(t), 0o644))
		empl := sampleEmployee(id)
		empl.Photo = "/photos/" + id.String() + ".png"

		expectTx(t, deps.sqlMock, true)
		deps.repo.EXPECT().WithTx(gomock.Any()).Return(deps.repo)
		deps.repo.EXPECT().FindByID(gomock.Any(), id.String()).Return(empl, nil)
		deps.repo.EXPECT().HardDelete(gomock.Any(), id.String()).Return(nil)
		deps.outbox.EXPECT().WithTx(gomock.Any()).Return(deps.outbox)
		deps.outbox.EXPECT().
			Create(gomock.Any(), eventMatcher{check: func(_ kafka.OutboxEvent, p events.DirectoryEvent) bool {
				return p.EventType == events.EmployeeDeleted && p.Permanent
			}}).
			Return(nil)
		deps.redismock.ExpectDel(directory.UsersCacheKey).SetVal(1)

		require.NoError(t, deps.service.HardDelete(ctx, id.String()))

		exists, err := afero.Exists(deps.fs, "uploads/"+id.String()+".png")
		require.NoError(t, err)
		assert.False(t, exists)
	})

	t.Run("soft delete not found", func(t *testing.T) {
		deps := setupServiceTest(t)
		expectTx(t, deps.sqlMock, false)
		deps.repo.EXPECT().WithTx(gomock.Any()).Return(deps.repo)
		deps.repo.EXPECT().SoftDelete(gomock.Any(), id.String()).Return(gorm.ErrRecordNotFound)

		err := deps.service.SoftDelete(ctx, id.String())
		assert.ErrorIs(t, err, directoryerrors.ErrUserNotFound)
	})
}

func TestDirectoryService_Update(t *testing.T) {
	id := uuid.New()
	ctx := context.Background()
	req := directory.UpdateUserRequest{
		Name:         "Ann B",
		Email:        "annb@x.io",
		Phone:        "0812",
		EmployeeCode: "E-001",
		Designation:  "Lead",
		Password:     "s3cret-pass",
	}

	t.Run("success with photo and password", func(t *testing.T) {
		deps := setupServiceTest(t)

		expectTx(t, deps.sqlMock, true)
		deps.repo.EXPECT().WithTx(gomock.Any()).Return(deps.repo)
		deps.repo.EXPECT().FindByID(gomock.Any(), id.String()).Return(sampleEmployee(id), nil)
		deps.repo.EXPECT().
			Update(gomock.Any(), gomock.Any()).
			DoAndReturn(func(_ context.Context, e *directory.Employee) error {
				assert.Equal(t, "Ann B", e.Name)
				assert.Equal(t, "Lead", e.Designation)
				assert.NoError(t, bcrypt.CompareHashAndPassword([]byte(e.PasswordHash), []byte("s3cret-pass")))
				assert.Equal(t, "/photos/"+id.String()+".png", e.Photo)
				return nil
			})
		deps.outbox.EXPECT().WithTx(gomock.Any()).Return(deps.outbox)
		deps.outbox.EXPECT().
			Create(gomock.Any(), eventMatcher{check: func(_ kafka.OutboxEvent, p events.DirectoryEvent) bool {
				return p.EventType == events.EmployeeUpdated && p.EmployeeID == id.String()
			}}).
			Return(nil)
		deps.redismock.ExpectDel(directory.UsersCacheKey).SetVal(1)

		resp, err := deps.service.Update(ctx, id.String(), req, &directory.PhotoUpload{Filename: "a.png", Content: pngBytes(t)})
		require.NoError(t, err)
		assert.Equal(t, "annb@x.io", resp.Email)
		assert.Equal(t, "/photos/"+id.String()+".png", resp.Photo)

		exists, _ := afero.Exists(deps.fs, "uploads/"+id.String()+".png")
		assert.True(t, exists)
	})

	t.Run("failed update keeps previous photo", func(t *testing.T) {
		deps := setupServiceTest(t)
		finalPath := "uploads/" + id.String() + ".png"
		require.NoError(t, afero.WriteFile(deps.fs, finalPath, []byte("old-photo"), 0o644))
		empl := sampleEmployee(id)
		empl.Photo = "/photos/" + id.String() + ".png"

		expectTx(t, deps.sqlMock, false)
		deps.repo.EXPECT().WithTx(gomock.Any()).Return(deps.repo)
		deps.repo.EXPECT().FindByID(gomock.Any(), id.String()).Return(empl, nil)
		deps.repo.EXPECT().
			Update(gomock.Any(), gomock.Any()).
			Return(&pgconn.PgError{Code: "23505", ConstraintName: "uq_employee_email"})

		noPassword := req
		noPassword.Password = ""
		_, err := deps.service.Update(ctx, id.String(), noPassword, &directory.PhotoUpload{Filename: "b.png", Content: pngBytes(t)})
		require.ErrorIs(t, err, directoryerrors.ErrEmailAlreadyExists)

		content, err := afero.ReadFile(deps.fs, finalPath)
		require.NoError(t, err)
		assert.Equal(t, []byte("old-photo"), content)

		entries, err := afero.ReadDir(deps.fs, "uploads")
		require.NoError(t, err)
		assert.Len(t, entries, 1, "staged file must be cleaned up")
		assert.NoError(t, deps.sqlMock.ExpectationsWereMet())
	})

	t.Run("new extension removes old photo", func(t *testing.T) {
		deps := setupServiceTest(t)
		oldPath := "uploads/" + id.String() + ".jpg"
		require.NoError(t, afero.WriteFile(deps.fs, oldPath, []byte("old-jpeg"), 0o644))
		empl := sampleEmployee(id)
		empl.Photo = "/photos/" + id.String() + ".jpg"

		expectTx(t, deps.sqlMock, true)
		deps.repo.EXPECT().WithTx(gomock.Any()).Return(deps.repo)
		deps.repo.EXPECT().FindByID(gomock.Any(), id.String()).Return(empl, nil)
		deps.repo.EXPECT().Update(gomock.Any(), gomock.Any()).Return(nil)
		deps.outbox.EXPECT().WithTx(gomock.Any()).Return(deps.outbox)
		deps.outbox.EXPECT().Create(gomock.Any(), gomock.Any()).Return(nil)
		deps.redismock.ExpectDel(directory.UsersCacheKey).SetVal(1)

		noPassword := req
		noPassword.Password = ""
		resp, err := deps.service.Update(ctx, id.String(), noPassword, &directory.PhotoUpload{Filename: "b.png", Content: pngBytes(t)})
		require.NoError(t, err)
		assert.Equal(t, "/photos/"+id.String()+".png", resp.Photo)

		oldExists, _ := afero.Exists(deps.fs, oldPath)
		assert.False(t, oldExists)
		content, err := afero.ReadFile(deps.fs, "uploads/"+id.String()+".png")
		require.NoError(t, err)
		assert.Equal(t, pngBytes(t), content)

		entries, err := afero.ReadDir(deps.fs, "uploads")
		require.NoError(t, err)
		assert.Len(t, entries, 1)
	})

	t.Run("empty password keeps hash", func(t *testing.T) {
		deps := setupServiceTest(t)
		empl := sampleEmployee(id)
		empl.PasswordHash = "old-hash"
		noPassword := req
		noPassword.Password = ""

		expectTx(t, deps.sqlMock, true)
		deps.repo.EXPECT().WithTx(gomock.Any()).Return(deps.repo)
		deps.repo.EXPECT().FindByID(gomock.Any(), id.String()).Return(empl, nil)
		deps.repo.EXPECT().
			Update(gomock.Any(), gomock.Any()).
			DoAndReturn(func(_ context.Context, e *directory.Employee) error {
				assert.Equal(t, "old-hash", e.PasswordHash)
				return nil
			})
		deps.outbox.EXPECT().WithTx(gomock.Any()).Return(deps.outbox)
		deps.outbox.EXPECT().Create(gomock.Any(), gomock.Any()).Return(nil)
		deps.redismock.ExpectDel(directory.UsersCacheKey).SetVal(1)

		_, err := deps.service.Update(ctx, id.String(), noPassword, nil)
		assert.NoError(t, err)
	})

	t.Run("non image photo rejected", func(t *testing.T) {
		deps := setupServiceTest(t)
		expectTx(t, deps.sqlMock, false)
		deps.repo.EXPECT().WithTx(gomock.Any()).Return(deps.repo)
		deps.repo.EXPECT().FindByID(gomock.Any(), id.String()).Return(sampleEmployee(id), nil)

		noPassword := req
		noPassword.Password = ""
		_, err := deps.service.Update(ctx, id.String(), noPassword, &directory.PhotoUpload{Filename: "a.png", Content: []byte("plain text")})
		assert.ErrorIs(t, err, directoryerrors.ErrInvalidPhoto)

		entries, _ := afero.ReadDir(deps.fs, "uploads")
		assert.Empty(t, entries)
	})

	t.Run("duplicate email", func(t *testing.T) {
		deps := setupServiceTest(t)
		expectTx(t, deps.sqlMock, false)
		deps.repo.EXPECT().WithTx(gomock.Any()).Return(deps.repo)
		deps.repo.EXPECT().FindByID(gomock.Any(), id.String()).Return(sampleEmployee(id), nil)
		deps.repo.EXPECT().
			Update(gomock.Any(), gomock.Any()).
			Return(&pgconn.PgError{Code: "23505", ConstraintName: "uq_employee_email"})

		noPassword := req
		noPassword.Password = ""
		_, err := deps.service.Update(ctx, id.String(), noPassword, nil)
		assert.ErrorIs(t, err, directoryerrors.ErrEmailAlreadyExists)
		assert.NoError(t, deps.sqlMock.ExpectationsWereMet())
	})
}

func TestDirectoryService_CacheTTL(t *testing.T) {
	deps := setupServiceTest(t)
	empl := sampleEmployee(uuid.New())
	empl.Projects = nil
	raw, _ := json.Marshal([]directory.UserResponse{{
		ID:           empl.ID.String(),
		Name:         empl.Name,
		Email:        empl.Email,
		EmployeeCode: empl.EmployeeCode,
		Designation:  empl.Designation,
		IsActive:     true,
		Projects:     []directory.ProjectResponse{},
	}})

	deps.redismock.ExpectGet(directory.UsersCacheKey).RedisNil()
	deps.repo.EXPECT().FindAll(gomock.Any()).Return([]directory.Employee{*empl}, nil)
	deps.redismock.ExpectSet(directory.UsersCacheKey, raw, 5*time.Minute).SetVal("OK")

	_, err := deps.service.GetAll(context.Background())
	require.NoError(t, err)
	assert.NoError(t, deps.redismock.ExpectationsWereMet())
}
