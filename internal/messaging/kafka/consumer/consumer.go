package consumer

import (
	"context"
	"encoding/json"
	"fmt"

	"hris-admin/internal/dashboard"
	"hris-admin/internal/events"

	kafkago "github.com/segmentio/kafka-go"
	"go.uber.org/zap"
)

// MessageReader dipenuhi oleh *kafkago.Reader.
type MessageReader interface {
	FetchMessage(ctx context.Context) (kafkago.Message, error)
	CommitMessages(ctx context.Context, msgs ...kafkago.Message) error
}

// SessionSet adalah kumpulan session dashboard yang sedang hidup.
type SessionSet interface {
	Each(fn func(s *dashboard.Session))
}

// ConsumeDirectoryEvents menerapkan perubahan yang dibuat di tempat lain ke
// semua session dashboard. Semua rekonsiliasi berdasarkan id karyawan.
func ConsumeDirectoryEvents(
	ctx context.Context,
	reader MessageReader,
	sessions SessionSet,
	logger *zap.Logger,
) {
	if logger == nil {
		logger = zap.L()
	}
	log := logger.Named("kafka.consumer.directory")
	log.Info("directory consumer started")

	for {
		msg, err := reader.FetchMessage(ctx)
		if err != nil {
			if ctx.Err() != nil {
				log.Info("directory consumer stopped")
				return
			}
			log.Error("fetch directory message failed", zap.Error(err))
			continue
		}

		event, err := HandleDirectoryEvent(msg.Value, sessions)
		if err != nil {
			// Pesan rusak tidak akan pernah bisa diproses, jadi tetap di-commit.
			log.Error("decode directory event failed",
				zap.Int64("offset", msg.Offset),
				zap.Error(err),
			)
		} else {
			log.Debug("directory event applied",
				zap.String("event_type", event.EventType),
				zap.String("employee_id", event.EmployeeID),
				zap.String("request_id", event.RequestID),
			)
		}

		if err := reader.CommitMessages(ctx, msg); err != nil {
			log.Error("commit directory message failed", zap.Error(err))
		}
	}
}

// HandleDirectoryEvent decodes one event and applies it to every session.
// Unknown event types are ignored.
func HandleDirectoryEvent(payload []byte, sessions SessionSet) (events.DirectoryEvent, error) {
	var event events.DirectoryEvent
	if err := json.Unmarshal(payload, &event); err != nil {
		return event, err
	}
	if event.EmployeeID == "" {
		return event, fmt.Errorf("event %q without employee_id", event.EventType)
	}

	switch event.EventType {
	case events.EmployeeLockToggled:
		if event.Locked == nil {
			return event, fmt.Errorf("lock event for %s without locked flag", event.EmployeeID)
		}
		sessions.Each(func(s *dashboard.Session) {
			s.ApplyRemoteLock(event.EmployeeID, *event.Locked)
		})
	case events.EmployeeDeleted:
		sessions.Each(func(s *dashboard.Session) {
			s.ApplyRemoteRemoval(event.EmployeeID)
		})
	case events.EmployeeUpdated:
		sessions.Each(func(s *dashboard.Session) {
			s.ScheduleRefresh()
		})
	}
	return event, nil
}
