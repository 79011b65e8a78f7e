package service

import (
	"aime-backend/internal/errors"
	"aime-backend/internal/model"
	"aime-backend/internal/repository/interfaces"
	"aime-backend/internal/util"
	"context"
	"fmt"

	"go.uber.org/zap"
)

const eventRegistrationPoints = 50

type ParticipationService struct {
	store         interfaces.Store
	sync          *ImpactSynchronizer
	profiles      *ProfileService
	notifications *NotificationService
}

func NewParticipationService(
	store interfaces.Store,
	sync *ImpactSynchronizer,
	profiles *ProfileService,
	notifications *NotificationService,
) *ParticipationService {
	return &ParticipationService{
		store:         store,
		sync:          sync,
		profiles:      profiles,
		notifications: notifications,
	}
}

// JoinEvent 报名参加活动。重复报名返回已有记录且 created 为 false。
func (s *ParticipationService) JoinEvent(ctx context.Context, userID, eventID int) (*model.EventParticipation, bool, error) {
	participation := &model.EventParticipation{
		UserID:  userID,
		EventID: eventID,
		Status:  model.ParticipationRegistered,
	}
	var created bool

	err := s.store.WithinTx(ctx, func(tx interfaces.Store) error {
		event, err := tx.Events().GetByID(ctx, eventID)
		if err != nil {
			return errors.Wrap(errors.ErrDatabase, "failed to load event", err)
		}
		if event == nil {
			return errors.New(errors.ErrResourceNotFound, "event not found")
		}
		if !event.IsActive {
			return errors.New(errors.ErrEventInactive, "event is not active")
		}

		created, err = tx.Participations().GetOrCreate(ctx, participation)
		if err != nil {
			return wrapWriteError("failed to register participation", err)
		}
		if !created {
			return nil
		}

		if _, err := s.profiles.reward(ctx, tx, userID, eventRegistrationPoints); err != nil {
			return err
		}
		if err := s.profiles.recordActivity(ctx, tx, userID, model.ActivityRegistration,
			fmt.Sprintf("Inscription à l'événement: %s", event.Title)); err != nil {
			return err
		}
		_, err = s.notifications.Notify(ctx, tx, &model.UserNotification{
			UserID:           userID,
			Title:            "Inscription confirmée",
			Message:          fmt.Sprintf("Vous êtes inscrit à l'événement \"%s\"", event.Title),
			NotificationType: model.NotificationSuccess,
		})
		if err != nil {
			return err
		}

		_, err = s.sync.SyncParticipation(ctx, tx, participation)
		return err
	})
	if err != nil {
		util.Logger.Error("活动报名失败", zap.Error(err), zap.Int("user_id", userID), zap.Int("event_id", eventID))
		return nil, false, err
	}

	if created {
		util.Logger.Info("活动报名成功", zap.Int("participation_id", participation.ID), zap.Int("event_id", eventID))
	}
	return participation, created, nil
}

// UpdateParticipationStatus 更新报名状态并同步影响点
func (s *ParticipationService) UpdateParticipationStatus(ctx context.Context, id int, status string) (*model.EventParticipation, error) {
	if !model.ValidParticipationStatus(status) {
		return nil, errors.New(errors.ErrInvalidStatus, "invalid participation status")
	}

	var participation *model.EventParticipation
	err := s.store.WithinTx(ctx, func(tx interfaces.Store) error {
		var err error
		participation, err = tx.Participations().GetByID(ctx, id)
		if err != nil {
			return errors.Wrap(errors.ErrDatabase, "failed to load participation", err)
		}
		if participation == nil {
			return errors.New(errors.ErrResourceNotFound, "participation not found")
		}

		if err := tx.Participations().UpdateStatus(ctx, id, status); err != nil {
			return errors.Wrap(errors.ErrDatabase, "failed to update participation status", err)
		}
		participation.Status = status

		_, err = s.sync.SyncParticipation(ctx, tx, participation)
		return err
	})
	if err != nil {
		util.Logger.Error("更新报名状态失败", zap.Error(err), zap.Int("participation_id", id), zap.String("status", status))
		return nil, err
	}
	return participation, nil
}

func (s *ParticipationService) ListUserParticipations(ctx context.Context, userID int) ([]*model.EventParticipation, error) {
	participations, err := s.store.Participations().ListByUser(ctx, userID)
	if err != nil {
		util.Logger.Error("获取报名列表失败", zap.Error(err), zap.Int("user_id", userID))
		return nil, errors.Wrap(errors.ErrDatabase, "failed to list participations", err)
	}
	return participations, nil
}
