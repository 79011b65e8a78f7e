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

const defaultNotificationLimit = 20

type NotificationService struct {
	store  interfaces.Store
	mailer Mailer
}

// NewNotificationService mailer 为 nil 时不发送邮件
func NewNotificationService(store interfaces.Store, mailer Mailer) *NotificationService {
	return &NotificationService{
		store:  store,
		mailer: mailer,
	}
}

// Notify 在 tx 中按 (用户, 类型, 标题, 内容) 获取或创建通知，返回是否新建
func (s *NotificationService) Notify(ctx context.Context, tx interfaces.Store, n *model.UserNotification) (bool, error) {
	if n.NotificationType == "" {
		n.NotificationType = model.NotificationInfo
	}

	created, err := tx.Notifications().GetOrCreate(ctx, n)
	if err != nil {
		util.Logger.Error("创建通知失败", zap.Error(err), zap.Int("user_id", n.UserID))
		return false, wrapWriteError("failed to create notification", err)
	}
	if created {
		s.mail(ctx, tx, n)
	}
	return created, nil
}

func (s *NotificationService) mail(ctx context.Context, tx interfaces.Store, n *model.UserNotification) {
	if s.mailer == nil {
		return
	}
	profile, err := tx.Profiles().GetByUserID(ctx, n.UserID)
	if err != nil {
		util.Logger.Warn("获取用户资料失败，跳过邮件通知", zap.Error(err), zap.Int("user_id", n.UserID))
		return
	}
	if profile == nil || !profile.EmailNotifications || profile.Email == "" {
		return
	}
	s.mailer.SendAsync(profile.Email, n.Title, n.Message)
}

// NotifyContributionValidated 通知缴费人；验证人不是缴费人本人时同时通知验证人
func (s *NotificationService) NotifyContributionValidated(ctx context.Context, tx interfaces.Store, c *model.StaffContribution) error {
	object := c.Object
	if object == "" {
		object = "cotisation"
	}
	amount := c.Amount.StringFixed(2)

	_, err := s.Notify(ctx, tx, &model.UserNotification{
		UserID:           c.StaffID,
		Title:            fmt.Sprintf("Contribution enregistrée pour %s", c.Month),
		Message:          fmt.Sprintf("Votre contribution de %s CDF pour '%s' a été enregistrée. Merci !", amount, object),
		NotificationType: model.NotificationSuccess,
	})
	if err != nil {
		return err
	}

	if c.ValidatedBy == nil || *c.ValidatedBy == c.StaffID {
		return nil
	}
	_, err = s.Notify(ctx, tx, &model.UserNotification{
		UserID:           *c.ValidatedBy,
		Title:            "Contribution staff validée",
		Message:          fmt.Sprintf("Vous avez validé la contribution de %s (%s CDF, %s).", c.StaffName, amount, c.Month),
		NotificationType: model.NotificationInfo,
	})
	return err
}

func (s *NotificationService) ListNotifications(ctx context.Context, userID, limit int) ([]*model.UserNotification, error) {
	if limit <= 0 {
		limit = defaultNotificationLimit
	}
	notifications, err := s.store.Notifications().ListByUser(ctx, userID, limit)
	if err != nil {
		util.Logger.Error("获取通知列表失败", zap.Error(err), zap.Int("user_id", userID))
		return nil, errors.Wrap(errors.ErrDatabase, "failed to list notifications", err)
	}
	return notifications, nil
}

func (s *NotificationService) MarkRead(ctx context.Context, id, userID int) error {
	ok, err := s.store.Notifications().MarkRead(ctx, id, userID)
	if err != nil {
		util.Logger.Error("标记通知已读失败", zap.Error(err), zap.Int("notification_id", id))
		return errors.Wrap(errors.ErrDatabase, "failed to mark notification as read", err)
	}
	if !ok {
		return errors.New(errors.ErrResourceNotFound, "notification not found")
	}
	return nil
}
