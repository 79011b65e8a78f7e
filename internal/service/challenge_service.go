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

const (
	challengeRegistrationPoints = 100
	defaultParticipantAge       = 25
)

// ChallengeService Mutoto Bike Challenge 报名
type ChallengeService struct {
	store         interfaces.Store
	profiles      *ProfileService
	notifications *NotificationService
}

func NewChallengeService(store interfaces.Store, profiles *ProfileService, notifications *NotificationService) *ChallengeService {
	return &ChallengeService{
		store:         store,
		profiles:      profiles,
		notifications: notifications,
	}
}

// JoinChallenge 以用户资料报名骑行挑战，同一邮箱只能报名一次。age 为 0 时使用默认值。
func (s *ChallengeService) JoinChallenge(ctx context.Context, userID, challengeID, age int) (*model.MBCParticipant, bool, error) {
	var (
		participant *model.MBCParticipant
		created     bool
	)

	err := s.store.WithinTx(ctx, func(tx interfaces.Store) error {
		profile, err := tx.Profiles().GetByUserID(ctx, userID)
		if err != nil {
			return errors.Wrap(errors.ErrDatabase, "failed to load profile", err)
		}
		if profile == nil {
			return errors.New(errors.ErrResourceNotFound, "profile not found")
		}

		challenge, err := s.activeChallenge(ctx, tx, challengeID)
		if err != nil {
			return err
		}

		participant, err = tx.Challenges().FindParticipant(ctx, challengeID, profile.Email)
		if err != nil {
			return errors.Wrap(errors.ErrDatabase, "failed to load participant", err)
		}
		if participant != nil {
			return nil
		}

		if err := s.checkCapacity(ctx, tx, challenge); err != nil {
			return err
		}

		if age <= 0 {
			age = defaultParticipantAge
		}
		participant = &model.MBCParticipant{
			ChallengeID:      challengeID,
			ParticipantName:  profile.DisplayName(),
			ParticipantEmail: profile.Email,
			ParticipantPhone: profile.Phone,
			Age:              age,
			Status:           model.MBCPending,
		}
		if err := tx.Challenges().CreateParticipant(ctx, participant); err != nil {
			return errors.Wrap(errors.ErrDatabase, "failed to register participant", err)
		}
		created = true

		if _, err := s.profiles.reward(ctx, tx, userID, challengeRegistrationPoints, model.BadgeBikeChallenger); err != nil {
			return err
		}
		if err := s.profiles.recordActivity(ctx, tx, userID, model.ActivityRegistration,
			fmt.Sprintf("Inscription au Mutoto Bike Challenge: %s", challenge.Name)); err != nil {
			return err
		}
		_, err = s.notifications.Notify(ctx, tx, &model.UserNotification{
			UserID:           userID,
			Title:            "Challenge MBC",
			Message:          fmt.Sprintf("Inscription au challenge \"%s\" confirmée!", challenge.Name),
			NotificationType: model.NotificationSuccess,
		})
		return err
	})
	if err != nil {
		util.Logger.Error("骑行挑战报名失败", zap.Error(err), zap.Int("user_id", userID), zap.Int("challenge_id", challengeID))
		return nil, false, err
	}
	return participant, created, nil
}

// UpdateParticipantStatus 更新参与者状态，确认参与时检查名额
func (s *ChallengeService) UpdateParticipantStatus(ctx context.Context, id int, status string) (*model.MBCParticipant, error) {
	if !model.ValidMBCStatus(status) {
		return nil, errors.New(errors.ErrInvalidStatus, "invalid participant status")
	}

	var participant *model.MBCParticipant
	err := s.store.WithinTx(ctx, func(tx interfaces.Store) error {
		var err error
		participant, err = tx.Challenges().GetParticipant(ctx, id)
		if err != nil {
			return errors.Wrap(errors.ErrDatabase, "failed to load participant", err)
		}
		if participant == nil {
			return errors.New(errors.ErrResourceNotFound, "participant not found")
		}

		if status == model.MBCConfirmed && participant.Status != model.MBCConfirmed {
			challenge, err := tx.Challenges().GetByID(ctx, participant.ChallengeID)
			if err != nil {
				return errors.Wrap(errors.ErrDatabase, "failed to load challenge", err)
			}
			if challenge != nil {
				if err := s.checkCapacity(ctx, tx, challenge); err != nil {
					return err
				}
			}
		}

		if err := tx.Challenges().UpdateParticipantStatus(ctx, id, status); err != nil {
			return errors.Wrap(errors.ErrDatabase, "failed to update participant status", err)
		}
		participant.Status = status
		return nil
	})
	if err != nil {
		util.Logger.Error("更新参与者状态失败", zap.Error(err), zap.Int("participant_id", id))
		return nil, err
	}
	return participant, nil
}

func (s *ChallengeService) activeChallenge(ctx context.Context, tx interfaces.Store, id int) (*model.MBCChallenge, error) {
	challenge, err := tx.Challenges().GetByID(ctx, id)
	if err != nil {
		return nil, errors.Wrap(errors.ErrDatabase, "failed to load challenge", err)
	}
	if challenge == nil {
		return nil, errors.New(errors.ErrResourceNotFound, "challenge not found")
	}
	if !challenge.IsActive {
		return nil, errors.New(errors.ErrEventInactive, "challenge is not active")
	}
	return challenge, nil
}

func (s *ChallengeService) checkCapacity(ctx context.Context, tx interfaces.Store, challenge *model.MBCChallenge) error {
	if challenge.MaxParticipants <= 0 {
		return nil
	}
	confirmed, err := tx.Challenges().CountConfirmed(ctx, challenge.ID)
	if err != nil {
		return errors.Wrap(errors.ErrDatabase, "failed to count participants", err)
	}
	if confirmed >= challenge.MaxParticipants {
		return errors.New(errors.ErrChallengeFull, "challenge is full")
	}
	return nil
}
