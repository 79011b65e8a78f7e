package service

import (
	"aime-backend/internal/errors"
	"aime-backend/internal/model"
	"aime-backend/internal/repository/interfaces"
	"aime-backend/internal/util"
	"context"
	"strings"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

// CreateDonationInput 新建捐款的参数
type CreateDonationInput struct {
	DonorName     string          `json:"donor_name" binding:"required,max=100"`
	DonorEmail    string          `json:"donor_email" binding:"required,email,max=254"`
	DonorPhone    string          `json:"donor_phone" binding:"max=20"`
	Amount        decimal.Decimal `json:"amount"`
	Currency      string          `json:"currency" binding:"omitempty,len=3"`
	ProjectSlug   string          `json:"project_slug" binding:"max=200"`
	Message       string          `json:"message" binding:"max=1000"`
	IsAnonymous   bool            `json:"is_anonymous"`
	TransactionID string          `json:"transaction_id" binding:"max=100"`
	// Status 仅供内部调用方设置，默认为 pending
	Status string `json:"-"`
}

// DonationService 捐款不发放积分，捐款人的贡献只体现在筹款金额、统计与影响点上
type DonationService struct {
	store interfaces.Store
	sync  *ImpactSynchronizer
}

func NewDonationService(store interfaces.Store, sync *ImpactSynchronizer) *DonationService {
	return &DonationService{
		store: store,
		sync:  sync,
	}
}

// CreateDonation 保存捐款并同步影响点
func (s *DonationService) CreateDonation(ctx context.Context, in CreateDonationInput) (*model.Donation, error) {
	if !in.Amount.IsPositive() {
		return nil, errors.New(errors.ErrValidation, "amount must be greater than zero")
	}

	donation := &model.Donation{
		DonorName:     strings.TrimSpace(in.DonorName),
		DonorEmail:    strings.ToLower(strings.TrimSpace(in.DonorEmail)),
		DonorPhone:    in.DonorPhone,
		Amount:        in.Amount,
		Currency:      strings.ToUpper(in.Currency),
		Message:       in.Message,
		IsAnonymous:   in.IsAnonymous,
		Status:        in.Status,
		TransactionID: in.TransactionID,
	}
	if donation.Currency == "" {
		donation.Currency = model.DefaultCurrency
	}
	if donation.Status == "" {
		donation.Status = model.DonationPending
	}
	if !model.ValidDonationStatus(donation.Status) {
		return nil, errors.New(errors.ErrInvalidStatus, "invalid donation status")
	}
	if donation.TransactionID == "" {
		donation.TransactionID = "DON-" + uuid.NewString()
	}

	err := s.store.WithinTx(ctx, func(tx interfaces.Store) error {
		if in.ProjectSlug != "" {
			project, err := tx.Projects().GetBySlug(ctx, in.ProjectSlug)
			if err != nil {
				return errors.Wrap(errors.ErrDatabase, "failed to load project", err)
			}
			if project == nil {
				return errors.New(errors.ErrResourceNotFound, "project not found")
			}
			donation.ProjectID = &project.ID
		}

		if err := tx.Donations().Create(ctx, donation); err != nil {
			return errors.Wrap(errors.ErrDatabase, "failed to create donation", err)
		}
		if donation.IsCompleted() && donation.ProjectID != nil {
			if err := s.addRaised(ctx, tx, *donation.ProjectID, donation.Amount); err != nil {
				return err
			}
		}
		_, err := s.sync.SyncDonation(ctx, tx, donation)
		return err
	})
	if err != nil {
		util.Logger.Error("创建捐款失败", zap.Error(err), zap.String("donor_email", donation.DonorEmail))
		return nil, err
	}

	util.Logger.Info("捐款已创建",
		zap.Int("donation_id", donation.ID),
		zap.String("amount", donation.Amount.String()),
		zap.String("status", donation.Status))
	return donation, nil
}

// UpdateDonationStatus 更新捐款状态，维护项目筹款金额并同步影响点
func (s *DonationService) UpdateDonationStatus(ctx context.Context, id int, status string) (*model.Donation, error) {
	if !model.ValidDonationStatus(status) {
		return nil, errors.New(errors.ErrInvalidStatus, "invalid donation status")
	}

	var donation *model.Donation
	err := s.store.WithinTx(ctx, func(tx interfaces.Store) error {
		var err error
		donation, err = tx.Donations().GetByID(ctx, id)
		if err != nil {
			return errors.Wrap(errors.ErrDatabase, "failed to load donation", err)
		}
		if donation == nil {
			return errors.New(errors.ErrResourceNotFound, "donation not found")
		}

		wasCompleted := donation.IsCompleted()
		if donation.Status != status {
			if err := tx.Donations().UpdateStatus(ctx, id, status); err != nil {
				return errors.Wrap(errors.ErrDatabase, "failed to update donation status", err)
			}
			donation.Status = status
		}

		if donation.ProjectID != nil {
			switch {
			case !wasCompleted && donation.IsCompleted():
				err = s.addRaised(ctx, tx, *donation.ProjectID, donation.Amount)
			case wasCompleted && !donation.IsCompleted():
				err = s.addRaised(ctx, tx, *donation.ProjectID, donation.Amount.Neg())
			}
			if err != nil {
				return err
			}
		}

		_, err = s.sync.SyncDonation(ctx, tx, donation)
		return err
	})
	if err != nil {
		util.Logger.Error("更新捐款状态失败", zap.Error(err), zap.Int("donation_id", id), zap.String("status", status))
		return nil, err
	}
	return donation, nil
}

func (s *DonationService) addRaised(ctx context.Context, tx interfaces.Store, projectID int, delta decimal.Decimal) error {
	if err := tx.Projects().AddRaisedAmount(ctx, projectID, delta); err != nil {
		return errors.Wrap(errors.ErrDatabase, "failed to update project amount", err)
	}
	return nil
}

func (s *DonationService) ListDonationsByEmail(ctx context.Context, email string) ([]*model.Donation, error) {
	donations, err := s.store.Donations().ListByEmail(ctx, strings.ToLower(strings.TrimSpace(email)))
	if err != nil {
		util.Logger.Error("获取捐款列表失败", zap.Error(err))
		return nil, errors.Wrap(errors.ErrDatabase, "failed to list donations", err)
	}
	return donations, nil
}
