package service

import (
	"aime-backend/internal/errors"
	"aime-backend/internal/model"
	"aime-backend/internal/repository/interfaces"
	"aime-backend/internal/util"
	"context"
	"strings"
	"time"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

// CreateContributionInput 登记员工缴费的参数
type CreateContributionInput struct {
	StaffID int             `json:"staff_id" binding:"required,gt=0"`
	Amount  decimal.Decimal `json:"amount"`
	Month   string          `json:"month" binding:"required,month_label"`
	Object  string          `json:"object" binding:"max=200"`
}

type ContributionService struct {
	store interfaces.Store
	sync  *ImpactSynchronizer
	now   func() time.Time
}

func NewContributionService(store interfaces.Store, sync *ImpactSynchronizer) *ContributionService {
	return &ContributionService{
		store: store,
		sync:  sync,
		now:   time.Now,
	}
}

// CreateContribution 登记一笔未入账的缴费
func (s *ContributionService) CreateContribution(ctx context.Context, in CreateContributionInput) (*model.StaffContribution, error) {
	if !in.Amount.IsPositive() {
		return nil, errors.New(errors.ErrValidation, "amount must be greater than zero")
	}
	month := strings.TrimSpace(in.Month)
	if month == "" {
		return nil, errors.New(errors.ErrValidation, "month is required")
	}

	contribution := &model.StaffContribution{
		StaffID: in.StaffID,
		Amount:  in.Amount,
		Month:   month,
		Object:  strings.TrimSpace(in.Object),
	}

	err := s.store.WithinTx(ctx, func(tx interfaces.Store) error {
		staff, err := tx.Profiles().GetByUserID(ctx, in.StaffID)
		if err != nil {
			return errors.Wrap(errors.ErrDatabase, "failed to load staff profile", err)
		}
		if staff == nil {
			return errors.New(errors.ErrResourceNotFound, "staff member not found")
		}
		if err := tx.Contributions().Create(ctx, contribution); err != nil {
			return errors.Wrap(errors.ErrDatabase, "failed to create contribution", err)
		}
		contribution.StaffName = staff.DisplayName()

		// 未入账的缴费不会产生影响点
		_, err = s.sync.SyncContribution(ctx, tx, contribution)
		return err
	})
	if err != nil {
		util.Logger.Error("登记员工缴费失败", zap.Error(err), zap.Int("staff_id", in.StaffID))
		return nil, err
	}
	return contribution, nil
}

// ValidateContribution 验证缴费：标记入账、记录验证人，同步影响点并发送通知。
// 重复验证保留首次的验证时间。
func (s *ContributionService) ValidateContribution(ctx context.Context, id, validatorID int) (*model.StaffContribution, error) {
	var contribution *model.StaffContribution
	err := s.store.WithinTx(ctx, func(tx interfaces.Store) error {
		existing, err := tx.Contributions().GetByID(ctx, id)
		if err != nil {
			return errors.Wrap(errors.ErrDatabase, "failed to load contribution", err)
		}
		if existing == nil {
			return errors.New(errors.ErrResourceNotFound, "contribution not found")
		}

		if err := tx.Contributions().MarkRecorded(ctx, id, s.now(), validatorID); err != nil {
			return errors.Wrap(errors.ErrDatabase, "failed to validate contribution", err)
		}
		contribution, err = tx.Contributions().GetByID(ctx, id)
		if err != nil {
			return errors.Wrap(errors.ErrDatabase, "failed to load contribution", err)
		}

		_, err = s.sync.SyncContribution(ctx, tx, contribution)
		return err
	})
	if err != nil {
		util.Logger.Error("验证员工缴费失败", zap.Error(err), zap.Int("contribution_id", id), zap.Int("validator_id", validatorID))
		return nil, err
	}

	util.Logger.Info("员工缴费已验证", zap.Int("contribution_id", id), zap.Int("validator_id", validatorID))
	return contribution, nil
}

// ListContributions staffID 为 0 时返回全部缴费
func (s *ContributionService) ListContributions(ctx context.Context, staffID int) ([]*model.StaffContribution, error) {
	contributions, err := s.store.Contributions().List(ctx, staffID)
	if err != nil {
		util.Logger.Error("获取员工缴费列表失败", zap.Error(err))
		return nil, errors.Wrap(errors.ErrDatabase, "failed to list contributions", err)
	}
	return contributions, nil
}
