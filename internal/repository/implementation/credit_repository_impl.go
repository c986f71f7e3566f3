package implementation

import (
	"context"
	"errors"

	"ai-imagestudio-be/internal/entity"
	"ai-imagestudio-be/internal/mapper"
	"ai-imagestudio-be/internal/model"
	"ai-imagestudio-be/internal/repository/contract"
	"ai-imagestudio-be/internal/repository/specification"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type CreditRepositoryImpl struct {
	db     *gorm.DB
	mapper *mapper.CreditMapper
}

func NewCreditRepository(db *gorm.DB) contract.CreditRepository {
	return &CreditRepositoryImpl{
		db:     db,
		mapper: mapper.NewCreditMapper(),
	}
}

func (r *CreditRepositoryImpl) applySpecifications(db *gorm.DB, specs ...specification.Specification) *gorm.DB {
	for _, spec := range specs {
		db = spec.Apply(db)
	}
	return db
}

func (r *CreditRepositoryImpl) Create(ctx context.Context, balance *entity.CreditBalance) error {
	m := r.mapper.BalanceToModel(balance)
	if err := r.db.WithContext(ctx).Create(m).Error; err != nil {
		return err
	}
	*balance = *r.mapper.BalanceToEntity(m)
	return nil
}

func (r *CreditRepositoryImpl) FindOne(ctx context.Context, specs ...specification.Specification) (*entity.CreditBalance, error) {
	var m model.CreditBalance
	query := r.applySpecifications(r.db.WithContext(ctx), specs...)
	if err := query.First(&m).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return r.mapper.BalanceToEntity(&m), nil
}

func (r *CreditRepositoryImpl) AddCredits(ctx context.Context, userId uuid.UUID, amount int) error {
	return r.db.WithContext(ctx).Model(&model.CreditBalance{}).
		Where("user_id = ?", userId).
		Updates(map[string]interface{}{
			"credits_remaining": gorm.Expr("credits_remaining + ?", amount),
			"credits_total":     gorm.Expr("credits_total + ?", amount),
		}).Error
}

// DebitOne is the compare-and-set decrement: the WHERE clause carries the
// balance check, so concurrent debits cannot take the same credit twice.
func (r *CreditRepositoryImpl) DebitOne(ctx context.Context, userId uuid.UUID) (bool, error) {
	res := r.db.WithContext(ctx).Model(&model.CreditBalance{}).
		Where("user_id = ? AND credits_remaining >= 1", userId).
		Update("credits_remaining", gorm.Expr("credits_remaining - 1"))
	if res.Error != nil {
		return false, res.Error
	}
	return res.RowsAffected > 0, nil
}

func (r *CreditRepositoryImpl) RemoveCredits(ctx context.Context, userId uuid.UUID, amount int) error {
	return r.db.WithContext(ctx).Model(&model.CreditBalance{}).
		Where("user_id = ?", userId).
		Updates(map[string]interface{}{
			"credits_remaining": gorm.Expr("GREATEST(credits_remaining - ?, 0)", amount),
			"credits_total":     gorm.Expr("GREATEST(credits_total - ?, 0)", amount),
		}).Error
}

type CreditTransactionRepositoryImpl struct {
	db     *gorm.DB
	mapper *mapper.CreditMapper
}

func NewCreditTransactionRepository(db *gorm.DB) contract.CreditTransactionRepository {
	return &CreditTransactionRepositoryImpl{
		db:     db,
		mapper: mapper.NewCreditMapper(),
	}
}

func (r *CreditTransactionRepositoryImpl) Create(ctx context.Context, tx *entity.CreditTransaction) error {
	m := r.mapper.TransactionToModel(tx)
	if err := r.db.WithContext(ctx).Create(m).Error; err != nil {
		return err
	}
	*tx = *r.mapper.TransactionToEntity(m)
	return nil
}

func (r *CreditTransactionRepositoryImpl) FindAll(ctx context.Context, specs ...specification.Specification) ([]*entity.CreditTransaction, error) {
	var models []*model.CreditTransaction
	query := r.db.WithContext(ctx)
	for _, spec := range specs {
		query = spec.Apply(query)
	}
	if err := query.Find(&models).Error; err != nil {
		return nil, err
	}
	entities := make([]*entity.CreditTransaction, len(models))
	for i, m := range models {
		entities[i] = r.mapper.TransactionToEntity(m)
	}
	return entities, nil
}

type PromoCodeUsageRepositoryImpl struct {
	db     *gorm.DB
	mapper *mapper.CreditMapper
}

func NewPromoCodeUsageRepository(db *gorm.DB) contract.PromoCodeUsageRepository {
	return &PromoCodeUsageRepositoryImpl{
		db:     db,
		mapper: mapper.NewCreditMapper(),
	}
}

func (r *PromoCodeUsageRepositoryImpl) Create(ctx context.Context, usage *entity.PromoCodeUsage) error {
	m := r.mapper.UsageToModel(usage)
	if err := r.db.WithContext(ctx).Create(m).Error; err != nil {
		return err
	}
	*usage = *r.mapper.UsageToEntity(m)
	return nil
}

func (r *PromoCodeUsageRepositoryImpl) FindOne(ctx context.Context, specs ...specification.Specification) (*entity.PromoCodeUsage, error) {
	var m model.PromoCodeUsage
	query := r.db.WithContext(ctx)
	for _, spec := range specs {
		query = spec.Apply(query)
	}
	if err := query.First(&m).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return r.mapper.UsageToEntity(&m), nil
}
