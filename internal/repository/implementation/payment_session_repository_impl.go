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

type PaymentSessionRepositoryImpl struct {
	db     *gorm.DB
	mapper *mapper.PaymentSessionMapper
}

func NewPaymentSessionRepository(db *gorm.DB) contract.PaymentSessionRepository {
	return &PaymentSessionRepositoryImpl{
		db:     db,
		mapper: mapper.NewPaymentSessionMapper(),
	}
}

func (r *PaymentSessionRepositoryImpl) applySpecifications(db *gorm.DB, specs ...specification.Specification) *gorm.DB {
	for _, spec := range specs {
		db = spec.Apply(db)
	}
	return db
}

func (r *PaymentSessionRepositoryImpl) Create(ctx context.Context, session *entity.PaymentSession) error {
	m := r.mapper.ToModel(session)
	if err := r.db.WithContext(ctx).Create(m).Error; err != nil {
		return err
	}
	*session = *r.mapper.ToEntity(m)
	return nil
}

func (r *PaymentSessionRepositoryImpl) Update(ctx context.Context, session *entity.PaymentSession) error {
	m := r.mapper.ToModel(session)
	if err := r.db.WithContext(ctx).Save(m).Error; err != nil {
		return err
	}
	*session = *r.mapper.ToEntity(m)
	return nil
}

// UpdateStatus moves a session from one status to another only if it is still
// in the expected status. Returns false when another writer got there first.
func (r *PaymentSessionRepositoryImpl) UpdateStatus(ctx context.Context, id uuid.UUID, from, to entity.PaymentSessionStatus) (bool, error) {
	res := r.db.WithContext(ctx).Model(&model.PaymentSession{}).
		Where("id = ? AND status = ?", id, string(from)).
		Update("status", string(to))
	if res.Error != nil {
		return false, res.Error
	}
	return res.RowsAffected > 0, nil
}

func (r *PaymentSessionRepositoryImpl) FindOne(ctx context.Context, specs ...specification.Specification) (*entity.PaymentSession, error) {
	var m model.PaymentSession
	query := r.applySpecifications(r.db.WithContext(ctx), specs...)
	if err := query.First(&m).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return r.mapper.ToEntity(&m), nil
}

func (r *PaymentSessionRepositoryImpl) FindAll(ctx context.Context, specs ...specification.Specification) ([]*entity.PaymentSession, error) {
	var models []*model.PaymentSession
	query := r.applySpecifications(r.db.WithContext(ctx), specs...)
	if err := query.Find(&models).Error; err != nil {
		return nil, err
	}
	entities := make([]*entity.PaymentSession, len(models))
	for i, m := range models {
		entities[i] = r.mapper.ToEntity(m)
	}
	return entities, nil
}
