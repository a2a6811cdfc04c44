package repositories

import (
	"context"
	"encoding/json"
	"errors"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"tripweaver/internal/models/db_models"
	"tripweaver/internal/models/response_models"
)

type PlanRepository interface {
	SavePlan(ctx context.Context, accountID uuid.UUID, plan *response_models.TravelPlan) (uuid.UUID, error)
	ListPlansByAccount(ctx context.Context, accountID string, page int, pageSize int) ([]db_models.TravelPlanRecord, error)
	GetPlanByID(ctx context.Context, planID string) (*db_models.TravelPlanRecord, error)
}

type planRepository struct {
	db *gorm.DB
}

func NewPlanRepository(db *gorm.DB) PlanRepository {
	return &planRepository{db: db}
}

func (r *planRepository) SavePlan(ctx context.Context, accountID uuid.UUID, plan *response_models.TravelPlan) (uuid.UUID, error) {
	itinerary, err := json.Marshal(plan.Itinerary)
	if err != nil {
		return uuid.Nil, err
	}
	preferences, err := json.Marshal(plan.Preferences)
	if err != nil {
		return uuid.Nil, err
	}
	summary, err := json.Marshal(plan.Summary)
	if err != nil {
		return uuid.Nil, err
	}

	record := db_models.TravelPlanRecord{
		AccountID:   accountID,
		Title:       plan.Title,
		Destination: plan.Destination,
		StartDate:   plan.StartDate,
		EndDate:     plan.EndDate,
		Budget:      plan.Budget,
		Preferences: preferences,
		Itinerary:   itinerary,
		Summary:     summary,
	}

	if err := r.db.WithContext(ctx).Create(&record).Error; err != nil {
		return uuid.Nil, err
	}
	return record.ID, nil
}

func (r *planRepository) ListPlansByAccount(ctx context.Context, accountID string, page int, pageSize int) ([]db_models.TravelPlanRecord, error) {
	var records []db_models.TravelPlanRecord
	err := r.db.WithContext(ctx).
		Where("account_id = ?", accountID).
		Order("created_at DESC").
		Offset((page - 1) * pageSize).
		Limit(pageSize).
		Find(&records).Error
	if err != nil {
		return nil, err
	}
	return records, nil
}

func (r *planRepository) GetPlanByID(ctx context.Context, planID string) (*db_models.TravelPlanRecord, error) {
	var record db_models.TravelPlanRecord
	err := r.db.WithContext(ctx).
		Where("id = ?", planID).
		First(&record).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &record, nil
}
