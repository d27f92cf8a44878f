package repository

import (
	"context"
	"errors"
	"time"

	"travelmarket/internal/domain"

	"gorm.io/gorm"
)

type SettlementRepository struct {
	db *gorm.DB
}

func NewSettlementRepository(db *gorm.DB) *SettlementRepository {
	return &SettlementRepository{db: db}
}

type settlementModel struct {
	ID            int64     `gorm:"column:id;primaryKey"`
	ReservationID int64     `gorm:"column:reservation_id"`
	VendorID      int64     `gorm:"column:vendor_id"`
	Amount        float64   `gorm:"column:amount"`
	Status        string    `gorm:"column:status"`
	CreatedAt     time.Time `gorm:"column:created_at"`
	UpdatedAt     time.Time `gorm:"column:updated_at"`
}

func (settlementModel) TableName() string { return "settlements" }

func toDomainSettlement(m settlementModel) *domain.Settlement {
	return &domain.Settlement{
		ID:            m.ID,
		ReservationID: m.ReservationID,
		VendorID:      m.VendorID,
		Amount:        m.Amount,
		Status:        domain.SettlementStatus(m.Status),
		CreatedAt:     m.CreatedAt,
		UpdatedAt:     m.UpdatedAt,
	}
}

func (r *SettlementRepository) GetByReservation(ctx context.Context, reservationID int64) (*domain.Settlement, error) {
	var m settlementModel
	err := dbFrom(ctx, r.db).Where("reservation_id = ?", reservationID).First(&m).Error
	if err != nil {
		return nil, err
	}
	return toDomainSettlement(m), nil
}

// MarkUnpaid reconciles the settlement tied to a reservation whose
// payment fell back to unpaid: the payout is flagged and the disputed
// amount recorded. Creates the row when none exists yet.
func (r *SettlementRepository) MarkUnpaid(ctx context.Context, reservationID, vendorID int64, amount float64) error {
	result := dbFrom(ctx, r.db).Model(&settlementModel{}).
		Where("reservation_id = ?", reservationID).
		Updates(map[string]interface{}{
			"status":     string(domain.SettlementUnpaid),
			"amount":     amount,
			"updated_at": time.Now(),
		})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected > 0 {
		return nil
	}

	m := settlementModel{
		ReservationID: reservationID,
		VendorID:      vendorID,
		Amount:        amount,
		Status:        string(domain.SettlementUnpaid),
	}
	if err := dbFrom(ctx, r.db).Create(&m).Error; err != nil {
		// concurrent creation for the same reservation; retry the update
		var existing settlementModel
		if lookupErr := dbFrom(ctx, r.db).Where("reservation_id = ?", reservationID).First(&existing).Error; lookupErr != nil {
			return errors.Join(err, lookupErr)
		}
		return dbFrom(ctx, r.db).Model(&settlementModel{}).
			Where("reservation_id = ?", reservationID).
			Updates(map[string]interface{}{
				"status":     string(domain.SettlementUnpaid),
				"amount":     amount,
				"updated_at": time.Now(),
			}).Error
	}
	return nil
}

// MarkPending opens a payout record when a reservation is paid.
func (r *SettlementRepository) MarkPending(ctx context.Context, reservationID, vendorID int64, amount float64) error {
	_, err := r.GetByReservation(ctx, reservationID)
	if err == nil {
		return dbFrom(ctx, r.db).Model(&settlementModel{}).
			Where("reservation_id = ?", reservationID).
			Updates(map[string]interface{}{
				"status":     string(domain.SettlementPending),
				"amount":     amount,
				"updated_at": time.Now(),
			}).Error
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return err
	}

	m := settlementModel{
		ReservationID: reservationID,
		VendorID:      vendorID,
		Amount:        amount,
		Status:        string(domain.SettlementPending),
	}
	return dbFrom(ctx, r.db).Create(&m).Error
}
