package repository

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"travelmarket/internal/domain"

	"gorm.io/gorm"
)

// ErrVersionConflict is returned when a compare-and-swap update loses
// to a concurrent transition on the same reservation.
var ErrVersionConflict = errors.New("reservation version conflict")

type ReservationRepository struct {
	db *gorm.DB
	pg bool
}

// NewReservationRepository creates the repository. pg enables the
// postgres-only overlap guard rows; the sqlite dev path keeps the
// best-effort availability check only.
func NewReservationRepository(db *gorm.DB, pg bool) *ReservationRepository {
	return &ReservationRepository{db: db, pg: pg}
}

type reservationModel struct {
	ID                 int64      `gorm:"column:id;primaryKey"`
	ListingID          int64      `gorm:"column:listing_id"`
	ServiceType        string     `gorm:"column:service_type"`
	UserID             int64      `gorm:"column:user_id"`
	VendorID           int64      `gorm:"column:vendor_id"`
	UnitKeys           string     `gorm:"column:unit_keys"`
	RangeStart         time.Time  `gorm:"column:range_start"`
	RangeEnd           time.Time  `gorm:"column:range_end"`
	TotalPrice         float64    `gorm:"column:total_price"`
	Status             string     `gorm:"column:status"`
	PaymentStatus      string     `gorm:"column:payment_status"`
	CancelledBy        *int64     `gorm:"column:cancelled_by"`
	CancelledByRole    string     `gorm:"column:cancelled_by_role"`
	CancellationReason string     `gorm:"column:cancellation_reason"`
	CancelledAt        *time.Time `gorm:"column:cancelled_at"`
	CompletedAt        *time.Time `gorm:"column:completed_at"`
	Metadata           *string    `gorm:"column:metadata"`
	Version            int64      `gorm:"column:version"`
	CreatedAt          time.Time  `gorm:"column:created_at"`
	UpdatedAt          time.Time  `gorm:"column:updated_at"`
}

func (reservationModel) TableName() string { return "reservations" }

type reservationUnitModel struct {
	ID            int64  `gorm:"column:id;primaryKey"`
	ReservationID int64  `gorm:"column:reservation_id"`
	ListingID     int64  `gorm:"column:listing_id"`
	UnitKey       string `gorm:"column:unit_key"`
	During        string `gorm:"column:during"`
	Active        bool   `gorm:"column:active"`
}

func (reservationUnitModel) TableName() string { return "reservation_units" }

func toDomainReservation(m reservationModel) *domain.Reservation {
	r := &domain.Reservation{
		ID:                 m.ID,
		ListingID:          m.ListingID,
		ServiceType:        domain.ServiceType(m.ServiceType),
		UserID:             m.UserID,
		VendorID:           m.VendorID,
		RangeStart:         m.RangeStart,
		RangeEnd:           m.RangeEnd,
		TotalPrice:         m.TotalPrice,
		Status:             domain.BookingStatus(m.Status),
		PaymentStatus:      domain.PaymentStatus(m.PaymentStatus),
		CancelledBy:        m.CancelledBy,
		CancelledByRole:    domain.Role(m.CancelledByRole),
		CancellationReason: m.CancellationReason,
		CancelledAt:        m.CancelledAt,
		CompletedAt:        m.CompletedAt,
		Version:            m.Version,
		CreatedAt:          m.CreatedAt,
		UpdatedAt:          m.UpdatedAt,
	}
	if m.UnitKeys != "" {
		_ = json.Unmarshal([]byte(m.UnitKeys), &r.UnitKeys)
	}
	if m.Metadata != nil && *m.Metadata != "" {
		_ = json.Unmarshal([]byte(*m.Metadata), &r.Metadata)
	}
	return r
}

func toReservationModel(r *domain.Reservation) reservationModel {
	keys, _ := json.Marshal(r.UnitKeys)
	if r.UnitKeys == nil {
		keys = []byte("[]")
	}

	var meta *string
	if len(r.Metadata) > 0 {
		raw, _ := json.Marshal(r.Metadata)
		s := string(raw)
		meta = &s
	}

	return reservationModel{
		ID:                 r.ID,
		ListingID:          r.ListingID,
		ServiceType:        string(r.ServiceType),
		UserID:             r.UserID,
		VendorID:           r.VendorID,
		UnitKeys:           string(keys),
		RangeStart:         r.RangeStart,
		RangeEnd:           r.RangeEnd,
		TotalPrice:         r.TotalPrice,
		Status:             string(r.Status),
		PaymentStatus:      string(r.PaymentStatus),
		CancelledBy:        r.CancelledBy,
		CancelledByRole:    string(r.CancelledByRole),
		CancellationReason: r.CancellationReason,
		CancelledAt:        r.CancelledAt,
		CompletedAt:        r.CompletedAt,
		Metadata:           meta,
		Version:            r.Version,
		CreatedAt:          r.CreatedAt,
		UpdatedAt:          r.UpdatedAt,
	}
}

// Create inserts the reservation and, on postgres, one guard row per
// consumed unit key. The exclusion constraint on the guard rows
// rejects overlapping claims; callers map that error to a conflict.
func (r *ReservationRepository) Create(ctx context.Context, res *domain.Reservation) error {
	return dbFrom(ctx, r.db).Transaction(func(tx *gorm.DB) error {
		m := toReservationModel(res)
		if err := tx.Create(&m).Error; err != nil {
			return err
		}

		if r.pg {
			for _, key := range res.UnitKeys {
				err := tx.Exec(`
INSERT INTO reservation_units (reservation_id, listing_id, unit_key, during, active)
VALUES (?, ?, ?, tstzrange(?, ?, '[)'), TRUE)
`, m.ID, res.ListingID, key, res.RangeStart, res.RangeEnd).Error
				if err != nil {
					return err
				}
			}
		}

		*res = *toDomainReservation(m)
		return nil
	})
}

func (r *ReservationRepository) GetByID(ctx context.Context, id int64) (*domain.Reservation, error) {
	var m reservationModel
	if err := dbFrom(ctx, r.db).First(&m, id).Error; err != nil {
		return nil, err
	}
	return toDomainReservation(m), nil
}

// ListActiveByListing returns all non-cancelled reservations for a
// listing, the working set of every availability check.
func (r *ReservationRepository) ListActiveByListing(ctx context.Context, listingID int64) ([]domain.Reservation, error) {
	var rows []reservationModel
	err := dbFrom(ctx, r.db).
		Where("listing_id = ? AND status <> ?", listingID, string(domain.BookingCancelled)).
		Order("range_start").
		Find(&rows).Error
	if err != nil {
		return nil, err
	}

	out := make([]domain.Reservation, 0, len(rows))
	for _, m := range rows {
		out = append(out, *toDomainReservation(m))
	}
	return out, nil
}

func (r *ReservationRepository) ListByUser(ctx context.Context, userID int64, limit, offset int) ([]domain.Reservation, error) {
	var rows []reservationModel
	err := dbFrom(ctx, r.db).
		Where("user_id = ?", userID).
		Order("created_at DESC").
		Limit(limit).Offset(offset).
		Find(&rows).Error
	if err != nil {
		return nil, err
	}

	out := make([]domain.Reservation, 0, len(rows))
	for _, m := range rows {
		out = append(out, *toDomainReservation(m))
	}
	return out, nil
}

func (r *ReservationRepository) ListByVendor(ctx context.Context, vendorID int64, limit, offset int) ([]domain.Reservation, error) {
	var rows []reservationModel
	err := dbFrom(ctx, r.db).
		Where("vendor_id = ?", vendorID).
		Order("created_at DESC").
		Limit(limit).Offset(offset).
		Find(&rows).Error
	if err != nil {
		return nil, err
	}

	out := make([]domain.Reservation, 0, len(rows))
	for _, m := range rows {
		out = append(out, *toDomainReservation(m))
	}
	return out, nil
}

// ApplyTransition persists a lifecycle transition with an optimistic
// version check. expectedVersion is the version the transition was
// computed against; a concurrent commit in between fails the update
// with ErrVersionConflict so the terminal stamps of the winner are
// never silently overwritten.
func (r *ReservationRepository) ApplyTransition(ctx context.Context, res *domain.Reservation, expectedVersion int64) error {
	return dbFrom(ctx, r.db).Transaction(func(tx *gorm.DB) error {
		m := toReservationModel(res)

		result := tx.Model(&reservationModel{}).
			Where("id = ? AND version = ?", res.ID, expectedVersion).
			Updates(map[string]interface{}{
				"status":              m.Status,
				"payment_status":      m.PaymentStatus,
				"cancelled_by":        m.CancelledBy,
				"cancelled_by_role":   m.CancelledByRole,
				"cancellation_reason": m.CancellationReason,
				"cancelled_at":        m.CancelledAt,
				"completed_at":        m.CompletedAt,
				"metadata":            m.Metadata,
				"version":             expectedVersion + 1,
				"updated_at":          time.Now(),
			})
		if result.Error != nil {
			return result.Error
		}
		if result.RowsAffected == 0 {
			return ErrVersionConflict
		}

		// Cancelled reservations release their unit keys.
		if res.Status == domain.BookingCancelled && r.pg {
			err := tx.Exec(`UPDATE reservation_units SET active = FALSE WHERE reservation_id = ?`, res.ID).Error
			if err != nil {
				return err
			}
		}

		res.Version = expectedVersion + 1
		return nil
	})
}
