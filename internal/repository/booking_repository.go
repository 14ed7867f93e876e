package repository

import (
	"context"
	"errors"
	"time"

	"github.com/WIN24-GruppProjekt/BookingService/internal/domain"
	bookingDomain "github.com/WIN24-GruppProjekt/BookingService/internal/domain/booking"
	"gorm.io/gorm"
)

// BookingModel is the GORM model for the bookings table.
type BookingModel struct {
	ID      string `gorm:"primaryKey;size:36"`
	UserID  string `gorm:"not null;size:64;index;uniqueIndex:idx_bookings_user_event"`
	EventID string `gorm:"not null;size:64;index;uniqueIndex:idx_bookings_user_event"`

	CreatedAt time.Time `gorm:"not null"`

	// Legacy column, written as NULL on insert and never read back.
	ActiveParticipants *int
}

// TableName returns the table name for the GORM model.
func (BookingModel) TableName() string {
	return "bookings"
}

// GormBookingRepository is the GORM-based implementation of
// booking.Repository, a thin type binding over the generic base.
type GormBookingRepository struct {
	base *BaseRepository[BookingModel]
}

// NewGormBookingRepository creates a new GormBookingRepository.
func NewGormBookingRepository(db *gorm.DB) *GormBookingRepository {
	return &GormBookingRepository{base: NewBaseRepository[BookingModel](db)}
}

// Add inserts one booking record.
func (r *GormBookingRepository) Add(ctx context.Context, b *bookingDomain.Booking) error {
	return r.base.Add(ctx, toModel(b))
}

// Exists reports whether at least one booking matches the filter.
func (r *GormBookingRepository) Exists(ctx context.Context, f bookingDomain.Filter) (bool, error) {
	return r.base.Exists(ctx, conditions(f)...)
}

// Count returns the number of bookings matching the filter.
func (r *GormBookingRepository) Count(ctx context.Context, f bookingDomain.Filter) (int64, error) {
	return r.base.Count(ctx, conditions(f)...)
}

// GetAll returns every booking matching the filter.
func (r *GormBookingRepository) GetAll(ctx context.Context, f bookingDomain.Filter) ([]bookingDomain.Booking, error) {
	models, err := r.base.GetAll(ctx, conditions(f)...)
	if err != nil {
		return nil, err
	}
	bookings := make([]bookingDomain.Booking, len(models))
	for i, m := range models {
		bookings[i] = *toDomain(&m)
	}
	return bookings, nil
}

// Get returns the single booking matching the filter.
func (r *GormBookingRepository) Get(ctx context.Context, f bookingDomain.Filter) (*bookingDomain.Booking, error) {
	model, err := r.base.Get(ctx, conditions(f)...)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.NewNotFoundError("booking", f.ID)
		}
		return nil, err
	}
	return toDomain(model), nil
}

// Delete removes one booking record.
func (r *GormBookingRepository) Delete(ctx context.Context, b *bookingDomain.Booking) error {
	return r.base.Delete(ctx, toModel(b))
}

// DeleteRange removes the given bookings in a single transactional statement.
func (r *GormBookingRepository) DeleteRange(ctx context.Context, bs []bookingDomain.Booking) error {
	models := make([]BookingModel, len(bs))
	for i, b := range bs {
		models[i] = *toModel(&b)
	}
	return r.base.DeleteRange(ctx, models)
}

func conditions(f bookingDomain.Filter) []Condition {
	var conds []Condition
	if f.ID != "" {
		conds = append(conds, Where("id", f.ID))
	}
	if f.UserID != "" {
		conds = append(conds, Where("user_id", f.UserID))
	}
	if f.EventID != "" {
		conds = append(conds, Where("event_id", f.EventID))
	}
	if len(f.EventIDs) > 0 {
		conds = append(conds, WhereIn("event_id", f.EventIDs))
	}
	return conds
}

func toModel(b *bookingDomain.Booking) *BookingModel {
	return &BookingModel{
		ID:                 b.ID,
		UserID:             b.UserID,
		EventID:            b.EventID,
		CreatedAt:          b.CreatedAt,
		ActiveParticipants: b.ActiveParticipants,
	}
}

func toDomain(m *BookingModel) *bookingDomain.Booking {
	return &bookingDomain.Booking{
		ID:                 m.ID,
		UserID:             m.UserID,
		EventID:            m.EventID,
		CreatedAt:          m.CreatedAt,
		ActiveParticipants: m.ActiveParticipants,
	}
}

var _ bookingDomain.Repository = (*GormBookingRepository)(nil)
