package booking

import (
	"context"
	"testing"
	"time"

	"travelmarket/internal/domain"
	"travelmarket/internal/modules/availability"
	"travelmarket/internal/repository"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"gorm.io/gorm"
)

// Mock repositories

type MockReservationRepository struct {
	mock.Mock
}

func (m *MockReservationRepository) Create(ctx context.Context, r *domain.Reservation) error {
	args := m.Called(ctx, r)
	if r != nil && args.Error(0) == nil {
		r.ID = 999 // simulate DB insert
	}
	return args.Error(0)
}

func (m *MockReservationRepository) GetByID(ctx context.Context, id int64) (*domain.Reservation, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Reservation), args.Error(1)
}

func (m *MockReservationRepository) ListByUser(ctx context.Context, userID int64, limit, offset int) ([]domain.Reservation, error) {
	args := m.Called(ctx, userID, limit, offset)
	return args.Get(0).([]domain.Reservation), args.Error(1)
}

func (m *MockReservationRepository) ListByVendor(ctx context.Context, vendorID int64, limit, offset int) ([]domain.Reservation, error) {
	args := m.Called(ctx, vendorID, limit, offset)
	return args.Get(0).([]domain.Reservation), args.Error(1)
}

func (m *MockReservationRepository) ApplyTransition(ctx context.Context, r *domain.Reservation, expectedVersion int64) error {
	args := m.Called(ctx, r, expectedVersion)
	return args.Error(0)
}

type MockAvailabilityChecker struct {
	mock.Mock
}

func (m *MockAvailabilityChecker) CheckAvailability(ctx context.Context, serviceType domain.ServiceType, listingID int64, start, end *time.Time) (*availability.Result, error) {
	args := m.Called(ctx, serviceType, listingID, start, end)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*availability.Result), args.Error(1)
}

type MockSettlementRepository struct {
	mock.Mock
}

func (m *MockSettlementRepository) MarkUnpaid(ctx context.Context, reservationID, vendorID int64, amount float64) error {
	args := m.Called(ctx, reservationID, vendorID, amount)
	return args.Error(0)
}

func (m *MockSettlementRepository) MarkPending(ctx context.Context, reservationID, vendorID int64, amount float64) error {
	args := m.Called(ctx, reservationID, vendorID, amount)
	return args.Error(0)
}

type MockNotificationSender struct {
	mock.Mock
}

func (m *MockNotificationSender) BookingCreated(ctx context.Context, r *domain.Reservation) error {
	args := m.Called(ctx, r)
	return args.Error(0)
}

func (m *MockNotificationSender) BookingStatusChanged(ctx context.Context, r *domain.Reservation, previous domain.BookingStatus) error {
	args := m.Called(ctx, r, previous)
	return args.Error(0)
}

func (m *MockNotificationSender) BookingCancelledByCustomer(ctx context.Context, r *domain.Reservation, reason string) error {
	args := m.Called(ctx, r, reason)
	return args.Error(0)
}

type stubCatalog struct {
	serviceType domain.ServiceType
	listing     *domain.Listing
	err         error
}

func (s *stubCatalog) Type() domain.ServiceType { return s.serviceType }

func (s *stubCatalog) Listing(ctx context.Context, id int64) (*domain.Listing, error) {
	if s.err != nil {
		return nil, s.err
	}
	return s.listing, nil
}

func stayListing() *domain.Listing {
	return &domain.Listing{
		ID:          10,
		VendorID:    200,
		ServiceType: domain.ServiceStay,
		Title:       "Lakeside Lodge",
		Active:      true,
		Units: []domain.Unit{
			{ID: 1, ListingID: 10, UnitKey: "room-std", Price: 80},
			{ID: 2, ListingID: 10, UnitKey: "room-dlx", Price: 140},
		},
	}
}

func newTestService(reservations ReservationRepository, avail AvailabilityChecker, settlements SettlementRepository, notifs NotificationSender, catalogs ...CatalogSource) *Service {
	return NewService(reservations, avail, settlements, notifs, nil, catalogs...)
}

func TestCreateBooking_Success(t *testing.T) {
	reservations := new(MockReservationRepository)
	avail := new(MockAvailabilityChecker)
	settlements := new(MockSettlementRepository)
	notifs := new(MockNotificationSender)
	catalog := &stubCatalog{serviceType: domain.ServiceStay, listing: stayListing()}

	start := time.Now().Add(48 * time.Hour).Truncate(time.Hour)
	end := start.Add(72 * time.Hour)

	avail.On("CheckAvailability", mock.Anything, domain.ServiceStay, int64(10), &start, &end).Return(&availability.Result{
		IsAvailable:       true,
		AvailableUnitKeys: []string{"room-std", "room-dlx"},
	}, nil)
	reservations.On("Create", mock.Anything, mock.Anything).Return(nil)
	notifs.On("BookingCreated", mock.Anything, mock.Anything).Return(nil)

	service := newTestService(reservations, avail, settlements, notifs, catalog)

	r, err := service.CreateBooking(context.Background(), 100, CreateBookingRequest{
		ServiceType: "stay",
		ListingID:   10,
		UnitKeys:    []string{"room-std"},
		RangeStart:  start,
		RangeEnd:    end,
	})

	assert.NoError(t, err)
	assert.NotNil(t, r)
	assert.Equal(t, int64(200), r.VendorID)
	assert.Equal(t, domain.BookingPending, r.Status)
	assert.Equal(t, domain.PaymentUnpaid, r.PaymentStatus)
	// 3 nights at 80 per day
	assert.Equal(t, 240.0, r.TotalPrice)
	notifs.AssertCalled(t, "BookingCreated", mock.Anything, mock.Anything)
}

func TestCreateBooking_PerOptionPricing(t *testing.T) {
	reservations := new(MockReservationRepository)
	avail := new(MockAvailabilityChecker)
	tourListing := &domain.Listing{
		ID: 11, VendorID: 200, ServiceType: domain.ServiceTour, Active: true,
		Units: []domain.Unit{
			{UnitKey: "seat-std", Price: 45},
			{UnitKey: "seat-vip", Price: 90},
		},
	}
	catalog := &stubCatalog{serviceType: domain.ServiceTour, listing: tourListing}

	start := time.Now().Add(48 * time.Hour)
	end := start.Add(10 * time.Hour)

	avail.On("CheckAvailability", mock.Anything, domain.ServiceTour, int64(11), mock.Anything, mock.Anything).Return(&availability.Result{
		IsAvailable:       true,
		AvailableUnitKeys: []string{"seat-std", "seat-vip"},
	}, nil)
	reservations.On("Create", mock.Anything, mock.Anything).Return(nil)

	service := newTestService(reservations, avail, new(MockSettlementRepository), nil, catalog)

	r, err := service.CreateBooking(context.Background(), 100, CreateBookingRequest{
		ServiceType: "tour",
		ListingID:   11,
		UnitKeys:    []string{"seat-std", "seat-vip"},
		RangeStart:  start,
		RangeEnd:    end,
	})

	assert.NoError(t, err)
	// flat per option, no day multiplier for tours
	assert.Equal(t, 135.0, r.TotalPrice)
}

func TestCreateBooking_Validation(t *testing.T) {
	service := newTestService(new(MockReservationRepository), new(MockAvailabilityChecker), new(MockSettlementRepository), nil,
		&stubCatalog{serviceType: domain.ServiceStay, listing: stayListing()})

	start := time.Now().Add(48 * time.Hour)
	end := start.Add(24 * time.Hour)

	tests := []struct {
		name string
		req  CreateBookingRequest
	}{
		{"unknown service type", CreateBookingRequest{ServiceType: "cruise", ListingID: 10, UnitKeys: []string{"room-std"}, RangeStart: start, RangeEnd: end}},
		{"end before start", CreateBookingRequest{ServiceType: "stay", ListingID: 10, UnitKeys: []string{"room-std"}, RangeStart: end, RangeEnd: start}},
		{"zero-length range", CreateBookingRequest{ServiceType: "stay", ListingID: 10, UnitKeys: []string{"room-std"}, RangeStart: start, RangeEnd: start}},
		{"start in the past", CreateBookingRequest{ServiceType: "stay", ListingID: 10, UnitKeys: []string{"room-std"}, RangeStart: time.Now().Add(-time.Hour), RangeEnd: end}},
		{"unknown unit key", CreateBookingRequest{ServiceType: "stay", ListingID: 10, UnitKeys: []string{"penthouse"}, RangeStart: start, RangeEnd: end}},
		{"duplicate unit keys", CreateBookingRequest{ServiceType: "stay", ListingID: 10, UnitKeys: []string{"room-std", "room-std"}, RangeStart: start, RangeEnd: end}},
		{"no unit keys on a configured listing", CreateBookingRequest{ServiceType: "stay", ListingID: 10, RangeStart: start, RangeEnd: end}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := service.CreateBooking(context.Background(), 100, tt.req)
			assert.ErrorIs(t, err, ErrValidation)
		})
	}
}

func TestCreateBooking_ListingNotFound(t *testing.T) {
	catalog := &stubCatalog{serviceType: domain.ServiceStay, err: gorm.ErrRecordNotFound}
	service := newTestService(new(MockReservationRepository), new(MockAvailabilityChecker), new(MockSettlementRepository), nil, catalog)

	start := time.Now().Add(48 * time.Hour)
	_, err := service.CreateBooking(context.Background(), 100, CreateBookingRequest{
		ServiceType: "stay",
		ListingID:   404,
		UnitKeys:    []string{"room-std"},
		RangeStart:  start,
		RangeEnd:    start.Add(24 * time.Hour),
	})
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestCreateBooking_InactiveListing(t *testing.T) {
	reservations := new(MockReservationRepository)
	listing := stayListing()
	listing.Active = false
	catalog := &stubCatalog{serviceType: domain.ServiceStay, listing: listing}

	service := newTestService(reservations, new(MockAvailabilityChecker), new(MockSettlementRepository), nil, catalog)

	start := time.Now().Add(48 * time.Hour)
	_, err := service.CreateBooking(context.Background(), 100, CreateBookingRequest{
		ServiceType: "stay",
		ListingID:   10,
		UnitKeys:    []string{"room-std"},
		RangeStart:  start,
		RangeEnd:    start.Add(24 * time.Hour),
	})
	assert.ErrorIs(t, err, ErrNotFound)
	reservations.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
}

func TestCreateBooking_UnitTaken(t *testing.T) {
	reservations := new(MockReservationRepository)
	avail := new(MockAvailabilityChecker)
	catalog := &stubCatalog{serviceType: domain.ServiceStay, listing: stayListing()}

	start := time.Now().Add(48 * time.Hour)
	end := start.Add(24 * time.Hour)

	// deluxe is free, standard is taken
	avail.On("CheckAvailability", mock.Anything, domain.ServiceStay, int64(10), mock.Anything, mock.Anything).Return(&availability.Result{
		IsAvailable:       true,
		AvailableUnitKeys: []string{"room-dlx"},
	}, nil)

	service := newTestService(reservations, avail, new(MockSettlementRepository), nil, catalog)

	_, err := service.CreateBooking(context.Background(), 100, CreateBookingRequest{
		ServiceType: "stay",
		ListingID:   10,
		UnitKeys:    []string{"room-std"},
		RangeStart:  start,
		RangeEnd:    end,
	})
	assert.ErrorIs(t, err, ErrNotAvailable)
	reservations.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
}

func TestCreateBooking_ExclusionRace(t *testing.T) {
	reservations := new(MockReservationRepository)
	avail := new(MockAvailabilityChecker)
	catalog := &stubCatalog{serviceType: domain.ServiceStay, listing: stayListing()}

	start := time.Now().Add(48 * time.Hour)
	end := start.Add(24 * time.Hour)

	avail.On("CheckAvailability", mock.Anything, domain.ServiceStay, int64(10), mock.Anything, mock.Anything).Return(&availability.Result{
		IsAvailable:       true,
		AvailableUnitKeys: []string{"room-std", "room-dlx"},
	}, nil)
	// the advisory check passed but the constraint caught the race
	reservations.On("Create", mock.Anything, mock.Anything).Return(&pgconn.PgError{Code: "23P01"})

	service := newTestService(reservations, avail, new(MockSettlementRepository), nil, catalog)

	_, err := service.CreateBooking(context.Background(), 100, CreateBookingRequest{
		ServiceType: "stay",
		ListingID:   10,
		UnitKeys:    []string{"room-std"},
		RangeStart:  start,
		RangeEnd:    end,
	})
	assert.ErrorIs(t, err, ErrOverbooking)
}

func TestUpdateBooking_ConfirmByVendor(t *testing.T) {
	reservations := new(MockReservationRepository)
	notifs := new(MockNotificationSender)

	current := &domain.Reservation{
		ID: 1, ListingID: 10, UserID: 100, VendorID: 200,
		Status: domain.BookingPending, PaymentStatus: domain.PaymentUnpaid, Version: 3,
	}
	reservations.On("GetByID", mock.Anything, int64(1)).Return(current, nil)
	reservations.On("ApplyTransition", mock.Anything, mock.Anything, int64(3)).Return(nil)
	notifs.On("BookingStatusChanged", mock.Anything, mock.Anything, domain.BookingPending).Return(nil)

	service := newTestService(reservations, new(MockAvailabilityChecker), new(MockSettlementRepository), notifs)

	status := "confirmed"
	r, err := service.UpdateBooking(context.Background(), 1, Actor{ID: 200, Role: domain.RoleVendor}, UpdateBookingRequest{Status: &status})

	assert.NoError(t, err)
	assert.Equal(t, domain.BookingConfirmed, r.Status)
	notifs.AssertCalled(t, "BookingStatusChanged", mock.Anything, mock.Anything, domain.BookingPending)
	notifs.AssertNotCalled(t, "BookingCancelledByCustomer", mock.Anything, mock.Anything, mock.Anything)
}

func TestUpdateBooking_CustomerCancelNotifiesVendor(t *testing.T) {
	reservations := new(MockReservationRepository)
	notifs := new(MockNotificationSender)

	current := &domain.Reservation{
		ID: 1, ListingID: 10, UserID: 100, VendorID: 200,
		Status: domain.BookingPending, Version: 0,
	}
	reservations.On("GetByID", mock.Anything, int64(1)).Return(current, nil)
	reservations.On("ApplyTransition", mock.Anything, mock.Anything, int64(0)).Return(nil)
	notifs.On("BookingStatusChanged", mock.Anything, mock.Anything, domain.BookingPending).Return(nil)
	notifs.On("BookingCancelledByCustomer", mock.Anything, mock.Anything, "plans changed").Return(nil)

	service := newTestService(reservations, new(MockAvailabilityChecker), new(MockSettlementRepository), notifs)

	status := "cancelled"
	r, err := service.UpdateBooking(context.Background(), 1, Actor{ID: 100, Role: domain.RoleUser}, UpdateBookingRequest{Status: &status, Reason: "plans changed"})

	assert.NoError(t, err)
	assert.Equal(t, domain.BookingCancelled, r.Status)
	notifs.AssertCalled(t, "BookingCancelledByCustomer", mock.Anything, mock.Anything, "plans changed")
}

func TestUpdateBooking_VersionConflict(t *testing.T) {
	reservations := new(MockReservationRepository)

	current := &domain.Reservation{
		ID: 1, ListingID: 10, UserID: 100, VendorID: 200,
		Status: domain.BookingPending, Version: 5,
	}
	reservations.On("GetByID", mock.Anything, int64(1)).Return(current, nil)
	reservations.On("ApplyTransition", mock.Anything, mock.Anything, int64(5)).Return(repository.ErrVersionConflict)

	service := newTestService(reservations, new(MockAvailabilityChecker), new(MockSettlementRepository), nil)

	status := "confirmed"
	_, err := service.UpdateBooking(context.Background(), 1, Actor{ID: 200, Role: domain.RoleVendor}, UpdateBookingRequest{Status: &status})
	assert.ErrorIs(t, err, ErrConflict)
}

func TestUpdateBooking_PaymentPaidOpensSettlement(t *testing.T) {
	reservations := new(MockReservationRepository)
	settlements := new(MockSettlementRepository)

	current := &domain.Reservation{
		ID: 1, ListingID: 10, UserID: 100, VendorID: 200,
		Status: domain.BookingConfirmed, PaymentStatus: domain.PaymentUnpaid,
		TotalPrice: 240, Version: 1,
	}
	reservations.On("GetByID", mock.Anything, int64(1)).Return(current, nil)
	reservations.On("ApplyTransition", mock.Anything, mock.Anything, int64(1)).Return(nil)
	settlements.On("MarkPending", mock.Anything, int64(1), int64(200), 240.0).Return(nil)

	service := newTestService(reservations, new(MockAvailabilityChecker), settlements, nil)

	payment := "paid"
	r, err := service.UpdateBooking(context.Background(), 1, Actor{ID: 200, Role: domain.RoleVendor}, UpdateBookingRequest{PaymentStatus: &payment})

	assert.NoError(t, err)
	assert.Equal(t, domain.PaymentPaid, r.PaymentStatus)
	settlements.AssertCalled(t, "MarkPending", mock.Anything, int64(1), int64(200), 240.0)
}

func TestUpdateBooking_PaymentUnpaidReconciles(t *testing.T) {
	reservations := new(MockReservationRepository)
	settlements := new(MockSettlementRepository)

	current := &domain.Reservation{
		ID: 1, ListingID: 10, UserID: 100, VendorID: 200,
		Status: domain.BookingConfirmed, PaymentStatus: domain.PaymentPaid,
		TotalPrice: 240, Version: 2,
	}
	reservations.On("GetByID", mock.Anything, int64(1)).Return(current, nil)
	reservations.On("ApplyTransition", mock.Anything, mock.Anything, int64(2)).Return(nil)
	settlements.On("MarkUnpaid", mock.Anything, int64(1), int64(200), 240.0).Return(nil)

	service := newTestService(reservations, new(MockAvailabilityChecker), settlements, nil)

	payment := "unpaid"
	_, err := service.UpdateBooking(context.Background(), 1, Actor{ID: 1, Role: domain.RoleAdmin}, UpdateBookingRequest{PaymentStatus: &payment})

	assert.NoError(t, err)
	settlements.AssertCalled(t, "MarkUnpaid", mock.Anything, int64(1), int64(200), 240.0)
}

func TestUpdateBooking_NoChanges(t *testing.T) {
	reservations := new(MockReservationRepository)
	current := &domain.Reservation{ID: 1, UserID: 100, VendorID: 200, Status: domain.BookingPending}
	reservations.On("GetByID", mock.Anything, int64(1)).Return(current, nil)

	service := newTestService(reservations, new(MockAvailabilityChecker), new(MockSettlementRepository), nil)

	_, err := service.UpdateBooking(context.Background(), 1, Actor{ID: 100, Role: domain.RoleUser}, UpdateBookingRequest{})
	assert.ErrorIs(t, err, ErrNoChanges)
}

func TestUpdateBooking_MetadataOnly(t *testing.T) {
	reservations := new(MockReservationRepository)

	current := &domain.Reservation{
		ID: 1, ListingID: 10, UserID: 100, VendorID: 200,
		Status:   domain.BookingPending,
		Metadata: map[string][]string{"notes": {"early check-in"}},
		Version:  1,
	}
	reservations.On("GetByID", mock.Anything, int64(1)).Return(current, nil)
	reservations.On("ApplyTransition", mock.Anything, mock.Anything, int64(1)).Return(nil)

	service := newTestService(reservations, new(MockAvailabilityChecker), new(MockSettlementRepository), nil)

	r, err := service.UpdateBooking(context.Background(), 1, Actor{ID: 100, Role: domain.RoleUser}, UpdateBookingRequest{
		Metadata: map[string][]string{"requests": {"late checkout"}},
	})

	assert.NoError(t, err)
	assert.Equal(t, domain.BookingPending, r.Status)
	assert.Equal(t, []string{"early check-in"}, r.Metadata["notes"])
	assert.Equal(t, []string{"late checkout"}, r.Metadata["requests"])
}

func TestGetBooking_Access(t *testing.T) {
	reservations := new(MockReservationRepository)
	current := &domain.Reservation{ID: 1, UserID: 100, VendorID: 200, Status: domain.BookingPending}
	reservations.On("GetByID", mock.Anything, int64(1)).Return(current, nil)

	service := newTestService(reservations, new(MockAvailabilityChecker), new(MockSettlementRepository), nil)

	tests := []struct {
		name    string
		actor   Actor
		wantErr error
	}{
		{"customer sees own booking", Actor{ID: 100, Role: domain.RoleUser}, nil},
		{"vendor sees own listing's booking", Actor{ID: 200, Role: domain.RoleVendor}, nil},
		{"admin sees everything", Actor{ID: 1, Role: domain.RoleAdmin}, nil},
		{"stranger is forbidden", Actor{ID: 777, Role: domain.RoleUser}, ErrForbidden},
		{"foreign vendor is forbidden", Actor{ID: 999, Role: domain.RoleVendor}, ErrForbidden},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := service.GetBooking(context.Background(), 1, tt.actor)
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}
