package coupon

import (
	"context"
	"testing"
	"time"

	"travelmarket/internal/domain"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"gorm.io/gorm"
)

type MockCouponRepository struct {
	mock.Mock
}

func (m *MockCouponRepository) GetByCode(ctx context.Context, code string) (*domain.Coupon, error) {
	args := m.Called(ctx, code)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Coupon), args.Error(1)
}

func (m *MockCouponRepository) Create(ctx context.Context, c *domain.Coupon) error {
	args := m.Called(ctx, c)
	if c != nil && args.Error(0) == nil {
		c.ID = 999 // simulate DB insert
	}
	return args.Error(0)
}

// Preview quotes against the wall clock, so its fixtures get a window
// around time.Now() instead of the fixed quoteNow.
func currentCoupon() *domain.Coupon {
	now := time.Now()
	c := activeCoupon()
	c.StartDate = now.AddDate(0, 0, -1)
	c.ExpiryDate = now.AddDate(0, 1, 0)
	return c
}

func TestPreview_Valid(t *testing.T) {
	repo := new(MockCouponRepository)
	repo.On("GetByCode", mock.Anything, "WELCOME10").Return(currentCoupon(), nil)

	service := NewService(repo)

	resp, err := service.Preview(context.Background(), "WELCOME10", 200)
	assert.NoError(t, err)
	assert.True(t, resp.Valid)
	assert.Equal(t, 20.0, resp.DiscountAmount)
}

func TestPreview_InapplicableStillResponds(t *testing.T) {
	c := currentCoupon()
	c.IsActive = false

	repo := new(MockCouponRepository)
	repo.On("GetByCode", mock.Anything, "WELCOME10").Return(c, nil)

	service := NewService(repo)

	// a known but inapplicable coupon is reported, not an error
	resp, err := service.Preview(context.Background(), "WELCOME10", 200)
	assert.NoError(t, err)
	assert.False(t, resp.Valid)
	assert.Equal(t, 0.0, resp.DiscountAmount)
}

func TestPreview_UnknownCode(t *testing.T) {
	repo := new(MockCouponRepository)
	repo.On("GetByCode", mock.Anything, "NOPE").Return(nil, gorm.ErrRecordNotFound)

	service := NewService(repo)

	_, err := service.Preview(context.Background(), "NOPE", 200)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestPreview_Validation(t *testing.T) {
	service := NewService(new(MockCouponRepository))

	_, err := service.Preview(context.Background(), "", 200)
	assert.ErrorIs(t, err, ErrValidation)

	_, err = service.Preview(context.Background(), "WELCOME10", 0)
	assert.ErrorIs(t, err, ErrValidation)
}

func TestCreateCoupon_Success(t *testing.T) {
	repo := new(MockCouponRepository)
	repo.On("Create", mock.Anything, mock.Anything).Return(nil)

	service := NewService(repo)

	c, err := service.CreateCoupon(context.Background(), CreateCouponRequest{
		Code:           "  summer20 ",
		DiscountType:   "percentage",
		DiscountAmount: 20,
		StartDate:      quoteNow,
		ExpiryDate:     quoteNow.AddDate(0, 3, 0),
	})

	assert.NoError(t, err)
	assert.Equal(t, "SUMMER20", c.Code)
	assert.True(t, c.IsActive)
}

func TestCreateCoupon_Validation(t *testing.T) {
	service := NewService(new(MockCouponRepository))

	tests := []struct {
		name string
		req  CreateCouponRequest
	}{
		{"unknown discount type", CreateCouponRequest{Code: "X", DiscountType: "bogus", DiscountAmount: 5, StartDate: quoteNow, ExpiryDate: quoteNow.Add(time.Hour)}},
		{"expiry before start", CreateCouponRequest{Code: "X", DiscountType: "fixed", DiscountAmount: 5, StartDate: quoteNow, ExpiryDate: quoteNow.Add(-time.Hour)}},
		{"percentage over 100", CreateCouponRequest{Code: "X", DiscountType: "percentage", DiscountAmount: 150, StartDate: quoteNow, ExpiryDate: quoteNow.Add(time.Hour)}},
		{"non-positive usage limit", CreateCouponRequest{Code: "X", DiscountType: "fixed", DiscountAmount: 5, UsageLimit: intPtr(0), StartDate: quoteNow, ExpiryDate: quoteNow.Add(time.Hour)}},
		{"blank code", CreateCouponRequest{Code: "   ", DiscountType: "fixed", DiscountAmount: 5, StartDate: quoteNow, ExpiryDate: quoteNow.Add(time.Hour)}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := service.CreateCoupon(context.Background(), tt.req)
			assert.ErrorIs(t, err, ErrValidation)
		})
	}
}

func TestCreateCoupon_DuplicateCode(t *testing.T) {
	repo := new(MockCouponRepository)
	repo.On("Create", mock.Anything, mock.Anything).Return(gorm.ErrDuplicatedKey)

	service := NewService(repo)

	_, err := service.CreateCoupon(context.Background(), CreateCouponRequest{
		Code:           "SUMMER20",
		DiscountType:   "fixed",
		DiscountAmount: 5,
		StartDate:      quoteNow,
		ExpiryDate:     quoteNow.AddDate(0, 3, 0),
	})
	assert.ErrorIs(t, err, ErrDuplicate)
}
