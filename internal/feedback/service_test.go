package feedback

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type MockRepository struct {
	mock.Mock
}

func (m *MockRepository) Create(ctx context.Context, f *Feedback) (int64, error) {
	args := m.Called(ctx, f)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockRepository) GetByID(ctx context.Context, id int64) (*Feedback, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*Feedback), args.Error(1)
}

func (m *MockRepository) List(ctx context.Context, customerID *int64) ([]*Feedback, error) {
	args := m.Called(ctx, customerID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*Feedback), args.Error(1)
}

func (m *MockRepository) UpdateStatus(ctx context.Context, id int64, status string) error {
	return m.Called(ctx, id, status).Error(0)
}

func (m *MockRepository) SaveResponse(ctx context.Context, id, responderID int64, response string) error {
	return m.Called(ctx, id, responderID, response).Error(0)
}

func (m *MockRepository) Delete(ctx context.Context, id int64) error {
	return m.Called(ctx, id).Error(0)
}

func intp(v int) *int { return &v }

func TestService_Create(t *testing.T) {
	ctx := context.Background()

	t.Run("Success", func(t *testing.T) {
		repo := new(MockRepository)
		repo.On("Create", ctx, mock.MatchedBy(func(f *Feedback) bool {
			return f.Status == StatusPending && f.FeedbackType == DefaultType && f.Subject == "Great part" && *f.Rating == 5
		})).Return(int64(11), nil)
		repo.On("GetByID", ctx, int64(11)).Return(&Feedback{ID: 11, Status: StatusPending}, nil)

		f, err := NewService(repo).Create(ctx, 7, CreateInput{Subject: " Great part ", Message: "fits", Rating: intp(5)})
		require.NoError(t, err)
		assert.Equal(t, int64(11), f.ID)
		repo.AssertExpectations(t)
	})

	tests := []struct {
		name       string
		customerID int64
		in         CreateInput
		wantErr    error
	}{
		{"NoCustomer", 0, CreateInput{Subject: "s", Message: "m"}, ErrCustomerRequired},
		{"NoSubject", 7, CreateInput{Subject: " ", Message: "m"}, ErrSubjectRequired},
		{"NoMessage", 7, CreateInput{Subject: "s"}, ErrMessageRequired},
		{"RatingTooLow", 7, CreateInput{Subject: "s", Message: "m", Rating: intp(0)}, ErrInvalidRating},
		{"RatingTooHigh", 7, CreateInput{Subject: "s", Message: "m", Rating: intp(6)}, ErrInvalidRating},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			repo := new(MockRepository)
			_, err := NewService(repo).Create(ctx, tt.customerID, tt.in)
			assert.ErrorIs(t, err, tt.wantErr)
			repo.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
		})
	}
}

func TestService_MarkRead(t *testing.T) {
	ctx := context.Background()
	repo := new(MockRepository)
	repo.On("UpdateStatus", ctx, int64(3), StatusRead).Return(nil)
	repo.On("GetByID", ctx, int64(3)).Return(&Feedback{ID: 3, Status: StatusRead}, nil)
	repo.On("UpdateStatus", ctx, int64(4), StatusRead).Return(ErrFeedbackNotFound)

	svc := NewService(repo)
	f, err := svc.MarkRead(ctx, 3)
	require.NoError(t, err)
	assert.Equal(t, StatusRead, f.Status)

	_, err = svc.MarkRead(ctx, 4)
	assert.ErrorIs(t, err, ErrFeedbackNotFound)
}

func TestService_Respond(t *testing.T) {
	ctx := context.Background()
	repo := new(MockRepository)
	repo.On("SaveResponse", ctx, int64(3), int64(1), "Thanks").Return(nil)
	repo.On("GetByID", ctx, int64(3)).Return(&Feedback{ID: 3, Status: StatusResponded}, nil)

	svc := NewService(repo)
	f, err := svc.Respond(ctx, 3, 1, " Thanks ")
	require.NoError(t, err)
	assert.Equal(t, StatusResponded, f.Status)

	_, err = svc.Respond(ctx, 3, 1, "")
	assert.ErrorIs(t, err, ErrResponseRequired)
}

func TestService_ListByCustomer(t *testing.T) {
	ctx := context.Background()
	repo := new(MockRepository)
	customerID := int64(7)
	repo.On("List", ctx, &customerID).Return([]*Feedback{{ID: 1}, {ID: 2}}, nil)

	items, err := NewService(repo).ListByCustomer(ctx, 7)
	require.NoError(t, err)
	assert.Len(t, items, 2)
}
