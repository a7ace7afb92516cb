package sparepart

import (
	"bytes"
	"context"
	"errors"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"github.com/tealeg/xlsx"
)

// --- Mocks ---

type MockRepository struct {
	mock.Mock
}

func (m *MockRepository) parts(args mock.Arguments) ([]*SparePart, error) {
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*SparePart), args.Error(1)
}

func (m *MockRepository) part(args mock.Arguments) (*SparePart, error) {
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*SparePart), args.Error(1)
}

func (m *MockRepository) Create(ctx context.Context, p *SparePart) (*SparePart, error) {
	return m.part(m.Called(ctx, p))
}

func (m *MockRepository) Update(ctx context.Context, p *SparePart) (*SparePart, error) {
	return m.part(m.Called(ctx, p))
}

func (m *MockRepository) GetByID(ctx context.Context, id int64) (*SparePart, error) {
	return m.part(m.Called(ctx, id))
}

func (m *MockRepository) GetByPartNumber(ctx context.Context, partNumber string) (*SparePart, error) {
	return m.part(m.Called(ctx, partNumber))
}

func (m *MockRepository) ExistsByPartNumber(ctx context.Context, partNumber string) (bool, error) {
	args := m.Called(ctx, partNumber)
	return args.Bool(0), args.Error(1)
}

func (m *MockRepository) List(ctx context.Context, activeOnly bool) ([]*SparePart, error) {
	return m.parts(m.Called(ctx, activeOnly))
}

func (m *MockRepository) Search(ctx context.Context, keyword string) ([]*SparePart, error) {
	return m.parts(m.Called(ctx, keyword))
}

func (m *MockRepository) ListByCategory(ctx context.Context, category string) ([]*SparePart, error) {
	return m.parts(m.Called(ctx, category))
}

func (m *MockRepository) ListLowStock(ctx context.Context) ([]*SparePart, error) {
	return m.parts(m.Called(ctx))
}

func (m *MockRepository) ListCategories(ctx context.Context) ([]string, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]string), args.Error(1)
}

func (m *MockRepository) SetActive(ctx context.Context, id int64, active bool) error {
	return m.Called(ctx, id, active).Error(0)
}

func (m *MockRepository) AdjustStock(ctx context.Context, id int64, delta int) (*SparePart, error) {
	return m.part(m.Called(ctx, id, delta))
}

func (m *MockRepository) DecrementStock(ctx context.Context, id int64, qty int) (*SparePart, error) {
	return m.part(m.Called(ctx, id, qty))
}

// --- Helpers ---

func validInput() Input {
	return Input{
		PartNumber:    "OF-200",
		PartName:      "Oil Filter",
		Category:      "Filters",
		Brand:         "Denso",
		Price:         decimal.RequireFromString("12.99"),
		StockQuantity: 40,
	}
}

func TestService_Create(t *testing.T) {
	ctx := context.Background()

	t.Run("AppliesDefaults", func(t *testing.T) {
		repo := new(MockRepository)
		svc := NewService(repo)

		repo.On("ExistsByPartNumber", ctx, "OF-200").Return(false, nil)
		repo.On("Create", ctx, mock.MatchedBy(func(p *SparePart) bool {
			return p.ReorderLevel == DefaultReorderLevel &&
				p.WarrantyMonths == DefaultWarrantyMonths &&
				p.IsActive
		})).Return(&SparePart{ID: 1, PartNumber: "OF-200"}, nil)

		p, err := svc.Create(ctx, validInput())
		require.NoError(t, err)
		assert.Equal(t, int64(1), p.ID)
		repo.AssertExpectations(t)
	})

	t.Run("Duplicate", func(t *testing.T) {
		repo := new(MockRepository)
		svc := NewService(repo)

		repo.On("ExistsByPartNumber", ctx, "OF-200").Return(true, nil)

		_, err := svc.Create(ctx, validInput())
		assert.ErrorIs(t, err, ErrDuplicatePartNumber)
		repo.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
	})

	t.Run("Validation", func(t *testing.T) {
		cases := map[string]func(in *Input){
			"missing number":   func(in *Input) { in.PartNumber = " " },
			"missing name":     func(in *Input) { in.PartName = "" },
			"missing category": func(in *Input) { in.Category = "" },
			"zero price":       func(in *Input) { in.Price = decimal.Zero },
			"negative stock":   func(in *Input) { in.StockQuantity = -1 },
		}
		for name, mutate := range cases {
			t.Run(name, func(t *testing.T) {
				svc := NewService(new(MockRepository))
				in := validInput()
				mutate(&in)
				_, err := svc.Create(ctx, in)
				assert.ErrorIs(t, err, ErrInvalidPart)
			})
		}
	})
}

func TestService_Update(t *testing.T) {
	ctx := context.Background()

	t.Run("NotFound", func(t *testing.T) {
		repo := new(MockRepository)
		svc := NewService(repo)

		repo.On("GetByID", ctx, int64(5)).Return(nil, ErrPartNotFound)

		_, err := svc.Update(ctx, 5, validInput())
		assert.ErrorIs(t, err, ErrPartNotFound)
	})

	t.Run("RenumberToTakenNumber", func(t *testing.T) {
		repo := new(MockRepository)
		svc := NewService(repo)

		repo.On("GetByID", ctx, int64(5)).Return(&SparePart{ID: 5, PartNumber: "OLD"}, nil)
		repo.On("ExistsByPartNumber", ctx, "OF-200").Return(true, nil)

		_, err := svc.Update(ctx, 5, validInput())
		assert.ErrorIs(t, err, ErrDuplicatePartNumber)
	})

	t.Run("KeepsStoredReorderLevel", func(t *testing.T) {
		repo := new(MockRepository)
		svc := NewService(repo)

		repo.On("GetByID", ctx, int64(5)).Return(&SparePart{ID: 5, PartNumber: "OF-200", ReorderLevel: 3, IsActive: true}, nil)
		repo.On("Update", ctx, mock.MatchedBy(func(p *SparePart) bool {
			return p.ReorderLevel == 3 && p.PartName == "Oil Filter"
		})).Return(&SparePart{ID: 5}, nil)

		_, err := svc.Update(ctx, 5, validInput())
		assert.NoError(t, err)
		repo.AssertExpectations(t)
	})
}

func TestService_AdjustStock(t *testing.T) {
	ctx := context.Background()

	t.Run("Insufficient", func(t *testing.T) {
		repo := new(MockRepository)
		svc := NewService(repo)

		repo.On("GetByID", ctx, int64(2)).Return(&SparePart{ID: 2, StockQuantity: 1}, nil)
		repo.On("AdjustStock", ctx, int64(2), -3).Return(nil, ErrInsufficientStock)

		_, err := svc.AdjustStock(ctx, 2, -3)
		assert.ErrorIs(t, err, ErrInsufficientStock)
	})

	t.Run("Restock", func(t *testing.T) {
		repo := new(MockRepository)
		svc := NewService(repo)

		repo.On("GetByID", ctx, int64(2)).Return(&SparePart{ID: 2, StockQuantity: 1}, nil)
		repo.On("AdjustStock", ctx, int64(2), 10).Return(&SparePart{ID: 2, StockQuantity: 11, ReorderLevel: 5}, nil)

		p, err := svc.AdjustStock(ctx, 2, 10)
		require.NoError(t, err)
		assert.Equal(t, 11, p.StockQuantity)
	})
}

func TestService_Search(t *testing.T) {
	ctx := context.Background()
	repo := new(MockRepository)
	svc := NewService(repo)

	repo.On("List", ctx, true).Return([]*SparePart{{ID: 1}}, nil)
	repo.On("Search", ctx, "filter").Return([]*SparePart{{ID: 2}}, nil)

	all, err := svc.Search(ctx, "   ")
	require.NoError(t, err)
	assert.Equal(t, int64(1), all[0].ID)

	hits, err := svc.Search(ctx, "filter")
	require.NoError(t, err)
	assert.Equal(t, int64(2), hits[0].ID)
}

func TestService_Delete(t *testing.T) {
	ctx := context.Background()
	repo := new(MockRepository)
	svc := NewService(repo)

	repo.On("SetActive", ctx, int64(4), false).Return(nil)
	assert.NoError(t, svc.Delete(ctx, 4))

	repo.On("SetActive", ctx, int64(5), false).Return(ErrPartNotFound)
	assert.ErrorIs(t, svc.Delete(ctx, 5), ErrPartNotFound)
}

func TestService_ExportWorkbook(t *testing.T) {
	ctx := context.Background()

	t.Run("WritesHeaderAndRows", func(t *testing.T) {
		repo := new(MockRepository)
		svc := NewService(repo)

		repo.On("List", ctx, false).Return([]*SparePart{
			{ID: 1, PartNumber: "BP-1", PartName: "Brake Pad", Price: decimal.RequireFromString("45.5"), StockQuantity: 2, ReorderLevel: 10},
			{ID: 2, PartNumber: "OF-2", PartName: "Oil Filter", Price: decimal.RequireFromString("12"), StockQuantity: 50, ReorderLevel: 10},
		}, nil)

		var buf bytes.Buffer
		require.NoError(t, svc.ExportWorkbook(ctx, &buf))

		file, err := xlsx.OpenBinary(buf.Bytes())
		require.NoError(t, err)
		require.Len(t, file.Sheets, 1)

		sheet := file.Sheets[0]
		assert.Equal(t, WorkbookSheet, sheet.Name)
		require.Len(t, sheet.Rows, 3)
		assert.Equal(t, "ID", sheet.Rows[0].Cells[0].Value)
		assert.Equal(t, "BP-1", sheet.Rows[1].Cells[1].Value)
		assert.Equal(t, "45.50", sheet.Rows[1].Cells[6].Value)
	})

	t.Run("RepositoryError", func(t *testing.T) {
		repo := new(MockRepository)
		svc := NewService(repo)

		repo.On("List", ctx, false).Return(nil, errors.New("db down"))

		var buf bytes.Buffer
		assert.Error(t, svc.ExportWorkbook(ctx, &buf))
		assert.Zero(t, buf.Len())
	})
}
