package mocks

import (
	"context"

	"github.com/Agent-cat/Chaitra/internal/model"
	"github.com/Agent-cat/Chaitra/internal/repository"
	"github.com/stretchr/testify/mock"
)

type MockPropertyRepository struct {
	mock.Mock
}

func (m *MockPropertyRepository) Create(ctx context.Context, p *model.Property) (*model.Property, error) {
	args := m.Called(ctx, p)
	if f, ok := args.Get(0).(func(context.Context, *model.Property) *model.Property); ok {
		return f(ctx, p), args.Error(1)
	}
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Property), args.Error(1)
}

func (m *MockPropertyRepository) FindByID(ctx context.Context, id string) (*model.Property, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Property), args.Error(1)
}

func (m *MockPropertyRepository) FindPage(ctx context.Context, conds []repository.Condition, pq repository.PageQuery) ([]model.Property, error) {
	args := m.Called(ctx, conds, pq)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]model.Property), args.Error(1)
}

func (m *MockPropertyRepository) Count(ctx context.Context, conds []repository.Condition) (int, error) {
	args := m.Called(ctx, conds)
	return args.Int(0), args.Error(1)
}

func (m *MockPropertyRepository) Bounds(ctx context.Context) (repository.Bounds, error) {
	args := m.Called(ctx)
	return args.Get(0).(repository.Bounds), args.Error(1)
}

func (m *MockPropertyRepository) DistinctTypes(ctx context.Context) ([]string, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]string), args.Error(1)
}

func (m *MockPropertyRepository) DistinctBHKs(ctx context.Context) ([]int, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]int), args.Error(1)
}

func (m *MockPropertyRepository) Update(ctx context.Context, id string, patch repository.PropertyPatch) (*model.Property, error) {
	args := m.Called(ctx, id, patch)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Property), args.Error(1)
}

func (m *MockPropertyRepository) Delete(ctx context.Context, id string) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}
