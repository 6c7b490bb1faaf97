package service

import (
	"VitoriaDiaria/internal/model"
	"VitoriaDiaria/internal/payment"
	"VitoriaDiaria/internal/repo"
	"context"

	"github.com/stretchr/testify/mock"
)

// мок для repo.UserRepository
type mockUserRepo struct{ mock.Mock }

func (m *mockUserRepo) user(args mock.Arguments) (*model.User, error) {
	if u, ok := args.Get(0).(*model.User); ok {
		return u, args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *mockUserRepo) CreateUser(ctx context.Context, user *model.User) (*model.User, error) {
	return m.user(m.Called(ctx, user))
}

func (m *mockUserRepo) GetUserByLogin(ctx context.Context, login string) (*model.User, error) {
	return m.user(m.Called(ctx, login))
}

func (m *mockUserRepo) GetUserByID(ctx context.Context, id string) (*model.User, error) {
	return m.user(m.Called(ctx, id))
}

func (m *mockUserRepo) GetUserByUsername(ctx context.Context, username string) (*model.User, error) {
	return m.user(m.Called(ctx, username))
}

var _ repo.UserRepository = (*mockUserRepo)(nil)

// мок для repo.TrackerRepository; CheckIn* применяют apply к копии возвращаемой записи
type mockTrackerRepo struct{ mock.Mock }

func (m *mockTrackerRepo) CreateAddiction(ctx context.Context, a *model.Addiction) error {
	return m.Called(ctx, a).Error(0)
}

func (m *mockTrackerRepo) CreateGoal(ctx context.Context, g *model.Goal) error {
	return m.Called(ctx, g).Error(0)
}

func (m *mockTrackerRepo) GetAddiction(ctx context.Context, id string) (*model.Addiction, error) {
	args := m.Called(ctx, id)
	if a, ok := args.Get(0).(*model.Addiction); ok {
		return a, args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *mockTrackerRepo) GetGoal(ctx context.Context, id string) (*model.Goal, error) {
	args := m.Called(ctx, id)
	if g, ok := args.Get(0).(*model.Goal); ok {
		return g, args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *mockTrackerRepo) ListAddictions(ctx context.Context, userID string, onlyVisible bool) ([]model.Addiction, error) {
	args := m.Called(ctx, userID, onlyVisible)
	v, _ := args.Get(0).([]model.Addiction)
	return v, args.Error(1)
}

func (m *mockTrackerRepo) ListGoals(ctx context.Context, userID string, onlyVisible bool) ([]model.Goal, error) {
	args := m.Called(ctx, userID, onlyVisible)
	v, _ := args.Get(0).([]model.Goal)
	return v, args.Error(1)
}

func (m *mockTrackerRepo) SetVisibility(ctx context.Context, kind model.ItemKind, itemID string, visible bool) error {
	return m.Called(ctx, kind, itemID, visible).Error(0)
}

func (m *mockTrackerRepo) HasCheckIn(ctx context.Context, itemID, day string) (bool, error) {
	args := m.Called(ctx, itemID, day)
	return args.Bool(0), args.Error(1)
}

func (m *mockTrackerRepo) CheckInAddiction(ctx context.Context, rec *model.CheckIn, apply func(*model.Addiction)) (*model.Addiction, error) {
	args := m.Called(ctx, rec)
	a, _ := args.Get(0).(*model.Addiction)
	if a == nil || args.Error(1) != nil {
		return nil, args.Error(1)
	}
	cp := *a
	apply(&cp)
	return &cp, nil
}

func (m *mockTrackerRepo) CheckInGoal(ctx context.Context, rec *model.CheckIn, apply func(*model.Goal)) (*model.Goal, error) {
	args := m.Called(ctx, rec)
	g, _ := args.Get(0).(*model.Goal)
	if g == nil || args.Error(1) != nil {
		return nil, args.Error(1)
	}
	cp := *g
	apply(&cp)
	return &cp, nil
}

var _ repo.TrackerRepository = (*mockTrackerRepo)(nil)

// мок для repo.SupportRepository
type mockSupportRepo struct{ mock.Mock }

func (m *mockSupportRepo) support(args mock.Arguments) (*model.Support, error) {
	if s, ok := args.Get(0).(*model.Support); ok {
		return s, args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *mockSupportRepo) Create(ctx context.Context, s *model.Support) error {
	return m.Called(ctx, s).Error(0)
}

func (m *mockSupportRepo) GetByID(ctx context.Context, id string) (*model.Support, error) {
	return m.support(m.Called(ctx, id))
}

func (m *mockSupportRepo) GetByReference(ctx context.Context, ref string) (*model.Support, error) {
	return m.support(m.Called(ctx, ref))
}

func (m *mockSupportRepo) SetPaymentReference(ctx context.Context, id, ref string) (bool, error) {
	args := m.Called(ctx, id, ref)
	return args.Bool(0), args.Error(1)
}

func (m *mockSupportRepo) Transition(ctx context.Context, id string, to model.PaymentStatus) (bool, error) {
	args := m.Called(ctx, id, to)
	return args.Bool(0), args.Error(1)
}

func (m *mockSupportRepo) CompleteByReference(ctx context.Context, ref string) (bool, error) {
	args := m.Called(ctx, ref)
	return args.Bool(0), args.Error(1)
}

func (m *mockSupportRepo) ListByRecipient(ctx context.Context, recipientID string, status model.PaymentStatus) ([]model.Support, error) {
	args := m.Called(ctx, recipientID, status)
	v, _ := args.Get(0).([]model.Support)
	return v, args.Error(1)
}

func (m *mockSupportRepo) ListReceived(ctx context.Context, recipientID string) ([]model.SupportDetail, error) {
	args := m.Called(ctx, recipientID)
	v, _ := args.Get(0).([]model.SupportDetail)
	return v, args.Error(1)
}

func (m *mockSupportRepo) ListSent(ctx context.Context, supporterID string) ([]model.SupportDetail, error) {
	args := m.Called(ctx, supporterID)
	v, _ := args.Get(0).([]model.SupportDetail)
	return v, args.Error(1)
}

var _ repo.SupportRepository = (*mockSupportRepo)(nil)

// мок для payment.Gateway
type mockGateway struct{ mock.Mock }

func (m *mockGateway) CreatePreference(ctx context.Context, req payment.PreferenceRequest) (*payment.Preference, error) {
	args := m.Called(ctx, req)
	if p, ok := args.Get(0).(*payment.Preference); ok {
		return p, args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *mockGateway) GetPayment(ctx context.Context, paymentID string) (*payment.PaymentInfo, error) {
	args := m.Called(ctx, paymentID)
	if p, ok := args.Get(0).(*payment.PaymentInfo); ok {
		return p, args.Error(1)
	}
	return nil, args.Error(1)
}

var _ payment.Gateway = (*mockGateway)(nil)
