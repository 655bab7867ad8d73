package services

import (
	"context"

	"github.com/stretchr/testify/mock"
	"lanmomo-web/models"
)

// Ensure MockLanAPI implements LanAPI
var _ LanAPI = (*MockLanAPI)(nil)

// MockLanAPI is a mock implementation for testing and extends `mock.Mock`
type MockLanAPI struct {
	mock.Mock
}

func (m *MockLanAPI) GetLoginState(ctx context.Context) (models.LoginState, error) {
	args := m.Called(ctx)
	return args.Get(0).(models.LoginState), args.Error(1)
}

func (m *MockLanAPI) Login(ctx context.Context, req models.LoginRequest) error {
	return m.Called(ctx, req).Error(0)
}

func (m *MockLanAPI) Logout(ctx context.Context) error {
	return m.Called(ctx).Error(0)
}

func (m *MockLanAPI) Verify(ctx context.Context, token string) (models.VerifyResult, error) {
	args := m.Called(ctx, token)
	return args.Get(0).(models.VerifyResult), args.Error(1)
}

// GetUserTicket (Mocked). Return a nil *models.Ticket for "no ticket".
func (m *MockLanAPI) GetUserTicket(ctx context.Context) (*models.Ticket, error) {
	args := m.Called(ctx)
	ticket, _ := args.Get(0).(*models.Ticket)
	return ticket, args.Error(1)
}

func (m *MockLanAPI) ListTickets(ctx context.Context) ([]models.Ticket, error) {
	args := m.Called(ctx)
	tickets, _ := args.Get(0).([]models.Ticket)
	return tickets, args.Error(1)
}

func (m *MockLanAPI) ListTicketsByType(ctx context.Context, ticketType models.TicketType) ([]models.Ticket, error) {
	args := m.Called(ctx, ticketType)
	tickets, _ := args.Get(0).([]models.Ticket)
	return tickets, args.Error(1)
}

func (m *MockLanAPI) CreateTicket(ctx context.Context, req models.TicketRequest) error {
	return m.Called(ctx, req).Error(0)
}

func (m *MockLanAPI) MoveSeat(ctx context.Context, req models.TicketRequest) error {
	return m.Called(ctx, req).Error(0)
}

func (m *MockLanAPI) Pay(ctx context.Context, req models.PaymentRequest) (models.PaymentRedirect, error) {
	args := m.Called(ctx, req)
	return args.Get(0).(models.PaymentRedirect), args.Error(1)
}

func (m *MockLanAPI) ExecutePayment(ctx context.Context, req models.ExecutePaymentRequest) (models.MessageResponse, error) {
	args := m.Called(ctx, req)
	return args.Get(0).(models.MessageResponse), args.Error(1)
}

func (m *MockLanAPI) LookupQR(ctx context.Context, token string) (models.QRLookup, error) {
	args := m.Called(ctx, token)
	return args.Get(0).(models.QRLookup), args.Error(1)
}

func (m *MockLanAPI) GetProfile(ctx context.Context) (*models.User, error) {
	args := m.Called(ctx)
	user, _ := args.Get(0).(*models.User)
	return user, args.Error(1)
}

func (m *MockLanAPI) Signup(ctx context.Context, req models.SignupRequest) (models.MessageResponse, error) {
	args := m.Called(ctx, req)
	return args.Get(0).(models.MessageResponse), args.Error(1)
}

func (m *MockLanAPI) UpdateProfile(ctx context.Context, user models.User) (*models.User, error) {
	args := m.Called(ctx, user)
	updated, _ := args.Get(0).(*models.User)
	return updated, args.Error(1)
}

func (m *MockLanAPI) HasUsername(ctx context.Context, username string) (bool, error) {
	args := m.Called(ctx, username)
	return args.Bool(0), args.Error(1)
}

func (m *MockLanAPI) HasEmail(ctx context.Context, email string) (bool, error) {
	args := m.Called(ctx, email)
	return args.Bool(0), args.Error(1)
}

func (m *MockLanAPI) ListServers(ctx context.Context) (models.Servers, error) {
	args := m.Called(ctx)
	servers, _ := args.Get(0).(models.Servers)
	return servers, args.Error(1)
}

func (m *MockLanAPI) ListTeams(ctx context.Context) ([]models.Team, error) {
	args := m.Called(ctx)
	teams, _ := args.Get(0).([]models.Team)
	return teams, args.Error(1)
}

func (m *MockLanAPI) CreateTeam(ctx context.Context, req models.TeamRequest) error {
	return m.Called(ctx, req).Error(0)
}

func (m *MockLanAPI) DeleteTeam(ctx context.Context, id int) error {
	return m.Called(ctx, id).Error(0)
}
