// Package services holds the upstream API client and the client-side state
// machines (session flag, seat map, reservation flow) built on top of it.
// File: services/api_client.go
package services

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/http/cookiejar"
	"net/url"
	"time"

	"github.com/aws/aws-xray-sdk-go/xray"
	"lanmomo-web/logger"
	"lanmomo-web/models"
)

// LanAPI is the upstream LAN-party HTTP API as seen by one visitor.
type LanAPI interface {
	SeatLister

	GetLoginState(ctx context.Context) (models.LoginState, error)
	Login(ctx context.Context, req models.LoginRequest) error
	Logout(ctx context.Context) error
	Verify(ctx context.Context, token string) (models.VerifyResult, error)

	GetUserTicket(ctx context.Context) (*models.Ticket, error)
	ListTickets(ctx context.Context) ([]models.Ticket, error)
	CreateTicket(ctx context.Context, req models.TicketRequest) error
	MoveSeat(ctx context.Context, req models.TicketRequest) error
	Pay(ctx context.Context, req models.PaymentRequest) (models.PaymentRedirect, error)
	ExecutePayment(ctx context.Context, req models.ExecutePaymentRequest) (models.MessageResponse, error)
	LookupQR(ctx context.Context, token string) (models.QRLookup, error)

	GetProfile(ctx context.Context) (*models.User, error)
	Signup(ctx context.Context, req models.SignupRequest) (models.MessageResponse, error)
	UpdateProfile(ctx context.Context, user models.User) (*models.User, error)
	HasUsername(ctx context.Context, username string) (bool, error)
	HasEmail(ctx context.Context, email string) (bool, error)

	ListServers(ctx context.Context) (models.Servers, error)

	ListTeams(ctx context.Context) ([]models.Team, error)
	CreateTeam(ctx context.Context, req models.TeamRequest) error
	DeleteTeam(ctx context.Context, id int) error
}

// SeatLister is the slice of the API the seat map needs.
type SeatLister interface {
	ListTicketsByType(ctx context.Context, ticketType models.TicketType) ([]models.Ticket, error)
}

// HTTPClient talks JSON to the upstream API. Each instance owns a cookie jar,
// so the upstream login session of one visitor never leaks to another.
type HTTPClient struct {
	baseURL string
	client  *http.Client
}

var _ LanAPI = (*HTTPClient)(nil)

// NewHTTPClient creates a client for baseURL. With tracing on, outgoing calls
// are recorded as X-Ray subsegments of the inbound request.
func NewHTTPClient(baseURL string, tracing bool) *HTTPClient {
	jar, _ := cookiejar.New(nil) // never fails without options
	client := &http.Client{Timeout: 15 * time.Second, Jar: jar}
	if tracing {
		client = xray.Client(client)
	}
	return &HTTPClient{baseURL: baseURL, client: client}
}

// do sends a JSON request and decodes the JSON answer into out (when non-nil).
// Non-2xx answers come back as *models.APIError.
func (h *HTTPClient) do(ctx context.Context, method, path string, body, out interface{}) error {
	var reader io.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("%s %s: encode body: %w", method, path, err)
		}
		reader = bytes.NewReader(payload)
	}

	req, err := http.NewRequestWithContext(ctx, method, h.baseURL+path, reader)
	if err != nil {
		return fmt.Errorf("%s %s: %w", method, path, err)
	}
	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := h.client.Do(req)
	if err != nil {
		logger.Warn.Printf("[HTTPClient.do] %s %s failed: %v", method, path, err)
		return fmt.Errorf("%s %s: %w", method, path, err)
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("%s %s: read body: %w", method, path, err)
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		var msg models.MessageResponse
		_ = json.Unmarshal(data, &msg)
		logger.Debug.Printf("[HTTPClient.do] %s %s -> %d %q", method, path, resp.StatusCode, msg.Message)
		return models.NewAPIError(resp.StatusCode, msg.Message)
	}

	if out == nil || len(bytes.TrimSpace(data)) == 0 {
		return nil
	}
	if err := json.Unmarshal(data, out); err != nil {
		return fmt.Errorf("%s %s: decode body: %w", method, path, err)
	}
	return nil
}

// ------------------ session ------------------

func (h *HTTPClient) GetLoginState(ctx context.Context) (models.LoginState, error) {
	var state models.LoginState
	err := h.do(ctx, http.MethodGet, "/api/login", nil, &state)
	return state, err
}

func (h *HTTPClient) Login(ctx context.Context, req models.LoginRequest) error {
	return h.do(ctx, http.MethodPost, "/api/login", req, nil)
}

func (h *HTTPClient) Logout(ctx context.Context) error {
	return h.do(ctx, http.MethodGet, "/api/logout", nil, nil)
}

func (h *HTTPClient) Verify(ctx context.Context, token string) (models.VerifyResult, error) {
	var res models.VerifyResult
	err := h.do(ctx, http.MethodGet, "/api/verify/"+url.PathEscape(token), nil, &res)
	return res, err
}

// ------------------ tickets ------------------

// GetUserTicket returns the visitor's ticket, or nil when they hold none.
func (h *HTTPClient) GetUserTicket(ctx context.Context) (*models.Ticket, error) {
	var env models.TicketEnvelope
	if err := h.do(ctx, http.MethodGet, "/api/users/ticket", nil, &env); err != nil {
		return nil, err
	}
	return env.Ticket, nil
}

func (h *HTTPClient) ListTickets(ctx context.Context) ([]models.Ticket, error) {
	var list models.TicketList
	err := h.do(ctx, http.MethodGet, "/api/tickets", nil, &list)
	return list.Tickets, err
}

func (h *HTTPClient) ListTicketsByType(ctx context.Context, ticketType models.TicketType) ([]models.Ticket, error) {
	var list models.TicketList
	err := h.do(ctx, http.MethodGet, fmt.Sprintf("/api/tickets/type/%d", int(ticketType)), nil, &list)
	return list.Tickets, err
}

func (h *HTTPClient) CreateTicket(ctx context.Context, req models.TicketRequest) error {
	return h.do(ctx, http.MethodPost, "/api/tickets", req, nil)
}

func (h *HTTPClient) MoveSeat(ctx context.Context, req models.TicketRequest) error {
	return h.do(ctx, http.MethodPut, "/api/tickets/seat", req, nil)
}

func (h *HTTPClient) Pay(ctx context.Context, req models.PaymentRequest) (models.PaymentRedirect, error) {
	var redirect models.PaymentRedirect
	err := h.do(ctx, http.MethodPut, "/api/tickets/pay", req, &redirect)
	return redirect, err
}

func (h *HTTPClient) ExecutePayment(ctx context.Context, req models.ExecutePaymentRequest) (models.MessageResponse, error) {
	var msg models.MessageResponse
	err := h.do(ctx, http.MethodPut, "/api/tickets/pay/execute", req, &msg)
	return msg, err
}

func (h *HTTPClient) LookupQR(ctx context.Context, token string) (models.QRLookup, error) {
	var res models.QRLookup
	err := h.do(ctx, http.MethodGet, "/api/qr/"+url.PathEscape(token), nil, &res)
	return res, err
}

// ------------------ users ------------------

func (h *HTTPClient) GetProfile(ctx context.Context) (*models.User, error) {
	var env models.UserEnvelope
	if err := h.do(ctx, http.MethodGet, "/api/profile", nil, &env); err != nil {
		return nil, err
	}
	return env.User, nil
}

func (h *HTTPClient) Signup(ctx context.Context, req models.SignupRequest) (models.MessageResponse, error) {
	var msg models.MessageResponse
	err := h.do(ctx, http.MethodPost, "/api/users", req, &msg)
	return msg, err
}

func (h *HTTPClient) UpdateProfile(ctx context.Context, user models.User) (*models.User, error) {
	var env models.UserEnvelope
	if err := h.do(ctx, http.MethodPut, "/api/users", user, &env); err != nil {
		return nil, err
	}
	return env.User, nil
}

func (h *HTTPClient) HasUsername(ctx context.Context, username string) (bool, error) {
	var res models.Availability
	err := h.do(ctx, http.MethodPost, "/api/users/has/username", map[string]string{"username": username}, &res)
	return res.Exists, err
}

func (h *HTTPClient) HasEmail(ctx context.Context, email string) (bool, error) {
	var res models.Availability
	err := h.do(ctx, http.MethodPost, "/api/users/has/email", map[string]string{"email": email}, &res)
	return res.Exists, err
}

// ------------------ servers ------------------

func (h *HTTPClient) ListServers(ctx context.Context) (models.Servers, error) {
	servers := models.Servers{}
	if err := h.do(ctx, http.MethodGet, "/api/servers", nil, &servers); err != nil {
		return nil, err
	}
	return servers, nil
}

// ------------------ teams ------------------

func (h *HTTPClient) ListTeams(ctx context.Context) ([]models.Team, error) {
	var list models.TeamList
	err := h.do(ctx, http.MethodGet, "/api/teams", nil, &list)
	return list.Teams, err
}

func (h *HTTPClient) CreateTeam(ctx context.Context, req models.TeamRequest) error {
	return h.do(ctx, http.MethodPost, "/api/teams", req, nil)
}

func (h *HTTPClient) DeleteTeam(ctx context.Context, id int) error {
	return h.do(ctx, http.MethodDelete, fmt.Sprintf("/api/teams/%d", id), nil, nil)
}
