// file: websocket/view_test.go
//go:build unit
// +build unit

package websocket

import (
	"context"
	"net/http"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"lanmomo-web/models"
	"lanmomo-web/services"
)

var testViewConfig = ViewConfig{
	SeatRefreshInterval: time.Hour,
	TimerTickInterval:   time.Hour,
	PCCapacity:          10,
	ConsoleCapacity:     4,
}

func newTestVisitor(api services.LanAPI, loggedIn bool) *services.Visitor {
	v := &services.Visitor{ID: "visitor-1", API: api, Session: services.NewSessionState()}
	if loggedIn {
		v.Session.Login()
	}
	return v
}

func reservedTicket(seat int, until time.Time) *models.Ticket {
	return &models.Ticket{ID: 4, TypeID: models.TicketTypePC, SeatNum: seat, Price: 20,
		ReservedUntil: &models.Timestamp{Time: until}}
}

func TestMapView_OpenPushesState(t *testing.T) {
	api := new(services.MockLanAPI)
	api.On("GetUserTicket", mock.Anything).Return(reservedTicket(5, time.Now().Add(10*time.Minute)), nil)
	api.On("ListTicketsByType", mock.Anything, models.TicketTypePC).Return([]models.Ticket{
		{SeatNum: 5, OwnerUsername: "me"},
		{SeatNum: 7, Paid: true, OwnerUsername: "alice"},
	}, nil)

	rec := &RecordingMessenger{}
	view := NewView(ViewMap, newTestVisitor(api, true), rec, testViewConfig, nil)
	view.Open(context.Background())
	defer view.Close()

	actions := rec.Actions()
	assert.Contains(t, actions, ActionSession)
	assert.Contains(t, actions, ActionSelection)
	assert.Contains(t, actions, ActionTimer)
	assert.Contains(t, actions, ActionSeatMap)

	seatMap, ok := rec.Last(ActionSeatMap)
	require.True(t, ok)
	seats := seatMap.Fields["seats"].([]interface{})
	require.Len(t, seats, 10)
	assert.Equal(t, "taken", seats[6].(map[string]interface{})["status"])
	assert.Equal(t, true, seats[4].(map[string]interface{})["mine"])

	selection := seatMap.Fields["selection"].(map[string]interface{})
	assert.EqualValues(t, 5, selection["seatId"])
	assert.Equal(t, true, selection["isFree"], "own reservation reads as free")

	session, _ := rec.Last(ActionSession)
	assert.Equal(t, true, session.Fields["loggedIn"])
	assert.Equal(t, true, session.Fields["canBuy"])
	assert.True(t, view.countdown.State().Active)
}

func TestMapView_SelectAndBuy(t *testing.T) {
	api := new(services.MockLanAPI)
	api.On("GetUserTicket", mock.Anything).Return(nil, nil)
	api.On("ListTicketsByType", mock.Anything, models.TicketTypePC).Return([]models.Ticket{}, nil)
	api.On("CreateTicket", mock.Anything, models.TicketRequest{Type: models.TicketTypePC, Seat: 12}).Return(nil)

	rec := &RecordingMessenger{}
	cfg := testViewConfig
	cfg.PCCapacity = 96
	view := NewView(ViewMap, newTestVisitor(api, true), rec, cfg, nil)
	view.Open(context.Background())
	defer view.Close()

	view.HandleMessage(ClientMessage{Action: ActionSelectSeat, Seat: 12})
	sel, ok := rec.Last(ActionSelection)
	require.True(t, ok)
	assert.Equal(t, true, sel.Fields["selection"].(map[string]interface{})["isFree"])

	view.HandleMessage(ClientMessage{Action: ActionBuy, Seat: 12})
	nav, ok := rec.Last(ActionNavigate)
	require.True(t, ok)
	assert.Equal(t, "/pay", nav.Fields["path"])
	api.AssertExpectations(t)

	view.HandleMessage(ClientMessage{Action: ActionResetSelection})
	sel, _ = rec.Last(ActionSelection)
	assert.Nil(t, sel.Fields["selection"])
}

func TestMapView_BuyFailureSendsError(t *testing.T) {
	api := new(services.MockLanAPI)
	api.On("GetUserTicket", mock.Anything).Return(nil, nil)
	api.On("ListTicketsByType", mock.Anything, models.TicketTypePC).Return([]models.Ticket{}, nil)
	api.On("CreateTicket", mock.Anything, mock.Anything).Return(models.NewAPIError(http.StatusConflict, "Seat already taken"))

	rec := &RecordingMessenger{}
	view := NewView(ViewMap, newTestVisitor(api, true), rec, testViewConfig, nil)
	view.Open(context.Background())
	defer view.Close()

	view.HandleMessage(ClientMessage{Action: ActionBuy, Seat: 3})

	errMsg, ok := rec.Last(ActionError)
	require.True(t, ok)
	assert.Equal(t, "Seat already taken", errMsg.Fields["message"])
	assert.EqualValues(t, http.StatusConflict, errMsg.Fields["status"])
	_, navigated := rec.Last(ActionNavigate)
	assert.False(t, navigated)
}

func TestMapView_AnonymousCannotBuy(t *testing.T) {
	api := new(services.MockLanAPI)
	api.On("ListTicketsByType", mock.Anything, models.TicketTypePC).Return([]models.Ticket{}, nil)

	rec := &RecordingMessenger{}
	view := NewView(ViewMap, newTestVisitor(api, false), rec, testViewConfig, nil)
	view.Open(context.Background())
	defer view.Close()

	view.HandleMessage(ClientMessage{Action: ActionBuy, Seat: 3})
	errMsg, ok := rec.Last(ActionError)
	require.True(t, ok)
	assert.EqualValues(t, http.StatusUnauthorized, errMsg.Fields["status"])
	api.AssertNotCalled(t, "GetUserTicket", mock.Anything)
}

func TestMapView_CloseStopsRecurringWork(t *testing.T) {
	var refreshes int32
	api := new(services.MockLanAPI)
	api.On("GetUserTicket", mock.Anything).Return(reservedTicket(2, time.Now().Add(time.Hour)), nil)
	api.On("ListTicketsByType", mock.Anything, models.TicketTypePC).
		Run(func(mock.Arguments) { atomic.AddInt32(&refreshes, 1) }).
		Return([]models.Ticket{}, nil)

	rec := &RecordingMessenger{}
	cfg := testViewConfig
	cfg.SeatRefreshInterval = 5 * time.Millisecond
	cfg.TimerTickInterval = 5 * time.Millisecond
	visitor := newTestVisitor(api, true)
	view := NewView(ViewMap, visitor, rec, cfg, nil)
	view.Open(context.Background())

	assert.Eventually(t, func() bool { return atomic.LoadInt32(&refreshes) >= 3 },
		time.Second, time.Millisecond, "seat map refreshes on a schedule")

	view.Close()
	view.Close()

	select {
	case <-view.refresh.Done():
	case <-time.After(time.Second):
		t.Fatal("refresh task still running after Close")
	}
	assert.False(t, view.countdown.State().Active)

	after := atomic.LoadInt32(&refreshes)
	rec.Reset()
	time.Sleep(30 * time.Millisecond)
	assert.Equal(t, after, atomic.LoadInt32(&refreshes))
	assert.Empty(t, rec.Actions(), "a closed view publishes nothing")

	visitor.Session.Logout()
	assert.Empty(t, rec.Actions(), "auth events no longer reach a closed view")
}

func TestPayView_TicketArrivingAfterCloseIsDropped(t *testing.T) {
	until := time.Now().Add(10 * time.Minute)
	api := new(services.MockLanAPI)
	rec := &RecordingMessenger{}
	cfg := testViewConfig
	cfg.TimerTickInterval = 5 * time.Millisecond
	view := NewView(ViewPay, newTestVisitor(api, true), rec, cfg, nil)

	api.On("GetUserTicket", mock.Anything).Return(reservedTicket(0, until), nil).Once()
	api.On("GetUserTicket", mock.Anything).
		Run(func(mock.Arguments) { view.Close() }).
		Return(reservedTicket(0, until), nil).Once()

	view.Open(context.Background())
	require.True(t, view.countdown.State().Active)

	view.HandleMessage(ClientMessage{Action: ActionRefresh})

	assert.Error(t, view.ctx.Err())
	assert.False(t, view.countdown.State().Active, "no countdown after the view closed")
	rec.Reset()
	time.Sleep(30 * time.Millisecond)
	assert.Empty(t, rec.Actions(), "nothing ticks for a closed view")
	api.AssertExpectations(t)
}

func TestView_LogoutStopsCountdown(t *testing.T) {
	api := new(services.MockLanAPI)
	api.On("GetUserTicket", mock.Anything).Return(reservedTicket(0, time.Now().Add(10*time.Minute)), nil)

	rec := &RecordingMessenger{}
	visitor := newTestVisitor(api, true)
	view := NewView(ViewPay, visitor, rec, testViewConfig, nil)
	view.Open(context.Background())
	defer view.Close()
	require.True(t, view.countdown.State().Active)

	visitor.Session.Logout()

	assert.False(t, view.countdown.State().Active)
	session, _ := rec.Last(ActionSession)
	assert.Equal(t, false, session.Fields["loggedIn"])
	assert.Equal(t, false, session.Fields["canBuy"])
}

func TestTicketsView_CountsAndBuyByType(t *testing.T) {
	api := new(services.MockLanAPI)
	api.On("GetUserTicket", mock.Anything).Return(nil, nil)
	api.On("ListTickets", mock.Anything).Return([]models.Ticket{
		{TypeID: models.TicketTypePC, Paid: true},
		{TypeID: models.TicketTypeConsole, Paid: false},
	}, nil)
	api.On("CreateTicket", mock.Anything, models.TicketRequest{Type: models.TicketTypeConsole}).Return(nil)

	rec := &RecordingMessenger{}
	view := NewView(ViewTickets, newTestVisitor(api, true), rec, testViewConfig, nil)
	view.Open(context.Background())
	defer view.Close()

	counts, ok := rec.Last(ActionTicketCounts)
	require.True(t, ok)
	pc := counts.Fields["counts"].(map[string]interface{})["pc"].(map[string]interface{})
	assert.EqualValues(t, 1, pc["real"])
	assert.EqualValues(t, 9, pc["avail"])

	pcType := models.TicketTypePC
	view.HandleMessage(ClientMessage{Action: ActionBuy, Type: &pcType})
	nav, _ := rec.Last(ActionNavigate)
	assert.Equal(t, "/map", nav.Fields["path"])

	consoleType := models.TicketTypeConsole
	view.HandleMessage(ClientMessage{Action: ActionBuy, Type: &consoleType})
	nav, _ = rec.Last(ActionNavigate)
	assert.Equal(t, "/pay", nav.Fields["path"])

	view.HandleMessage(ClientMessage{Action: ActionBuy})
	errMsg, ok := rec.Last(ActionError)
	require.True(t, ok)
	assert.Equal(t, "unknown ticket type", errMsg.Fields["message"])
}

func TestPayView_NoTicket(t *testing.T) {
	api := new(services.MockLanAPI)
	api.On("GetUserTicket", mock.Anything).Return(nil, nil)

	rec := &RecordingMessenger{}
	view := NewView(ViewPay, newTestVisitor(api, true), rec, testViewConfig, nil)
	view.Open(context.Background())
	defer view.Close()

	errMsg, ok := rec.Last(ActionError)
	require.True(t, ok)
	assert.Equal(t, "no ticket selected", errMsg.Fields["message"])
	assert.False(t, view.countdown.State().Active)
}

func TestServersView_PollsUntilClosed(t *testing.T) {
	var polls int32
	api := new(services.MockLanAPI)
	api.On("ListServers", mock.Anything).
		Run(func(mock.Arguments) { atomic.AddInt32(&polls, 1) }).
		Return(models.Servers{"cs2-1": map[string]interface{}{"online": true}}, nil)

	rec := &RecordingMessenger{}
	cfg := testViewConfig
	cfg.ServerRefreshInterval = 5 * time.Millisecond
	view := NewView(ViewServers, newTestVisitor(api, true), rec, cfg, nil)
	view.Open(context.Background())

	servers, ok := rec.Last(ActionServers)
	require.True(t, ok, "first snapshot is pushed on open")
	assert.Equal(t, false, servers.Fields["empty"])
	assert.Contains(t, servers.Fields["servers"], "cs2-1")
	api.AssertNotCalled(t, "GetUserTicket", mock.Anything)

	assert.Eventually(t, func() bool { return atomic.LoadInt32(&polls) >= 3 },
		time.Second, time.Millisecond, "servers refresh on their own schedule")

	view.Close()
	<-view.refresh.Done()
	after := atomic.LoadInt32(&polls)
	time.Sleep(30 * time.Millisecond)
	assert.Equal(t, after, atomic.LoadInt32(&polls))
}

func TestServersView_FailureSendsError(t *testing.T) {
	api := new(services.MockLanAPI)
	api.On("ListServers", mock.Anything).Return(nil, models.NewAPIError(http.StatusBadGateway, "query timeout"))

	rec := &RecordingMessenger{}
	view := NewView(ViewServers, newTestVisitor(api, false), rec, testViewConfig, nil)
	view.Open(context.Background())
	defer view.Close()

	errMsg, ok := rec.Last(ActionError)
	require.True(t, ok)
	assert.Equal(t, "query timeout", errMsg.Fields["message"])
	_, ok = rec.Last(ActionServers)
	assert.False(t, ok)
}

func TestParseViewKind(t *testing.T) {
	for _, s := range []string{"map", "tickets", "pay", "servers"} {
		k, err := ParseViewKind(s)
		assert.NoError(t, err)
		assert.Equal(t, ViewKind(s), k)
	}
	_, err := ParseViewKind("admin")
	assert.Error(t, err)
}
