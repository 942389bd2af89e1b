package handler

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Shivanand-hulikatti/hotel-booking/internal/auth"
	"github.com/Shivanand-hulikatti/hotel-booking/internal/model"
	"github.com/Shivanand-hulikatti/hotel-booking/internal/repository/memory"
	"github.com/Shivanand-hulikatti/hotel-booking/internal/service"
)

const (
	adminEmail    = "admin@hotel.test"
	adminPassword = "admin-password"
)

type testAPI struct {
	t      *testing.T
	server *httptest.Server
}

func newTestAPI(t *testing.T) *testAPI {
	t.Helper()
	log := logrus.New()
	log.SetOutput(io.Discard)

	db := memory.New()
	tokens := auth.NewTokens("handler-test-secret", time.Hour)
	policy, err := auth.NewPolicy()
	require.NoError(t, err)

	roles := service.NewRoleService(db.Roles(), db.Users(), log)
	users := service.NewUserService(db.Users(), db.Roles(), tokens, log)
	ctx := context.Background()
	require.NoError(t, roles.EnsureDefaults(ctx))
	require.NoError(t, users.EnsureAdmin(ctx, adminEmail, adminPassword))

	router := NewRouter(Deps{
		Rooms:       service.NewRoomService(db.Rooms(), db.Bookings(), nil, log),
		Bookings:    service.NewBookingService(db.Bookings(), db.Rooms(), log),
		Users:       users,
		Roles:       roles,
		Tokens:      tokens,
		Policy:      policy,
		Log:         log,
		CORSOrigins: []string{"http://localhost:5173"},
	})
	srv := httptest.NewServer(router)
	t.Cleanup(srv.Close)
	return &testAPI{t: t, server: srv}
}

func (a *testAPI) do(method, path, token string, body io.Reader, contentType string) (int, []byte) {
	a.t.Helper()
	req, err := http.NewRequest(method, a.server.URL+path, body)
	require.NoError(a.t, err)
	if contentType != "" {
		req.Header.Set("Content-Type", contentType)
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	resp, err := http.DefaultClient.Do(req)
	require.NoError(a.t, err)
	defer resp.Body.Close()
	data, err := io.ReadAll(resp.Body)
	require.NoError(a.t, err)
	return resp.StatusCode, data
}

func (a *testAPI) json(method, path, token string, payload any) (int, []byte) {
	a.t.Helper()
	var body io.Reader
	if payload != nil {
		raw, err := json.Marshal(payload)
		require.NoError(a.t, err)
		body = bytes.NewReader(raw)
	}
	return a.do(method, path, token, body, "application/json")
}

func (a *testAPI) login(email, password string) string {
	a.t.Helper()
	status, body := a.json(http.MethodPost, "/auth/login", "", map[string]string{"email": email, "password": password})
	require.Equal(a.t, http.StatusOK, status, string(body))
	var resp model.JWTResponse
	require.NoError(a.t, json.Unmarshal(body, &resp))
	return resp.Token
}

func (a *testAPI) register(email string) string {
	a.t.Helper()
	status, body := a.json(http.MethodPost, "/auth/register-user", "", map[string]string{
		"first_name": "Guest",
		"last_name":  "User",
		"email":      email,
		"password":   "guest-password",
	})
	require.Equal(a.t, http.StatusCreated, status, string(body))
	return a.login(email, "guest-password")
}

func (a *testAPI) addRoom(token, roomType, price string) (int, model.RoomResponse) {
	a.t.Helper()
	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	require.NoError(a.t, mw.WriteField("room_type", roomType))
	require.NoError(a.t, mw.WriteField("room_price", price))
	fw, err := mw.CreateFormFile("photo", "room.png")
	require.NoError(a.t, err)
	_, err = fw.Write([]byte("\x89PNG\r\n\x1a\nfake"))
	require.NoError(a.t, err)
	require.NoError(a.t, mw.Close())

	status, body := a.do(http.MethodPost, "/rooms", token, &buf, mw.FormDataContentType())
	var room model.RoomResponse
	if status == http.StatusCreated {
		require.NoError(a.t, json.Unmarshal(body, &room))
	}
	return status, room
}

func booking(in, out string) map[string]any {
	return map[string]any{
		"check_in_date":   in,
		"check_out_date":  out,
		"guest_full_name": "Ada Lovelace",
		"guest_email":     "guest@hotel.test",
		"num_of_adults":   2,
		"num_of_children": 0,
	}
}

func TestHealthCheck(t *testing.T) {
	api := newTestAPI(t)

	status, body := api.do(http.MethodGet, "/health", "", nil, "")

	assert.Equal(t, http.StatusOK, status)
	assert.JSONEq(t, `{"status":"ok"}`, string(body))
}

func TestRoomAdministrationRequiresAdmin(t *testing.T) {
	api := newTestAPI(t)
	guest := api.register("guest@hotel.test")

	status, _ := api.addRoom("", "Suite", "200")
	assert.Equal(t, http.StatusUnauthorized, status)

	status, _ = api.addRoom(guest, "Suite", "200")
	assert.Equal(t, http.StatusForbidden, status)

	status, _ = api.addRoom("garbage", "Suite", "200")
	assert.Equal(t, http.StatusUnauthorized, status)

	admin := api.login(adminEmail, adminPassword)
	status, room := api.addRoom(admin, "Suite", "200")
	require.Equal(t, http.StatusCreated, status)
	assert.Equal(t, "Suite", room.RoomType)
	assert.NotEmpty(t, room.Photo)

	status, _ = api.addRoom(admin, "Suite", "abc")
	assert.Equal(t, http.StatusBadRequest, status)
}

func TestAddRoomRejectsUnstorablePrices(t *testing.T) {
	api := newTestAPI(t)
	admin := api.login(adminEmail, adminPassword)

	for _, price := range []string{"0.004", "1000000000", "0"} {
		status, _ := api.addRoom(admin, "Suite", price)
		assert.Equal(t, http.StatusBadRequest, status, price)
	}
	status, room := api.addRoom(admin, "Suite", "199.99")
	require.Equal(t, http.StatusCreated, status)
	assert.Equal(t, 199.99, room.RoomPrice)
}

func TestBookingFlow(t *testing.T) {
	api := newTestAPI(t)
	admin := api.login(adminEmail, adminPassword)
	_, room := api.addRoom(admin, "Double", "120")

	status, body := api.json(http.MethodPost, "/rooms/"+room.ID+"/bookings", "", booking("2024-01-01", "2024-01-05"))
	require.Equal(t, http.StatusCreated, status, string(body))
	var confirmation model.BookingConfirmation
	require.NoError(t, json.Unmarshal(body, &confirmation))
	assert.Len(t, confirmation.ConfirmationCode, 10)

	status, _ = api.json(http.MethodPost, "/rooms/"+room.ID+"/bookings", "", booking("2024-01-01", "2024-01-05"))
	assert.Equal(t, http.StatusConflict, status)

	status, _ = api.json(http.MethodPost, "/rooms/"+room.ID+"/bookings", "", booking("2024-01-05", "2024-01-05"))
	assert.Equal(t, http.StatusBadRequest, status)

	status, _ = api.json(http.MethodPost, "/rooms/missing/bookings", "", booking("2024-03-01", "2024-03-05"))
	assert.Equal(t, http.StatusNotFound, status)

	status, body = api.do(http.MethodGet, "/bookings/confirmation/"+confirmation.ConfirmationCode, "", nil, "")
	require.Equal(t, http.StatusOK, status)
	var found model.BookingResponse
	require.NoError(t, json.Unmarshal(body, &found))
	assert.Equal(t, confirmation.BookingID, found.ID)
	assert.Equal(t, "2024-01-01", found.CheckInDate.String())

	status, body = api.do(http.MethodGet, "/rooms/"+room.ID, "", nil, "")
	require.Equal(t, http.StatusOK, status)
	var got model.RoomResponse
	require.NoError(t, json.Unmarshal(body, &got))
	assert.True(t, got.IsBooked)
	assert.Len(t, got.Bookings, 1)

	status, _ = api.do(http.MethodDelete, "/bookings/"+confirmation.BookingID, "", nil, "")
	assert.Equal(t, http.StatusNoContent, status)
	status, _ = api.json(http.MethodPost, "/rooms/"+room.ID+"/bookings", "", booking("2024-01-01", "2024-01-05"))
	assert.Equal(t, http.StatusCreated, status)
}

func TestBookingListsAreRestricted(t *testing.T) {
	api := newTestAPI(t)
	admin := api.login(adminEmail, adminPassword)
	guest := api.register("guest@hotel.test")
	other := api.register("other@hotel.test")
	_, room := api.addRoom(admin, "Double", "120")
	status, _ := api.json(http.MethodPost, "/rooms/"+room.ID+"/bookings", "", booking("2024-01-01", "2024-01-05"))
	require.Equal(t, http.StatusCreated, status)

	status, _ = api.do(http.MethodGet, "/bookings", "", nil, "")
	assert.Equal(t, http.StatusUnauthorized, status)
	status, _ = api.do(http.MethodGet, "/bookings", guest, nil, "")
	assert.Equal(t, http.StatusForbidden, status)
	status, _ = api.do(http.MethodGet, "/bookings", admin, nil, "")
	assert.Equal(t, http.StatusOK, status)

	status, body := api.do(http.MethodGet, "/bookings/user/guest@hotel.test", guest, nil, "")
	require.Equal(t, http.StatusOK, status)
	var mine []model.BookingResponse
	require.NoError(t, json.Unmarshal(body, &mine))
	assert.Len(t, mine, 1)

	status, _ = api.do(http.MethodGet, "/bookings/user/guest@hotel.test", other, nil, "")
	assert.Equal(t, http.StatusForbidden, status)
	status, _ = api.do(http.MethodGet, "/bookings/user/guest@hotel.test", admin, nil, "")
	assert.Equal(t, http.StatusOK, status)
}

func TestRoomBookingsAreRestricted(t *testing.T) {
	api := newTestAPI(t)
	admin := api.login(adminEmail, adminPassword)
	guest := api.register("guest@hotel.test")
	_, room := api.addRoom(admin, "Double", "120")
	status, _ := api.json(http.MethodPost, "/rooms/"+room.ID+"/bookings", "", booking("2024-01-01", "2024-01-05"))
	require.Equal(t, http.StatusCreated, status)

	path := "/rooms/" + room.ID + "/bookings"
	status, body := api.do(http.MethodGet, path, "", nil, "")
	assert.Equal(t, http.StatusUnauthorized, status)
	assert.NotContains(t, string(body), "guest@hotel.test")

	status, body = api.do(http.MethodGet, path, guest, nil, "")
	assert.Equal(t, http.StatusForbidden, status)
	assert.NotContains(t, string(body), "guest@hotel.test")

	status, body = api.do(http.MethodGet, path, admin, nil, "")
	require.Equal(t, http.StatusOK, status, string(body))
	assert.NotContains(t, string(body), "guest_email")
	assert.NotContains(t, string(body), "guest_full_name")
	var stays []model.BookingInfo
	require.NoError(t, json.Unmarshal(body, &stays))
	require.Len(t, stays, 1)
	assert.Equal(t, "2024-01-01", stays[0].CheckInDate.String())
	assert.NotEmpty(t, stays[0].ConfirmationCode)
}

func TestAvailableRooms(t *testing.T) {
	api := newTestAPI(t)
	admin := api.login(adminEmail, adminPassword)
	_, booked := api.addRoom(admin, "Suite", "300")
	_, free := api.addRoom(admin, "Suite", "300")
	status, _ := api.json(http.MethodPost, "/rooms/"+booked.ID+"/bookings", "", booking("2024-06-01", "2024-06-04"))
	require.Equal(t, http.StatusCreated, status)

	status, body := api.do(http.MethodGet, "/rooms/available?check_in_date=2024-06-01&check_out_date=2024-06-04&room_type=suite", "", nil, "")
	require.Equal(t, http.StatusOK, status, string(body))
	var rooms []model.RoomResponse
	require.NoError(t, json.Unmarshal(body, &rooms))
	require.Len(t, rooms, 1)
	assert.Equal(t, free.ID, rooms[0].ID)

	status, _ = api.do(http.MethodGet, "/rooms/available?check_in_date=06/01/2024&check_out_date=2024-06-04", "", nil, "")
	assert.Equal(t, http.StatusBadRequest, status)

	status, body = api.do(http.MethodGet, "/rooms/types", "", nil, "")
	require.Equal(t, http.StatusOK, status)
	assert.JSONEq(t, `["Suite"]`, string(body))
}

func TestRoomPhoto(t *testing.T) {
	api := newTestAPI(t)
	admin := api.login(adminEmail, adminPassword)
	_, room := api.addRoom(admin, "Single", "90")

	status, body := api.do(http.MethodGet, "/rooms/"+room.ID+"/photo", "", nil, "")

	require.Equal(t, http.StatusOK, status)
	assert.True(t, bytes.HasPrefix(body, []byte("\x89PNG")))

	status, _ = api.do(http.MethodGet, "/rooms/missing/photo", "", nil, "")
	assert.Equal(t, http.StatusNotFound, status)
}

func TestUserEndpoints(t *testing.T) {
	api := newTestAPI(t)
	admin := api.login(adminEmail, adminPassword)
	guest := api.register("guest@hotel.test")
	api.register("other@hotel.test")

	status, _ := api.json(http.MethodPost, "/auth/register-user", "", map[string]string{
		"first_name": "Dup", "last_name": "User", "email": "guest@hotel.test", "password": "guest-password",
	})
	assert.Equal(t, http.StatusConflict, status)

	status, _ = api.json(http.MethodPost, "/auth/login", "", map[string]string{"email": "guest@hotel.test", "password": "nope-nope"})
	assert.Equal(t, http.StatusUnauthorized, status)

	status, _ = api.do(http.MethodGet, "/users", guest, nil, "")
	assert.Equal(t, http.StatusForbidden, status)
	status, body := api.do(http.MethodGet, "/users", admin, nil, "")
	require.Equal(t, http.StatusOK, status)
	var users []model.User
	require.NoError(t, json.Unmarshal(body, &users))
	assert.Len(t, users, 3)
	assert.NotContains(t, string(body), "password")

	status, _ = api.do(http.MethodGet, "/users/other@hotel.test", guest, nil, "")
	assert.Equal(t, http.StatusOK, status)

	status, _ = api.do(http.MethodDelete, "/users/other@hotel.test", guest, nil, "")
	assert.Equal(t, http.StatusForbidden, status)
	status, _ = api.do(http.MethodDelete, "/users/guest@hotel.test", guest, nil, "")
	assert.Equal(t, http.StatusNoContent, status)
	status, _ = api.do(http.MethodDelete, "/users/other@hotel.test", admin, nil, "")
	assert.Equal(t, http.StatusNoContent, status)
	status, _ = api.do(http.MethodGet, "/users/other@hotel.test", admin, nil, "")
	assert.Equal(t, http.StatusNotFound, status)
}

func TestRoleEndpoints(t *testing.T) {
	api := newTestAPI(t)
	admin := api.login(adminEmail, adminPassword)
	guest := api.register("guest@hotel.test")

	status, _ := api.do(http.MethodGet, "/roles", guest, nil, "")
	assert.Equal(t, http.StatusForbidden, status)

	status, body := api.json(http.MethodPost, "/roles", admin, map[string]string{"name": "manager"})
	require.Equal(t, http.StatusCreated, status, string(body))
	var role model.Role
	require.NoError(t, json.Unmarshal(body, &role))
	assert.Equal(t, "ROLE_MANAGER", role.Name)

	status, _ = api.json(http.MethodPost, "/roles", admin, map[string]string{"name": "manager"})
	assert.Equal(t, http.StatusConflict, status)

	status, body = api.do(http.MethodGet, "/users/guest@hotel.test", admin, nil, "")
	require.Equal(t, http.StatusOK, status)
	var user model.User
	require.NoError(t, json.Unmarshal(body, &user))

	status, body = api.do(http.MethodPost, "/roles/"+role.ID+"/users/"+user.ID, admin, nil, "")
	require.Equal(t, http.StatusOK, status, string(body))
	assert.True(t, strings.Contains(string(body), "ROLE_MANAGER"))
	status, _ = api.do(http.MethodPost, "/roles/"+role.ID+"/users/"+user.ID, admin, nil, "")
	assert.Equal(t, http.StatusConflict, status)

	status, _ = api.do(http.MethodDelete, "/roles/"+role.ID+"/users/"+user.ID, admin, nil, "")
	assert.Equal(t, http.StatusOK, status)
	status, _ = api.do(http.MethodDelete, "/roles/"+role.ID+"/users/"+user.ID, admin, nil, "")
	assert.Equal(t, http.StatusNotFound, status)

	status, _ = api.do(http.MethodPost, "/roles/"+role.ID+"/users/remove-all", admin, nil, "")
	assert.Equal(t, http.StatusOK, status)
	status, _ = api.do(http.MethodDelete, "/roles/"+role.ID, admin, nil, "")
	assert.Equal(t, http.StatusNoContent, status)
	status, _ = api.do(http.MethodDelete, "/roles/"+role.ID, admin, nil, "")
	assert.Equal(t, http.StatusNotFound, status)
}
