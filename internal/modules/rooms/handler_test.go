package rooms

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"hoteldesk/internal/domain"
)

type envelope struct {
	Success bool            `json:"success"`
	Data    json.RawMessage `json:"data"`
	Error   struct {
		Code    string            `json:"code"`
		Message string            `json:"message"`
		Details map[string]string `json:"details"`
	} `json:"error"`
}

func setupRouter(t *testing.T, repo *MockHotelRepository) (*gin.Engine, *Service) {
	t.Helper()
	gin.SetMode(gin.TestMode)
	s, _, _ := newTestService(t, repo)
	r := gin.New()
	NewHandler(s).RegisterRoutes(r.Group("/api/v1"))
	return r, s
}

func doJSON(t *testing.T, r http.Handler, method, path, body string) (*httptest.ResponseRecorder, envelope) {
	t.Helper()
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	var env envelope
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &env), w.Body.String())
	return w, env
}

func TestHandler_AddRoom_Success(t *testing.T) {
	r, _ := setupRouter(t, okRepo())

	w, env := doJSON(t, r, http.MethodPost, "/api/v1/rooms",
		`{"number":"101","type":"SingleRoom","price":"1000","amenities":["wifi"]}`)

	assert.Equal(t, http.StatusCreated, w.Code)
	assert.True(t, env.Success)
	var data struct {
		Room RoomResponse `json:"room"`
	}
	require.NoError(t, json.Unmarshal(env.Data, &data))
	assert.Equal(t, domain.RoomNumber("101"), data.Room.Number)
	assert.Equal(t, 1000.0, data.Room.Price)
	assert.Equal(t, "Single Room — ₹1000", data.Room.Description)
	assert.Equal(t, []string{"wifi"}, data.Room.Amenities)
	assert.Nil(t, data.Room.Booking)
}

func TestHandler_AddRoom_AcceptsRoomTypeKey(t *testing.T) {
	r, s := setupRouter(t, okRepo())

	w, _ := doJSON(t, r, http.MethodPost, "/api/v1/rooms", `{"number":"201","roomType":"DoubleRoom","price":1500}`)

	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	d, err := s.GetRoom("201")
	require.NoError(t, err)
	assert.Equal(t, domain.RoomDouble, d.Room.Type)
}

func TestHandler_AddRoom_RequiresType(t *testing.T) {
	r, s := setupRouter(t, okRepo())

	w, env := doJSON(t, r, http.MethodPost, "/api/v1/rooms", `{"number":"301","price":8000}`)

	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, "VALIDATION_ERROR", env.Error.Code)
	assert.Contains(t, env.Error.Details, "type")
	_, err := s.GetRoom("301")
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestHandler_AddRoom_ValidationErrors(t *testing.T) {
	r, _ := setupRouter(t, okRepo())

	cases := []struct {
		name string
		body string
	}{
		{name: "malformed json", body: `{"number":`},
		{name: "missing number", body: `{"type":"SingleRoom","price":1000}`},
		{name: "missing price", body: `{"number":"101","type":"SingleRoom"}`},
		{name: "missing type", body: `{"number":"101","price":1000}`},
		{name: "non numeric price", body: `{"number":"101","type":"SingleRoom","price":"cheap"}`},
		{name: "unknown type", body: `{"number":"101","price":1000,"type":"Penthouse"}`},
		{name: "negative price", body: `{"number":"101","type":"SingleRoom","price":-5}`},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			w, env := doJSON(t, r, http.MethodPost, "/api/v1/rooms", tc.body)
			assert.Equal(t, http.StatusBadRequest, w.Code)
			assert.False(t, env.Success)
			assert.Equal(t, "VALIDATION_ERROR", env.Error.Code)
		})
	}
}

func TestHandler_AddRoom_Conflict(t *testing.T) {
	r, _ := setupRouter(t, okRepo())
	doJSON(t, r, http.MethodPost, "/api/v1/rooms", `{"number":"101","type":"SingleRoom","price":1000}`)

	w, env := doJSON(t, r, http.MethodPost, "/api/v1/rooms", `{"number":"101","type":"SingleRoom","price":1000}`)

	assert.Equal(t, http.StatusConflict, w.Code)
	assert.Equal(t, "CONFLICT", env.Error.Code)
}

func TestHandler_BookRoom_Flow(t *testing.T) {
	r, _ := setupRouter(t, okRepo())
	doJSON(t, r, http.MethodPost, "/api/v1/rooms", `{"number":"101","type":"SingleRoom","price":1000}`)

	w, env := doJSON(t, r, http.MethodPost, "/api/v1/rooms/101/book",
		`{"guestName":"Asha","checkIn":"2024-05-01","checkOut":"2024-05-03","guestCount":2}`)
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	var booked struct {
		Booking BookingResponse `json:"booking"`
	}
	require.NoError(t, json.Unmarshal(env.Data, &booked))
	assert.Equal(t, "101", booked.Booking.RoomNumber)
	assert.Equal(t, 2, booked.Booking.Nights)
	assert.Equal(t, "ABCD1234", *booked.Booking.ConfirmationNumber)

	w, env = doJSON(t, r, http.MethodGet, "/api/v1/rooms/101", "")
	require.Equal(t, http.StatusOK, w.Code)
	var got struct {
		Room RoomResponse `json:"room"`
	}
	require.NoError(t, json.Unmarshal(env.Data, &got))
	assert.True(t, got.Room.IsBooked)
	require.NotNil(t, got.Room.Booking)
	assert.Equal(t, "Asha", got.Room.Booking.GuestName)

	w, env = doJSON(t, r, http.MethodPost, "/api/v1/rooms/101/book",
		`{"guestName":"Ravi","checkIn":"2024-05-01","checkOut":"2024-05-02"}`)
	assert.Equal(t, http.StatusConflict, w.Code)
	assert.Equal(t, "INVALID_STATE", env.Error.Code)

	w, _ = doJSON(t, r, http.MethodPost, "/api/v1/rooms/101/checkin", "")
	assert.Equal(t, http.StatusOK, w.Code)
	w, _ = doJSON(t, r, http.MethodPost, "/api/v1/rooms/101/checkout", "")
	assert.Equal(t, http.StatusOK, w.Code)

	w, env = doJSON(t, r, http.MethodGet, "/api/v1/rooms?status=available", "")
	require.Equal(t, http.StatusOK, w.Code)
	var list struct {
		Rooms []RoomResponse `json:"rooms"`
		Count int            `json:"count"`
	}
	require.NoError(t, json.Unmarshal(env.Data, &list))
	assert.Equal(t, 1, list.Count)
}

func TestHandler_BookRoom_Validation(t *testing.T) {
	r, _ := setupRouter(t, okRepo())
	doJSON(t, r, http.MethodPost, "/api/v1/rooms", `{"number":"101","type":"SingleRoom","price":1000}`)

	w, env := doJSON(t, r, http.MethodPost, "/api/v1/rooms/101/book",
		`{"guestName":"Asha","checkIn":"01/05/2024","checkOut":"2024-05-03"}`)
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, "isodate", env.Error.Details["checkIn"])

	w, env = doJSON(t, r, http.MethodPost, "/api/v1/rooms/101/book",
		`{"guestName":"Asha","checkIn":"2024-05-03","checkOut":"2024-05-01"}`)
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, "VALIDATION_ERROR", env.Error.Code)
}

func TestHandler_BookRoom_MaintenanceNamesStatus(t *testing.T) {
	r, _ := setupRouter(t, okRepo())
	doJSON(t, r, http.MethodPost, "/api/v1/rooms", `{"number":"102","type":"DoubleRoom","price":1500}`)
	w, _ := doJSON(t, r, http.MethodPut, "/api/v1/rooms/102/status", `{"status":"maintenance","notes":"leak"}`)
	require.Equal(t, http.StatusOK, w.Code)

	w, env := doJSON(t, r, http.MethodPost, "/api/v1/rooms/102/book",
		`{"guestName":"Asha","checkIn":"2024-05-01","checkOut":"2024-05-03"}`)

	assert.Equal(t, http.StatusConflict, w.Code)
	assert.Contains(t, env.Error.Message, "maintenance")
}

func TestHandler_UnknownRoom(t *testing.T) {
	r, _ := setupRouter(t, okRepo())

	for _, path := range []string{"/api/v1/rooms/999", "/api/v1/rooms/999/checkin"} {
		method := http.MethodGet
		if strings.HasSuffix(path, "checkin") {
			method = http.MethodPost
		}
		w, env := doJSON(t, r, method, path, "")
		assert.Equal(t, http.StatusNotFound, w.Code, path)
		assert.Equal(t, "NOT_FOUND", env.Error.Code)
	}
}

func TestHandler_ModifyBooking(t *testing.T) {
	r, _ := setupRouter(t, okRepo())
	doJSON(t, r, http.MethodPost, "/api/v1/rooms", `{"number":"101","type":"SingleRoom","price":1000}`)
	doJSON(t, r, http.MethodPost, "/api/v1/rooms/101/book",
		`{"guestName":"Asha","checkIn":"2024-05-01","checkOut":"2024-05-03"}`)

	w, env := doJSON(t, r, http.MethodPut, "/api/v1/rooms/101/booking", `{"checkOut":"2024-05-05"}`)

	require.Equal(t, http.StatusOK, w.Code)
	var data struct {
		Booking BookingResponse `json:"booking"`
	}
	require.NoError(t, json.Unmarshal(env.Data, &data))
	assert.Equal(t, 4, data.Booking.Nights)
	assert.Equal(t, "Asha", data.Booking.GuestName)

	w, _ = doJSON(t, r, http.MethodPut, "/api/v1/rooms/101/booking", `{}`)
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w, env = doJSON(t, r, http.MethodPut, "/api/v1/rooms/101/booking", `{"guestEmail":"not-an-email"}`)
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, "email", env.Error.Details["guestEmail"])

	w, env = doJSON(t, r, http.MethodPut, "/api/v1/rooms/101/booking", `{"guestEmail":"asha@example.com"}`)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	data.Booking = BookingResponse{}
	require.NoError(t, json.Unmarshal(env.Data, &data))
	require.NotNil(t, data.Booking.GuestEmail)
	assert.Equal(t, "asha@example.com", *data.Booking.GuestEmail)

	w, env = doJSON(t, r, http.MethodPut, "/api/v1/rooms/101/booking", `{"guestEmail":""}`)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	data.Booking = BookingResponse{}
	require.NoError(t, json.Unmarshal(env.Data, &data))
	assert.Nil(t, data.Booking.GuestEmail)
}

func TestHandler_UpdateRoom_LockedWhileBooked(t *testing.T) {
	r, _ := setupRouter(t, okRepo())
	doJSON(t, r, http.MethodPost, "/api/v1/rooms", `{"number":"101","type":"SingleRoom","price":1000}`)
	doJSON(t, r, http.MethodPost, "/api/v1/rooms/101/book",
		`{"guestName":"Asha","checkIn":"2024-05-01","checkOut":"2024-05-03"}`)

	w, env := doJSON(t, r, http.MethodPut, "/api/v1/rooms/101", `{"price":1200}`)

	assert.Equal(t, http.StatusConflict, w.Code)
	assert.Equal(t, "INVALID_STATE", env.Error.Code)

	w, _ = doJSON(t, r, http.MethodDelete, "/api/v1/rooms/101", "")
	assert.Equal(t, http.StatusConflict, w.Code)
}

func TestHandler_PersistenceError(t *testing.T) {
	repo := new(MockHotelRepository)
	repo.On("Save", mock.Anything).Return(&domain.PersistenceError{Op: "rename", Err: errors.New("read-only file system")})
	r, _ := setupRouter(t, repo)

	w, env := doJSON(t, r, http.MethodPost, "/api/v1/rooms", `{"number":"101","type":"SingleRoom","price":1000}`)

	assert.Equal(t, http.StatusInternalServerError, w.Code)
	assert.Equal(t, "PERSISTENCE_ERROR", env.Error.Code)

	w, _ = doJSON(t, r, http.MethodGet, "/api/v1/rooms/101", "")
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestHandler_Reconcile(t *testing.T) {
	r, _ := setupRouter(t, okRepo())

	w, env := doJSON(t, r, http.MethodPost, "/api/v1/maintenance/reconcile", "")

	require.Equal(t, http.StatusOK, w.Code)
	var data ReconcileResponse
	require.NoError(t, json.Unmarshal(env.Data, &data))
	assert.False(t, data.Changed)
	assert.Empty(t, data.Repaired)
}
