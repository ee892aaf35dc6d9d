package http

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nekogravitycat/shareit-backend/internal/auth"
	"github.com/nekogravitycat/shareit-backend/internal/booking"
	"github.com/nekogravitycat/shareit-backend/internal/pkg/request"
)

// stubService records the arguments of the last call and answers with err when set.
type stubService struct {
	err      error
	userID   int64
	state    string
	page     request.Pagination
	approved *bool
	created  booking.CreateRequest
}

func (s *stubService) sample(id int64) *booking.Booking {
	return &booking.Booking{
		ID:     id,
		Status: booking.StatusWaiting,
		Item:   booking.ItemSummary{ID: 10, Name: "Drill", OwnerID: 1},
		Booker: booking.BookerSummary{ID: 2, Name: "Ben"},
	}
}

func (s *stubService) Create(_ context.Context, req booking.CreateRequest) (*booking.Booking, error) {
	s.created = req
	if s.err != nil {
		return nil, s.err
	}
	return s.sample(1), nil
}

func (s *stubService) Approve(_ context.Context, ownerID, bookingID int64, approved bool) (*booking.Booking, error) {
	s.userID = ownerID
	s.approved = &approved
	if s.err != nil {
		return nil, s.err
	}
	b := s.sample(bookingID)
	b.Status = booking.StatusApproved
	return b, nil
}

func (s *stubService) GetByID(_ context.Context, bookingID, userID int64) (*booking.Booking, error) {
	s.userID = userID
	if s.err != nil {
		return nil, s.err
	}
	return s.sample(bookingID), nil
}

func (s *stubService) ListForBooker(_ context.Context, bookerID int64, state string, page request.Pagination) ([]*booking.Booking, error) {
	s.userID, s.state, s.page = bookerID, state, page
	if s.err != nil {
		return nil, s.err
	}
	return []*booking.Booking{}, nil
}

func (s *stubService) ListForOwner(_ context.Context, ownerID int64, state string, page request.Pagination) ([]*booking.Booking, error) {
	s.userID, s.state, s.page = ownerID, state, page
	if s.err != nil {
		return nil, s.err
	}
	return []*booking.Booking{s.sample(3)}, nil
}

func (s *stubService) IsEligibleForComment(context.Context, int64, int64) (bool, error) {
	return false, nil
}

func (s *stubService) Nearest(context.Context, int64) (*booking.Short, *booking.Short, error) {
	return nil, nil, nil
}

func newTestRouter(svc booking.Service) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	RegisterRoutes(r.Group("/v1"), NewHandler(svc), auth.UserRequired(nil))
	return r
}

func do(r *gin.Engine, method, target, userID string, body any) *httptest.ResponseRecorder {
	var buf bytes.Buffer
	if body != nil {
		_ = json.NewEncoder(&buf).Encode(body)
	}
	req := httptest.NewRequest(method, target, &buf)
	req.Header.Set("Content-Type", "application/json")
	if userID != "" {
		req.Header.Set(auth.UserIDHeader, userID)
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func TestCreateBooking(t *testing.T) {
	svc := &stubService{}
	r := newTestRouter(svc)

	start := time.Date(2030, 1, 1, 10, 0, 0, 0, time.UTC)
	w := do(r, http.MethodPost, "/v1/bookings", "2", gin.H{
		"item_id": 10,
		"start":   start,
		"end":     start.Add(time.Hour),
	})

	require.Equal(t, http.StatusCreated, w.Code)
	assert.Equal(t, int64(2), svc.created.BookerID)
	assert.Equal(t, int64(10), svc.created.ItemID)
	assert.True(t, svc.created.Start.Equal(start))

	var resp BookingResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, booking.StatusWaiting, resp.Status)
	assert.Equal(t, "Drill", resp.Item.Name)
}

func TestCreateBookingErrors(t *testing.T) {
	t.Run("missing identity", func(t *testing.T) {
		w := do(newTestRouter(&stubService{}), http.MethodPost, "/v1/bookings", "", gin.H{})
		assert.Equal(t, http.StatusUnauthorized, w.Code)
	})

	t.Run("missing fields", func(t *testing.T) {
		w := do(newTestRouter(&stubService{}), http.MethodPost, "/v1/bookings", "2", gin.H{"item_id": 10})
		assert.Equal(t, http.StatusBadRequest, w.Code)
	})

	t.Run("own item maps to conflict", func(t *testing.T) {
		start := time.Date(2030, 1, 1, 10, 0, 0, 0, time.UTC)
		w := do(newTestRouter(&stubService{err: booking.ErrOwnItem}), http.MethodPost, "/v1/bookings", "1", gin.H{
			"item_id": 10, "start": start, "end": start.Add(time.Hour),
		})
		assert.Equal(t, http.StatusConflict, w.Code)
	})
}

// Booking times are RFC 3339 and must carry a zone offset.
func TestCreateBookingTimeFormat(t *testing.T) {
	tests := []struct {
		name       string
		start, end string
		wantStatus int
		wantStart  time.Time
	}{
		{
			name:       "utc",
			start:      "2030-01-01T10:00:00Z",
			end:        "2030-01-01T11:00:00Z",
			wantStatus: http.StatusCreated,
			wantStart:  time.Date(2030, 1, 1, 10, 0, 0, 0, time.UTC),
		},
		{
			name:       "offset",
			start:      "2030-01-01T10:00:00+02:00",
			end:        "2030-01-01T11:00:00+02:00",
			wantStatus: http.StatusCreated,
			wantStart:  time.Date(2030, 1, 1, 8, 0, 0, 0, time.UTC),
		},
		{
			name:       "no zone",
			start:      "2030-01-01T10:00:00",
			end:        "2030-01-01T11:00:00",
			wantStatus: http.StatusBadRequest,
		},
		{
			name:       "date only",
			start:      "2030-01-01",
			end:        "2030-01-02",
			wantStatus: http.StatusBadRequest,
		},
		{
			name:       "space separator",
			start:      "2030-01-01 10:00:00Z",
			end:        "2030-01-01 11:00:00Z",
			wantStatus: http.StatusBadRequest,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc := &stubService{}
			w := do(newTestRouter(svc), http.MethodPost, "/v1/bookings", "2", gin.H{
				"item_id": 10, "start": tt.start, "end": tt.end,
			})

			require.Equal(t, tt.wantStatus, w.Code)
			if tt.wantStatus == http.StatusCreated {
				assert.True(t, svc.created.Start.Equal(tt.wantStart))
			} else {
				assert.Zero(t, svc.created.ItemID)
			}
		})
	}
}

func TestDecide(t *testing.T) {
	t.Run("approved flag is passed through", func(t *testing.T) {
		svc := &stubService{}
		w := do(newTestRouter(svc), http.MethodPatch, "/v1/bookings/5?approved=false", "1", nil)
		require.Equal(t, http.StatusOK, w.Code)
		require.NotNil(t, svc.approved)
		assert.False(t, *svc.approved)
		assert.Equal(t, int64(1), svc.userID)
	})

	t.Run("approved flag required", func(t *testing.T) {
		w := do(newTestRouter(&stubService{}), http.MethodPatch, "/v1/bookings/5", "1", nil)
		assert.Equal(t, http.StatusBadRequest, w.Code)
	})

	t.Run("disguised as not found", func(t *testing.T) {
		w := do(newTestRouter(&stubService{err: booking.ErrNotFound}), http.MethodPatch, "/v1/bookings/5?approved=true", "2", nil)
		assert.Equal(t, http.StatusNotFound, w.Code)
	})
}

func TestListForBooker(t *testing.T) {
	t.Run("defaults", func(t *testing.T) {
		svc := &stubService{}
		w := do(newTestRouter(svc), http.MethodGet, "/v1/bookings", "2", nil)
		require.Equal(t, http.StatusOK, w.Code)
		assert.JSONEq(t, "[]", w.Body.String())
		assert.Equal(t, "", svc.state)
		assert.Equal(t, request.DefaultPagination(), svc.page)
	})

	t.Run("query values", func(t *testing.T) {
		svc := &stubService{}
		w := do(newTestRouter(svc), http.MethodGet, "/v1/bookings?state=PAST&from=20&size=5", "2", nil)
		require.Equal(t, http.StatusOK, w.Code)
		assert.Equal(t, "PAST", svc.state)
		assert.Equal(t, request.Pagination{From: 20, Size: 5}, svc.page)
	})

	t.Run("unsupported state", func(t *testing.T) {
		w := do(newTestRouter(&stubService{err: booking.ErrUnsupportedState}), http.MethodGet, "/v1/bookings?state=NOPE", "2", nil)
		assert.Equal(t, http.StatusBadRequest, w.Code)
		assert.JSONEq(t, `{"error":"Unknown state: UNSUPPORTED_STATUS"}`, w.Body.String())
	})
}

func TestListForOwner(t *testing.T) {
	svc := &stubService{}
	w := do(newTestRouter(svc), http.MethodGet, "/v1/bookings/owner?state=CURRENT", "1", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, int64(1), svc.userID)
	assert.Equal(t, "CURRENT", svc.state)

	var resp []BookingResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	require.Len(t, resp, 1)
	assert.Equal(t, int64(3), resp[0].ID)
}
