package http_test

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"

	commonHTTP "github.com/ThreeDotsLabs/go-event-driven/common/http"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"riad/internal/application/usecases/intake"
	"riad/internal/application/usecases/prearrival"
	"riad/internal/domain/bookings"
	"riad/internal/idempotency"
	riadHTTP "riad/internal/interfaces/http"
)

type IntakeMock struct {
	lock sync.Mutex

	Err           error
	Notifications []bookings.Notification
	Keys          []string
}

func (m *IntakeMock) Accept(ctx context.Context, n bookings.Notification) (intake.Outcome, error) {
	m.lock.Lock()
	defer m.lock.Unlock()

	m.Notifications = append(m.Notifications, n)
	m.Keys = append(m.Keys, idempotency.GetKey(ctx))

	if !n.PaymentCompleted() {
		return intake.Outcome{}, fmt.Errorf("status %q: %w", n.PaypalStatus, bookings.ErrPaymentNotCompleted)
	}
	if m.Err != nil {
		return intake.Outcome{}, m.Err
	}
	return intake.Outcome{BookingID: "RDS-1718000000000", StoreWritten: true}, nil
}

type JobMock struct {
	Report prearrival.Report
	Err    error
	Runs   int
}

func (j *JobMock) Run(context.Context) (prearrival.Report, error) {
	j.Runs++
	return j.Report, j.Err
}

func newServer(t *testing.T, in *IntakeMock, job *JobMock) *riadHTTP.Server {
	t.Helper()

	return riadHTTP.NewServer(
		commonHTTP.NewEcho(),
		riadHTTP.Config{CronSecret: "s3cret", DashboardURL: "ops.riaddisiena.com"},
		in,
		job,
		func() bool { return true },
	)
}

func do(t *testing.T, srv http.Handler, req *http.Request) (int, map[string]any) {
	t.Helper()

	rec := httptest.NewRecorder()
	srv.ServeHTTP(rec, req)

	var body map[string]any
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body), rec.Body.String())
	return rec.Code, body
}

func postBooking(body string) *http.Request {
	req := httptest.NewRequest(http.MethodPost, "/api/bookings", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	return req
}

func TestCreateBooking(t *testing.T) {
	in := &IntakeMock{}
	srv := newServer(t, in, &JobMock{})

	req := postBooking(`{"firstName":"Amal","lastName":"Idrissi","email":"a@x.com","checkIn":"2025-06-10",
		"checkOut":"2025-06-13","nights":3,"guests":"2","total":450,"paypalOrderId":"PO123",
		"paypalStatus":"COMPLETED","room":"Jasmine Room","property":"Riad di Siena"}`)
	req.Header.Set("Idempotency-Key", "PO123")

	code, body := do(t, srv, req)

	assert.Equal(t, http.StatusOK, code)
	assert.Equal(t, map[string]any{
		"success":   true,
		"bookingId": "RDS-1718000000000",
		"message":   "Booking confirmed",
	}, body)

	require.Len(t, in.Notifications, 1)
	assert.Equal(t, bookings.Number(2), in.Notifications[0].Guests)
	assert.Equal(t, []string{"PO123"}, in.Keys)
}

func TestCreateBooking_payment_not_completed(t *testing.T) {
	srv := newServer(t, &IntakeMock{}, &JobMock{})

	code, body := do(t, srv, postBooking(`{"email":"a@x.com","paypalStatus":"PENDING"}`))

	assert.Equal(t, http.StatusBadRequest, code)
	assert.Equal(t, map[string]any{
		"success":      false,
		"error":        "Payment not completed",
		"paypalStatus": "PENDING",
	}, body)
}

func TestCreateBooking_malformed_body(t *testing.T) {
	in := &IntakeMock{}
	srv := newServer(t, in, &JobMock{})

	code, body := do(t, srv, postBooking(`{"email":`))

	assert.Equal(t, http.StatusInternalServerError, code)
	assert.Equal(t, map[string]any{"success": false, "error": "Server error"}, body)
	assert.Empty(t, in.Notifications)
}

func TestCreateBooking_unexpected_error(t *testing.T) {
	srv := newServer(t, &IntakeMock{Err: errors.New("boom")}, &JobMock{})

	code, body := do(t, srv, postBooking(`{"paypalStatus":"COMPLETED"}`))

	assert.Equal(t, http.StatusInternalServerError, code)
	assert.Equal(t, "Server error", body["error"])
}

func TestBookingsInfo(t *testing.T) {
	srv := newServer(t, &IntakeMock{}, &JobMock{})

	code, body := do(t, srv, httptest.NewRequest(http.MethodGet, "/api/bookings", nil))

	assert.Equal(t, http.StatusOK, code)
	assert.Equal(t, "View bookings at ops.riaddisiena.com", body["message"])
}

func TestPreArrival(t *testing.T) {
	job := &JobMock{Report: prearrival.Report{
		TargetDate: "2025-06-10",
		Results: prearrival.Results{
			Sent:    []string{"RDS-1"},
			Skipped: []string{},
			Errors:  []string{"RDS-2: mailbox unavailable"},
		},
	}}
	srv := newServer(t, &IntakeMock{}, job)

	req := httptest.NewRequest(http.MethodGet, "/api/cron/pre-arrival", nil)
	req.Header.Set("Authorization", "Bearer s3cret")

	code, body := do(t, srv, req)

	assert.Equal(t, http.StatusOK, code)
	assert.Equal(t, map[string]any{
		"success":    true,
		"targetDate": "2025-06-10",
		"results": map[string]any{
			"sent":    []any{"RDS-1"},
			"skipped": []any{},
			"errors":  []any{"RDS-2: mailbox unavailable"},
		},
	}, body)
	assert.Equal(t, 1, job.Runs)
}

func TestPreArrival_unauthorized(t *testing.T) {
	testCases := []struct {
		name   string
		header string
	}{
		{name: "missing", header: ""},
		{name: "wrong_secret", header: "Bearer nope"},
		{name: "no_bearer_prefix", header: "s3cret"},
		{name: "basic", header: "Basic s3cret"},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			job := &JobMock{}
			srv := newServer(t, &IntakeMock{}, job)

			req := httptest.NewRequest(http.MethodGet, "/api/cron/pre-arrival", nil)
			if tc.header != "" {
				req.Header.Set("Authorization", tc.header)
			}

			code, body := do(t, srv, req)

			assert.Equal(t, http.StatusUnauthorized, code)
			assert.Equal(t, map[string]any{"error": "Unauthorized"}, body)
			assert.Zero(t, job.Runs)
		})
	}
}

func TestPreArrival_empty_secret_rejects_everything(t *testing.T) {
	job := &JobMock{}
	srv := riadHTTP.NewServer(commonHTTP.NewEcho(), riadHTTP.Config{}, &IntakeMock{}, job, nil)

	req := httptest.NewRequest(http.MethodGet, "/api/cron/pre-arrival", nil)
	req.Header.Set("Authorization", "Bearer ")

	code, _ := do(t, srv, req)

	assert.Equal(t, http.StatusUnauthorized, code)
	assert.Zero(t, job.Runs)
}

func TestPreArrival_read_failure(t *testing.T) {
	job := &JobMock{Err: errors.New("failed to load bookings: 403")}
	srv := newServer(t, &IntakeMock{}, job)

	req := httptest.NewRequest(http.MethodGet, "/api/cron/pre-arrival", nil)
	req.Header.Set("Authorization", "Bearer s3cret")

	code, body := do(t, srv, req)

	assert.Equal(t, http.StatusInternalServerError, code)
	assert.Equal(t, map[string]any{
		"error":   "Internal server error",
		"details": "failed to load bookings: 403",
	}, body)
}
