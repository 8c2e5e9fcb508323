package handler

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"bitgate/internal/ipn"
	"bitgate/internal/models"
)

type stubProcessor struct {
	result *ipn.Result
	err    error
	calls  int
	raw    []byte
}

func (s *stubProcessor) Process(_ context.Context, raw []byte) (*ipn.Result, error) {
	s.calls++
	s.raw = raw
	return s.result, s.err
}

type stubLogStore struct {
	entries chan *models.IPNLog
}

func newStubLogStore() *stubLogStore {
	return &stubLogStore{entries: make(chan *models.IPNLog, 4)}
}

func (s *stubLogStore) Create(_ context.Context, entry *models.IPNLog) error {
	s.entries <- entry
	return nil
}

func doRequest(h *IPNHandler, method, body string) *httptest.ResponseRecorder {
	e := echo.New()
	req := httptest.NewRequest(method, "/ipn/bitdrive", strings.NewReader(body))
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)
	_ = h.Handle(c)
	return rec
}

func TestHandleSuccess(t *testing.T) {
	proc := &stubProcessor{result: &ipn.Result{
		Outcome:      ipn.OutcomeCompleted,
		Notification: &ipn.Notification{SaleID: "S1"},
		Order:        &models.Order{IncrementID: "100000123"},
	}}
	h := NewIPNHandler(proc, nil, nil, zap.NewNop())

	rec := doRequest(h, http.MethodPost, `{"sale_id":"S1"}`)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, 1, proc.calls)
	assert.Equal(t, `{"sale_id":"S1"}`, string(proc.raw))
	assert.Empty(t, rec.Body.String())
}

func TestHandleIgnoresNonPOST(t *testing.T) {
	proc := &stubProcessor{}
	h := NewIPNHandler(proc, nil, nil, zap.NewNop())

	rec := doRequest(h, http.MethodGet, "")

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Zero(t, proc.calls)
}

func TestHandleOrderNotFoundIsServiceUnavailable(t *testing.T) {
	proc := &stubProcessor{err: ipn.ErrOrderNotFound}
	h := NewIPNHandler(proc, nil, nil, zap.NewNop())

	rec := doRequest(h, http.MethodPost, `{"merchant_invoice":"bogus"}`)

	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
	assert.Empty(t, rec.Body.String())
}

func TestHandleVerificationFailureIsGeneric500(t *testing.T) {
	for _, err := range []error{
		ipn.ErrHashMismatch,
		ipn.ErrMerchantMismatch,
		ipn.ErrInvalidFormat,
		&ipn.MissingFieldError{Field: "amount"},
		ipn.ErrHashAlgorithmUnavailable,
	} {
		proc := &stubProcessor{err: err}
		h := NewIPNHandler(proc, nil, nil, zap.NewNop())

		rec := doRequest(h, http.MethodPost, `{}`)

		assert.Equal(t, http.StatusInternalServerError, rec.Code, "error %v", err)
		// No internal detail may reach the caller.
		assert.Empty(t, rec.Body.String())
	}
}

func TestHandleRecordsIPNLog(t *testing.T) {
	proc := &stubProcessor{err: ipn.ErrHashMismatch}
	logs := newStubLogStore()
	h := NewIPNHandler(proc, logs, nil, zap.NewNop())

	doRequest(h, http.MethodPost, `{"sale_id":"S1"}`)

	select {
	case entry := <-logs.entries:
		assert.Equal(t, "hash_mismatch", entry.Outcome)
		assert.Equal(t, `{"sale_id":"S1"}`, entry.RawBody)
		assert.NotEmpty(t, entry.ID)
	case <-time.After(2 * time.Second):
		t.Fatal("ipn log entry was not recorded")
	}
}

func TestOutcomeLabel(t *testing.T) {
	require.Equal(t, "completed", outcomeLabel(&ipn.Result{Outcome: ipn.OutcomeCompleted}, nil))
	require.Equal(t, "missing_field:amount", outcomeLabel(nil, &ipn.MissingFieldError{Field: "amount"}))
	require.Equal(t, "invalid_format", outcomeLabel(nil, ipn.ErrInvalidFormat))
	require.Equal(t, "order_not_found", outcomeLabel(nil, ipn.ErrOrderNotFound))
	require.Equal(t, "merchant_mismatch", outcomeLabel(nil, ipn.ErrMerchantMismatch))
	require.Equal(t, "hash_mismatch", outcomeLabel(nil, ipn.ErrHashMismatch))
	require.Equal(t, "hash_algorithm_unavailable", outcomeLabel(nil, ipn.ErrHashAlgorithmUnavailable))
}
