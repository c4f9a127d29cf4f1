package calculate

import (
	"context"
	"github.com/go-chi/render"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"pichu-go/internal/rates"
	"strings"
	"testing"
	"time"
)

type MockRateResolver struct {
	mock.Mock
}

func (m *MockRateResolver) Resolve(ctx context.Context) rates.Resolution {
	args := m.Called(ctx)
	return args.Get(0).(rates.Resolution)
}

func doCalculate(t *testing.T, resolver RateResolver, body string) *httptest.ResponseRecorder {
	t.Helper()

	handler := Calculate(slog.Default(), resolver, time.Second)

	req := httptest.NewRequest(http.MethodPost, "/api/calculate", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")

	rr := httptest.NewRecorder()
	handler.ServeHTTP(rr, req)

	return rr
}

func TestCalculate_KoreaWithResolvedRates(t *testing.T) {
	mockResolver := new(MockRateResolver)
	mockResolver.On("Resolve", mock.Anything).Return(rates.Resolution{
		Config: rates.Default(),
		Source: rates.SourceDefault,
	})

	rr := doCalculate(t, mockResolver, `{"mode": "KR", "price": 1.0, "local_shipping": null, "people_count": 3}`)

	assert.Equal(t, http.StatusOK, rr.Code)
	assert.Equal(t, "application/json", rr.Header().Get("Content-Type"))

	var resp Resp
	require.NoError(t, render.DecodeJSON(strings.NewReader(rr.Body.String()), &resp))
	assert.Equal(t, "KR", string(resp.Mode))
	assert.Equal(t, int64(3), resp.Participants)
	assert.Equal(t, int64(118000), resp.ItemPrice)
	assert.Equal(t, int64(37733), resp.Fees)
	assert.Equal(t, int64(155733), resp.Total)

	mockResolver.AssertExpectations(t)
}

func TestCalculate_ClientSuppliedRatesSkipResolver(t *testing.T) {
	mockResolver := new(MockRateResolver)

	body := `{
		"mode": "ch",
		"price": 100,
		"local_shipping": 0,
		"people_count": 0,
		"rates": {"rate_ch": 2000, "admin_go": 0}
	}`
	rr := doCalculate(t, mockResolver, body)

	assert.Equal(t, http.StatusOK, rr.Code)
	// 100 * 2000; (0 + 10000) * 2000 + 0
	assert.JSONEq(t, `{
		"mode": "CH",
		"participants": 1,
		"itemPrice": 200000,
		"fees": 20000000,
		"total": 20200000
	}`, rr.Body.String())

	mockResolver.AssertNotCalled(t, "Resolve", mock.Anything)
}

func TestCalculate_InvalidJSON(t *testing.T) {
	mockResolver := new(MockRateResolver)

	rr := doCalculate(t, mockResolver, `{`)

	assert.Equal(t, http.StatusBadRequest, rr.Code)
	assert.Contains(t, rr.Body.String(), "invalid JSON")
	mockResolver.AssertNotCalled(t, "Resolve", mock.Anything)
}

func TestCalculate_UnsupportedMode(t *testing.T) {
	mockResolver := new(MockRateResolver)

	rr := doCalculate(t, mockResolver, `{"mode": "JP", "price": 1, "people_count": 1}`)

	assert.Equal(t, http.StatusBadRequest, rr.Code)
	assert.Contains(t, rr.Body.String(), "unsupported mode")
	mockResolver.AssertNotCalled(t, "Resolve", mock.Anything)
}

func TestCalculate_NegativeInputsAreClamped(t *testing.T) {
	mockResolver := new(MockRateResolver)
	mockResolver.On("Resolve", mock.Anything).Return(rates.Resolution{Config: rates.Default()})

	rr := doCalculate(t, mockResolver, `{"mode": "KR", "price": -5, "local_shipping": -100, "people_count": -2}`)

	assert.Equal(t, http.StatusOK, rr.Code)

	var resp Resp
	require.NoError(t, render.DecodeJSON(strings.NewReader(rr.Body.String()), &resp))
	assert.Equal(t, int64(0), resp.ItemPrice)
	assert.Equal(t, int64(89600), resp.Fees)
	assert.Equal(t, int64(89600), resp.Total)
	assert.Equal(t, int64(1), resp.Participants)
}

func TestCalculate_ResolveIsBoundedByTimeout(t *testing.T) {
	var hasDeadline bool

	mockResolver := new(MockRateResolver)
	mockResolver.On("Resolve", mock.Anything).Run(func(args mock.Arguments) {
		_, hasDeadline = args.Get(0).(context.Context).Deadline()
	}).Return(rates.Resolution{Config: rates.Default(), Source: rates.SourceDefault})

	rr := doCalculate(t, mockResolver, `{"mode": "CH", "price": 1, "people_count": 1}`)

	assert.Equal(t, http.StatusOK, rr.Code)
	assert.True(t, hasDeadline)
	mockResolver.AssertExpectations(t)
}
