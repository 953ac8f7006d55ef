package audit

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/connector-stripe/internal/connector/middleware"
	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type MockPublisher struct {
	mock.Mock
}

func (m *MockPublisher) Publish(ctx context.Context, key string, value interface{}) error {
	args := m.Called(ctx, key, value)
	return args.Error(0)
}

func (m *MockPublisher) Close() error {
	return m.Called().Error(0)
}

func TestRecorder_Record(t *testing.T) {
	ctx := context.Background()
	fixed := time.Date(2024, 5, 1, 10, 0, 0, 0, time.UTC)

	t.Run("LogsAndPublishes", func(t *testing.T) {
		var buf bytes.Buffer
		logger := slog.New(slog.NewJSONHandler(&buf, nil))
		publisher := new(MockPublisher)
		recorder := NewRecorder(logger, publisher)
		recorder.now = func() time.Time { return fixed }

		publisher.On("Publish", ctx, "org-1", Event{
			Evt:           "billing.charges.list",
			OrgID:         "org-1",
			CorrelationID: "corr-1",
			OccurredAt:    fixed,
			Attrs:         map[string]interface{}{"resultCount": 3},
		}).Return(nil).Once()

		recorder.Record(ctx, "billing.charges.list", "org-1", "corr-1", map[string]interface{}{"resultCount": 3})

		var logged map[string]interface{}
		require.NoError(t, json.Unmarshal(buf.Bytes(), &logged))
		assert.Equal(t, "billing.charges.list", logged["msg"])
		assert.Equal(t, "billing.charges.list", logged["evt"])
		assert.Equal(t, "org-1", logged["org_id"])
		assert.Equal(t, "corr-1", logged["correlation_id"])
		assert.Equal(t, float64(3), logged["resultCount"])
		publisher.AssertExpectations(t)
	})

	t.Run("PublishFailureIsSwallowed", func(t *testing.T) {
		var buf bytes.Buffer
		logger := slog.New(slog.NewJSONHandler(&buf, nil))
		publisher := new(MockPublisher)
		recorder := NewRecorder(logger, publisher)

		publisher.On("Publish", ctx, "org-1", mock.AnythingOfType("audit.Event")).Return(errors.New("broker down")).Once()

		assert.NotPanics(t, func() {
			recorder.Record(ctx, "billing.balance.retrieve", "org-1", "", nil)
		})
		assert.Contains(t, buf.String(), "Failed to publish billing event")
		publisher.AssertExpectations(t)
	})

	t.Run("LogOnlyWithoutPublisher", func(t *testing.T) {
		var buf bytes.Buffer
		recorder := NewRecorder(slog.New(slog.NewJSONHandler(&buf, nil)), nil)

		recorder.Record(ctx, "billing.balance.retrieve", "dev-org", "", nil)
		assert.Contains(t, buf.String(), `"evt":"billing.balance.retrieve"`)
		assert.NotContains(t, buf.String(), "correlation_id")
	})
}

func TestRecorder_CorrelationFromRequestContext(t *testing.T) {
	gin.SetMode(gin.TestMode)

	var buf bytes.Buffer
	recorder := NewRecorder(slog.New(slog.NewJSONHandler(&buf, nil)), nil)

	router := gin.New()
	router.Use(middleware.CorrelationID())
	router.GET("/", func(c *gin.Context) {
		recorder.Record(c.Request.Context(), "billing.balance.retrieve", "org-1", "", nil)
		c.Status(http.StatusNoContent)
	})

	req, _ := http.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set(middleware.CorrelationIDHeader, "corr-from-header")
	router.ServeHTTP(httptest.NewRecorder(), req)

	var logged map[string]interface{}
	require.NoError(t, json.Unmarshal(buf.Bytes(), &logged))
	assert.Equal(t, "corr-from-header", logged["correlation_id"])
}

func TestEvent_JSON(t *testing.T) {
	payload, err := json.Marshal(Event{
		Evt:        "billing.payouts.unremitted",
		OrgID:      "org-1",
		OccurredAt: time.Date(2024, 5, 1, 10, 0, 0, 0, time.UTC),
		Attrs:      map[string]interface{}{"pendingCount": 2},
	})
	require.NoError(t, err)
	assert.JSONEq(t, `{
		"evt": "billing.payouts.unremitted",
		"orgId": "org-1",
		"occurredAt": "2024-05-01T10:00:00Z",
		"attrs": {"pendingCount": 2}
	}`, string(payload))
}
