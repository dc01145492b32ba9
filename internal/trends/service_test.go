package trends

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/abhisek/prepcoach/internal/apperr"
	"github.com/abhisek/prepcoach/internal/store"
)

func TestServiceInsights(t *testing.T) {
	st, err := store.Open(":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { st.Close() })

	ctx := context.Background()
	history := st.HistoryRepo()
	appendAt := func(user string, at time.Time, score int) {
		t.Helper()
		_, err := history.Append(ctx, store.MetricSnapshot{
			UserID: user, Timestamp: at, OverallScore: score,
			ConfidenceLevel: 80, ClarityScore: 85, WordsPerMinute: 150,
		})
		require.NoError(t, err)
	}

	appendAt("u1", testNow.AddDate(0, 0, -45), 10) // outside the window
	appendAt("u1", testNow.AddDate(0, 0, -2), 70)
	appendAt("u1", testNow.AddDate(0, 0, -1), 74)
	appendAt("u1", testNow.Add(time.Hour), 99) // recorded after now
	appendAt("u2", testNow, 50)

	svc := NewService(history, DefaultConfig(), nil).WithClock(func() time.Time { return testNow })

	got, err := svc.Insights(ctx, "u1")
	require.NoError(t, err)
	assert.Equal(t, StateInsufficientData, got.UserState)
	assert.Equal(t, 74, got.CurrentPerformance.OverallScore)
	assert.Nil(t, got.Predictions.NextSessionScore)

	appendAt("u1", testNow, 78)
	got, err = svc.Insights(ctx, "u1")
	require.NoError(t, err)
	assert.Equal(t, StateReady, got.UserState)
	require.NotNil(t, got.Predictions.NextSessionScore)
	assert.Equal(t, 75, *got.Predictions.NextSessionScore)

	got, err = svc.Insights(ctx, "nobody")
	require.NoError(t, err)
	assert.Equal(t, StateNewUser, got.UserState)

	_, err = svc.Insights(ctx, "  ")
	assert.True(t, apperr.IsValidation(err))
}
