package llm

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

func fastRetry() RetryConfig {
	return RetryConfig{
		MaxAttempts: 3,
		InitialWait: time.Millisecond,
		MaxWait:     10 * time.Millisecond,
		Multiplier:  2.0,
	}
}

const analysisReply = `{"overallScore": 81, "strengths": ["clear result"]}`

func TestRetry(t *testing.T) {
	down := func() MockResponse {
		return MockResponse{Err: &ErrProviderUnavailable{Err: errors.New("503")}}
	}
	invalid := func() MockResponse {
		return MockResponse{Err: &ErrInvalidResponse{Content: []byte(`{"overallScore":`), Err: errors.New("truncated")}}
	}

	tests := []struct {
		name      string
		responses []MockResponse
		wantCalls int
		wantErr   any
	}{
		{"first try", []MockResponse{MockText(analysisReply)}, 1, nil},
		{"outage then success", []MockResponse{down(), MockText(analysisReply)}, 2, nil},
		{"rate limit honors retry-after", []MockResponse{
			{Err: &ErrRateLimit{RetryAfter: time.Millisecond, Err: errors.New("429")}},
			MockText(analysisReply),
		}, 2, nil},
		{"outage on every attempt", []MockResponse{down(), down(), down()}, 3, &ErrProviderUnavailable{}},
		{"max tokens is final", []MockResponse{{Err: &ErrMaxTokensExceeded{}}, MockText(analysisReply)}, 1, &ErrMaxTokensExceeded{}},
		{"invalid response retried once", []MockResponse{invalid(), invalid(), MockText(analysisReply)}, 2, &ErrInvalidResponse{}},
		{"invalid then valid", []MockResponse{invalid(), MockText(analysisReply)}, 2, nil},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mock := NewMockProvider(tt.responses...)
			p := WithRetry(mock, fastRetry(), nil)

			resp, err := p.Generate(context.Background(), Request{})

			assert.Equal(t, tt.wantCalls, mock.CallCount())
			switch want := tt.wantErr.(type) {
			case nil:
				require.NoError(t, err)
				assert.Equal(t, analysisReply, resp.Text())
			case *ErrProviderUnavailable:
				assert.True(t, errors.As(err, &want), "got %v", err)
			case *ErrMaxTokensExceeded:
				assert.True(t, errors.As(err, &want), "got %v", err)
			case *ErrInvalidResponse:
				assert.True(t, errors.As(err, &want), "got %v", err)
			}
		})
	}
}

func TestRetry_StopsOnCanceledContext(t *testing.T) {
	mock := NewMockProvider(
		MockResponse{Err: &ErrProviderUnavailable{Err: errors.New("503")}},
		MockText(analysisReply),
	)
	p := WithRetry(mock, RetryConfig{MaxAttempts: 3, InitialWait: time.Hour, MaxWait: time.Hour, Multiplier: 1}, nil)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := p.Generate(ctx, Request{})
	assert.ErrorIs(t, err, context.Canceled)
	assert.Equal(t, 1, mock.CallCount())
}

func TestRetry_LogsEachRetry(t *testing.T) {
	core, logs := observer.New(zapcore.DebugLevel)
	mock := NewMockProvider(
		MockResponse{Err: &ErrRateLimit{RetryAfter: time.Millisecond, Err: errors.New("429")}},
		MockText(analysisReply),
	)
	p := WithRetry(mock, fastRetry(), zap.New(core))

	_, err := p.Generate(WithPurpose(context.Background(), PurposeAnswerAnalysis), Request{})
	require.NoError(t, err)

	entries := logs.FilterMessage("retrying llm request").All()
	require.Len(t, entries, 1)
	fields := entries[0].ContextMap()
	assert.Equal(t, string(PurposeAnswerAnalysis), fields["purpose"])
	assert.EqualValues(t, 1, fields["attempt"])
}

func TestRetry_BackoffIsBounded(t *testing.T) {
	r := &RetryProvider{config: fastRetry()}
	for attempt := range 6 {
		wait := r.backoff(attempt, errors.New("boom"))
		assert.GreaterOrEqual(t, wait, time.Duration(0))
		assert.LessOrEqual(t, wait, 12*time.Millisecond, "MaxWait plus jitter")
	}
}

func TestRetry_ModelIDDelegates(t *testing.T) {
	assert.Equal(t, "mock", WithRetry(NewMockProvider(), fastRetry(), nil).ModelID())
}
