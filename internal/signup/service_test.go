package signup

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"activity-signup/internal/common/logger"
	"activity-signup/internal/common/metrics"
	"activity-signup/internal/events"
	"activity-signup/internal/roster"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// ==========================
// Test Helper Functions
// ==========================

type fakePublisher struct {
	mu     sync.Mutex
	events []events.RosterEvent
	err    error
	ctxErr error
}

func (f *fakePublisher) Publish(ctx context.Context, event events.RosterEvent) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.events = append(f.events, event)
	f.ctxErr = ctx.Err()
	return f.err
}

func (f *fakePublisher) published() []events.RosterEvent {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]events.RosterEvent(nil), f.events...)
}

func setupService(t *testing.T, pub events.Publisher) *Service {
	t.Helper()
	return NewService(ServiceDependencies{
		Store:     roster.NewStore(roster.DefaultCatalog()),
		Publisher: pub,
		Logger:    logger.NewTestLogger(t),
	}, nil)
}

// ==========================
// Core Functionality Tests
// ==========================

func TestService_RegisterPublishesEvent(t *testing.T) {
	pub := &fakePublisher{}
	svc := setupService(t, pub)

	result, err := svc.Register(context.Background(), "Chess Club", "new@mergington.edu")
	require.NoError(t, err)
	assert.Equal(t, "Signed up new@mergington.edu for Chess Club", result.Message)

	got := pub.published()
	require.Len(t, got, 1)
	assert.Equal(t, events.TypeSignedUp, got[0].Type)
	assert.Equal(t, "Chess Club", got[0].Activity)
	assert.Equal(t, "new@mergington.edu", got[0].Email)
	assert.Equal(t, result.Event.ID, got[0].ID)

	activity, err := svc.Get(context.Background(), "Chess Club")
	require.NoError(t, err)
	assert.Contains(t, activity.Participants, "new@mergington.edu")
}

func TestService_UnregisterPublishesEvent(t *testing.T) {
	pub := &fakePublisher{}
	svc := setupService(t, pub)

	result, err := svc.Unregister(context.Background(), "Chess Club", "michael@mergington.edu")
	require.NoError(t, err)
	assert.Equal(t, "Unregistered michael@mergington.edu from Chess Club", result.Message)

	got := pub.published()
	require.Len(t, got, 1)
	assert.Equal(t, events.TypeUnregistered, got[0].Type)

	activity, err := svc.Get(context.Background(), "Chess Club")
	require.NoError(t, err)
	assert.NotContains(t, activity.Participants, "michael@mergington.edu")
}

func TestService_FailuresPublishNothing(t *testing.T) {
	pub := &fakePublisher{}
	svc := setupService(t, pub)
	ctx := context.Background()

	_, err := svc.Register(ctx, "Underwater Basket Weaving", "a@x.com")
	assert.ErrorIs(t, err, roster.ErrActivityNotFound)

	_, err = svc.Register(ctx, "Chess Club", "michael@mergington.edu")
	assert.ErrorIs(t, err, roster.ErrAlreadySignedUp)

	_, err = svc.Unregister(ctx, "Chess Club", "nobody@mergington.edu")
	assert.ErrorIs(t, err, roster.ErrNotRegistered)

	_, err = svc.Unregister(ctx, "Nope", "nobody@mergington.edu")
	assert.ErrorIs(t, err, roster.ErrActivityNotFound)

	assert.Empty(t, pub.published())
}

// ==========================
// Event Sink Failure Tests
// ==========================

func TestService_PublishFailureDoesNotFailMutation(t *testing.T) {
	pub := &fakePublisher{err: errors.New("sink down")}
	svc := setupService(t, pub)

	failures := metrics.EventPublishFailures.WithLabelValues(string(events.TypeSignedUp))
	before := testutil.ToFloat64(failures)

	result, err := svc.Register(context.Background(), "Art Club", "painter@mergington.edu")
	require.NoError(t, err)
	require.NotNil(t, result)

	activity, err := svc.Get(context.Background(), "Art Club")
	require.NoError(t, err)
	assert.Contains(t, activity.Participants, "painter@mergington.edu")
	assert.Equal(t, before+1, testutil.ToFloat64(failures))
}

func TestService_PublishSurvivesCanceledRequest(t *testing.T) {
	pub := &fakePublisher{}
	svc := setupService(t, pub)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := svc.Register(ctx, "Drama Club", "actor@mergington.edu")
	require.NoError(t, err)

	require.Len(t, pub.published(), 1)
	assert.NoError(t, pub.ctxErr)
}

// ==========================
// Metrics Tests
// ==========================

func TestService_RecordsOperationMetrics(t *testing.T) {
	svc := setupService(t, nil)

	success := metrics.SignupOperations.WithLabelValues(OperationRegister, "success")
	duplicate := metrics.SignupOperations.WithLabelValues(OperationRegister, "already_signed_up")
	successBefore := testutil.ToFloat64(success)
	duplicateBefore := testutil.ToFloat64(duplicate)

	_, err := svc.Register(context.Background(), "Math Club", "count@mergington.edu")
	require.NoError(t, err)
	_, err = svc.Register(context.Background(), "Math Club", "count@mergington.edu")
	require.Error(t, err)

	assert.Equal(t, successBefore+1, testutil.ToFloat64(success))
	assert.Equal(t, duplicateBefore+1, testutil.ToFloat64(duplicate))

	activity, err := svc.Get(context.Background(), "Math Club")
	require.NoError(t, err)
	assert.Equal(t, float64(len(activity.Participants)),
		testutil.ToFloat64(metrics.RosterSize.WithLabelValues("Math Club")))
}

func TestResultLabel(t *testing.T) {
	assert.Equal(t, "success", resultLabel(nil))
	assert.Equal(t, "not_found", resultLabel(roster.ErrActivityNotFound))
	assert.Equal(t, "already_signed_up", resultLabel(roster.ErrAlreadySignedUp))
	assert.Equal(t, "not_registered", resultLabel(roster.ErrNotRegistered))
	assert.Equal(t, "error", resultLabel(errors.New("other")))
}

// ==========================
// Config Tests
// ==========================

func TestConfig_Validate(t *testing.T) {
	assert.NoError(t, DefaultConfig().Validate())
	assert.Error(t, (&Config{}).Validate())
	assert.Error(t, (&Config{EventTimeout: -time.Second}).Validate())
}

func TestService_ConcurrentRegisterSingleWinner(t *testing.T) {
	pub := &fakePublisher{}
	svc := setupService(t, pub)

	var wg sync.WaitGroup
	var mu sync.Mutex
	successes := 0
	for i := 0; i < 32; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if _, err := svc.Register(context.Background(), "Soccer Team", "race@mergington.edu"); err == nil {
				mu.Lock()
				successes++
				mu.Unlock()
			}
		}()
	}
	wg.Wait()

	assert.Equal(t, 1, successes)
	assert.Len(t, pub.published(), 1)
}
