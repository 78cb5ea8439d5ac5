package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/xiaot623/callbuddy/internal/adapter/vapi"
	"github.com/xiaot623/callbuddy/internal/config"
	"github.com/xiaot623/callbuddy/internal/domain"
	"github.com/xiaot623/callbuddy/tests/helpers"
)

func assertNoPlatformTraffic(t *testing.T, platform *vapi.MockClient) {
	t.Helper()
	assert.Equal(t, 0, platform.Listings(), "no list requests")
	assert.Empty(t, platform.Fetched(), "no get requests")
	assert.Equal(t, 0, platform.UpdateCount(), "no assistant updates")
	assert.Empty(t, platform.CreatedCalls(), "no calls placed")
}

func TestRunEveningMissingConfiguration(t *testing.T) {
	unsetters := map[string]func(*config.Config){
		config.KeyAPIToken:           func(c *config.Config) { c.APIToken = "" },
		config.KeyMorningAssistantID: func(c *config.Config) { c.MorningAssistantID = "" },
		config.KeyEveningAssistantID: func(c *config.Config) { c.EveningAssistantID = "" },
		config.KeyPhoneNumberID:      func(c *config.Config) { c.PhoneNumberID = "" },
		config.KeyTargetPhoneNumber:  func(c *config.Config) { c.TargetPhoneNumber = "" },
	}

	for key, unset := range unsetters {
		t.Run(key, func(t *testing.T) {
			cfg := helpers.NewTestConfig()
			unset(cfg)
			env := newTestEnvWithConfig(t, cfg)
			env.platform.AddCall(helpers.EndedCall("c1", helpers.MorningAssistant, helpers.Target, "1. Walk", time.Now()))

			outcome := env.svc.RunEvening(context.Background())
			assert.Equal(t, domain.StageAborted, outcome.Stage)
			assert.Equal(t, domain.StageValidating, outcome.FailedStage)

			var cfgErr *domain.ConfigurationError
			require.ErrorAs(t, outcome.Err, &cfgErr)
			assert.Equal(t, []string{key}, cfgErr.Missing)
			assertNoPlatformTraffic(t, env.platform)
		})
	}
}

func TestPlaceCallMissingParameters(t *testing.T) {
	requests := []CallRequest{
		{Flow: domain.FlowMorning, PhoneNumberID: helpers.PhoneNumberID, Destination: helpers.Target},
		{Flow: domain.FlowMorning, AssistantID: helpers.MorningAssistant, Destination: helpers.Target},
		{Flow: domain.FlowMorning, AssistantID: helpers.MorningAssistant, PhoneNumberID: helpers.PhoneNumberID},
	}
	for _, req := range requests {
		env := newTestEnv(t)
		_, err := env.svc.PlaceCall(context.Background(), req)
		assert.True(t, domain.IsConfigurationError(err), "request %+v", req)
		assertNoPlatformTraffic(t, env.platform)
	}
}

func TestPropagateResultMissingTarget(t *testing.T) {
	env := newTestEnv(t)
	err := env.svc.PropagateResult(context.Background(), "", "1. Walk", nil)
	assert.True(t, domain.IsConfigurationError(err))
	assertNoPlatformTraffic(t, env.platform)

	err = env.svc.PropagateResult(context.Background(), helpers.EveningAssistant, "", nil)
	assert.ErrorIs(t, err, domain.ErrNoPriorResult)
	assertNoPlatformTraffic(t, env.platform)
}

func TestPropagateResultIsIdempotent(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	require.NoError(t, env.svc.PropagateResult(ctx, helpers.EveningAssistant, "1. Walk\n2. Read", nil))
	require.NoError(t, env.svc.PropagateResult(ctx, helpers.EveningAssistant, "1. Walk\n2. Read", nil))

	updates := env.platform.Updates(helpers.EveningAssistant)
	require.Len(t, updates, 2)
	first := updates[0].Model
	second := updates[1].Model
	assert.Equal(t, first, second)
	require.Len(t, first.Messages, 1)
	assert.Equal(t, domain.RoleSystem, first.Messages[0].Role)
	assert.Equal(t, config.DefaultModelProvider, first.Provider)
	assert.Equal(t, config.DefaultModel, first.Model)
}

func TestPropagateResultReplacesInstructionsWholesale(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	require.NoError(t, env.svc.PropagateResult(ctx, helpers.EveningAssistant, "1. Old goal", nil))
	require.NoError(t, env.svc.PropagateResult(ctx, helpers.EveningAssistant, "1. New goal", nil))

	text := env.platform.Assistant(helpers.EveningAssistant).Instructions()
	assert.Contains(t, text, "1. New goal")
	assert.NotContains(t, text, "Old goal")
}

// Scenario A: a single matching morning call with a result.
func TestRunEveningCarriesMorningGoals(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	env.platform.AddCall(helpers.EndedCall("morning-1", helpers.MorningAssistant, helpers.Target, "1. Exercise 2. Write report", time.Now().Add(-10*time.Hour)))

	outcome := env.svc.RunEvening(ctx)
	require.NoError(t, outcome.Err)
	assert.Equal(t, domain.StageDone, outcome.Stage)
	assert.False(t, outcome.Aborted())
	assert.Equal(t, 1, outcome.Inspected)
	assert.NotEmpty(t, outcome.CallID)

	instructions := env.platform.Assistant(helpers.EveningAssistant).Instructions()
	assert.Contains(t, instructions, "1. Exercise 2. Write report")

	created := env.platform.CreatedCalls()
	require.Len(t, created, 1)
	assert.Equal(t, helpers.EveningAssistant, created[0].AssistantID)
	assert.Equal(t, helpers.PhoneNumberID, created[0].PhoneNumberID)
	assert.Equal(t, helpers.Target, created[0].Customer.Number)

	runs, err := env.journal.ListRuns(ctx, domain.FlowEvening, 5)
	require.NoError(t, err)
	require.Len(t, runs, 1)
	assert.Equal(t, domain.StageDone, runs[0].Stage)
	assert.Equal(t, outcome.CallID, runs[0].CallID)
}

// Scenario B: no matching calls at all.
func TestRunEveningWithoutMorningCall(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	env.platform.AddCall(helpers.EndedCall("other", helpers.MorningAssistant, "+15550000000", "1. Walk", time.Now()))

	outcome := env.svc.RunEvening(ctx)
	assert.Equal(t, domain.StageAborted, outcome.Stage)
	assert.Equal(t, domain.StageResolving, outcome.FailedStage)
	assert.ErrorIs(t, outcome.Err, domain.ErrNoPriorResult)
	assert.Equal(t, 0, outcome.Inspected)
	assert.Equal(t, 0, env.platform.UpdateCount())
	assert.Empty(t, env.platform.CreatedCalls())

	runs, err := env.journal.ListRuns(ctx, domain.FlowEvening, 5)
	require.NoError(t, err)
	require.Len(t, runs, 1)
	assert.Equal(t, domain.StageResolving, runs[0].FailedStage)
}

// Scenario C: the matching call ended without a structured extraction.
func TestRunEveningMorningCallWithoutResult(t *testing.T) {
	env := newTestEnv(t)
	env.platform.AddCall(helpers.EndedCall("morning-1", helpers.MorningAssistant, helpers.Target, "", time.Now()))

	outcome := env.svc.RunEvening(context.Background())
	assert.Equal(t, domain.StageAborted, outcome.Stage)
	assert.Equal(t, domain.StageResolving, outcome.FailedStage)
	assert.ErrorIs(t, outcome.Err, domain.ErrNoPriorResult)
	assert.Equal(t, 1, outcome.Inspected)
	assert.Equal(t, 0, env.platform.UpdateCount())
	assert.Empty(t, env.platform.CreatedCalls())
}

// Scenario D: the assistant update is rejected.
func TestRunEveningUpdateRejected(t *testing.T) {
	env := newTestEnv(t)
	env.platform.AddCall(helpers.EndedCall("morning-1", helpers.MorningAssistant, helpers.Target, "1. Walk", time.Now()))
	env.platform.FailOn(vapi.OpUpdateAssistant, &domain.PlatformError{Op: vapi.OpUpdateAssistant, StatusCode: 400, Message: "invalid model"})

	outcome := env.svc.RunEvening(context.Background())
	assert.Equal(t, domain.StageAborted, outcome.Stage)
	assert.Equal(t, domain.StageUpdating, outcome.FailedStage)
	assert.True(t, domain.IsPlatformError(outcome.Err))
	assert.Empty(t, env.platform.CreatedCalls())
}

func TestRunEveningListFailureAborts(t *testing.T) {
	env := newTestEnv(t)
	env.platform.FailOn(vapi.OpListCalls, &domain.PlatformError{Op: vapi.OpListCalls, Err: errors.New("dial tcp: timeout")})

	outcome := env.svc.RunEvening(context.Background())
	assert.Equal(t, domain.StageResolving, outcome.FailedStage)
	assert.True(t, domain.IsPlatformError(outcome.Err))
	assert.Equal(t, 0, env.platform.UpdateCount())
}

func TestRunEveningCallRejected(t *testing.T) {
	env := newTestEnv(t)
	env.platform.AddCall(helpers.EndedCall("morning-1", helpers.MorningAssistant, helpers.Target, "1. Walk", time.Now()))
	env.platform.FailOn(vapi.OpCreateCall, &domain.PlatformError{Op: vapi.OpCreateCall, StatusCode: 402, Message: "insufficient credits"})

	outcome := env.svc.RunEvening(context.Background())
	assert.Equal(t, domain.StageCalling, outcome.FailedStage)
	assert.True(t, domain.IsPlatformError(outcome.Err))
	assert.Equal(t, 1, env.platform.UpdateCount())
}

func TestRunEveningBlockedBeforeUpdate(t *testing.T) {
	cfg := helpers.NewTestConfig()
	cfg.TargetPhoneNumber = "555-1234"
	env := newTestEnvWithConfig(t, cfg)
	env.platform.AddCall(helpers.EndedCall("morning-1", helpers.MorningAssistant, "555-1234", "1. Walk", time.Now()))

	outcome := env.svc.RunEvening(context.Background())
	assert.Equal(t, domain.StageUpdating, outcome.FailedStage)
	assert.ErrorIs(t, outcome.Err, domain.ErrCallBlocked)
	assert.Equal(t, 0, env.platform.UpdateCount())
	assert.Empty(t, env.platform.CreatedCalls())
}

func TestRunMorning(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	outcome := env.svc.RunMorning(ctx)
	require.NoError(t, outcome.Err)
	assert.Equal(t, domain.StageDone, outcome.Stage)
	assert.Equal(t, domain.CallStatusQueued, outcome.CallStatus)

	created := env.platform.CreatedCalls()
	require.Len(t, created, 1)
	assert.Equal(t, helpers.MorningAssistant, created[0].AssistantID)
	assert.Equal(t, 0, env.platform.Listings())
}

func TestRunMorningDoesNotNeedEveningAssistant(t *testing.T) {
	cfg := helpers.NewTestConfig()
	cfg.EveningAssistantID = ""
	env := newTestEnvWithConfig(t, cfg)

	outcome := env.svc.RunMorning(context.Background())
	assert.Equal(t, domain.StageDone, outcome.Stage)
}

func TestRunMorningPlatformFailure(t *testing.T) {
	env := newTestEnv(t)
	env.platform.FailOn(vapi.OpCreateCall, &domain.PlatformError{Op: vapi.OpCreateCall, StatusCode: 401, Message: "bad token"})

	outcome := env.svc.RunMorning(context.Background())
	assert.Equal(t, domain.StageAborted, outcome.Stage)
	assert.Equal(t, domain.StageCalling, outcome.FailedStage)
	assert.True(t, domain.IsPlatformError(outcome.Err))
}
