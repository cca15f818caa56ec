package service

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"radiology-consult-be/internal/dto"
	"radiology-consult-be/internal/repository/memory"
	"radiology-consult-be/pkg/deliberation"
	"radiology-consult-be/pkg/findings"
)

type nopLogger struct{}

func (nopLogger) Debug(string, string, map[string]interface{}) {}
func (nopLogger) Info(string, string, map[string]interface{})  {}
func (nopLogger) Warn(string, string, map[string]interface{})  {}
func (nopLogger) Error(string, string, map[string]interface{}) {}
func (nopLogger) Sync() error                                  { return nil }

// slowDoctor delays each proposal so cancellation can land mid-run.
type slowDoctor struct {
	inner deliberation.ReasoningUnit
	delay time.Duration
}

func (d slowDoctor) DoctorID() string { return d.inner.DoctorID() }

func (d slowDoctor) Propose(ctx context.Context, cc deliberation.CaseContext, history []deliberation.RoundRecord) (deliberation.DoctorOpinion, error) {
	select {
	case <-ctx.Done():
		return deliberation.DoctorOpinion{}, ctx.Err()
	case <-time.After(d.delay):
	}
	return d.inner.Propose(ctx, cc, history)
}

func newOfflineService(t *testing.T, maxRounds int, delay time.Duration) IConsultService {
	t.Helper()

	doctors := make([]deliberation.ReasoningUnit, 0, deliberation.PanelSize)
	for i, id := range deliberation.DoctorIDs {
		var unit deliberation.ReasoningUnit = deliberation.NewOfflineDoctor(id, i)
		if delay > 0 {
			unit = slowDoctor{inner: unit, delay: delay}
		}
		doctors = append(doctors, unit)
	}
	cfg := deliberation.Config{MaxRounds: maxRounds, UnitTimeout: time.Second}
	ctrl, err := deliberation.NewController(doctors, deliberation.OfflineSupervisor{}, cfg, nil, nopLogger{})
	require.NoError(t, err)

	return NewConsultService(
		memory.NewSessionRepository(time.Hour),
		ctrl,
		deliberation.OfflineRewriter{},
		findings.NewOfflineClient(),
		Capability{Provider: "none"},
		cfg,
		nopLogger{},
	)
}

func TestConsultServiceOfflineLifecycle(t *testing.T) {
	svc := newOfflineService(t, 3, 0)

	start, err := svc.StartConsultation(context.Background(), &dto.StartConsultRequest{
		Symptoms: "persistent cough and mild fever",
		History:  "no prior lung disease",
	})
	require.NoError(t, err)
	assert.Equal(t, deliberation.StatusRunning, start.Status)

	require.Eventually(t, func() bool {
		res, err := svc.GetConsultation(start.SessionId)
		return err == nil && res.Status == deliberation.StatusCompleted && res.Summary != nil
	}, 5*time.Second, 50*time.Millisecond)

	res, err := svc.GetConsultation(start.SessionId)
	require.NoError(t, err)

	assert.Equal(t, string(deliberation.TerminationRoundCapExceeded), res.TerminationReason)
	assert.Equal(t, 3, res.RoundsCompleted)
	require.NotNil(t, res.Decision)
	assert.NotEmpty(t, res.Decision.ConsensusHypotheses)
	require.NotNil(t, res.Summary)
	assert.Equal(t, deliberation.SafetyDisclaimers, res.Summary.Disclaimers)

	for i, round := range res.Rounds {
		assert.Equal(t, i+1, round.Round)
		require.Len(t, round.Opinions, deliberation.PanelSize)
		if i == 0 {
			for _, op := range round.Opinions {
				assert.Empty(t, op.CritiqueOfPeers)
			}
		} else {
			for _, op := range round.Opinions {
				assert.NotEmpty(t, op.CritiqueOfPeers)
			}
		}
	}
}

func TestConsultServiceUnknownSession(t *testing.T) {
	svc := newOfflineService(t, 2, 0)

	_, err := svc.GetConsultation(uuid.New())
	require.ErrorIs(t, err, deliberation.ErrSessionNotFound)

	_, err = svc.CancelConsultation(uuid.New())
	require.ErrorIs(t, err, deliberation.ErrSessionNotFound)
}

func TestConsultServiceCancel(t *testing.T) {
	svc := newOfflineService(t, deliberation.DefaultMaxRounds, 50*time.Millisecond)

	start, err := svc.StartConsultation(context.Background(), &dto.StartConsultRequest{
		Symptoms: "chest tightness",
	})
	require.NoError(t, err)

	cancelRes, err := svc.CancelConsultation(start.SessionId)
	require.NoError(t, err)
	assert.Equal(t, deliberation.StatusCancelled, cancelRes.Status)

	res, err := svc.GetConsultation(start.SessionId)
	require.NoError(t, err)
	assert.Equal(t, deliberation.StatusCancelled, res.Status)
	assert.Nil(t, res.Summary)
}

func TestConsultServiceImageFindings(t *testing.T) {
	svc := newOfflineService(t, 2, 0)

	start, err := svc.StartConsultation(context.Background(), &dto.StartConsultRequest{
		Symptoms: "routine imaging review",
		Image:    []byte("fake-image-bytes"),
	})
	require.NoError(t, err)

	res, err := svc.GetConsultation(start.SessionId)
	require.NoError(t, err)
	assert.NotEmpty(t, res.Findings.Description)
	assert.NotEqual(t, "No imaging study was provided for this consultation.", res.Findings.Description)
}
