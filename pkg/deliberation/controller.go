package deliberation

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/cenkalti/backoff/v4"
	"golang.org/x/sync/errgroup"

	"radiology-consult-be/internal/pkg/logger"
)

// Config tunes the round loop. Zero values fall back to the defaults the
// original system shipped with.
type Config struct {
	// MaxRounds caps the loop; default 13.
	MaxRounds int
	// UnitTimeout bounds each reasoning/arbitration call; default 120s.
	UnitTimeout time.Duration
	// MaxRetries is the number of retries after a failed unit call before
	// the session fails; default 2 (three attempts total).
	MaxRetries int
}

func (c Config) withDefaults() Config {
	if c.MaxRounds <= 0 {
		c.MaxRounds = DefaultMaxRounds
	}
	if c.UnitTimeout <= 0 {
		c.UnitTimeout = 120 * time.Second
	}
	if c.MaxRetries < 0 {
		c.MaxRetries = 0
	}
	return c
}

// Controller drives the deliberation loop: three doctors, one supervisor,
// per round, until consensus or the round cap. It owns the session history
// for the duration of a run; nothing is persisted.
type Controller struct {
	doctors    []ReasoningUnit
	supervisor ArbitrationUnit
	cfg        Config
	notifier   ProgressNotifier
	log        logger.ILogger
}

func NewController(doctors []ReasoningUnit, supervisor ArbitrationUnit, cfg Config, notifier ProgressNotifier, log logger.ILogger) (*Controller, error) {
	if len(doctors) != PanelSize {
		return nil, &ValidationFailure{Field: "doctors", Reason: fmt.Sprintf("panel must have exactly %d members", PanelSize)}
	}
	if notifier == nil {
		notifier = NopNotifier{}
	}
	return &Controller{
		doctors:    doctors,
		supervisor: supervisor,
		cfg:        cfg.withDefaults(),
		notifier:   notifier,
		log:        log,
	}, nil
}

// Run executes the round loop for the given session and returns the
// authoritative decision. On failure the session history retains only
// fully-completed rounds.
func (c *Controller) Run(ctx context.Context, session *Session) (SupervisorDecision, error) {
	if err := session.Context.Validate(); err != nil {
		session.finish(StatusFailed, "")
		return SupervisorDecision{}, err
	}

	for round := 1; round <= c.cfg.MaxRounds; round++ {
		if err := ctx.Err(); err != nil {
			session.finish(StatusCancelled, "")
			return SupervisorDecision{}, ErrSessionCancelled
		}

		c.log.Info("Deliberation", "Round started", map[string]interface{}{
			"session_id": session.ID,
			"round":      round,
		})
		c.notifier.NotifyProgress(ProgressEvent{
			SessionID: session.ID, Round: round, Stage: StageDoctors, Status: StatusRunning,
		})

		opinions, err := c.collectOpinions(ctx, session, round)
		if err != nil {
			return SupervisorDecision{}, c.fail(session, round, RoleDoctor, err)
		}

		c.notifier.NotifyProgress(ProgressEvent{
			SessionID: session.ID, Round: round, Stage: StageSupervisor, Status: StatusRunning,
		})

		current := RoundRecord{Round: round, Opinions: opinions}
		decision, err := c.arbitrate(ctx, session, current)
		if err != nil {
			return SupervisorDecision{}, c.fail(session, round, RoleSupervisor, err)
		}

		consensus := decision.TerminationReason == TerminationConsensusReached
		if !consensus {
			if round == c.cfg.MaxRounds {
				decision.TerminationReason = TerminationRoundCapExceeded
			} else {
				decision.TerminationReason = ""
			}
		}

		current.Synthesis = decision
		session.appendRound(current)

		if consensus {
			c.log.Info("Deliberation", "Consensus reached", map[string]interface{}{
				"session_id": session.ID,
				"round":      round,
			})
			session.finish(StatusCompleted, TerminationConsensusReached)
			c.notifier.NotifyProgress(ProgressEvent{
				SessionID: session.ID, Round: round, Stage: StageCompleted, Status: StatusCompleted,
			})
			return decision, nil
		}
	}

	// The cap round completed without consensus; its decision is the result.
	decision, _ := session.FinalDecision()
	session.finish(StatusCompleted, TerminationRoundCapExceeded)
	c.log.Info("Deliberation", "Round cap reached without consensus", map[string]interface{}{
		"session_id": session.ID,
		"rounds":     session.RoundsCompleted(),
	})
	c.notifier.NotifyProgress(ProgressEvent{
		SessionID: session.ID, Round: c.cfg.MaxRounds, Stage: StageCompleted, Status: StatusCompleted,
	})
	return decision, nil
}

// collectOpinions runs the three reasoning units concurrently and returns
// their opinions in stable panel order.
func (c *Controller) collectOpinions(ctx context.Context, session *Session, round int) ([]DoctorOpinion, error) {
	history := session.Rounds()
	opinions := make([]DoctorOpinion, PanelSize)

	g, gctx := errgroup.WithContext(ctx)
	for i, doctor := range c.doctors {
		i, doctor := i, doctor
		g.Go(func() error {
			op, err := c.propose(gctx, doctor, session.Context, history, round)
			if err != nil {
				return fmt.Errorf("%s: %w", doctor.DoctorID(), err)
			}
			opinions[i] = op
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return opinions, nil
}

// propose invokes one reasoning unit with the per-call timeout and the
// bounded retry budget.
func (c *Controller) propose(ctx context.Context, doctor ReasoningUnit, cc CaseContext, history []RoundRecord, round int) (DoctorOpinion, error) {
	var opinion DoctorOpinion

	operation := func() error {
		attemptCtx, cancel := context.WithTimeout(ctx, c.cfg.UnitTimeout)
		defer cancel()

		op, err := doctor.Propose(attemptCtx, cc, history)
		if err != nil {
			if ctx.Err() != nil {
				return backoff.Permanent(err)
			}
			c.log.Warn("Deliberation", "Doctor call failed, may retry", map[string]interface{}{
				"doctor": doctor.DoctorID(),
				"round":  round,
				"error":  err.Error(),
			})
			return err
		}
		op.DoctorID = doctor.DoctorID()
		if verr := ValidateOpinion(op, round); verr != nil {
			return backoff.Permanent(verr)
		}
		opinion = op
		return nil
	}

	if err := backoff.Retry(operation, c.retryPolicy(ctx)); err != nil {
		return DoctorOpinion{}, err
	}
	return opinion, nil
}

// arbitrate invokes the arbitration unit with the same timeout/retry rules
// and validates the structural shape of its decision.
func (c *Controller) arbitrate(ctx context.Context, session *Session, current RoundRecord) (SupervisorDecision, error) {
	var decision SupervisorDecision
	history := session.Rounds()

	operation := func() error {
		attemptCtx, cancel := context.WithTimeout(ctx, c.cfg.UnitTimeout)
		defer cancel()

		d, err := c.supervisor.Arbitrate(attemptCtx, session.Context, history, current)
		if err != nil {
			if ctx.Err() != nil {
				return backoff.Permanent(err)
			}
			c.log.Warn("Deliberation", "Supervisor call failed, may retry", map[string]interface{}{
				"round": current.Round,
				"error": err.Error(),
			})
			return err
		}
		if verr := ValidateDecision(d); verr != nil {
			return backoff.Permanent(verr)
		}
		decision = d
		return nil
	}

	if err := backoff.Retry(operation, c.retryPolicy(ctx)); err != nil {
		return SupervisorDecision{}, err
	}
	return decision, nil
}

func (c *Controller) retryPolicy(ctx context.Context) backoff.BackOffContext {
	policy := backoff.NewExponentialBackOff()
	policy.InitialInterval = 200 * time.Millisecond
	policy.MaxElapsedTime = 0
	return backoff.WithContext(backoff.WithMaxRetries(policy, uint64(c.cfg.MaxRetries)), ctx)
}

// fail finalizes the session on an exhausted unit call. Cancellation is
// reported as such, not as a deliberation failure.
func (c *Controller) fail(session *Session, round int, role string, err error) error {
	if errors.Is(err, context.Canceled) || session.Status() == StatusCancelled {
		session.finish(StatusCancelled, "")
		c.notifier.NotifyProgress(ProgressEvent{
			SessionID: session.ID, Round: round, Stage: StageFailed, Status: StatusCancelled,
		})
		return ErrSessionCancelled
	}

	session.finish(StatusFailed, "")
	c.log.Error("Deliberation", "Session failed", map[string]interface{}{
		"session_id": session.ID,
		"round":      round,
		"role":       role,
		"error":      err.Error(),
	})
	c.notifier.NotifyProgress(ProgressEvent{
		SessionID: session.ID, Round: round, Stage: StageFailed, Status: StatusFailed,
	})
	return &DeliberationFailure{Round: round, Role: role, Err: err}
}
