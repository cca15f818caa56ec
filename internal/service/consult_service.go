package service

import (
	"context"
	"time"

	"github.com/google/uuid"

	"radiology-consult-be/internal/dto"
	"radiology-consult-be/internal/mapper"
	"radiology-consult-be/internal/pkg/logger"
	"radiology-consult-be/internal/repository/memory"
	"radiology-consult-be/pkg/deliberation"
	"radiology-consult-be/pkg/findings"
)

type IConsultService interface {
	StartConsultation(ctx context.Context, req *dto.StartConsultRequest) (*dto.StartConsultResponse, error)
	GetConsultation(sessionID uuid.UUID) (*dto.GetConsultResponse, error)
	CancelConsultation(sessionID uuid.UUID) (*dto.CancelConsultResponse, error)
	Capabilities() *dto.CapabilitiesResponse
}

// Capability describes which collaborators were reachable at startup. The
// check runs once; a session uses either the model units or the offline
// units for its whole lifetime.
type Capability struct {
	LlmAvailable      bool
	FindingsAvailable bool
	Provider          string
	Model             string
}

type consultService struct {
	sessionRepo     *memory.SessionRepository
	controller      *deliberation.Controller
	rewriter        deliberation.RewriteUnit
	findingsClient  findings.Client
	offlineFindings findings.Client
	mapper          *mapper.ConsultMapper
	capability      Capability
	maxRounds       int
	unitTimeout     time.Duration
	logger          logger.ILogger
}

func NewConsultService(
	sessionRepo *memory.SessionRepository,
	controller *deliberation.Controller,
	rewriter deliberation.RewriteUnit,
	findingsClient findings.Client,
	capability Capability,
	cfg deliberation.Config,
	log logger.ILogger,
) IConsultService {
	maxRounds := cfg.MaxRounds
	if maxRounds <= 0 {
		maxRounds = deliberation.DefaultMaxRounds
	}
	unitTimeout := cfg.UnitTimeout
	if unitTimeout <= 0 {
		unitTimeout = 120 * time.Second
	}
	return &consultService{
		sessionRepo:     sessionRepo,
		controller:      controller,
		rewriter:        rewriter,
		findingsClient:  findingsClient,
		offlineFindings: findings.NewOfflineClient(),
		mapper:          mapper.NewConsultMapper(),
		capability:      capability,
		maxRounds:       maxRounds,
		unitTimeout:     unitTimeout,
		logger:          log,
	}
}

func (s *consultService) StartConsultation(ctx context.Context, req *dto.StartConsultRequest) (*dto.StartConsultResponse, error) {
	caseFindings := s.describeImage(ctx, req)

	cc := deliberation.NewCaseContext(deliberation.IntakeBundle{
		Demographics: req.Demographics,
		History:      req.History,
		Symptoms:     req.Symptoms,
		Medications:  req.Medications,
		Vitals:       req.Vitals,
		FreeText:     req.FreeText,
	}, caseFindings)
	if err := cc.Validate(); err != nil {
		return nil, err
	}

	sessionID := uuid.New()
	session := deliberation.NewSession(sessionID.String(), cc)
	s.sessionRepo.Save(session)

	runCtx, cancel := context.WithCancel(context.Background())
	session.BindCancel(cancel)
	go s.runSession(runCtx, session)

	s.logger.Info("Consult", "Consultation started", map[string]interface{}{
		"session_id": session.ID,
	})
	return &dto.StartConsultResponse{
		SessionId: sessionID,
		Status:    deliberation.StatusRunning,
	}, nil
}

// describeImage runs the captioning collaborator with the offline fallback.
// A missing image yields empty findings; the case builder defaults them.
func (s *consultService) describeImage(ctx context.Context, req *dto.StartConsultRequest) deliberation.Findings {
	if len(req.Image) == 0 {
		return deliberation.Findings{}
	}

	analysis, err := s.findingsClient.Describe(ctx, req.Image, req.ImageFilename)
	if err != nil {
		s.logger.Warn("Consult", "Captioning collaborator unavailable, using offline captions", map[string]interface{}{
			"error": err.Error(),
		})
		analysis, err = s.offlineFindings.Describe(ctx, req.Image, req.ImageFilename)
		if err != nil {
			return deliberation.Findings{}
		}
	}
	return s.mapper.ToFindings(analysis)
}

// runSession owns the background deliberation for one session, including
// the final rewrite into the patient summary.
func (s *consultService) runSession(ctx context.Context, session *deliberation.Session) {
	decision, err := s.controller.Run(ctx, session)
	if err != nil {
		s.logger.Error("Consult", "Deliberation ended with error", map[string]interface{}{
			"session_id": session.ID,
			"error":      err.Error(),
		})
		return
	}

	rewriteCtx, cancel := context.WithTimeout(ctx, s.unitTimeout)
	defer cancel()
	summary, err := s.rewriter.Summarize(rewriteCtx, decision)
	if err != nil {
		s.logger.Error("Consult", "Summary rewrite failed", map[string]interface{}{
			"session_id": session.ID,
			"error":      err.Error(),
		})
		return
	}
	session.SetSummary(summary)
}

func (s *consultService) GetConsultation(sessionID uuid.UUID) (*dto.GetConsultResponse, error) {
	session, found := s.sessionRepo.Get(sessionID.String())
	if !found {
		return nil, deliberation.ErrSessionNotFound
	}
	return s.mapper.ToConsultResponse(sessionID, session), nil
}

func (s *consultService) CancelConsultation(sessionID uuid.UUID) (*dto.CancelConsultResponse, error) {
	session, found := s.sessionRepo.Get(sessionID.String())
	if !found {
		return nil, deliberation.ErrSessionNotFound
	}

	session.Cancel()
	s.logger.Info("Consult", "Consultation cancelled", map[string]interface{}{
		"session_id": session.ID,
	})
	return &dto.CancelConsultResponse{
		SessionId: sessionID,
		Status:    session.Status(),
	}, nil
}

func (s *consultService) Capabilities() *dto.CapabilitiesResponse {
	return &dto.CapabilitiesResponse{
		LlmAvailable:      s.capability.LlmAvailable,
		FindingsAvailable: s.capability.FindingsAvailable,
		Provider:          s.capability.Provider,
		Model:             s.capability.Model,
		MaxRounds:         s.maxRounds,
	}
}
