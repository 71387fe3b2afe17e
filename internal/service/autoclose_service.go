package service

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/spec-kit/autoclose-service/internal/config"
	"github.com/spec-kit/autoclose-service/internal/domain"
	"github.com/spec-kit/autoclose-service/internal/events"
	"github.com/spec-kit/autoclose-service/internal/observability"
	"github.com/spec-kit/autoclose-service/internal/repository"
)

// ErrNoClosedStatus is the fatal message reported when the status table
// holds no terminal status to close tickets into.
const ErrNoClosedStatus = "Could not find closed status in database"

// AutoCloseService is the engine facade. Process mutates state; Preview is
// a read-only dry run. Overlapping Process invocations on one instance are
// serialized by a mutex; cross-instance serialization is the scheduler's
// concern (run lock).
type AutoCloseService struct {
	mu         sync.Mutex
	rules      repository.RuleRepository
	statuses   repository.StatusRepository
	matcher    *ruleMatcher
	processor  *ruleProcessor
	dispatcher events.Dispatcher
	metrics    *observability.Metrics
	logger     *zap.Logger
	sampleSize int
}

// AutoCloseDependencies bundles repositories for the engine.
type AutoCloseDependencies struct {
	RuleRepo         repository.RuleRepository
	StatusRepo       repository.StatusRepository
	TicketRepo       repository.TicketRepository
	MessageRepo      repository.MessageRepository
	NotificationRepo repository.NotificationRepository
	Dispatcher       events.Dispatcher
	Metrics          *observability.Metrics
	Logger           *zap.Logger
}

// NewAutoCloseService constructs the engine.
func NewAutoCloseService(cfg config.EngineConfig, deps AutoCloseDependencies) *AutoCloseService {
	logger := deps.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	sampleSize := cfg.PreviewSampleSize
	if sampleSize <= 0 {
		sampleSize = 10
	}

	matcher := newRuleMatcher(deps.TicketRepo, deps.StatusRepo, logger)
	closer := newTicketCloser(deps.TicketRepo, deps.MessageRepo, deps.NotificationRepo, logger)
	processor := newRuleProcessor(matcher, closer, deps.RuleRepo, cfg.RuleWorkers, logger)

	return &AutoCloseService{
		rules:      deps.RuleRepo,
		statuses:   deps.StatusRepo,
		matcher:    matcher,
		processor:  processor,
		dispatcher: deps.Dispatcher,
		metrics:    deps.Metrics,
		logger:     logger,
		sampleSize: sampleSize,
	}
}

// Process runs one full sweep: every active rule is matched and every
// matching ticket closed. One bad rule or ticket never aborts the sweep;
// only a missing closed status or a failed rule-list fetch is fatal, and a
// fatal result carries exactly the fatal message with zero counts.
func (s *AutoCloseService) Process(ctx context.Context) *domain.EngineResult {
	s.mu.Lock()
	defer s.mu.Unlock()

	start := time.Now()
	runID := uuid.NewString()
	result := &domain.EngineResult{RunID: runID, Errors: []string{}, Details: []domain.TicketOutcome{}}

	closedStatus, err := s.statuses.FindClosedStatus(ctx)
	if err != nil {
		s.logger.Error("no closed status available", zap.Error(err))
		result.Errors = append(result.Errors, ErrNoClosedStatus)
		return result
	}

	rules, err := s.rules.ListActive(ctx)
	if err != nil {
		s.logger.Error("failed to load active rules", zap.Error(err))
		result.Errors = append(result.Errors, "Failed to load auto-close rules: "+err.Error())
		return result
	}
	if len(rules) == 0 {
		s.logger.Info("no active auto-close rules", zap.String("run_id", runID))
		return result
	}

	result = s.processor.Run(ctx, runID, rules, closedStatus.ID)
	duration := time.Since(start)

	s.publishOutcomes(ctx, result)
	s.metrics.RecordEngineRun(result.Processed, result.Closed, len(result.Errors), duration)
	s.logger.Info("auto-close run completed",
		zap.String("run_id", runID),
		zap.Int("rules", len(rules)),
		zap.Int("processed", result.Processed),
		zap.Int("closed", result.Closed),
		zap.Int("errors", len(result.Errors)),
		zap.Duration("duration", duration))
	return result
}

// Preview reports, per active rule, how many tickets a sweep would close
// and a capped sample of them. It performs no writes and increments no
// counters.
func (s *AutoCloseService) Preview(ctx context.Context) (*domain.PreviewResult, error) {
	rules, err := s.rules.ListActive(ctx)
	if err != nil {
		return nil, err
	}

	now := time.Now()
	result := &domain.PreviewResult{Rules: []domain.RulePreview{}}
	for _, rule := range rules {
		matches := s.matcher.Match(ctx, rule, now)
		sample := matches
		if len(sample) > s.sampleSize {
			sample = sample[:s.sampleSize]
		}
		result.Rules = append(result.Rules, domain.RulePreview{
			RuleID:      rule.ID,
			RuleName:    rule.Name,
			TicketCount: len(matches),
			Tickets:     sample,
		})
		result.TotalTickets += len(matches)
	}
	return result, nil
}

func (s *AutoCloseService) publishOutcomes(ctx context.Context, result *domain.EngineResult) {
	if s.dispatcher == nil {
		return
	}
	for _, outcome := range result.Details {
		if !outcome.Success {
			continue
		}
		s.publish(ctx, events.Event{
			Type:  events.EventTicketAutoClosed,
			RunID: result.RunID,
			Payload: events.TicketAutoClosedPayload{
				TicketID:     outcome.TicketID,
				TicketNumber: outcome.TicketNumber,
				RuleID:       outcome.RuleID,
				RuleName:     outcome.RuleName,
			},
		})
	}
	s.publish(ctx, events.Event{
		Type:  events.EventAutoCloseRunFinished,
		RunID: result.RunID,
		Payload: events.RunFinishedPayload{
			Processed:  result.Processed,
			Closed:     result.Closed,
			ErrorCount: len(result.Errors),
		},
	})
}

func (s *AutoCloseService) publish(ctx context.Context, event events.Event) {
	if event.ID == "" {
		event.ID = uuid.NewString()
	}
	if event.Timestamp.IsZero() {
		event.Timestamp = time.Now()
	}
	_ = s.dispatcher.Publish(ctx, event)
}
