package service

import (
	"context"
	"fmt"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/spec-kit/autoclose-service/internal/domain"
	"github.com/spec-kit/autoclose-service/internal/repository"
)

// ruleProcessor runs the matcher and closer across the active rule set.
// Rules are independent, so they fan out to a bounded worker pool; each
// worker writes a partial result to its own slot and the partials are
// merged in the original rule order, keeping Errors and Details stable
// across runs.
type ruleProcessor struct {
	matcher *ruleMatcher
	closer  *ticketCloser
	rules   repository.RuleRepository
	workers int
	logger  *zap.Logger
}

type rulePartial struct {
	processed int
	closed    int
	errors    []string
	details   []domain.TicketOutcome
}

func newRuleProcessor(matcher *ruleMatcher, closer *ticketCloser, rules repository.RuleRepository, workers int, logger *zap.Logger) *ruleProcessor {
	if workers <= 0 {
		workers = 1
	}
	return &ruleProcessor{
		matcher: matcher,
		closer:  closer,
		rules:   rules,
		workers: workers,
		logger:  logger,
	}
}

// Run processes every rule and aggregates the outcome.
func (p *ruleProcessor) Run(ctx context.Context, runID string, rules []domain.AutoCloseRule, closedStatusID int64) *domain.EngineResult {
	result := &domain.EngineResult{RunID: runID, Errors: []string{}, Details: []domain.TicketOutcome{}}
	if len(rules) == 0 {
		return result
	}

	workers := p.workers
	if workers > len(rules) {
		workers = len(rules)
	}

	partials := make([]rulePartial, len(rules))
	jobs := make(chan int)
	var wg sync.WaitGroup
	for w := 0; w < workers; w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for i := range jobs {
				partials[i] = p.processRule(ctx, rules[i], closedStatusID)
			}
		}()
	}
	for i := range rules {
		jobs <- i
	}
	close(jobs)
	wg.Wait()

	for _, partial := range partials {
		result.Processed += partial.processed
		result.Closed += partial.closed
		result.Errors = append(result.Errors, partial.errors...)
		result.Details = append(result.Details, partial.details...)
	}
	return result
}

func (p *ruleProcessor) processRule(ctx context.Context, rule domain.AutoCloseRule, closedStatusID int64) rulePartial {
	start := time.Now()
	matches := p.matcher.Match(ctx, rule, time.Now())

	partial := rulePartial{processed: len(matches)}
	for _, ticket := range matches {
		outcome := p.closer.Close(ctx, ticket, rule, closedStatusID)
		if outcome.Success {
			partial.closed++
		} else {
			partial.errors = append(partial.errors,
				fmt.Sprintf("Failed to close %d: %s", ticket.Number, outcome.Error))
		}
		partial.details = append(partial.details, outcome)
	}

	// The counter advances by the number of tickets actually closed, as a
	// single increment so concurrent sweeps cannot lose updates. A failed
	// persistence here is a non-fatal side effect.
	if partial.closed > 0 {
		if err := p.rules.IncrementTicketsClosed(ctx, rule.ID, partial.closed); err != nil {
			p.logger.Warn("failed to persist rule counter",
				zap.String("rule_id", rule.ID),
				zap.String("rule_name", rule.Name),
				zap.Int("closed", partial.closed),
				zap.Error(err))
		}
	}

	p.logger.Info("rule processed",
		zap.String("rule_id", rule.ID),
		zap.String("rule_name", rule.Name),
		zap.Int("matched", partial.processed),
		zap.Int("closed", partial.closed),
		zap.Duration("duration", time.Since(start)))
	return partial
}
