package service

import (
	"context"

	"github.com/jackc/pgx/v5"

	"github.com/spec-kit/autoclose-service/internal/domain"
	"github.com/spec-kit/autoclose-service/internal/repository"
)

// Mock ticket store. ListEligible applies the filter against the in-memory
// ticket set the way the SQL query would, including the inclusive cutoff
// comparison and the final-status exclusion.
type mockTicketRepo struct {
	tickets       []domain.Ticket
	finalStatuses map[int64]bool
	listErr       error
	listCalls     int
	lastFilter    repository.EligibilityFilter

	closeCalls  int
	closedWith  map[string]int64
	closeErrs   map[string]error
	contacts    map[string]*domain.TicketContact
	contactErr  error
	contactGets int
}

func newMockTicketRepo() *mockTicketRepo {
	return &mockTicketRepo{
		finalStatuses: map[int64]bool{},
		closedWith:    map[string]int64{},
		closeErrs:     map[string]error{},
		contacts:      map[string]*domain.TicketContact{},
	}
}

func (m *mockTicketRepo) ListEligible(ctx context.Context, filter repository.EligibilityFilter) ([]domain.Ticket, error) {
	m.listCalls++
	m.lastFilter = filter
	if m.listErr != nil {
		return nil, m.listErr
	}
	var result []domain.Ticket
	for _, t := range m.tickets {
		if m.finalStatuses[t.StatusID] {
			continue
		}
		if t.UpdatedAt.After(filter.UpdatedBefore) {
			continue
		}
		if filter.StatusID != nil && t.StatusID != *filter.StatusID {
			continue
		}
		if len(filter.StatusIDs) > 0 && !containsID(filter.StatusIDs, t.StatusID) {
			continue
		}
		result = append(result, t)
	}
	return result, nil
}

func (m *mockTicketRepo) Close(ctx context.Context, id string, closedStatusID int64) error {
	m.closeCalls++
	if err := m.closeErrs[id]; err != nil {
		return err
	}
	m.closedWith[id] = closedStatusID
	return nil
}

func (m *mockTicketRepo) GetContact(ctx context.Context, id string) (*domain.TicketContact, error) {
	m.contactGets++
	if m.contactErr != nil {
		return nil, m.contactErr
	}
	contact, ok := m.contacts[id]
	if !ok {
		return nil, pgx.ErrNoRows
	}
	return contact, nil
}

func containsID(ids []int64, id int64) bool {
	for _, candidate := range ids {
		if candidate == id {
			return true
		}
	}
	return false
}

type mockStatusRepo struct {
	closedStatus *domain.TicketStatus
	closedErr    error
	pendingIDs   []int64
	pendingErr   error
	lookupCalls  int
}

func (m *mockStatusRepo) FindClosedStatus(ctx context.Context) (*domain.TicketStatus, error) {
	if m.closedErr != nil {
		return nil, m.closedErr
	}
	if m.closedStatus == nil {
		return nil, pgx.ErrNoRows
	}
	return m.closedStatus, nil
}

func (m *mockStatusRepo) FindIDsByNameLike(ctx context.Context, fragment string) ([]int64, error) {
	m.lookupCalls++
	if m.pendingErr != nil {
		return nil, m.pendingErr
	}
	return m.pendingIDs, nil
}

type mockRuleRepo struct {
	rules      []domain.AutoCloseRule
	listErr    error
	increments map[string]int
	incErr     error
}

func newMockRuleRepo(rules ...domain.AutoCloseRule) *mockRuleRepo {
	return &mockRuleRepo{rules: rules, increments: map[string]int{}}
}

func (m *mockRuleRepo) ListActive(ctx context.Context) ([]domain.AutoCloseRule, error) {
	if m.listErr != nil {
		return nil, m.listErr
	}
	var active []domain.AutoCloseRule
	for _, rule := range m.rules {
		if rule.IsActive {
			active = append(active, rule)
		}
	}
	return active, nil
}

func (m *mockRuleRepo) List(ctx context.Context) ([]domain.AutoCloseRule, error) {
	return m.rules, m.listErr
}

func (m *mockRuleRepo) GetByID(ctx context.Context, id string) (*domain.AutoCloseRule, error) {
	for i := range m.rules {
		if m.rules[i].ID == id {
			return &m.rules[i], nil
		}
	}
	return nil, pgx.ErrNoRows
}

func (m *mockRuleRepo) Create(ctx context.Context, rule *domain.AutoCloseRule) error {
	m.rules = append(m.rules, *rule)
	return nil
}

func (m *mockRuleRepo) Update(ctx context.Context, rule *domain.AutoCloseRule) error {
	return nil
}

func (m *mockRuleRepo) Delete(ctx context.Context, id string) error {
	return nil
}

func (m *mockRuleRepo) IncrementTicketsClosed(ctx context.Context, id string, n int) error {
	if m.incErr != nil {
		return m.incErr
	}
	m.increments[id] += n
	return nil
}

type mockMessageRepo struct {
	notes     []domain.TicketMessage
	createErr error
}

func (m *mockMessageRepo) Create(ctx context.Context, msg *domain.TicketMessage) error {
	if m.createErr != nil {
		return m.createErr
	}
	m.notes = append(m.notes, *msg)
	return nil
}

type mockNotificationRepo struct {
	batches   [][]domain.Notification
	createErr error
}

func (m *mockNotificationRepo) CreateBatch(ctx context.Context, notifications []domain.Notification) error {
	if m.createErr != nil {
		return m.createErr
	}
	m.batches = append(m.batches, notifications)
	return nil
}

func (m *mockNotificationRepo) inserted() []domain.Notification {
	var all []domain.Notification
	for _, batch := range m.batches {
		all = append(all, batch...)
	}
	return all
}
