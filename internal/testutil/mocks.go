package testutil

import (
	"context"
	"sort"
	"time"

	"github.com/devforge/codelab/internal/domain/message"
	"github.com/devforge/codelab/internal/domain/plan"
	"github.com/devforge/codelab/internal/domain/project"
	"github.com/devforge/codelab/internal/domain/subscription"
	"github.com/devforge/codelab/internal/domain/user"
	"github.com/devforge/codelab/internal/pkg/errors"
)

// MockUserRepository is a mock implementation of user.Repository
type MockUserRepository struct {
	Users       map[int64]*user.User
	EmailIndex  map[string]*user.User
	NextID      int64
	CreateError error
	GetError    error
	UpdateError error
	UsageError  error
}

func NewMockUserRepository() *MockUserRepository {
	return &MockUserRepository{
		Users:      make(map[int64]*user.User),
		EmailIndex: make(map[string]*user.User),
		NextID:     1,
	}
}

func (m *MockUserRepository) Create(ctx context.Context, u *user.User) error {
	if m.CreateError != nil {
		return m.CreateError
	}
	if _, ok := m.EmailIndex[u.Email]; ok {
		return errors.Conflict("Email already registered")
	}
	u.ID = m.NextID
	m.NextID++
	m.Users[u.ID] = u
	m.EmailIndex[u.Email] = u
	return nil
}

func (m *MockUserRepository) GetByID(ctx context.Context, id int64) (*user.User, error) {
	if m.GetError != nil {
		return nil, m.GetError
	}
	u, ok := m.Users[id]
	if !ok {
		return nil, errors.NotFound("User")
	}
	return u, nil
}

func (m *MockUserRepository) GetByEmail(ctx context.Context, email string) (*user.User, error) {
	if m.GetError != nil {
		return nil, m.GetError
	}
	u, ok := m.EmailIndex[email]
	if !ok {
		return nil, errors.NotFound("User")
	}
	return u, nil
}

func (m *MockUserRepository) Update(ctx context.Context, u *user.User) error {
	if m.UpdateError != nil {
		return m.UpdateError
	}
	old, ok := m.Users[u.ID]
	if !ok {
		return errors.NotFound("User")
	}
	if old.Email != u.Email {
		delete(m.EmailIndex, old.Email)
	}
	m.Users[u.ID] = u
	m.EmailIndex[u.Email] = u
	return nil
}

func (m *MockUserRepository) UpdateUsage(ctx context.Context, id int64, projectsCreated, totalRequests int, lastRequestAt *int64) error {
	if m.UsageError != nil {
		return m.UsageError
	}
	u, ok := m.Users[id]
	if !ok {
		return errors.NotFound("User")
	}
	u.ProjectsCreated = projectsCreated
	u.TotalRequests = totalRequests
	if lastRequestAt != nil {
		t := time.Unix(*lastRequestAt, 0)
		u.LastRequestAt = &t
	} else {
		u.LastRequestAt = nil
	}
	return nil
}

func (m *MockUserRepository) Delete(ctx context.Context, id int64) error {
	if u, ok := m.Users[id]; ok {
		delete(m.EmailIndex, u.Email)
		delete(m.Users, id)
	}
	return nil
}

func (m *MockUserRepository) List(ctx context.Context, limit, offset int) ([]*user.User, int64, error) {
	var result []*user.User
	for _, u := range m.Users {
		result = append(result, u)
	}
	sort.Slice(result, func(i, j int) bool { return result[i].ID < result[j].ID })
	return result, int64(len(result)), nil
}

// MockSubscriptionRepository is a mock implementation of subscription.Repository
type MockSubscriptionRepository struct {
	Subscriptions map[int64]*subscription.Subscription // keyed by subscription ID
	PaymentLog    map[int64][]subscription.Payment
	NextID        int64
	CreateError   error
	GetError      error
	UpdateError   error
}

func NewMockSubscriptionRepository() *MockSubscriptionRepository {
	return &MockSubscriptionRepository{
		Subscriptions: make(map[int64]*subscription.Subscription),
		PaymentLog:    make(map[int64][]subscription.Payment),
		NextID:        1,
	}
}

func (m *MockSubscriptionRepository) Create(ctx context.Context, sub *subscription.Subscription) error {
	if m.CreateError != nil {
		return m.CreateError
	}
	sub.ID = m.NextID
	m.NextID++
	m.Subscriptions[sub.ID] = sub
	return nil
}

func (m *MockSubscriptionRepository) GetByID(ctx context.Context, id int64) (*subscription.Subscription, error) {
	if m.GetError != nil {
		return nil, m.GetError
	}
	sub, ok := m.Subscriptions[id]
	if !ok {
		return nil, errors.NotFound("Subscription")
	}
	return sub, nil
}

func (m *MockSubscriptionRepository) GetByUserID(ctx context.Context, userID int64) (*subscription.Subscription, error) {
	if m.GetError != nil {
		return nil, m.GetError
	}
	for _, sub := range m.Subscriptions {
		if sub.UserID == userID {
			return sub, nil
		}
	}
	return nil, errors.NotFound("Subscription")
}

func (m *MockSubscriptionRepository) Update(ctx context.Context, sub *subscription.Subscription) error {
	if m.UpdateError != nil {
		return m.UpdateError
	}
	if _, ok := m.Subscriptions[sub.ID]; !ok {
		return errors.NotFound("Subscription")
	}
	m.Subscriptions[sub.ID] = sub
	return nil
}

func (m *MockSubscriptionRepository) AddPayment(ctx context.Context, payment *subscription.Payment) error {
	m.PaymentLog[payment.SubscriptionID] = append(m.PaymentLog[payment.SubscriptionID], *payment)
	return nil
}

func (m *MockSubscriptionRepository) ListPayments(ctx context.Context, subscriptionID int64) ([]subscription.Payment, error) {
	payments := m.PaymentLog[subscriptionID]
	sort.Slice(payments, func(i, j int) bool { return payments[i].PaidAt.After(payments[j].PaidAt) })
	return payments, nil
}

func (m *MockSubscriptionRepository) ExpireLapsed(ctx context.Context) (int64, error) {
	var expired int64
	now := time.Now()
	for _, sub := range m.Subscriptions {
		if sub.Status == subscription.StatusActive && !sub.EndDate.IsZero() && sub.EndDate.Before(now) {
			sub.Status = subscription.StatusInactive
			expired++
		}
	}
	return expired, nil
}

func (m *MockSubscriptionRepository) CountActiveByPlan(ctx context.Context) (map[string]int64, error) {
	counts := make(map[string]int64)
	for _, sub := range m.Subscriptions {
		if sub.IsValid() {
			counts[sub.Plan]++
		}
	}
	return counts, nil
}

// MockProjectRepository is a mock implementation of project.Repository
type MockProjectRepository struct {
	Projects    map[int64]*project.Project
	NextID      int64
	CreateError error
}

func NewMockProjectRepository() *MockProjectRepository {
	return &MockProjectRepository{
		Projects: make(map[int64]*project.Project),
		NextID:   1,
	}
}

func (m *MockProjectRepository) Create(ctx context.Context, p *project.Project) error {
	if m.CreateError != nil {
		return m.CreateError
	}
	p.ID = m.NextID
	m.NextID++
	m.Projects[p.ID] = p
	return nil
}

func (m *MockProjectRepository) GetByID(ctx context.Context, id int64) (*project.Project, error) {
	p, ok := m.Projects[id]
	if !ok {
		return nil, errors.NotFound("Project")
	}
	return p, nil
}

func (m *MockProjectRepository) ListByUser(ctx context.Context, userID int64, limit, offset int) ([]*project.Project, int64, error) {
	var all []*project.Project
	for _, p := range m.Projects {
		if p.UserID == userID {
			all = append(all, p)
		}
	}
	sort.Slice(all, func(i, j int) bool { return all[i].ID > all[j].ID })

	total := int64(len(all))
	if offset >= len(all) {
		return nil, total, nil
	}
	end := offset + limit
	if limit <= 0 || end > len(all) {
		end = len(all)
	}
	return all[offset:end], total, nil
}

func (m *MockProjectRepository) Update(ctx context.Context, p *project.Project) error {
	if _, ok := m.Projects[p.ID]; !ok {
		return errors.NotFound("Project")
	}
	m.Projects[p.ID] = p
	return nil
}

func (m *MockProjectRepository) Delete(ctx context.Context, id int64) error {
	if _, ok := m.Projects[id]; !ok {
		return errors.NotFound("Project")
	}
	delete(m.Projects, id)
	return nil
}

// MockMessageRepository is a mock implementation of message.Repository
type MockMessageRepository struct {
	Messages map[int64]*message.Message
	NextID   int64
}

func NewMockMessageRepository() *MockMessageRepository {
	return &MockMessageRepository{
		Messages: make(map[int64]*message.Message),
		NextID:   1,
	}
}

func (m *MockMessageRepository) Create(ctx context.Context, msg *message.Message) error {
	msg.ID = m.NextID
	m.NextID++
	m.Messages[msg.ID] = msg
	return nil
}

func (m *MockMessageRepository) ListByProject(ctx context.Context, projectID int64, limit, offset int) ([]*message.Message, int64, error) {
	var all []*message.Message
	for _, msg := range m.Messages {
		if msg.ProjectID == projectID {
			all = append(all, msg)
		}
	}
	sort.Slice(all, func(i, j int) bool { return all[i].ID < all[j].ID })

	total := int64(len(all))
	if offset >= len(all) {
		return nil, total, nil
	}
	end := offset + limit
	if limit <= 0 || end > len(all) {
		end = len(all)
	}
	return all[offset:end], total, nil
}

func (m *MockMessageRepository) DeleteByProject(ctx context.Context, projectID int64) error {
	for id, msg := range m.Messages {
		if msg.ProjectID == projectID {
			delete(m.Messages, id)
		}
	}
	return nil
}

// MockMailer records sent mail instead of delivering it
type MockMailer struct {
	OTPs       []SentMail
	ResetOTPs  []SentMail
	ChangeOTPs []SentMail
	SendError  error
}

// SentMail is one recorded delivery
type SentMail struct {
	To   string
	Code string
}

func NewMockMailer() *MockMailer {
	return &MockMailer{}
}

func (m *MockMailer) SendOTP(ctx context.Context, to, code string) error {
	if m.SendError != nil {
		return m.SendError
	}
	m.OTPs = append(m.OTPs, SentMail{To: to, Code: code})
	return nil
}

func (m *MockMailer) SendPasswordResetOTP(ctx context.Context, to, code string) error {
	if m.SendError != nil {
		return m.SendError
	}
	m.ResetOTPs = append(m.ResetOTPs, SentMail{To: to, Code: code})
	return nil
}

func (m *MockMailer) SendEmailChangeOTP(ctx context.Context, to, code string) error {
	if m.SendError != nil {
		return m.SendError
	}
	m.ChangeOTPs = append(m.ChangeOTPs, SentMail{To: to, Code: code})
	return nil
}

// LastOTP returns the code from the most recent verification mail
func (m *MockMailer) LastOTP() string {
	if len(m.OTPs) == 0 {
		return ""
	}
	return m.OTPs[len(m.OTPs)-1].Code
}

// MockPaymentProvider fabricates payments, optionally failing
type MockPaymentProvider struct {
	Charges     []ChargeCall
	ChargeError error
}

// ChargeCall records one charge attempt
type ChargeCall struct {
	UserID int64
	Plan   plan.Plan
}

func NewMockPaymentProvider() *MockPaymentProvider {
	return &MockPaymentProvider{}
}

func (m *MockPaymentProvider) Charge(ctx context.Context, userID int64, p plan.Plan) (*subscription.Payment, error) {
	if m.ChargeError != nil {
		return nil, m.ChargeError
	}
	m.Charges = append(m.Charges, ChargeCall{UserID: userID, Plan: p})
	return &subscription.Payment{
		ID:            "pay_test",
		Amount:        p.Price,
		Currency:      p.Currency,
		TransactionID: "txn_test",
		PaidAt:        time.Now(),
	}, nil
}
