package services

import "sync"

// SentEmail records a confirmation email sent through the mock
type SentEmail struct {
	Email       string
	OrderNumber string
	TotalAmount float64
}

// MockEmailService is a mock implementation of EmailService for testing
type MockEmailService struct {
	sent []SentEmail
	err  error
	mu   sync.Mutex
}

// NewMockEmailService creates a new mock email service
func NewMockEmailService() *MockEmailService {
	return &MockEmailService{}
}

// SetAsMockForTesting sets this mock as the global email service instance for testing
func (m *MockEmailService) SetAsMockForTesting() {
	SetEmailService(m)
}

// FailWith makes subsequent sends return the given error
func (m *MockEmailService) FailWith(err error) {
	m.mu.Lock()
	m.err = err
	m.mu.Unlock()
}

// SendOrderConfirmation records the confirmation instead of sending it
func (m *MockEmailService) SendOrderConfirmation(email, orderNumber string, totalAmount float64) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.err != nil {
		return m.err
	}
	m.sent = append(m.sent, SentEmail{
		Email:       email,
		OrderNumber: orderNumber,
		TotalAmount: totalAmount,
	})
	return nil
}

// SentEmails returns all recorded confirmations (for testing assertions)
func (m *MockEmailService) SentEmails() []SentEmail {
	m.mu.Lock()
	defer m.mu.Unlock()

	sent := make([]SentEmail, len(m.sent))
	copy(sent, m.sent)
	return sent
}
