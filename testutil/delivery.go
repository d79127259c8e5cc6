package testutil

import (
	"context"
	"sync"
)

type Published struct {
	UserID  string
	Payload any
}

// FakePublisher records live pushes. Set Err to make Publish fail.
type FakePublisher struct {
	mu       sync.Mutex
	Err      error
	messages []Published
}

func (p *FakePublisher) Publish(_ context.Context, userID string, payload any) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.Err != nil {
		return p.Err
	}
	p.messages = append(p.messages, Published{UserID: userID, Payload: payload})
	return nil
}

func (p *FakePublisher) Messages() []Published {
	p.mu.Lock()
	defer p.mu.Unlock()
	return append([]Published(nil), p.messages...)
}

type SentMail struct {
	To      []string
	Subject string
	HTML    string
}

// FakeMailer records sent mail. It is enabled unless Disabled is set.
type FakeMailer struct {
	mu       sync.Mutex
	Disabled bool
	Err      error
	sent     []SentMail
}

func (m *FakeMailer) Enabled() bool {
	return !m.Disabled
}

func (m *FakeMailer) SendMail(to []string, subject, html string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.Err != nil {
		return m.Err
	}
	m.sent = append(m.sent, SentMail{To: to, Subject: subject, HTML: html})
	return nil
}

func (m *FakeMailer) Sent() []SentMail {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]SentMail(nil), m.sent...)
}
