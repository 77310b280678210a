package notifications

import (
	"context"
	"sync"
)

type MockEvent struct {
	Type      string
	Recipient string
	Gift      GiftSummary
}

// Mock registra as notificações disparadas, para asserção em testes.
type Mock struct {
	mu     sync.Mutex
	Events []MockEvent
}

func (m *Mock) NotifyGiftCreated(_ context.Context, recipient string, gift GiftSummary) {
	m.record(TypeGiftCreated, recipient, gift)
}

func (m *Mock) NotifyGiftRedeemed(_ context.Context, recipient string, gift GiftSummary) {
	m.record(TypeGiftRedeemed, recipient, gift)
}

func (m *Mock) NotifyGiftExpired(_ context.Context, recipient string, gift GiftSummary) {
	m.record(TypeGiftExpired, recipient, gift)
}

func (m *Mock) record(typ, recipient string, gift GiftSummary) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Events = append(m.Events, MockEvent{Type: typ, Recipient: recipient, Gift: gift})
}

func (m *Mock) ByType(typ string) []MockEvent {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []MockEvent
	for _, ev := range m.Events {
		if ev.Type == typ {
			out = append(out, ev)
		}
	}
	return out
}
