// Package streaming delivers notification events to connected viewers.
// Delivery is best effort; the notification log remains the source of truth.
package streaming

import (
	"sync"

	"github.com/flocksocial/flock/internal/snowflake"
)

type Payload struct {
	Event string
	Data  any
}

// A Mux fans events out to the subscriptions of a given recipient.
type Mux struct {
	mu         sync.Mutex
	recipients map[snowflake.ID]map[*Subscription]chan<- Payload
}

// Publish delivers the payload to every subscription held by the recipient.
// Subscribers that cannot keep up are cancelled.
func (m *Mux) Publish(recipient snowflake.ID, event string, data any) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for sub, ch := range m.recipients[recipient] {
		select {
		case ch <- Payload{Event: event, Data: data}:
		default:
			// too slow, unsubscribe
			m.cancel(sub)
		}
	}
}

// Subscribe registers interest in events addressed to the recipient.
func (m *Mux) Subscribe(recipient snowflake.ID) *Subscription {
	m.mu.Lock()
	defer m.mu.Unlock()
	ch := make(chan Payload, 8)
	sub := &Subscription{
		mux:       m,
		recipient: recipient,
		C:         ch,
	}
	if m.recipients == nil {
		m.recipients = make(map[snowflake.ID]map[*Subscription]chan<- Payload)
	}
	if m.recipients[recipient] == nil {
		m.recipients[recipient] = make(map[*Subscription]chan<- Payload)
	}
	m.recipients[recipient][sub] = ch
	return sub
}

// cancel removes the subscription. Callers must hold m.mu.
func (m *Mux) cancel(sub *Subscription) {
	subs, ok := m.recipients[sub.recipient]
	if !ok {
		return
	}
	ch, ok := subs[sub]
	if ok {
		delete(subs, sub)
		close(ch)
	}
	if len(subs) == 0 {
		delete(m.recipients, sub.recipient)
	}
}

type Subscription struct {
	mux       *Mux
	recipient snowflake.ID
	// The channel to which events are received.
	C <-chan Payload
}

func (s *Subscription) Cancel() {
	s.mux.mu.Lock()
	defer s.mux.mu.Unlock()
	s.mux.cancel(s)
}
