// Copyright (C) 2023 Gobalsky Labs Limited
//
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as
// published by the Free Software Foundation, either version 3 of the
// License, or (at your option) any later version.
//
// This program is distributed in the hope that it will be useful,
// but WITHOUT ANY WARRANTY; without even the implied warranty of
// MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE.  See the
// GNU Affero General Public License for more details.
//
// You should have received a copy of the GNU Affero General Public License
// along with this program.  If not, see <http://www.gnu.org/licenses/>.

package broker

import (
	"sort"
	"sync"

	"github.com/kazantseff/anchor-LimitlessFi/core/events"
	"github.com/kazantseff/anchor-LimitlessFi/logging"
)

// BrokerI is what the processor sends its events to.
//
//go:generate go run github.com/golang/mock/mockgen -destination mocks/broker_mock.go -package mocks github.com/kazantseff/anchor-LimitlessFi/core/broker BrokerI
type BrokerI interface {
	Send(event events.Event)
}

// Subscriber receives the events of the types it asks for, or every
// event if Types returns nothing or events.All.
type Subscriber interface {
	Push(evts ...events.Event)
	Types() []events.Type
}

// Broker sequences events and pushes them synchronously to its
// subscribers.
type Broker struct {
	log *logging.Logger

	mu   sync.Mutex
	seq  uint64
	subs map[int]Subscriber
	next int
}

func New(log *logging.Logger, cfg Config) *Broker {
	log = log.Named(namedLogger)
	log.SetLevel(cfg.Level.Get())

	return &Broker{
		log:  log,
		subs: map[int]Subscriber{},
	}
}

// Send assigns the next sequence id to the event and pushes it to the
// interested subscribers.
func (b *Broker) Send(event events.Event) {
	b.mu.Lock()
	b.seq++
	event.SetSequenceID(b.seq)
	subs := b.subscribersOf(event.Type())
	b.mu.Unlock()

	if b.log.GetLevel() == logging.DebugLevel {
		b.log.Debug("event sent",
			logging.String("type", event.Type().String()),
			logging.Uint64("sequence", event.Sequence()),
			logging.TxID(event.TxID()),
		)
	}

	for _, s := range subs {
		s.Push(event)
	}
}

// Subscribe registers a new subscriber, returning the key.
func (b *Broker) Subscribe(s Subscriber) int {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.next++
	b.subs[b.next] = s
	return b.next
}

func (b *Broker) Unsubscribe(k int) {
	b.mu.Lock()
	defer b.mu.Unlock()
	delete(b.subs, k)
}

func (b *Broker) subscribersOf(t events.Type) []Subscriber {
	out := make([]Subscriber, 0, len(b.subs))
	for _, k := range b.sortedKeys() {
		s := b.subs[k]
		if wants(s, t) {
			out = append(out, s)
		}
	}
	return out
}

func (b *Broker) sortedKeys() []int {
	keys := make([]int, 0, len(b.subs))
	for k := range b.subs {
		keys = append(keys, k)
	}
	sort.Ints(keys)
	return keys
}

func wants(s Subscriber, t events.Type) bool {
	types := s.Types()
	if len(types) == 0 {
		return true
	}
	for _, st := range types {
		if st == events.All || st == t {
			return true
		}
	}
	return false
}
