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

package metrics

import (
	"time"

	"github.com/pkg/errors"
	"github.com/prometheus/client_golang/prometheus"
)

const namespace = "limitless"

// Results of a processed instruction.
const (
	ResultOK                  = "ok"
	ResultAlreadyInUse        = "already_in_use"
	ResultConstraintViolation = "constraint_violation"
	ResultInvalidMint         = "invalid_mint"
	ResultInsufficientFunds   = "insufficient_funds"
	ResultError               = "error"
)

// Metrics records the outcome of the processed instructions.
type Metrics struct {
	instructions *prometheus.CounterVec
	duration     *prometheus.HistogramVec
	gatherer     prometheus.Gatherer
}

// New registers the instruments on reg.
func New(reg *prometheus.Registry) (*Metrics, error) {
	m := &Metrics{
		instructions: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "instructions_total",
				Help:      "Number of processed instructions, by result",
			},
			[]string{"instruction", "result"},
		),
		duration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: namespace,
				Name:      "instruction_duration_seconds",
				Help:      "Time spent processing an instruction",
				Buckets:   prometheus.DefBuckets,
			},
			[]string{"instruction"},
		),
		gatherer: reg,
	}
	for _, c := range []prometheus.Collector{m.instructions, m.duration} {
		if err := reg.Register(c); err != nil {
			return nil, errors.Wrap(err, "could not register metrics")
		}
	}
	return m, nil
}

// ObserveInstruction counts one processed instruction.
func (m *Metrics) ObserveInstruction(instruction, result string, took time.Duration) {
	m.instructions.WithLabelValues(instruction, result).Inc()
	m.duration.WithLabelValues(instruction).Observe(took.Seconds())
}

// WriteTextfile writes every gathered metric to path.
func (m *Metrics) WriteTextfile(path string) error {
	return prometheus.WriteToTextfile(path, m.gatherer)
}
