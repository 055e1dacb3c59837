// Package simulation drives a translator with the references of a trace.
package simulation

import (
	"errors"
	"fmt"
	"io"
	"log"

	"github.com/sarchlab/pagesim/mem/trace"
	"github.com/sarchlab/pagesim/mem/vm/mmu"
)

// A Simulation owns one translator and feeds it records. Different
// simulations share no state and can run in parallel.
type Simulation struct {
	name         string
	translator   *mmu.Translator
	strict       bool
	numProcessed uint64
}

// Name returns the name of the simulation.
func (s *Simulation) Name() string {
	return s.name
}

// Translator returns the translator driven by the simulation.
func (s *Simulation) Translator() *mmu.Translator {
	return s.translator
}

// PolicyName returns the display name of the replacement policy.
func (s *Simulation) PolicyName() string {
	return s.translator.Policy().Name()
}

// NumProcessed returns the number of records translated so far.
func (s *Simulation) NumProcessed() uint64 {
	return s.numProcessed
}

// Stats returns the counters of the translator.
func (s *Simulation) Stats() mmu.Stats {
	return s.translator.Stats()
}

// Run translates every record of src in order and returns the final
// counters.
//
// A malformed record ends the run. Unless the simulation is strict, the
// records before it still count and no error is returned.
func (s *Simulation) Run(src trace.Source) (mmu.Stats, error) {
	for {
		rec, err := src.Next()
		if errors.Is(err, io.EOF) {
			return s.Stats(), nil
		}

		if err == nil {
			err = s.translate(rec)
		}

		if err != nil {
			return s.Stats(), s.stop(err)
		}
	}
}

func (s *Simulation) translate(rec trace.Record) error {
	_, err := s.translator.Translate(rec.Address, rec.Access)
	if err != nil {
		return fmt.Errorf("line %d: %w: %w",
			rec.Line, trace.ErrMalformedRecord, err)
	}

	s.numProcessed++

	return nil
}

func (s *Simulation) stop(err error) error {
	if !errors.Is(err, trace.ErrMalformedRecord) || s.strict {
		return fmt.Errorf("%s: %w", s.name, err)
	}

	log.Printf("%s: stopped after %d records: %v",
		s.name, s.numProcessed, err)

	return nil
}
