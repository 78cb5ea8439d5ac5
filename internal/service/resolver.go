package service

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/xiaot623/callbuddy/internal/adapter/vapi"
	"github.com/xiaot623/callbuddy/internal/domain"
)

// Criteria selects the prior calls a result may come from. All conditions
// must hold.
type Criteria struct {
	AssistantID string
	Destination string

	// Around, when set, restricts candidates to calls on the same calendar
	// day as Around (in Around's location) and, if Tolerance is positive,
	// within Tolerance of it.
	Around    time.Time
	Tolerance time.Duration
}

// Candidate is one call as seen by the selection: its identity plus the
// result it carries, if any.
type Candidate struct {
	Status      domain.CallStatus
	Destination string
	AssistantID string
	Timestamp   *time.Time
	Result      domain.StructuredResult
}

// CandidateOf builds a candidate from a call.
func CandidateOf(call *domain.Call) Candidate {
	return Candidate{
		Status:      call.Status,
		Destination: call.CustomerNumber(),
		AssistantID: call.AssistantID,
		Timestamp:   call.Timestamp(),
		Result:      call.StructuredResult(),
	}
}

// Matches reports whether the candidate is an ended call to the destination
// made by the assistant, inside the optional time window.
func (c Criteria) Matches(cand Candidate) bool {
	if cand.Status != domain.CallStatusEnded {
		return false
	}
	if cand.Destination != c.Destination || cand.AssistantID != c.AssistantID {
		return false
	}
	if c.Around.IsZero() {
		return true
	}
	if cand.Timestamp == nil {
		return false
	}

	ts := cand.Timestamp.In(c.Around.Location())
	ty, tm, td := ts.Date()
	ay, am, ad := c.Around.Date()
	if ty != ay || tm != am || td != ad {
		return false
	}
	if c.Tolerance > 0 {
		delta := ts.Sub(c.Around)
		if delta < 0 {
			delta = -delta
		}
		if delta > c.Tolerance {
			return false
		}
	}
	return true
}

// Selection is the outcome of SelectResult.
type Selection struct {
	// Index of the chosen candidate, -1 when none carried a result.
	Index     int
	Result    domain.StructuredResult
	Inspected int
}

// Found reports whether a candidate was chosen.
func (s Selection) Found() bool {
	return s.Index >= 0
}

// SelectResult walks candidates in the given order and returns the first
// matching one with a non-empty result. Matching candidates without a result
// are skipped, not treated as the end of the search. Inspected counts every
// matching candidate examined.
func SelectResult(candidates []Candidate, c Criteria) Selection {
	sel, _ := selectResult(candidates, c, func(i int) (domain.StructuredResult, error) {
		return candidates[i].Result, nil
	})
	return sel
}

// selectResult is SelectResult with the result of each matching candidate
// supplied by a callback, so it can be fetched lazily.
func selectResult(candidates []Candidate, c Criteria, result func(i int) (domain.StructuredResult, error)) (Selection, error) {
	sel := Selection{Index: -1}
	for i, cand := range candidates {
		if !c.Matches(cand) {
			continue
		}
		sel.Inspected++
		res, err := result(i)
		if err != nil {
			return sel, err
		}
		if !res.Empty() {
			sel.Index = i
			sel.Result = res
			return sel, nil
		}
	}
	return sel, nil
}

// FindLatestResult finds the most recent ended call by the assistant to the
// destination that carries a structured result.
//
// Only the platform's first page of calls is examined and its order is
// trusted as most-recent-first. A resolution without a result is not an
// error: callers treat it as "no prior session".
func (s *Service) FindLatestResult(ctx context.Context, assistantID, destination string) (*domain.Resolution, error) {
	return s.findLatest(ctx, Criteria{AssistantID: assistantID, Destination: destination})
}

func (s *Service) findLatest(ctx context.Context, c Criteria) (*domain.Resolution, error) {
	calls, err := s.platform.ListCalls(ctx, vapi.ListCallsOptions{Limit: s.listLimit()})
	if err != nil {
		return nil, fmt.Errorf("failed to list calls: %w", err)
	}

	candidates := make([]Candidate, len(calls))
	for i := range calls {
		candidates[i] = CandidateOf(&calls[i])
		// Summaries carry no artifact; the result comes from the full fetch.
		candidates[i].Result = ""
	}

	var chosen *domain.Call
	sel, err := selectResult(candidates, c, func(i int) (domain.StructuredResult, error) {
		full, err := s.platform.GetCall(ctx, calls[i].ID)
		if err != nil {
			return "", fmt.Errorf("failed to fetch call %s: %w", calls[i].ID, err)
		}
		res := full.StructuredResult()
		if !res.Empty() {
			chosen = full
		} else {
			s.logger.Debug("successful call has no structured result", zap.String("call_id", calls[i].ID))
		}
		return res, nil
	})
	if err != nil {
		return nil, err
	}

	resolution := &domain.Resolution{Inspected: sel.Inspected}
	if sel.Found() {
		resolution.Result = sel.Result
		resolution.Call = chosen
	}

	s.logger.Debug("resolved latest result",
		zap.String("assistant_id", c.AssistantID),
		zap.Int("listed", len(calls)),
		zap.Int("inspected", sel.Inspected),
		zap.Bool("found", sel.Found()),
	)
	return resolution, nil
}

func (s *Service) listLimit() int {
	if s.config == nil {
		return 0
	}
	return s.config.ListLimit
}
