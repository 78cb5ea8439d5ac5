// Package policy guards outbound call placement with an OPA rego policy.
package policy

import (
	"context"
	"fmt"
	"sort"
	"strings"

	"github.com/open-policy-agent/opa/rego"

	"github.com/xiaot623/callbuddy/internal/domain"
)

// Decisions returned by the policy.
const (
	DecisionAllow = "allow"
	DecisionBlock = "block"
)

// Input describes a call about to be placed.
type Input struct {
	Flow           domain.Flow
	AssistantID    string
	Destination    string
	HasPriorResult bool
}

// Decision is the evaluated policy outcome.
type Decision struct {
	Decision string
	Reason   string
}

// Allowed reports whether the call may be placed.
func (d Decision) Allowed() bool {
	return d.Decision == DecisionAllow
}

// Engine is the OPA policy engine.
type Engine struct {
	query rego.PreparedEvalQuery
}

// NewEngine creates a new policy engine with the given policy content.
func NewEngine(ctx context.Context, policyContent string) (*Engine, error) {
	r := rego.New(
		rego.Query("data.call_policy"),
		rego.Module("call_policy.rego", policyContent),
	)

	query, err := r.PrepareForEval(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to prepare rego: %w", err)
	}

	return &Engine{query: query}, nil
}

// Evaluate checks whether the described call may be placed.
func (e *Engine) Evaluate(ctx context.Context, in Input) (Decision, error) {
	input := map[string]interface{}{
		"flow":             string(in.Flow),
		"assistant_id":     in.AssistantID,
		"destination":      in.Destination,
		"has_prior_result": in.HasPriorResult,
	}

	results, err := e.query.Eval(ctx, rego.EvalInput(input))
	if err != nil {
		return Decision{}, fmt.Errorf("failed to evaluate policy: %w", err)
	}

	if len(results) == 0 || len(results[0].Expressions) == 0 {
		// A policy without a default decision allows.
		return Decision{Decision: DecisionAllow, Reason: "default"}, nil
	}

	doc, ok := results[0].Expressions[0].Value.(map[string]interface{})
	if !ok {
		return Decision{}, fmt.Errorf("unexpected policy document type %T", results[0].Expressions[0].Value)
	}

	decision, _ := doc["decision"].(string)
	if decision == "" {
		decision = DecisionAllow
	}

	var reasons []string
	if raw, ok := doc["reasons"].([]interface{}); ok {
		for _, r := range raw {
			if s, ok := r.(string); ok {
				reasons = append(reasons, s)
			}
		}
	}
	sort.Strings(reasons)

	return Decision{Decision: decision, Reason: strings.Join(reasons, "; ")}, nil
}

// DefaultPolicy is the default policy content.
const DefaultPolicy = `
package call_policy

default decision = "allow"

decision = "block" {
	count(reasons) > 0
}

valid_destination {
	regex.match("^\\+[1-9][0-9]{1,14}$", input.destination)
}

reasons["destination is not an E.164 number"] {
	not valid_destination
}

# The evening call is only placed with this morning's goals in hand.
reasons["evening call without a prior result"] {
	input.flow == "evening"
	not input.has_prior_result
}
`
