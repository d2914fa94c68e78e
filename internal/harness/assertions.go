package harness

import (
	"context"
	"fmt"

	"github.com/roach88/spiral/internal/ir"
)

// AssertionError describes a failed assertion.
type AssertionError struct {
	Index    int
	Type     string
	Expected string
	Actual   string
}

func (e *AssertionError) Error() string {
	return fmt.Sprintf("assertions[%d] %s: expected %s, got %s", e.Index, e.Type, e.Expected, e.Actual)
}

// evaluateAssertions checks every assertion against the final engine state
// and returns the failure messages.
func (h *Harness) evaluateAssertions(ctx context.Context, assertions []Assertion) []string {
	var failures []string
	for i, a := range assertions {
		if err := h.evaluate(ctx, i, a); err != nil {
			failures = append(failures, err.Error())
		}
	}
	return failures
}

func (h *Harness) evaluate(ctx context.Context, index int, a Assertion) error {
	fail := func(expected, actual string, args ...any) error {
		return &AssertionError{
			Index:    index,
			Type:     a.Type,
			Expected: expected,
			Actual:   fmt.Sprintf(actual, args...),
		}
	}

	switch a.Type {
	case AssertIssued:
		journal, err := h.engine.ListIssuances(ctx, 0)
		if err != nil {
			return fail("readable journal", "%v", err)
		}
		for _, iss := range journal {
			if iss.Kind != ir.IssuanceIssue || string(iss.Account) != a.Account {
				continue
			}
			if iss.Quantity.String() != a.Quantity {
				continue
			}
			if a.Memo != "" && iss.Memo != a.Memo {
				continue
			}
			return nil
		}
		return fail(fmt.Sprintf("issue of %s to %s", a.Quantity, a.Account), "no matching issuance in %d entries", len(journal))

	case AssertIssuanceCount:
		journal, err := h.engine.ListIssuances(ctx, 0)
		if err != nil {
			return fail("readable journal", "%v", err)
		}
		count := 0
		for _, iss := range journal {
			if a.Account == "" || string(iss.Account) == a.Account {
				count++
			}
		}
		if count != *a.Count {
			return fail(fmt.Sprintf("%d issuances", *a.Count), "%d", count)
		}
		return nil

	case AssertMember:
		sym, err := ir.ParseSymbol(a.Community)
		if err != nil {
			return fail("valid community symbol", "%v", err)
		}
		ok, err := h.engine.IsMember(ctx, sym, ir.Name(a.Account))
		if err != nil {
			return fail("membership lookup", "%v", err)
		}
		if ok != *a.IsMember {
			return fail(fmt.Sprintf("is_member=%t for %s", *a.IsMember, a.Account), "is_member=%t", ok)
		}
		return nil

	case AssertClaim:
		c, err := h.engine.GetClaim(ctx, a.ID)
		if err != nil {
			return fail(fmt.Sprintf("claim %d", a.ID), "%v", err)
		}
		if c.IsVerified != *a.Verified {
			return fail(fmt.Sprintf("verified=%t", *a.Verified), "verified=%t", c.IsVerified)
		}
		return nil

	case AssertAction:
		act, err := h.engine.GetAction(ctx, a.ID)
		if err != nil {
			return fail(fmt.Sprintf("action %d", a.ID), "%v", err)
		}
		if a.UsagesLeft != nil && act.UsagesLeft != *a.UsagesLeft {
			return fail(fmt.Sprintf("usages_left=%d", *a.UsagesLeft), "usages_left=%d", act.UsagesLeft)
		}
		if a.Completed != nil && act.IsCompleted != *a.Completed {
			return fail(fmt.Sprintf("completed=%t", *a.Completed), "completed=%t", act.IsCompleted)
		}
		return nil

	case AssertChecks:
		c, err := h.engine.GetClaim(ctx, a.ID)
		if err != nil {
			return fail(fmt.Sprintf("claim %d", a.ID), "%v", err)
		}
		if len(c.Checks) != *a.Count {
			return fail(fmt.Sprintf("%d checks", *a.Count), "%d", len(c.Checks))
		}
		return nil
	}
	return fail("known assertion type", "%q", a.Type)
}
