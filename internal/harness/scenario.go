package harness

import (
	"bytes"
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

// Scenario is a conformance scenario: a sequence of signed operations run
// against a fresh engine, followed by assertions on the final state.
type Scenario struct {
	// Name uniquely identifies this scenario and names its golden file.
	Name string `yaml:"name"`

	// Description explains what this scenario validates.
	Description string `yaml:"description"`

	// Now is the fixed engine time (RFC 3339). Defaults to 2024-01-01T00:00:00Z.
	Now string `yaml:"now,omitempty"`

	// Admin overrides the privileged identity.
	Admin string `yaml:"admin,omitempty"`

	// TrustedIssuers may sign joins for any inviter.
	TrustedIssuers []string `yaml:"trusted_issuers,omitempty"`

	// LegacyCompletion selects the historical verify_action completion boundary.
	LegacyCompletion bool `yaml:"legacy_completion,omitempty"`

	// IssuerFailures lists accounts the issuer refuses to pay.
	IssuerFailures []string `yaml:"issuer_failures,omitempty"`

	// Accounts are registered before the first step. They do not appear in the trace.
	Accounts []string `yaml:"accounts"`

	Steps      []Step      `yaml:"steps"`
	Assertions []Assertion `yaml:"assertions"`
}

// Step invokes one engine operation.
type Step struct {
	// Op is the operation name, e.g. "join" or "cast_vote".
	Op string `yaml:"op"`

	// As lists the identities that signed the call.
	As []string `yaml:"as,omitempty"`

	// Args holds the operation arguments; see ops.go for each operation's fields.
	Args map[string]any `yaml:"args"`

	// Expect is nil when the step must succeed.
	Expect *Expect `yaml:"expect,omitempty"`
}

// Expect names the error kind a step must fail with.
type Expect struct {
	Error string `yaml:"error"`
}

// Assertion checks final state.
type Assertion struct {
	// Type is one of the Assert* constants.
	Type string `yaml:"type"`

	// ID selects the claim (claim, checks) or action (action).
	ID uint64 `yaml:"id,omitempty"`

	Account   string `yaml:"account,omitempty"`
	Quantity  string `yaml:"quantity,omitempty"`
	Memo      string `yaml:"memo,omitempty"`
	Community string `yaml:"community,omitempty"`

	Count      *int    `yaml:"count,omitempty"`
	IsMember   *bool   `yaml:"is_member,omitempty"`
	Verified   *bool   `yaml:"verified,omitempty"`
	UsagesLeft *uint64 `yaml:"usages_left,omitempty"`
	Completed  *bool   `yaml:"completed,omitempty"`
}

// Assertion types.
const (
	AssertIssued        = "issued"
	AssertIssuanceCount = "issuance_count"
	AssertMember        = "member"
	AssertClaim         = "claim"
	AssertAction        = "action"
	AssertChecks        = "checks"
)

// DefaultNow is the engine time of scenarios that don't set one.
var DefaultNow = time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)

// LoadScenario reads and parses a scenario YAML file.
// Unknown fields are rejected so typos surface as load errors.
func LoadScenario(path string) (*Scenario, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read scenario file: %w", err)
	}
	return ParseScenario(data)
}

// ParseScenario parses and validates scenario YAML.
func ParseScenario(data []byte) (*Scenario, error) {
	var scenario Scenario
	decoder := yaml.NewDecoder(bytes.NewReader(data))
	decoder.KnownFields(true)
	if err := decoder.Decode(&scenario); err != nil {
		return nil, fmt.Errorf("failed to parse YAML: %w", err)
	}

	if err := validateScenario(&scenario); err != nil {
		return nil, fmt.Errorf("invalid scenario: %w", err)
	}
	return &scenario, nil
}

// now returns the parsed scenario time.
func (s *Scenario) now() (time.Time, error) {
	if s.Now == "" {
		return DefaultNow, nil
	}
	t, err := time.Parse(time.RFC3339, s.Now)
	if err != nil {
		return time.Time{}, err
	}
	return t.UTC(), nil
}

// validateScenario checks that required fields are present and valid.
func validateScenario(s *Scenario) error {
	if s.Name == "" {
		return fmt.Errorf("name is required")
	}
	if s.Description == "" {
		return fmt.Errorf("description is required")
	}
	if _, err := s.now(); err != nil {
		return fmt.Errorf("now: %w", err)
	}
	if len(s.Steps) == 0 {
		return fmt.Errorf("steps list is required and must be non-empty")
	}

	for i, step := range s.Steps {
		if step.Op == "" {
			return fmt.Errorf("steps[%d]: op is required", i)
		}
		if _, ok := operations[step.Op]; !ok {
			return fmt.Errorf("steps[%d]: unknown op %q", i, step.Op)
		}
		if step.Expect != nil && step.Expect.Error == "" {
			return fmt.Errorf("steps[%d].expect: error is required", i)
		}
	}

	for i := range s.Assertions {
		if err := validateAssertion(i, &s.Assertions[i]); err != nil {
			return err
		}
	}
	return nil
}

// validateAssertion validates a single assertion based on its type.
func validateAssertion(index int, a *Assertion) error {
	switch a.Type {
	case "":
		return fmt.Errorf("assertions[%d]: type is required", index)
	case AssertIssued:
		if a.Account == "" || a.Quantity == "" {
			return fmt.Errorf("assertions[%d]: account and quantity are required for issued", index)
		}
	case AssertIssuanceCount:
		if a.Count == nil || *a.Count < 0 {
			return fmt.Errorf("assertions[%d]: non-negative count is required for issuance_count", index)
		}
	case AssertMember:
		if a.Community == "" || a.Account == "" || a.IsMember == nil {
			return fmt.Errorf("assertions[%d]: community, account and is_member are required for member", index)
		}
	case AssertClaim:
		if a.ID == 0 || a.Verified == nil {
			return fmt.Errorf("assertions[%d]: id and verified are required for claim", index)
		}
	case AssertAction:
		if a.ID == 0 || (a.UsagesLeft == nil && a.Completed == nil) {
			return fmt.Errorf("assertions[%d]: id and usages_left or completed are required for action", index)
		}
	case AssertChecks:
		if a.ID == 0 || a.Count == nil {
			return fmt.Errorf("assertions[%d]: id and count are required for checks", index)
		}
	default:
		return fmt.Errorf("assertions[%d]: unknown assertion type %q", index, a.Type)
	}
	return nil
}
