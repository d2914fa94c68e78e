// Package seed bootstraps a database from a CUE document.
//
// A seed lists accounts, communities with their members, objectives and
// actions. The document is validated against the embedded #Seed schema and
// then applied through the engine in that order, each entry signed by its
// creator or inviter, so a seeded database is indistinguishable from one
// built by individual calls.
package seed

import (
	_ "embed"
	"fmt"
	"os"

	"cuelang.org/go/cue"
	"cuelang.org/go/cue/cuecontext"
	"cuelang.org/go/cue/errors"
	"cuelang.org/go/cue/token"
)

//go:embed schema.cue
var schemaSource []byte

// Seed is a decoded bootstrap document.
type Seed struct {
	Accounts    []string    `json:"accounts"`
	Communities []Community `json:"communities"`
	Objectives  []Objective `json:"objectives"`
	Actions     []Action    `json:"actions"`
}

type Community struct {
	Symbol        string   `json:"symbol"`
	Creator       string   `json:"creator"`
	Name          string   `json:"name"`
	Description   string   `json:"description"`
	Logo          string   `json:"logo"`
	InviterReward string   `json:"inviter_reward"`
	InvitedReward string   `json:"invited_reward"`
	Members       []Member `json:"members"`
}

type Member struct {
	Account string `json:"account"`
	Inviter string `json:"inviter"`
}

type Objective struct {
	Key         string `json:"key"`
	Community   string `json:"community"`
	Creator     string `json:"creator"`
	Description string `json:"description"`
}

// Action references its objective by key. Deadline is RFC 3339 when set.
type Action struct {
	Objective      string   `json:"objective"`
	Description    string   `json:"description"`
	Reward         string   `json:"reward"`
	VerifierReward string   `json:"verifier_reward"`
	Deadline       string   `json:"deadline,omitempty"`
	Usages         uint64   `json:"usages"`
	Verifications  uint64   `json:"verifications"`
	Mode           string   `json:"mode"`
	Validators     []string `json:"validators"`
	Creator        string   `json:"creator"`
}

// Error is a schema violation with its source position when known.
type Error struct {
	Message string
	Pos     token.Pos
}

func (e *Error) Error() string {
	if e.Pos.IsValid() {
		return fmt.Sprintf("%s:%d:%d: %s", e.Pos.Filename(), e.Pos.Line(), e.Pos.Column(), e.Message)
	}
	return e.Message
}

// LoadFile reads and validates the seed at path.
func LoadFile(path string) (*Seed, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read seed: %w", err)
	}
	return Parse(data, path)
}

// Parse validates a CUE seed document against #Seed and decodes it.
// Omitted lists and optional fields take their schema defaults.
func Parse(data []byte, filename string) (*Seed, error) {
	ctx := cuecontext.New()
	schema := ctx.CompileBytes(schemaSource, cue.Filename("schema.cue"))
	if err := schema.Err(); err != nil {
		return nil, fmt.Errorf("compile seed schema: %w", err)
	}

	doc := ctx.CompileBytes(data, cue.Filename(filename))
	if err := doc.Err(); err != nil {
		return nil, positioned(err)
	}

	v := schema.LookupPath(cue.ParsePath("#Seed")).Unify(doc)
	if err := v.Validate(cue.Concrete(true)); err != nil {
		return nil, positioned(err)
	}

	var s Seed
	if err := v.Decode(&s); err != nil {
		return nil, fmt.Errorf("decode seed: %w", err)
	}
	return &s, nil
}

// positioned reduces a CUE error list to its first entry with a position.
func positioned(err error) error {
	errs := errors.Errors(err)
	if len(errs) == 0 {
		return &Error{Message: err.Error()}
	}
	first := errs[0]
	e := &Error{Message: first.Error()}
	if pos := errors.Positions(first); len(pos) > 0 {
		e.Pos = pos[0]
	}
	return e
}
