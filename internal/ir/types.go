package ir

import (
	"fmt"
	"time"
)

// MaxUsages is the largest usage limit an action may declare.
const MaxUsages = 1000

// MaxTextLength is the byte limit for descriptions, names and logos.
const MaxTextLength = 256

// VerificationMode selects how completion of an action is established.
type VerificationMode string

const (
	// VerificationAutomatic actions are verified by a single verify call.
	VerificationAutomatic VerificationMode = "automatic"

	// VerificationClaimable actions require a claim and validator consensus.
	VerificationClaimable VerificationMode = "claimable"
)

// ParseVerificationMode accepts "automatic" or "claimable".
func ParseVerificationMode(s string) (VerificationMode, error) {
	switch m := VerificationMode(s); m {
	case VerificationAutomatic, VerificationClaimable:
		return m, nil
	default:
		return "", fmt.Errorf("verification mode must be either %q or %q, got %q",
			VerificationClaimable, VerificationAutomatic, s)
	}
}

// Vote is a validator's decision on a claim.
type Vote uint8

const (
	VoteReject  Vote = 0
	VoteApprove Vote = 1
)

// IDKind names a monotonic id sequence.
type IDKind string

const (
	KindObjective IDKind = "objective"
	KindAction    IDKind = "action"
	KindClaim     IDKind = "claim"
	KindSale      IDKind = "sale"
)

// IDKinds lists every allocator sequence in a stable order.
var IDKinds = []IDKind{KindObjective, KindAction, KindClaim, KindSale}

// Community is a token-scoped namespace with its own referral reward policy.
type Community struct {
	Symbol        Symbol `json:"symbol"`
	Creator       Name   `json:"creator"`
	Logo          string `json:"logo"`
	Name          string `json:"name"`
	Description   string `json:"description"`
	InviterReward Asset  `json:"inviter_reward"`
	InvitedReward Asset  `json:"invited_reward"`
}

// Membership records that Account joined Community through InvitedBy.
type Membership struct {
	Key       string `json:"key"`
	Community Symbol `json:"community"`
	Account   Name   `json:"account"`
	InvitedBy Name   `json:"invited_by"`
}

// Objective groups actions within a community.
type Objective struct {
	ID          uint64 `json:"id"`
	Community   Symbol `json:"community"`
	Creator     Name   `json:"creator"`
	Description string `json:"description"`
}

// Action is a task definition with rewards, limits and a verification mode.
//
// A zero Deadline means no deadline. Usages == 0 means unlimited.
type Action struct {
	ID                    uint64           `json:"id"`
	ObjectiveID           uint64           `json:"objective_id"`
	Description           string           `json:"description"`
	Reward                Asset            `json:"reward"`
	VerifierReward        Asset            `json:"verifier_reward"`
	Deadline              time.Time        `json:"deadline"`
	Usages                uint64           `json:"usages"`
	UsagesLeft            uint64           `json:"usages_left"`
	VerificationsRequired uint64           `json:"verifications_required"`
	Mode                  VerificationMode `json:"verification_mode"`
	IsCompleted           bool             `json:"is_completed"`
	Creator               Name             `json:"creator"`

	// Validators is populated for claimable actions when read with its allowlist.
	Validators []Name `json:"validators,omitempty"`
}

// HasDeadline reports whether the action expires.
func (a Action) HasDeadline() bool {
	return !a.Deadline.IsZero()
}

// Limited reports whether the action has a finite number of usages.
func (a Action) Limited() bool {
	return a.Usages > 0
}

// Claim asserts that Claimer performed a claimable action.
type Claim struct {
	ID         uint64 `json:"id"`
	ActionID   uint64 `json:"action_id"`
	Claimer    Name   `json:"claimer"`
	IsVerified bool   `json:"is_verified"`

	// Checks is populated when the claim is read with its votes.
	Checks []Check `json:"checks,omitempty"`
}

// Check is one validator's recorded vote on a claim.
type Check struct {
	ID        int64  `json:"id"`
	ClaimID   uint64 `json:"claim_id"`
	Validator Name   `json:"validator"`
	Vote      Vote   `json:"vote"`
}

// IssuanceKind distinguishes token issue calls from account initialization.
type IssuanceKind string

const (
	IssuanceIssue   IssuanceKind = "issue"
	IssuanceInitAcc IssuanceKind = "initacc"
)

// Issuance is one call made to the reward issuer by a committed operation.
// For initacc entries Quantity carries a zero amount of the community symbol.
type Issuance struct {
	Seq      int64        `json:"seq"`
	OpID     string       `json:"op_id"`
	Op       string       `json:"op"`
	Kind     IssuanceKind `json:"kind"`
	Account  Name         `json:"account"`
	Quantity Asset        `json:"quantity"`
	Memo     string       `json:"memo"`
}
