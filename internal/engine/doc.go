// Package engine implements the community membership registry, the
// objective and action registry and the verification engine.
//
// Every mutating method is one operation: it runs inside a single store
// transaction and is serialized with every other operation. A rejected
// operation returns an *Error and leaves no trace in the store.
//
// Operation flow:
//  1. transact generates an operation id and opens a transaction
//  2. the operation checks its preconditions in a fixed order and writes rows
//  3. reward issuances are scheduled, not sent, while the operation runs
//  4. scheduled issuances are journaled and sent to the Issuer before commit;
//     an issuer error rolls the whole operation back
//  5. after commit, involved accounts are handed to the Notifier
//
// Actions are either automatic (VerifyAction pays the maker directly) or
// claimable (OpenClaim, then CastVote by the action's validators until the
// number of approvals reaches verifications_required).
//
// Collaborators are injected with EngineOption values: Authorizer,
// AccountOracle, Clock, Allocator, Issuer, Notifier and OpIDGenerator.
package engine
