// Package store provides SQLite-backed durable storage for spiral state.
//
// Tables:
//   - accounts: Known account names (account existence oracle)
//   - communities, memberships: Community metadata and membership edges
//   - objectives, actions, validators: Action registry and allowlists
//   - claims, checks: Claim lifecycle and the append-only vote ledger
//   - id_counters: Monotonic id sequences per kind
//   - issuances: Journal of reward issuer calls from committed operations
//
// # Transactions
//
// Every top-level engine operation runs inside one Update call. Update
// commits only when the callback returns nil; any error rolls back every
// write made through the Tx, including id allocation and journal entries.
//
// # Database Configuration
//
//   - WAL mode: Concurrent reads during writes
//   - synchronous=NORMAL: Balance durability/performance
//   - busy_timeout=5000: Wait for locks up to 5 seconds
//   - foreign_keys=ON: Enforce referential integrity
//
// Queries that return several rows always order by primary key so reads are
// deterministic.
package store
