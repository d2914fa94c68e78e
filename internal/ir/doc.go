// Package ir provides the value types shared by every spiral package.
//
// This package contains type definitions and pure helpers only. All other
// internal packages import ir; ir imports nothing internal.
//
// Key design constraints:
//   - NO float types anywhere - token amounts are int64 in smallest units
//   - Community identity is its token Symbol (code and precision)
//   - Account identities are Names, validated before they reach storage
//   - All JSON tags use snake_case
package ir
