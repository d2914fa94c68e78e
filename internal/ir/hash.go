package ir

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
)

// Domain prefixes for derived keys.
// Version suffix enables future algorithm migration.
const (
	DomainMembership = "spiral/membership/v1"
)

// hashWithDomain computes SHA-256 with domain separation.
// Format: SHA256(domain + 0x00 + data)
func hashWithDomain(domain string, data []byte) string {
	h := sha256.New()
	h.Write([]byte(domain))
	h.Write([]byte{0x00})
	h.Write(data)
	return hex.EncodeToString(h.Sum(nil))
}

// MembershipKey derives the deterministic lookup key for the
// (community, account) membership edge.
func MembershipKey(community Symbol, account Name) (string, error) {
	canonical, err := MarshalCanonical(map[string]any{
		"community": community.String(),
		"account":   account,
	})
	if err != nil {
		return "", fmt.Errorf("MembershipKey: failed to marshal: %w", err)
	}
	return hashWithDomain(DomainMembership, canonical), nil
}
