// Package auth carries proof of identity for an operation.
//
// Callers attach the identities whose signatures they hold to the request
// context with WithSigners. ContextAuthorizer answers the engine's
// authorization probe from that set.
package auth

import (
	"context"
	"fmt"
	"slices"
	"strings"

	"github.com/roach88/spiral/internal/ir"
)

type signersKey struct{}

// WithSigners returns a copy of ctx that proves control of names, in
// addition to any signers already present.
func WithSigners(ctx context.Context, names ...ir.Name) context.Context {
	merged := append(slices.Clone(Signers(ctx)), names...)
	slices.Sort(merged)
	return context.WithValue(ctx, signersKey{}, slices.Compact(merged))
}

// Signers returns the identities proven on ctx, sorted.
func Signers(ctx context.Context) []ir.Name {
	names, _ := ctx.Value(signersKey{}).([]ir.Name)
	return names
}

// HasSigner reports whether ctx proves control of name.
func HasSigner(ctx context.Context, name ir.Name) bool {
	_, found := slices.BinarySearch(Signers(ctx), name)
	return found
}

// ContextAuthorizer authorizes exactly the signers carried on the context.
type ContextAuthorizer struct{}

// IsAuthorized reports whether name signed the operation.
func (ContextAuthorizer) IsAuthorized(ctx context.Context, name ir.Name) bool {
	return HasSigner(ctx, name)
}

// ParseSigners parses a comma-separated list such as "alice,bob".
// Empty entries are skipped.
func ParseSigners(s string) ([]ir.Name, error) {
	var names []ir.Name
	for _, part := range strings.Split(s, ",") {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}
		n, err := ir.ParseName(part)
		if err != nil {
			return nil, fmt.Errorf("signer: %w", err)
		}
		names = append(names, n)
	}
	return names, nil
}
