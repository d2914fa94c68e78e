package store

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/roach88/spiral/internal/ir"
)

var testSymbol = ir.Symbol{Precision: 4, Code: "BES"}

// createTestStore opens a fresh file-backed store under t.TempDir.
func createTestStore(t *testing.T) *Store {
	t.Helper()
	path := filepath.Join(t.TempDir(), "test.db")
	s, err := Open(path)
	if err != nil {
		t.Fatalf("Open() failed: %v", err)
	}
	t.Cleanup(func() { s.Close() })
	return s
}

// mustUpdate runs fn in a committed transaction and fails the test on error.
func mustUpdate(t *testing.T, s *Store, fn func(*Tx) error) {
	t.Helper()
	if err := s.Update(context.Background(), fn); err != nil {
		t.Fatalf("Update() failed: %v", err)
	}
}

func createTestCommunity() ir.Community {
	return ir.Community{
		Symbol:        testSymbol,
		Creator:       "alice",
		Logo:          "https://example.com/logo.png",
		Name:          "Bespiral",
		Description:   "test community",
		InviterReward: ir.MustAsset("1.0000 BES"),
		InvitedReward: ir.MustAsset("2.0000 BES"),
	}
}

func createTestAction(id, objectiveID uint64) ir.Action {
	return ir.Action{
		ID:                    id,
		ObjectiveID:           objectiveID,
		Description:           "plant a tree",
		Reward:                ir.MustAsset("5.0000 BES"),
		VerifierReward:        ir.MustAsset("0.5000 BES"),
		Usages:                3,
		UsagesLeft:            3,
		VerificationsRequired: 2,
		Mode:                  ir.VerificationClaimable,
		Creator:               "alice",
	}
}

// seedObjective inserts the test community and objective 1.
func seedObjective(t *testing.T, s *Store) {
	t.Helper()
	ctx := context.Background()
	mustUpdate(t, s, func(tx *Tx) error {
		if err := tx.InsertCommunity(ctx, createTestCommunity()); err != nil {
			return err
		}
		return tx.InsertObjective(ctx, ir.Objective{
			ID:          1,
			Community:   testSymbol,
			Creator:     "alice",
			Description: "green the city",
		})
	})
}
