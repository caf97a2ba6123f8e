package ledger

import (
	"testing"
	"time"

	"github.com/vovakirdan/tui-2048/internal/engine"
)

func TestHashIsStable(t *testing.T) {
	rec := record("a", 8)
	h1 := Hash(rec)
	if len(h1) != 64 {
		t.Fatalf("Hash() length = %d, want 64", len(h1))
	}

	// Bookkeeping fields do not affect the digest
	rec.Hash = "x"
	rec.BatchID = "batch"
	rec.Submitted = true
	if Hash(rec) != h1 {
		t.Error("Hash() changed with bookkeeping fields")
	}

	// Same instant in another zone hashes the same
	rec.CreatedAt = rec.CreatedAt.In(time.FixedZone("X", 3600))
	if Hash(rec) != h1 {
		t.Error("Hash() depends on the time zone")
	}
}

func TestHashDetectsTampering(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*engine.MoveRecord)
	}{
		{"board", func(r *engine.MoveRecord) { r.Board[3][3] = 2 }},
		{"score", func(r *engine.MoveRecord) { r.Score++ }},
		{"direction", func(r *engine.MoveRecord) { r.Direction = engine.DirUp }},
		{"time", func(r *engine.MoveRecord) { r.CreatedAt = r.CreatedAt.Add(time.Nanosecond) }},
		{"gain", func(r *engine.MoveRecord) { r.ScoreGained = 0 }},
		{"id", func(r *engine.MoveRecord) { r.ID = "b" }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := record("a", 8)
			rec.Hash = Hash(rec)
			tt.mutate(&rec)
			if Verify(rec) {
				t.Error("Verify() accepted a modified record")
			}
		})
	}
}

func TestVerifyRequiresHash(t *testing.T) {
	if Verify(record("a", 8)) {
		t.Error("Verify() accepted a record without a hash")
	}
}
