package chromem_test

import (
	"context"
	"testing"

	"github.com/pfranklin/memvault/memory/index/chromem"
)

// Unit vectors along distinct axes give unambiguous cosine rankings.
func vec(dims, axis int) []float32 {
	v := make([]float32, dims)
	v[axis] = 1
	return v
}

func TestNearest_EmptyIndex(t *testing.T) {
	ctx := context.Background()
	ix, err := chromem.New()
	if err != nil {
		t.Fatalf("New: %v", err)
	}

	ids, err := ix.Nearest(ctx, vec(4, 0), 5)
	if err != nil {
		t.Fatalf("empty index must not error: %v", err)
	}
	if len(ids) != 0 {
		t.Errorf("got %v, want no ids", ids)
	}
}

func TestNearest_OrdersBySimilarity(t *testing.T) {
	ctx := context.Background()
	ix, err := chromem.New()
	if err != nil {
		t.Fatalf("New: %v", err)
	}

	const dims = 4
	entries := map[string][]float32{
		"x": vec(dims, 0),
		"y": vec(dims, 1),
		"z": vec(dims, 2),
	}
	for id, emb := range entries {
		if err := ix.Add(ctx, id, emb, map[string]string{"timestamp": "2026-08-30 12:00:00"}); err != nil {
			t.Fatalf("Add(%s): %v", id, err)
		}
	}

	// Query close to y but with a slight x component: expect y first, x second.
	query := []float32{0.3, 0.9, 0, 0}
	ids, err := ix.Nearest(ctx, query, 2)
	if err != nil {
		t.Fatalf("Nearest: %v", err)
	}
	if len(ids) != 2 || ids[0] != "y" || ids[1] != "x" {
		t.Errorf("got %v, want [y x]", ids)
	}
}

func TestNearest_ClampsKToCollectionSize(t *testing.T) {
	ctx := context.Background()
	ix, err := chromem.New()
	if err != nil {
		t.Fatalf("New: %v", err)
	}

	if err := ix.Add(ctx, "only", vec(4, 0), nil); err != nil {
		t.Fatalf("Add: %v", err)
	}

	ids, err := ix.Nearest(ctx, vec(4, 0), 10)
	if err != nil {
		t.Fatalf("Nearest with k beyond size must not error: %v", err)
	}
	if len(ids) != 1 || ids[0] != "only" {
		t.Errorf("got %v, want [only]", ids)
	}
}

func TestHas(t *testing.T) {
	ctx := context.Background()
	ix, err := chromem.New()
	if err != nil {
		t.Fatalf("New: %v", err)
	}

	if err := ix.Add(ctx, "present", vec(4, 1), nil); err != nil {
		t.Fatalf("Add: %v", err)
	}

	if ok, err := ix.Has(ctx, "present"); err != nil || !ok {
		t.Errorf("Has(present) = (%v, %v), want (true, nil)", ok, err)
	}
	if ok, err := ix.Has(ctx, "absent"); err != nil || ok {
		t.Errorf("Has(absent) = (%v, %v), want (false, nil)", ok, err)
	}
}

func TestNewPersistent_SurvivesReopen(t *testing.T) {
	ctx := context.Background()
	dir := t.TempDir()

	ix, err := chromem.NewPersistent(dir)
	if err != nil {
		t.Fatalf("NewPersistent: %v", err)
	}
	if err := ix.Add(ctx, "kept", vec(4, 2), map[string]string{"timestamp": "2026-08-30 12:00:00"}); err != nil {
		t.Fatalf("Add: %v", err)
	}

	reopened, err := chromem.NewPersistent(dir)
	if err != nil {
		t.Fatalf("reopen: %v", err)
	}
	if ok, _ := reopened.Has(ctx, "kept"); !ok {
		t.Error("entry lost across reopen")
	}
}
