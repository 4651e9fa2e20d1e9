package catalog

import (
	"context"
	"errors"
	"testing"

	"marketfront/internal/domain"
)

// Malformed ids must read as missing rows, never reach the pool, and never
// turn into a cast error. The nil pool proves the queries are skipped.

func TestGetProduct_MalformedID(t *testing.T) {
	repo := NewPostgres(nil, nil)
	_, err := repo.GetProduct(context.Background(), "not-a-uuid")
	if !errors.Is(err, domain.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestGetVendor_MalformedID(t *testing.T) {
	repo := NewPostgres(nil, nil)
	_, err := repo.GetVendor(context.Background(), "vend1")
	if !errors.Is(err, domain.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestListProductsByIDs_MalformedIDsSkipped(t *testing.T) {
	repo := NewPostgres(nil, nil)
	out, err := repo.ListProductsByIDs(context.Background(), []string{"p1", "also bad"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(out) != 0 {
		t.Fatalf("expected empty map, got %v", out)
	}
}

func TestListVariantsByIDs_MalformedIDsSkipped(t *testing.T) {
	repo := NewPostgres(nil, nil)
	out, err := repo.ListVariantsByIDs(context.Background(), []string{"zz"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(out) != 0 {
		t.Fatalf("expected empty map, got %v", out)
	}
}
