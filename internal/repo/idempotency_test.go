package repo

import (
	"context"
	"errors"
	"testing"
	"time"
)

func TestIdempotency_CreateAndGetRoundtrip(t *testing.T) {
	db := newTestDB(t)
	ctx := context.Background()

	rec, err := CreateIdempotency(ctx, db, "u1", "/swipes", "k-1", "swipe-42", 201, time.Hour)
	if err != nil {
		t.Fatalf("CreateIdempotency: %v", err)
	}
	if rec.ResultID != "swipe-42" || rec.Status != 201 {
		t.Fatalf("unexpected record: %+v", rec)
	}

	got, err := GetIdempotency(ctx, db, "u1", "/swipes", "k-1", time.Now().UTC())
	if err != nil {
		t.Fatalf("GetIdempotency: %v", err)
	}
	if got.ResultID != "swipe-42" || got.Status != 201 {
		t.Fatalf("replay payload mismatch: %+v", got)
	}

	// Same key, different user or scope, is a different tuple.
	if _, err := GetIdempotency(ctx, db, "u2", "/swipes", "k-1", time.Now().UTC()); !errors.Is(err, ErrNotFound) {
		t.Fatalf("other user hit the record: %v", err)
	}
	if _, err := GetIdempotency(ctx, db, "u1", "/ideas/generate-pool", "k-1", time.Now().UTC()); !errors.Is(err, ErrNotFound) {
		t.Fatalf("other scope hit the record: %v", err)
	}
}

func TestIdempotency_ExpiredRecordIsInvisible(t *testing.T) {
	db := newTestDB(t)
	ctx := context.Background()

	if _, err := CreateIdempotency(ctx, db, "u1", "/swipes", "k-exp", "swipe-1", 201, time.Minute); err != nil {
		t.Fatalf("CreateIdempotency: %v", err)
	}

	future := time.Now().UTC().Add(2 * time.Minute)
	if _, err := GetIdempotency(ctx, db, "u1", "/swipes", "k-exp", future); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expired record returned: %v", err)
	}
}

func TestIdempotency_EmptyScopeAndDuplicate(t *testing.T) {
	db := newTestDB(t)
	ctx := context.Background()

	if _, err := GetIdempotency(ctx, db, "u1", "  ", "k-1", time.Now().UTC()); !errors.Is(err, ErrNotFound) {
		t.Fatalf("blank scope = %v; want ErrNotFound", err)
	}

	if _, err := CreateIdempotency(ctx, db, "u1", "/swipes", "k-dup", "a", 201, time.Hour); err != nil {
		t.Fatalf("first create: %v", err)
	}
	if _, err := CreateIdempotency(ctx, db, "u1", "/swipes", "k-dup", "b", 201, time.Hour); !errors.Is(err, ErrDuplicate) {
		t.Fatalf("second create = %v; want ErrDuplicate", err)
	}
}
