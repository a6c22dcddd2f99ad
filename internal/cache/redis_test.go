package cache

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/go-redis/redismock/v9"

	"github.com/goliatone/go-translatable/pkg/interfaces"
)

func TestRedisStoreGetHit(t *testing.T) {
	db, mock := redismock.NewClientMock()
	defer db.Close()

	store := NewRedisStoreFromClient(db)
	mock.ExpectGet("translatable:article:key:en").SetVal(`{"language_code":"en"}`)

	got, err := store.Get(context.Background(), "translatable:article:key:en")
	if err != nil {
		t.Fatalf("Get returned error: %v", err)
	}
	if string(got) != `{"language_code":"en"}` {
		t.Fatalf("unexpected value %q", got)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("unmet expectations: %v", err)
	}
}

func TestRedisStoreGetMiss(t *testing.T) {
	db, mock := redismock.NewClientMock()
	defer db.Close()

	store := NewRedisStoreFromClient(db)
	mock.ExpectGet("absent").RedisNil()

	if _, err := store.Get(context.Background(), "absent"); !errors.Is(err, interfaces.ErrCacheMiss) {
		t.Fatalf("expected ErrCacheMiss, got %v", err)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("unmet expectations: %v", err)
	}
}

func TestRedisStoreGetError(t *testing.T) {
	db, mock := redismock.NewClientMock()
	defer db.Close()

	store := NewRedisStoreFromClient(db)
	boom := errors.New("connection refused")
	mock.ExpectGet("key").SetErr(boom)

	_, err := store.Get(context.Background(), "key")
	if err == nil || errors.Is(err, interfaces.ErrCacheMiss) {
		t.Fatalf("expected provider error, got %v", err)
	}
}

func TestRedisStoreSetAndDelete(t *testing.T) {
	db, mock := redismock.NewClientMock()
	defer db.Close()

	store := NewRedisStoreFromClient(db)
	payload := []byte(`{"missing":true}`)
	mock.ExpectSet("key", payload, time.Minute).SetVal("OK")
	mock.ExpectDel("key", "other").SetVal(1)

	ctx := context.Background()
	if err := store.Set(ctx, "key", payload, time.Minute); err != nil {
		t.Fatalf("Set returned error: %v", err)
	}
	if err := store.Delete(ctx, "key", "other"); err != nil {
		t.Fatalf("Delete returned error: %v", err)
	}
	if err := store.Delete(ctx); err != nil {
		t.Fatalf("Delete without keys returned error: %v", err)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("unmet expectations: %v", err)
	}
}
