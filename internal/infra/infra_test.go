package infra

import (
	"context"
	"os"
	"testing"
)

func TestNewDB(t *testing.T) {
	dsn := os.Getenv("FARE_DB_DSN")
	if dsn == "" {
		t.Skip("FARE_DB_DSN not set")
	}
	pool, err := NewDB(context.Background(), dsn)
	if err != nil {
		t.Fatalf("connect: %v", err)
	}
	pool.Close()
}

func TestNewDBRejectsBadDSN(t *testing.T) {
	if _, err := NewDB(context.Background(), "postgres://%zz"); err == nil {
		t.Fatal("expected error for malformed DSN")
	}
}

func TestNewRedis(t *testing.T) {
	addr := os.Getenv("FARE_REDIS_ADDR")
	if addr == "" {
		t.Skip("FARE_REDIS_ADDR not set")
	}
	client, err := NewRedis(context.Background(), addr)
	if err != nil {
		t.Fatalf("connect: %v", err)
	}
	client.Close()
}
