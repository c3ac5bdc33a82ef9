package database

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"bakery-api/internal/config"

	"github.com/alicebob/miniredis/v2"
	"github.com/jackc/pgx/v5/pgconn"
	"go.uber.org/zap"
)

func TestClassifyError(t *testing.T) {
	cases := []struct {
		name string
		err  error
		want ErrorClass
	}{
		{"nil", nil, ErrorClassOther},
		{"unique", &pgconn.PgError{Code: "23505", ConstraintName: "products_sku_key"}, ErrorClassUniqueViolation},
		{"wrapped unique", fmt.Errorf("insert: %w", &pgconn.PgError{Code: "23505"}), ErrorClassUniqueViolation},
		{"foreign key", &pgconn.PgError{Code: "23503"}, ErrorClassForeignKeyViolation},
		{"check", &pgconn.PgError{Code: "23514"}, ErrorClassCheckViolation},
		{"string too long", &pgconn.PgError{Code: "22001"}, ErrorClassDataException},
		{"numeric out of range", fmt.Errorf("insert: %w", &pgconn.PgError{Code: "22003"}), ErrorClassDataException},
		{"statement cancelled", &pgconn.PgError{Code: "57014"}, ErrorClassTimeout},
		{"deadline", fmt.Errorf("query: %w", context.DeadlineExceeded), ErrorClassTimeout},
		{"other", errors.New("connection reset"), ErrorClassOther},
	}

	for _, tc := range cases {
		if got := ClassifyError(tc.err); got != tc.want {
			t.Errorf("%s: expected class %d, got %d", tc.name, tc.want, got)
		}
	}
}

func TestConstraintName(t *testing.T) {
	err := fmt.Errorf("insert: %w", &pgconn.PgError{Code: "23505", ConstraintName: "users_email_key"})
	if got := ConstraintName(err); got != "users_email_key" {
		t.Errorf("expected users_email_key, got %q", got)
	}
	if got := ConstraintName(errors.New("plain")); got != "" {
		t.Errorf("expected empty constraint name, got %q", got)
	}
}

func TestNewRedis(t *testing.T) {
	logger := zap.NewNop()

	if client := NewRedis(context.Background(), config.RedisConfig{}, logger); client != nil {
		t.Error("expected nil client when REDIS_ADDR is empty")
	}

	mr, err := miniredis.Run()
	if err != nil {
		t.Fatalf("Failed to start miniredis: %v", err)
	}

	client := NewRedis(context.Background(), config.RedisConfig{Addr: mr.Addr()}, logger)
	if client == nil {
		t.Fatal("expected a connected client")
	}
	defer client.Close()

	addr := mr.Addr()
	mr.Close()
	if client := NewRedis(context.Background(), config.RedisConfig{Addr: addr}, logger); client != nil {
		t.Error("expected nil client when redis is unreachable")
	}
}
