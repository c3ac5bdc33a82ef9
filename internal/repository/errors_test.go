package repository

import (
	"errors"
	"fmt"
	"testing"

	"github.com/jackc/pgx/v5/pgconn"
)

func TestTranslateErrors(t *testing.T) {
	pgErr := func(code, constraint string) error {
		return fmt.Errorf("exec: %w", &pgconn.PgError{Code: code, ConstraintName: constraint})
	}

	cases := []struct {
		name      string
		translate func(string, error) error
		err       error
		want      error
	}{
		{"movement product", translateInventoryError, pgErr("23503", "fk_inventory_movements_product"), ErrReferenceNotFound},
		{"movement recorder", translateInventoryError, pgErr("23503", "fk_inventory_movements_user"), ErrUserReference},
		{"movement amount overflow", translateInventoryError, pgErr("22003", ""), ErrConstraintViolated},
		{"movement batch too long", translateInventoryError, pgErr("22001", ""), ErrConstraintViolated},
		{"event organizer", translateEventError, pgErr("23503", "fk_events_organizer"), ErrUserReference},
		{"event date order", translateEventError, pgErr("23514", "chk_events_date_order"), ErrInvalidDateRange},
		{"event title too long", translateEventError, pgErr("22001", ""), ErrConstraintViolated},
		{"product sku taken", translateProductError, pgErr("23505", "products_sku_key"), ErrSKUAlreadyExists},
		{"product price overflow", translateProductError, pgErr("22003", ""), ErrConstraintViolated},
		{"product name too long", translateProductError, pgErr("22001", ""), ErrConstraintViolated},
	}

	for _, tc := range cases {
		if got := tc.translate("create", tc.err); !errors.Is(got, tc.want) {
			t.Errorf("%s: expected %v, got %v", tc.name, tc.want, got)
		}
	}

	if got := translateInventoryError("create", pgErr("23503", "fk_inventory_movements_product")); errors.Is(got, ErrUserReference) {
		t.Error("a product reference must not be reported as a user reference")
	}
}
