package transport

import (
	"net/http"
	"slices"
	"strings"

	"bakery-api/internal/apperror"
	"bakery-api/internal/middleware"
	"bakery-api/internal/repository"
)

// parseExpand reads the comma separated expand parameter. A missing
// parameter selects every allowed reference; an empty one selects none.
func parseExpand(r *http.Request, allowed ...string) (map[string]bool, error) {
	selected := make(map[string]bool, len(allowed))

	values, present := r.URL.Query()["expand"]
	if !present {
		for _, name := range allowed {
			selected[name] = true
		}
		return selected, nil
	}

	for _, value := range values {
		for _, name := range strings.Split(value, ",") {
			name = strings.TrimSpace(name)
			if name == "" {
				continue
			}
			if !slices.Contains(allowed, name) {
				return nil, apperror.Field("expand", "Must be one of: "+strings.Join(allowed, ", "))
			}
			selected[name] = true
		}
	}
	return selected, nil
}

func inventoryExpand(r *http.Request) (repository.InventoryExpand, error) {
	selected, err := parseExpand(r, "product", "user")
	if err != nil {
		return repository.InventoryExpand{}, err
	}
	return repository.InventoryExpand{Product: selected["product"], User: selected["user"]}, nil
}

func eventExpand(r *http.Request) (repository.EventExpand, error) {
	selected, err := parseExpand(r, "organizer")
	if err != nil {
		return repository.EventExpand{}, err
	}
	return repository.EventExpand{Organizer: selected["organizer"]}, nil
}

// currentUser returns the authenticated subject set by the auth middleware.
func currentUser(r *http.Request) (string, error) {
	userID, ok := middleware.GetUserID(r.Context())
	if !ok || userID == "" {
		return "", apperror.Unauthorized("unauthorized")
	}
	return userID, nil
}

// deleted is the payload returned by delete operations.
type deleted struct {
	ID  string `json:"id,omitempty"`
	SKU string `json:"sku,omitempty"`
}
