package http

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/zentraxx/storefront/internal/domain"
)

// ProductLister is the minimal interface needed for the storefront page.
type ProductLister interface {
	ListProducts(ctx context.Context) ([]domain.Product, error)
}

// HandleProducts returns an HTTP handler listing visible products.
func HandleProducts(svc ProductLister) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodGet {
			writeError(w, http.StatusMethodNotAllowed, codeMethodNotAllowed, "method not allowed")
			return
		}

		products, err := svc.ListProducts(r.Context())
		if err != nil {
			writeDomainError(w, err)
			return
		}

		resp := make([]productResponse, 0, len(products))
		for _, p := range products {
			resp = append(resp, productResponse{
				ID:          p.ID,
				Name:        p.Name,
				Description: p.Description,
				Kind:        string(p.Kind),
				Price:       p.Price.StringFixed(2),
				InStock:     p.CanReserve(1),
			})
		}
		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(resp)
	}
}

type productResponse struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	Description string `json:"description,omitempty"`
	Kind        string `json:"kind"`
	Price       string `json:"price"`
	InStock     bool   `json:"in_stock"`
}
