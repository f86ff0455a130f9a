package http

import (
	"context"
	"encoding/json"
	"net/http"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/zentraxx/storefront/internal/app"
	"github.com/zentraxx/storefront/internal/domain"
)

const actorHeader = "X-Actor-ID"

// AdminOrderService is the minimal interface for admin order verification.
type AdminOrderService interface {
	CompleteOrder(ctx context.Context, actorID, orderID string) (domain.Order, error)
	CancelOrder(ctx context.Context, actorID, orderID, reason string) (domain.Order, error)
	ListOrders(ctx context.Context, actorID string, status domain.OrderStatus) ([]domain.Order, error)
}

// AdminMaintenanceService is the minimal interface for admin wallet and
// catalog maintenance.
type AdminMaintenanceService interface {
	SetWalletBalance(ctx context.Context, actorID, accountID string, amount decimal.Decimal) error
	CreateProduct(ctx context.Context, actorID string, in app.CreateProductInput) (domain.Product, error)
}

// HandleAdminOrders routes /admin/orders and /admin/orders/{id}/{action}.
func HandleAdminOrders(svc AdminOrderService) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		actorID := r.Header.Get(actorHeader)
		if actorID == "" {
			writeError(w, http.StatusForbidden, codeForbidden, domain.ErrUnauthorized.Error())
			return
		}

		parts := strings.Split(strings.Trim(r.URL.Path, "/"), "/")
		switch {
		case len(parts) == 2 && r.Method == http.MethodGet:
			status := domain.OrderStatus(r.URL.Query().Get("status"))
			orders, err := svc.ListOrders(r.Context(), actorID, status)
			if err != nil {
				writeDomainError(w, err)
				return
			}
			resp := make([]orderResponse, 0, len(orders))
			for _, o := range orders {
				resp = append(resp, toOrderResponse(o))
			}
			w.Header().Set("Content-Type", "application/json")
			_ = json.NewEncoder(w).Encode(resp)
		case len(parts) == 4 && r.Method == http.MethodPost:
			orderID, action := parts[2], parts[3]
			if orderID == "" {
				writeError(w, http.StatusNotFound, codeNotFound, "not found")
				return
			}
			switch action {
			case "complete":
				order, err := svc.CompleteOrder(r.Context(), actorID, orderID)
				if err != nil {
					writeDomainError(w, err)
					return
				}
				w.Header().Set("Content-Type", "application/json")
				_ = json.NewEncoder(w).Encode(toOrderResponse(order))
			case "cancel":
				var req cancelOrderRequest
				if r.Body != nil && r.ContentLength != 0 {
					dec := json.NewDecoder(r.Body)
					dec.DisallowUnknownFields()
					if err := dec.Decode(&req); err != nil {
						writeError(w, http.StatusBadRequest, codeInvalidRequestBody, "invalid request body")
						return
					}
				}
				order, err := svc.CancelOrder(r.Context(), actorID, orderID, req.Reason)
				if err != nil {
					writeDomainError(w, err)
					return
				}
				w.Header().Set("Content-Type", "application/json")
				_ = json.NewEncoder(w).Encode(toOrderResponse(order))
			default:
				writeError(w, http.StatusNotFound, codeNotFound, "not found")
			}
		default:
			writeError(w, http.StatusMethodNotAllowed, codeMethodNotAllowed, "method not allowed")
		}
	}
}

type cancelOrderRequest struct {
	Reason string `json:"reason"`
}

// HandleAdminWallet handles PUT /admin/accounts/{id}/wallet.
func HandleAdminWallet(svc AdminMaintenanceService) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPut {
			writeError(w, http.StatusMethodNotAllowed, codeMethodNotAllowed, "method not allowed")
			return
		}
		actorID := r.Header.Get(actorHeader)
		if actorID == "" {
			writeError(w, http.StatusForbidden, codeForbidden, domain.ErrUnauthorized.Error())
			return
		}

		parts := strings.Split(strings.Trim(r.URL.Path, "/"), "/")
		if len(parts) != 4 || parts[3] != "wallet" || parts[2] == "" {
			writeError(w, http.StatusNotFound, codeNotFound, "not found")
			return
		}
		accountID := parts[2]

		var req setWalletRequest
		dec := json.NewDecoder(r.Body)
		dec.DisallowUnknownFields()
		if err := dec.Decode(&req); err != nil {
			writeError(w, http.StatusBadRequest, codeInvalidRequestBody, "invalid request body")
			return
		}
		amount, err := decimal.NewFromString(strings.ReplaceAll(req.Amount, ",", "."))
		if err != nil {
			writeError(w, http.StatusBadRequest, codeInvalidAmount, "invalid amount")
			return
		}

		if err := svc.SetWalletBalance(r.Context(), actorID, accountID, amount); err != nil {
			writeDomainError(w, err)
			return
		}
		w.WriteHeader(http.StatusNoContent)
	}
}

type setWalletRequest struct {
	Amount string `json:"amount"`
}

// HandleAdminProducts handles POST /admin/products.
func HandleAdminProducts(svc AdminMaintenanceService) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost {
			writeError(w, http.StatusMethodNotAllowed, codeMethodNotAllowed, "method not allowed")
			return
		}
		actorID := r.Header.Get(actorHeader)
		if actorID == "" {
			writeError(w, http.StatusForbidden, codeForbidden, domain.ErrUnauthorized.Error())
			return
		}

		var req createProductRequest
		dec := json.NewDecoder(r.Body)
		dec.DisallowUnknownFields()
		if err := dec.Decode(&req); err != nil {
			writeError(w, http.StatusBadRequest, codeInvalidRequestBody, "invalid request body")
			return
		}
		price, err := decimal.NewFromString(strings.ReplaceAll(req.Price, ",", "."))
		if err != nil {
			writeError(w, http.StatusBadRequest, codeInvalidAmount, "invalid price")
			return
		}

		product, err := svc.CreateProduct(r.Context(), actorID, app.CreateProductInput{
			Name:        req.Name,
			Description: req.Description,
			Kind:        domain.ProductKind(req.Kind),
			Price:       price,
			Stock:       req.Stock,
			Visible:     req.Visible,
			FilePath:    req.FilePath,
		})
		if err != nil {
			writeDomainError(w, err)
			return
		}

		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusCreated)
		_ = json.NewEncoder(w).Encode(productResponse{
			ID:          product.ID,
			Name:        product.Name,
			Description: product.Description,
			Kind:        string(product.Kind),
			Price:       product.Price.StringFixed(2),
			InStock:     product.CanReserve(1),
		})
	}
}

type createProductRequest struct {
	Name        string `json:"name"`
	Description string `json:"description"`
	Kind        string `json:"kind"`
	Price       string `json:"price"`
	Stock       int    `json:"stock"`
	Visible     bool   `json:"visible"`
	FilePath    string `json:"file_path"`
}
