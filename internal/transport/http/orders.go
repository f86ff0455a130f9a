package http

import (
	"context"
	"encoding/json"
	"net/http"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"github.com/zentraxx/storefront/internal/app"
	"github.com/zentraxx/storefront/internal/domain"
)

// OrderCreator is the minimal interface needed to create orders.
type OrderCreator interface {
	CreateOrder(ctx context.Context, in app.CreateOrderInput) (domain.Order, error)
}

// OrderLister is the minimal interface needed to list a customer's orders.
type OrderLister interface {
	ListOrders(ctx context.Context, accountID string) ([]domain.Order, error)
}

// HandleOrders returns an HTTP handler for creating and listing orders.
func HandleOrders(creator OrderCreator, lister OrderLister) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		switch r.Method {
		case http.MethodPost:
			var req createOrderRequest
			dec := json.NewDecoder(r.Body)
			dec.DisallowUnknownFields()
			if err := dec.Decode(&req); err != nil {
				writeError(w, http.StatusBadRequest, codeInvalidRequestBody, "invalid request body")
				return
			}
			if req.AccountID == "" || req.ProductID == "" {
				writeError(w, http.StatusBadRequest, codeMissingRequiredField, "account_id and product_id are required")
				return
			}

			wallet := decimal.Zero
			if req.WalletAmount != "" {
				parsed, err := decimal.NewFromString(strings.ReplaceAll(req.WalletAmount, ",", "."))
				if err != nil {
					writeError(w, http.StatusBadRequest, codeInvalidAmount, "invalid wallet_amount")
					return
				}
				wallet = parsed
			}

			order, err := creator.CreateOrder(r.Context(), app.CreateOrderInput{
				AccountID:       req.AccountID,
				ProductID:       req.ProductID,
				Quantity:        req.Quantity,
				WalletRequested: wallet,
			})
			if err != nil {
				writeDomainError(w, err)
				return
			}

			w.Header().Set("Content-Type", "application/json")
			w.WriteHeader(http.StatusCreated)
			_ = json.NewEncoder(w).Encode(toOrderResponse(order))
			return
		case http.MethodGet:
			accountID := r.URL.Query().Get("account_id")
			if accountID == "" {
				writeError(w, http.StatusBadRequest, codeMissingRequiredField, "account_id is required")
				return
			}
			orders, err := lister.ListOrders(r.Context(), accountID)
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
			return
		default:
			writeError(w, http.StatusMethodNotAllowed, codeMethodNotAllowed, "method not allowed")
			return
		}
	}
}

type createOrderRequest struct {
	AccountID    string `json:"account_id"`
	ProductID    string `json:"product_id"`
	Quantity     int    `json:"quantity"`
	WalletAmount string `json:"wallet_amount"`
}

type orderResponse struct {
	ID              string     `json:"id"`
	AccountID       string     `json:"account_id"`
	ProductID       string     `json:"product_id"`
	Quantity        int        `json:"quantity"`
	UnitPrice       string     `json:"unit_price"`
	Total           string     `json:"total"`
	WalletPortion   string     `json:"wallet_portion"`
	ExternalPortion string     `json:"external_portion"`
	Status          string     `json:"status"`
	ReferenceCode   string     `json:"reference_code,omitempty"`
	CreatedAt       time.Time  `json:"created_at"`
	SubmittedAt     *time.Time `json:"submitted_at,omitempty"`
	CompletedAt     *time.Time `json:"completed_at,omitempty"`
	CancelledAt     *time.Time `json:"cancelled_at,omitempty"`
}

func toOrderResponse(o domain.Order) orderResponse {
	return orderResponse{
		ID:              o.ID,
		AccountID:       o.AccountID,
		ProductID:       o.ProductID,
		Quantity:        o.Quantity,
		UnitPrice:       o.UnitPrice.StringFixed(2),
		Total:           o.Total.StringFixed(2),
		WalletPortion:   o.WalletPortion.StringFixed(2),
		ExternalPortion: o.ExternalPortion.StringFixed(2),
		Status:          string(o.Status),
		ReferenceCode:   o.ReferenceCode,
		CreatedAt:       o.CreatedAt,
		SubmittedAt:     o.SubmittedAt,
		CompletedAt:     o.CompletedAt,
		CancelledAt:     o.CancelledAt,
	}
}
