package http

import (
	"bytes"
	"context"
	"io"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/zentraxx/storefront/internal/app"
	"github.com/zentraxx/storefront/internal/domain"
)

func proofRequest(t *testing.T, target string, fields map[string]string, screenshot []byte) *http.Request {
	t.Helper()
	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	for k, v := range fields {
		if err := mw.WriteField(k, v); err != nil {
			t.Fatalf("write field %s: %v", k, err)
		}
	}
	if screenshot != nil {
		part, err := mw.CreateFormFile("screenshot", "proof.png")
		if err != nil {
			t.Fatalf("create form file: %v", err)
		}
		if _, err := part.Write(screenshot); err != nil {
			t.Fatalf("write screenshot: %v", err)
		}
	}
	if err := mw.Close(); err != nil {
		t.Fatalf("close multipart: %v", err)
	}
	req := httptest.NewRequest(http.MethodPost, target, &buf)
	req.Header.Set("Content-Type", mw.FormDataContentType())
	return req
}

func TestHandleOrderActions_SubmitProof(t *testing.T) {
	t.Parallel()

	submitted := domain.Order{
		ID:            "ord-1",
		AccountID:     "acc-1",
		Status:        domain.OrderStatusSubmitted,
		ReferenceCode: "UTR1234567890AB",
	}

	t.Run("success", func(t *testing.T) {
		svc := &stubProofService{order: submitted}
		req := proofRequest(t, "/orders/ord-1/proof", map[string]string{
			"account_id": "acc-1",
			"reference":  "UTR1234567890AB",
		}, []byte("png bytes"))
		rec := httptest.NewRecorder()

		HandleOrderActions(svc, svc).ServeHTTP(rec, req)

		if rec.Code != http.StatusOK {
			t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
		}
		if svc.got.OrderID != "ord-1" || svc.got.AccountID != "acc-1" {
			t.Fatalf("unexpected input: %+v", svc.got)
		}
		if !bytes.Equal(svc.got.Proof, []byte("png bytes")) {
			t.Fatalf("proof bytes not forwarded")
		}
		if !strings.Contains(rec.Body.String(), `"status":"submitted"`) {
			t.Fatalf("expected submitted order in response, got %q", rec.Body.String())
		}
	})

	t.Run("missing screenshot", func(t *testing.T) {
		svc := &stubProofService{}
		req := proofRequest(t, "/orders/ord-1/proof", map[string]string{
			"account_id": "acc-1",
			"reference":  "UTR1234567890AB",
		}, nil)
		rec := httptest.NewRecorder()

		HandleOrderActions(svc, svc).ServeHTTP(rec, req)

		if rec.Code != http.StatusBadRequest {
			t.Fatalf("expected 400, got %d", rec.Code)
		}
		if !strings.Contains(rec.Body.String(), codeProofRequired) {
			t.Fatalf("expected proof_required code, got %q", rec.Body.String())
		}
	})

	t.Run("missing fields", func(t *testing.T) {
		svc := &stubProofService{}
		req := proofRequest(t, "/orders/ord-1/proof", map[string]string{}, []byte("png"))
		rec := httptest.NewRecorder()

		HandleOrderActions(svc, svc).ServeHTTP(rec, req)

		if rec.Code != http.StatusBadRequest {
			t.Fatalf("expected 400, got %d", rec.Code)
		}
	})

	t.Run("duplicate reference maps to conflict", func(t *testing.T) {
		svc := &stubProofService{err: domain.ErrDuplicateReference}
		req := proofRequest(t, "/orders/ord-1/proof", map[string]string{
			"account_id": "acc-1",
			"reference":  "UTR1234567890AB",
		}, []byte("png"))
		rec := httptest.NewRecorder()

		HandleOrderActions(svc, svc).ServeHTTP(rec, req)

		if rec.Code != http.StatusConflict {
			t.Fatalf("expected 409, got %d", rec.Code)
		}
	})

	t.Run("unknown action", func(t *testing.T) {
		svc := &stubProofService{}
		req := httptest.NewRequest(http.MethodPost, "/orders/ord-1/refund", nil)
		rec := httptest.NewRecorder()

		HandleOrderActions(svc, svc).ServeHTTP(rec, req)

		if rec.Code != http.StatusNotFound {
			t.Fatalf("expected 404, got %d", rec.Code)
		}
	})

	t.Run("get not allowed on proof", func(t *testing.T) {
		svc := &stubProofService{}
		req := httptest.NewRequest(http.MethodGet, "/orders/ord-1/proof", nil)
		rec := httptest.NewRecorder()

		HandleOrderActions(svc, svc).ServeHTTP(rec, req)

		if rec.Code != http.StatusMethodNotAllowed {
			t.Fatalf("expected 405, got %d", rec.Code)
		}
	})
}

func TestHandleOrderActions_Download(t *testing.T) {
	t.Parallel()

	t.Run("serves attachment", func(t *testing.T) {
		svc := &stubProofService{data: []byte("deliverable"), filename: `Aged "premium" account`}
		req := httptest.NewRequest(http.MethodGet, "/orders/ord-1/download?account_id=acc-1", nil)
		rec := httptest.NewRecorder()

		HandleOrderActions(svc, svc).ServeHTTP(rec, req)

		if rec.Code != http.StatusOK {
			t.Fatalf("expected 200, got %d", rec.Code)
		}
		body, _ := io.ReadAll(rec.Body)
		if !bytes.Equal(body, []byte("deliverable")) {
			t.Fatalf("unexpected body %q", body)
		}
		disposition := rec.Header().Get("Content-Disposition")
		if strings.Contains(disposition, `"premium"`) {
			t.Fatalf("expected quotes sanitized, got %q", disposition)
		}
	})

	t.Run("missing account_id", func(t *testing.T) {
		svc := &stubProofService{}
		req := httptest.NewRequest(http.MethodGet, "/orders/ord-1/download", nil)
		rec := httptest.NewRecorder()

		HandleOrderActions(svc, svc).ServeHTTP(rec, req)

		if rec.Code != http.StatusBadRequest {
			t.Fatalf("expected 400, got %d", rec.Code)
		}
	})

	t.Run("incomplete order maps to conflict", func(t *testing.T) {
		svc := &stubProofService{err: domain.ErrOrderNotCompleted}
		req := httptest.NewRequest(http.MethodGet, "/orders/ord-1/download?account_id=acc-1", nil)
		rec := httptest.NewRecorder()

		HandleOrderActions(svc, svc).ServeHTTP(rec, req)

		if rec.Code != http.StatusConflict {
			t.Fatalf("expected 409, got %d", rec.Code)
		}
	})
}

type stubProofService struct {
	order    domain.Order
	got      app.SubmitProofInput
	data     []byte
	filename string
	err      error
}

func (s *stubProofService) SubmitProof(_ context.Context, in app.SubmitProofInput) (domain.Order, error) {
	s.got = in
	if s.err != nil {
		return domain.Order{}, s.err
	}
	return s.order, nil
}

func (s *stubProofService) Download(_ context.Context, _, _ string) ([]byte, string, error) {
	if s.err != nil {
		return nil, "", s.err
	}
	return s.data, s.filename, nil
}
