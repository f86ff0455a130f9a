package http

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"strings"

	"github.com/zentraxx/storefront/internal/app"
	"github.com/zentraxx/storefront/internal/domain"
)

// maxProofBytes caps payment screenshot uploads.
const maxProofBytes = 2 << 20

// ProofSubmitter is the minimal interface needed to submit payment proof.
type ProofSubmitter interface {
	SubmitProof(ctx context.Context, in app.SubmitProofInput) (domain.Order, error)
}

// Downloader is the minimal interface needed to serve deliverables.
type Downloader interface {
	Download(ctx context.Context, accountID, orderID string) ([]byte, string, error)
}

// HandleOrderActions routes /orders/{id}/proof and /orders/{id}/download.
func HandleOrderActions(submitter ProofSubmitter, downloader Downloader) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		orderID, action, ok := parseOrderActionPath(r.URL.Path)
		if !ok {
			writeError(w, http.StatusNotFound, codeNotFound, "not found")
			return
		}

		switch action {
		case "proof":
			handleSubmitProof(w, r, submitter, orderID)
		case "download":
			handleDownload(w, r, downloader, orderID)
		default:
			writeError(w, http.StatusNotFound, codeNotFound, "not found")
		}
	}
}

func handleSubmitProof(w http.ResponseWriter, r *http.Request, submitter ProofSubmitter, orderID string) {
	if r.Method != http.MethodPost {
		writeError(w, http.StatusMethodNotAllowed, codeMethodNotAllowed, "method not allowed")
		return
	}

	r.Body = http.MaxBytesReader(w, r.Body, maxProofBytes+4096)
	if err := r.ParseMultipartForm(maxProofBytes); err != nil {
		writeError(w, http.StatusBadRequest, codeInvalidRequestBody, "invalid multipart body")
		return
	}

	accountID := r.FormValue("account_id")
	if accountID == "" {
		writeError(w, http.StatusBadRequest, codeMissingRequiredField, "account_id is required")
		return
	}
	reference := r.FormValue("reference")
	if reference == "" {
		writeError(w, http.StatusBadRequest, codeMissingRequiredField, "reference is required")
		return
	}

	file, _, err := r.FormFile("screenshot")
	if err != nil {
		writeError(w, http.StatusBadRequest, codeProofRequired, domain.ErrProofRequired.Error())
		return
	}
	defer func() { _ = file.Close() }()

	proof, err := io.ReadAll(io.LimitReader(file, maxProofBytes+1))
	if err != nil {
		writeError(w, http.StatusBadRequest, codeInvalidRequestBody, "failed to read screenshot")
		return
	}
	if len(proof) > maxProofBytes {
		writeError(w, http.StatusBadRequest, codeInvalidRequestBody, "screenshot too large")
		return
	}

	order, err := submitter.SubmitProof(r.Context(), app.SubmitProofInput{
		OrderID:       orderID,
		AccountID:     accountID,
		ReferenceCode: reference,
		Proof:         proof,
	})
	if err != nil {
		writeDomainError(w, err)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(toOrderResponse(order))
}

func handleDownload(w http.ResponseWriter, r *http.Request, downloader Downloader, orderID string) {
	if r.Method != http.MethodGet {
		writeError(w, http.StatusMethodNotAllowed, codeMethodNotAllowed, "method not allowed")
		return
	}

	accountID := r.URL.Query().Get("account_id")
	if accountID == "" {
		writeError(w, http.StatusBadRequest, codeMissingRequiredField, "account_id is required")
		return
	}

	data, name, err := downloader.Download(r.Context(), accountID, orderID)
	if err != nil {
		writeDomainError(w, err)
		return
	}

	w.Header().Set("Content-Type", "application/octet-stream")
	w.Header().Set("Content-Disposition", `attachment; filename="`+sanitizeFilename(name)+`"`)
	_, _ = w.Write(data)
}

func parseOrderActionPath(path string) (orderID, action string, ok bool) {
	parts := strings.Split(strings.Trim(path, "/"), "/")
	if len(parts) != 3 || parts[0] != "orders" || parts[1] == "" {
		return "", "", false
	}
	return parts[1], parts[2], true
}

func sanitizeFilename(name string) string {
	name = strings.Map(func(r rune) rune {
		switch r {
		case '"', '\\', '/', '\n', '\r':
			return '_'
		}
		return r
	}, name)
	if name == "" {
		name = "download"
	}
	return name
}
