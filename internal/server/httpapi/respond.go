package httpapi

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"

	"github.com/robertvg253/arrankar-vehiculos-app/internal/common"
	"github.com/robertvg253/arrankar-vehiculos-app/internal/logging"
	"github.com/robertvg253/arrankar-vehiculos-app/internal/server/services"
)

// SubmissionResponse is the body answered to every gallery submission.
type SubmissionResponse struct {
	VehicleID         string          `json:"vehicleId"`
	Settled           bool            `json:"settled"`
	CoverImageURL     string          `json:"coverImageUrl"`
	CoverImageUpdated bool            `json:"coverImageUpdated"`
	Failures          []FailureDetail `json:"failures"`
}

// FailureDetail is one failed reconciliation operation.
type FailureDetail struct {
	Op    string `json:"op"`
	Item  string `json:"item"`
	Error string `json:"error"`
}

type errorResponse struct {
	Error string `json:"error"`
}

type validationResponse struct {
	Errors map[string]string `json:"errors"`
}

func newSubmissionResponse(res *services.SubmissionResult) SubmissionResponse {
	out := SubmissionResponse{
		VehicleID:         res.Vehicle.ID,
		Settled:           res.Report.Settled,
		CoverImageURL:     res.Vehicle.CoverImageURL,
		CoverImageUpdated: res.Report.CoverUpdated,
		Failures:          []FailureDetail{},
	}
	for _, f := range res.Report.Failures() {
		out.Failures = append(out.Failures, FailureDetail{Op: string(f.Op), Item: f.Item, Error: f.Err.Error()})
	}
	return out
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

// writeError maps err onto a status code. Unexpected errors are logged and
// answered without detail.
func writeError(ctx context.Context, w http.ResponseWriter, log logging.Logger, err error) {
	var verr *services.ValidationError
	var tooLarge *http.MaxBytesError

	switch {
	case errors.As(err, &verr):
		writeJSON(w, http.StatusUnprocessableEntity, validationResponse{Errors: verr.Fields})
	case errors.As(err, &tooLarge):
		writeJSON(w, http.StatusRequestEntityTooLarge, errorResponse{Error: err.Error()})
	case errors.Is(err, common.ErrMalformedChangeSet):
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: err.Error()})
	case errors.Is(err, common.ErrorNotFound):
		writeJSON(w, http.StatusNotFound, errorResponse{Error: "vehicle not found"})
	default:
		log.Error(ctx, "request failed", "error", err)
		writeJSON(w, http.StatusInternalServerError, errorResponse{Error: common.ErrorInternal.Error()})
	}
}
