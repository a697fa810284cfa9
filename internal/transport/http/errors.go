package http

import (
	"encoding/json"
	"net/http"
)

const (
	codeMethodNotAllowed   = "method_not_allowed"
	codeNotFound           = "not_found"
	codeInvalidRequestBody = "invalid_request_body"
	codeInvalidStayDates   = "invalid_stay_dates"
	codeInvalidDate        = "invalid_date"
	codeFacilityNotFound   = "facility_not_found"
	codeCampNotFound       = "camp_not_found"
	codeHoldNotFound       = "hold_expired_or_missing"
	codeCapacityExhausted  = "capacity_exhausted"
	codeAlreadyCancelled   = "already_cancelled"
	codeStoreUnavailable   = "store_unavailable"
	codeForbidden          = "forbidden"
	codeInternalError      = "internal_error"
)

type errorResponse struct {
	Error string `json:"error"`
	Code  string `json:"code"`
}

func writeError(w http.ResponseWriter, status int, code, msg string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)

	payload, err := json.Marshal(errorResponse{
		Error: msg,
		Code:  code,
	})
	if err != nil {
		_, _ = w.Write([]byte(`{"error":"internal error","code":"internal_error"}`))
		return
	}
	_, _ = w.Write(payload)
}
