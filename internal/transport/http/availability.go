package http

import (
	"context"
	"encoding/json"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/1COMM1T/Camping-Reservation/internal/domain"
)

// AvailabilityReader reports remaining capacity for a camp and date.
type AvailabilityReader interface {
	Availability(ctx context.Context, campID int64, date time.Time) (domain.Availability, error)
}

// HandleAvailability serves GET /camps/{campID}/availability?date=YYYY-MM-DD.
func HandleAvailability(svc AvailabilityReader) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodGet {
			writeError(w, http.StatusMethodNotAllowed, codeMethodNotAllowed, "method not allowed")
			return
		}

		campID, ok := parseAvailabilityPath(r.URL.Path)
		if !ok {
			writeError(w, http.StatusNotFound, codeNotFound, "not found")
			return
		}

		date, err := time.Parse(dateLayout, r.URL.Query().Get("date"))
		if err != nil {
			writeError(w, http.StatusBadRequest, codeInvalidDate, "date must be YYYY-MM-DD")
			return
		}

		avail, err := svc.Availability(r.Context(), campID, date)
		if err != nil {
			writeServiceError(w, err)
			return
		}

		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		_ = json.NewEncoder(w).Encode(availabilityResponse{
			CampID:   avail.CampID,
			Date:     avail.Date.Format(dateLayout),
			General:  avail.General,
			Vehicle:  avail.Vehicle,
			Glamping: avail.Glamping,
			Caravan:  avail.Caravan,
		})
	}
}

func parseAvailabilityPath(path string) (int64, bool) {
	parts := strings.Split(strings.Trim(path, "/"), "/")
	if len(parts) != 3 || parts[0] != "camps" || parts[2] != "availability" {
		return 0, false
	}
	campID, err := strconv.ParseInt(parts[1], 10, 64)
	if err != nil || campID <= 0 {
		return 0, false
	}
	return campID, true
}

type availabilityResponse struct {
	CampID   int64  `json:"camp_id"`
	Date     string `json:"date"`
	General  int    `json:"general"`
	Vehicle  int    `json:"vehicle"`
	Glamping int    `json:"glamping"`
	Caravan  int    `json:"caravan"`
}
