package http

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/1COMM1T/Camping-Reservation/internal/app"
	"github.com/1COMM1T/Camping-Reservation/internal/domain"
)

const dateLayout = "2006-01-02"

// HoldCreator is the minimal interface needed to create a hold.
type HoldCreator interface {
	CreateHold(ctx context.Context, in app.CreateHoldInput) (domain.Hold, error)
}

// ReservationLifecycle covers confirm, cancel, and lookup of reservations.
type ReservationLifecycle interface {
	ConfirmReservation(ctx context.Context, reservationID string) (domain.Reservation, error)
	CancelReservation(ctx context.Context, reservationID string) error
	GetReservation(ctx context.Context, reservationID string) (domain.Reservation, error)
}

// HandleCreateHold returns an HTTP handler for creating holds.
func HandleCreateHold(svc HoldCreator) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost {
			writeError(w, http.StatusMethodNotAllowed, codeMethodNotAllowed, "method not allowed")
			return
		}

		var req createHoldRequest
		dec := json.NewDecoder(r.Body)
		dec.DisallowUnknownFields()
		if err := dec.Decode(&req); err != nil {
			writeError(w, http.StatusBadRequest, codeInvalidRequestBody, "invalid request body")
			return
		}

		entry, err := time.Parse(dateLayout, req.EntryDate)
		if err != nil {
			writeError(w, http.StatusBadRequest, codeInvalidDate, "entry_date must be YYYY-MM-DD")
			return
		}
		leaving, err := time.Parse(dateLayout, req.LeavingDate)
		if err != nil {
			writeError(w, http.StatusBadRequest, codeInvalidDate, "leaving_date must be YYYY-MM-DD")
			return
		}

		hold, err := svc.CreateHold(r.Context(), app.CreateHoldInput{
			UserID:      req.UserID,
			CampID:      req.CampID,
			FacilityID:  req.FacilityID,
			EntryDate:   entry,
			LeavingDate: leaving,
			GearRental:  req.GearRental,
		})
		if err != nil {
			writeServiceError(w, err)
			return
		}

		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusCreated)
		_ = json.NewEncoder(w).Encode(createHoldResponse{
			ReservationID: hold.ReservationID,
			FacilityType:  string(hold.FacilityType),
			CreatedAt:     hold.CreatedAt,
			ExpiresAt:     hold.ExpiresAt,
		})
	}
}

// HandleReservation routes /reservations/{id}, /reservations/{id}/confirm
// and /reservations/{id}/cancel.
func HandleReservation(svc ReservationLifecycle) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, action, ok := parseReservationPath(r.URL.Path)
		if !ok {
			writeError(w, http.StatusNotFound, codeNotFound, "not found")
			return
		}

		switch action {
		case "":
			if r.Method != http.MethodGet {
				writeError(w, http.StatusMethodNotAllowed, codeMethodNotAllowed, "method not allowed")
				return
			}
			res, err := svc.GetReservation(r.Context(), id)
			if err != nil {
				writeServiceError(w, err)
				return
			}
			writeReservation(w, http.StatusOK, res)

		case "confirm":
			if r.Method != http.MethodPost {
				writeError(w, http.StatusMethodNotAllowed, codeMethodNotAllowed, "method not allowed")
				return
			}
			res, err := svc.ConfirmReservation(r.Context(), id)
			if err != nil {
				writeServiceError(w, err)
				return
			}
			writeReservation(w, http.StatusCreated, res)

		case "cancel":
			if r.Method != http.MethodPost {
				writeError(w, http.StatusMethodNotAllowed, codeMethodNotAllowed, "method not allowed")
				return
			}
			if err := svc.CancelReservation(r.Context(), id); err != nil {
				writeServiceError(w, err)
				return
			}
			w.WriteHeader(http.StatusNoContent)

		default:
			writeError(w, http.StatusNotFound, codeNotFound, "not found")
		}
	}
}

func writeServiceError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, domain.ErrInvalidStayDates):
		writeError(w, http.StatusBadRequest, codeInvalidStayDates, err.Error())
	case errors.Is(err, domain.ErrFacilityNotFound):
		writeError(w, http.StatusNotFound, codeFacilityNotFound, err.Error())
	case errors.Is(err, domain.ErrCampNotFound):
		writeError(w, http.StatusNotFound, codeCampNotFound, err.Error())
	case errors.Is(err, domain.ErrHoldNotFound):
		writeError(w, http.StatusNotFound, codeHoldNotFound, "reservation no longer available")
	case errors.Is(err, domain.ErrReservationNotFound):
		writeError(w, http.StatusNotFound, codeNotFound, err.Error())
	case errors.Is(err, domain.ErrCapacityExhausted):
		writeError(w, http.StatusConflict, codeCapacityExhausted, err.Error())
	case errors.Is(err, domain.ErrAlreadyCancelled):
		writeError(w, http.StatusConflict, codeAlreadyCancelled, err.Error())
	case errors.Is(err, domain.ErrHoldStoreUnavailable):
		writeError(w, http.StatusServiceUnavailable, codeStoreUnavailable, "try again later")
	default:
		writeError(w, http.StatusInternalServerError, codeInternalError, "internal error")
	}
}

func parseReservationPath(path string) (id, action string, ok bool) {
	parts := strings.Split(strings.Trim(path, "/"), "/")
	if len(parts) < 2 || len(parts) > 3 || parts[0] != "reservations" || parts[1] == "" {
		return "", "", false
	}
	if len(parts) == 2 {
		return parts[1], "", true
	}
	return parts[1], parts[2], true
}

func writeReservation(w http.ResponseWriter, status int, res domain.Reservation) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(reservationResponse{
		ReservationID: res.ID,
		UserID:        res.UserID,
		CampID:        res.CampID,
		FacilityID:    res.FacilityID,
		FacilityType:  string(res.FacilityType),
		EntryDate:     res.EntryDate.Format(dateLayout),
		LeavingDate:   res.LeavingDate.Format(dateLayout),
		Status:        string(res.Status),
		GearRental:    res.GearRental,
		ReservedAt:    res.ReservedAt,
	})
}

type createHoldRequest struct {
	UserID      int64  `json:"user_id"`
	CampID      int64  `json:"camp_id"`
	FacilityID  int64  `json:"facility_id"`
	EntryDate   string `json:"entry_date"`
	LeavingDate string `json:"leaving_date"`
	GearRental  bool   `json:"gear_rental"`
}

type createHoldResponse struct {
	ReservationID string    `json:"reservation_id"`
	FacilityType  string    `json:"facility_type"`
	CreatedAt     time.Time `json:"created_at"`
	ExpiresAt     time.Time `json:"expires_at"`
}

type reservationResponse struct {
	ReservationID string    `json:"reservation_id"`
	UserID        int64     `json:"user_id"`
	CampID        int64     `json:"camp_id"`
	FacilityID    int64     `json:"facility_id"`
	FacilityType  string    `json:"facility_type"`
	EntryDate     string    `json:"entry_date"`
	LeavingDate   string    `json:"leaving_date"`
	Status        string    `json:"status"`
	GearRental    bool      `json:"gear_rental"`
	ReservedAt    time.Time `json:"reserved_at"`
}
