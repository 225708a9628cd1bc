package reservation

import (
	"errors"
	"testing"

	"github.com/iliyamo/campus-space-reservation/internal/model"
)

func validReq() model.CreateReservationRequest {
	return model.CreateReservationRequest{
		SpaceID:     "court-1",
		Date:        "2025-03-10",
		StartTime:   "10:00",
		EndTime:     "11:00",
		Description: "volleyball practice",
	}
}

func TestValidateCreate(t *testing.T) {
	cases := []struct {
		name   string
		mutate func(*model.CreateReservationRequest)
		want   error
	}{
		{"valid", func(r *model.CreateReservationRequest) {}, nil},
		{"start equals end", func(r *model.CreateReservationRequest) {
			r.StartTime, r.EndTime = "10:00", "10:00"
		}, ErrInvalidTimeRange},
		{"start after end", func(r *model.CreateReservationRequest) {
			r.StartTime, r.EndTime = "12:00", "11:00"
		}, ErrInvalidTimeRange},
		{"malformed start", func(r *model.CreateReservationRequest) {
			r.StartTime = "10am"
		}, ErrInvalidTimeRange},
		{"hour out of range", func(r *model.CreateReservationRequest) {
			r.StartTime = "25:00"
		}, ErrInvalidTimeRange},
		{"blank description", func(r *model.CreateReservationRequest) {
			r.Description = "   "
		}, ErrMissingDescription},
		{"bad date", func(r *model.CreateReservationRequest) {
			r.Date = "2025-13-40"
		}, ErrInvalidDate},
		{"wrong date layout", func(r *model.CreateReservationRequest) {
			r.Date = "10/03/2025"
		}, ErrInvalidDate},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			req := validReq()
			tc.mutate(&req)
			err := ValidateCreate(req)
			if tc.want == nil {
				if err != nil {
					t.Fatalf("expected no error, got %v", err)
				}
				return
			}
			if !errors.Is(err, tc.want) {
				t.Fatalf("expected %v, got %v", tc.want, err)
			}
			if !errors.Is(err, ErrValidation) {
				t.Fatalf("expected %v to wrap ErrValidation", err)
			}
		})
	}
}

func TestValidateCreateChecksTimeBeforeDescription(t *testing.T) {
	req := validReq()
	req.StartTime, req.EndTime = "12:00", "11:00"
	req.Description = ""
	if err := ValidateCreate(req); !errors.Is(err, ErrInvalidTimeRange) {
		t.Fatalf("expected time range error first, got %v", err)
	}
}
