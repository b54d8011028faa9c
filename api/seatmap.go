package api

import (
	"strings"

	"github.com/Domenick1991/flightbooking/internal/domain"
	"github.com/Domenick1991/flightbooking/internal/seatmap"
	"github.com/Domenick1991/flightbooking/internal/service/booking"
	"github.com/Domenick1991/flightbooking/internal/service/flights"
	"github.com/gin-gonic/gin"
)

type SeatMapHandler struct {
	flights  flights.FlightUseCase
	bookings booking.BookingUseCase
}

type seatMapResponse struct {
	FlightID       int64            `json:"flight_id"`
	TotalSeats     int              `json:"total_seats"`
	AvailableSeats int              `json:"available_seats"`
	Selected       []string         `json:"selected"`
	Rows           [][]seatmap.Seat `json:"rows"`
}

type toggleRequest struct {
	FlightID int64    `json:"flight_id" binding:"required"`
	Seat     string   `json:"seat"`
	Selected []string `json:"selected"`
	Clear    bool     `json:"clear"`
}

func NewSeatMapHandler(flights flights.FlightUseCase, bookings booking.BookingUseCase) *SeatMapHandler {
	return &SeatMapHandler{flights: flights, bookings: bookings}
}

func (h *SeatMapHandler) Register(router *gin.RouterGroup) {
	router.GET("/flights/:id/seatmap", h.get)
	router.POST("/seatmap/toggle", h.toggle)
}

func (h *SeatMapHandler) occupancy(c *gin.Context, flightID int64) (*domain.Flight, seatmap.Occupancy, bool) {
	ctx := c.Request.Context()
	flight, err := h.flights.GetByID(ctx, flightID)
	if err != nil {
		respondError(c, err)
		return nil, nil, false
	}
	booked, err := h.bookings.BookedSeats(ctx, flightID)
	if err != nil {
		respondError(c, err)
		return nil, nil, false
	}
	return flight, seatmap.NewOccupancy(booked), true
}

func (h *SeatMapHandler) get(c *gin.Context) {
	id, valid := pathID(c)
	if !valid {
		return
	}
	me, _ := identity(c)

	flight, occ, found := h.occupancy(c, id)
	if !found {
		return
	}

	selected := seatmap.Normalize(splitLabels(c.Query("selected")))
	ok(c, seatMapResponse{
		FlightID:       flight.ID,
		TotalSeats:     flight.TotalSeats,
		AvailableSeats: flight.AvailableSeats,
		Selected:       selected,
		Rows:           seatmap.Generate(flight.TotalSeats, occ, selected, me.UserID),
	})
}

func (h *SeatMapHandler) toggle(c *gin.Context) {
	var req toggleRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err.Error())
		return
	}
	if req.Clear {
		ok(c, gin.H{"selected": seatmap.Clear()})
		return
	}

	flight, occ, found := h.occupancy(c, req.FlightID)
	if !found {
		return
	}
	if !seatmap.Contains(flight.TotalSeats, req.Seat) {
		respondError(c, domain.NewValidationError("seat", "seat %q does not exist on this flight", req.Seat))
		return
	}

	ok(c, gin.H{"selected": seatmap.Toggle(req.Seat, seatmap.Normalize(req.Selected), occ)})
}

func splitLabels(raw string) []string {
	out := make([]string, 0)
	for _, part := range strings.Split(raw, ",") {
		if part = strings.ToUpper(strings.TrimSpace(part)); part != "" {
			out = append(out, part)
		}
	}
	return out
}
