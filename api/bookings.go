package api

import (
	"github.com/Domenick1991/flightbooking/internal/service/booking"
	"github.com/Domenick1991/flightbooking/internal/service/flights"
	"github.com/gin-gonic/gin"
)

type BookingHandler struct {
	service booking.BookingUseCase
	flights flights.FlightUseCase
}

type createBookingRequest struct {
	FlightID int64    `json:"flight_id" binding:"required"`
	Seats    []string `json:"seats"`
}

type cancelBookingsRequest struct {
	BookingIDs []int64 `json:"booking_ids"`
}

func NewBookingHandler(service booking.BookingUseCase, flights flights.FlightUseCase) *BookingHandler {
	return &BookingHandler{service: service, flights: flights}
}

func (h *BookingHandler) Register(router *gin.RouterGroup) {
	router.POST("", h.create)
	router.GET("", h.mine)
	router.GET("/:id", h.get)
	router.DELETE("/:id", h.cancel)
	router.POST("/cancel", h.cancelMany)
}

func (h *BookingHandler) create(c *gin.Context) {
	var req createBookingRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err.Error())
		return
	}
	me, _ := identity(c)
	ctx := c.Request.Context()

	flight, err := h.flights.GetByID(ctx, req.FlightID)
	if err != nil {
		respondError(c, err)
		return
	}
	seats := splitSeats(req.Seats)
	if err := booking.CheckSelection(flight, seats); err != nil {
		respondError(c, err)
		return
	}

	bookings, err := h.service.CreateBooking(ctx, booking.CreateBookingInput{
		UserID:   me.UserID,
		FlightID: req.FlightID,
		Seats:    seats,
	})
	if err != nil {
		respondError(c, err)
		return
	}
	created(c, bookings)
}

func (h *BookingHandler) mine(c *gin.Context) {
	me, _ := identity(c)
	bookings, err := h.service.UserBookings(c.Request.Context(), me.UserID)
	if err != nil {
		respondError(c, err)
		return
	}
	ok(c, bookings)
}

func (h *BookingHandler) get(c *gin.Context) {
	id, valid := pathID(c)
	if !valid {
		return
	}
	me, _ := identity(c)
	b, err := h.service.GetBooking(c.Request.Context(), id, me)
	if err != nil {
		respondError(c, err)
		return
	}
	ok(c, b)
}

func (h *BookingHandler) cancel(c *gin.Context) {
	id, valid := pathID(c)
	if !valid {
		return
	}
	me, _ := identity(c)
	b, err := h.service.CancelBooking(c.Request.Context(), id, me)
	if err != nil {
		respondError(c, err)
		return
	}
	ok(c, b)
}

func (h *BookingHandler) cancelMany(c *gin.Context) {
	var req cancelBookingsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err.Error())
		return
	}
	me, _ := identity(c)
	cancelled, err := h.service.CancelBookings(c.Request.Context(), req.BookingIDs, me)
	if err != nil {
		respondError(c, err)
		return
	}
	ok(c, cancelled)
}

func splitSeats(seats []string) []string {
	out := make([]string, 0, len(seats))
	for _, s := range seats {
		out = append(out, splitLabels(s)...)
	}
	return out
}
