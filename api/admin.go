package api

import (
	"github.com/Domenick1991/flightbooking/internal/domain"
	"github.com/Domenick1991/flightbooking/internal/service/auth"
	"github.com/Domenick1991/flightbooking/internal/service/booking"
	"github.com/Domenick1991/flightbooking/internal/service/flights"
	"github.com/Domenick1991/flightbooking/internal/service/reporting"
	"github.com/gin-gonic/gin"
)

// AdminHandler serves the admin console. Routes are expected behind
// RequireAuth and RequireAdmin.
type AdminHandler struct {
	flights   flights.FlightUseCase
	bookings  booking.BookingUseCase
	reporting reporting.ReportingUseCase
	users     auth.AuthUseCase
}

type statusRequest struct {
	Status domain.FlightStatus `json:"status" binding:"required"`
}

func NewAdminHandler(f flights.FlightUseCase, b booking.BookingUseCase, r reporting.ReportingUseCase, u auth.AuthUseCase) *AdminHandler {
	return &AdminHandler{flights: f, bookings: b, reporting: r, users: u}
}

func (h *AdminHandler) Register(router *gin.RouterGroup) {
	router.GET("/stats", h.stats)
	router.GET("/users", h.listUsers)

	router.GET("/flights", h.listFlights)
	router.POST("/flights", h.createFlight)
	router.PUT("/flights/:id", h.updateFlight)
	router.PATCH("/flights/:id/status", h.updateStatus)
	router.DELETE("/flights/:id", h.deleteFlight)
	router.GET("/flights/:id/bookings", h.flightBookings)

	router.GET("/bookings", h.listBookings)
}

func (h *AdminHandler) stats(c *gin.Context) {
	stats, err := h.reporting.Stats(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}
	ok(c, stats)
}

func (h *AdminHandler) listUsers(c *gin.Context) {
	profiles, err := h.users.ListProfiles(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}
	ok(c, profiles)
}

func (h *AdminHandler) listFlights(c *gin.Context) {
	list, err := h.flights.ListAll(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}
	ok(c, list)
}

func (h *AdminHandler) createFlight(c *gin.Context) {
	var in flights.FlightInput
	if err := c.ShouldBindJSON(&in); err != nil {
		badRequest(c, err.Error())
		return
	}
	flight, err := h.flights.Create(c.Request.Context(), in)
	if err != nil {
		respondError(c, err)
		return
	}
	created(c, flight)
}

func (h *AdminHandler) updateFlight(c *gin.Context) {
	id, valid := pathID(c)
	if !valid {
		return
	}
	var in flights.FlightInput
	if err := c.ShouldBindJSON(&in); err != nil {
		badRequest(c, err.Error())
		return
	}
	flight, err := h.flights.Update(c.Request.Context(), id, in)
	if err != nil {
		respondError(c, err)
		return
	}
	ok(c, flight)
}

func (h *AdminHandler) updateStatus(c *gin.Context) {
	id, valid := pathID(c)
	if !valid {
		return
	}
	var req statusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err.Error())
		return
	}
	flight, err := h.flights.UpdateStatus(c.Request.Context(), id, req.Status)
	if err != nil {
		respondError(c, err)
		return
	}
	display, _ := flight.Status.Display()
	ok(c, gin.H{"flight": flight, "display": display})
}

func (h *AdminHandler) deleteFlight(c *gin.Context) {
	id, valid := pathID(c)
	if !valid {
		return
	}
	if err := h.flights.Delete(c.Request.Context(), id); err != nil {
		respondError(c, err)
		return
	}
	ok(c, gin.H{"deleted": id})
}

func (h *AdminHandler) flightBookings(c *gin.Context) {
	id, valid := pathID(c)
	if !valid {
		return
	}
	list, err := h.bookings.FlightBookings(c.Request.Context(), id)
	if err != nil {
		respondError(c, err)
		return
	}
	ok(c, list)
}

func (h *AdminHandler) listBookings(c *gin.Context) {
	list, err := h.bookings.AllBookings(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}
	ok(c, list)
}
