package api

import (
	"strconv"

	"github.com/Domenick1991/flightbooking/internal/service/flights"
	"github.com/gin-gonic/gin"
)

type FlightHandler struct {
	service flights.FlightUseCase
}

func NewFlightHandler(service flights.FlightUseCase) *FlightHandler {
	return &FlightHandler{service: service}
}

func (h *FlightHandler) Register(router *gin.RouterGroup) {
	router.GET("", h.list)
	router.GET("/search", h.search)
	router.GET("/:id", h.get)
}

func (h *FlightHandler) list(c *gin.Context) {
	flights, err := h.service.List(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}
	ok(c, flights)
}

func (h *FlightHandler) search(c *gin.Context) {
	flights, err := h.service.Search(c.Request.Context(), c.Query("source"), c.Query("destination"))
	if err != nil {
		respondError(c, err)
		return
	}
	ok(c, flights)
}

func (h *FlightHandler) get(c *gin.Context) {
	id, valid := pathID(c)
	if !valid {
		return
	}
	flight, err := h.service.GetByID(c.Request.Context(), id)
	if err != nil {
		respondError(c, err)
		return
	}
	ok(c, flight)
}

// pathID parses the :id parameter and writes a 400 when it is not a positive integer.
func pathID(c *gin.Context) (int64, bool) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil || id <= 0 {
		badRequest(c, "invalid id")
		return 0, false
	}
	return id, true
}
