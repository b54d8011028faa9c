package api

import (
	"io"
	"net/http"
	"time"

	"github.com/Domenick1991/flightbooking/internal/realtime"
	"github.com/gin-gonic/gin"
)

const heartbeatInterval = 15 * time.Second

type Subscriber interface {
	Subscribe(filter realtime.Filter) (*realtime.Subscription, error)
}

type RealtimeHandler struct {
	hub Subscriber
}

func NewRealtimeHandler(hub Subscriber) *RealtimeHandler {
	return &RealtimeHandler{hub: hub}
}

func (h *RealtimeHandler) Register(router *gin.RouterGroup) {
	router.GET("/:table", h.stream)
}

// filterFor builds the subscription filter. Notifications are always scoped to
// the caller; bookings may be narrowed to one flight and flights to one id.
func filterFor(c *gin.Context) realtime.Filter {
	f := realtime.Filter{Table: c.Param("table")}
	switch f.Table {
	case realtime.TableNotifications:
		me, _ := identity(c)
		f.Column, f.Value = "user_id", me.UserID.String()
	case realtime.TableBookings:
		if v := c.Query("flight_id"); v != "" {
			f.Column, f.Value = "flight_id", v
		}
	case realtime.TableFlights:
		if v := c.Query("id"); v != "" {
			f.Column, f.Value = "id", v
		}
	}
	return f
}

func (h *RealtimeHandler) stream(c *gin.Context) {
	sub, err := h.hub.Subscribe(filterFor(c))
	if err != nil {
		badRequest(c, err.Error())
		return
	}
	defer sub.Close()

	c.Header("Cache-Control", "no-cache")
	c.Header("Connection", "keep-alive")
	c.Status(http.StatusOK)

	heartbeat := time.NewTicker(heartbeatInterval)
	defer heartbeat.Stop()

	ctx := c.Request.Context()
	c.Stream(func(io.Writer) bool {
		select {
		case <-ctx.Done():
			return false
		case <-heartbeat.C:
			c.SSEvent("ping", time.Now().Unix())
			return true
		case ev, open := <-sub.Events():
			if !open {
				if err := sub.Err(); err != nil {
					c.SSEvent("error", err.Error())
				}
				return false
			}
			c.SSEvent(ev.Type, ev)
			return true
		}
	})
}
