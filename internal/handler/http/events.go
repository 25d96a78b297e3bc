package http

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/cmlabs-hris/worklog-backend-go/internal/domain/auth"
	"github.com/cmlabs-hris/worklog-backend-go/internal/domain/employee"
	"github.com/cmlabs-hris/worklog-backend-go/internal/handler/http/response"
	"github.com/cmlabs-hris/worklog-backend-go/internal/pkg/jwt"
	"github.com/cmlabs-hris/worklog-backend-go/internal/pkg/sse"
)

type EventHandler interface {
	GetSSEToken(w http.ResponseWriter, r *http.Request)
	Stream(w http.ResponseWriter, r *http.Request)
}

type eventHandlerImpl struct {
	employeeResolver
	jwtService jwt.Service
	hub        *sse.Hub
	keepalive  time.Duration
}

func NewEventHandler(jwtService jwt.Service, hub *sse.Hub, employeeRepo employee.EmployeeRepository) EventHandler {
	return &eventHandlerImpl{
		employeeResolver: employeeResolver{employeeRepo: employeeRepo},
		jwtService:       jwtService,
		hub:              hub,
		keepalive:        30 * time.Second,
	}
}

// GetSSEToken generates a short-lived token for the signed-in employee's stream
func (h *eventHandlerImpl) GetSSEToken(w http.ResponseWriter, r *http.Request) {
	emp, err := h.currentEmployee(r)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	token, expiresIn, err := h.jwtService.GenerateSSEToken(emp.ID)
	if err != nil {
		slog.Error("Failed to generate SSE token", "employee_id", emp.ID, "error", err)
		response.InternalServerError(w, "Failed to generate SSE token")
		return
	}

	response.Success(w, auth.SSETokenResponse{
		Token:     token,
		ExpiresIn: expiresIn,
	})
}

type connectedEvent struct {
	Status     string `json:"status"`
	EmployeeID string `json:"employee_id"`
}

// Stream pushes work log changes of one employee as server-sent events
func (h *eventHandlerImpl) Stream(w http.ResponseWriter, r *http.Request) {
	// SSE clients cannot send headers, so the token travels in the query
	tokenStr := r.URL.Query().Get("token")
	if tokenStr == "" {
		response.Unauthorized(w, "Missing token")
		return
	}

	employeeID, err := h.jwtService.ValidateSSEToken(tokenStr)
	if err != nil {
		response.Unauthorized(w, "Invalid token")
		return
	}

	flusher, ok := w.(http.Flusher)
	if !ok {
		response.InternalServerError(w, "Streaming not supported")
		return
	}

	w.Header().Set("Content-Type", "text/event-stream")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("Connection", "keep-alive")
	w.Header().Set("X-Accel-Buffering", "no")

	events, cleanup := h.hub.Subscribe(employeeID)
	defer cleanup()

	connected, err := json.Marshal(connectedEvent{Status: "connected", EmployeeID: employeeID})
	if err != nil {
		slog.Error("Failed to encode event", "event", "connected", "error", err)
		return
	}
	fmt.Fprintf(w, "event: connected\ndata: %s\n\n", connected)
	flusher.Flush()

	keepalive := time.NewTicker(h.keepalive)
	defer keepalive.Stop()

	for {
		select {
		case event, ok := <-events:
			if !ok {
				return
			}
			data, err := json.Marshal(event.Data)
			if err != nil {
				slog.Error("Failed to encode event", "event", event.Event, "error", err)
				continue
			}
			fmt.Fprintf(w, "id: %s\nevent: %s\ndata: %s\n\n", event.ID, event.Event, data)
			flusher.Flush()

		case <-keepalive.C:
			fmt.Fprintf(w, "event: ping\ndata: {\"timestamp\":%d}\n\n", time.Now().Unix())
			flusher.Flush()

		case <-r.Context().Done():
			return
		}
	}
}
