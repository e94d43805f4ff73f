package handlers

import (
	"net/http"

	"eventify_backend/internal/dto"
	"eventify_backend/internal/services"

	"github.com/gin-gonic/gin"
)

type EventHandler struct {
	*BaseHandler
	eventService services.EventService
}

func NewEventHandler(base *BaseHandler, eventService services.EventService) *EventHandler {
	return &EventHandler{BaseHandler: base, eventService: eventService}
}

func (h *EventHandler) List(c *gin.Context) {
	events, err := h.eventService.List(c.Request.Context())
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"data": events})
}

func (h *EventHandler) Show(c *gin.Context) {
	event, err := h.eventService.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"data": event})
}

func (h *EventHandler) Create(c *gin.Context) {
	var req dto.CreateEventRequest
	if !h.BindAndValidateJSON(c, &req) {
		return
	}

	event, err := h.eventService.Create(c.Request.Context(), h.GetAuthUserID(c), &req)
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"data": event})
}

func (h *EventHandler) Update(c *gin.Context) {
	var req dto.UpdateEventRequest
	if !h.BindAndValidateJSON(c, &req) {
		return
	}

	event, err := h.eventService.Update(c.Request.Context(), h.GetAuthUserID(c), c.Param("id"), &req)
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"data": event})
}

func (h *EventHandler) Delete(c *gin.Context) {
	if err := h.eventService.Delete(c.Request.Context(), h.GetAuthUserID(c), c.Param("id")); err != nil {
		h.HandleServiceError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}
