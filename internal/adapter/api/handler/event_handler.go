package handler

import (
	"github.com/labstack/echo/v4"

	"pratorinaldo/internal/usecase"
	"pratorinaldo/pkg/errors"
	"pratorinaldo/pkg/response"
	"pratorinaldo/pkg/utils"
)

type EventHandler struct {
	eventUseCase *usecase.EventUseCase
	userUseCase  *usecase.UserUseCase
}

func NewEventHandler(eventUseCase *usecase.EventUseCase, userUseCase *usecase.UserUseCase) *EventHandler {
	return &EventHandler{
		eventUseCase: eventUseCase,
		userUseCase:  userUseCase,
	}
}

// ListEvents returns published events. Private events are only visible
// to verified residents of the tenant.
func (h *EventHandler) ListEvents(c echo.Context) error {
	tenantID, verified := viewer(c, h.userUseCase)
	pagination := utils.GetPaginationParams(c)

	events, total, err := h.eventUseCase.ListEvents(c.Request().Context(), tenantID, verified, pagination.PageSize, pagination.Offset)
	if err != nil {
		return response.Error(c, err)
	}

	return response.Paginated(c, events, total, pagination.Page, pagination.PageSize)
}

func (h *EventHandler) GetEvent(c echo.Context) error {
	event, err := h.eventUseCase.GetEvent(c.Request().Context(), c.Param("id"))
	if err != nil {
		return response.Error(c, err)
	}

	return response.Success(c, event)
}

func (h *EventHandler) CreateEvent(c echo.Context) error {
	uid := c.Get("uid").(string)

	var req usecase.CreateEventInput
	if err := c.Bind(&req); err != nil {
		return response.Error(c, errors.BadRequest("Invalid request body", err))
	}
	if err := c.Validate(&req); err != nil {
		return response.Error(c, err)
	}

	event, err := h.eventUseCase.CreateEvent(c.Request().Context(), uid, req)
	if err != nil {
		return response.Error(c, err)
	}

	return response.Created(c, event)
}

func (h *EventHandler) UpdateEvent(c echo.Context) error {
	uid := c.Get("uid").(string)

	var req usecase.UpdateEventInput
	if err := c.Bind(&req); err != nil {
		return response.Error(c, errors.BadRequest("Invalid request body", err))
	}
	if err := c.Validate(&req); err != nil {
		return response.Error(c, err)
	}

	event, err := h.eventUseCase.UpdateEvent(c.Request().Context(), uid, c.Param("id"), req)
	if err != nil {
		return response.Error(c, err)
	}

	return response.Success(c, event)
}

type eventStatusRequest struct {
	Status string `json:"status" validate:"required,oneof=published cancelled completed"`
}

func (h *EventHandler) SetStatus(c echo.Context) error {
	uid := c.Get("uid").(string)

	var req eventStatusRequest
	if err := c.Bind(&req); err != nil {
		return response.Error(c, errors.BadRequest("Invalid request body", err))
	}
	if err := c.Validate(&req); err != nil {
		return response.Error(c, err)
	}

	event, err := h.eventUseCase.SetStatus(c.Request().Context(), uid, c.Param("id"), req.Status)
	if err != nil {
		return response.Error(c, err)
	}

	return response.Success(c, event)
}

func (h *EventHandler) DeleteEvent(c echo.Context) error {
	uid := c.Get("uid").(string)

	if err := h.eventUseCase.DeleteEvent(c.Request().Context(), uid, c.Param("id")); err != nil {
		return response.Error(c, err)
	}

	return response.Success(c, map[string]string{"message": "Event deleted"})
}

type rsvpRequest struct {
	Status string `json:"status" validate:"required,oneof=going maybe not_going"`
}

// RSVP upserts the caller's attendance. On CAPACITY_FULL the error
// details carry the last confirmed status for the client's rollback.
func (h *EventHandler) RSVP(c echo.Context) error {
	uid := c.Get("uid").(string)

	var req rsvpRequest
	if err := c.Bind(&req); err != nil {
		return response.Error(c, errors.BadRequest("Invalid request body", err))
	}
	if err := c.Validate(&req); err != nil {
		return response.Error(c, err)
	}

	result, err := h.eventUseCase.RSVP(c.Request().Context(), uid, c.Param("id"), req.Status)
	if err != nil {
		return response.Error(c, err)
	}

	return response.Success(c, result)
}

func (h *EventHandler) GetMyRSVP(c echo.Context) error {
	uid := c.Get("uid").(string)

	rsvp, err := h.eventUseCase.GetRSVP(c.Request().Context(), uid, c.Param("id"))
	if err != nil {
		return response.Error(c, err)
	}

	return response.Success(c, rsvp)
}

func (h *EventHandler) ListAttendees(c echo.Context) error {
	attendees, err := h.eventUseCase.ListAttendees(c.Request().Context(), c.Param("id"))
	if err != nil {
		return response.Error(c, err)
	}

	return response.Success(c, attendees)
}
