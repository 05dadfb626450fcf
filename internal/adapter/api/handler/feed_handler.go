package handler

import (
	"strconv"

	"github.com/labstack/echo/v4"

	"pratorinaldo/internal/usecase"
	"pratorinaldo/pkg/response"
)

type FeedHandler struct {
	feedUseCase *usecase.FeedUseCase
	userUseCase *usecase.UserUseCase
}

func NewFeedHandler(feedUseCase *usecase.FeedUseCase, userUseCase *usecase.UserUseCase) *FeedHandler {
	return &FeedHandler{
		feedUseCase: feedUseCase,
		userUseCase: userUseCase,
	}
}

// GetFeed returns the home timeline: recent articles, events, listings
// and proposals merged by timestamp. Private entries are filtered for
// unverified viewers.
func (h *FeedHandler) GetFeed(c echo.Context) error {
	tenantID, verified := viewer(c, h.userUseCase)

	limit, _ := strconv.Atoi(c.QueryParam("limit"))
	if limit <= 0 || limit > 100 {
		limit = 30
	}

	items, err := h.feedUseCase.Build(c.Request().Context(), tenantID, verified, limit)
	if err != nil {
		return response.Error(c, err)
	}

	return response.Success(c, items)
}
