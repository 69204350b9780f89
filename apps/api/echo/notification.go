package echoapi

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"

	"github.com/kitcoek/eduforum/core"
)

type notificationApi struct {
	deps *Deps
}

type markReadRequest struct {
	UserID string   `json:"userId"`
	IDs    []string `json:"ids"`
}

func registerNotificationAPI(g *echo.Group, deps *Deps) {
	api := notificationApi{deps: deps}

	g.GET("/notifications", api.query)
	g.POST("/notifications/read", api.markRead)
}

// Handlers

func (api *notificationApi) query(ctx echo.Context) error {
	userID := ctx.QueryParam("userId")
	if userID == "" {
		return core.NewValidationError(errors.New("userId is required"))
	}

	feed, err := api.deps.NotificationSvc.Query(ctx.Request().Context(), userID)
	if err != nil {
		return errors.Wrap(err, "querying notifications")
	}
	return ctx.JSON(http.StatusOK, feed)
}

func (api *notificationApi) markRead(ctx echo.Context) error {
	var data markReadRequest
	if err := ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to markReadRequest")
	}
	if data.UserID == "" || len(data.IDs) == 0 {
		return core.NewValidationError(errors.New("userId and ids are required"))
	}

	if err := api.deps.NotificationSvc.MarkRead(ctx.Request().Context(), data.UserID, data.IDs...); err != nil {
		return errors.Wrap(err, "marking notifications read")
	}
	return ctx.JSON(http.StatusOK, echo.Map{"status": "ok"})
}
