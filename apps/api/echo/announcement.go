package echoapi

import (
	"context"
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"

	"github.com/kitcoek/eduforum/core/announcement"
)

type courseOption struct {
	ID   string `json:"id"`
	Code string `json:"code"`
	Name string `json:"name"`
}

// courseOptions lists the known courses for client-side filter dropdowns.
func courseOptions(ctx context.Context, deps *Deps) ([]courseOption, error) {
	courses, err := deps.CourseSvc.QueryAll(ctx)
	if err != nil {
		return nil, errors.Wrap(err, "querying course options")
	}
	options := make([]courseOption, 0, len(courses))
	for _, crs := range courses {
		options = append(options, courseOption{ID: crs.ID, Code: crs.Code, Name: crs.Name})
	}
	return options, nil
}

type announcementApi struct {
	deps *Deps
}

func registerAnnouncementAPI(g *echo.Group, deps *Deps) {
	api := announcementApi{deps: deps}

	fg := g.Group("/faculty/announcements")
	fg.GET("", api.query)
	fg.POST("", api.create)
	fg.PATCH("/:id", api.update)
	fg.DELETE("/:id", api.destroy)
	fg.POST("/bulk", api.bulk)
}

// Handlers

func (api *announcementApi) query(ctx echo.Context) error {
	filter, err := bindAnnouncementFilter(ctx)
	if err != nil {
		return err
	}

	reqCtx := ctx.Request().Context()
	announcements, err := api.deps.AnnouncementSvc.Query(reqCtx, filter)
	if err != nil {
		return errors.Wrap(err, "querying announcements")
	}
	options, err := courseOptions(reqCtx, api.deps)
	if err != nil {
		return err
	}
	return ctx.JSON(http.StatusOK, echo.Map{"announcements": announcements, "courseOptions": options})
}

func (api *announcementApi) create(ctx echo.Context) error {
	var data announcement.NewAnnouncement
	if err := ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to NewAnnouncement")
	}
	if err := data.Validate(api.deps.Validate); err != nil {
		return err
	}

	ann, err := api.deps.AnnouncementSvc.Create(ctx.Request().Context(), data)
	if err != nil {
		return errors.Wrap(err, "creating announcement")
	}
	return ctx.JSON(http.StatusCreated, ann)
}

func (api *announcementApi) update(ctx echo.Context) error {
	var data announcement.UpdateAnnouncement
	if err := ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to UpdateAnnouncement")
	}
	if err := data.Validate(api.deps.Validate); err != nil {
		return err
	}

	ann, err := api.deps.AnnouncementSvc.Update(ctx.Request().Context(), ctx.Param("id"), data)
	if err != nil {
		return err
	}
	return ctx.JSON(http.StatusOK, ann)
}

func (api *announcementApi) destroy(ctx echo.Context) error {
	if err := api.deps.AnnouncementSvc.Delete(ctx.Request().Context(), ctx.Param("id")); err != nil {
		return err
	}
	return ctx.NoContent(http.StatusNoContent)
}

func (api *announcementApi) bulk(ctx echo.Context) error {
	var data announcement.BulkAction
	if err := ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to BulkAction")
	}
	if err := data.Validate(api.deps.Validate); err != nil {
		return err
	}

	if err := api.deps.AnnouncementSvc.Bulk(ctx.Request().Context(), data); err != nil {
		return errors.Wrap(err, "applying bulk action")
	}
	return ctx.JSON(http.StatusOK, echo.Map{"status": "ok"})
}
