package echoapi

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"

	"github.com/kitcoek/eduforum/core/resource"
)

type resourceApi struct {
	deps *Deps
}

func registerResourceAPI(g *echo.Group, deps *Deps) {
	api := resourceApi{deps: deps}

	g.GET("/resources", api.queryByCourseParam)
	g.POST("/resources", api.create)

	fg := g.Group("/faculty/resources")
	fg.GET("", api.query)
	fg.POST("", api.create)
	fg.PATCH("/:id", api.update)
	fg.DELETE("/:id", api.destroy)
	fg.POST("/:id/download", api.download)

	cg := g.Group("/faculty/courses/:courseId/resources")
	cg.GET("", api.queryCourse)
	cg.POST("", api.createForCourse)
}

// Handlers

func (api *resourceApi) query(ctx echo.Context) error {
	filter := resource.QueryFilter{
		Course:   ctx.QueryParam("course"),
		FileType: ctx.QueryParam("fileType"),
		Search:   ctx.QueryParam("search"),
		Sort:     ctx.QueryParam("sort"),
	}

	reqCtx := ctx.Request().Context()
	resources, err := api.deps.ResourceSvc.Query(reqCtx, filter)
	if err != nil {
		return errors.Wrap(err, "querying resources")
	}
	options, err := courseOptions(reqCtx, api.deps)
	if err != nil {
		return err
	}
	return ctx.JSON(http.StatusOK, echo.Map{"resources": resources, "courseOptions": options})
}

func (api *resourceApi) queryByCourseParam(ctx echo.Context) error {
	filter := resource.QueryFilter{Course: ctx.QueryParam("courseId")}
	resources, err := api.deps.ResourceSvc.Query(ctx.Request().Context(), filter)
	if err != nil {
		return errors.Wrap(err, "querying resources")
	}
	return ctx.JSON(http.StatusOK, resources)
}

func (api *resourceApi) queryCourse(ctx echo.Context) error {
	reqCtx := ctx.Request().Context()
	crs, err := api.deps.CourseSvc.GetByID(reqCtx, ctx.Param("courseId"))
	if err != nil {
		return err
	}
	resources, err := api.deps.ResourceSvc.Query(reqCtx, resource.QueryFilter{Course: crs.ID})
	if err != nil {
		return errors.Wrap(err, "querying resources")
	}
	return ctx.JSON(http.StatusOK, resources)
}

func (api *resourceApi) create(ctx echo.Context) error {
	var data resource.NewResource
	if err := ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to NewResource")
	}
	return api.doCreate(ctx, data)
}

func (api *resourceApi) createForCourse(ctx echo.Context) error {
	var data resource.NewResource
	if err := ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to NewResource")
	}
	data.CourseID = ctx.Param("courseId")
	return api.doCreate(ctx, data)
}

func (api *resourceApi) doCreate(ctx echo.Context, data resource.NewResource) error {
	if err := data.Validate(api.deps.Validate); err != nil {
		return err
	}
	res, err := api.deps.ResourceSvc.Create(ctx.Request().Context(), data)
	if err != nil {
		return errors.Wrap(err, "creating resource")
	}
	return ctx.JSON(http.StatusCreated, res)
}

func (api *resourceApi) update(ctx echo.Context) error {
	var data resource.UpdateResource
	if err := ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to UpdateResource")
	}
	if err := data.Validate(api.deps.Validate); err != nil {
		return err
	}

	res, err := api.deps.ResourceSvc.Update(ctx.Request().Context(), ctx.Param("id"), data)
	if err != nil {
		return err
	}
	return ctx.JSON(http.StatusOK, res)
}

func (api *resourceApi) destroy(ctx echo.Context) error {
	if err := api.deps.ResourceSvc.Delete(ctx.Request().Context(), ctx.Param("id")); err != nil {
		return err
	}
	return ctx.NoContent(http.StatusNoContent)
}

func (api *resourceApi) download(ctx echo.Context) error {
	downloads, err := api.deps.ResourceSvc.RecordDownload(ctx.Request().Context(), ctx.Param("id"))
	if err != nil {
		return err
	}
	return ctx.JSON(http.StatusOK, echo.Map{"downloads": downloads})
}
