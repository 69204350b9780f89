package echoapi

import (
	"fmt"
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"
	"github.com/xuri/excelize/v2"

	"github.com/kitcoek/eduforum/core/course"
)

type courseApi struct {
	deps *Deps
}

func registerCourseAPI(g *echo.Group, deps *Deps) {
	api := courseApi{deps: deps}

	g.GET("/courses", api.query)

	fg := g.Group("/faculty/courses")
	fg.GET("", api.query)
	fg.POST("", api.create)
	fg.GET("/:courseId", api.retrieve)
	fg.PUT("/:courseId", api.update)
	fg.DELETE("/:courseId", api.destroy)

	fg.GET("/:courseId/students", api.roster)
	fg.POST("/:courseId/students", api.moderateRoster)
	fg.GET("/:courseId/students/export", api.exportRoster)
}

// Handlers

func (api *courseApi) query(ctx echo.Context) error {
	// the role query param is accepted but has no server-side effect
	courses, err := api.deps.CourseSvc.QueryAll(ctx.Request().Context())
	if err != nil {
		return errors.Wrap(err, "querying courses")
	}
	return ctx.JSON(http.StatusOK, courses)
}

func (api *courseApi) create(ctx echo.Context) error {
	var data course.NewCourse
	if err := ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to NewCourse")
	}
	if err := data.Validate(api.deps.Validate); err != nil {
		return err
	}

	crs, err := api.deps.CourseSvc.Create(ctx.Request().Context(), data)
	if err != nil {
		return errors.Wrap(err, "creating course")
	}
	return ctx.JSON(http.StatusCreated, crs)
}

func (api *courseApi) retrieve(ctx echo.Context) error {
	crs, err := api.deps.CourseSvc.GetByID(ctx.Request().Context(), ctx.Param("courseId"))
	if err != nil {
		return err
	}
	return ctx.JSON(http.StatusOK, crs)
}

func (api *courseApi) update(ctx echo.Context) error {
	var data course.UpdateCourse
	if err := ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to UpdateCourse")
	}
	if err := data.Validate(api.deps.Validate); err != nil {
		return err
	}

	crs, err := api.deps.CourseSvc.Update(ctx.Request().Context(), ctx.Param("courseId"), data)
	if err != nil {
		return err
	}
	return ctx.JSON(http.StatusOK, crs)
}

func (api *courseApi) destroy(ctx echo.Context) error {
	if err := api.deps.CourseSvc.Delete(ctx.Request().Context(), ctx.Param("courseId")); err != nil {
		return err
	}
	return ctx.NoContent(http.StatusNoContent)
}

func (api *courseApi) roster(ctx echo.Context) error {
	roster, err := api.deps.CourseSvc.Roster(ctx.Request().Context(), ctx.Param("courseId"))
	if err != nil {
		return err
	}
	return ctx.JSON(http.StatusOK, roster)
}

func (api *courseApi) moderateRoster(ctx echo.Context) error {
	var data course.RosterAction
	if err := ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to RosterAction")
	}
	if err := data.Validate(api.deps.Validate); err != nil {
		return err
	}

	roster, err := api.deps.CourseSvc.ModerateRoster(ctx.Request().Context(), ctx.Param("courseId"), data)
	if err != nil {
		return err
	}
	return ctx.JSON(http.StatusOK, roster)
}

// exportRoster streams the course roster as an xlsx workbook.
func (api *courseApi) exportRoster(ctx echo.Context) error {
	reqCtx := ctx.Request().Context()
	crs, err := api.deps.CourseSvc.GetByID(reqCtx, ctx.Param("courseId"))
	if err != nil {
		return err
	}
	roster, err := api.deps.CourseSvc.Roster(reqCtx, crs.ID)
	if err != nil {
		return err
	}

	f := excelize.NewFile()
	defer func() { _ = f.Close() }()

	const sheet = "Roster"
	if err = f.SetSheetName("Sheet1", sheet); err != nil {
		return errors.Wrap(err, "renaming sheet")
	}
	headers := []string{"Name", "Email", "PRN", "Status"}
	for col, header := range headers {
		cell, _ := excelize.CoordinatesToCellName(col+1, 1)
		if err = f.SetCellValue(sheet, cell, header); err != nil {
			return errors.Wrap(err, "writing header")
		}
	}
	for row, enr := range roster {
		values := []interface{}{enr.Name, enr.Email, enr.PRN.String, enr.Status}
		for col, val := range values {
			cell, _ := excelize.CoordinatesToCellName(col+1, row+2)
			if err = f.SetCellValue(sheet, cell, val); err != nil {
				return errors.Wrap(err, "writing roster row")
			}
		}
	}

	buf, err := f.WriteToBuffer()
	if err != nil {
		return errors.Wrap(err, "serializing workbook")
	}

	filename := fmt.Sprintf("%s-roster.xlsx", crs.Code)
	ctx.Response().Header().Set(echo.HeaderContentDisposition, fmt.Sprintf(`attachment; filename="%s"`, filename))
	return ctx.Blob(http.StatusOK, "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet", buf.Bytes())
}
