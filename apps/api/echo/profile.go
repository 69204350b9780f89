package echoapi

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"

	"github.com/kitcoek/eduforum/core"
	"github.com/kitcoek/eduforum/core/profile"
)

var errProfileKeyRequired = core.NewValidationError(errors.New("id or email is required"))

type profileApi struct {
	deps *Deps
}

func registerProfileAPI(g *echo.Group, deps *Deps) {
	api := profileApi{deps: deps}

	g.GET("/profile/student", api.retrieveStudent)
	g.POST("/profile/student", api.createStudent)
	g.PATCH("/profile/student", api.updateStudent)

	g.GET("/profile/faculty", api.retrieveFaculty)
	g.POST("/profile/faculty", api.createFaculty)
	g.PATCH("/profile/faculty", api.updateFaculty)

	g.GET("/faculty/stats", api.facultyStats)
	g.GET("/student/enrollments", api.studentEnrollments)
}

// profileFilter keys a profile by id or email; id wins when both are present.
func profileFilter(ctx echo.Context) (profile.GetFilter, error) {
	filter := profile.GetFilter{
		ID:    ctx.QueryParam("id"),
		Email: ctx.QueryParam("email"),
	}
	if filter.IsEmpty() {
		return filter, errProfileKeyRequired
	}
	return filter, nil
}

// Handlers

func (api *profileApi) retrieveStudent(ctx echo.Context) error {
	filter, err := profileFilter(ctx)
	if err != nil {
		return err
	}

	reqCtx := ctx.Request().Context()
	st, err := api.deps.ProfileSvc.GetStudent(reqCtx, filter)
	if err != nil {
		return err
	}
	courses, err := api.deps.ProfileSvc.StudentCourses(reqCtx, st)
	if err != nil {
		return errors.Wrap(err, "querying student courses")
	}
	return ctx.JSON(http.StatusOK, echo.Map{"profile": st, "courses": courses})
}

func (api *profileApi) createStudent(ctx echo.Context) error {
	var data profile.NewStudent
	if err := ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to NewStudent")
	}
	if err := data.Validate(api.deps.Validate); err != nil {
		return err
	}

	st, err := api.deps.ProfileSvc.CreateStudent(ctx.Request().Context(), data)
	if err != nil {
		return errors.Wrap(err, "creating student profile")
	}
	return ctx.JSON(http.StatusCreated, st)
}

func (api *profileApi) updateStudent(ctx echo.Context) error {
	filter, err := profileFilter(ctx)
	if err != nil {
		return err
	}
	var data profile.UpdateStudent
	if err = ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to UpdateStudent")
	}
	if err = data.Validate(api.deps.Validate); err != nil {
		return err
	}

	st, err := api.deps.ProfileSvc.PatchStudent(ctx.Request().Context(), filter, data)
	if err != nil {
		return err
	}
	return ctx.JSON(http.StatusOK, st)
}

func (api *profileApi) retrieveFaculty(ctx echo.Context) error {
	filter, err := profileFilter(ctx)
	if err != nil {
		return err
	}

	fac, err := api.deps.ProfileSvc.GetFaculty(ctx.Request().Context(), filter)
	if err != nil {
		return err
	}
	return ctx.JSON(http.StatusOK, echo.Map{"profile": fac})
}

func (api *profileApi) createFaculty(ctx echo.Context) error {
	var data profile.NewFaculty
	if err := ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to NewFaculty")
	}
	if err := data.Validate(api.deps.Validate); err != nil {
		return err
	}

	fac, err := api.deps.ProfileSvc.CreateFaculty(ctx.Request().Context(), data)
	if err != nil {
		return errors.Wrap(err, "creating faculty profile")
	}
	return ctx.JSON(http.StatusCreated, fac)
}

func (api *profileApi) updateFaculty(ctx echo.Context) error {
	filter, err := profileFilter(ctx)
	if err != nil {
		return err
	}
	var data profile.UpdateFaculty
	if err = ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to UpdateFaculty")
	}
	if err = data.Validate(api.deps.Validate); err != nil {
		return err
	}

	fac, err := api.deps.ProfileSvc.PatchFaculty(ctx.Request().Context(), filter, data)
	if err != nil {
		return err
	}
	return ctx.JSON(http.StatusOK, fac)
}

func (api *profileApi) facultyStats(ctx echo.Context) error {
	filter, err := profileFilter(ctx)
	if err != nil {
		return err
	}

	stats, err := api.deps.ProfileSvc.FacultyStats(ctx.Request().Context(), filter)
	if err != nil {
		return err
	}
	return ctx.JSON(http.StatusOK, echo.Map{"stats": stats})
}

func (api *profileApi) studentEnrollments(ctx echo.Context) error {
	filter, err := profileFilter(ctx)
	if err != nil {
		return err
	}

	reqCtx := ctx.Request().Context()
	st, err := api.deps.ProfileSvc.GetStudent(reqCtx, filter)
	if err != nil {
		return err
	}
	courses, err := api.deps.ProfileSvc.StudentCourses(reqCtx, st)
	if err != nil {
		return errors.Wrap(err, "querying student courses")
	}
	return ctx.JSON(http.StatusOK, courses)
}
