package echoapi

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"

	"github.com/kitcoek/eduforum/core/forum"
)

type forumApi struct {
	deps *Deps
}

func registerForumAPI(g *echo.Group, deps *Deps) {
	api := forumApi{deps: deps}

	g.GET("/forums", api.queryThreads)
	g.POST("/forums", api.createThread)
	g.GET("/forums/:threadId", api.retrieveThread)
	g.POST("/forums/:threadId", api.addReply)
	g.POST("/forums/:threadId/replies/:replyId/vote", api.vote)

	g.GET("/faculty/courses/:courseId/forums", api.queryCourseThreads)
	g.PATCH("/faculty/forums/answers/:answerId", api.moderate)
	g.DELETE("/faculty/forums/answers/:answerId", api.destroyReply)
	g.POST("/faculty/forums/:threadId/verified-answer", api.postVerifiedAnswer)
}

// Handlers

func (api *forumApi) queryThreads(ctx echo.Context) error {
	threads, err := api.deps.ForumSvc.QueryThreads(ctx.Request().Context(), ctx.QueryParam("courseId"))
	if err != nil {
		return errors.Wrap(err, "querying threads")
	}
	return ctx.JSON(http.StatusOK, threads)
}

func (api *forumApi) queryCourseThreads(ctx echo.Context) error {
	reqCtx := ctx.Request().Context()
	crs, err := api.deps.CourseSvc.GetByID(reqCtx, ctx.Param("courseId"))
	if err != nil {
		return err
	}
	threads, err := api.deps.ForumSvc.QueryThreads(reqCtx, crs.ID)
	if err != nil {
		return errors.Wrap(err, "querying threads")
	}
	return ctx.JSON(http.StatusOK, threads)
}

func (api *forumApi) createThread(ctx echo.Context) error {
	var data forum.NewThread
	if err := ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to NewThread")
	}
	if err := data.Validate(api.deps.Validate); err != nil {
		return err
	}

	info, err := api.deps.ForumSvc.CreateThread(ctx.Request().Context(), data)
	if err != nil {
		return errors.Wrap(err, "creating thread")
	}
	return ctx.JSON(http.StatusCreated, info)
}

func (api *forumApi) retrieveThread(ctx echo.Context) error {
	reqCtx := ctx.Request().Context()
	thr, err := api.deps.ForumSvc.GetThread(reqCtx, ctx.Param("threadId"))
	if err != nil {
		return err
	}
	replies, err := api.deps.ForumSvc.QueryReplies(reqCtx, thr.ID)
	if err != nil {
		return errors.Wrap(err, "querying replies")
	}
	return ctx.JSON(http.StatusOK, echo.Map{"thread": thr, "replies": replies})
}

func (api *forumApi) addReply(ctx echo.Context) error {
	var data forum.NewReply
	if err := ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to NewReply")
	}
	if err := data.Validate(api.deps.Validate); err != nil {
		return err
	}

	rpl, err := api.deps.ForumSvc.AddReply(ctx.Request().Context(), ctx.Param("threadId"), data)
	if err != nil {
		return err
	}
	return ctx.JSON(http.StatusCreated, rpl)
}

func (api *forumApi) vote(ctx echo.Context) error {
	var data forum.Vote
	if err := ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to Vote")
	}
	if err := data.Validate(api.deps.Validate); err != nil {
		return err
	}

	rpl, err := api.deps.ForumSvc.Vote(ctx.Request().Context(), ctx.Param("threadId"), ctx.Param("replyId"), data)
	if err != nil {
		return err
	}
	return ctx.JSON(http.StatusOK, rpl)
}

func (api *forumApi) moderate(ctx echo.Context) error {
	var data forum.Moderation
	if err := ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to Moderation")
	}
	if err := data.Validate(api.deps.Validate); err != nil {
		return err
	}

	rpl, verifiedID, err := api.deps.ForumSvc.Moderate(ctx.Request().Context(), ctx.Param("answerId"), data)
	if err != nil {
		return err
	}
	return ctx.JSON(http.StatusOK, echo.Map{"reply": rpl, "verifiedAnswerId": verifiedID})
}

func (api *forumApi) destroyReply(ctx echo.Context) error {
	courseID, threadID := ctx.QueryParam("courseId"), ctx.QueryParam("threadId")
	if courseID == "" || threadID == "" {
		return echo.NewHTTPError(http.StatusBadRequest, "courseId and threadId are required")
	}

	err := api.deps.ForumSvc.DeleteReply(ctx.Request().Context(), courseID, threadID, ctx.Param("answerId"))
	if err != nil {
		return err
	}
	return ctx.NoContent(http.StatusNoContent)
}

func (api *forumApi) postVerifiedAnswer(ctx echo.Context) error {
	var data forum.VerifiedAnswer
	if err := ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to VerifiedAnswer")
	}
	if err := data.Validate(api.deps.Validate); err != nil {
		return err
	}

	rpl, err := api.deps.ForumSvc.PostVerifiedAnswer(ctx.Request().Context(), ctx.Param("threadId"), data)
	if err != nil {
		return err
	}
	return ctx.JSON(http.StatusCreated, rpl)
}
