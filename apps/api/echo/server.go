package echoapi

import (
	"context"
	"net/http"

	ut "github.com/go-playground/universal-translator"
	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"github.com/labstack/gommon/log"

	"github.com/kitcoek/eduforum/core"
	"github.com/kitcoek/eduforum/core/announcement"
	"github.com/kitcoek/eduforum/core/course"
	"github.com/kitcoek/eduforum/core/forum"
	"github.com/kitcoek/eduforum/core/notification"
	"github.com/kitcoek/eduforum/core/profile"
	"github.com/kitcoek/eduforum/core/resource"
)

type (
	Deps struct {
		Conf       *core.Config
		Logger     core.Logger
		Validate   *validator.Validate
		Translator ut.Translator

		CourseSvc       *course.Service
		ForumSvc        *forum.Service
		AnnouncementSvc *announcement.Service
		ResourceSvc     *resource.Service
		ProfileSvc      *profile.Service
		NotificationSvc *notification.Service

		DisableReqLogs bool
		// SignalShutdown is called when an unrecoverable error is caught so the
		// process can terminate gracefully. Optional.
		SignalShutdown func()
	}

	Server interface {
		http.Handler
		Start() error
		Stop(context.Context) error
	}

	server struct {
		deps *Deps
		app  *echo.Echo
	}
)

var _ Server = (*server)(nil)

func NewServer(deps *Deps) Server {
	if deps.SignalShutdown == nil {
		deps.SignalShutdown = func() {}
	}
	s := &server{
		deps: deps,
		app:  echo.New(),
	}
	s.setup()
	return s
}

func (s *server) setup() {
	conf := s.deps.Conf

	s.app.Pre(middleware.RemoveTrailingSlash())
	if !s.deps.DisableReqLogs {
		s.app.Use(middleware.Logger())
	}
	// do not recover in DEV|TEST mode
	if !(conf.Debug || conf.TestMode) {
		s.app.Use(middleware.RecoverWithConfig(middleware.RecoverConfig{LogLevel: log.ERROR}))
	}

	s.app.HTTPErrorHandler = newAppHTTPErrorHandler(s.deps)
	s.app.Debug = conf.Debug
	s.app.HideBanner = true

	s.app.GET("/", home)

	g := s.app.Group("/api")
	registerAuthAPI(g, s.deps)
	registerCourseAPI(g, s.deps)
	registerForumAPI(g, s.deps)
	registerAnnouncementAPI(g, s.deps)
	registerResourceAPI(g, s.deps)
	registerProfileAPI(g, s.deps)
	registerNotificationAPI(g, s.deps)
}

func (s *server) Start() error {
	return s.app.Start(s.deps.Conf.Server.Address())
}

func (s *server) Stop(ctx context.Context) error {
	return s.app.Shutdown(ctx)
}

func (s *server) ServeHTTP(w http.ResponseWriter, r *http.Request) { // for tests
	s.app.ServeHTTP(w, r)
}

func home(ctx echo.Context) error {
	return ctx.String(http.StatusOK, "Welcome to EduForum API!")
}
