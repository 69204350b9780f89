package main

import (
	"context"
	"expvar"
	"fmt"
	"log"
	"net/http"
	_ "net/http/pprof"
	"os"
	"os/signal"
	"syscall"

	"github.com/go-playground/locales/en"
	ut "github.com/go-playground/universal-translator"
	"github.com/go-playground/validator/v10"
	"github.com/jmoiron/sqlx"

	echoapi "github.com/kitcoek/eduforum/apps/api/echo"
	"github.com/kitcoek/eduforum/core"
	"github.com/kitcoek/eduforum/core/announcement"
	"github.com/kitcoek/eduforum/core/course"
	"github.com/kitcoek/eduforum/core/forum"
	"github.com/kitcoek/eduforum/core/notification"
	"github.com/kitcoek/eduforum/core/profile"
	"github.com/kitcoek/eduforum/core/resource"
	emailsvc "github.com/kitcoek/eduforum/services/email"
	logsvc "github.com/kitcoek/eduforum/services/logger"
	"github.com/kitcoek/eduforum/storage/database"
	inmemdb "github.com/kitcoek/eduforum/storage/database/inmem"
	"github.com/kitcoek/eduforum/storage/database/seed"
	"github.com/kitcoek/eduforum/storage/database/sqlxrepos"
)

func main() {
	// =========================================================================
	// Set up Dependencies

	conf := core.NewConfig()

	logger := logsvc.NewRollbarLogger(
		log.New(os.Stdout, "API : ", log.LstdFlags|log.Lmicroseconds|log.Lshortfile),
		conf,
	)
	logger.Enable(!conf.Debug)

	// set up storage
	repos, dbClose, err := setUpStorage(conf)
	if err != nil {
		logger.Fatal(fmt.Sprintf("setting up storage: %v", err), err)
	}
	defer dbClose()

	// set up services
	var mailSvc core.EmailService
	if conf.Debug {
		mailSvc = emailsvc.NewConsoleService(conf)
	} else {
		mailSvc = emailsvc.NewSendgridService(conf, logger)
	}

	notifSvc := notification.NewService(repos.notification)
	courseSvc := course.NewService(repos.course)
	forumSvc := forum.NewService(repos.forum, notifSvc)
	annSvc := announcement.NewService(repos.announcement, courseSvc, notifSvc, mailSvc, conf)
	resSvc := resource.NewService(repos.resource, courseSvc, notifSvc)
	profileSvc := profile.NewService(repos.profile, courseSvc)

	// =========================================================================
	// Initialize App

	logger.Info(fmt.Sprintf("Application initializing : version %q", conf.Build))
	defer logger.Info("Application stopped")

	validate := validator.New()
	translator := newTranslator()
	core.InitValidators(validate, translator)
	profile.InitValidators(validate, translator, conf)

	// =========================================================================
	// Start Debug Service
	//
	// /debug/pprof - Added to the default mux by importing the net/http/pprof package.
	// /debug/vars - Added to the default mux by importing the expvar package.

	expvar.NewString("build").Set(conf.Build)
	expvar.NewString("env").Set(conf.Env)

	go func() {
		if err := http.ListenAndServe(conf.Server.DebugHost, http.DefaultServeMux); err != nil {
			logger.Error(fmt.Sprintf("debug server closed: %v", err), err)
		}
	}()

	// =========================================================================
	// Start API Service

	shutdown := make(chan os.Signal, 1)
	signal.Notify(shutdown, os.Interrupt, syscall.SIGTERM)

	server := echoapi.NewServer(&echoapi.Deps{
		Conf:            conf,
		Logger:          logger,
		Validate:        validate,
		Translator:      translator,
		CourseSvc:       courseSvc,
		ForumSvc:        forumSvc,
		AnnouncementSvc: annSvc,
		ResourceSvc:     resSvc,
		ProfileSvc:      profileSvc,
		NotificationSvc: notifSvc,
		SignalShutdown:  func() { shutdown <- syscall.SIGTERM },
	})

	serverErrors := make(chan error, 1)
	go func() {
		logger.Info(fmt.Sprintf("API server listening on %s", conf.Server.Address()))
		serverErrors <- server.Start()
	}()

	// =========================================================================
	// Shutdown

	select {
	case err = <-serverErrors:
		logger.Fatal(fmt.Sprintf("server error: %v", err), err)

	case sig := <-shutdown:
		logger.Info(fmt.Sprintf("%v: Start shutdown...", sig))

		// give outstanding requests a deadline for completion
		ctx, cancel := context.WithTimeout(context.Background(), conf.Server.ShutdownTimeout)
		defer cancel()

		if err = server.Stop(ctx); err != nil {
			logger.Fatal(fmt.Sprintf("could not stop server gracefully: %v", err), err)
		}
	}
}

type repoSet struct {
	course       course.Repository
	forum        forum.Repository
	announcement announcement.Repository
	resource     resource.Repository
	profile      profile.Repository
	notification notification.Repository
}

// setUpStorage selects the storage engine once at startup. The in-memory
// engine is seeded with the demo dataset; Postgres is seeded via the admin
// CLI instead.
func setUpStorage(conf *core.Config) (repoSet, func(), error) {
	if conf.Database.Engine == "inmem" {
		db, err := inmemdb.Open()
		if err != nil {
			return repoSet{}, nil, err
		}
		repos := repoSet{
			course:       inmemdb.NewCourseRepository(db),
			forum:        inmemdb.NewForumRepository(db),
			announcement: inmemdb.NewAnnouncementRepository(db),
			resource:     inmemdb.NewResourceRepository(db),
			profile:      inmemdb.NewProfileRepository(db),
			notification: inmemdb.NewNotificationRepository(db),
		}
		err = seed.Load(context.Background(), seed.Repos{
			Courses:       repos.course,
			Forum:         repos.forum,
			Announcements: repos.announcement,
			Resources:     repos.resource,
			Profiles:      repos.profile,
		})
		return repos, func() {}, err
	}

	db, err := setUpDB(conf)
	if err != nil {
		return repoSet{}, nil, err
	}
	repos := repoSet{
		course:       sqlxrepos.NewCourseRepository(db),
		forum:        sqlxrepos.NewForumRepository(db),
		announcement: sqlxrepos.NewAnnouncementRepository(db),
		resource:     sqlxrepos.NewResourceRepository(db),
		profile:      sqlxrepos.NewProfileRepository(db),
		notification: sqlxrepos.NewNotificationRepository(db),
	}
	return repos, func() { _ = db.Close() }, nil
}

func setUpDB(conf *core.Config) (*sqlx.DB, error) {
	if err := database.CreateIfNotExist(conf); err != nil {
		return nil, err
	}

	db, err := database.Open(conf)
	if err != nil {
		return nil, err
	}

	if err = database.Migrate(db.DB); err != nil {
		return nil, err
	}
	return db, nil
}

func newTranslator() ut.Translator {
	_en := en.New()
	uni := ut.New(_en, _en)
	translator, _ := uni.GetTranslator("en")
	return translator
}
