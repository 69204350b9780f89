package echoapi

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"reflect"
	"testing"
	"time"

	"github.com/go-playground/locales/en"
	ut "github.com/go-playground/universal-translator"
	"github.com/go-playground/validator/v10"
	"github.com/stretchr/testify/assert"

	"github.com/kitcoek/eduforum/core"
	"github.com/kitcoek/eduforum/core/announcement"
	"github.com/kitcoek/eduforum/core/course"
	"github.com/kitcoek/eduforum/core/forum"
	"github.com/kitcoek/eduforum/core/notification"
	"github.com/kitcoek/eduforum/core/profile"
	"github.com/kitcoek/eduforum/core/resource"
	emailsvc "github.com/kitcoek/eduforum/services/email"
	inmemdb "github.com/kitcoek/eduforum/storage/database/inmem"
)

// nopLogger discards everything; transport tests assert on responses only.
type nopLogger struct{}

func (nopLogger) Enable(bool)                  {}
func (nopLogger) Debug(string, ...interface{}) {}
func (nopLogger) Info(string, ...interface{})  {}
func (nopLogger) Warn(string, ...interface{})  {}
func (nopLogger) Error(string, ...interface{}) {}
func (nopLogger) Fatal(string, ...interface{}) {}

var _ core.Logger = (*nopLogger)(nil)

type testEnv struct {
	app  Server
	conf *core.Config

	courseRepo course.Repository
	forumRepo  forum.Repository
	annRepo    announcement.Repository
	resRepo    resource.Repository
	profRepo   profile.Repository
	notifRepo  notification.Repository

	notifSvc *notification.Service
}

func setup(t *testing.T) *testEnv {
	t.Helper()

	conf := core.NewConfig()
	conf.Debug = false
	conf.TestMode = true

	db, err := inmemdb.Open()
	if err != nil {
		t.Fatalf("inmemdb.Open(): %v", err)
	}

	env := &testEnv{
		conf:       conf,
		courseRepo: inmemdb.NewCourseRepository(db),
		forumRepo:  inmemdb.NewForumRepository(db),
		annRepo:    inmemdb.NewAnnouncementRepository(db),
		resRepo:    inmemdb.NewResourceRepository(db),
		profRepo:   inmemdb.NewProfileRepository(db),
		notifRepo:  inmemdb.NewNotificationRepository(db),
	}

	mailSvc := emailsvc.NewConsoleServiceMock(conf)
	emailsvc.ClearSentMessages()

	env.notifSvc = notification.NewService(env.notifRepo)
	courseSvc := course.NewService(env.courseRepo)
	forumSvc := forum.NewService(env.forumRepo, env.notifSvc)
	annSvc := announcement.NewService(env.annRepo, courseSvc, env.notifSvc, mailSvc, conf)
	resSvc := resource.NewService(env.resRepo, courseSvc, env.notifSvc)
	profileSvc := profile.NewService(env.profRepo, courseSvc)

	validate := validator.New()
	_en := en.New()
	uni := ut.New(_en, _en)
	translator, _ := uni.GetTranslator("en")
	core.InitValidators(validate, translator)
	profile.InitValidators(validate, translator, conf)

	env.app = NewServer(&Deps{
		Conf:            conf,
		Logger:          nopLogger{},
		Validate:        validate,
		Translator:      translator,
		CourseSvc:       courseSvc,
		ForumSvc:        forumSvc,
		AnnouncementSvc: annSvc,
		ResourceSvc:     resSvc,
		ProfileSvc:      profileSvc,
		NotificationSvc: env.notifSvc,
		DisableReqLogs:  true,
	})
	return env
}

// Fixture helpers. IDs are fixed so response assertions stay deterministic.

func (env *testEnv) addCourse(t *testing.T, crs course.Course) course.Course {
	t.Helper()
	if crs.CreatedAt.IsZero() {
		crs.CreatedAt = time.Date(2026, 1, 10, 9, 0, 0, 0, time.UTC)
		crs.UpdatedAt = crs.CreatedAt
	}
	crs, err := env.courseRepo.CreateCourse(context.Background(), crs)
	if err != nil {
		t.Fatalf("addCourse(): %v", err)
	}
	return crs
}

func (env *testEnv) addEnrollment(t *testing.T, enr course.Enrollment) course.Enrollment {
	t.Helper()
	enr, err := env.courseRepo.CreateEnrollment(context.Background(), enr)
	if err != nil {
		t.Fatalf("addEnrollment(): %v", err)
	}
	return enr
}

func (env *testEnv) addThread(t *testing.T, thr forum.Thread) forum.Thread {
	t.Helper()
	thr, err := env.forumRepo.CreateThread(context.Background(), thr)
	if err != nil {
		t.Fatalf("addThread(): %v", err)
	}
	return thr
}

func (env *testEnv) addReply(t *testing.T, rpl forum.Reply) forum.Reply {
	t.Helper()
	if rpl.Status == "" {
		rpl.Status = forum.StatusNormal
	}
	rpl, err := env.forumRepo.CreateReply(context.Background(), rpl)
	if err != nil {
		t.Fatalf("addReply(): %v", err)
	}
	return rpl
}

func (env *testEnv) addAnnouncement(t *testing.T, ann announcement.Announcement) announcement.Announcement {
	t.Helper()
	ann, err := env.annRepo.CreateAnnouncement(context.Background(), ann)
	if err != nil {
		t.Fatalf("addAnnouncement(): %v", err)
	}
	return ann
}

func (env *testEnv) addResource(t *testing.T, res resource.Resource) resource.Resource {
	t.Helper()
	if res.UploadedAt.IsZero() {
		res.UploadedAt = time.Date(2026, 2, 1, 12, 0, 0, 0, time.UTC)
	}
	res, err := env.resRepo.CreateResource(context.Background(), res)
	if err != nil {
		t.Fatalf("addResource(): %v", err)
	}
	return res
}

type httpErr struct {
	Error string `json:"error"`
}

type httpTest struct {
	name     string
	method   string
	path     string
	body     []byte
	wantCode int
	wantData []byte
}

func newRequest(method, path string, data ...[]byte) (*http.Request, *httptest.ResponseRecorder) {
	var body bytes.Buffer
	if len(data) > 0 {
		body.Write(data[0])
	}
	req := httptest.NewRequest(method, path, &body)
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	return req, rec
}

func marchallObj(t *testing.T, obj interface{}) []byte {
	t.Helper()
	data, err := json.Marshal(obj)
	if err != nil {
		t.Fatalf("marchallObj(): %v", err)
	}
	return data
}

func marchallList(t *testing.T, objs ...interface{}) []byte {
	t.Helper()
	data, err := json.Marshal(objs)
	if err != nil {
		t.Fatalf("marchallList(): %v", err)
	}
	return data
}

func jsonBytesEqual(t *testing.T, b1, b2 []byte) (bool, error) {
	var j1, j2 interface{}
	if err := json.Unmarshal(b1, &j1); err != nil {
		return false, err
	}
	if err := json.Unmarshal(b2, &j2); err != nil {
		return false, err
	}
	if reflect.DeepEqual(j1, j2) {
		return true, nil
	}
	if j1 == nil || j2 == nil {
		return false, nil
	}
	return assert.ObjectsAreEqual(j1, j2), nil
}

func checkCodeAndData(t *testing.T, tt httpTest, rec *httptest.ResponseRecorder) {
	t.Helper()
	if rec.Code != tt.wantCode {
		t.Errorf("failed! code = %v; wantCode %v", rec.Code, tt.wantCode)
	}
	if tt.wantData == nil {
		return
	}
	ok, err := jsonBytesEqual(t, rec.Body.Bytes(), tt.wantData)
	if err != nil {
		t.Errorf("jsonBytesEqual() failed to compare; err %v", err)
	}
	if !ok {
		t.Errorf("failed! data = %v; wantData %v", rec.Body.String(), string(tt.wantData))
	}
}

func checkCode(t *testing.T, rec *httptest.ResponseRecorder, wantCode int) {
	t.Helper()
	if rec.Code != wantCode {
		t.Fatalf("failed! code = %v; wantCode %v; body %s", rec.Code, wantCode, rec.Body.String())
	}
}

func unmarshallBody(t *testing.T, rec *httptest.ResponseRecorder, dst interface{}) {
	t.Helper()
	if err := json.Unmarshal(rec.Body.Bytes(), dst); err != nil {
		t.Fatalf("unmarshallBody(): %v; body %s", err, rec.Body.String())
	}
}
