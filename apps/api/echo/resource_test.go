package echoapi

import (
	"fmt"
	"net/http"
	"testing"
	"time"

	"github.com/kitcoek/eduforum/core/course"
	"github.com/kitcoek/eduforum/core/notification"
	"github.com/kitcoek/eduforum/core/resource"
)

type resourcePage struct {
	Resources     []resource.Resource `json:"resources"`
	CourseOptions []courseOption      `json:"courseOptions"`
}

func TestResourceQueryAPI(t *testing.T) {
	env := setup(t)

	env.addCourse(t, course.Course{ID: "c1", Code: "CS301", Name: "Data Structures & Algorithms"})
	env.addCourse(t, course.Course{ID: "c2", Code: "CS402", Name: "Database Management Systems"})

	env.addResource(t, resource.Resource{
		ID: "res1", CourseID: "c1", Title: "Sorting Algorithms Notes", Description: "Lecture notes",
		Tags: []string{"sorting", "exam"}, FileType: resource.TypePDF, URL: "/files/sorting.pdf",
		UploadedAt: time.Date(2026, 2, 1, 12, 0, 0, 0, time.UTC), Downloads: 120,
	})
	env.addResource(t, resource.Resource{
		ID: "res2", CourseID: "c2", Title: "Normalization Walkthrough", Description: "Worked 2NF/3NF examples",
		Tags: []string{"normalization"}, FileType: resource.TypeDoc, URL: "/files/norm.doc",
		UploadedAt: time.Date(2026, 2, 5, 12, 0, 0, 0, time.UTC), Downloads: 85,
	})
	env.addResource(t, resource.Resource{
		ID: "res3", CourseID: "c1", Title: "AVL Tree Animation", Description: "External demo",
		Tags: []string{"trees"}, FileType: resource.TypeLink, URL: "https://example.com/avl",
		UploadedAt: time.Date(2026, 2, 9, 12, 0, 0, 0, time.UTC), Downloads: 301,
	})

	cases := []struct {
		name    string
		path    string
		wantIDs []string
	}{
		{"default sort is newest upload first", "/api/faculty/resources", []string{"res3", "res2", "res1"}},
		{"course filter", "/api/faculty/resources?course=c1", []string{"res3", "res1"}},
		{"course=all is no filter", "/api/faculty/resources?course=all", []string{"res3", "res2", "res1"}},
		{"fileType filter", "/api/faculty/resources?fileType=pdf", []string{"res1"}},
		{"fileType is case-insensitive", "/api/faculty/resources?fileType=PDF", []string{"res1"}},
		{"search matches titles", "/api/faculty/resources?search=sorting", []string{"res1"}},
		{"search matches descriptions", "/api/faculty/resources?search=worked", []string{"res2"}},
		{"search matches tags", "/api/faculty/resources?search=TREES", []string{"res3"}},
		{"search misses", "/api/faculty/resources?search=quantum", []string{}},
		{"sort by downloads", "/api/faculty/resources?sort=downloads", []string{"res3", "res1", "res2"}},
		{"sort by title", "/api/faculty/resources?sort=title", []string{"res3", "res2", "res1"}},
		{"combined", "/api/faculty/resources?course=c1&sort=downloads", []string{"res3", "res1"}},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			req, rec := newRequest(http.MethodGet, tc.path)
			env.app.ServeHTTP(rec, req)
			checkCode(t, rec, http.StatusOK)

			var page resourcePage
			unmarshallBody(t, rec, &page)
			gotIDs := make([]string, 0, len(page.Resources))
			for _, res := range page.Resources {
				gotIDs = append(gotIDs, res.ID)
			}
			if fmt.Sprint(gotIDs) != fmt.Sprint(tc.wantIDs) {
				t.Errorf("ids = %v; want %v", gotIDs, tc.wantIDs)
			}
			if len(page.CourseOptions) != 2 {
				t.Errorf("courseOptions = %v; want both courses", page.CourseOptions)
			}
		})
	}

	t.Run("student listing is a plain collection", func(t *testing.T) {
		req, rec := newRequest(http.MethodGet, "/api/resources?courseId=c2")
		env.app.ServeHTTP(rec, req)
		checkCode(t, rec, http.StatusOK)

		var resources []resource.Resource
		unmarshallBody(t, rec, &resources)
		if len(resources) != 1 || resources[0].ID != "res2" {
			t.Errorf("resources = %+v; want res2 only", resources)
		}
	})

	t.Run("course-scoped listing validates the course", func(t *testing.T) {
		req, rec := newRequest(http.MethodGet, "/api/faculty/courses/c1/resources")
		env.app.ServeHTTP(rec, req)
		checkCode(t, rec, http.StatusOK)

		var resources []resource.Resource
		unmarshallBody(t, rec, &resources)
		if len(resources) != 2 {
			t.Errorf("resources = %+v; want the two c1 uploads", resources)
		}

		req, rec = newRequest(http.MethodGet, "/api/faculty/courses/nope/resources")
		env.app.ServeHTTP(rec, req)
		checkCode(t, rec, http.StatusNotFound)
	})
}

func TestResourceCreateAPI(t *testing.T) {
	env := setup(t)

	env.addCourse(t, course.Course{ID: "c1", Code: "CS301", Name: "Data Structures & Algorithms"})
	env.addEnrollment(t, course.Enrollment{ID: "e1", CourseID: "c1", Name: "Aarav Patil", Email: "aarav.patil@example.com", Status: course.StatusEnrolled})

	t.Run("create applies defaults and notifies enrolled students", func(t *testing.T) {
		body := []byte(`{"courseId": "c1", "title": "Week 4 Slides"}`)
		req, rec := newRequest(http.MethodPost, "/api/faculty/resources", body)
		env.app.ServeHTTP(rec, req)
		checkCode(t, rec, http.StatusCreated)

		var res resource.Resource
		unmarshallBody(t, rec, &res)
		if res.FileType != resource.TypeOther {
			t.Errorf("fileType = %q; want %q", res.FileType, resource.TypeOther)
		}
		if res.URL != resource.DefaultURL {
			t.Errorf("url = %q; want %q", res.URL, resource.DefaultURL)
		}
		if res.Downloads != 0 || res.UploadedAt.IsZero() {
			t.Errorf("unexpected resource: %+v", res)
		}

		req, rec = newRequest(http.MethodGet, "/api/notifications?userId=aarav.patil@example.com")
		env.app.ServeHTTP(rec, req)
		checkCode(t, rec, http.StatusOK)
		var feed []notification.Notification
		unmarshallBody(t, rec, &feed)
		if len(feed) != 1 || feed[0].Type != notification.TypeResource {
			t.Errorf("feed = %+v; want one resource notification", feed)
		}
	})

	t.Run("course-scoped create takes the course from the path", func(t *testing.T) {
		body := []byte(`{"title": "Week 5 Slides", "fileType": "ppt"}`)
		req, rec := newRequest(http.MethodPost, "/api/faculty/courses/c1/resources", body)
		env.app.ServeHTTP(rec, req)
		checkCode(t, rec, http.StatusCreated)

		var res resource.Resource
		unmarshallBody(t, rec, &res)
		if res.CourseID != "c1" || res.FileType != resource.TypePPT {
			t.Errorf("unexpected resource: %+v", res)
		}
	})

	t.Run("title is required", func(t *testing.T) {
		body := []byte(`{"courseId": "c1"}`)
		req, rec := newRequest(http.MethodPost, "/api/faculty/resources", body)
		env.app.ServeHTTP(rec, req)
		checkCode(t, rec, http.StatusBadRequest)
	})

	t.Run("unknown file type", func(t *testing.T) {
		body := []byte(`{"courseId": "c1", "title": "X", "fileType": "floppy"}`)
		req, rec := newRequest(http.MethodPost, "/api/faculty/resources", body)
		env.app.ServeHTTP(rec, req)
		checkCode(t, rec, http.StatusBadRequest)
	})
}

func TestResourceUpdateAPI(t *testing.T) {
	env := setup(t)

	env.addCourse(t, course.Course{ID: "c1", Code: "CS301", Name: "Data Structures & Algorithms"})
	res := env.addResource(t, resource.Resource{
		ID: "res1", CourseID: "c1", Title: "Sorting Algorithms Notes",
		Tags: []string{"sorting"}, FileType: resource.TypePDF, URL: "/files/sorting.pdf", Downloads: 120,
	})

	t.Run("patch merges provided fields only", func(t *testing.T) {
		body := []byte(`{"title": "Sorting Notes v2", "tags": ["sorting", "revised"]}`)
		req, rec := newRequest(http.MethodPatch, "/api/faculty/resources/res1", body)
		env.app.ServeHTTP(rec, req)
		checkCode(t, rec, http.StatusOK)

		var got resource.Resource
		unmarshallBody(t, rec, &got)
		if got.Title != "Sorting Notes v2" || len(got.Tags) != 2 {
			t.Errorf("unexpected resource: %+v", got)
		}
		if got.FileType != res.FileType || got.Downloads != res.Downloads {
			t.Errorf("untouched fields changed: %+v", got)
		}
	})

	t.Run("download counter only goes up", func(t *testing.T) {
		req, rec := newRequest(http.MethodPost, "/api/faculty/resources/res1/download")
		env.app.ServeHTTP(rec, req)
		checkCodeAndData(t, httpTest{wantCode: http.StatusOK, wantData: []byte(`{"downloads": 121}`)}, rec)

		req, rec = newRequest(http.MethodPost, "/api/faculty/resources/res1/download")
		env.app.ServeHTTP(rec, req)
		checkCodeAndData(t, httpTest{wantCode: http.StatusOK, wantData: []byte(`{"downloads": 122}`)}, rec)
	})

	t.Run("download: unknown id", func(t *testing.T) {
		req, rec := newRequest(http.MethodPost, "/api/faculty/resources/nope/download")
		env.app.ServeHTTP(rec, req)
		checkCode(t, rec, http.StatusNotFound)
	})

	t.Run("delete", func(t *testing.T) {
		req, rec := newRequest(http.MethodDelete, "/api/faculty/resources/res1")
		env.app.ServeHTTP(rec, req)
		checkCode(t, rec, http.StatusNoContent)

		req, rec = newRequest(http.MethodDelete, "/api/faculty/resources/res1")
		env.app.ServeHTTP(rec, req)
		checkCode(t, rec, http.StatusNotFound)
	})
}
