package echoapi

import (
	"context"
	"net/http"
	"testing"

	"github.com/kitcoek/eduforum/core/course"
	"github.com/kitcoek/eduforum/core/profile"
)

func TestStudentProfileAPI(t *testing.T) {
	env := setup(t)

	env.addCourse(t, course.Course{ID: "c1", Code: "CS301", Name: "Data Structures & Algorithms"})

	var created profile.Student

	t.Run("create", func(t *testing.T) {
		body := []byte(`{"name": "Aarav Patil", "email": "Aarav.Patil@example.com", "prn": "22010001", "department": "Computer Science", "year": "TY"}`)
		req, rec := newRequest(http.MethodPost, "/api/profile/student", body)
		env.app.ServeHTTP(rec, req)
		checkCode(t, rec, http.StatusCreated)

		unmarshallBody(t, rec, &created)
		if created.ID == "" {
			t.Fatal("expected a generated id")
		}
		if created.Email != "aarav.patil@example.com" {
			t.Errorf("email = %q; want it lowercased", created.Email)
		}
		if len(created.EnrolledCourseIDs) != 0 || created.ForumActivity != (profile.ForumActivity{}) {
			t.Errorf("derived fields must start empty: %+v", created)
		}
	})

	t.Run("create again upserts by email", func(t *testing.T) {
		body := []byte(`{"name": "Aarav S. Patil", "email": "aarav.patil@example.com", "prn": "22010001", "department": "Computer Science", "year": "BE"}`)
		req, rec := newRequest(http.MethodPost, "/api/profile/student", body)
		env.app.ServeHTTP(rec, req)
		checkCode(t, rec, http.StatusCreated)

		var st profile.Student
		unmarshallBody(t, rec, &st)
		if st.ID != created.ID {
			t.Errorf("id = %q; want the original %q", st.ID, created.ID)
		}
		if st.Name != "Aarav S. Patil" || st.Year != "BE" {
			t.Errorf("unexpected profile: %+v", st)
		}
	})

	t.Run("create: prn must be 8 digits", func(t *testing.T) {
		body := []byte(`{"name": "X", "email": "x@example.com", "prn": "22-01", "department": "CS", "year": "TY"}`)
		req, rec := newRequest(http.MethodPost, "/api/profile/student", body)
		env.app.ServeHTTP(rec, req)
		checkCode(t, rec, http.StatusBadRequest)
	})

	t.Run("retrieve by email", func(t *testing.T) {
		req, rec := newRequest(http.MethodGet, "/api/profile/student?email=aarav.patil@example.com")
		env.app.ServeHTTP(rec, req)
		checkCode(t, rec, http.StatusOK)

		var data struct {
			Profile profile.Student `json:"profile"`
			Courses []course.Course `json:"courses"`
		}
		unmarshallBody(t, rec, &data)
		if data.Profile.ID != created.ID {
			t.Errorf("profile = %+v; want %s", data.Profile, created.ID)
		}
		if len(data.Courses) != 0 {
			t.Errorf("courses = %+v; want none yet", data.Courses)
		}
	})

	t.Run("id takes precedence over email", func(t *testing.T) {
		req, rec := newRequest(http.MethodGet, "/api/profile/student?id="+created.ID+"&email=ghost@example.com")
		env.app.ServeHTTP(rec, req)
		checkCode(t, rec, http.StatusOK)
	})

	t.Run("id or email is required", func(t *testing.T) {
		req, rec := newRequest(http.MethodGet, "/api/profile/student")
		env.app.ServeHTTP(rec, req)
		checkCodeAndData(t, httpTest{
			wantCode: http.StatusBadRequest,
			wantData: marchallObj(t, httpErr{Error: "id or email is required"}),
		}, rec)
	})

	t.Run("unknown profile", func(t *testing.T) {
		req, rec := newRequest(http.MethodGet, "/api/profile/student?email=ghost@example.com")
		env.app.ServeHTTP(rec, req)
		checkCode(t, rec, http.StatusNotFound)
	})

	t.Run("patch merges provided fields only", func(t *testing.T) {
		body := []byte(`{"phone": "+91 98200 00000"}`)
		req, rec := newRequest(http.MethodPatch, "/api/profile/student?email=aarav.patil@example.com", body)
		env.app.ServeHTTP(rec, req)
		checkCode(t, rec, http.StatusOK)

		var st profile.Student
		unmarshallBody(t, rec, &st)
		if !st.Phone.Valid || st.Phone.String != "+91 98200 00000" {
			t.Errorf("phone = %+v", st.Phone)
		}
		if st.Name != "Aarav S. Patil" || st.PRN != "22010001" {
			t.Errorf("untouched fields changed: %+v", st)
		}
	})

	t.Run("patch rejects a malformed prn", func(t *testing.T) {
		body := []byte(`{"prn": "nope"}`)
		req, rec := newRequest(http.MethodPatch, "/api/profile/student?email=aarav.patil@example.com", body)
		env.app.ServeHTTP(rec, req)
		checkCode(t, rec, http.StatusBadRequest)
	})

	t.Run("enrollments reflect the stored course ids", func(t *testing.T) {
		st, err := env.profRepo.GetStudent(context.Background(), profile.GetFilter{ID: created.ID})
		if err != nil {
			t.Fatalf("GetStudent(): %v", err)
		}
		st.EnrolledCourseIDs = []string{"c1"}
		if _, err = env.profRepo.UpdateStudent(context.Background(), st); err != nil {
			t.Fatalf("UpdateStudent(): %v", err)
		}

		req, rec := newRequest(http.MethodGet, "/api/student/enrollments?email=aarav.patil@example.com")
		env.app.ServeHTTP(rec, req)
		checkCode(t, rec, http.StatusOK)

		var courses []course.Course
		unmarshallBody(t, rec, &courses)
		if len(courses) != 1 || courses[0].ID != "c1" {
			t.Errorf("courses = %+v; want c1", courses)
		}
	})
}

func TestFacultyProfileAPI(t *testing.T) {
	env := setup(t)

	var created profile.Faculty

	t.Run("create requires an institutional email", func(t *testing.T) {
		body := []byte(`{"name": "Priya Deshmukh", "email": "priya.deshmukh@gmail.com", "department": "Computer Science", "designation": "Professor"}`)
		req, rec := newRequest(http.MethodPost, "/api/profile/faculty", body)
		env.app.ServeHTTP(rec, req)
		checkCode(t, rec, http.StatusBadRequest)
	})

	t.Run("create", func(t *testing.T) {
		body := []byte(`{"name": "Priya Deshmukh", "email": "priya.deshmukh@kitcoek.in", "department": "Computer Science", "designation": "Professor"}`)
		req, rec := newRequest(http.MethodPost, "/api/profile/faculty", body)
		env.app.ServeHTTP(rec, req)
		checkCode(t, rec, http.StatusCreated)

		unmarshallBody(t, rec, &created)
		if created.ID == "" || created.Email != "priya.deshmukh@kitcoek.in" {
			t.Errorf("unexpected profile: %+v", created)
		}
		if created.Stats != (profile.FacultyStats{}) {
			t.Errorf("stats must start empty: %+v", created.Stats)
		}
	})

	t.Run("create again upserts by email", func(t *testing.T) {
		body := []byte(`{"name": "Dr. Priya Deshmukh", "email": "priya.deshmukh@kitcoek.in", "department": "Computer Science", "designation": "HoD"}`)
		req, rec := newRequest(http.MethodPost, "/api/profile/faculty", body)
		env.app.ServeHTTP(rec, req)
		checkCode(t, rec, http.StatusCreated)

		var fac profile.Faculty
		unmarshallBody(t, rec, &fac)
		if fac.ID != created.ID {
			t.Errorf("id = %q; want the original %q", fac.ID, created.ID)
		}
		if fac.Designation != "HoD" {
			t.Errorf("designation = %q; want HoD", fac.Designation)
		}
	})

	t.Run("retrieve", func(t *testing.T) {
		req, rec := newRequest(http.MethodGet, "/api/profile/faculty?email=priya.deshmukh@kitcoek.in")
		env.app.ServeHTTP(rec, req)
		checkCode(t, rec, http.StatusOK)

		var data struct {
			Profile profile.Faculty `json:"profile"`
		}
		unmarshallBody(t, rec, &data)
		if data.Profile.ID != created.ID {
			t.Errorf("profile = %+v; want %s", data.Profile, created.ID)
		}
	})

	t.Run("patch rejects a non-institutional email", func(t *testing.T) {
		body := []byte(`{"email": "priya@gmail.com"}`)
		req, rec := newRequest(http.MethodPatch, "/api/profile/faculty?email=priya.deshmukh@kitcoek.in", body)
		env.app.ServeHTTP(rec, req)
		checkCode(t, rec, http.StatusBadRequest)
	})

	t.Run("patch merges provided fields only", func(t *testing.T) {
		body := []byte(`{"office": "Block B-204"}`)
		req, rec := newRequest(http.MethodPatch, "/api/profile/faculty?email=priya.deshmukh@kitcoek.in", body)
		env.app.ServeHTTP(rec, req)
		checkCode(t, rec, http.StatusOK)

		var fac profile.Faculty
		unmarshallBody(t, rec, &fac)
		if !fac.Office.Valid || fac.Office.String != "Block B-204" {
			t.Errorf("office = %+v", fac.Office)
		}
		if fac.Designation != "HoD" {
			t.Errorf("untouched fields changed: %+v", fac)
		}
	})

	t.Run("stats", func(t *testing.T) {
		fac, err := env.profRepo.GetFaculty(context.Background(), profile.GetFilter{ID: created.ID})
		if err != nil {
			t.Fatalf("GetFaculty(): %v", err)
		}
		fac.Stats = profile.FacultyStats{StudentsManaged: 120, ResourcesUploaded: 14, AnnouncementsMade: 9, PostsVerified: 31}
		if _, err = env.profRepo.UpdateFaculty(context.Background(), fac); err != nil {
			t.Fatalf("UpdateFaculty(): %v", err)
		}

		req, rec := newRequest(http.MethodGet, "/api/faculty/stats?email=priya.deshmukh@kitcoek.in")
		env.app.ServeHTTP(rec, req)
		checkCodeAndData(t, httpTest{
			wantCode: http.StatusOK,
			wantData: []byte(`{"stats": {"studentsManaged": 120, "resourcesUploaded": 14, "announcementsMade": 9, "postsVerified": 31}}`),
		}, rec)
	})
}
