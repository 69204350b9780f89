package echoapi

import (
	"net/http"
	"testing"
	"time"

	"github.com/volatiletech/null/v8"

	"github.com/kitcoek/eduforum/core/course"
	"github.com/kitcoek/eduforum/core/forum"
	"github.com/kitcoek/eduforum/core/notification"
)

func threadFixture(id, courseID, title string) forum.Thread {
	return forum.Thread{
		ID:        id,
		CourseID:  courseID,
		Title:     title,
		Content:   "Could someone explain this?",
		Author:    "Aarav Patil",
		AuthorID:  "aarav.patil@example.com",
		Tags:      []string{"exam"},
		CreatedAt: time.Date(2026, 3, 1, 10, 0, 0, 0, time.UTC),
	}
}

func replyFixture(id, threadID, content string) forum.Reply {
	return forum.Reply{
		ID:        id,
		ThreadID:  threadID,
		Author:    "Sneha Joshi",
		AuthorID:  "sneha.joshi@example.com",
		Content:   content,
		Status:    forum.StatusNormal,
		CreatedAt: time.Date(2026, 3, 1, 11, 0, 0, 0, time.UTC),
	}
}

func TestForumThreadsAPI(t *testing.T) {
	env := setup(t)

	env.addCourse(t, course.Course{ID: "c1", Code: "CS301", Name: "Data Structures & Algorithms"})
	env.addCourse(t, course.Course{ID: "c2", Code: "CS402", Name: "Database Management Systems"})

	older := threadFixture("t1", "c1", "Quicksort worst case")
	older.CreatedAt = time.Date(2026, 3, 1, 9, 0, 0, 0, time.UTC)
	older = env.addThread(t, older)

	newer := threadFixture("t2", "c2", "2NF vs 3NF")
	newer.CreatedAt = time.Date(2026, 3, 2, 9, 0, 0, 0, time.UTC)
	newer.VerifiedAnswerID = null.StringFrom("r1")
	newer = env.addThread(t, newer)
	env.addReply(t, replyFixture("r1", "t2", "A relation in 3NF has no transitive dependencies."))

	wantNewer := forum.ThreadInfo{Thread: newer, Replies: 1, HasVerifiedAnswer: true}
	wantOlder := forum.ThreadInfo{Thread: older, Replies: 0, HasVerifiedAnswer: false}

	tests := []httpTest{
		{
			name:     "list: newest first with counters",
			method:   http.MethodGet,
			path:     "/api/forums",
			wantCode: http.StatusOK,
			wantData: marchallList(t, wantNewer, wantOlder),
		},
		{
			name:     "list: filtered by course",
			method:   http.MethodGet,
			path:     "/api/forums?courseId=c1",
			wantCode: http.StatusOK,
			wantData: marchallList(t, wantOlder),
		},
		{
			name:     "faculty list validates the course",
			method:   http.MethodGet,
			path:     "/api/faculty/courses/c2/forums",
			wantCode: http.StatusOK,
			wantData: marchallList(t, wantNewer),
		},
		{
			name:     "faculty list: unknown course",
			method:   http.MethodGet,
			path:     "/api/faculty/courses/nope/forums",
			wantCode: http.StatusNotFound,
		},
		{
			name:     "create: title is required",
			method:   http.MethodPost,
			path:     "/api/forums",
			body:     []byte(`{"courseId": "c1", "content": "hi", "author": "Aarav Patil"}`),
			wantCode: http.StatusBadRequest,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req, rec := newRequest(tt.method, tt.path, tt.body)
			env.app.ServeHTTP(rec, req)
			checkCodeAndData(t, tt, rec)
		})
	}

	t.Run("create", func(t *testing.T) {
		body := []byte(`{"courseId": "c1", "title": "AVL rotations", "content": "When is a double rotation needed?", "author": "Sneha Joshi", "tags": ["trees"]}`)
		req, rec := newRequest(http.MethodPost, "/api/forums", body)
		env.app.ServeHTTP(rec, req)
		checkCode(t, rec, http.StatusCreated)

		var info forum.ThreadInfo
		unmarshallBody(t, rec, &info)
		if info.ID == "" || info.Title != "AVL rotations" || info.Replies != 0 {
			t.Errorf("unexpected thread: %+v", info)
		}
		if info.HasVerifiedAnswer {
			t.Error("new thread cannot have a verified answer")
		}
	})
}

func TestForumRepliesAPI(t *testing.T) {
	env := setup(t)

	env.addCourse(t, course.Course{ID: "c1", Code: "CS301", Name: "Data Structures & Algorithms"})
	thr := threadFixture("t1", "c1", "Quicksort worst case")
	thr.VerifiedAnswerID = null.StringFrom("r2")
	env.addThread(t, thr)

	first := replyFixture("r1", "t1", "Already sorted input degrades to O(n^2).")
	first.CreatedAt = time.Date(2026, 3, 1, 11, 0, 0, 0, time.UTC)
	env.addReply(t, first)

	second := replyFixture("r2", "t1", "Pick the pivot at random to avoid it.")
	second.CreatedAt = time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	env.addReply(t, second)

	t.Run("verified answer is served first", func(t *testing.T) {
		req, rec := newRequest(http.MethodGet, "/api/forums/t1")
		env.app.ServeHTTP(rec, req)
		checkCode(t, rec, http.StatusOK)

		var data struct {
			Thread  forum.Thread  `json:"thread"`
			Replies []forum.Reply `json:"replies"`
		}
		unmarshallBody(t, rec, &data)
		if data.Thread.ID != "t1" {
			t.Fatalf("thread = %+v", data.Thread)
		}
		if len(data.Replies) != 2 {
			t.Fatalf("replies = %d; want 2", len(data.Replies))
		}
		if data.Replies[0].ID != "r2" || data.Replies[0].Status != forum.StatusVerified {
			t.Errorf("head reply = %+v; want r2 verified", data.Replies[0])
		}
		if data.Replies[1].ID != "r1" || data.Replies[1].Status != forum.StatusNormal {
			t.Errorf("tail reply = %+v; want r1 normal", data.Replies[1])
		}
	})

	t.Run("add reply notifies the thread author", func(t *testing.T) {
		body := []byte(`{"author": "Rohan Shinde", "content": "Median-of-three also works."}`)
		req, rec := newRequest(http.MethodPost, "/api/forums/t1", body)
		env.app.ServeHTTP(rec, req)
		checkCode(t, rec, http.StatusCreated)

		var rpl forum.Reply
		unmarshallBody(t, rec, &rpl)
		if rpl.ID == "" || rpl.ThreadID != "t1" || rpl.Status != forum.StatusNormal {
			t.Errorf("unexpected reply: %+v", rpl)
		}

		req, rec = newRequest(http.MethodGet, "/api/notifications?userId=aarav.patil@example.com")
		env.app.ServeHTTP(rec, req)
		checkCode(t, rec, http.StatusOK)

		var feed []notification.Notification
		unmarshallBody(t, rec, &feed)
		if len(feed) != 1 || feed[0].Type != notification.TypeReply {
			t.Errorf("feed = %+v; want one reply notification", feed)
		}
	})

	t.Run("vote", func(t *testing.T) {
		req, rec := newRequest(http.MethodPost, "/api/forums/t1/replies/r1/vote", []byte(`{"voteType": "up"}`))
		env.app.ServeHTTP(rec, req)
		checkCode(t, rec, http.StatusOK)

		var rpl forum.Reply
		unmarshallBody(t, rec, &rpl)
		if rpl.Upvotes != 1 || rpl.Downvotes != 0 {
			t.Errorf("votes = %d/%d; want 1/0", rpl.Upvotes, rpl.Downvotes)
		}

		req, rec = newRequest(http.MethodPost, "/api/forums/t1/replies/r1/vote", []byte(`{"voteType": "down"}`))
		env.app.ServeHTTP(rec, req)
		checkCode(t, rec, http.StatusOK)
		unmarshallBody(t, rec, &rpl)
		if rpl.Upvotes != 1 || rpl.Downvotes != 1 {
			t.Errorf("votes = %d/%d; want 1/1", rpl.Upvotes, rpl.Downvotes)
		}
	})

	t.Run("vote: bad type", func(t *testing.T) {
		req, rec := newRequest(http.MethodPost, "/api/forums/t1/replies/r1/vote", []byte(`{"voteType": "sideways"}`))
		env.app.ServeHTTP(rec, req)
		checkCode(t, rec, http.StatusBadRequest)
	})

	t.Run("add reply: unknown thread", func(t *testing.T) {
		body := []byte(`{"author": "Rohan Shinde", "content": "hello"}`)
		req, rec := newRequest(http.MethodPost, "/api/forums/nope", body)
		env.app.ServeHTTP(rec, req)
		checkCode(t, rec, http.StatusNotFound)
	})
}

func TestForumModerationAPI(t *testing.T) {
	env := setup(t)

	env.addCourse(t, course.Course{ID: "c1", Code: "CS301", Name: "Data Structures & Algorithms"})
	env.addThread(t, threadFixture("t1", "c1", "Quicksort worst case"))
	env.addReply(t, replyFixture("r1", "t1", "Already sorted input degrades to O(n^2)."))

	t.Run("verify sets the pointer and notifies the reply author", func(t *testing.T) {
		body := []byte(`{"action": "verify", "courseId": "c1", "threadId": "t1"}`)
		req, rec := newRequest(http.MethodPatch, "/api/faculty/forums/answers/r1", body)
		env.app.ServeHTTP(rec, req)
		checkCode(t, rec, http.StatusOK)

		var data struct {
			Reply            forum.Reply `json:"reply"`
			VerifiedAnswerID null.String `json:"verifiedAnswerId"`
		}
		unmarshallBody(t, rec, &data)
		if data.Reply.Status != forum.StatusVerified {
			t.Errorf("reply status = %q; want verified", data.Reply.Status)
		}
		if !data.VerifiedAnswerID.Valid || data.VerifiedAnswerID.String != "r1" {
			t.Errorf("verifiedAnswerId = %+v; want r1", data.VerifiedAnswerID)
		}

		req, rec = newRequest(http.MethodGet, "/api/notifications?userId=sneha.joshi@example.com")
		env.app.ServeHTTP(rec, req)
		checkCode(t, rec, http.StatusOK)
		var feed []notification.Notification
		unmarshallBody(t, rec, &feed)
		if len(feed) != 1 || feed[0].Type != notification.TypeVerified {
			t.Errorf("feed = %+v; want one verified notification", feed)
		}
	})

	t.Run("incorrect on the verified answer clears the pointer", func(t *testing.T) {
		body := []byte(`{"action": "incorrect", "courseId": "c1", "threadId": "t1"}`)
		req, rec := newRequest(http.MethodPatch, "/api/faculty/forums/answers/r1", body)
		env.app.ServeHTTP(rec, req)
		checkCode(t, rec, http.StatusOK)

		var data struct {
			Reply            forum.Reply `json:"reply"`
			VerifiedAnswerID null.String `json:"verifiedAnswerId"`
		}
		unmarshallBody(t, rec, &data)
		if data.Reply.Status != forum.StatusIncorrect {
			t.Errorf("reply status = %q; want incorrect", data.Reply.Status)
		}
		if data.VerifiedAnswerID.Valid {
			t.Errorf("verifiedAnswerId = %+v; want cleared", data.VerifiedAnswerID)
		}
	})

	t.Run("course mismatch reads as not found", func(t *testing.T) {
		body := []byte(`{"action": "verify", "courseId": "c999", "threadId": "t1"}`)
		req, rec := newRequest(http.MethodPatch, "/api/faculty/forums/answers/r1", body)
		env.app.ServeHTTP(rec, req)
		checkCode(t, rec, http.StatusNotFound)
	})

	t.Run("posting a verified answer pins it to the head", func(t *testing.T) {
		body := []byte(`{"courseId": "c1", "content": "Randomized pivots give expected O(n log n).", "author": "Dr. Priya Deshmukh"}`)
		req, rec := newRequest(http.MethodPost, "/api/faculty/forums/t1/verified-answer", body)
		env.app.ServeHTTP(rec, req)
		checkCode(t, rec, http.StatusCreated)

		var rpl forum.Reply
		unmarshallBody(t, rec, &rpl)
		if rpl.Status != forum.StatusVerified {
			t.Errorf("reply status = %q; want verified", rpl.Status)
		}

		req, rec = newRequest(http.MethodGet, "/api/forums/t1")
		env.app.ServeHTTP(rec, req)
		checkCode(t, rec, http.StatusOK)
		var data struct {
			Replies []forum.Reply `json:"replies"`
		}
		unmarshallBody(t, rec, &data)
		if len(data.Replies) == 0 || data.Replies[0].ID != rpl.ID {
			t.Errorf("head reply = %+v; want %s first", data.Replies, rpl.ID)
		}
	})

	t.Run("delete requires courseId and threadId", func(t *testing.T) {
		req, rec := newRequest(http.MethodDelete, "/api/faculty/forums/answers/r1")
		env.app.ServeHTTP(rec, req)
		checkCode(t, rec, http.StatusBadRequest)
	})

	t.Run("deleting the verified answer clears the pointer", func(t *testing.T) {
		env.addThread(t, threadFixture("t2", "c1", "Heap vs BST"))
		rpl := env.addReply(t, replyFixture("r9", "t2", "Heaps for priority queues."))
		body := []byte(`{"action": "verify", "courseId": "c1", "threadId": "t2"}`)
		req, rec := newRequest(http.MethodPatch, "/api/faculty/forums/answers/r9", body)
		env.app.ServeHTTP(rec, req)
		checkCode(t, rec, http.StatusOK)

		req, rec = newRequest(http.MethodDelete, "/api/faculty/forums/answers/"+rpl.ID+"?courseId=c1&threadId=t2")
		env.app.ServeHTTP(rec, req)
		checkCode(t, rec, http.StatusNoContent)

		req, rec = newRequest(http.MethodGet, "/api/forums/t2")
		env.app.ServeHTTP(rec, req)
		checkCode(t, rec, http.StatusOK)
		var data struct {
			Thread  forum.Thread  `json:"thread"`
			Replies []forum.Reply `json:"replies"`
		}
		unmarshallBody(t, rec, &data)
		if data.Thread.VerifiedAnswerID.Valid {
			t.Errorf("verifiedAnswerId = %+v; want cleared", data.Thread.VerifiedAnswerID)
		}
		if len(data.Replies) != 0 {
			t.Errorf("replies = %+v; want none", data.Replies)
		}
	})
}
