// Package seed loads a demo dataset through the repository interfaces so it
// works against any storage engine.
package seed

import (
	"context"
	"time"

	"github.com/pkg/errors"
	"github.com/volatiletech/null/v8"

	"github.com/kitcoek/eduforum/core/announcement"
	"github.com/kitcoek/eduforum/core/course"
	"github.com/kitcoek/eduforum/core/forum"
	"github.com/kitcoek/eduforum/core/profile"
	"github.com/kitcoek/eduforum/core/resource"
)

// Repos collects the repositories the demo dataset writes through.
type Repos struct {
	Courses       course.Repository
	Forum         forum.Repository
	Announcements announcement.Repository
	Resources     resource.Repository
	Profiles      profile.Repository
}

// Load inserts the demo dataset. It is not idempotent; run it against an
// empty store only.
func Load(ctx context.Context, repos Repos) error {
	now := time.Now().UTC()

	cs301, err := repos.Courses.CreateCourse(ctx, course.Course{
		ID:          "c1",
		Code:        "CS301",
		Name:        "Data Structures & Algorithms",
		Instructor:  "Dr. Priya Deshmukh",
		Description: "Core data structures, algorithm design and complexity analysis.",
		Students:    52,
		Progress:    65,
		NextClass:   "Mon 10:00",
		CreatedAt:   now.Add(-90 * 24 * time.Hour),
		UpdatedAt:   now.Add(-2 * 24 * time.Hour),
	})
	if err != nil {
		return errors.Wrap(err, "seeding courses")
	}
	cs402, err := repos.Courses.CreateCourse(ctx, course.Course{
		ID:          "c2",
		Code:        "CS402",
		Name:        "Database Management Systems",
		Instructor:  "Prof. Anil Kulkarni",
		Description: "Relational modeling, SQL, transactions and indexing.",
		Students:    48,
		Progress:    40,
		NextClass:   "Tue 14:00",
		CreatedAt:   now.Add(-80 * 24 * time.Hour),
		UpdatedAt:   now.Add(-5 * 24 * time.Hour),
	})
	if err != nil {
		return errors.Wrap(err, "seeding courses")
	}
	cs350, err := repos.Courses.CreateCourse(ctx, course.Course{
		ID:          "c3",
		Code:        "CS350",
		Name:        "Operating Systems",
		Instructor:  "Dr. Priya Deshmukh",
		Description: "Processes, scheduling, memory management and file systems.",
		Students:    50,
		Progress:    55,
		NextClass:   "Wed 11:00",
		CreatedAt:   now.Add(-85 * 24 * time.Hour),
		UpdatedAt:   now.Add(-1 * 24 * time.Hour),
	})
	if err != nil {
		return errors.Wrap(err, "seeding courses")
	}

	enrollments := []course.Enrollment{
		{ID: "e1", CourseID: cs301.ID, Name: "Aarav Patil", Email: "aarav.patil@example.com", PRN: null.StringFrom("22010001"), Status: course.StatusEnrolled},
		{ID: "e2", CourseID: cs301.ID, Name: "Sneha Joshi", Email: "sneha.joshi@example.com", PRN: null.StringFrom("22010002"), Status: course.StatusEnrolled},
		{ID: "e3", CourseID: cs301.ID, Name: "Rohan Shinde", Email: "rohan.shinde@example.com", PRN: null.StringFrom("22010003"), Status: course.StatusPending},
		{ID: "e4", CourseID: cs402.ID, Name: "Aarav Patil", Email: "aarav.patil@example.com", PRN: null.StringFrom("22010001"), Status: course.StatusEnrolled},
		{ID: "e5", CourseID: cs350.ID, Name: "Sneha Joshi", Email: "sneha.joshi@example.com", PRN: null.StringFrom("22010002"), Status: course.StatusPending},
	}
	for _, enr := range enrollments {
		if _, err = repos.Courses.CreateEnrollment(ctx, enr); err != nil {
			return errors.Wrap(err, "seeding enrollments")
		}
	}

	thread1, err := repos.Forum.CreateThread(ctx, forum.Thread{
		ID:        "t1",
		CourseID:  cs301.ID,
		Title:     "How does quicksort behave on sorted input?",
		Content:   "The worst case seems to be O(n^2) with a naive pivot. How do we avoid it?",
		Author:    "Aarav Patil",
		AuthorID:  "aarav.patil@example.com",
		Tags:      []string{"sorting", "complexity"},
		Upvotes:   4,
		CreatedAt: now.Add(-72 * time.Hour),
	})
	if err != nil {
		return errors.Wrap(err, "seeding threads")
	}
	_, err = repos.Forum.CreateThread(ctx, forum.Thread{
		ID:        "t2",
		CourseID:  cs402.ID,
		Title:     "Difference between 2NF and 3NF?",
		Content:   "Both remove partial dependencies, what exactly does 3NF add?",
		Author:    "Sneha Joshi",
		AuthorID:  "sneha.joshi@example.com",
		Tags:      []string{"normalization"},
		Upvotes:   2,
		CreatedAt: now.Add(-48 * time.Hour),
	})
	if err != nil {
		return errors.Wrap(err, "seeding threads")
	}

	reply1, err := repos.Forum.CreateReply(ctx, forum.Reply{
		ID:        "r1",
		ThreadID:  thread1.ID,
		Author:    "Sneha Joshi",
		AuthorID:  "sneha.joshi@example.com",
		Content:   "Pick the pivot at random, or use median-of-three.",
		Upvotes:   3,
		Status:    forum.StatusNormal,
		CreatedAt: now.Add(-70 * time.Hour),
	})
	if err != nil {
		return errors.Wrap(err, "seeding replies")
	}
	_, err = repos.Forum.CreateReply(ctx, forum.Reply{
		ID:        "r2",
		ThreadID:  thread1.ID,
		Author:    "Rohan Shinde",
		AuthorID:  "rohan.shinde@example.com",
		Content:   "Sorting the input first always avoids the worst case.",
		Downvotes: 2,
		Status:    forum.StatusIncorrect,
		CreatedAt: now.Add(-69 * time.Hour),
	})
	if err != nil {
		return errors.Wrap(err, "seeding replies")
	}
	if err = repos.Forum.SetVerifiedAnswer(ctx, thread1.ID, null.StringFrom(reply1.ID)); err != nil {
		return errors.Wrap(err, "seeding replies")
	}

	announcements := []announcement.Announcement{
		{
			ID:        "an1",
			Title:     "Mid-semester exam schedule",
			Content:   "The mid-semester exams start on the 15th. The detailed timetable is on the notice board.",
			CourseIDs: []string{cs301.ID, cs402.ID},
			Pinned:    true,
			CreatedAt: now.Add(-96 * time.Hour),
			UpdatedAt: now.Add(-96 * time.Hour),
		},
		{
			ID:          "an2",
			Title:       "Guest lecture on query optimization",
			Content:     "An industry guest lecture is scheduled for next Friday in the seminar hall.",
			CourseIDs:   []string{cs402.ID},
			ScheduledAt: null.TimeFrom(now.Add(7 * 24 * time.Hour)),
			CreatedAt:   now.Add(-24 * time.Hour),
			UpdatedAt:   now.Add(-24 * time.Hour),
		},
	}
	for _, ann := range announcements {
		if _, err = repos.Announcements.CreateAnnouncement(ctx, ann); err != nil {
			return errors.Wrap(err, "seeding announcements")
		}
	}

	resources := []resource.Resource{
		{
			ID:          "res1",
			CourseID:    cs301.ID,
			Title:       "Sorting algorithms cheat sheet",
			Description: "One-page summary of comparison sorts with complexities.",
			Tags:        []string{"sorting", "revision"},
			FileType:    resource.TypePDF,
			URL:         "/files/sorting-cheat-sheet.pdf",
			UploadedAt:  now.Add(-60 * time.Hour),
			Downloads:   120,
		},
		{
			ID:          "res2",
			CourseID:    cs402.ID,
			Title:       "SQL practice set",
			Description: "Join and aggregation exercises with sample schemas.",
			Tags:        []string{"sql", "practice"},
			FileType:    resource.TypeDoc,
			URL:         "/files/sql-practice.docx",
			UploadedAt:  now.Add(-30 * time.Hour),
			Downloads:   85,
		},
	}
	for _, res := range resources {
		if _, err = repos.Resources.CreateResource(ctx, res); err != nil {
			return errors.Wrap(err, "seeding resources")
		}
	}

	_, err = repos.Profiles.UpsertStudent(ctx, profile.Student{
		Name:              "Aarav Patil",
		Email:             "aarav.patil@example.com",
		PRN:               "22010001",
		Department:        "Computer Science",
		Year:              "Third Year",
		Phone:             null.StringFrom("+91 9800000001"),
		EnrolledCourseIDs: []string{cs301.ID, cs402.ID},
		ForumActivity:     profile.ForumActivity{Posts: 5, Replies: 12, Upvotes: 23},
	})
	if err != nil {
		return errors.Wrap(err, "seeding profiles")
	}
	_, err = repos.Profiles.UpsertFaculty(ctx, profile.Faculty{
		Name:             "Dr. Priya Deshmukh",
		Email:            "priya.deshmukh@kitcoek.in",
		Department:       "Computer Science",
		Designation:      "Associate Professor",
		Phone:            null.StringFrom("+91 9800000100"),
		Office:           null.StringFrom("Block A, Room 204"),
		ManagedCourseIDs: []string{cs301.ID, cs350.ID},
		Stats: profile.FacultyStats{
			StudentsManaged:   102,
			ResourcesUploaded: 14,
			AnnouncementsMade: 9,
			PostsVerified:     31,
		},
	})
	return errors.Wrap(err, "seeding profiles")
}
