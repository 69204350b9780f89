package inmemdb

import (
	"sync"

	"github.com/kitcoek/eduforum/core/announcement"
	"github.com/kitcoek/eduforum/core/course"
	"github.com/kitcoek/eduforum/core/forum"
	"github.com/kitcoek/eduforum/core/notification"
	"github.com/kitcoek/eduforum/core/profile"
	"github.com/kitcoek/eduforum/core/resource"
)

type (
	// DB is an in-process keyed store. It is constructed explicitly at
	// process start and passed into repositories; seeding is the caller's
	// concern, never lazy.
	DB struct {
		course       *courseTable
		enrollment   *enrollmentTable
		thread       *threadTable
		reply        *replyTable
		announcement *announcementTable
		resource     *resourceTable
		student      *studentTable
		faculty      *facultyTable
		notification *notificationTable
	}

	courseTable struct {
		sync.RWMutex
		table map[string]*course.Course
	}

	enrollmentTable struct {
		sync.RWMutex
		table map[string]*course.Enrollment
	}

	threadTable struct {
		sync.RWMutex
		table map[string]*forum.Thread
	}

	replyTable struct {
		sync.RWMutex
		table map[string]*forum.Reply
	}

	announcementTable struct {
		sync.RWMutex
		table map[string]*announcement.Announcement
	}

	resourceTable struct {
		sync.RWMutex
		table map[string]*resource.Resource
	}

	studentTable struct {
		sync.RWMutex
		table map[string]*profile.Student
	}

	facultyTable struct {
		sync.RWMutex
		table map[string]*profile.Faculty
	}

	notificationTable struct {
		sync.RWMutex
		table map[string]*notification.Notification
	}
)

func Open() (*DB, error) {
	db := &DB{
		course:       &courseTable{table: make(map[string]*course.Course)},
		enrollment:   &enrollmentTable{table: make(map[string]*course.Enrollment)},
		thread:       &threadTable{table: make(map[string]*forum.Thread)},
		reply:        &replyTable{table: make(map[string]*forum.Reply)},
		announcement: &announcementTable{table: make(map[string]*announcement.Announcement)},
		resource:     &resourceTable{table: make(map[string]*resource.Resource)},
		student:      &studentTable{table: make(map[string]*profile.Student)},
		faculty:      &facultyTable{table: make(map[string]*profile.Faculty)},
		notification: &notificationTable{table: make(map[string]*notification.Notification)},
	}
	return db, nil
}
