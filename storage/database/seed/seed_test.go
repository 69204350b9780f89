package seed

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kitcoek/eduforum/core/announcement"
	"github.com/kitcoek/eduforum/core/forum"
	"github.com/kitcoek/eduforum/core/profile"
	"github.com/kitcoek/eduforum/core/resource"
	inmemdb "github.com/kitcoek/eduforum/storage/database/inmem"
)

func TestLoad(t *testing.T) {
	db, err := inmemdb.Open()
	require.NoError(t, err)

	repos := Repos{
		Courses:       inmemdb.NewCourseRepository(db),
		Forum:         inmemdb.NewForumRepository(db),
		Announcements: inmemdb.NewAnnouncementRepository(db),
		Resources:     inmemdb.NewResourceRepository(db),
		Profiles:      inmemdb.NewProfileRepository(db),
	}
	ctx := context.Background()
	require.NoError(t, Load(ctx, repos))

	courses, err := repos.Courses.QueryCourses(ctx)
	require.NoError(t, err)
	assert.Len(t, courses, 3)

	// the roster mixes enrolled and pending entries
	roster, err := repos.Courses.QueryEnrollments(ctx, "c1")
	require.NoError(t, err)
	assert.Len(t, roster, 3)
	enrolled, err := repos.Courses.QueryEnrolledStudents(ctx, []string{"c1"})
	require.NoError(t, err)
	assert.Len(t, enrolled, 2)

	threads, err := repos.Forum.QueryThreads(ctx, "")
	require.NoError(t, err)
	assert.Len(t, threads, 2)

	// t1 carries a verified answer and an incorrect reply
	thr, err := repos.Forum.GetThread(ctx, "t1")
	require.NoError(t, err)
	require.True(t, thr.VerifiedAnswerID.Valid)
	assert.Equal(t, "r1", thr.VerifiedAnswerID.String)

	rpl, err := repos.Forum.GetReply(ctx, "t1", "r2")
	require.NoError(t, err)
	assert.Equal(t, forum.StatusIncorrect, rpl.Status)

	anns, err := repos.Announcements.QueryAnnouncements(ctx, announcement.QueryFilter{})
	require.NoError(t, err)
	assert.Len(t, anns, 2)

	resources, err := repos.Resources.QueryResources(ctx, resource.QueryFilter{})
	require.NoError(t, err)
	assert.Len(t, resources, 2)

	st, err := repos.Profiles.GetStudent(ctx, profile.GetFilter{Email: "aarav.patil@example.com"})
	require.NoError(t, err)
	assert.NotEmpty(t, st.ID)
	assert.Equal(t, []string{"c1", "c2"}, st.EnrolledCourseIDs)

	fac, err := repos.Profiles.GetFaculty(ctx, profile.GetFilter{Email: "priya.deshmukh@kitcoek.in"})
	require.NoError(t, err)
	assert.Equal(t, 31, fac.Stats.PostsVerified)
}
