package main

import (
	"context"

	"github.com/kitcoek/eduforum/storage/database"
	"github.com/kitcoek/eduforum/storage/database/seed"
	"github.com/kitcoek/eduforum/storage/database/sqlxrepos"
)

func (cli *commandLine) migrate() error {
	return database.Migrate(cli.db.DB)
}

func (cli *commandLine) seed() error {
	if err := cli.migrate(); err != nil {
		return err
	}
	return seed.Load(context.Background(), seed.Repos{
		Courses:       sqlxrepos.NewCourseRepository(cli.db),
		Forum:         sqlxrepos.NewForumRepository(cli.db),
		Announcements: sqlxrepos.NewAnnouncementRepository(cli.db),
		Resources:     sqlxrepos.NewResourceRepository(cli.db),
		Profiles:      sqlxrepos.NewProfileRepository(cli.db),
	})
}
