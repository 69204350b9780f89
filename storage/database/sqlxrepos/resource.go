package sqlxrepos

import (
	"context"
	"database/sql"
	"strconv"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"
	"github.com/pkg/errors"

	"github.com/kitcoek/eduforum/core"
	"github.com/kitcoek/eduforum/core/resource"
)

type resourceRow struct {
	ID          string         `db:"id"`
	CourseID    string         `db:"course_id"`
	Title       string         `db:"title"`
	Description string         `db:"description"`
	Tags        pq.StringArray `db:"tags"`
	FileType    string         `db:"file_type"`
	URL         string         `db:"url"`
	UploadedAt  time.Time      `db:"uploaded_at"`
	Downloads   int            `db:"downloads"`
}

func (row resourceRow) toCore() resource.Resource {
	return resource.Resource{
		ID:          row.ID,
		CourseID:    row.CourseID,
		Title:       row.Title,
		Description: row.Description,
		Tags:        row.Tags,
		FileType:    row.FileType,
		URL:         row.URL,
		UploadedAt:  row.UploadedAt,
		Downloads:   row.Downloads,
	}
}

type resourceRepository struct {
	db *sqlx.DB
}

var _ resource.Repository = (*resourceRepository)(nil)

func NewResourceRepository(db *sqlx.DB) resource.Repository {
	return &resourceRepository{db: db}
}

func (repo *resourceRepository) CreateResource(ctx context.Context, res resource.Resource) (resource.Resource, error) {
	if res.ID == "" {
		res.ID = uuid.New().String()
	}
	if res.Tags == nil {
		res.Tags = []string{}
	}
	const q = `
		INSERT INTO resource (id, course_id, title, description, tags, file_type, url, uploaded_at, downloads)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)`
	_, err := repo.db.ExecContext(ctx, q,
		res.ID, res.CourseID, res.Title, res.Description, pq.Array(res.Tags),
		res.FileType, res.URL, res.UploadedAt, res.Downloads,
	)
	if err != nil {
		return resource.Resource{}, errors.Wrap(err, "inserting resource")
	}
	return res, nil
}

func (repo *resourceRepository) QueryResources(ctx context.Context, filter resource.QueryFilter) ([]resource.Resource, error) {
	q := "SELECT * FROM resource"
	var (
		conds []string
		args  []interface{}
	)
	arg := func(v interface{}) string {
		args = append(args, v)
		return "$" + strconv.Itoa(len(args))
	}
	if filter.Course != "" {
		conds = append(conds, "course_id = "+arg(filter.Course))
	}
	if filter.FileType != "" {
		conds = append(conds, "file_type = "+arg(filter.FileType))
	}
	if filter.Search != "" {
		needle := arg("%" + filter.Search + "%")
		conds = append(conds, "(title ILIKE "+needle+
			" OR description ILIKE "+needle+
			" OR EXISTS (SELECT 1 FROM unnest(tags) AS t WHERE t ILIKE "+needle+"))")
	}
	for i, cond := range conds {
		if i == 0 {
			q += " WHERE " + cond
		} else {
			q += " AND " + cond
		}
	}
	var ord core.DBOrdering
	switch filter.Sort {
	case resource.SortDownloads:
		ord = core.DBOrdering{Field: "downloads"}
	case resource.SortTitle:
		ord = core.DBOrdering{Field: "title", Ascending: true}
	default:
		ord = core.DBOrdering{Field: "uploaded_at"}
	}
	q += " ORDER BY " + ord.String() + ", id"

	var rows []resourceRow
	if err := repo.db.SelectContext(ctx, &rows, q, args...); err != nil {
		return nil, errors.Wrap(err, "querying resources")
	}
	resources := make([]resource.Resource, 0, len(rows))
	for _, row := range rows {
		resources = append(resources, row.toCore())
	}
	return resources, nil
}

func (repo *resourceRepository) GetResource(ctx context.Context, id string) (resource.Resource, error) {
	var row resourceRow
	err := repo.db.GetContext(ctx, &row, "SELECT * FROM resource WHERE id = $1", id)
	if err == sql.ErrNoRows {
		return resource.Resource{}, resource.ErrNotFound
	}
	if err != nil {
		return resource.Resource{}, errors.Wrap(err, "getting resource")
	}
	return row.toCore(), nil
}

func (repo *resourceRepository) UpdateResource(ctx context.Context, res resource.Resource) (resource.Resource, error) {
	const q = `
		UPDATE resource
		SET course_id = $2, title = $3, description = $4, tags = $5, file_type = $6, url = $7
		WHERE id = $1`
	result, err := repo.db.ExecContext(ctx, q,
		res.ID, res.CourseID, res.Title, res.Description, pq.Array(res.Tags), res.FileType, res.URL,
	)
	if err != nil {
		return resource.Resource{}, errors.Wrap(err, "updating resource")
	}
	if n, _ := result.RowsAffected(); n == 0 {
		return resource.Resource{}, resource.ErrNotFound
	}
	return res, nil
}

func (repo *resourceRepository) DeleteResource(ctx context.Context, id string) error {
	res, err := repo.db.ExecContext(ctx, "DELETE FROM resource WHERE id = $1", id)
	if err != nil {
		return errors.Wrap(err, "deleting resource")
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return resource.ErrNotFound
	}
	return nil
}

func (repo *resourceRepository) IncrementDownloads(ctx context.Context, id string) (int, error) {
	var downloads int
	const q = "UPDATE resource SET downloads = downloads + 1 WHERE id = $1 RETURNING downloads"
	err := repo.db.GetContext(ctx, &downloads, q, id)
	if err == sql.ErrNoRows {
		return 0, resource.ErrNotFound
	}
	if err != nil {
		return 0, errors.Wrap(err, "incrementing downloads")
	}
	return downloads, nil
}
