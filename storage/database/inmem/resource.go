package inmemdb

import (
	"context"
	"sort"
	"strings"

	"github.com/google/uuid"

	"github.com/kitcoek/eduforum/core/resource"
)

type resourceRepository struct {
	db *DB
}

var _ resource.Repository = (*resourceRepository)(nil)

func NewResourceRepository(db *DB) resource.Repository {
	return &resourceRepository{db: db}
}

func (repo *resourceRepository) CreateResource(ctx context.Context, res resource.Resource) (resource.Resource, error) {
	repo.db.resource.Lock()
	defer repo.db.resource.Unlock()

	if res.ID == "" {
		res.ID = uuid.New().String()
	}
	if res.Tags == nil {
		res.Tags = []string{}
	}
	repo.db.resource.table[res.ID] = &res
	return res, nil
}

func (repo *resourceRepository) QueryResources(ctx context.Context, filter resource.QueryFilter) ([]resource.Resource, error) {
	repo.db.resource.RLock()
	defer repo.db.resource.RUnlock()

	matches := make([]resource.Resource, 0)
	for _, res := range repo.db.resource.table {
		if matchResource(res, filter) {
			matches = append(matches, *res)
		}
	}
	sortResources(matches, filter.Sort)
	return matches, nil
}

func matchResource(res *resource.Resource, filter resource.QueryFilter) bool {
	if filter.Course != "" && res.CourseID != filter.Course {
		return false
	}
	if filter.FileType != "" && res.FileType != filter.FileType {
		return false
	}
	if filter.Search != "" {
		needle := strings.ToLower(filter.Search)
		if !strings.Contains(strings.ToLower(res.Title), needle) &&
			!strings.Contains(strings.ToLower(res.Description), needle) {
			var tagged bool
			for _, tag := range res.Tags {
				if strings.Contains(strings.ToLower(tag), needle) {
					tagged = true
					break
				}
			}
			if !tagged {
				return false
			}
		}
	}
	return true
}

func sortResources(resources []resource.Resource, order string) {
	switch order {
	case resource.SortDownloads:
		sort.Slice(resources, func(i, j int) bool {
			ri, rj := resources[i], resources[j]
			if ri.Downloads != rj.Downloads {
				return ri.Downloads > rj.Downloads
			}
			return ri.ID < rj.ID
		})
	case resource.SortTitle:
		sort.Slice(resources, func(i, j int) bool {
			ri, rj := resources[i], resources[j]
			if ri.Title != rj.Title {
				return ri.Title < rj.Title
			}
			return ri.ID < rj.ID
		})
	default:
		sort.Slice(resources, func(i, j int) bool {
			ri, rj := resources[i], resources[j]
			if !ri.UploadedAt.Equal(rj.UploadedAt) {
				return ri.UploadedAt.After(rj.UploadedAt)
			}
			return ri.ID < rj.ID
		})
	}
}

func (repo *resourceRepository) GetResource(ctx context.Context, id string) (resource.Resource, error) {
	repo.db.resource.RLock()
	defer repo.db.resource.RUnlock()

	if res, ok := repo.db.resource.table[id]; ok {
		return *res, nil
	}
	return resource.Resource{}, resource.ErrNotFound
}

func (repo *resourceRepository) UpdateResource(ctx context.Context, res resource.Resource) (resource.Resource, error) {
	repo.db.resource.Lock()
	defer repo.db.resource.Unlock()

	if _, ok := repo.db.resource.table[res.ID]; !ok {
		return resource.Resource{}, resource.ErrNotFound
	}
	repo.db.resource.table[res.ID] = &res
	return res, nil
}

func (repo *resourceRepository) DeleteResource(ctx context.Context, id string) error {
	repo.db.resource.Lock()
	defer repo.db.resource.Unlock()

	if _, ok := repo.db.resource.table[id]; !ok {
		return resource.ErrNotFound
	}
	delete(repo.db.resource.table, id)
	return nil
}

func (repo *resourceRepository) IncrementDownloads(ctx context.Context, id string) (int, error) {
	repo.db.resource.Lock()
	defer repo.db.resource.Unlock()

	res, ok := repo.db.resource.table[id]
	if !ok {
		return 0, resource.ErrNotFound
	}
	res.Downloads++
	return res.Downloads, nil
}
