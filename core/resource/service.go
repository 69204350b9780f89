package resource

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/kitcoek/eduforum/core/course"
	"github.com/kitcoek/eduforum/core/notification"
)

var (
	ErrNotFound = errors.New("resource not found")
)

type (
	Repository interface {
		CreateResource(ctx context.Context, res Resource) (Resource, error)
		QueryResources(ctx context.Context, filter QueryFilter) ([]Resource, error)
		GetResource(ctx context.Context, id string) (Resource, error)
		UpdateResource(ctx context.Context, res Resource) (Resource, error)
		DeleteResource(ctx context.Context, id string) error
		// IncrementDownloads adds exactly 1 to the resource's download
		// counter and returns the new value. The counter never decreases.
		IncrementDownloads(ctx context.Context, id string) (int, error)
	}

	Service struct {
		repo    Repository
		courses *course.Service
		notif   *notification.Service
	}
)

func NewService(repo Repository, courses *course.Service, notif *notification.Service) *Service {
	return &Service{repo: repo, courses: courses, notif: notif}
}

func (svc *Service) Create(ctx context.Context, nr NewResource) (Resource, error) {
	res := Resource{
		CourseID:    nr.CourseID,
		Title:       nr.Title,
		Description: nr.Description,
		Tags:        nr.Tags,
		FileType:    nr.FileType,
		URL:         nr.URL,
		UploadedAt:  time.Now().UTC(),
	}
	res, err := svc.repo.CreateResource(ctx, res)
	if err != nil {
		return Resource{}, err
	}
	svc.broadcast(ctx, res)
	return res, nil
}

func (svc *Service) Query(ctx context.Context, filter QueryFilter) ([]Resource, error) {
	filter.Clean()
	return svc.repo.QueryResources(ctx, filter)
}

func (svc *Service) Get(ctx context.Context, id string) (Resource, error) {
	return svc.repo.GetResource(ctx, id)
}

func (svc *Service) Update(ctx context.Context, id string, ur UpdateResource) (Resource, error) {
	res, err := svc.repo.GetResource(ctx, id)
	if err != nil {
		return Resource{}, err
	}
	if ur.CourseID != nil {
		res.CourseID = *ur.CourseID
	}
	if ur.Title != nil {
		res.Title = *ur.Title
	}
	if ur.Description != nil {
		res.Description = *ur.Description
	}
	if ur.Tags != nil {
		res.Tags = ur.Tags
	}
	if ur.FileType != nil {
		res.FileType = *ur.FileType
	}
	if ur.URL != nil {
		res.URL = *ur.URL
	}
	return svc.repo.UpdateResource(ctx, res)
}

func (svc *Service) Delete(ctx context.Context, id string) error {
	if _, err := svc.repo.GetResource(ctx, id); err != nil {
		return err
	}
	return svc.repo.DeleteResource(ctx, id)
}

func (svc *Service) RecordDownload(ctx context.Context, id string) (int, error) {
	return svc.repo.IncrementDownloads(ctx, id)
}

func (svc *Service) broadcast(ctx context.Context, res Resource) {
	if svc.notif == nil || svc.courses == nil || res.CourseID == "" {
		return
	}
	students, err := svc.courses.EnrolledStudents(ctx, res.CourseID)
	if err != nil || len(students) == 0 {
		return
	}
	userIDs := make([]string, 0, len(students))
	for _, s := range students {
		userIDs = append(userIDs, s.Email)
	}
	_ = svc.notif.Push(ctx, notification.Notification{
		Type:    notification.TypeResource,
		Title:   "New Resource",
		Message: fmt.Sprintf("New material uploaded: %q", res.Title),
		Link:    "/student/resources",
	}, userIDs...)
}
