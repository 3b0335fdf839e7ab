package usecase

import (
	"context"
	"errors"
	"fmt"

	"backoffice/internal/data/entity"
	"backoffice/internal/data/repository"
	"backoffice/internal/dto/request"
	"backoffice/internal/dto/response"
	"backoffice/pkg/database"
	"backoffice/pkg/utils"

	"go.uber.org/zap"
)

const msgTagNameTaken = "The name has already been taken"

type TagService interface {
	List(ctx context.Context, req request.ListRequest) (*response.PaginatedResponse[response.TagResponse], error)
	Get(ctx context.Context, id int64) (*response.TagResponse, error)
	Create(ctx context.Context, req *request.TagRequest) (*response.TagResponse, error)
	Update(ctx context.Context, id int64, req *request.TagRequest) (*response.TagResponse, error)
	Delete(ctx context.Context, id int64) error
	BulkDelete(ctx context.Context, ids []int64) (int, error)
}

type tagService struct {
	tagRepo  repository.TagRepository
	pageSize int
	log      *zap.Logger
}

func NewTagService(tagRepo repository.TagRepository, pageSize int, log *zap.Logger) TagService {
	return &tagService{
		tagRepo:  tagRepo,
		pageSize: pageSize,
		log:      log.With(zap.String("service", "tag")),
	}
}

func (s *tagService) List(ctx context.Context, req request.ListRequest) (*response.PaginatedResponse[response.TagResponse], error) {
	req.Normalize(s.pageSize)
	filter := repository.TagFilter{Search: req.Search}

	page, err := listPage(ctx, req,
		func(ctx context.Context) (int64, error) {
			return s.tagRepo.Count(ctx, filter)
		},
		func(ctx context.Context, limit, offset int) ([]*entity.Tag, error) {
			return s.tagRepo.Search(ctx, filter, limit, offset)
		},
		response.TagToResponse,
	)
	if err != nil {
		s.log.Error("Failed to list tags", zap.Error(err))
		return nil, fmt.Errorf("list tags: %w", err)
	}

	return page, nil
}

func (s *tagService) Get(ctx context.Context, id int64) (*response.TagResponse, error) {
	tag, err := s.find(ctx, id)
	if err != nil {
		return nil, err
	}
	resp := response.TagToResponse(tag)
	return &resp, nil
}

func (s *tagService) Create(ctx context.Context, req *request.TagRequest) (*response.TagResponse, error) {
	if err := s.validate(ctx, req, 0); err != nil {
		return nil, err
	}

	tag := &entity.Tag{Name: req.Name, Color: req.Color}
	if err := s.tagRepo.Create(ctx, tag); err != nil {
		return nil, s.writeError(err)
	}

	s.log.Info("Tag created", zap.Int64("id", tag.ID), zap.String("name", tag.Name))
	resp := response.TagToResponse(tag)
	return &resp, nil
}

func (s *tagService) Update(ctx context.Context, id int64, req *request.TagRequest) (*response.TagResponse, error) {
	tag, err := s.find(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := s.validate(ctx, req, id); err != nil {
		return nil, err
	}

	tag.Name = req.Name
	tag.Color = req.Color
	if err := s.tagRepo.Update(ctx, tag); err != nil {
		return nil, s.writeError(err)
	}

	resp := response.TagToResponse(tag)
	return &resp, nil
}

func (s *tagService) Delete(ctx context.Context, id int64) error {
	if _, err := s.find(ctx, id); err != nil {
		return err
	}
	if err := s.tagRepo.Delete(ctx, id); err != nil {
		return fmt.Errorf("delete tag %d: %w", id, err)
	}
	return nil
}

// BulkDelete removes the listed tags; unknown ids are ignored.
func (s *tagService) BulkDelete(ctx context.Context, ids []int64) (int, error) {
	req := request.BulkDeleteRequest{IDs: ids}
	if errs := utils.ValidateStruct(req); len(errs) > 0 {
		return 0, NewValidationError(errs)
	}

	n, err := s.tagRepo.DeleteByIDs(ctx, uniqueIDs(ids))
	if err != nil {
		return 0, fmt.Errorf("bulk delete tags: %w", err)
	}
	return int(n), nil
}

func (s *tagService) find(ctx context.Context, id int64) (*entity.Tag, error) {
	tag, err := s.tagRepo.FindByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("find tag %d: %w", id, err)
	}
	if tag == nil {
		return nil, notFound("tag", id)
	}
	return tag, nil
}

func (s *tagService) validate(ctx context.Context, req *request.TagRequest, selfID int64) error {
	req.Normalize()
	if errs := utils.ValidateStruct(req); len(errs) > 0 {
		return NewValidationError(errs)
	}

	existing, err := s.tagRepo.FindByName(ctx, req.Name)
	if err != nil {
		return fmt.Errorf("check tag name: %w", err)
	}
	if existing != nil && existing.ID != selfID {
		return fieldError("name", msgTagNameTaken)
	}
	return nil
}

func (s *tagService) writeError(err error) error {
	if constraint, ok := database.UniqueViolation(err); ok && constraint == "tags_name_key" {
		return fieldError("name", msgTagNameTaken)
	}
	if errors.Is(err, ErrNotFound) {
		return fmt.Errorf("write tag: %w", err)
	}
	s.log.Error("Failed to write tag", zap.Error(err))
	return fmt.Errorf("write tag: %w", err)
}
