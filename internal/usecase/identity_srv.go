package usecase

import (
	"context"
	"fmt"

	"backoffice/internal/data/entity"
	"backoffice/internal/dto/request"
	"backoffice/internal/dto/response"

	"go.uber.org/zap"
)

// IdentityService exposes one role's listing and write operations, with
// rows projected to V.
type IdentityService[V any] interface {
	List(ctx context.Context, req request.ListRequest) (*response.PaginatedResponse[V], error)
	Get(ctx context.Context, id int64) (*response.IdentityDetail, error)
	Create(ctx context.Context, actor Actor, input *IdentityInput) (*response.IdentityDetail, error)
	Update(ctx context.Context, actor Actor, id int64, input *IdentityInput) (*response.IdentityDetail, error)
	Delete(ctx context.Context, actor Actor, id int64) error
	BulkDelete(ctx context.Context, actor Actor, ids []int64) (int, error)
}

type (
	ClientService = IdentityService[response.ClientListItem]
	StaffService  = IdentityService[response.StaffListItem]
)

type identityService[V any] struct {
	workflow *IdentityWorkflow
	project  func(*entity.User) V
	pageSize int
	log      *zap.Logger
}

func NewClientService(deps WorkflowDeps) ClientService {
	return newIdentityService(NewIdentityWorkflow(ClientKind, deps), response.ClientToListItem, deps)
}

func NewStaffService(deps WorkflowDeps) StaffService {
	return newIdentityService(NewIdentityWorkflow(StaffKind, deps), response.StaffToListItem, deps)
}

func newIdentityService[V any](workflow *IdentityWorkflow, project func(*entity.User) V, deps WorkflowDeps) *identityService[V] {
	return &identityService[V]{
		workflow: workflow,
		project:  project,
		pageSize: deps.PageSize,
		log:      deps.Log.With(zap.String("service", workflow.Kind().Subject)),
	}
}

func (s *identityService[V]) List(ctx context.Context, req request.ListRequest) (*response.PaginatedResponse[V], error) {
	req.Normalize(s.pageSize)
	filter := s.workflow.filter(req.Search)
	users := s.workflow.repo.User

	page, err := listPage(ctx, req,
		func(ctx context.Context) (int64, error) {
			return users.Count(ctx, filter)
		},
		func(ctx context.Context, limit, offset int) ([]*entity.User, error) {
			return users.Search(ctx, filter, limit, offset)
		},
		s.project,
	)
	if err != nil {
		s.log.Error("Failed to list identities",
			zap.Error(err),
			zap.Int("page", req.Page),
			zap.String("search", req.Search),
		)
		return nil, fmt.Errorf("list %s: %w", s.workflow.Kind().Subject, err)
	}

	return page, nil
}

func (s *identityService[V]) Get(ctx context.Context, id int64) (*response.IdentityDetail, error) {
	user, err := s.workflow.Find(ctx, id)
	if err != nil {
		return nil, err
	}
	return s.detail(user), nil
}

func (s *identityService[V]) Create(ctx context.Context, actor Actor, input *IdentityInput) (*response.IdentityDetail, error) {
	user, err := s.workflow.Create(ctx, actor, input)
	if err != nil {
		return nil, err
	}
	return s.detail(user), nil
}

func (s *identityService[V]) Update(ctx context.Context, actor Actor, id int64, input *IdentityInput) (*response.IdentityDetail, error) {
	user, err := s.workflow.Update(ctx, actor, id, input)
	if err != nil {
		return nil, err
	}
	return s.detail(user), nil
}

func (s *identityService[V]) Delete(ctx context.Context, actor Actor, id int64) error {
	return s.workflow.Delete(ctx, actor, id)
}

func (s *identityService[V]) BulkDelete(ctx context.Context, actor Actor, ids []int64) (int, error) {
	return s.workflow.BulkDelete(ctx, actor, ids)
}

func (s *identityService[V]) detail(user *entity.User) *response.IdentityDetail {
	detail := response.IdentityToDetail(user, s.workflow.Kind().WithProfile, s.workflow.AvatarURL)
	return &detail
}
