package adaptor

import (
	"context"
	"io"

	"backoffice/internal/dto/request"
	"backoffice/internal/dto/response"
	"backoffice/internal/usecase"
)

type fakeClientService struct {
	err error

	listReq    request.ListRequest
	input      *usecase.IdentityInput
	avatarBody []byte
	actor      usecase.Actor
	id         int64
	bulkIDs    []int64
}

func (f *fakeClientService) List(_ context.Context, req request.ListRequest) (*response.PaginatedResponse[response.ClientListItem], error) {
	f.listReq = req
	if f.err != nil {
		return nil, f.err
	}
	rows := []response.ClientListItem{{ID: 1, Name: "Ana", Email: "ana@x.com"}}
	return response.NewPaginatedResponse(rows, req.Page, req.PerPage, 25).WithFilter("search", req.Search), nil
}

func (f *fakeClientService) Get(_ context.Context, id int64) (*response.IdentityDetail, error) {
	f.id = id
	if f.err != nil {
		return nil, f.err
	}
	return &response.IdentityDetail{ID: id, Name: "Ana", Email: "ana@x.com", Role: "client"}, nil
}

func (f *fakeClientService) Create(_ context.Context, actor usecase.Actor, input *usecase.IdentityInput) (*response.IdentityDetail, error) {
	f.record(actor, input)
	if f.err != nil {
		return nil, f.err
	}
	return &response.IdentityDetail{ID: 1, Name: input.Name, Email: input.Email, Role: "client"}, nil
}

func (f *fakeClientService) Update(_ context.Context, actor usecase.Actor, id int64, input *usecase.IdentityInput) (*response.IdentityDetail, error) {
	f.id = id
	f.record(actor, input)
	if f.err != nil {
		return nil, f.err
	}
	return &response.IdentityDetail{ID: id, Name: input.Name, Email: input.Email, Role: "client"}, nil
}

func (f *fakeClientService) Delete(_ context.Context, actor usecase.Actor, id int64) error {
	f.actor, f.id = actor, id
	return f.err
}

func (f *fakeClientService) BulkDelete(_ context.Context, actor usecase.Actor, ids []int64) (int, error) {
	f.actor, f.bulkIDs = actor, ids
	if f.err != nil {
		return 0, f.err
	}
	return len(ids), nil
}

// record reads the avatar while the multipart temp files still exist.
func (f *fakeClientService) record(actor usecase.Actor, input *usecase.IdentityInput) {
	f.actor, f.input = actor, input
	if input.Avatar != nil {
		f.avatarBody, _ = io.ReadAll(input.Avatar.Body)
	}
}

type fakeTagService struct {
	err error
	req *request.TagRequest
	ids []int64
}

func (f *fakeTagService) List(_ context.Context, req request.ListRequest) (*response.PaginatedResponse[response.TagResponse], error) {
	return response.NewPaginatedResponse([]response.TagResponse{{ID: 1, Name: "vip"}}, req.Page, req.PerPage, 1), f.err
}

func (f *fakeTagService) Get(_ context.Context, id int64) (*response.TagResponse, error) {
	if f.err != nil {
		return nil, f.err
	}
	return &response.TagResponse{ID: id, Name: "vip"}, nil
}

func (f *fakeTagService) Create(_ context.Context, req *request.TagRequest) (*response.TagResponse, error) {
	f.req = req
	if f.err != nil {
		return nil, f.err
	}
	return &response.TagResponse{ID: 1, Name: req.Name, Color: req.Color}, nil
}

func (f *fakeTagService) Update(_ context.Context, id int64, req *request.TagRequest) (*response.TagResponse, error) {
	f.req = req
	if f.err != nil {
		return nil, f.err
	}
	return &response.TagResponse{ID: id, Name: req.Name}, nil
}

func (f *fakeTagService) Delete(context.Context, int64) error { return f.err }

func (f *fakeTagService) BulkDelete(_ context.Context, ids []int64) (int, error) {
	f.ids = ids
	return 1, f.err
}

type fakeCountryService struct {
	err error
}

func (f *fakeCountryService) List(context.Context) ([]response.CountryResponse, error) {
	if f.err != nil {
		return nil, f.err
	}
	return []response.CountryResponse{{ID: 1, Name: "Portugal", ISO2: "PT", ISO3: "PRT"}}, nil
}

func (f *fakeCountryService) SeedFromFile(context.Context, string) (int, error) { return 0, f.err }
