package usecase

import (
	"github.com/spf13/afero"
)

type Service struct {
	Client  ClientService
	Staff   StaffService
	Tag     TagService
	Country CountryService
}

// NewService builds every service over one shared set of workflow
// dependencies. fs is where seed files are read from.
func NewService(deps WorkflowDeps, fs afero.Fs) *Service {
	return &Service{
		Client:  NewClientService(deps),
		Staff:   NewStaffService(deps),
		Tag:     NewTagService(deps.Repo.Tag, deps.PageSize, deps.Log),
		Country: NewCountryService(deps.Repo.Country, fs, deps.Log),
	}
}
