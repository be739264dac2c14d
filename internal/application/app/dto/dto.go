package dto

import (
	"github.com/hopperkey/phatdev/internal/domain/application"
	"github.com/hopperkey/phatdev/internal/shared/biztime"
)

type ApplicationDTO struct {
	Name      string `json:"name"`
	APIKey    string `json:"api_key"`
	CreatedBy string `json:"created_by"`
	CreatedAt string `json:"created_at"`
}

func ToApplicationDTO(a *application.Application) *ApplicationDTO {
	return &ApplicationDTO{
		Name:      a.Name(),
		APIKey:    a.APIKey(),
		CreatedBy: a.CreatedBy(),
		CreatedAt: biztime.FormatISO(a.CreatedAt()),
	}
}

func ToApplicationDTOs(apps []*application.Application) []*ApplicationDTO {
	out := make([]*ApplicationDTO, 0, len(apps))
	for _, a := range apps {
		out = append(out, ToApplicationDTO(a))
	}
	return out
}
