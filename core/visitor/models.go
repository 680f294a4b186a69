package visitor

import (
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/volatiletech/null/v8"

	"github.com/codebluemti/tiba/core"
)

// Visit is one entry in the front-desk visitor log.
type Visit struct {
	ID           string    `json:"id"`
	Name         string    `json:"name"`
	Phone        string    `json:"phone"`
	Purpose      string    `json:"purpose"`
	HostName     string    `json:"host_name"`
	CheckedInAt  time.Time `json:"checked_in_at"`  // UTC
	CheckedOutAt null.Time `json:"checked_out_at"` // UTC
}

type NewVisit struct {
	Name     string `json:"name" validate:"required"`
	Phone    string `json:"phone" validate:"required"`
	Purpose  string `json:"purpose" validate:"required"`
	HostName string `json:"host_name"`
}

func (nv *NewVisit) Validate(validate *validator.Validate) error {
	nv.Name = core.CleanString(nv.Name)
	nv.Phone = core.CleanString(nv.Phone)
	nv.Purpose = core.CleanString(nv.Purpose)
	nv.HostName = core.CleanString(nv.HostName)
	return validate.Struct(nv)
}
