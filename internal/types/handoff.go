package types

import "github.com/go-playground/validator/v10"

// TemplateCount is the number of resume templates offered by the templating stage
const TemplateCount = 3

// TemplateRequest is the body sent to the templating stage on "Continue"
type TemplateRequest struct {
	TemplateID int         `json:"template_id" validate:"required,min=1,max=3"`
	Data       ResumeDraft `json:"data"`
}

// Validate validates the TemplateRequest using the validator.
func (r *TemplateRequest) Validate() error {
	validate := validator.New()
	return validate.Struct(r)
}
