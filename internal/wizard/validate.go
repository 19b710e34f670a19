package wizard

import (
	"fmt"
	"sort"
	"strings"

	"github.com/go-playground/validator/v10"

	"cinegrok-backend/internal/models"
)

var validate = validator.New()

// ValidationError lists the fields that block leaving a step, keyed by
// field name.
type ValidationError struct {
	Step   Step
	Fields map[string]string
}

func (e *ValidationError) Error() string {
	keys := make([]string, 0, len(e.Fields))
	for k := range e.Fields {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return fmt.Sprintf("%s step is incomplete: %s", e.Step, strings.Join(keys, ", "))
}

// ValidateStep checks the fields required to leave step. Steps without
// requirements always pass.
func ValidateStep(p models.ProfileData, step Step) error {
	fields := map[string]string{}
	switch step {
	case StepPersonal:
		validatePersonal(p, fields)
	case StepProfessional:
		validateProfessional(p, fields)
	}
	if len(fields) > 0 {
		return &ValidationError{Step: step, Fields: fields}
	}
	return nil
}

// ValidatePublish checks everything required to publish. An empty
// filmography is allowed; untitled films are not.
func ValidatePublish(p models.ProfileData) error {
	fields := map[string]string{}
	step := StepPersonal
	validatePersonal(p, fields)
	if len(fields) == 0 {
		step = StepProfessional
	}
	validateProfessional(p, fields)
	if len(fields) == 0 {
		step = StepFilmography
	}
	for i, f := range p.Filmography {
		if strings.TrimSpace(f.Title) == "" {
			fields[fmt.Sprintf("filmography[%d].title", i)] = "Film title is required"
		}
	}
	if len(fields) > 0 {
		return &ValidationError{Step: step, Fields: fields}
	}
	return nil
}

func validatePersonal(p models.ProfileData, fields map[string]string) {
	if strings.TrimSpace(p.ProfilePhotoURL) == "" {
		fields["profilePhotoUrl"] = "Profile photo is required"
	}
	if strings.TrimSpace(p.StageName) == "" {
		fields["stageName"] = "Stage name is required"
	}
	if email := strings.TrimSpace(p.Email); email == "" {
		fields["email"] = "Email is required"
	} else if validate.Var(email, "email") != nil {
		fields["email"] = "Email is not valid"
	}
	if strings.TrimSpace(p.Country) == "" {
		fields["country"] = "Country is required"
	}
}

func validateProfessional(p models.ProfileData, fields map[string]string) {
	if len(p.PrimaryRoles) == 0 {
		fields["primaryRoles"] = "Select at least one primary role"
	}
}
