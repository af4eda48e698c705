package httpserver

import (
	"errors"
	"fmt"
	"reflect"
	"strconv"
	"strings"
	"sync"

	"github.com/go-playground/validator/v10"

	"github.com/fairyhunter13/resume-screener/internal/domain"
)

var (
	vldOnce sync.Once
	vld     *validator.Validate
)

func getValidator() *validator.Validate {
	vldOnce.Do(func() {
		vld = validator.New()
		vld.RegisterTagNameFunc(func(fld reflect.StructField) string {
			name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
			if name == "-" {
				return ""
			}
			return name
		})
	})
	return vld
}

type screenForm struct {
	JobDescription string `json:"job_description" validate:"required,max=20000"`
}

type listQuery struct {
	MinScore int `json:"min_score" validate:"min=0,max=10"`
}

type candidatePath struct {
	ID string `json:"id" validate:"required,max=100"`
}

// validate runs struct validation and turns failures into an
// ErrInvalidArgument plus a field -> tag map suitable for error details.
func validate(v any) (map[string]string, error) {
	err := getValidator().Struct(v)
	if err == nil {
		return nil, nil
	}
	details := map[string]string{}
	var ve validator.ValidationErrors
	if errors.As(err, &ve) {
		for _, fe := range ve {
			details[fe.Field()] = fe.Tag()
		}
	}
	return details, fmt.Errorf("%w: validation failed", domain.ErrInvalidArgument)
}

// parseMinScore reads the optional min_score query parameter; empty means 0.
func parseMinScore(raw string) (listQuery, map[string]string, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return listQuery{}, nil, nil
	}
	n, err := strconv.Atoi(raw)
	if err != nil {
		return listQuery{}, map[string]string{"min_score": "int"}, fmt.Errorf("%w: min_score must be an integer", domain.ErrInvalidArgument)
	}
	q := listQuery{MinScore: n}
	details, err := validate(q)
	return q, details, err
}
