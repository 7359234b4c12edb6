package dto

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/SscSPs/taskboard_app/internal/core/domain"
	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"
)

// DateLayout is the wire format of date-only fields.
const DateLayout = "2006-01-02"

// RegisterValidators adds the board specific tags to gin's validator.
// Tags: "role" accepts admin|member|client, "priority" accepts low|medium|high|urgent.
func RegisterValidators() error {
	v, ok := binding.Validator.Engine().(*validator.Validate)
	if !ok {
		return errors.New("gin validator engine is not go-playground/validator")
	}
	return registerOn(v)
}

func registerOn(v *validator.Validate) error {
	if err := v.RegisterValidation("role", func(fl validator.FieldLevel) bool {
		return domain.Role(fl.Field().String()).Valid()
	}); err != nil {
		return err
	}
	return v.RegisterValidation("priority", func(fl validator.FieldLevel) bool {
		return domain.TaskPriority(fl.Field().String()).Valid()
	})
}

// ValidationMessage turns binding errors into a short client-facing message.
func ValidationMessage(err error) string {
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return "Invalid request format: " + err.Error()
	}
	msgs := make([]string, 0, len(verrs))
	for _, fe := range verrs {
		switch fe.Tag() {
		case "required":
			msgs = append(msgs, fe.Field()+" is required")
		case "role":
			msgs = append(msgs, fe.Field()+" must be one of admin, member, client")
		case "priority":
			msgs = append(msgs, fe.Field()+" must be one of low, medium, high, urgent")
		case "datetime":
			msgs = append(msgs, fmt.Sprintf("%s must be a date formatted as %s", fe.Field(), DateLayout))
		default:
			msgs = append(msgs, fmt.Sprintf("%s failed on %s", fe.Field(), fe.Tag()))
		}
	}
	return strings.Join(msgs, "; ")
}

// ParseDate parses an optional date-only field. Bound values are already validated.
func ParseDate(s *string) (*time.Time, error) {
	if s == nil || *s == "" {
		return nil, nil
	}
	t, err := time.Parse(DateLayout, *s)
	if err != nil {
		return nil, err
	}
	return &t, nil
}

// FormatDate renders an optional date-only field.
func FormatDate(t *time.Time) *string {
	if t == nil {
		return nil
	}
	s := t.Format(DateLayout)
	return &s
}
