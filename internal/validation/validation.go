package validation

import (
	"reflect"
	"strings"

	"github.com/gin-gonic/gin"
	validatorv10 "github.com/go-playground/validator/v10"
	"github.com/voltmart/backoffice-api/internal/presentation/http/dto/request"
	"github.com/voltmart/backoffice-api/internal/presentation/http/dto/response"
	"github.com/voltmart/backoffice-api/pkg/apperror"
)

// New returns a configured validator with custom struct-level validation
// registered. Field names in error output come from the json tags so they
// match the wire format.
func New() *validatorv10.Validate {
	v := validatorv10.New()

	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})

	v.RegisterStructValidation(discountLimitScopeValidation, request.CreateDiscountLimitRequest{})

	return v
}

// discountLimitScopeValidation enforces that a limit is scoped to exactly one
// of a role or an employee.
func discountLimitScopeValidation(sl validatorv10.StructLevel) {
	req := sl.Current().Interface().(request.CreateDiscountLimitRequest)

	if (req.RoleID == nil) == (req.EmployeeID == nil) {
		sl.ReportError(req.RoleID, "role_id", "RoleID", "scope_exclusive", "")
	}
}

// BindAndValidate binds the JSON body into out and runs validation. On failure
// it writes the error response and returns a non-nil error so the handler can
// short-circuit.
func BindAndValidate(c *gin.Context, out interface{}, v *validatorv10.Validate) error {
	if err := c.ShouldBindJSON(out); err != nil {
		response.BadRequest(c, "Invalid request body")
		return err
	}

	if err := v.Struct(out); err != nil {
		response.ValidationError(c, toFieldErrors(err))
		return err
	}
	return nil
}

func toFieldErrors(err error) []apperror.FieldError {
	ve, ok := err.(validatorv10.ValidationErrors)
	if !ok {
		return []apperror.FieldError{{Field: "body", Message: err.Error()}}
	}

	out := make([]apperror.FieldError, 0, len(ve))
	for _, fe := range ve {
		// Namespace is "CreateSaleRequest.items[0].quantity"; drop the
		// root struct name so the field matches the payload.
		field := fe.Namespace()
		if i := strings.Index(field, "."); i >= 0 {
			field = field[i+1:]
		}
		out = append(out, apperror.FieldError{
			Field:   field,
			Message: messageForTag(fe),
		})
	}
	return out
}

func messageForTag(fe validatorv10.FieldError) string {
	switch fe.Tag() {
	case "required":
		return "This field is required"
	case "min":
		return "Must be at least " + fe.Param()
	case "max":
		return "Must be at most " + fe.Param()
	case "gt":
		return "Must be greater than " + fe.Param()
	case "email":
		return "Must be a valid email address"
	case "scope_exclusive":
		return "Exactly one of role_id or employee_id must be set"
	default:
		return "Invalid value"
	}
}
