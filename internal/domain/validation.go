package domain

import (
	"errors"
	"fmt"
	"math"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/go-playground/validator/v10/non-standard/validators"
)

var (
	ErrValidation = errors.New("validation failed")

	ErrNilEntity        = fmt.Errorf("%w: entity is nil", ErrValidation)
	ErrInvalidID        = fmt.Errorf("%w: id must be positive", ErrValidation)
	ErrInvalidOwner     = fmt.Errorf("%w: owner id must be positive", ErrValidation)
	ErrEmptyName        = fmt.Errorf("%w: name cannot be empty", ErrValidation)
	ErrEmptyCode        = fmt.Errorf("%w: code cannot be empty", ErrValidation)
	ErrNegativePrice    = fmt.Errorf("%w: price must be a finite non-negative number", ErrValidation)
	ErrNegativeQuantity = fmt.Errorf("%w: quantity cannot be negative", ErrValidation)
	ErrMissingChildren  = fmt.Errorf("%w: child collection is not allocated", ErrValidation)

	ErrDuplicateName = errors.New("an entry with this name already exists")
	ErrOwnerMismatch = errors.New("back-reference does not match the owner")
)

// Validator instance
var validate *validator.Validate

func init() {
	validate = validator.New()
	if err := validate.RegisterValidation("notblank", validators.NotBlank); err != nil {
		panic(fmt.Sprintf("failed to register notblank validation: %v", err))
	}
	if err := validate.RegisterValidation("finite", finite); err != nil {
		panic(fmt.Sprintf("failed to register finite validation: %v", err))
	}
}

// finite rejects NaN and the infinities, which have no JSON encoding.
func finite(fl validator.FieldLevel) bool {
	f := fl.Field().Float()
	return !math.IsNaN(f) && !math.IsInf(f, 0)
}

// validateStruct runs the struct tag rules of v and converts the first
// failing field into its sentinel error.
func validateStruct(v interface{}) error {
	err := validate.Struct(v)
	if err == nil {
		return nil
	}

	var fieldErrors validator.ValidationErrors
	if errors.As(err, &fieldErrors) && len(fieldErrors) > 0 {
		return fieldError(fieldErrors[0])
	}
	return fmt.Errorf("%w: %v", ErrValidation, err)
}

func fieldError(e validator.FieldError) error {
	switch e.Field() {
	case "ID":
		return ErrInvalidID
	case "SubgroupID", "CategoryID":
		return ErrInvalidOwner
	case "Name":
		return ErrEmptyName
	case "Code":
		return ErrEmptyCode
	case "Price":
		return ErrNegativePrice
	case "Quantity":
		return ErrNegativeQuantity
	default:
		return fmt.Errorf("%w: %s failed on %s", ErrValidation, e.Field(), e.Tag())
	}
}

// now returns the current local time at the resolution that survives a
// save and load.
var now = func() time.Time {
	return time.Now().Truncate(time.Second)
}
