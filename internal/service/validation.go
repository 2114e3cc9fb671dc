package service

import (
	stderrors "errors"
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"

	"github.com/riteshkumar/banking-ledger/internal/errors"
)

// asValidationError folds validator field errors into a single domain
// ValidationError so handlers can map them uniformly.
func asValidationError(err error) error {
	var fieldErrs validator.ValidationErrors
	if !stderrors.As(err, &fieldErrs) || len(fieldErrs) == 0 {
		return err
	}

	messages := make([]string, 0, len(fieldErrs))
	for _, fe := range fieldErrs {
		switch fe.Tag() {
		case "required":
			messages = append(messages, fe.Field()+" is required")
		case "gt":
			messages = append(messages, fe.Field()+" must be greater than "+fe.Param())
		case "gte":
			messages = append(messages, fe.Field()+" must be greater than or equal to "+fe.Param())
		case "min":
			messages = append(messages, fe.Field()+" must be at least "+fe.Param()+" characters")
		case "max":
			messages = append(messages, fe.Field()+" must be at most "+fe.Param()+" characters")
		case "email":
			messages = append(messages, fe.Field()+" must be a valid email address")
		case "oneof":
			messages = append(messages, fe.Field()+" must be one of: "+fe.Param())
		case "nefield":
			messages = append(messages, fe.Field()+" must differ from "+fe.Param())
		default:
			messages = append(messages, fmt.Sprintf("%s failed on %s", fe.Field(), fe.Tag()))
		}
	}
	return errors.NewValidationError(fieldErrs[0].Field(), strings.Join(messages, "; "))
}
