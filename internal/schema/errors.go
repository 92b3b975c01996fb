package schema

import (
	"errors"

	"github.com/enamyaovi/alx-backend-graphql-crm/internal/model"
)

// domainError returns the *model.Error inside err so its code reaches the
// response extensions. Other errors are passed through.
func domainError(err error) error {
	var e *model.Error
	if errors.As(err, &e) {
		return e
	}
	return err
}
