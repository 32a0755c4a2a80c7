package services

import (
	"fmt"

	"github.com/dmitrijs2005/companyanalyzer/internal/common"
)

func validationError(msg string) error {
	return fmt.Errorf("%w: %s", common.ErrValidation, msg)
}
