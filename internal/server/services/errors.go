package services

import (
	"fmt"

	"github.com/dmitrijs2005/countryexplorer/internal/common"
)

// publicErr builds an error that matches kind, carries msg for the client
// and keeps cause in its text for the logs.
func publicErr(kind error, msg string, cause error) error {
	if cause == nil {
		return common.NewError(kind, msg)
	}
	return fmt.Errorf("%w: %w", common.NewError(kind, msg), cause)
}

func internalErr(op string, cause error) error {
	return fmt.Errorf("%s: %w: %w", op, common.ErrorInternal, cause)
}
