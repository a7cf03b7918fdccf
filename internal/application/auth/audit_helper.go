package auth

import (
	"errors"

	"github.com/buildmaster/projecttracker/services/identity-service/internal/domain"
)

// domainCode extracts the stable error code for audit records.
func domainCode(err error) string {
	if err == nil {
		return ""
	}
	var de *domain.Error
	if errors.As(err, &de) {
		return de.Code
	}
	return "non_domain_error"
}
