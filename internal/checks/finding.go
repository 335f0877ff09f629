package checks

import (
	"errors"

	"github.com/pankaj-dahiya-devops/s3-sentinel/internal/models"
	"github.com/pankaj-dahiya-devops/s3-sentinel/internal/providers"
)

// result builds a non-error finding stamped with c's identity.
func result(c Check, status models.CheckStatus, detail string) models.Finding {
	f := models.NewFinding(c.ID(), status, detail)
	return stamp(c, f)
}

// failure builds an ERROR finding stamped with c's identity.
func failure(c Check, err error) models.Finding {
	f := models.NewErrorFinding(c.ID(), err)
	var pe *providers.ProviderError
	if errors.As(err, &pe) && pe.Timeout() {
		f.Detail = "provider call timed out"
	}
	return stamp(c, f)
}

func stamp(c Check, f models.Finding) models.Finding {
	f.CheckID = c.ID()
	f.CheckName = c.Name()
	f.Severity = c.Severity()
	return f
}
