package checks

import (
	"fmt"
	"strings"

	"github.com/pankaj-dahiya-devops/s3-sentinel/internal/models"
)

const (
	groupAllUsers           = "AllUsers"
	groupAuthenticatedUsers = "AuthenticatedUsers"
)

// concerningGrantees maps grantee identifiers that expose a bucket outside
// the account to their canonical group name. Both the short group name and
// the full group URI are matched.
var concerningGrantees = map[string]string{
	groupAllUsers:           groupAllUsers,
	groupAuthenticatedUsers: groupAuthenticatedUsers,

	"http://acs.amazonaws.com/groups/global/AllUsers":           groupAllUsers,
	"http://acs.amazonaws.com/groups/global/AuthenticatedUsers": groupAuthenticatedUsers,
}

// groupLabels is the wording used in finding details.
var groupLabels = map[string]string{
	groupAllUsers:           "All Users",
	groupAuthenticatedUsers: "Authenticated Users",
}

// OffendingGrant is one ACL grant to a concerning grantee. Group is the
// canonical group name (AllUsers or AuthenticatedUsers).
type OffendingGrant struct {
	Group      string `json:"group"`
	Permission string `json:"permission"`
}

// S3ACLExposureCheck flags ACL grants to everyone or to any authenticated
// AWS principal. Every permission is treated alike.
type S3ACLExposureCheck struct{}

func (c S3ACLExposureCheck) ID() string                { return "S3_ACL_EXPOSURE" }
func (c S3ACLExposureCheck) Name() string              { return "S3 ACL Public Grants" }
func (c S3ACLExposureCheck) Severity() models.Severity { return models.SeverityHigh }

func (c S3ACLExposureCheck) Evaluate(ctx CheckContext) models.Finding {
	grants, err := ctx.Client.GetACL(ctx.Context, ctx.Bucket)
	if err != nil {
		return failure(c, err)
	}

	var offending []OffendingGrant
	var msgs []string
	for _, g := range grants {
		group, ok := concerningGrantees[g.Grantee]
		if !ok {
			continue
		}
		offending = append(offending, OffendingGrant{Group: group, Permission: g.Permission})
		msgs = append(msgs, fmt.Sprintf("grants %s to %s globally", g.Permission, groupLabels[group]))
	}
	if len(offending) == 0 {
		return result(c, models.StatusCompliant, "no public ACL grants")
	}
	return result(c, models.StatusNonCompliant, strings.Join(msgs, "; ")).
		WithMetadata("offending_grants", offending)
}
