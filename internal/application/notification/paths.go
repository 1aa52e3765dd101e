package notification

import (
	"net/url"

	"github.com/go-feeding-dashboard/internal/domain"
)

const feedPrefix = "/api/notifications/"

// scope names the session field a role's feed is keyed by. Roles mapped to
// "" have an unscoped feed.
var scope = map[domain.Role]string{
	domain.RoleAdmin:      "",
	domain.RoleGovernment: "",
	domain.RoleDistrict:   domain.KeyDistrictID,
	domain.RoleSchool:     domain.KeySchoolID,
	domain.RoleSupplier:   domain.KeyUserID,
	domain.RoleStock:      domain.KeyUserID,
}

// FeedPath returns the backend path of r's feed for sess. It reports false
// when r is unknown or the scoping id r needs is missing from sess.
func FeedPath(r domain.Role, sess *domain.Session) (string, bool) {
	key, ok := scope[r]
	if !ok {
		return "", false
	}
	base := feedPrefix + string(r)
	if key == "" {
		return base, true
	}
	var id string
	switch key {
	case domain.KeyDistrictID:
		id = sess.DistrictID
	case domain.KeySchoolID:
		id = sess.SchoolID
	case domain.KeyUserID:
		id = sess.UserID
	}
	if id == "" {
		return "", false
	}
	return base + "/" + url.PathEscape(id), true
}
