package domain

// Storage keys shared by every session backend. All six are written
// together on login and removed together on logout.
const (
	KeyToken      = "token"
	KeyUser       = "user"
	KeyRole       = "role"
	KeyDistrictID = "districtId"
	KeySchoolID   = "schoolId"
	KeyUserID     = "userId"
)

// SessionKeys lists every key owned by the session store, in write order.
var SessionKeys = []string{KeyToken, KeyUser, KeyRole, KeyDistrictID, KeySchoolID, KeyUserID}

// Profile is the identity payload returned by the backend on login and
// persisted as JSON under KeyUser.
type Profile struct {
	ID       string `json:"id"`
	Names    string `json:"names"`
	Email    string `json:"email"`
	Phone    string `json:"phone,omitempty"`
	District string `json:"district,omitempty"`
	School   string `json:"school,omitempty"`
}

// Session is the authenticated identity held by this agent instance.
// A persisted Session always has a non-empty Token and Role.
type Session struct {
	Token      string   `json:"-"`
	Role       string   `json:"role"`
	DistrictID string   `json:"district_id"`
	SchoolID   string   `json:"school_id"`
	UserID     string   `json:"user_id"`
	Profile    *Profile `json:"user,omitempty"`
}

// Valid reports whether s satisfies the no-partial-session invariant.
func (s *Session) Valid() bool {
	return s != nil && s.Token != "" && s.Role != ""
}
