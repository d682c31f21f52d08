package user

// Roles a user can register with. The UI layer picks the dashboard
// from this value alone.
const (
	RoleCreator    = "creator"
	RoleInfluencer = "influencer"
	RoleSponsor    = "sponsor"
)

type User struct {
	ID             int    `json:"id"`
	Name           string `json:"name"`
	Email          string `json:"email"`
	PasswordHash   string `json:"-"` // never expose hash in JSON
	ProfilePicture string `json:"profilePicture,omitempty"`
	Role           string `json:"role"`
}

// CreateUserRequest carries the fields a caller supplies at registration.
// Password is the raw password; the store hashes it before persisting.
type CreateUserRequest struct {
	Name           string
	Email          string
	Password       string
	ProfilePicture string
	Role           string
}

// Public is the snapshot of a user that is safe to hand to clients and
// to cache in a session. It never carries the password hash.
type Public struct {
	ID             int    `json:"id"`
	Name           string `json:"name"`
	Email          string `json:"email"`
	ProfilePicture string `json:"profilePicture,omitempty"`
	Role           string `json:"role"`
}

// PublicView strips a full record down to its public snapshot.
func (u User) PublicView() Public {
	return Public{
		ID:             u.ID,
		Name:           u.Name,
		Email:          u.Email,
		ProfilePicture: u.ProfilePicture,
		Role:           u.Role,
	}
}

func ValidRole(role string) bool {
	switch role {
	case RoleCreator, RoleInfluencer, RoleSponsor:
		return true
	default:
		return false
	}
}
