package models

// DefaultRole is assigned to a profile built from a login response, which
// does not carry the role.
const DefaultRole = "user"

// UserProfile is the cached principal.
type UserProfile struct {
	ID          ID     `json:"id"`
	Name        string `json:"name"`
	Email       string `json:"email"`
	Role        string `json:"role"`
	PhoneNumber string `json:"phoneNumber,omitempty"`
	Bio         string `json:"bio,omitempty"`
	CreatedAt   string `json:"createdAt,omitempty"`
	UpdatedAt   string `json:"updatedAt,omitempty"`
}

type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// LoginResponse is the minimal shape returned by POST /users/login.
type LoginResponse struct {
	JWTToken string `json:"jwtToken"`
	UserName string `json:"userName"`
	UserID   ID     `json:"userId"`
}

// Profile builds the interim principal for a successful login.
func (r LoginResponse) Profile(email string) *UserProfile {
	return &UserProfile{
		ID:    r.UserID,
		Name:  r.UserName,
		Email: email,
		Role:  DefaultRole,
	}
}

// RegisterRequest always sends bio and phoneNumber, empty if unset.
type RegisterRequest struct {
	Email       string `json:"email"`
	Password    string `json:"password"`
	Name        string `json:"name"`
	Role        string `json:"role"`
	PhoneNumber string `json:"phoneNumber"`
	Bio         string `json:"bio"`
}

type UpdateProfileRequest struct {
	Name        string `json:"name,omitempty"`
	PhoneNumber string `json:"phoneNumber,omitempty"`
	Bio         string `json:"bio,omitempty"`
}

type ForgotPasswordRequest struct {
	Email string `json:"email"`
}

// Follow is one row of the followers/following lists. The identity service
// is not consistent about which id field it fills.
type Follow struct {
	ID          ID           `json:"id,omitempty"`
	FollowerID  ID           `json:"followerId,omitempty"`
	FollowingID ID           `json:"followingId,omitempty"`
	TargetID    ID           `json:"targetId,omitempty"`
	User        *UserProfile `json:"user,omitempty"`
}

// Refers reports whether any of the id fields equals id.
func (f Follow) Refers(id string) bool {
	return id != "" &&
		(string(f.FollowingID) == id || string(f.TargetID) == id || string(f.FollowerID) == id)
}

type FollowersResponse struct {
	Followers []Follow `json:"followers"`
	Count     int      `json:"count"`
}

type FollowingResponse struct {
	Following []Follow `json:"following"`
	Count     int      `json:"count"`
}
