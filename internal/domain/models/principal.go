package models

// Principal is the actor making a request. The zero value is anonymous.
type Principal struct {
	ID              int64
	Username        string
	IsAdmin         bool
	IsAuthenticated bool
}

// Anonymous returns the unauthenticated principal.
func Anonymous() Principal {
	return Principal{}
}

// NewPrincipal builds an authenticated principal for a stored user.
func NewPrincipal(user *User) Principal {
	return Principal{
		ID:              user.ID,
		Username:        user.Username,
		IsAdmin:         user.IsAdmin,
		IsAuthenticated: true,
	}
}
