package model

type User struct {
	UserID    string `json:"user_id"`
	Email     string `json:"email"`
	FullName  string `json:"full_name"`
	State     string `json:"state"`
	Photo     string `json:"photo,omitempty"`
	CreatedAt string `json:"created_at"`
}

// TokenResponse is returned by every endpoint that signs a user in.
type TokenResponse struct {
	AccessToken string `json:"access_token"`
	TokenType   string `json:"token_type"`
	User        User   `json:"user"`
	// RequiresTwoFactor is set instead of a token when the account has
	// two-factor authentication enabled.
	RequiresTwoFactor bool `json:"requires_2fa,omitempty"`
}

type LoginInput struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

func (in LoginInput) Validate() error {
	if err := required("email", in.Email); err != nil {
		return err
	}
	return required("password", in.Password)
}

type RegisterInput struct {
	Email    string `json:"email"`
	Password string `json:"password"`
	FullName string `json:"full_name"`
	State    string `json:"state"`
}

func (in RegisterInput) Validate() error {
	if err := required("email", in.Email); err != nil {
		return err
	}
	if len(in.Password) < 8 {
		return invalid("password", "must be at least 8 characters")
	}
	if err := required("full_name", in.FullName); err != nil {
		return err
	}
	return required("state", in.State)
}

type ProfileInput struct {
	FullName string `json:"full_name"`
	State    string `json:"state"`
	Photo    string `json:"photo,omitempty"`
}

func (in ProfileInput) Validate() error {
	return required("full_name", in.FullName)
}

type TwoFactorStatus struct {
	Enabled bool `json:"enabled"`
}
