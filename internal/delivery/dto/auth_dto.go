package dto

// Request DTOs

// LoginRequest tries veterinarians first, then owners, unless Role narrows it.
type LoginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
	Role     string `json:"role" validate:"omitempty,oneof=owner vet"`
}

type RefreshTokenRequest struct {
	RefreshToken string `json:"refresh_token" validate:"required"`
}

type LogoutRequest struct {
	RefreshToken string `json:"refresh_token"`
}

// Response DTOs

type TokenResponse struct {
	AccessToken  string `json:"access_token"`
	RefreshToken string `json:"refresh_token"`
	ExpiresIn    int64  `json:"expires_in"`
	Role         string `json:"role"`
}

type MeResponse struct {
	Role         string                `json:"role"`
	Owner        *OwnerResponse        `json:"owner,omitempty"`
	Veterinarian *VeterinarianResponse `json:"veterinarian,omitempty"`
}
