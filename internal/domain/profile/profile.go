package profile

// UserProfile is the account information shown on the profile screen
type UserProfile struct {
	ID                int64  `json:"id"`
	Username          string `json:"username"`
	Email             string `json:"email"`
	Role              string `json:"role"`
	IsAdmin           bool   `json:"isAdmin"`
	HasProfilePicture bool   `json:"hasProfilePicture"`
}

// UpdateRequest carries the mutable profile fields. Empty fields are
// left unchanged by the backend.
type UpdateRequest struct {
	Email    string `json:"email,omitempty" validate:"omitempty,email"`
	Password string `json:"password,omitempty" validate:"omitempty,min=6"`
}

// Address is a saved shipping address
type Address struct {
	ID           int64  `json:"id,omitempty"`
	FullName     string `json:"fullName" validate:"required"`
	AddressLine1 string `json:"addressLine1" validate:"required"`
	AddressLine2 string `json:"addressLine2,omitempty"`
	City         string `json:"city" validate:"required"`
	State        string `json:"state" validate:"required"`
	ZipCode      string `json:"zipCode" validate:"required"`
	Country      string `json:"country" validate:"required"`
	IsDefault    bool   `json:"isDefault"`
}

// PaymentMethod is a saved card summary. Only the last four digits are
// ever held client side.
type PaymentMethod struct {
	ID         int64  `json:"id,omitempty"`
	CardHolder string `json:"cardHolder" validate:"required"`
	CardType   string `json:"cardType" validate:"required"`
	Last4      string `json:"last4" validate:"required,len=4,numeric"`
	ExpiryDate string `json:"expiryDate" validate:"required"`
	IsDefault  bool   `json:"isDefault"`
}
