package models

type Credentials struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type Registration struct {
	Email    string `json:"email"`
	Password string `json:"password"`
	Username string `json:"username"`
	Color    string `json:"color"`
}

type ResetRequest struct {
	Email string `json:"email"`
}

type ColorUpdate struct {
	Color string `json:"color"`
}

// StatusResponse is the generic acknowledgement body. A non-empty Error means
// the backend rejected the request.
type StatusResponse struct {
	Error   string `json:"error,omitempty"`
	Message string `json:"message,omitempty"`
}
