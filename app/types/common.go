package types

// UserRefContextKey is where the auth middleware stores the caller
// identity taken from the User-Id header.
const UserRefContextKey = "userRef"

type ErrorResponse struct {
	Error string `json:"error"`
}

type MessageResponse struct {
	Message string `json:"message"`
}

type HealthResponse struct {
	Status string `json:"status"`
}
