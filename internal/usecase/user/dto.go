package user

// ListUsersRequest carries the optional substring filter for listing users.
// Filter is ignored unless Value is also set.
type ListUsersRequest struct {
	Filter string `json:"filter" validate:"omitempty,oneof=username displayName"`
	Value  string `json:"value"`
}

// ListUsersResponse represents the response payload for user listing.
type ListUsersResponse struct {
	Users []User
}

// CreateUserRequest represents the request payload for creating a new user.
type CreateUserRequest struct {
	Username    string `json:"username" validate:"required,min=5,max=32"`
	DisplayName string `json:"displayName" validate:"required,max=64"`
}

// GetUserRequest represents the request payload for retrieving a user.
type GetUserRequest struct {
	ID int64
}

// ReplaceUserRequest replaces every field of an existing user except its id.
type ReplaceUserRequest struct {
	ID          int64  `json:"id"`
	Username    string `json:"username" validate:"required,min=5,max=32"`
	DisplayName string `json:"displayName" validate:"required,max=64"`
}

// PatchUserRequest updates only the fields that are set.
type PatchUserRequest struct {
	ID          int64   `json:"id"`
	Username    *string `json:"username" validate:"omitnil,min=5,max=32"`
	DisplayName *string `json:"displayName" validate:"omitnil,min=1,max=64"`
}

// DeleteUserRequest represents the request payload for deleting a user.
type DeleteUserRequest struct {
	ID int64
}

// DeleteUserResponse represents the response payload after deleting a user.
type DeleteUserResponse struct {
	ID int64
}

// User represents a user DTO (Data Transfer Object) for API responses.
type User struct {
	ID          int64
	Username    string
	DisplayName string
}
