package user

import "context"

// Usecase defines the interface for user business logic operations.
type Usecase interface {
	ListUsers(ctx context.Context, in ListUsersRequest) (*ListUsersResponse, error)
	CreateUser(ctx context.Context, in CreateUserRequest) (*User, error)
	GetUser(ctx context.Context, in GetUserRequest) (*User, error)
	ReplaceUser(ctx context.Context, in ReplaceUserRequest) (*User, error)
	PatchUser(ctx context.Context, in PatchUserRequest) (*User, error)
	DeleteUser(ctx context.Context, in DeleteUserRequest) (*DeleteUserResponse, error)
	ResolveUserIndex(ctx context.Context, id int64) (int, error)
}
