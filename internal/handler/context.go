package handler

type ContextKey string

var (
	RoleCtxKey    ContextKey = "role"
	SubCtxKey     ContextKey = "sub"
	BaristaCtxKey ContextKey = "barista"
)

const (
	RoleAdmin  = "admin"
	RoleMember = "member"
)
