package auth

// OAuth scopes understood by the API.
const (
	ScopeActivitiesRead  = "activities:read"
	ScopeActivitiesWrite = "activities:write"
	ScopeProfileRead     = "profile:read"
	ScopeProfileWrite    = "profile:write"
)
