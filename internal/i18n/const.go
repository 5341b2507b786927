package i18n

// Common errors
var (
	ErrNotFound       = NewErrorWithCode("ErrorResourceNotFound", ErrorNotFound)
	ErrUnauthorized   = NewErrorWithCode("ErrorUnauthorized", ErrorUnauthorized)
	ErrForbidden      = NewErrorWithCode("ErrorForbidden", ErrorForbidden)
	ErrBadRequest     = NewErrorWithCode("ErrorBadRequest", ErrorBadRequest)
	ErrInternalServer = NewErrorWithCode("ErrorInternalServer", ErrorInternalServer)
)

// Tenant related errors
var (
	ErrorTenantNotFound       = NewErrorWithCode("ErrorTenantNotFound", ErrorNotFound)
	ErrorTenantRequiredFields = NewErrorWithCode("ErrorTenantRequiredFields", ErrorBadRequest)
	ErrorTenantIDExists       = NewErrorWithCode("ErrorTenantIDExists", ErrorConflict)
	ErrorTenantSlugExists     = NewErrorWithCode("ErrorTenantSlugExists", ErrorConflict)
	ErrorTenantArchived       = NewErrorWithCode("ErrorTenantArchived", ErrorNotFound)
)

// Workflow related errors
var (
	ErrorPermissionDenied       = NewErrorWithCode("ErrorPermissionDenied", ErrorForbidden)
	ErrorNoPendingChanges       = NewErrorWithCode("ErrorNoPendingChanges", ErrorBadRequest)
	ErrorInvalidStateTransition = NewErrorWithCode("ErrorInvalidStateTransition", ErrorBadRequest)
	ErrorConcurrentModification = NewErrorWithCode("ErrorConcurrentModification", ErrorConflict)
)

// User related errors
var (
	ErrorUserNotFound             = NewErrorWithCode("ErrorUserNotFound", ErrorNotFound)
	ErrorInvalidCredentials       = NewErrorWithCode("ErrorInvalidCredentials", ErrorUnauthorized)
	ErrorUserDisabled             = NewErrorWithCode("ErrorUserDisabled", ErrorForbidden)
	ErrorEmailPasswordRequired    = NewErrorWithCode("ErrorEmailPasswordRequired", ErrorBadRequest)
	ErrorInvalidOldPassword       = NewErrorWithCode("ErrorInvalidOldPassword", ErrorForbidden)
	ErrorEmailExists              = NewErrorWithCode("ErrorEmailExists", ErrorConflict)
	ErrorInvalidRole              = NewErrorWithCode("ErrorInvalidRole", ErrorBadRequest)
)

// Notification related errors
var (
	ErrorNotificationNotFound = NewErrorWithCode("ErrorNotificationNotFound", ErrorNotFound)
)

// Success message IDs
const (
	SuccessDraftSubmitted   = "SuccessDraftSubmitted"
	SuccessChangesPublished = "SuccessChangesPublished"
	SuccessChangesEscalated = "SuccessChangesEscalated"
	SuccessTenantCreated    = "SuccessTenantCreated"
	SuccessTenantUpdated    = "SuccessTenantUpdated"
	SuccessTenantArchived   = "SuccessTenantArchived"
	SuccessTenantUnarchived = "SuccessTenantUnarchived"
	SuccessTenantDeleted    = "SuccessTenantDeleted"
	SuccessUserCreated      = "SuccessUserCreated"
	SuccessUserUpdated      = "SuccessUserUpdated"
	SuccessUserDeleted      = "SuccessUserDeleted"
	SuccessPasswordChanged  = "SuccessPasswordChanged"
	SuccessNotificationRead = "SuccessNotificationRead"
)
