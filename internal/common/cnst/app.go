package cnst

const (
	// AppName is the service name used for logging, metrics and tracing
	AppName = "lumina-apiserver"

	// ApiServerYaml is the default apiserver configuration file
	ApiServerYaml = "configs/apiserver.yaml"
)

// Gin context keys
const (
	// XLang carries the request's language preference
	XLang = "X-Lang"
	// ContextClaims carries the authenticated JWT claims
	ContextClaims = "claims"
)
