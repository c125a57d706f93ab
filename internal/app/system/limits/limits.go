// internal/app/system/limits/limits.go
package limits

// Request body size limits for various features.
// These limits help prevent memory exhaustion from oversized requests.
const (
	// MaxJSONBodySize is the maximum size for JSON request bodies on
	// lead, user, and review endpoints.
	// Note: CSV uploads use ParseMultipartForm with a separate limit.
	MaxJSONBodySize = 1 << 20 // 1 MB
)
