package config

const (
	DefaultHost        = "0.0.0.0"
	DefaultPort        = 8000
	DefaultEnvironment = "development"
	DefaultAPIPrefix   = "/api/v1"
	DefaultLogLevel    = "info"

	DefaultRateLimitPerMinute = 60

	// Upstream analytics backend
	DefaultUpstreamURL            = "http://localhost:5002"
	DefaultUpstreamTimeoutSeconds = 15

	// Dev upstream simulator
	DefaultSimulatorPort   = 5002
	DefaultSimulatorFormat = "array"

	DefaultBigQueryLocation = "US"

	DefaultAgentTimeout = 120 // seconds
)

var DefaultCORSOrigins = []string{
	"http://localhost:3000",
	"http://localhost:8080",
}
