// shared/registry/constants.go
package registry

const (
	// RedisRegistryHashPrefix prefixes the hash holding every instance of a service type,
	// e.g. "services:league-service".
	RedisRegistryHashPrefix = "services:"

	// ServiceVersion is advertised in each instance's metadata.
	ServiceVersion = "1.0"
)

func hashKey(serviceType string) string {
	return RedisRegistryHashPrefix + serviceType
}
