// shared/registry/types.go
package registry

// ServiceInfo is the registry entry of one running instance, stored as JSON in Redis.
type ServiceInfo struct {
	ServiceID   string            `json:"serviceId"`
	ServiceType string            `json:"serviceType"`
	IP          string            `json:"ip"`
	Port        int               `json:"port"`
	LastSeen    int64             `json:"last_seen"` // unix milliseconds
	Metadata    map[string]string `json:"metadata,omitempty"`
}
