package traffic

import (
	"fmt"
	"slices"
	"strings"
	"time"
)

// Endpoint is one kind of request the generator can send.
type Endpoint struct {
	Name   string
	Method string
	Path   string
}

// Endpoints the generator knows about, in default rotation order.
var (
	EndpointRoot   = Endpoint{Name: "root", Method: "GET", Path: "/"}
	EndpointHealth = Endpoint{Name: "health", Method: "GET", Path: "/health"}
	EndpointUsers  = Endpoint{Name: "users", Method: "GET", Path: "/api/users"}
	EndpointCreate = Endpoint{Name: "create", Method: "POST", Path: "/api/users"}
	EndpointSlow   = Endpoint{Name: "slow", Method: "GET", Path: "/api/slow"}
	EndpointError  = Endpoint{Name: "error", Method: "GET", Path: "/api/error"}
)

// AllEndpoints returns every known endpoint.
func AllEndpoints() []Endpoint {
	return []Endpoint{EndpointHealth, EndpointUsers, EndpointCreate, EndpointSlow, EndpointError, EndpointRoot}
}

// ParseEndpoints resolves a comma separated list of endpoint names. An empty
// list selects every endpoint.
func ParseEndpoints(list string) ([]Endpoint, error) {
	all := AllEndpoints()
	if strings.TrimSpace(list) == "" {
		return all, nil
	}

	var out []Endpoint
	for _, name := range strings.Split(list, ",") {
		name = strings.ToLower(strings.TrimSpace(name))
		if name == "" {
			continue
		}
		i := slices.IndexFunc(all, func(e Endpoint) bool { return e.Name == name })
		if i < 0 {
			return nil, fmt.Errorf("%w: %q", ErrUnknownEndpoint, name)
		}
		if !slices.Contains(out, all[i]) {
			out = append(out, all[i])
		}
	}
	if len(out) == 0 {
		return nil, fmt.Errorf("%w: empty list", ErrUnknownEndpoint)
	}
	return out, nil
}

// Config holds configuration for a traffic run.
type Config struct {
	BaseURL   string        // Base URL of the API
	Requests  int           // Number of requests to send
	Workers   int           // Number of concurrent workers
	Timeout   time.Duration // HTTP request timeout
	Endpoints []Endpoint    // Endpoints to rotate through
	LogFile   string        // Optional log file
	Verbose   bool          // Log every request
}

// Validate checks the run configuration.
func (c *Config) Validate() error {
	switch {
	case c.BaseURL == "":
		return fmt.Errorf("%w: url is required", ErrInvalidConfig)
	case c.Requests <= 0:
		return fmt.Errorf("%w: requests must be positive", ErrInvalidConfig)
	case c.Workers <= 0:
		return fmt.Errorf("%w: workers must be positive", ErrInvalidConfig)
	case c.Timeout <= 0:
		return fmt.Errorf("%w: timeout must be positive", ErrInvalidConfig)
	case len(c.Endpoints) == 0:
		return fmt.Errorf("%w: no endpoints", ErrInvalidConfig)
	}
	return nil
}
