package station

import (
	"fmt"
	"strings"
)

// StreamURLStrategy decides what stream_url a mount reports in /mount_info.
// The resulting URL is schemeless ("host:port/mount") so clients can prepend
// whatever scheme their page was served over.
type StreamURLStrategy string

const (
	// StreamURLHostname uses the Host header of the request being answered.
	StreamURLHostname StreamURLStrategy = "hostname"
	// StreamURLForwardedHost uses X-Forwarded-Host, for reverse proxy setups.
	StreamURLForwardedHost StreamURLStrategy = "x_forwarded_host"
	// StreamURLStatic reports a fixed operator-provided value verbatim.
	StreamURLStatic StreamURLStrategy = "static"
)

// StreamURLSetting pairs a strategy with its static value (only used when
// Strategy is "static").
type StreamURLSetting struct {
	Strategy StreamURLStrategy `yaml:"strategy"`
	Value    string            `yaml:"value,omitempty"`
}

func (s StreamURLSetting) validate() error {
	switch s.Strategy {
	case StreamURLHostname, StreamURLForwardedHost:
		return nil
	case StreamURLStatic:
		if s.Value == "" {
			return fmt.Errorf("stream_url strategy %q needs a value", s.Strategy)
		}
		return nil
	default:
		return fmt.Errorf("unknown stream_url strategy %q", s.Strategy)
	}
}

// Resolve builds the reported URL for a mount. host and forwardedHost come
// from the request currently being answered; either may be empty.
func (s StreamURLSetting) Resolve(mount, host, forwardedHost string) string {
	switch s.Strategy {
	case StreamURLForwardedHost:
		if forwardedHost != "" {
			return forwardedHost + mount
		}
		// No proxy in front after all, fall back to the direct host.
		return host + mount
	case StreamURLStatic:
		return s.Value
	default:
		return host + mount
	}
}

// ParseStreamURLStrategy maps a config string to a StreamURLSetting.
// top-level config carries the strategy and the optional static value as
// two separate keys, unlike mounts.yaml which nests them.
func ParseStreamURLStrategy(strategy, staticValue string) (StreamURLSetting, error) {
	s := StreamURLSetting{
		Strategy: StreamURLStrategy(strings.TrimSpace(strategy)),
		Value:    staticValue,
	}
	if s.Strategy == "" {
		s.Strategy = StreamURLHostname
	}
	if err := s.validate(); err != nil {
		return StreamURLSetting{}, err
	}
	return s, nil
}
