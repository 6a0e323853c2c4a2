package util

import (
	"fmt"
	"os"
	"regexp"
)

var userAgentRe = regexp.MustCompile(`^([a-zA-Z_-]+)/([^ ]+) \(sha:([^;]*); hostname:([^)]*)\)$`)

// UserAgent - identifies the exporter build to the remote API
type UserAgent struct {
	Name      string
	Version   string
	CommitSHA string
	HostName  string
}

// NewUserAgent -
func NewUserAgent(name, version, commitSHA string) *UserAgent {
	hostName, _ := os.Hostname()
	return &UserAgent{
		Name:      name,
		Version:   version,
		CommitSHA: commitSHA,
		HostName:  hostName,
	}
}

// FormatUserAgent - renders the User-Agent header value, empty when name or version are unknown
func (ua *UserAgent) FormatUserAgent() string {
	if ua.Name == "" || ua.Version == "" {
		return ""
	}
	return fmt.Sprintf("%s/%s (sha:%s; hostname:%s)", ua.Name, ua.Version, ua.CommitSHA, ua.HostName)
}

// ParseUserAgent - reverses FormatUserAgent, nil when the value does not match
func ParseUserAgent(userAgent string) *UserAgent {
	matches := userAgentRe.FindStringSubmatch(userAgent)
	if len(matches) != 5 {
		return nil
	}
	return &UserAgent{
		Name:      matches[1],
		Version:   matches[2],
		CommitSHA: matches[3],
		HostName:  matches[4],
	}
}
