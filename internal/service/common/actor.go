//nolint:revive,nolintlint // Package name "common" is intentional for shared helpers.
package common

import (
	"fmt"
	"os"
	"os/user"
)

// Actor identifies who runs the pipeline; it is only used for the run banner.
type Actor struct {
	// Hostname is the machine the pipeline runs on.
	Hostname string
	// Username is the operating system account running the pipeline.
	Username string
}

// DetectActor gathers host and user information for the run banner.
func DetectActor() (*Actor, error) {
	hostname, err := os.Hostname()
	if err != nil {
		return nil, fmt.Errorf("hostname: %w", err)
	}

	currentUser, err := user.Current()
	if err != nil {
		return nil, fmt.Errorf("current user: %w", err)
	}

	return &Actor{
		Hostname: hostname,
		Username: currentUser.Username,
	}, nil
}

// String formats the actor as user@host.
func (a *Actor) String() string {
	return a.Username + "@" + a.Hostname
}
