package topic

import (
	"fmt"

	"golang.org/x/mod/semver"
)

// DevVersion is the version string of builds without release ldflags.
const DevVersion = "(devel)"

// checkRequires enforces a topic's minimum drillz version. Development
// builds accept every topic.
func checkRequires(requires, running string) error {
	if requires == "" {
		return nil
	}
	if !semver.IsValid(requires) {
		return fmt.Errorf("requires: invalid version %q", requires)
	}
	if running == DevVersion || !semver.IsValid(running) {
		return nil
	}
	if semver.Compare(running, requires) < 0 {
		return fmt.Errorf("requires drillz %s or newer (running %s)", requires, running)
	}
	return nil
}
