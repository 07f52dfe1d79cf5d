package core

import "strings"

// Environment is the APP_ENV the catalog runs under. It only changes how logs look.
type Environment string

const (
	Development Environment = "development"
	Testing     Environment = "testing"
	Production  Environment = "production"
)

func (e Environment) String() string {
	return string(e)
}

// IsProduction production writes JSON log lines instead of the console format.
func (e Environment) IsProduction() bool {
	return e == Production
}

// ParseEnvironment reads APP_ENV ignoring case and blanks. "prod", "test" and "dev"
// are accepted as short forms; anything unrecognised is Development.
func ParseEnvironment(v string) Environment {
	switch strings.ToLower(strings.TrimSpace(v)) {
	case "production", "prod":
		return Production
	case "testing", "test":
		return Testing
	default:
		return Development
	}
}
