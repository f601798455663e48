package resolve

import "fmt"

// NoPrefixResolvedError reports that every source in the priority order was
// absent and no crate-name fallback was available.
type NoPrefixResolvedError struct {
	Crate    string
	Priority []Source
}

func (e *NoPrefixResolvedError) Error() string {
	return fmt.Sprintf("no prefix resolved for crate %q: every source in priority order %v is absent", e.Crate, e.Priority)
}

// MissingRequiredConfigError reports that the require-config flag is set but
// the config document was never reachable.
type MissingRequiredConfigError struct {
	Crate      string
	ConfigPath string
}

func (e *MissingRequiredConfigError) Error() string {
	if e.ConfigPath == "" {
		return fmt.Sprintf("crate %q requires a config document but SYMFORGE_CONFIG is not set", e.Crate)
	}
	return fmt.Sprintf("crate %q requires a config document but %s is unreadable", e.Crate, e.ConfigPath)
}

// InheritanceViolationError reports that enforce-inherit is set but the
// selection came from a crate-local source instead of an inherited one.
type InheritanceViolationError struct {
	Crate    string
	Selected string
}

func (e *InheritanceViolationError) Error() string {
	return fmt.Sprintf(
		"crate %q selected crate-local prefix source %q while inheritance is enforced; expected one of %v or an explicit override",
		e.Crate, e.Selected, inheritedSources(),
	)
}

func inheritedSources() []Source {
	return []Source{SourceAttr, SourceEnvPrefix, SourceConfig, SourceTopPackage, SourceWorkspace}
}

func isInherited(selected string) bool {
	for _, s := range inheritedSources() {
		if string(s) == selected {
			return true
		}
	}
	return false
}
