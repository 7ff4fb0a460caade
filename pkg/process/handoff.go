package process

// Handoff replaces the current process with a follow-up command once all
// checks have passed, e.g. `precheck -- git push`.
type Handoff interface {
	Exec(name string, args []string) error
}

// RealHandoff is the production implementation.
type RealHandoff struct{}
