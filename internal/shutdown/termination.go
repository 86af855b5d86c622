package shutdown

import (
	"fmt"
	"io"
	"os"
	"sync"

	cn "github.com/LerianStudio/snyk-gc-projects/constant"
	libErr "github.com/LerianStudio/snyk-gc-projects/error"
)

// Handler terminates the process with the given exit code
type Handler func(code int)

// DefaultHandler exits the process
func DefaultHandler(code int) {
	os.Exit(code)
}

// Manager handles termination behavior
type Manager struct {
	handler Handler
	out     io.Writer
	mu      sync.RWMutex
}

// New creates a new termination manager that reports to stderr and exits
func New() *Manager {
	return &Manager{
		handler: DefaultHandler,
		out:     os.Stderr,
	}
}

// SetHandler updates the termination handler
func (m *Manager) SetHandler(handler Handler) {
	if handler == nil {
		return
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	m.handler = handler
}

// SetOutput changes where the termination message is written
func (m *Manager) SetOutput(out io.Writer) {
	if out == nil {
		return
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	m.out = out
}

// Terminate reports err and invokes the handler with its exit code.
// A nil err is a no-op.
func (m *Manager) Terminate(err error) {
	if err == nil {
		return
	}

	m.mu.RLock()
	handler, out := m.handler, m.out
	m.mu.RUnlock()

	fmt.Fprintf(out, "Error: %v\n", err)

	if hint := Hint(err); hint != "" {
		fmt.Fprintln(out, hint)
	}

	handler(ExitCode(err))
}

// ExitCode maps an error to the process exit status
func ExitCode(err error) int {
	switch {
	case err == nil:
		return 0
	case libErr.IsConfigurationError(err):
		return cn.ExitCodeConfiguration
	default:
		return cn.ExitCodeFailure
	}
}

// Hint returns operator guidance for well-known failures
func Hint(err error) string {
	switch {
	case libErr.IsUnauthorized(err):
		return "Check that the API token is valid and has access to the organization."
	case libErr.IsServerError(err):
		return "The Snyk API returned a server error; projects not yet checked were left untouched. Re-run later."
	case libErr.IsConnectionError(err):
		return "Could not reach the Snyk API; check the network and --api_url."
	}

	return ""
}
