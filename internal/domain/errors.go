package domain

import (
	"errors"
	"fmt"
)

// Kind classifies a pipeline failure.
// Every fatal kind aborts the whole run; only optional kinds are
// downgraded to warnings by the callers that encounter them.
type Kind int

const (
	// KindConfiguration covers operator mistakes: wrong argument count,
	// unknown architecture token, malformed config file.
	KindConfiguration Kind = iota
	// KindMissingPrerequisite means a required input directory is absent,
	// e.g. the version scan root.
	KindMissingPrerequisite
	// KindNetwork means a package download failed.
	KindNetwork
	// KindMandatoryArtifact means the shared client library was not found
	// in an extracted package. Mapped to its own exit code so callers can
	// tell it apart from generic failures.
	KindMandatoryArtifact
	// KindOptionalArtifact means an API-definitions directory was absent
	// in a package. Recoverable; callers log a warning and continue.
	KindOptionalArtifact
	// KindExternalTool means an invoked tool returned a non-zero status.
	KindExternalTool
)

func (k Kind) String() string {
	switch k {
	case KindConfiguration:
		return "configuration"
	case KindMissingPrerequisite:
		return "missing_prerequisite"
	case KindNetwork:
		return "network"
	case KindMandatoryArtifact:
		return "mandatory_artifact"
	case KindOptionalArtifact:
		return "optional_artifact"
	case KindExternalTool:
		return "external_tool"
	}
	return "unknown"
}

// OpError is the error type surfaced by pipeline components.
// Op names the failed operation, Path the filesystem or URL subject.
type OpError struct {
	Op   string
	Kind Kind
	Path string
	Err  error
}

func (e *OpError) Error() string {
	msg := fmt.Sprintf("%s: %s", e.Op, e.Kind)
	if e.Path != "" {
		msg += " " + e.Path
	}
	if e.Err != nil {
		msg += ": " + e.Err.Error()
	}
	return msg
}

func (e *OpError) Unwrap() error { return e.Err }

// Is lets errors.Is match on a bare &OpError{Kind: ...} probe.
func (e *OpError) Is(target error) bool {
	var other *OpError
	if !errors.As(target, &other) {
		return false
	}
	return e.Kind == other.Kind
}

// KindOf reports the Kind carried by err, or ok=false when err has no
// OpError in its chain.
func KindOf(err error) (Kind, bool) {
	var oe *OpError
	if errors.As(err, &oe) {
		return oe.Kind, true
	}
	return 0, false
}

// Exit codes for the CLI. The shared library being absent gets its own
// code so downstream build scripts can distinguish it from fetch errors.
const (
	ExitFailure         = 1
	ExitLibraryNotFound = 2
)

// ExitCode maps an error to the process exit status.
func ExitCode(err error) int {
	if err == nil {
		return 0
	}
	if kind, ok := KindOf(err); ok && kind == KindMandatoryArtifact {
		return ExitLibraryNotFound
	}
	return ExitFailure
}
