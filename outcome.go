package resolveref

import "github.com/grafana/resolveref/protocol"

type (
	// Outcome is the result of Resolve. Callers switch on Outcome.Kind.
	Outcome = protocol.Outcome
	// OutcomeKind discriminates the variants of Outcome.
	OutcomeKind = protocol.OutcomeKind
	// Result is a resolved ref, set on Outcome when Kind is OutcomeFound.
	Result = protocol.Result
)

const (
	OutcomeFound           = protocol.OutcomeFound
	OutcomeNotFound        = protocol.OutcomeNotFound
	OutcomeNoDefaultBranch = protocol.OutcomeNoDefaultBranch
	OutcomeUsageError      = protocol.OutcomeUsageError
	OutcomeProtocolError   = protocol.OutcomeProtocolError
	OutcomeTransportError  = protocol.OutcomeTransportError
)
