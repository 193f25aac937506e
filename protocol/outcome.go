package protocol

import (
	"net/http"
)

// Result is a resolved ref.
type Result struct {
	// SHA is the hex encoded id of the commit the ref points to.
	SHA string `json:"sha"`
	// FQRef is the fully-qualified name of the matched ref.
	FQRef string `json:"fqRef"`
}

// OutcomeKind discriminates the variants of Outcome.
type OutcomeKind int

const (
	// OutcomePending is only returned by Scanner.Feed while more data is needed.
	OutcomePending OutcomeKind = iota
	// OutcomeFound carries a Result.
	OutcomeFound
	// OutcomeNotFound means the advertisement was read in full and no ref matched. It is not an error.
	OutcomeNotFound
	// OutcomeNoDefaultBranch means no ref was requested and the server did not advertise HEAD,
	// as happens for empty repositories.
	OutcomeNoDefaultBranch
	// OutcomeUsageError means the query was invalid. No request was made.
	OutcomeUsageError
	// OutcomeProtocolError means the server answered with something other than a usable advertisement.
	OutcomeProtocolError
	// OutcomeTransportError means the request never got a response.
	OutcomeTransportError
)

func (k OutcomeKind) String() string {
	switch k {
	case OutcomePending:
		return "pending"
	case OutcomeFound:
		return "found"
	case OutcomeNotFound:
		return "not-found"
	case OutcomeNoDefaultBranch:
		return "no-default-branch"
	case OutcomeUsageError:
		return "usage-error"
	case OutcomeProtocolError:
		return "protocol-error"
	case OutcomeTransportError:
		return "transport-error"
	default:
		return "unknown"
	}
}

// Outcome is the result of resolving a single ref. Callers switch on Kind.
type Outcome struct {
	Kind OutcomeKind
	// Result is set when Kind is OutcomeFound.
	Result Result
	// StatusCode and Status are set when Kind is OutcomeProtocolError.
	StatusCode int
	Status     string
	// Err is set for OutcomeUsageError, OutcomeProtocolError and OutcomeTransportError.
	Err error
}

// Pending returns the non-terminal outcome of the scanner.
func Pending() Outcome {
	return Outcome{Kind: OutcomePending}
}

// Found returns an outcome carrying r.
func Found(r Result) Outcome {
	return Outcome{Kind: OutcomeFound, Result: r}
}

// NotFound returns the outcome of an advertisement without a matching ref.
func NotFound() Outcome {
	return Outcome{Kind: OutcomeNotFound}
}

// NoDefaultBranch returns the outcome of an advertisement without a HEAD symref.
func NoDefaultBranch() Outcome {
	return Outcome{Kind: OutcomeNoDefaultBranch}
}

// UsageFailure returns the outcome of an invalid query.
func UsageFailure(err error) Outcome {
	return Outcome{Kind: OutcomeUsageError, Err: err}
}

// ProtocolFailure returns the outcome of an unusable server response.
func ProtocolFailure(statusCode int, status string, err error) Outcome {
	return Outcome{Kind: OutcomeProtocolError, StatusCode: statusCode, Status: status, Err: err}
}

// TransportFailure returns the outcome of a request that never got a response.
func TransportFailure(err error) Outcome {
	return Outcome{Kind: OutcomeTransportError, Err: err}
}

// Terminal reports whether the outcome is final.
func (o Outcome) Terminal() bool {
	return o.Kind != OutcomePending
}

// RepositoryNotFound reports whether the outcome is the not-found flavour of a protocol error:
// the repository does not exist or is not visible with the credentials supplied.
func (o Outcome) RepositoryNotFound() bool {
	return o.Kind == OutcomeProtocolError && o.StatusCode == http.StatusNotFound
}

// Error returns the error carried by a failed outcome and nil for Pending, Found, NotFound and
// NoDefaultBranch.
func (o Outcome) Error() error {
	switch o.Kind {
	case OutcomeUsageError, OutcomeProtocolError, OutcomeTransportError:
		return o.Err
	default:
		return nil
	}
}
