package protocol

import (
	"bytes"
	"net/http"
	"regexp"
	"slices"
)

// ScanState is the position of a Scanner in the advertisement.
type ScanState int

const (
	StateAwaitingHeader ScanState = iota
	StateHeaderComplete
	StateScanning
	StateMatched
	StateExhausted
	StateFailed
)

func (s ScanState) String() string {
	switch s {
	case StateAwaitingHeader:
		return "awaiting-header"
	case StateHeaderComplete:
		return "header-complete"
	case StateScanning:
		return "scanning"
	case StateMatched:
		return "matched"
	case StateExhausted:
		return "exhausted"
	case StateFailed:
		return "failed"
	default:
		return "unknown"
	}
}

// headerLines is the number of logical lines before the first scanned ref.
// The service announcement is line one. The flush-pkt that follows it has no LF,
// so it shares line two with the first advertised ref and its capabilities.
const headerLines = 2

// maxLineSize bounds a logical line. The flush-pkt that shares the second header line
// with the first ref is the only thing that may precede a full pkt-line.
const maxLineSize = PktLineLengthSize + MaxPktLineSize

var (
	serviceAnnouncement = []byte("# service=" + ServiceUploadPack)
	symrefHead          = regexp.MustCompile(`symref=HEAD:(\S+)`)
)

// Scanner matches a requested ref against a smart-HTTP ref advertisement as it arrives.
//
// Bytes are pushed with Feed in the order they were received, in chunks of any size.
// Feed never blocks and returns OutcomePending until the outcome is known. Once the outcome
// is terminal the scanner ignores further input. Finish must be called when the body ends.
//
// A Scanner is single use and not safe for concurrent use.
type Scanner struct {
	requested string
	terms     []string

	// pending holds the incomplete line at the end of the last chunk.
	pending []byte
	header  [][]byte

	state   ScanState
	outcome Outcome
}

// NewScanner returns a Scanner for ref. An empty ref resolves the default branch.
func NewScanner(ref string) *Scanner {
	return &Scanner{
		requested: ref,
		terms:     SearchTerms(ref),
		state:     StateAwaitingHeader,
		outcome:   Pending(),
	}
}

// State returns the current scanner state.
func (s *Scanner) State() ScanState {
	return s.state
}

// SearchTerms returns the ref names being searched for.
func (s *Scanner) SearchTerms() []string {
	return slices.Clone(s.terms)
}

// Feed consumes the next chunk of the advertisement.
func (s *Scanner) Feed(chunk []byte) Outcome {
	if s.outcome.Terminal() {
		return s.outcome
	}

	data := chunk
	if len(s.pending) > 0 {
		data = append(s.pending, chunk...)
	}

	for {
		line, rest, ok := bytes.Cut(data, []byte{'\n'})
		if !ok {
			break
		}
		data = rest

		if out := s.processLine(line); out.Terminal() {
			s.pending = nil
			return out
		}
	}

	if len(data) > maxLineSize {
		return s.fail("line exceeds the maximum pkt-line size")
	}

	s.pending = bytes.Clone(data)
	return s.outcome
}

// Finish signals the end of the advertisement and returns the terminal outcome.
func (s *Scanner) Finish() Outcome {
	if s.outcome.Terminal() {
		return s.outcome
	}

	// Both header lines must be LF terminated; only a trailing ref line may lack one.
	if s.state == StateAwaitingHeader {
		return s.fail("advertisement ended before the header was complete")
	}

	if len(s.pending) > 0 {
		line := s.pending
		s.pending = nil
		if out := s.match(line); out.Terminal() {
			return out
		}
	}

	s.state = StateExhausted
	s.outcome = NotFound()
	return s.outcome
}

func (s *Scanner) processLine(line []byte) Outcome {
	if s.state == StateAwaitingHeader {
		s.header = append(s.header, bytes.Clone(line))
		if len(s.header) < headerLines {
			return s.outcome
		}
		s.state = StateHeaderComplete
		return s.completeHeader()
	}

	return s.match(line)
}

func (s *Scanner) completeHeader() Outcome {
	header := s.header
	s.header = nil

	if !bytes.Contains(header[0], serviceAnnouncement) {
		return s.fail("missing service announcement")
	}

	if s.requested == "" {
		m := symrefHead.FindSubmatch(header[1])
		if m == nil {
			s.state = StateExhausted
			s.outcome = NoDefaultBranch()
			return s.outcome
		}
		s.terms = append(s.terms, string(m[1]))
	}

	s.state = StateScanning
	return s.outcome
}

func (s *Scanner) match(line []byte) Outcome {
	ref, ok := ParseRefLine(line)
	if !ok || !slices.Contains(s.terms, ref.Name) {
		return s.outcome
	}

	s.state = StateMatched
	s.outcome = Found(Result{SHA: ref.Hash, FQRef: ref.Name})
	return s.outcome
}

func (s *Scanner) fail(reason string) Outcome {
	s.state = StateFailed
	s.pending = nil
	s.outcome = ProtocolFailure(http.StatusBadGateway, "502 Bad Gateway", NewMalformedAdvertisementError(reason))
	return s.outcome
}
