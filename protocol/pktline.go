package protocol

import (
	"bytes"
	"fmt"

	"github.com/go-git/go-git/v5/plumbing"
)

// Pkt-lines are the framing used by the Git wire protocols.
// They are described in:
//   * https://git-scm.com/docs/gitprotocol-common
//   * https://git-scm.com/docs/http-protocol#_smart_clients
//
// Every record starts with 4 ASCII hex digits giving the total record length, prefix included.
// Records in a ref advertisement are text and end in an LF, so the scanner only splits on LF and
// never needs the declared length.
//
const (
	// The length field of a packet includes 4 ASCII digits for the length.
	PktLineLengthSize = 4
	// MaxPktLineDataSize is the largest payload a single pkt-line may carry.
	MaxPktLineDataSize = 65516
	// MaxPktLineSize is the largest pkt-line, length prefix included.
	MaxPktLineSize = MaxPktLineDataSize + PktLineLengthSize
)

// FlushPacket is a packet of length '0000'. It separates the service announcement from the
// advertised refs and terminates the advertisement.
var FlushPacket = []byte("0000")

// ServiceUploadPack is the service requested during discovery.
const ServiceUploadPack = "git-upload-pack"

// FormatPacket encodes each line as a pkt-line and terminates the result with a flush-pkt.
func FormatPacket(packetLines ...[]byte) []byte {
	var out []byte
	for _, pl := range packetLines {
		out = append(out, fmt.Sprintf("%04x", len(pl)+PktLineLengthSize)...)
		out = append(out, pl...)
	}
	return append(out, FlushPacket...)
}

// RefLine is a single advertised ref.
type RefLine struct {
	// Hash is the hex encoded object id the ref points to.
	Hash string
	// Name is the fully-qualified ref name, e.g. refs/heads/main.
	Name string
}

// ParseRefLine parses one LF-stripped advertisement line of the form
//
//	<4 hex length><obj-id> SP <refname> [NUL <capabilities>]
//
// It reports false for lines that do not carry a ref, such as flush-pkts or
// the service announcement.
func ParseRefLine(line []byte) (RefLine, bool) {
	if len(line) <= PktLineLengthSize {
		return RefLine{}, false
	}

	payload := line[PktLineLengthSize:]
	if i := bytes.IndexByte(payload, 0); i >= 0 {
		payload = payload[:i]
	}

	id, name, ok := bytes.Cut(payload, []byte{' '})
	if !ok || len(name) == 0 {
		return RefLine{}, false
	}

	hash := string(id)
	if !plumbing.IsHash(hash) {
		return RefLine{}, false
	}

	return RefLine{Hash: hash, Name: string(name)}, true
}
