package diag

import "fmt"

// Kind enumerates the error causes of spec §7. These name *why* an
// operation failed, not a Go type hierarchy — every fallible pass
// operation returns one of these. A broken internal invariant has no
// Kind: it panics instead.
type Kind uint8

const (
	// InputMalformed: a front-end produced an invalid Subnet (cycle,
	// dangling link, wrong arity). Surfaced, pass aborted.
	InputMalformed Kind = iota
	// LibraryCollision: a duplicate cell/template/WLM name. Fatal at
	// library load.
	LibraryCollision
	// LibraryUnsupported: a cell has no area, zero outputs, or a
	// function outside the supported operator set. Skipped with a
	// warning, not fatal.
	LibraryUnsupported
	// MappingInfeasible: no match exists for some cut at every chosen
	// size. Reported with the offending entry id after retries are
	// exhausted.
	MappingInfeasible
	// ConstraintViolated: the final mapped Subnet's cost vector exceeds
	// the Criterion's bounds. Reported, but a Subnet is still produced.
	ConstraintViolated
	// IOError: an underlying file/database operation failed. Reported,
	// pass aborted, opened handles released.
	IOError
)

func (k Kind) String() string {
	switch k {
	case InputMalformed:
		return "INPUT_MALFORMED"
	case LibraryCollision:
		return "LIBRARY_COLLISION"
	case LibraryUnsupported:
		return "LIBRARY_UNSUPPORTED"
	case MappingInfeasible:
		return "MAPPING_INFEASIBLE"
	case ConstraintViolated:
		return "CONSTRAINT_VIOLATED"
	case IOError:
		return "IO_ERROR"
	default:
		return "UNKNOWN"
	}
}

// SynthError is the one typed error value the repository returns for
// every recoverable failure named in spec §7. INTERNAL_INVARIANT is
// deliberately not representable here: an invariant violation (a
// refcount mismatch, a link to a future index) can only indicate a
// bug, so it panics with a descriptive string instead, exactly as the
// teacher's bartnode.go/barttable.go panic on "logic error, wrong node
// type" rather than returning an error a caller could plausibly
// recover from.
type SynthError struct {
	Kind    Kind
	Message string
	// Entry is the offending entry index, if any; -1 if not applicable.
	Entry int32
}

func (e *SynthError) Error() string {
	if e.Entry >= 0 {
		return fmt.Sprintf("%s: %s (entry %d)", e.Kind, e.Message, e.Entry)
	}
	return fmt.Sprintf("%s: %s", e.Kind, e.Message)
}

// New builds a SynthError with no associated entry.
func New(kind Kind, format string, args ...any) *SynthError {
	return &SynthError{Kind: kind, Message: fmt.Sprintf(format, args...), Entry: -1}
}

// NewAt builds a SynthError naming the offending entry index.
func NewAt(kind Kind, entry uint32, format string, args ...any) *SynthError {
	return &SynthError{Kind: kind, Message: fmt.Sprintf(format, args...), Entry: int32(entry)}
}
