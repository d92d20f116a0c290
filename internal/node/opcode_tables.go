package node

import "strings"

// The idempotency, scope-creation, and concurrency-eligibility of an
// opcode are functions of the opcode tag alone (spec.md §9), so they are
// computed once at package init time into lookup tables indexed by Kind,
// rather than recomputed per node.
var (
	opcodeSideEffecting      [numOpcodes]bool
	opcodeCreatesNewScope    [numOpcodes]bool
	opcodeConcurrencyEligible [numOpcodes]bool
)

// sideEffectingMarkers names the substrings of an opcode's canonical name
// that identify it as inherently side-effecting: assignment, RNG, I/O, or
// entity mutation, per the Idempotent invariant in spec.md §3.
var sideEffectingMarkers = []string{
	"set", "assign", "accum", "declare", "create", "destroy", "clone",
	"move", "store", "load", "mutate", "rand", "print", "call", "replace",
	"crypto", "encrypt", "decrypt", "system",
}

// scopeCreatingOpcodes explicitly introduce a new lexical scope for their
// body, as opposed to merely sequencing or branching within the caller's.
var scopeCreatingOpcodes = map[Kind]bool{
	OpLambda: true,
	OpLet:    true,
}

// concurrencyEligibleOpcodes are the opcodes whose children the runtime is
// permitted to fork into the work pool when the concurrency hint is set
// and workers are idle (spec.md §4.2/§5); every other opcode always
// evaluates its children serially regardless of the hint.
var concurrencyEligibleOpcodes = map[Kind]bool{
	OpParallel: true,
	OpMap:      true,
	OpFilter:   true,
	OpWeave:    true,
	OpReduce:   true,
	OpZip:      true,
}

func init() {
	for k := Kind(0); k < numOpcodes; k++ {
		name := k.String()
		opcodeSideEffecting[k] = hasSideEffectingMarker(name)
		opcodeCreatesNewScope[k] = scopeCreatingOpcodes[k]
		opcodeConcurrencyEligible[k] = concurrencyEligibleOpcodes[k]
	}
	// the base data kinds are pure values, never side-effecting regardless
	// of name collisions with the markers above (none currently collide,
	// but this keeps the invariant explicit and future-proof)
	for _, k := range []Kind{OpNull, OpBool, OpNumber, OpString, OpSymbol, OpList, OpAssoc} {
		opcodeSideEffecting[k] = false
	}
}

func hasSideEffectingMarker(name string) bool {
	for _, m := range sideEffectingMarkers {
		if strings.Contains(name, m) {
			return true
		}
	}
	return false
}

// IsInherentlySideEffecting reports whether a node of this kind can never
// be idempotent regardless of its labels or children.
func (k Kind) IsInherentlySideEffecting() bool {
	if int(k) >= numOpcodes {
		return false
	}
	return opcodeSideEffecting[k]
}

// CreatesNewScope reports whether evaluating a node of this kind
// introduces a new lexical scope for its body.
func (k Kind) CreatesNewScope() bool {
	if int(k) >= numOpcodes {
		return false
	}
	return opcodeCreatesNewScope[k]
}

// ConcurrencyEligible reports whether this opcode's children may be forked
// into the work pool when the node's concurrency hint is set.
func (k Kind) ConcurrencyEligible() bool {
	if int(k) >= numOpcodes {
		return false
	}
	return opcodeConcurrencyEligible[k]
}

// IsBaseDataKind reports whether k is one of the seven non-opcode data
// shapes (as opposed to an executable opcode).
func (k Kind) IsBaseDataKind() bool {
	switch k {
	case OpNull, OpBool, OpNumber, OpString, OpSymbol, OpList, OpAssoc:
		return true
	default:
		return false
	}
}
