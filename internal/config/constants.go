// Package config holds the closed data tables the rest of the engine is
// built against: layer and phase enumerations, the sandbox's allow- and
// deny-lists, scope deny tokens, the reentrancy heuristic's data, chain
// names, and the engine version. These are data, not logic, and are
// kept together so the lists stay in one place as the spec evolves.
package config

// Version is the current engine version.
var Version = "0.1.0"

// Layers is the closed set of Account-Abstraction layers a LayerVar,
// PhaseQualifiedVar, PhaseConstraint, or CrossPhaseRelation may name.
var Layers = []string{"bundler", "account", "paymaster", "protocol", "entrypoint"}

// Phases is the closed set of execution phases.
var Phases = []string{"validation", "execution", "settlement"}

// IsLayer reports whether s is a member of the closed layer set.
func IsLayer(s string) bool {
	for _, l := range Layers {
		if l == s {
			return true
		}
	}
	return false
}

// IsPhase reports whether s is a member of the closed phase set.
func IsPhase(s string) bool {
	for _, p := range Phases {
		if p == s {
			return true
		}
	}
	return false
}

// SandboxForbiddenPrefixes are lowercased identifier prefixes that trip
// SandboxEscapeDetected when found on a Var/LayerVar/PhaseQualifiedVar.
var SandboxForbiddenPrefixes = []string{"file_", "io_", "extern_", "unsafe_"}

// SandboxAllowedFunctions is the function-call allow-list; any call to a
// name outside this set also trips SandboxEscapeDetected.
var SandboxAllowedFunctions = []string{
	"sum", "len", "min", "max", "abs", "mod", "div", "add", "sub", "mul",
	"and", "or", "not",
}

// ScopeDenyTokens are literal substrings whose presence in generated code
// fails scope containment. These stand in for the ecosystem-specific
// unsafe/process/filesystem/network markers a code generator must never
// emit into invariant-carrying output.
var ScopeDenyTokens = []string{
	"unsafe.Pointer",
	"//go:linkname",
	"os/exec",
	"net/http",
	"syscall.",
	"plugin.Open",
}

// ReentrancyExternalCallTokens are the substrings that mark an external
// call site for the reentrancy heuristic.
var ReentrancyExternalCallTokens = []string{"transfer(", ".call(", ".send("}

// ReentrancyGuardToken marks a line as already protected against reentrancy.
const ReentrancyGuardToken = "nonReentrant"

// ReentrancyLookbackLines bounds how far back the reentrancy heuristic
// searches for a preceding state-zeroing update.
const ReentrancyLookbackLines = 50

// ReentrancyStateZeroPatterns are pairs of substrings that, both present
// on the same preceding line, count as a state update guarding the
// external call (checks-effects-interactions already applied).
var ReentrancyStateZeroPatterns = [][2]string{
	{"balances[", "= 0"},
	{"balance =", "= 0"},
}

// Chains is the set of chain names the CLI and chain registry recognize.
var Chains = []string{"evm", "solana", "move"}
