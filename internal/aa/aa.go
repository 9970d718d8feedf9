// Package aa implements the Account-Abstraction execution-phase and
// layer types backing cross-phase evaluation: ExecutionPhase, AALayer,
// and the AAContext that tracks per-layer state and immutable
// phase snapshots.
package aa

import (
	"fmt"

	"github.com/Emmyhack/invar/internal/evaluator"
)

// ExecutionPhase is the closed set of ERC-4337-style UserOp lifecycle phases.
type ExecutionPhase int

const (
	Validation ExecutionPhase = iota
	Execution
	Settlement
)

func (p ExecutionPhase) String() string {
	switch p {
	case Validation:
		return "validation"
	case Execution:
		return "execution"
	case Settlement:
		return "settlement"
	default:
		return "unknown"
	}
}

// ParsePhase parses a phase name, matching spec.md's closed phase set.
func ParsePhase(s string) (ExecutionPhase, bool) {
	switch s {
	case "validation":
		return Validation, true
	case "execution":
		return Execution, true
	case "settlement":
		return Settlement, true
	default:
		return 0, false
	}
}

// AALayer is the closed set of Account-Abstraction layers.
type AALayer int

const (
	Bundler AALayer = iota
	Account
	Paymaster
	Protocol
	EntryPoint
)

func (l AALayer) String() string {
	switch l {
	case Bundler:
		return "bundler"
	case Account:
		return "account"
	case Paymaster:
		return "paymaster"
	case Protocol:
		return "protocol"
	case EntryPoint:
		return "entrypoint"
	default:
		return "unknown"
	}
}

// ParseLayer parses a layer name, matching spec.md's closed layer set.
func ParseLayer(s string) (AALayer, bool) {
	switch s {
	case "bundler":
		return Bundler, true
	case "account":
		return Account, true
	case "paymaster":
		return Paymaster, true
	case "protocol":
		return Protocol, true
	case "entrypoint":
		return EntryPoint, true
	default:
		return 0, false
	}
}

// Context is the cross-layer, cross-phase evaluation context: current
// phase, per-layer live state, and immutable per-phase snapshots taken
// by SnapshotPhase.
type Context struct {
	currentPhase   *ExecutionPhase
	layerState     map[string]map[string]evaluator.Value
	phaseSnapshots map[string]map[string]map[string]evaluator.Value

	UserOp       *UserOpData
	Account      *AccountState
	Paymaster    *PaymasterState
	EntryPointS  *EntryPointState
}

// NewContext returns an empty Context.
func NewContext() *Context {
	return &Context{
		layerState:     make(map[string]map[string]evaluator.Value),
		phaseSnapshots: make(map[string]map[string]map[string]evaluator.Value),
	}
}

// SetPhase records the current execution phase.
func (c *Context) SetPhase(p ExecutionPhase) { ph := p; c.currentPhase = &ph }

// Phase returns the current phase, if any has been set.
func (c *Context) Phase() (ExecutionPhase, bool) {
	if c.currentPhase == nil {
		return 0, false
	}
	return *c.currentPhase, true
}

// InPhase reports whether the context's current phase equals p.
func (c *Context) InPhase(p ExecutionPhase) bool {
	cur, ok := c.Phase()
	return ok && cur == p
}

// SetLayerVar sets a variable's live value within a layer.
func (c *Context) SetLayerVar(layer, name string, v evaluator.Value) {
	m, ok := c.layerState[layer]
	if !ok {
		m = make(map[string]evaluator.Value)
		c.layerState[layer] = m
	}
	m[name] = v
}

// GetLayerVar returns a variable's current live value within a layer.
func (c *Context) GetLayerVar(layer, name string) (evaluator.Value, bool) {
	m, ok := c.layerState[layer]
	if !ok {
		return evaluator.Value{}, false
	}
	v, ok := m[name]
	return v, ok
}

// SnapshotPhase copies the current live per-layer state into an
// immutable snapshot keyed by phase. Later mutation of the live state
// must not be visible through a previously taken snapshot.
func (c *Context) SnapshotPhase(p ExecutionPhase) {
	copySnap := make(map[string]map[string]evaluator.Value, len(c.layerState))
	for layer, vars := range c.layerState {
		layerCopy := make(map[string]evaluator.Value, len(vars))
		for name, v := range vars {
			layerCopy[name] = v
		}
		copySnap[layer] = layerCopy
	}
	c.phaseSnapshots[p.String()] = copySnap
}

// GetLayerVarAtPhase reads a variable's value as frozen in the snapshot
// taken for phase p. Returns false if no snapshot or variable exists.
func (c *Context) GetLayerVarAtPhase(p ExecutionPhase, layer, name string) (evaluator.Value, bool) {
	snap, ok := c.phaseSnapshots[p.String()]
	if !ok {
		return evaluator.Value{}, false
	}
	layerVars, ok := snap[layer]
	if !ok {
		return evaluator.Value{}, false
	}
	v, ok := layerVars[name]
	return v, ok
}

// UserOpData is the bundler layer's view of a pending UserOperation.
type UserOpData struct {
	Sender                string
	Nonce                 string // decimal, 128-bit range
	InitCode              []byte
	CallData              []byte
	CallGasLimit          string
	VerificationGasLimit  string
	PreOpGas              string
	MaxGasPrice           string
	MaxPriorityFeePerGas  string
	PaymasterAndData      []byte
	Signature             []byte
}

// AccountState is the account layer's contract state.
type AccountState struct {
	Nonce            string
	Balance          string
	ExpectedSigner   string
	SignatureValid   bool
	ReentrancyLocked bool
	ExecutionFailed  bool
	StateHashBefore  string
	StateHashAfter   string
}

// PaymasterState is the optional paymaster layer's sponsorship state.
type PaymasterState struct {
	Address string
	Deposit string
	Nonce   string
	Status  string
}

// EntryPointState is the protocol layer's EntryPoint contract state.
type EntryPointState struct {
	Address             string
	BlockNumber         string
	BlockTimestamp      string
	AuthenticatedCaller string
}

// CrossLayerCheckResult is the outcome of evaluating one invariant
// across the layers/phases it names.
type CrossLayerCheckResult struct {
	InvariantName string
	LayersInvolved []string
	Holds         bool
	FailureReason string // empty means none
}

func (r CrossLayerCheckResult) String() string {
	if r.Holds {
		return fmt.Sprintf("%s: holds", r.InvariantName)
	}
	return fmt.Sprintf("%s: violated (%s)", r.InvariantName, r.FailureReason)
}
