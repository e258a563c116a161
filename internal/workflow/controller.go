// Package workflow owns the deliberation workflow state machine that the
// screens render and drive.
package workflow

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"sync"

	"github.com/Lyzr-Apps/llm-council-super-edge/internal/config"
	"github.com/Lyzr-Apps/llm-council-super-edge/internal/council"
	"github.com/Lyzr-Apps/llm-council-super-edge/internal/gateway"
	"github.com/Lyzr-Apps/llm-council-super-edge/internal/logbook"
)

// Screen identifies which of the three views is active.
type Screen int

const (
	ScreenInput Screen = iota
	ScreenDeliberation
	ScreenConsensus
)

// String returns a human-readable screen name for logging.
func (s Screen) String() string {
	switch s {
	case ScreenInput:
		return "input"
	case ScreenDeliberation:
		return "deliberation"
	case ScreenConsensus:
		return "consensus"
	default:
		return fmt.Sprintf("screen(%d)", int(s))
	}
}

var (
	// ErrEmptyProblem rejects a convene attempt before any gateway call.
	ErrEmptyProblem = errors.New("workflow: problem statement is empty")
	// ErrBusy rejects a second call while one is already in flight.
	ErrBusy = errors.New("workflow: a gateway call is already in flight")
)

const (
	conveneFallback    = "Council deliberation failed"
	synthesizeFallback = "Consensus synthesis failed"
	networkFallback    = "network error: the agent gateway could not be reached"
)

// Snapshot is a consistent read of the workflow state for rendering.
type Snapshot struct {
	Screen       Screen
	Problem      string
	Deliberation *council.Deliberation
	Consensus    *council.ConsensusResult
	Err          string
	Busy         bool
}

// Controller drives the Input → Deliberation → Consensus sequence. All
// mutation happens here; the screens only read snapshots and emit actions.
type Controller struct {
	gw             gateway.Client
	roster         []string
	orchestratorID string
	synthesizerID  string
	log            *logbook.Logbook

	mu           sync.Mutex
	screen       Screen
	problem      string
	deliberation *council.Deliberation
	consensus    *council.ConsensusResult
	errMsg       string
	busy         bool

	// generation fences late call completions after a reset.
	generation uint64
}

// New creates a controller in its Input configuration.
func New(gw gateway.Client, cfg *config.Config, log *logbook.Logbook) *Controller {
	return &Controller{
		gw:             gw,
		roster:         append([]string(nil), cfg.Members()...),
		orchestratorID: cfg.OrchestratorAgentID(),
		synthesizerID:  cfg.SynthesizerAgentID(),
		log:            log,
	}
}

// Snapshot returns the current workflow state.
func (c *Controller) Snapshot() Snapshot {
	c.mu.Lock()
	defer c.mu.Unlock()
	return Snapshot{
		Screen:       c.screen,
		Problem:      c.problem,
		Deliberation: c.deliberation,
		Consensus:    c.consensus,
		Err:          c.errMsg,
		Busy:         c.busy,
	}
}

// Convene submits the problem statement to the orchestrator agent. On a
// successful envelope it stores the deliberation and moves to the
// Deliberation screen; on any failure it records an error and stays on
// Input. Validation failures are returned, never surfaced as banners.
func (c *Controller) Convene(ctx context.Context, problemText string) error {
	problem := strings.TrimSpace(problemText)
	if problem == "" {
		return ErrEmptyProblem
	}

	gen, err := c.begin()
	if err != nil {
		return err
	}
	c.logInfo("Convene · submitting problem to orchestrator agent")

	envelope, callErr := c.gw.Call(ctx, problem, c.orchestratorID)

	c.mu.Lock()
	defer c.mu.Unlock()
	if !c.settle(gen) {
		return nil
	}
	if callErr != nil {
		c.errMsg = networkFallback
		c.logError("Convene · transport fault: %v", callErr)
		return nil
	}
	if !envelope.OK() {
		c.errMsg = failureMessage(envelope, conveneFallback)
		c.logWarn("Convene · gateway failure: %s", c.errMsg)
		return nil
	}
	deliberation, parseErr := council.ParseDeliberation(envelope.Response.Result, c.roster)
	if parseErr != nil {
		c.errMsg = conveneFallback
		c.logError("Convene · unreadable deliberation: %v", parseErr)
		return nil
	}
	c.problem = problem
	c.deliberation = deliberation
	c.screen = ScreenDeliberation
	c.logInfo("Convene · deliberation stored, %d votes tallied", deliberation.VoteSummary().Total())
	return nil
}

// Synthesize feeds the stored deliberation back through the synthesizer
// agent. It is a no-op when no deliberation is stored. On failure the
// workflow stays on the Deliberation screen with an error recorded.
func (c *Controller) Synthesize(ctx context.Context) error {
	// The generation must be read under the same lock as the
	// precondition check and busy claim.
	c.mu.Lock()
	if c.deliberation == nil {
		c.mu.Unlock()
		return nil
	}
	if c.busy {
		c.mu.Unlock()
		return ErrBusy
	}
	c.busy = true
	c.errMsg = ""
	gen := c.generation
	prompt := BuildSynthesisPrompt(c.problem, c.deliberation.Raw)
	c.mu.Unlock()
	c.logInfo("Synthesize · submitting deliberation to synthesizer agent")

	envelope, callErr := c.gw.Call(ctx, prompt, c.synthesizerID)

	c.mu.Lock()
	defer c.mu.Unlock()
	if !c.settle(gen) {
		return nil
	}
	if callErr != nil {
		c.errMsg = networkFallback
		c.logError("Synthesize · transport fault: %v", callErr)
		return nil
	}
	if !envelope.OK() {
		c.errMsg = failureMessage(envelope, synthesizeFallback)
		c.logWarn("Synthesize · gateway failure: %s", c.errMsg)
		return nil
	}
	consensus, parseErr := council.ParseConsensus(envelope.Response.Result)
	if parseErr != nil {
		c.errMsg = synthesizeFallback
		c.logError("Synthesize · unreadable consensus: %v", parseErr)
		return nil
	}
	c.consensus = consensus
	c.screen = ScreenConsensus
	c.logInfo("Synthesize · consensus stored: %s at %d%%", consensus.Recommendation, consensus.Confidence)
	return nil
}

// Reset unconditionally clears both payloads and the error and returns to
// the Input screen. No gateway call is made; a call still in flight will
// find its generation stale and discard its outcome.
func (c *Controller) Reset() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.generation++
	c.busy = false
	c.screen = ScreenInput
	c.problem = ""
	c.deliberation = nil
	c.consensus = nil
	c.errMsg = ""
	c.logInfo("Reset · workflow returned to input")
}

// DismissError clears the transient error banner.
func (c *Controller) DismissError() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.errMsg = ""
}

// begin claims the single in-flight slot and clears the prior error.
func (c *Controller) begin() (uint64, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.busy {
		return 0, ErrBusy
	}
	c.busy = true
	c.errMsg = ""
	return c.generation, nil
}

// settle releases the in-flight slot. It reports false when a reset
// happened while the call was out, in which case the outcome is dropped.
// Callers must hold c.mu.
func (c *Controller) settle(gen uint64) bool {
	if gen != c.generation {
		return false
	}
	c.busy = false
	return true
}

func failureMessage(envelope gateway.Envelope, fallback string) string {
	if msg := envelope.Message(); msg != "" {
		return msg
	}
	return fallback
}

// BuildSynthesisPrompt serializes the stored deliberation together with the
// original problem statement into the single text message the synthesizer
// agent receives.
func BuildSynthesisPrompt(problem string, deliberation json.RawMessage) string {
	var b strings.Builder
	b.WriteString("Synthesize the council deliberation below into a consensus report.\n\n")
	b.WriteString("Problem statement:\n")
	b.WriteString(problem)
	b.WriteString("\n\nCouncil deliberation (JSON):\n")
	b.Write(deliberation)
	return b.String()
}

func (c *Controller) logInfo(format string, args ...any) {
	if c.log != nil {
		c.log.Info(format, args...)
	}
}

func (c *Controller) logWarn(format string, args ...any) {
	if c.log != nil {
		c.log.Warn(format, args...)
	}
}

func (c *Controller) logError(format string, args ...any) {
	if c.log != nil {
		c.log.Error(format, args...)
	}
}
