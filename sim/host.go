package sim

import (
	"fmt"

	"github.com/evocore/biosim/telemetry"
	"github.com/evocore/biosim/world"
)

// CommandKind tags a Command's variant.
type CommandKind int

const (
	CmdInit CommandKind = iota
	CmdReset
	CmdStart
	CmdPause
	CmdResume
	CmdStep
	CmdStepGeneration
	CmdUpdateParams
	CmdInspect
	CmdSetSpeed
)

// ParamsPatch is a partial update merged into the running Params by
// CmdUpdateParams. A nil field is left unchanged. Grid shape and barrier
// type are not patchable: they change only through CmdInit/CmdReset with a
// full Params, since changing them in place would desynchronize the grid
// from Params.SizeX/Y.
type ParamsPatch struct {
	PointMutationRate          *float64
	GeneInsertionDeletionRate  *float64
	DeletionRatio              *float64
	SexualReproduction         *bool
	ChooseParentsByFitness     *bool
	ResponsivenessCurveKFactor *float64
	KillEnable                 *bool
}

// Command is one tagged message from the host to the core.
type Command struct {
	Kind CommandKind

	// CmdInit / CmdReset
	Params *Params

	// CmdInspect
	X, Y int

	// CmdUpdateParams
	Patch ParamsPatch

	// CmdSetSpeed
	StepsPerFrame int
}

// EventKind tags an Event's variant.
type EventKind int

const (
	EventState EventKind = iota
	EventGenerationComplete
	EventInspectResult
	EventError
)

// StateSnapshot is a full renderable snapshot of the simulation. Byte
// buffers are fresh copies, safe to retain across the command boundary.
type StateSnapshot struct {
	Generation int
	SimStep    int
	Running    bool
	Paused     bool
	SizeX      int
	SizeY      int

	GridBytes   []byte
	SignalBytes []byte
	ColorBytes  []byte

	Stats   GenerationStatsView
	History []GenerationStatsView
}

// GenerationStatsView copies the fields of telemetry.GenerationStats, except
// AvgConnections, so host callers do not need to import telemetry directly
// for the common case of reading a snapshot's stats.
type GenerationStatsView struct {
	Generation         int
	Population         int
	Survivors          int
	SurvivalRate       float64
	GeneticDiversity   float64
	AvgGenomeLength    float64
	MinGenomeLength    int
	MaxGenomeLength    int
	GenomeLengthStdDev float64
	KillDeaths         int
}

// InspectResult answers a CmdInspect. Both fields are nil if no agent
// occupies the queried cell.
type InspectResult struct {
	Network *InspectNetwork
	Info    *InspectInfo
}

// InspectNetwork is a renderer-friendly view of an agent's built network.
type InspectNetwork struct {
	Connections []InspectConnection
}

// InspectConnection mirrors neural.Connection without exposing the
// neural package's internal types to callers that only want to draw a
// graph.
type InspectConnection struct {
	SourceType int
	SourceId   int
	SinkType   int
	SinkId     int
	Weight     float64
}

// InspectInfo is the scalar state of the inspected agent.
type InspectInfo struct {
	Index          int
	Loc            world.Coord
	Age            int
	Responsiveness float64
	OscPeriod      int
	LongProbeDist  int
	GenomeLength   int
}

// Event is one tagged message from the core to the host.
type Event struct {
	Kind EventKind

	State   *StateSnapshot
	Stats   *GenerationStatsView
	Inspect *InspectResult
	Message string
}

// Host wraps a Core with a command/event API: host code drives the
// simulation exclusively through Dispatch, never by touching Core
// directly.
type Host struct {
	core    *Core
	running bool
	paused  bool

	speedStepsPerFrame int

	initialized bool
}

// NewHost constructs an uninitialized Host. The first CmdStep or
// CmdStepGeneration implicitly initializes it with default params if no
// CmdInit/CmdReset has run yet.
func NewHost() *Host {
	return &Host{speedStepsPerFrame: 1}
}

// Dispatch processes one command and returns the resulting event. Any
// panic inside command handling is recovered and surfaced as an
// EventError: no error is recovered inside a step itself, but a step's
// caller (Dispatch) always returns to the host rather than crashing it.
func (h *Host) Dispatch(cmd Command) (ev Event) {
	defer func() {
		if r := recover(); r != nil {
			ev = Event{Kind: EventError, Message: fmt.Sprintf("sim: panic: %v", r)}
		}
	}()

	switch cmd.Kind {
	case CmdInit, CmdReset:
		return h.handleInit(cmd)
	case CmdStart:
		h.running = true
		h.paused = false
		return h.stateEvent()
	case CmdPause:
		h.paused = true
		return h.stateEvent()
	case CmdResume:
		h.paused = false
		return h.stateEvent()
	case CmdStep:
		h.ensureInitialized()
		return h.handleStep()
	case CmdStepGeneration:
		h.ensureInitialized()
		return h.handleStepGeneration()
	case CmdUpdateParams:
		return h.handleUpdateParams(cmd.Patch)
	case CmdInspect:
		h.ensureInitialized()
		return h.handleInspect(cmd.X, cmd.Y)
	case CmdSetSpeed:
		n := cmd.StepsPerFrame
		if n < 1 {
			n = 1
		}
		h.speedStepsPerFrame = n
		return h.stateEvent()
	default:
		return Event{Kind: EventError, Message: fmt.Sprintf("sim: unknown command kind %d", cmd.Kind)}
	}
}

// ensureInitialized implicitly constructs a default-params Core if a step
// or inspect command arrives before init/reset has happened.
func (h *Host) ensureInitialized() {
	if h.initialized {
		return
	}
	h.initCore(DefaultParams())
}

func (h *Host) initCore(p Params) {
	core, err := New(p)
	if err != nil {
		// Validate already ran in New; this path should be unreachable
		// for DefaultParams, which is self-consistent.
		panic(err)
	}
	core.Init()
	h.core = core
	h.initialized = true
	h.running = false
	h.paused = false
}

func (h *Host) handleInit(cmd Command) Event {
	p := DefaultParams()
	if cmd.Params != nil {
		p = *cmd.Params
	}
	if err := p.Validate(); err != nil {
		// Invalid input: reject and keep the previous state untouched.
		return Event{Kind: EventError, Message: err.Error()}
	}
	h.initCore(p)
	return h.stateEvent()
}

func (h *Host) handleStep() Event {
	h.core.StepOnce()
	if h.core.simStep >= h.core.Params.StepsPerGeneration {
		stats := h.core.endGeneration()
		view := statsView(stats)
		return Event{Kind: EventGenerationComplete, Stats: &view}
	}
	return h.stateEvent()
}

func (h *Host) handleStepGeneration() Event {
	stats := h.core.RunGeneration()
	view := statsView(stats)
	return Event{Kind: EventGenerationComplete, Stats: &view}
}

func (h *Host) handleUpdateParams(patch ParamsPatch) Event {
	h.ensureInitialized()

	p := h.core.Params // validate a copy first, so a rejected patch leaves the running params untouched

	if patch.PointMutationRate != nil {
		p.PointMutationRate = *patch.PointMutationRate
	}
	if patch.GeneInsertionDeletionRate != nil {
		p.GeneInsertionDeletionRate = *patch.GeneInsertionDeletionRate
	}
	if patch.DeletionRatio != nil {
		p.DeletionRatio = *patch.DeletionRatio
	}
	if patch.SexualReproduction != nil {
		p.SexualReproduction = *patch.SexualReproduction
	}
	if patch.ChooseParentsByFitness != nil {
		p.ChooseParentsByFitness = *patch.ChooseParentsByFitness
	}
	if patch.ResponsivenessCurveKFactor != nil {
		p.ResponsivenessCurveKFactor = *patch.ResponsivenessCurveKFactor
	}
	if patch.KillEnable != nil {
		p.KillEnable = *patch.KillEnable
	}

	if err := p.Validate(); err != nil {
		return Event{Kind: EventError, Message: err.Error()}
	}
	h.core.Params = p
	return h.stateEvent()
}

func (h *Host) handleInspect(x, y int) Event {
	loc := world.Coord{X: x, Y: y}
	idx := h.core.grid.At(loc)
	if idx == world.Empty || idx == world.Barrier {
		return Event{Kind: EventInspectResult, Inspect: &InspectResult{}}
	}

	a := h.core.agentAt(int(idx))
	if a == nil {
		return Event{Kind: EventInspectResult, Inspect: &InspectResult{}}
	}

	net := &InspectNetwork{Connections: make([]InspectConnection, len(a.Network.Connections))}
	for i, c := range a.Network.Connections {
		net.Connections[i] = InspectConnection{
			SourceType: int(c.SourceType),
			SourceId:   c.SourceId,
			SinkType:   int(c.SinkType),
			SinkId:     c.SinkId,
			Weight:     c.Weight,
		}
	}

	info := &InspectInfo{
		Index:          a.Index,
		Loc:            a.Loc,
		Age:            a.Age,
		Responsiveness: a.Responsiveness,
		OscPeriod:      a.OscPeriod,
		LongProbeDist:  a.LongProbeDist,
		GenomeLength:   len(a.Genome),
	}

	return Event{Kind: EventInspectResult, Inspect: &InspectResult{Network: net, Info: info}}
}

func (h *Host) stateEvent() Event {
	if !h.initialized {
		return Event{Kind: EventState, State: &StateSnapshot{}}
	}
	c := h.core

	history := make([]GenerationStatsView, len(c.history))
	for i, s := range c.history {
		history[i] = statsView(s)
	}

	snap := &StateSnapshot{
		Generation:  c.generation,
		SimStep:     c.simStep,
		Running:     h.running,
		Paused:      h.paused,
		SizeX:       c.Params.SizeX,
		SizeY:       c.Params.SizeY,
		GridBytes:   c.grid.Bytes(),
		SignalBytes: signalBytesAllLayers(c),
		ColorBytes:  c.colorBytes(),
		Stats:       statsView(c.lastStats),
		History:     history,
	}
	return Event{Kind: EventState, State: snap}
}

// signalBytesAllLayers concatenates every signal layer's bytes in layer
// order, since StateSnapshot exposes a single SignalBytes buffer.
func signalBytesAllLayers(c *Core) []byte {
	out := make([]byte, 0, c.Params.SizeX*c.Params.SizeY*c.signals.NumLayers())
	for layer := 0; layer < c.signals.NumLayers(); layer++ {
		out = append(out, c.signals.Bytes(layer)...)
	}
	return out
}

func statsView(s telemetry.GenerationStats) GenerationStatsView {
	return GenerationStatsView{
		Generation:         s.Generation,
		Population:         s.Population,
		Survivors:          s.Survivors,
		SurvivalRate:       s.SurvivalRate,
		GeneticDiversity:   s.GeneticDiversity,
		AvgGenomeLength:    s.AvgGenomeLength,
		MinGenomeLength:    s.MinGenomeLength,
		MaxGenomeLength:    s.MaxGenomeLength,
		GenomeLengthStdDev: s.GenomeLengthStdDev,
		KillDeaths:         s.KillDeaths,
	}
}
