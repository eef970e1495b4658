package occluder

import (
	"time"

	"github.com/akmonengine/occluder/assemble"
	"github.com/akmonengine/occluder/extent"
)

const (
	STAGE_BEGIN EventType = iota
	STAGE_END
	EXTENT_GROWN
	MESH_TRUNCATED
)

type EventType uint8

// Stage names one step of the pipeline
type Stage uint8

const (
	StageVoxelize Stage = iota
	StageClassify
	StageClearance
	StageGrow
	StageAssemble
)

func (s Stage) String() string {
	switch s {
	case StageVoxelize:
		return "voxelize"
	case StageClassify:
		return "classify"
	case StageClearance:
		return "clearance"
	case StageGrow:
		return "grow"
	case StageAssemble:
		return "assemble"
	}
	return "unknown"
}

// Event interface - all events implement this
type Event interface {
	Type() EventType
}

type StageBeginEvent struct {
	Stage Stage
}

func (e StageBeginEvent) Type() EventType { return STAGE_BEGIN }

// StageEndEvent carries the stage duration and its main count: boundary
// voxels, inside voxels, max clearance, extents or vertices.
type StageEndEvent struct {
	Stage   Stage
	Elapsed time.Duration
	Count   int
}

func (e StageEndEvent) Type() EventType { return STAGE_END }

type ExtentGrownEvent struct {
	Index  int
	Extent extent.Extent
}

func (e ExtentGrownEvent) Type() EventType { return EXTENT_GROWN }

type TruncatedEvent struct {
	Category assemble.Category
	Vertices int
}

func (e TruncatedEvent) Type() EventType { return MESH_TRUNCATED }

// EventListener - callback for events
type EventListener func(event Event)

// Events buffers the events of one generation and delivers them once the
// run is over, successful or not.
type Events struct {
	// Listeners by event type
	listeners map[EventType][]EventListener

	// Event buffer to send at flush
	buffer []Event
}

func NewEvents() Events {
	return Events{
		listeners: make(map[EventType][]EventListener),
		buffer:    make([]Event, 0, 64),
	}
}

// Subscribe adds a listener for an event type
func (e *Events) Subscribe(eventType EventType, listener EventListener) {
	if e.listeners == nil {
		e.listeners = make(map[EventType][]EventListener)
	}
	e.listeners[eventType] = append(e.listeners[eventType], listener)
}

func (e *Events) emit(event Event) {
	if len(e.listeners[event.Type()]) == 0 {
		return
	}
	e.buffer = append(e.buffer, event)
}

// begin records the start of a stage and returns its end callback
func (e *Events) begin(stage Stage) func(count int) {
	e.emit(StageBeginEvent{Stage: stage})
	start := time.Now()

	return func(count int) {
		e.emit(StageEndEvent{Stage: stage, Elapsed: time.Since(start), Count: count})
	}
}

// flush sends all buffered events and clears the buffer
func (e *Events) flush() {
	for _, event := range e.buffer {
		for _, listener := range e.listeners[event.Type()] {
			listener(event)
		}
	}

	clear(e.buffer)
	e.buffer = e.buffer[:0]
}
