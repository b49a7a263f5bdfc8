package store

import (
	"github.com/1broseidon/whim/internal/layout"
	"github.com/1broseidon/whim/internal/platform"
)

// Event is delivered to subscribers after the transform that queued it
// commits. Subscribers switch on the concrete type.
type Event interface {
	isEvent()
}

type WorkspaceAddedEvent struct {
	Workspace *Workspace
}

type WorkspaceRemovedEvent struct {
	Workspace *Workspace
}

type WorkspaceRenamedEvent struct {
	Workspace    *Workspace
	PreviousName string
}

type WorkspaceLayoutStartedEvent struct {
	Workspace *Workspace
}

type WorkspaceLayoutCompletedEvent struct {
	Workspace *Workspace
}

type ActiveLayoutEngineChangedEvent struct {
	Workspace *Workspace
	Previous  layout.Engine
	Current   layout.Engine
}

type MonitorsChangedEvent struct {
	Added     []platform.Monitor
	Removed   []platform.Monitor
	Unchanged []platform.Monitor
}

// MonitorWorkspaceChangedEvent reports a new workspace shown on Monitor.
// Previous is nil when the monitor had no workspace.
type MonitorWorkspaceChangedEvent struct {
	Monitor  platform.Monitor
	Previous *Workspace
	Current  *Workspace
}

type WindowAddedEvent struct {
	Window Window
}

type WindowRemovedEvent struct {
	Window Window
}

// WindowFocusedEvent has a nil Window when focus moved to something the
// store does not track.
type WindowFocusedEvent struct {
	Window *Window
}

type WindowMinimizeStartedEvent struct {
	Window Window
}

type WindowMinimizeEndedEvent struct {
	Window Window
}

// WindowRoutedEvent reports a window landing in a workspace. Previous is
// nil for newly added windows.
type WindowRoutedEvent struct {
	Window   Window
	Previous *Workspace
	Current  *Workspace
}

func (WorkspaceAddedEvent) isEvent()            {}
func (WorkspaceRemovedEvent) isEvent()          {}
func (WorkspaceRenamedEvent) isEvent()          {}
func (WorkspaceLayoutStartedEvent) isEvent()    {}
func (WorkspaceLayoutCompletedEvent) isEvent()  {}
func (ActiveLayoutEngineChangedEvent) isEvent() {}
func (MonitorsChangedEvent) isEvent()           {}
func (MonitorWorkspaceChangedEvent) isEvent()   {}
func (WindowAddedEvent) isEvent()               {}
func (WindowRemovedEvent) isEvent()             {}
func (WindowFocusedEvent) isEvent()             {}
func (WindowMinimizeStartedEvent) isEvent()     {}
func (WindowMinimizeEndedEvent) isEvent()       {}
func (WindowRoutedEvent) isEvent()              {}

type queuedEvent struct {
	seq   uint64
	event Event
}

// eventQueue is the pending-event list of one sector. All sectors of a root
// share clock so their queues can be merged in enqueue order.
type eventQueue struct {
	clock   *uint64
	pending []queuedEvent
}

// QueueEvent records e for delivery after the current transform commits.
func (q *eventQueue) QueueEvent(e Event) {
	*q.clock++
	q.pending = append(q.pending, queuedEvent{seq: *q.clock, event: e})
}
