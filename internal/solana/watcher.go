package solana

import (
	"context"
	"strings"
)

// EventKind classifies a program log notification.
type EventKind string

const (
	EventCommit  EventKind = "commit"
	EventReveal  EventKind = "reveal"
	EventCancel  EventKind = "cancel"
	EventUnknown EventKind = "unknown"
)

// ProgramEvent is one observed instruction of the deployed program.
type ProgramEvent struct {
	Kind      EventKind
	Signature string
	Slot      int64
	Failed    bool
}

// Watcher turns raw log subscriptions on the deployed commit-reveal
// program into classified events. It sees exactly what any mempool
// observer sees: instruction names and signatures, never swap details.
type Watcher struct {
	ws        WSClient
	programID string
}

// NewWatcher creates a watcher for the given program.
func NewWatcher(ws WSClient, programID string) *Watcher {
	return &Watcher{ws: ws, programID: programID}
}

// Watch subscribes to the program's logs and emits classified events
// until the context is cancelled or the client closes. The returned
// channel closes when the subscription ends.
func (w *Watcher) Watch(ctx context.Context) (<-chan ProgramEvent, error) {
	logs, err := w.ws.SubscribeLogs(ctx, LogsFilter{Mentions: []string{w.programID}})
	if err != nil {
		return nil, err
	}

	events := make(chan ProgramEvent, 64)
	go func() {
		defer close(events)
		for {
			select {
			case <-ctx.Done():
				return
			case n, ok := <-logs:
				if !ok {
					return
				}
				ev := ProgramEvent{
					Kind:      classifyLogs(n.Logs),
					Signature: n.Signature,
					Slot:      n.Slot,
					Failed:    n.Err != nil,
				}
				select {
				case events <- ev:
				case <-ctx.Done():
					return
				}
			}
		}
	}()
	return events, nil
}

// classifyLogs maps an instruction log line to an event kind.
// Anchor programs log "Program log: Instruction: <Name>".
func classifyLogs(logs []string) EventKind {
	for _, line := range logs {
		name, ok := strings.CutPrefix(line, "Program log: Instruction: ")
		if !ok {
			continue
		}
		switch name {
		case "CommitSwap", "Commit":
			return EventCommit
		case "RevealAndExecute", "Reveal":
			return EventReveal
		case "CancelCommitment", "Cancel":
			return EventCancel
		}
	}
	return EventUnknown
}
