package game

import (
	"fmt"
	"strings"
)

// FormattingOptions controls how events are formatted for different contexts
type FormattingOptions struct {
	ShowRoundID bool // Prefix round summaries with the round id (for logs)
	ShowHands   bool // Include both final hands in state summaries
}

// EventFormatter turns engine events into one-line summaries for the history
// pane and the simulator log.
type EventFormatter struct {
	opts FormattingOptions
}

// NewEventFormatter creates a new event formatter with the given options
func NewEventFormatter(opts FormattingOptions) *EventFormatter {
	return &EventFormatter{opts: opts}
}

// Format dispatches on the event type. Unknown events format as their type.
func (ef *EventFormatter) Format(event GameEvent) string {
	switch e := event.(type) {
	case RoundEndEvent:
		return ef.FormatRoundEnd(e)
	case StateChangedEvent:
		return ef.FormatStateChanged(e)
	default:
		return event.EventType().String()
	}
}

// FormatRoundEnd formats a finished round, e.g. "Win +50 (20 vs 18) balance 1050"
func (ef *EventFormatter) FormatRoundEnd(event RoundEndEvent) string {
	var b strings.Builder

	if ef.opts.ShowRoundID && event.RoundID != "" {
		fmt.Fprintf(&b, "[%s] ", shortID(event.RoundID))
	}

	b.WriteString(resultLabel(event.Result))
	fmt.Fprintf(&b, " %s", signed(event.Net))
	fmt.Fprintf(&b, " (%d vs %d)", event.PlayerValue, event.DealerValue)
	fmt.Fprintf(&b, " balance %d", event.Balance)
	return b.String()
}

// FormatStateChanged formats the action that produced a snapshot
func (ef *EventFormatter) FormatStateChanged(event StateChangedEvent) string {
	s := event.State
	text := fmt.Sprintf("%s -> %s: %s", event.Action, s.Phase, s.Message)
	if ef.opts.ShowHands && s.PlayerHand.Len() > 0 {
		text += fmt.Sprintf(" player %s dealer %s", s.PlayerHand, s.DealerHand)
	}
	return text
}

func resultLabel(r Result) string {
	switch r {
	case PlayerWin:
		return "Win"
	case DealerWin:
		return "Loss"
	case Push:
		return "Push"
	case Blackjack:
		return "Blackjack"
	default:
		return "-"
	}
}

func signed(n int) string {
	if n > 0 {
		return fmt.Sprintf("+%d", n)
	}
	return fmt.Sprintf("%d", n)
}

func shortID(id string) string {
	if len(id) > 8 {
		return id[:8]
	}
	return id
}
