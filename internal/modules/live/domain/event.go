package domain

// EventStatsUpdate is the only event type the dashboard reacts to. Other
// types are logged and dropped without tearing the stream down.
const EventStatsUpdate = "stats_update"

// Event is one decoded push from the live channel.
type Event struct {
	Type string
	Data []byte
}
