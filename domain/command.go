package domain

// RoomCommandResult is the outcome of a moderation command.
// A command resolves exactly once: either acknowledged by the remote side
// or failed with a reason, never left pending past a disconnect.
type RoomCommandResult struct {
	Acknowledged bool
	Reason       string
}

func Acknowledged() RoomCommandResult {
	return RoomCommandResult{Acknowledged: true}
}

func Failed(reason string) RoomCommandResult {
	return RoomCommandResult{Reason: reason}
}
