package metrics

// Common metric attribute keys to keep telemetry consistent/searchable.
const (
	AttrMethod  = "method"
	AttrPath    = "path"
	AttrStatus  = "status"
	AttrFeed    = "feed"
	AttrAction  = "action"
	AttrOutcome = "outcome"
)

// Message actions recorded by the notification sink.
const (
	ActionPosted  = "posted"
	ActionEdited  = "edited"
	ActionSkipped = "skipped"
	ActionMirror  = "mirrored"
)
