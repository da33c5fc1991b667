package shared

// Task types
const (
	TypeDeleteMedia      = "media:delete"
	TypeSweepOrphanMedia = "media:sweep_orphans"
)

// Queues
const (
	QueueMedia   = "media"
	QueueDefault = "default"
)

// DeleteMediaPayload asks the worker to remove one stored media file.
type DeleteMediaPayload struct {
	Path string `json:"path"`
}

// SweepOrphanMediaPayload configures one run of the orphan media sweep.
type SweepOrphanMediaPayload struct {
	// Objects younger than this are skipped so in-flight uploads survive.
	MinAgeHours int `json:"min_age_hours"`
}
