package constant

// DefaultAgeDays is the staleness threshold used when --age is not given.
const DefaultAgeDays = 7

// Project status labels printed for each checked project
const (
	StatusActive      = "Active"
	StatusWouldDelete = "Would delete"
	StatusDeleting    = "Deleting"
)
