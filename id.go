package tasker

import "github.com/xraph/tasker/id"

// ID is the primary identifier type for all Tasker entities.
type ID = id.ID

// Prefix identifies the entity type encoded in an ID.
type Prefix = id.Prefix
