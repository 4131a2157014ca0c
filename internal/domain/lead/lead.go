package lead

import (
	"database/sql"
	"time"
)

// StatusNew marks an imported lead nobody has contacted yet.
const StatusNew = "new"

// Lead represents an imported prospect. Leads carry their own contact data
// rather than joining through profiles.
type Lead struct {
	ID           string
	Name         string
	Email        sql.NullString
	Status       string
	CreatedAt    time.Time
	FollowUpSent bool
}
