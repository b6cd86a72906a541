package domain

import "time"

// AuditTimes holds the creation/update timestamps every resource carries on
// the wire.
type AuditTimes struct {
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// Dates on the wire are plain "YYYY-MM-DD" strings (issue_date, due_date and
// friends); timestamps are RFC 3339. DateLayout is the layout for the former.
const DateLayout = "2006-01-02"
