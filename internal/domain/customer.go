package domain

import "time"

type Membership string

const (
	MembershipBronze Membership = "B"
	MembershipSilver Membership = "S"
	MembershipGold   Membership = "G"
)

func (m Membership) IsValid() bool {
	return m == MembershipBronze || m == MembershipSilver || m == MembershipGold
}

type Customer struct {
	ID         int64
	UserID     int64
	FirstName  string
	LastName   string
	Email      string
	Phone      string
	BirthDate  *time.Time
	Membership Membership
}
