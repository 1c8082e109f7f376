package model

// Actor is a cast member.  Actors relate to plays through the play_actors
// join table.
type Actor struct {
	ID        uint64 // actors.id
	FirstName string // actors.first_name
	LastName  string // actors.last_name
}

// FullName joins first and last name for display.
func (a Actor) FullName() string {
	return a.FirstName + " " + a.LastName
}
