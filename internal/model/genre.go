package model

// Genre is a play category such as Drama or Comedy.  Genre names are unique
// and genres relate to plays through the play_genres join table.
type Genre struct {
	ID   uint64 // genres.id
	Name string // genres.name (unique)
}
