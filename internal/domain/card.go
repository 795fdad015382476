package domain

// Card is one note of the target deck as seen through the collection API.
// Word is the question field (the headword on the card front), Answer is the
// mutable definition field on the back. NoteID identifies the underlying
// note; CardIDs lists the cards generated from it. Identity is never
// reassigned — every write goes through the existing note, so scheduling
// history survives the migration.
type Card struct {
	NoteID  int64
	CardIDs []int64
	Word    string
	Answer  string
}
