package model

// Entry is the data structure for a person in the phonebook.
// The Id is assigned by the store and never changes afterwards.
type Entry struct {
	Id     string `json:"id"     db:"id"`
	Name   string `json:"name"   db:"name"`
	Number string `json:"number" db:"number"`
}
