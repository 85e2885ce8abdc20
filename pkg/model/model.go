package model

// Person is the request body accepted by POST and PUT on /api/persons.
type Person struct {
	Name   string `json:"name"`
	Number string `json:"number"`
}

// Entry is a person as returned by the service, including the id assigned by the store.
type Entry struct {
	Id     string `json:"id"`
	Name   string `json:"name"`
	Number string `json:"number"`
}

// ErrorResponse is the body of every failed request that carries a message.
type ErrorResponse struct {
	Error string `json:"error"`
}
