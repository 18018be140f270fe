package models

// User is the acting identity a workflow execution runs under. Nodes read it
// from the execution scope without it being threaded as a parameter.
type User struct {
	ID    string `json:"id"`
	Name  string `json:"name"`
	Email string `json:"email,omitempty"`
}
