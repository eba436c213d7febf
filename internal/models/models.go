package models

import "time"

// Event is a catalog entry fetched from the remote event API
type Event struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	Category    string `json:"category"`
	Date        string `json:"date"`
	Description string `json:"description"`
	Location    string `json:"location"`
	Organizer   string `json:"organizer"`
}

// Review is a single user review stored in the reviews ledger
type Review struct {
	ID       string    `json:"id"`
	Text     string    `json:"text"`
	Rating   int       `json:"rating"`
	UserName string    `json:"userName"`
	Date     time.Time `json:"date"`
}

// Photo references an image attached to an event. URI is opaque to the ledger.
type Photo struct {
	ID         string    `json:"id"`
	URI        string    `json:"uri"`
	UploadedBy string    `json:"uploadedBy"`
	Date       time.Time `json:"date"`
}

// Device is an anonymous client identity owning one key-value scope
type Device struct {
	ID        string    `json:"id"`
	Token     string    `json:"token"`
	CreatedAt time.Time `json:"created_at"`
}
