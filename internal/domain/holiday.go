package domain

// Holiday is a fixed calendar entry displayed alongside events. Holidays are
// client-side data; they are never sent to the backend.
type Holiday struct {
	Date string `json:"date"`
	Name string `json:"name"`
}
