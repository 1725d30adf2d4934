package model

// Dashboard aggregates everything the home page shows.
// Balance is nil when the balance service could not be read.
type Dashboard struct {
	Name             string
	AccountNum       string
	Balance          *int64
	History          []HistoryEntry
	Contacts         []Contact
	ExternalAccounts []Contact
}
