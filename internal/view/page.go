package view

// ErrorData is the data of the error page.
type ErrorData struct {
	Status  int
	Title   string
	Message string
}
