package model

// Contact is a saved payee, either inside this bank or at an external one.
type Contact struct {
	Label      string `json:"label"`
	AccountNum string `json:"account_num"`
	RoutingNum string `json:"routing_num"`
}

// ExternalAccount identifies the funding source of a deposit.
type ExternalAccount struct {
	AccountNum string `json:"account_num"`
	RoutingNum string `json:"routing_num"`
}

// Valid reports whether both identifiers are present.
func (a ExternalAccount) Valid() bool {
	return a.AccountNum != "" && a.RoutingNum != ""
}
