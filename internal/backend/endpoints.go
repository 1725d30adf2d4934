package backend

import "strings"

// Service names a backend service, used for logs and metrics.
type Service string

// Backend services the front-end talks to.
const (
	ServiceTransactions Service = "transactions"
	ServiceBalances     Service = "balances"
	ServiceHistory      Service = "history"
	ServiceTokens       Service = "tokens"
	ServiceContacts     Service = "contacts"
)

// Services lists every backend service in a stable order.
var Services = []Service{
	ServiceTransactions,
	ServiceBalances,
	ServiceHistory,
	ServiceTokens,
	ServiceContacts,
}

// Paths served by the backend services.
const (
	PathNewTransaction = "/new_transaction"
	PathGetBalance     = "/get_balance"
	PathGetHistory     = "/get_history"
	PathGetToken       = "/get_token"
	PathContacts       = "/contacts"
	PathExternal       = "/external"
	PathReady          = "/ready"
)

// Endpoints holds the base URL of each backend service.
type Endpoints struct {
	Transactions string
	Balances     string
	History      string
	Tokens       string
	Contacts     string
}

// EndpointsFromAddrs builds plain-HTTP base URLs from host:port addresses.
func EndpointsFromAddrs(transactions, balances, history, tokens, contacts string) Endpoints {
	return Endpoints{
		Transactions: baseURL(transactions),
		Balances:     baseURL(balances),
		History:      baseURL(history),
		Tokens:       baseURL(tokens),
		Contacts:     baseURL(contacts),
	}
}

// Base returns the base URL of service.
func (e Endpoints) Base(service Service) string {
	switch service {
	case ServiceTransactions:
		return e.Transactions
	case ServiceBalances:
		return e.Balances
	case ServiceHistory:
		return e.History
	case ServiceTokens:
		return e.Tokens
	case ServiceContacts:
		return e.Contacts
	default:
		return ""
	}
}

func baseURL(addr string) string {
	if strings.HasPrefix(addr, "http://") || strings.HasPrefix(addr, "https://") {
		return strings.TrimRight(addr, "/")
	}
	return "http://" + strings.TrimRight(addr, "/")
}
