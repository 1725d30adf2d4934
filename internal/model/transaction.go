// Package model defines the transient values exchanged with the backend services.
// Nothing here is persisted by the front-end.
package model

// TransactionRequest is the body submitted to the transaction service.
// Amount is expressed in minor currency units (cents).
type TransactionRequest struct {
	FromRoutingNum string `json:"from_routing_num"`
	FromAccountNum string `json:"from_account_num"`
	ToRoutingNum   string `json:"to_routing_num"`
	ToAccountNum   string `json:"to_account_num"`
	Amount         int64  `json:"amount"`
}

// HistoryEntry is a single transaction as reported by the history service.
type HistoryEntry struct {
	Timestamp      int64  `json:"timestamp"`
	FromRoutingNum string `json:"from_routing_num"`
	FromAccountNum string `json:"from_account_num"`
	ToRoutingNum   string `json:"to_routing_num"`
	ToAccountNum   string `json:"to_account_num"`
	Amount         int64  `json:"amount"`
}

// IsCredit reports whether the entry moved money into the given account.
func (e HistoryEntry) IsCredit(accountNum string) bool {
	return e.ToAccountNum == accountNum
}

// Counterparty returns the account on the other side of the entry.
func (e HistoryEntry) Counterparty(accountNum string) string {
	if e.IsCredit(accountNum) {
		return e.FromAccountNum
	}
	return e.ToAccountNum
}
