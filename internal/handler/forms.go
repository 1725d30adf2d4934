package handler

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/bankdemo/frontend/internal/format"
	"github.com/bankdemo/frontend/internal/model"
	"github.com/bankdemo/frontend/internal/service"
)

// Form field names.
const (
	fieldUsername       = "username"
	fieldPassword       = "password"
	fieldRecipient      = "recipient"
	fieldOtherRecipient = "other-recipient"
	fieldAmount         = "amount"
	fieldAccount        = "account"

	// otherRecipient selects the free-text recipient field.
	otherRecipient = "other"
)

// errBadForm marks form input that cannot be turned into a request.
var errBadForm = errors.New("invalid form input")

func formError(msg string, args ...any) error {
	return fmt.Errorf("%w: "+msg, append([]any{errBadForm}, args...)...)
}

// parsePayment reads the payment form. A recipient of "other" is replaced
// by the other-recipient field.
func parsePayment(r *http.Request) (service.PaymentInput, error) {
	if err := r.ParseForm(); err != nil {
		return service.PaymentInput{}, formError("%v", err)
	}

	recipient := strings.TrimSpace(r.PostForm.Get(fieldRecipient))
	if recipient == otherRecipient {
		recipient = strings.TrimSpace(r.PostForm.Get(fieldOtherRecipient))
	}
	if recipient == "" {
		return service.PaymentInput{}, formError("recipient is required")
	}

	amount, err := parseAmount(r)
	if err != nil {
		return service.PaymentInput{}, err
	}

	return service.PaymentInput{Recipient: recipient, Amount: amount}, nil
}

// parseDeposit reads the deposit form. The account field is a JSON object
// holding the external account and routing numbers.
func parseDeposit(r *http.Request) (service.DepositInput, error) {
	if err := r.ParseForm(); err != nil {
		return service.DepositInput{}, formError("%v", err)
	}

	raw := r.PostForm.Get(fieldAccount)
	if raw == "" {
		return service.DepositInput{}, formError("account is required")
	}

	var account model.ExternalAccount
	if err := json.Unmarshal([]byte(raw), &account); err != nil {
		return service.DepositInput{}, formError("account: %v", err)
	}
	if !account.Valid() {
		return service.DepositInput{}, formError("account needs account_num and routing_num")
	}

	amount, err := parseAmount(r)
	if err != nil {
		return service.DepositInput{}, err
	}

	return service.DepositInput{From: account, Amount: amount}, nil
}

func parseAmount(r *http.Request) (int64, error) {
	raw := r.PostForm.Get(fieldAmount)
	if raw == "" {
		return 0, formError("amount is required")
	}
	amount, err := format.ParseAmount(raw)
	if err != nil {
		return 0, formError("amount: %v", err)
	}
	if amount <= 0 {
		return 0, formError("amount must be positive")
	}
	return amount, nil
}
