package handler

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/bankdemo/frontend/internal/auth"
	"github.com/bankdemo/frontend/internal/middleware"
	"github.com/bankdemo/frontend/internal/model"
	"github.com/bankdemo/frontend/internal/service"
	"github.com/bankdemo/frontend/internal/view"
)

// Redirect targets.
const (
	PathLogin = "/"
	PathHome  = "/home"
)

// Bank is the set of banking workflows the pages drive.
type Bank interface {
	Dashboard(ctx context.Context, token string, claims *auth.Claims) model.Dashboard
	Pay(ctx context.Context, token string, claims *auth.Claims, in service.PaymentInput) error
	Deposit(ctx context.Context, token string, claims *auth.Claims, in service.DepositInput) error
	Login(ctx context.Context, username, password string) (*service.Session, error)
}

// BankHandler serves the login page, the dashboard and the form actions.
// Routes other than Login, LoginPage and Logout expect the session
// middleware to have placed verified claims in the request context.
type BankHandler struct {
	bank         Bank
	renderer     *view.Renderer
	cookieSecure bool
	logger       *slog.Logger
}

// NewBankHandler creates a new BankHandler.
func NewBankHandler(bank Bank, renderer *view.Renderer, cookieSecure bool, logger *slog.Logger) *BankHandler {
	return &BankHandler{
		bank:         bank,
		renderer:     renderer,
		cookieSecure: cookieSecure,
		logger:       logger,
	}
}

// LoginPage handles GET /.
// A signed-in user is sent to the dashboard instead.
func (h *BankHandler) LoginPage(w http.ResponseWriter, r *http.Request) {
	if auth.ClaimsFromContext(r.Context()) != nil {
		http.Redirect(w, r, PathHome, http.StatusFound)
		return
	}
	h.render(w, r, view.PageLogin, nil)
}

// Login handles POST /login.
// The session cookie is set only for a token that passed verification;
// the browser is redirected to the dashboard either way.
func (h *BankHandler) Login(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		renderError(h.renderer, h.logger, w, r, http.StatusBadRequest, "The sign-in form could not be read.")
		return
	}

	username := r.PostForm.Get(fieldUsername)
	session, err := h.bank.Login(r.Context(), username, r.PostForm.Get(fieldPassword))
	if err != nil {
		h.logger.Warn("login failed",
			slog.String("username", username),
			slog.String("error", err.Error()),
			slog.String("request_id", middleware.GetRequestID(r.Context())),
		)
		http.Redirect(w, r, PathHome, http.StatusFound)
		return
	}

	http.SetCookie(w, h.sessionCookie(session.Token, session.MaxAge))
	h.logger.Info("login succeeded",
		slog.String("username", username),
		slog.String("request_id", middleware.GetRequestID(r.Context())),
	)
	http.Redirect(w, r, PathHome, http.StatusFound)
}

// Logout handles POST /logout.
func (h *BankHandler) Logout(w http.ResponseWriter, r *http.Request) {
	cookie := h.sessionCookie("", -1)
	cookie.Expires = time.Unix(0, 0)
	http.SetCookie(w, cookie)
	http.Redirect(w, r, PathLogin, http.StatusFound)
}

// Home handles GET /home.
func (h *BankHandler) Home(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	claims := auth.MustClaimsFromContext(ctx)

	dashboard := h.bank.Dashboard(ctx, auth.TokenFromContext(ctx), claims)
	h.render(w, r, view.PageIndex, dashboard)
}

// Payment handles POST /payment.
func (h *BankHandler) Payment(w http.ResponseWriter, r *http.Request) {
	in, err := parsePayment(r)
	if err != nil {
		h.badRequest(w, r, err)
		return
	}

	ctx := r.Context()
	err = h.bank.Pay(ctx, auth.TokenFromContext(ctx), auth.MustClaimsFromContext(ctx), in)
	h.finishTransaction(w, r, service.KindPayment, err)
}

// Deposit handles POST /deposit.
func (h *BankHandler) Deposit(w http.ResponseWriter, r *http.Request) {
	in, err := parseDeposit(r)
	if err != nil {
		h.badRequest(w, r, err)
		return
	}

	ctx := r.Context()
	err = h.bank.Deposit(ctx, auth.TokenFromContext(ctx), auth.MustClaimsFromContext(ctx), in)
	h.finishTransaction(w, r, service.KindDeposit, err)
}

// finishTransaction logs the outcome of a payment or deposit and sends the
// browser back to the dashboard.
func (h *BankHandler) finishTransaction(w http.ResponseWriter, r *http.Request, kind string, err error) {
	switch {
	case err == nil, errors.Is(err, service.ErrInsufficientFunds):
		// submitted, or already logged by the service
	case errors.Is(err, service.ErrInvalidAmount), errors.Is(err, service.ErrInvalidAccount):
		h.badRequest(w, r, err)
		return
	default:
		h.logger.Error("transaction failed",
			slog.String("kind", kind),
			slog.String("error", err.Error()),
			slog.String("request_id", middleware.GetRequestID(r.Context())),
		)
	}
	http.Redirect(w, r, PathHome, http.StatusFound)
}

func (h *BankHandler) badRequest(w http.ResponseWriter, r *http.Request, err error) {
	h.logger.Info("rejected form input",
		slog.String("endpoint", r.Method+" "+r.URL.Path),
		slog.String("error", err.Error()),
		slog.String("request_id", middleware.GetRequestID(r.Context())),
	)
	renderError(h.renderer, h.logger, w, r, http.StatusBadRequest, err.Error())
}

func (h *BankHandler) render(w http.ResponseWriter, r *http.Request, page string, data any) {
	if err := h.renderer.Render(w, page, data); err != nil {
		h.logger.Error("render failed",
			slog.String("page", page),
			slog.String("error", err.Error()),
			slog.String("request_id", middleware.GetRequestID(r.Context())),
		)
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
	}
}

func (h *BankHandler) sessionCookie(token string, maxAge int) *http.Cookie {
	return &http.Cookie{
		Name:     middleware.SessionCookieName,
		Value:    token,
		Path:     "/",
		MaxAge:   maxAge,
		HttpOnly: true,
		Secure:   h.cookieSecure,
		SameSite: http.SameSiteLaxMode,
	}
}
