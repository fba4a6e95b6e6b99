package handlers

import (
	"encoding/base64"
	"html/template"
	"log/slog"
	"net/http"
	"net/url"
	"strings"

	"github.com/pquerna/otp/totp"
	qrcode "github.com/skip2/go-qrcode"

	"portfolio/internal/middleware"
	"portfolio/internal/models"
	"portfolio/internal/render"
	"portfolio/internal/session"
	"portfolio/internal/store"
)

// totpIssuer names the site in authenticator apps.
const totpIssuer = "Portfolio"

// Back-office sign-in routes.
const (
	dashboardPath = "/admin/"
	loginPath     = "/admin/login"
	setupPath     = "/admin/2fa/setup"
	verifyPath    = "/admin/2fa/verify"
)

const (
	msgBadCredentials = "Invalid email or password."
	msgBadCode        = "Invalid code. Please try again."
)

// Auth serves the password and TOTP steps of the back-office sign-in.
type Auth struct {
	renderer *render.Renderer
	sessions *session.Store
	users    *store.UserStore
}

func NewAuth(renderer *render.Renderer, sessions *session.Store, users *store.UserStore) *Auth {
	return &Auth{renderer: renderer, sessions: sessions, users: users}
}

// LoginPage shows the password form. Operators who already finished
// sign-in go straight to the dashboard.
func (a *Auth) LoginPage(w http.ResponseWriter, r *http.Request) {
	if sess := middleware.SessionFromCtx(r.Context()); sess != nil && sess.TwoFADone {
		http.Redirect(w, r, dashboardPath, http.StatusSeeOther)
		return
	}
	a.login(w, r, http.StatusOK, "", "", safeNext(r.URL.Query().Get("next")))
}

// LoginSubmit checks the password and opens a session that still needs
// the TOTP step.
func (a *Auth) LoginSubmit(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	email := strings.TrimSpace(r.FormValue("email"))
	next := safeNext(r.FormValue("next"))

	user, err := a.users.FindByEmail(ctx, email)
	if err != nil {
		slog.Error("login lookup failed", "error", err)
		a.login(w, r, http.StatusInternalServerError, email, "An unexpected error occurred.", next)
		return
	}
	if user == nil || !a.users.CheckPassword(user, r.FormValue("password")) {
		slog.Info("login rejected", "email", email, "remote", r.RemoteAddr)
		a.login(w, r, http.StatusUnauthorized, email, msgBadCredentials, next)
		return
	}

	_, err = a.sessions.Create(ctx, w, &session.Data{
		UserID:      user.ID,
		Email:       user.Email,
		DisplayName: user.DisplayName,
		Role:        string(user.Role),
		Next:        next,
	})
	if err != nil {
		serverError(w, "session create failed", err)
		return
	}

	if user.Needs2FASetup() {
		http.Redirect(w, r, setupPath, http.StatusSeeOther)
		return
	}
	http.Redirect(w, r, verifyPath, http.StatusSeeOther)
}

// TwoFASetupPage issues a fresh TOTP secret and shows it as a QR code.
// An enrolled authenticator is never replaced from here: a password alone
// must not be enough to reset the second factor.
func (a *Auth) TwoFASetupPage(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	sess := middleware.SessionFromCtx(ctx)
	if sess == nil {
		http.Redirect(w, r, loginPath, http.StatusSeeOther)
		return
	}

	user, ok := a.operator(w, r, sess)
	if !ok {
		return
	}
	if user.TOTPEnabled {
		dest := verifyPath
		if sess.TwoFADone {
			dest = dashboardPath
		}
		http.Redirect(w, r, dest, http.StatusSeeOther)
		return
	}

	key, err := totp.Generate(totp.GenerateOpts{Issuer: totpIssuer, AccountName: sess.Email})
	if err != nil {
		serverError(w, "totp generate failed", err)
		return
	}
	if err := a.users.SetTOTPSecret(ctx, user.ID, key.Secret()); err != nil {
		serverError(w, "save totp secret failed", err)
		return
	}
	a.setup(w, r, http.StatusOK, key.URL(), key.Secret(), "")
}

// TwoFAVerifyPage shows the code form for enrolled operators.
func (a *Auth) TwoFAVerifyPage(w http.ResponseWriter, r *http.Request) {
	if middleware.SessionFromCtx(r.Context()) == nil {
		http.Redirect(w, r, loginPath, http.StatusSeeOther)
		return
	}
	a.verify(w, r, http.StatusOK, "")
}

// TwoFAVerifySubmit checks the TOTP code for both the enrollment and the
// regular verify form. Success finishes enrollment if needed, moves the
// session to a new id and opens the page the operator first asked for.
func (a *Auth) TwoFAVerifySubmit(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	sess := middleware.SessionFromCtx(ctx)
	if sess == nil {
		http.Redirect(w, r, loginPath, http.StatusSeeOther)
		return
	}

	user, ok := a.operator(w, r, sess)
	if !ok {
		return
	}
	if user.TOTPSecret == nil {
		http.Redirect(w, r, setupPath, http.StatusSeeOther)
		return
	}
	secret := *user.TOTPSecret

	if !totp.Validate(strings.TrimSpace(r.FormValue("code")), secret) {
		if user.TOTPEnabled {
			a.verify(w, r, http.StatusUnprocessableEntity, msgBadCode)
		} else {
			a.setup(w, r, http.StatusUnprocessableEntity, otpauthURL(user.Email, secret), secret, msgBadCode)
		}
		return
	}

	if !user.TOTPEnabled {
		if err := a.users.EnableTOTP(ctx, user.ID); err != nil {
			serverError(w, "enable totp failed", err)
			return
		}
	}

	prev, err := a.users.RecordLogin(ctx, user.ID)
	if err != nil {
		// The stamp is informational; sign-in still succeeds.
		slog.Warn("record login failed", "user_id", user.ID, "error", err)
	}

	dest := dashboardPath
	if sess.Next != "" {
		dest = sess.Next
	}
	sess.TwoFADone = true
	sess.Next = ""
	sess.LastLoginAt = prev
	if err := a.sessions.Rotate(ctx, w, r, sess); err != nil {
		serverError(w, "session rotate failed", err)
		return
	}

	slog.Info("operator signed in", "user_id", user.ID, "role", user.Role)
	http.Redirect(w, r, dest, http.StatusSeeOther)
}

// Logout destroys the session and returns to the login page.
func (a *Auth) Logout(w http.ResponseWriter, r *http.Request) {
	if err := a.sessions.Destroy(r.Context(), w, r); err != nil {
		slog.Warn("session destroy failed", "error", err)
	}
	http.Redirect(w, r, loginPath, http.StatusSeeOther)
}

// operator reloads the signed-in user. It writes a 500 and reports false
// when the account cannot be read or no longer exists.
func (a *Auth) operator(w http.ResponseWriter, r *http.Request, sess *session.Data) (*models.User, bool) {
	user, err := a.users.FindByID(r.Context(), sess.UserID)
	if err != nil || user == nil {
		serverError(w, "operator lookup failed", err)
		return nil, false
	}
	return user, true
}

func (a *Auth) login(w http.ResponseWriter, r *http.Request, status int, email, msg, next string) {
	a.renderer.PageStatus(w, r, status, "login", &render.PageData{
		Title: "Sign In",
		Data:  map[string]any{"Email": email, "Error": msg, "Next": next},
	})
}

func (a *Auth) verify(w http.ResponseWriter, r *http.Request, status int, msg string) {
	a.renderer.PageStatus(w, r, status, "2fa_verify", &render.PageData{
		Title: "Two-Factor Authentication",
		Data:  map[string]any{"Error": msg},
	})
}

// setup renders the enrollment page for the provisioning URL otpauth.
func (a *Auth) setup(w http.ResponseWriter, r *http.Request, status int, otpauth, secret, msg string) {
	qr, err := qrDataURI(otpauth)
	if err != nil {
		// The secret is still shown for manual entry.
		slog.Warn("qr code generation failed", "error", err)
	}
	a.renderer.PageStatus(w, r, status, "2fa_setup", &render.PageData{
		Title: "Set Up Two-Factor Authentication",
		Data:  map[string]any{"QRCode": qr, "Secret": secret, "Error": msg},
	})
}

func serverError(w http.ResponseWriter, msg string, err error) {
	slog.Error(msg, "error", err)
	http.Error(w, "Internal Server Error", http.StatusInternalServerError)
}

// safeNext accepts only local back-office pages as a post-login target.
// Absolute URLs, protocol-relative paths and the sign-in pages themselves
// are dropped.
func safeNext(raw string) string {
	if raw == "" || strings.ContainsAny(raw, "\\\r\n") || strings.HasPrefix(raw, "//") {
		return ""
	}
	u, err := url.Parse(raw)
	if err != nil || u.Scheme != "" || u.Host != "" {
		return ""
	}
	if !strings.HasPrefix(u.Path, dashboardPath) || strings.HasPrefix(u.Path, "/admin/api/") {
		return ""
	}
	switch {
	case u.Path == loginPath, u.Path == "/admin/logout", strings.HasPrefix(u.Path, "/admin/2fa/"):
		return ""
	}
	return u.RequestURI()
}

// otpauthURL rebuilds the provisioning URL for a pending secret.
func otpauthURL(email, secret string) string {
	q := url.Values{"secret": {secret}, "issuer": {totpIssuer}}
	return (&url.URL{
		Scheme:   "otpauth",
		Host:     "totp",
		Path:     "/" + totpIssuer + ":" + email,
		RawQuery: q.Encode(),
	}).String()
}

// qrDataURI encodes content as a PNG QR code in a data: URI for use as an
// image source.
func qrDataURI(content string) (template.URL, error) {
	png, err := qrcode.Encode(content, qrcode.Medium, 256)
	if err != nil {
		return "", err
	}
	return template.URL("data:image/png;base64," + base64.StdEncoding.EncodeToString(png)), nil
}
