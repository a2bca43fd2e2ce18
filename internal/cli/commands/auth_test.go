package commands

import (
	"errors"
	"net/http"
	"strings"
	"testing"

	"github.com/shopfront-dev/shopfront/internal/cli/app"
	"github.com/shopfront-dev/shopfront/internal/cli/router"
	"github.com/shopfront-dev/shopfront/internal/cli/session"
)

func TestLoginCommand_Flags(t *testing.T) {
	cmd := NewLoginCmd(nil)

	if cmd.Use != "login" {
		t.Errorf("expected Use to be 'login', got %s", cmd.Use)
	}

	for _, name := range []string{"email", "password", "redirect"} {
		if cmd.Flags().Lookup(name) == nil {
			t.Errorf("expected --%s flag to exist", name)
		}
	}
}

func TestLogin_WithEnvVars(t *testing.T) {
	te := newTestEnv(t)
	te.api.AddUser("admin@example.com", "secret", true)
	te.vars["SHOPFRONT_EMAIL"] = "admin@example.com"
	te.vars["SHOPFRONT_PASSWORD"] = "secret"

	if err := execute(NewLoginCmd(te.Env)); err != nil {
		t.Fatalf("login failed: %v", err)
	}

	output := te.out.String()
	if !strings.Contains(output, "✓ Login successful!") {
		t.Errorf("expected success message, got:\n%s", output)
	}
	if !strings.Contains(output, "Role: Admin") {
		t.Errorf("expected admin role line, got:\n%s", output)
	}

	record, _ := te.persister.Load()
	if record.Token == "" || record.User == nil || !record.User.IsAdmin {
		t.Errorf("expected persisted admin session, got %+v", record)
	}
	if len(te.prompter.Asked) != 0 {
		t.Errorf("expected no prompts, got %v", te.prompter.Asked)
	}
}

func TestLogin_PromptsForMissingCredentials(t *testing.T) {
	te := newTestEnv(t)
	te.api.AddUser("shopper@example.com", "secret", false)
	te.prompter.Answers["Email"] = "shopper@example.com"
	te.prompter.Answers["Password"] = "secret"

	if err := execute(NewLoginCmd(te.Env)); err != nil {
		t.Fatalf("login failed: %v", err)
	}

	if got := strings.Join(te.prompter.Asked, ","); got != "Email,Password" {
		t.Errorf("expected Email then Password prompts, got %s", got)
	}
	if strings.Contains(te.out.String(), "Role: Admin") {
		t.Error("customer should not be shown as admin")
	}
}

func TestLogin_MissingEmail(t *testing.T) {
	te := newTestEnv(t)

	err := execute(NewLoginCmd(te.Env))
	if err == nil {
		t.Fatal("expected error for missing email")
	}
	if !strings.Contains(err.Error(), "email is required") {
		t.Errorf("unexpected error: %v", err)
	}
	if te.api.Hits(http.MethodPost, "/auth/login") != 0 {
		t.Error("no request should be sent without an email")
	}
}

func TestLogin_InvalidCredentials(t *testing.T) {
	te := newTestEnv(t)
	te.api.AddUser("shopper@example.com", "secret", false)

	err := execute(NewLoginCmd(te.Env), "--email", "shopper@example.com", "--password", "wrong")
	if err == nil {
		t.Fatal("expected login to fail")
	}
	if !strings.Contains(err.Error(), "Invalid email or password") {
		t.Errorf("expected server message in error, got: %v", err)
	}

	a, _ := te.App()
	if a.Session.Authenticated() {
		t.Error("session should stay signed out")
	}
}

func TestLogin_ContinuesToRedirect(t *testing.T) {
	te := newTestEnv(t)
	te.api.AddUser("shopper@example.com", "secret", false)

	err := execute(NewLoginCmd(te.Env), "--email", "shopper@example.com", "--password", "secret", "--redirect", "/checkout")
	if err != nil {
		t.Fatalf("login failed: %v", err)
	}

	a, _ := te.App()
	if got := a.Navigator.Current().Name; got != router.CheckoutRoute {
		t.Errorf("expected to land on checkout, got %s", got)
	}
	if !strings.Contains(te.out.String(), "Continuing to /checkout") {
		t.Errorf("expected redirect notice, got:\n%s", te.out.String())
	}
}

func TestLogin_FollowsPendingRedirect(t *testing.T) {
	te := newTestEnv(t)
	te.api.AddUser("shopper@example.com", "secret", false)

	// Opening a guarded page first leaves the navigator on /login?redirect=/cart
	if err := execute(NewCartCmd(te.Env)); err != nil {
		t.Fatalf("cart failed: %v", err)
	}

	err := execute(NewLoginCmd(te.Env), "--email", "shopper@example.com", "--password", "secret")
	if err != nil {
		t.Fatalf("login failed: %v", err)
	}

	a, _ := te.App()
	if got := a.Navigator.Current().Name; got != router.CartRoute {
		t.Errorf("expected to continue to the cart, got %s", got)
	}
}

func TestRegister_CreatesAccount(t *testing.T) {
	te := newTestEnv(t)
	te.prompter.Answers["Password"] = "secret"
	te.prompter.Answers["Confirm password"] = "secret"

	if err := execute(NewRegisterCmd(te.Env), "--email", "new@example.com"); err != nil {
		t.Fatalf("register failed: %v", err)
	}

	if !strings.Contains(te.out.String(), "✓ Account created!") {
		t.Errorf("expected success message, got:\n%s", te.out.String())
	}

	record, _ := te.persister.Load()
	if record.User == nil || record.User.Email != "new@example.com" {
		t.Errorf("expected new account in session, got %+v", record)
	}
}

func TestRegister_PasswordMismatch(t *testing.T) {
	te := newTestEnv(t)
	te.prompter.Answers["Password"] = "secret"
	te.prompter.Answers["Confirm password"] = "typo"

	err := execute(NewRegisterCmd(te.Env), "--email", "new@example.com")
	if err == nil || !strings.Contains(err.Error(), "passwords do not match") {
		t.Fatalf("expected mismatch error, got %v", err)
	}
	if te.api.Hits(http.MethodPost, "/auth/register") != 0 {
		t.Error("no request should be sent on mismatch")
	}
}

func TestRegister_EmailTaken(t *testing.T) {
	te := newTestEnv(t)
	te.api.AddUser("taken@example.com", "secret", false)

	err := execute(NewRegisterCmd(te.Env), "--email", "taken@example.com", "--password", "secret")
	if err == nil || !strings.Contains(err.Error(), "Email already in use") {
		t.Fatalf("expected conflict message, got %v", err)
	}
}

func TestLogout(t *testing.T) {
	te := newTestEnv(t)
	te.signIn(t, false)

	if err := execute(NewLogoutCmd(te.Env)); err != nil {
		t.Fatalf("logout failed: %v", err)
	}

	if !strings.Contains(te.out.String(), "✓ Logged out") {
		t.Errorf("expected logout message, got:\n%s", te.out.String())
	}
	if te.persister.Clears != 1 {
		t.Errorf("expected one clear, got %d", te.persister.Clears)
	}

	a, _ := te.App()
	if a.Navigator.Current().Name != router.LoginRoute {
		t.Errorf("expected navigator at login, got %s", a.Navigator.Current().Name)
	}
}

func TestLogout_NotSignedIn(t *testing.T) {
	te := newTestEnv(t)

	if err := execute(NewLogoutCmd(te.Env)); err != nil {
		t.Fatalf("logout failed: %v", err)
	}
	if !strings.Contains(te.out.String(), "Not logged in") {
		t.Errorf("unexpected output:\n%s", te.out.String())
	}
}

func TestWhoami(t *testing.T) {
	te := newTestEnv(t)
	user := te.signIn(t, false)

	if err := execute(NewWhoamiCmd(te.Env)); err != nil {
		t.Fatalf("whoami failed: %v", err)
	}

	output := te.out.String()
	for _, want := range []string{"Email:    " + user.Email, "Role:     Customer", "Referral: " + user.ReferralCode, "Session:  expires"} {
		if !strings.Contains(output, want) {
			t.Errorf("expected %q in output:\n%s", want, output)
		}
	}
	if te.api.Hits(http.MethodGet, "/auth/me") != 1 {
		t.Error("expected the profile to be refreshed")
	}
}

func TestWhoami_NotSignedIn(t *testing.T) {
	te := newTestEnv(t)

	if err := execute(NewWhoamiCmd(te.Env)); err != nil {
		t.Fatalf("whoami failed: %v", err)
	}
	if !strings.Contains(te.out.String(), "Not logged in") {
		t.Errorf("unexpected output:\n%s", te.out.String())
	}
	if te.api.Hits(http.MethodGet, "/auth/me") != 0 {
		t.Error("no profile request expected without a session")
	}
}

func TestWhoami_TokenWithoutProfile(t *testing.T) {
	te := newTestEnv(t)
	user := te.api.AddUser("shopper@example.com", "secret", false)
	if err := te.persister.Save(session.Session{Token: te.api.IssueToken(user.ID)}); err != nil {
		t.Fatalf("failed to seed session: %v", err)
	}
	te.api.Fail(http.MethodGet, "/auth/me", http.StatusInternalServerError, nil)

	if err := execute(NewWhoamiCmd(te.Env)); err != nil {
		t.Fatalf("whoami failed: %v", err)
	}
	if !strings.Contains(te.out.String(), "Not logged in") {
		t.Errorf("a token without a profile should read as signed out, got:\n%s", te.out.String())
	}
	if te.api.Hits(http.MethodGet, "/auth/me") != 0 {
		t.Error("no profile request expected for a discarded session")
	}
}

func TestWhoami_ExpiredSession(t *testing.T) {
	te := newTestEnv(t)
	te.signIn(t, false)
	te.api.RevokeTokens()

	err := execute(NewWhoamiCmd(te.Env))
	if !errors.Is(err, app.ErrSignInRequired) {
		t.Fatalf("expected ErrSignInRequired, got %v", err)
	}
	if te.persister.Clears != 1 {
		t.Errorf("expected the session to be cleared once, got %d", te.persister.Clears)
	}
}
