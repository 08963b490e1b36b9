package auth

import (
	"strings"
	"testing"
	"time"

	"golang.org/x/oauth2"
)

func TestParseRefreshPartsRoundTrip(t *testing.T) {
	cases := []struct {
		name  string
		input string
		want  RefreshParts
	}{
		{"bare token", "rt-only", RefreshParts{RefreshToken: "rt-only"}},
		{"with project", "rt|proj-1", RefreshParts{RefreshToken: "rt", ProjectID: "proj-1"}},
		{"with managed project", "rt|proj-1|managed-1", RefreshParts{RefreshToken: "rt", ProjectID: "proj-1", ManagedProjectID: "managed-1"}},
		{"empty project segment", "rt||managed-1", RefreshParts{RefreshToken: "rt", ManagedProjectID: "managed-1"}},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got := ParseRefreshParts(tc.input)
			if got != tc.want {
				t.Errorf("ParseRefreshParts(%q) = %+v, want %+v", tc.input, got, tc.want)
			}
		})
	}
}

func TestFormatRefreshParts(t *testing.T) {
	got := FormatRefreshParts(RefreshParts{RefreshToken: "rt", ProjectID: "proj-1"})
	if got != "rt|proj-1" {
		t.Errorf("got %q, want rt|proj-1", got)
	}

	got = FormatRefreshParts(RefreshParts{RefreshToken: "rt", ProjectID: "proj-1", ManagedProjectID: "managed-1"})
	if got != "rt|proj-1|managed-1" {
		t.Errorf("got %q, want rt|proj-1|managed-1", got)
	}
}

func TestGeneratePKCEChallengeDerivesFromVerifier(t *testing.T) {
	pkce, err := GeneratePKCE()
	if err != nil {
		t.Fatal(err)
	}
	if pkce.Verifier == "" || pkce.Challenge == "" {
		t.Fatal("expected non-empty verifier and challenge")
	}
	if pkce.Verifier == pkce.Challenge {
		t.Error("challenge should be a hash of the verifier, not equal to it")
	}

	other, err := GeneratePKCE()
	if err != nil {
		t.Fatal(err)
	}
	if other.Verifier == pkce.Verifier {
		t.Error("expected distinct verifiers across calls")
	}
}

func TestGenerateStateIsHexAndUnpredictable(t *testing.T) {
	a, err := GenerateState()
	if err != nil {
		t.Fatal(err)
	}
	b, err := GenerateState()
	if err != nil {
		t.Fatal(err)
	}
	if a == b {
		t.Error("expected distinct state values across calls")
	}
	if len(a) != 32 {
		t.Errorf("state length = %d, want 32 (16 bytes hex-encoded)", len(a))
	}
}

func TestGetAuthorizationURLEmbedsPKCEAndState(t *testing.T) {
	result, err := GetAuthorizationURL("http://localhost:12345/oauth-callback")
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(result.URL, "code_challenge=") {
		t.Error("expected authorization URL to include code_challenge")
	}
	if !strings.Contains(result.URL, "state="+result.State) {
		t.Error("expected authorization URL to include the returned state")
	}
	if !strings.Contains(result.URL, "prompt=consent") {
		t.Error("expected authorization URL to request consent")
	}
}

func TestExtractCodeFromInputURL(t *testing.T) {
	result, err := ExtractCodeFromInput("http://localhost:51121/oauth-callback?code=4%2F0abc&state=xyz")
	if err != nil {
		t.Fatal(err)
	}
	if result.Code != "4/0abc" {
		t.Errorf("code = %q, want 4/0abc", result.Code)
	}
	if result.State != "xyz" {
		t.Errorf("state = %q, want xyz", result.State)
	}
}

func TestExtractCodeFromInputRawCode(t *testing.T) {
	result, err := ExtractCodeFromInput("  4/0AbCdEfGhIjKlMnOpQrStUvWxYz  ")
	if err != nil {
		t.Fatal(err)
	}
	if result.Code != "4/0AbCdEfGhIjKlMnOpQrStUvWxYz" {
		t.Errorf("code = %q", result.Code)
	}
	if result.State != "" {
		t.Errorf("state = %q, want empty for raw code input", result.State)
	}
}

func TestExtractCodeFromInputErrors(t *testing.T) {
	cases := []string{
		"",
		"short",
		"http://localhost:51121/oauth-callback?error=access_denied",
		"http://localhost:51121/oauth-callback",
	}
	for _, input := range cases {
		if _, err := ExtractCodeFromInput(input); err == nil {
			t.Errorf("ExtractCodeFromInput(%q) expected an error", input)
		}
	}
}

func TestExpiresInSecondsZeroExpiry(t *testing.T) {
	if got := expiresInSeconds(&oauth2.Token{}); got != 0 {
		t.Errorf("got %d, want 0 for zero-value expiry", got)
	}
}

func TestExpiresInSecondsFuture(t *testing.T) {
	tok := &oauth2.Token{Expiry: time.Now().Add(90 * time.Second)}
	got := expiresInSeconds(tok)
	if got <= 0 || got > 90 {
		t.Errorf("got %d, want a value in (0, 90]", got)
	}
}

func TestExpiresInSecondsPastNeverNegative(t *testing.T) {
	tok := &oauth2.Token{Expiry: time.Now().Add(-time.Hour)}
	if got := expiresInSeconds(tok); got != 0 {
		t.Errorf("got %d, want 0 for an already-expired token", got)
	}
}

func TestOAuthEndpointCarriesConfiguredEndpoint(t *testing.T) {
	cfg := oauthEndpoint("http://localhost:1/callback")
	if cfg.RedirectURL != "http://localhost:1/callback" {
		t.Errorf("redirect URL = %q", cfg.RedirectURL)
	}
	if cfg.Endpoint.AuthURL == "" || cfg.Endpoint.TokenURL == "" {
		t.Error("expected non-empty auth/token endpoints")
	}
}
