package cloudcode

import (
	"net/http"
	"testing"
)

func TestParseResetTimeFromRetryAfterHeaderSeconds(t *testing.T) {
	headers := http.Header{}
	headers.Set("retry-after", "30")
	if got := ParseResetTime(headers, ""); got != 30000 {
		t.Errorf("got %d, want 30000", got)
	}
}

func TestParseResetTimeFromRateLimitResetAfterHeader(t *testing.T) {
	headers := http.Header{}
	headers.Set("x-ratelimit-reset-after", "5")
	if got := ParseResetTime(headers, ""); got != 5000 {
		t.Errorf("got %d, want 5000", got)
	}
}

func TestParseResetTimeAddsBufferForShortDelays(t *testing.T) {
	headers := http.Header{}
	headers.Set("retry-after", "0")
	got := ParseResetTime(headers, "")
	if got != 500 {
		t.Errorf("got %d, want 500 default for zero/invalid reset", got)
	}
}

func TestParseResetTimeFromBodyQuotaResetDelayMs(t *testing.T) {
	got := ParseResetTime(http.Header{}, `error: quotaResetDelay: "754ms"`)
	if got <= 0 {
		t.Fatalf("got %d, want a positive reset delay", got)
	}
}

func TestParseResetTimeFromBodyRetryDelaySeconds(t *testing.T) {
	got := ParseResetTime(http.Header{}, `retryDelay: "1.5s"`)
	if got != 1500 {
		t.Errorf("got %d, want 1500", got)
	}
}

func TestParseResetTimeNoSignalReturnsNegativeOne(t *testing.T) {
	got := ParseResetTime(http.Header{}, "no useful signal here")
	if got != -1 {
		t.Errorf("got %d, want -1", got)
	}
}

func TestParseRateLimitReasonStatusCodes(t *testing.T) {
	cases := []struct {
		status int
		want   RateLimitReason
	}{
		{529, RateLimitReasonModelCapacityExhausted},
		{503, RateLimitReasonModelCapacityExhausted},
		{500, RateLimitReasonServerError},
	}
	for _, tc := range cases {
		if got := ParseRateLimitReason("", tc.status); got != tc.want {
			t.Errorf("status %d: got %q, want %q", tc.status, got, tc.want)
		}
	}
}

func TestParseRateLimitReasonFromText(t *testing.T) {
	cases := []struct {
		text string
		want RateLimitReason
	}{
		{"Daily limit exceeded for this account", RateLimitReasonQuotaExhausted},
		{"RESOURCE_EXHAUSTED: quota exceeded", RateLimitReasonQuotaExhausted},
		{"Model is currently overloaded, please retry", RateLimitReasonModelCapacityExhausted},
		{"429 Too Many Requests", RateLimitReasonRateLimitExceeded},
		{"502 Bad Gateway", RateLimitReasonServerError},
		{"something totally unrelated", RateLimitReasonUnknown},
	}
	for _, tc := range cases {
		if got := ParseRateLimitReason(tc.text, 0); got != tc.want {
			t.Errorf("text %q: got %q, want %q", tc.text, got, tc.want)
		}
	}
}
