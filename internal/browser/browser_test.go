package browser

import (
	"context"
	"testing"
	"time"

	"github.com/avelar/chatdeck/internal/config"
)

func TestParseBrowser(t *testing.T) {
	tests := []struct {
		input    string
		expected SupportedBrowser
		wantErr  bool
	}{
		{"auto", BrowserAuto, false},
		{"", BrowserAuto, false},
		{"chrome", BrowserChrome, false},
		{"Chrome", BrowserChrome, false},
		{"CHROME", BrowserChrome, false},
		{"google-chrome", BrowserChrome, false},
		{"chromium", BrowserChromium, false},
		{"firefox", BrowserFirefox, false},
		{"Firefox", BrowserFirefox, false},
		{"mozilla", BrowserFirefox, false},
		{"mozilla-firefox", BrowserFirefox, false},
		{"edge", BrowserEdge, false},
		{"microsoft-edge", BrowserEdge, false},
		{"msedge", BrowserEdge, false},
		{"opera", BrowserOpera, false},
		{"invalid", "", true},
		{"safari", "", true}, // Not supported
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			result, err := ParseBrowser(tt.input)
			if tt.wantErr {
				if err == nil {
					t.Errorf("ParseBrowser(%q) expected error, got nil", tt.input)
				}
			} else {
				if err != nil {
					t.Errorf("ParseBrowser(%q) unexpected error: %v", tt.input, err)
				}
				if result != tt.expected {
					t.Errorf("ParseBrowser(%q) = %v, want %v", tt.input, result, tt.expected)
				}
			}
		})
	}
}

func TestSupportedBrowserString(t *testing.T) {
	tests := []struct {
		browser  SupportedBrowser
		expected string
	}{
		{BrowserAuto, "auto"},
		{BrowserChrome, "chrome"},
		{BrowserChromium, "chromium"},
		{BrowserFirefox, "firefox"},
		{BrowserEdge, "edge"},
		{BrowserOpera, "opera"},
	}

	for _, tt := range tests {
		t.Run(tt.expected, func(t *testing.T) {
			if result := tt.browser.String(); result != tt.expected {
				t.Errorf("SupportedBrowser.String() = %v, want %v", result, tt.expected)
			}
		})
	}
}

func TestAllSupportedBrowsers(t *testing.T) {
	browsers := AllSupportedBrowsers()

	if len(browsers) == 0 {
		t.Error("AllSupportedBrowsers() returned empty slice")
	}

	expected := map[SupportedBrowser]bool{
		BrowserChrome:   true,
		BrowserChromium: true,
		BrowserFirefox:  true,
		BrowserEdge:     true,
		BrowserOpera:    true,
	}

	for _, browser := range browsers {
		if !expected[browser] {
			t.Errorf("Unexpected browser in AllSupportedBrowsers(): %v", browser)
		}
		delete(expected, browser)
	}

	if len(expected) > 0 {
		t.Errorf("Missing browsers in AllSupportedBrowsers(): %v", expected)
	}
}

func TestMatchesBrowser(t *testing.T) {
	tests := []struct {
		browserName string
		target      SupportedBrowser
		expected    bool
	}{
		{"chrome", BrowserChrome, true},
		{"Google Chrome", BrowserChrome, true},
		{"chromium", BrowserChrome, false}, // chromium should not match chrome
		{"chromium", BrowserChromium, true},
		{"Chromium", BrowserChromium, true},
		{"firefox", BrowserFirefox, true},
		{"Firefox", BrowserFirefox, true},
		{"Mozilla Firefox", BrowserFirefox, true},
		{"edge", BrowserEdge, true},
		{"Microsoft Edge", BrowserEdge, true},
		{"opera", BrowserOpera, true},
		{"Opera", BrowserOpera, true},
		{"safari", BrowserChrome, false},
		{"", BrowserChrome, false},
	}

	for _, tt := range tests {
		t.Run(tt.browserName+"_"+tt.target.String(), func(t *testing.T) {
			result := matchesBrowser(tt.browserName, tt.target)
			if result != tt.expected {
				t.Errorf("matchesBrowser(%q, %v) = %v, want %v", tt.browserName, tt.target, result, tt.expected)
			}
		})
	}
}

func TestHostOf(t *testing.T) {
	tests := []struct {
		name    string
		baseURL string
		want    string
		wantErr bool
	}{
		{name: "host and port", baseURL: "http://localhost:8080", want: "localhost"},
		{name: "bare host", baseURL: "https://chat.example.com", want: "chat.example.com"},
		{name: "path ignored", baseURL: "https://chat.example.com/api", want: "chat.example.com"},
		{name: "no host", baseURL: "not a url", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := hostOf(tt.baseURL)
			if tt.wantErr {
				if err == nil {
					t.Fatalf("hostOf(%q) expected error", tt.baseURL)
				}
				return
			}
			if err != nil {
				t.Fatalf("hostOf(%q) error = %v", tt.baseURL, err)
			}
			if got != tt.want {
				t.Errorf("hostOf(%q) = %q, want %q", tt.baseURL, got, tt.want)
			}
		})
	}
}

func TestCookieDomain(t *testing.T) {
	tests := []struct {
		name string
		host string
		want string
	}{
		{name: "subdomain widened", host: "chat.example.com", want: "example.com"},
		{name: "registrable domain unchanged", host: "example.com", want: "example.com"},
		{name: "localhost as-is", host: "localhost", want: "localhost"},
		{name: "ip as-is", host: "127.0.0.1", want: "127.0.0.1"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := cookieDomain(tt.host); got != tt.want {
				t.Errorf("cookieDomain(%q) = %q, want %q", tt.host, got, tt.want)
			}
		})
	}
}

func TestListAvailableBrowsers(t *testing.T) {
	// The actual result depends on the system's installed browsers.
	browsers := ListAvailableBrowsers()
	t.Logf("Found %d browsers: %v", len(browsers), browsers)
}

func TestExtractSessionCookie_InvalidBrowser(t *testing.T) {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	_, err := ExtractSessionCookie(ctx, "nonexistent", config.DefaultConfig().BaseURL)
	if err == nil {
		t.Error("ExtractSessionCookie with nonexistent browser should return error")
	}
}

func TestExtractSessionCookie_InvalidBaseURL(t *testing.T) {
	_, err := ExtractSessionCookie(context.Background(), BrowserAuto, "://bad")
	if err == nil {
		t.Error("ExtractSessionCookie with invalid base URL should return error")
	}
}

func TestExtractSessionCookie_ContextCancellation(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel() // Cancel immediately

	_, err := ExtractSessionCookie(ctx, BrowserChrome, config.DefaultConfig().BaseURL)
	// May or may not error depending on what stores exist; must not hang.
	t.Logf("Result with cancelled context: %v", err)
}
