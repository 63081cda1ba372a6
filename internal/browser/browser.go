// Package browser extracts the backend session cookie from web browsers.
package browser

import (
	"context"
	"fmt"
	"net/url"
	"strings"

	"github.com/browserutils/kooky"
	_ "github.com/browserutils/kooky/browser/chrome"
	_ "github.com/browserutils/kooky/browser/chromium"
	_ "github.com/browserutils/kooky/browser/edge"
	_ "github.com/browserutils/kooky/browser/firefox"
	_ "github.com/browserutils/kooky/browser/opera"
	"golang.org/x/net/publicsuffix"

	"github.com/avelar/chatdeck/internal/config"
)

// SupportedBrowser represents a supported browser type
type SupportedBrowser string

const (
	BrowserAuto     SupportedBrowser = "auto"
	BrowserChrome   SupportedBrowser = "chrome"
	BrowserChromium SupportedBrowser = "chromium"
	BrowserFirefox  SupportedBrowser = "firefox"
	BrowserEdge     SupportedBrowser = "edge"
	BrowserOpera    SupportedBrowser = "opera"
)

// AllSupportedBrowsers returns a list of all supported browsers
func AllSupportedBrowsers() []SupportedBrowser {
	return []SupportedBrowser{
		BrowserChrome,
		BrowserChromium,
		BrowserFirefox,
		BrowserEdge,
		BrowserOpera,
	}
}

// String returns the string representation of the browser
func (b SupportedBrowser) String() string {
	return string(b)
}

// ParseBrowser parses a browser string into a SupportedBrowser
func ParseBrowser(s string) (SupportedBrowser, error) {
	switch strings.ToLower(s) {
	case "auto", "":
		return BrowserAuto, nil
	case "chrome", "google-chrome":
		return BrowserChrome, nil
	case "chromium":
		return BrowserChromium, nil
	case "firefox", "mozilla", "mozilla-firefox":
		return BrowserFirefox, nil
	case "edge", "microsoft-edge", "msedge":
		return BrowserEdge, nil
	case "opera":
		return BrowserOpera, nil
	default:
		return "", fmt.Errorf("unsupported browser: %s. Supported: chrome, chromium, firefox, edge, opera", s)
	}
}

// ExtractResult contains the result of cookie extraction
type ExtractResult struct {
	Value       string
	BrowserName string
}

// ExtractSessionCookie looks up the backend session cookie for the
// given base URL in local browser cookie stores.
func ExtractSessionCookie(ctx context.Context, browser SupportedBrowser, baseURL string) (*ExtractResult, error) {
	host, err := hostOf(baseURL)
	if err != nil {
		return nil, err
	}
	if browser == BrowserAuto {
		return extractFromAllBrowsers(ctx, host)
	}
	return extractFromBrowser(ctx, browser, host)
}

func hostOf(baseURL string) (string, error) {
	u, err := url.Parse(baseURL)
	if err != nil {
		return "", fmt.Errorf("invalid base URL %q: %w", baseURL, err)
	}
	host := u.Hostname()
	if host == "" {
		return "", fmt.Errorf("invalid base URL %q: no host", baseURL)
	}
	return host, nil
}

// cookieDomain widens host to its registrable domain so a cookie set
// on the parent domain is still found. Hosts without a public suffix
// (localhost, plain IPs) are used as-is.
func cookieDomain(host string) string {
	if domain, err := publicsuffix.EffectiveTLDPlusOne(host); err == nil {
		return domain
	}
	return host
}

// extractFromAllBrowsers tries all supported browsers in order of popularity.
func extractFromAllBrowsers(ctx context.Context, host string) (*ExtractResult, error) {
	browsers := []SupportedBrowser{
		BrowserChrome,
		BrowserFirefox,
		BrowserEdge,
		BrowserChromium,
		BrowserOpera,
	}

	var lastErr error
	for _, browser := range browsers {
		result, err := extractFromBrowser(ctx, browser, host)
		if err == nil {
			return result, nil
		}
		lastErr = err
	}

	if lastErr != nil {
		return nil, fmt.Errorf("could not find a session cookie in any browser: %w", lastErr)
	}
	return nil, fmt.Errorf("could not find a session cookie in any supported browser")
}

// extractFromBrowser tries every profile of one browser until the
// cookie turns up.
func extractFromBrowser(ctx context.Context, browser SupportedBrowser, host string) (*ExtractResult, error) {
	stores := kooky.FindAllCookieStores(ctx)

	var matchingStores []kooky.CookieStore
	var browserName string

	for _, store := range stores {
		name := store.Browser()
		if matchesBrowser(name, browser) {
			matchingStores = append(matchingStores, store)
			if browserName == "" {
				browserName = name
			}
		} else {
			store.Close()
		}
	}

	if len(matchingStores) == 0 {
		return nil, fmt.Errorf("browser %s not found or no cookie store available", browser)
	}

	var result *ExtractResult
	var lastErr error
	for _, store := range matchingStores {
		if result == nil {
			r, err := extractFromStore(ctx, store, browserName, store.Profile(), host)
			if err != nil {
				lastErr = err
			} else {
				result = r
			}
		}
		store.Close()
	}

	if result != nil {
		return result, nil
	}
	if lastErr != nil {
		return nil, lastErr
	}
	return nil, fmt.Errorf("browser %s not found or no cookie store available", browser)
}

// matchesBrowser checks if a browser name matches the target browser
func matchesBrowser(browserName string, target SupportedBrowser) bool {
	browserName = strings.ToLower(browserName)

	switch target {
	case BrowserChrome:
		return strings.Contains(browserName, "chrome") && !strings.Contains(browserName, "chromium")
	case BrowserChromium:
		return strings.Contains(browserName, "chromium")
	case BrowserFirefox:
		return strings.Contains(browserName, "firefox")
	case BrowserEdge:
		return strings.Contains(browserName, "edge")
	case BrowserOpera:
		return strings.Contains(browserName, "opera")
	default:
		return false
	}
}

func extractFromStore(ctx context.Context, store kooky.CookieStore, browserName, profile, host string) (*ExtractResult, error) {
	cookies := store.TraverseCookies(
		kooky.Valid,
		kooky.DomainContains(cookieDomain(host)),
		kooky.Name(config.SessionCookieName),
	).OnlyCookies()

	var value string
	for cookie := range cookies {
		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		default:
		}

		// Prefer an exact domain match over parent domains.
		if value == "" || cookie.Domain == host {
			value = cookie.Value
		}
	}

	displayName := browserName
	if profile != "" {
		displayName = fmt.Sprintf("%s (profile: %s)", browserName, profile)
	}

	if value == "" {
		return nil, fmt.Errorf("cookie %s not found in %s for host %s. Log into the web app first", config.SessionCookieName, displayName, host)
	}

	return &ExtractResult{
		Value:       value,
		BrowserName: displayName,
	}, nil
}

// ListAvailableBrowsers returns a list of browsers that have cookie stores
func ListAvailableBrowsers() []string {
	ctx := context.Background()
	stores := kooky.FindAllCookieStores(ctx)
	var browsers []string

	seen := make(map[string]bool)
	for _, store := range stores {
		name := store.Browser()
		if !seen[name] {
			browsers = append(browsers, name)
			seen[name] = true
		}
		store.Close()
	}

	return browsers
}
