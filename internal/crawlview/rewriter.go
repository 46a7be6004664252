package crawlview

import (
	"net/url"
	"strings"
)

// DefaultProxyBase is the image proxy used when none is configured.
const DefaultProxyBase = "http://localhost:5000"

const proxyPath = "/proxy_image"

// HostRule routes images from matching hosts through the proxy with the
// given Referer header. A host matches when it contains any of Patterns.
type HostRule struct {
	Patterns []string
	Referer  string
}

// DefaultHostRules returns the image hosts known to reject hotlinked
// requests that lack a matching Referer.
func DefaultHostRules() []HostRule {
	return []HostRule{
		{Patterns: []string{"hdslb.com"}, Referer: "https://www.bilibili.com"},
		{Patterns: []string{"doubanio.com", "douban.com"}, Referer: "https://book.douban.com"},
	}
}

// Rewriter maps image URLs on hotlink-protected hosts to the image proxy.
type Rewriter struct {
	proxyBase string
	rules     []HostRule
}

// NewRewriter returns a Rewriter that targets proxyBase. An empty proxyBase
// falls back to DefaultProxyBase and no rules fall back to DefaultHostRules.
func NewRewriter(proxyBase string, rules ...HostRule) *Rewriter {
	if proxyBase == "" {
		proxyBase = DefaultProxyBase
	}
	if len(rules) == 0 {
		rules = DefaultHostRules()
	}
	return &Rewriter{
		proxyBase: strings.TrimRight(proxyBase, "/"),
		rules:     rules,
	}
}

// ProxyBase returns the proxy base URL without a trailing slash.
func (r *Rewriter) ProxyBase() string {
	return r.proxyBase
}

// Rewrite returns the proxy URL for rawURL when its host is restricted and
// rawURL unchanged otherwise. Rewrite never fails: URLs that cannot be
// parsed, have no host, or already point at the proxy pass through.
func (r *Rewriter) Rewrite(rawURL string) string {
	if r == nil || strings.HasPrefix(rawURL, r.proxyBase+proxyPath+"?") {
		return rawURL
	}

	rule, ok := r.match(rawURL)
	if !ok {
		return rawURL
	}

	return r.proxyBase + proxyPath +
		"?url=" + url.QueryEscape(rawURL) +
		"&referer=" + url.QueryEscape(rule.Referer)
}

// RewriteAll rewrites every URL in urls into a new slice.
func (r *Rewriter) RewriteAll(urls []string) []string {
	if len(urls) == 0 {
		return nil
	}
	out := make([]string, len(urls))
	for i, u := range urls {
		out[i] = r.Rewrite(u)
	}
	return out
}

// match classifies rawURL by host so that a proxy URL carrying a restricted
// URL in its query is not itself treated as restricted.
func (r *Rewriter) match(rawURL string) (HostRule, bool) {
	parsed, err := url.Parse(rawURL)
	if err != nil {
		return HostRule{}, false
	}

	host := strings.ToLower(parsed.Hostname())
	if host == "" {
		return HostRule{}, false
	}

	for _, rule := range r.rules {
		for _, pattern := range rule.Patterns {
			if pattern != "" && strings.Contains(host, pattern) {
				return rule, true
			}
		}
	}
	return HostRule{}, false
}
