package affiliate

import (
	"fmt"
	"net/url"
	"strings"
)

// DefaultDomain is the marketplace TLD used for the US and for any country
// without a dedicated storefront.
const DefaultDomain = "com"

// tldMap maps two-letter country codes to Amazon top-level domains.
var tldMap = map[string]string{
	"US": "com",
	"GB": "co.uk",
	"CA": "ca",
	"AU": "com.au",
	"DE": "de",
	"FR": "fr",
	"ES": "es",
	"IT": "it",
	"JP": "co.jp",
	"CN": "cn",
	"IN": "in",
	"NL": "nl",
	"BR": "com.br",
	"MX": "com.mx",
}

// LinkBuilder constructs geo-localized outbound purchase URLs carrying a
// fixed affiliate tag. The tag is operational configuration, never computed.
type LinkBuilder struct {
	tag string
}

// NewLinkBuilder creates a LinkBuilder using the given affiliate tag.
func NewLinkBuilder(tag string) *LinkBuilder {
	return &LinkBuilder{tag: tag}
}

// DomainFor returns the marketplace TLD for a two-letter country code,
// case-insensitively. Unknown or empty codes fall back to DefaultDomain;
// the lookup is total and never fails.
func DomainFor(countryCode string) string {
	if tld, ok := tldMap[strings.ToUpper(countryCode)]; ok {
		return tld
	}
	return DefaultDomain
}

// BuildLink returns the full localized product URL for an ASIN. An empty or
// unresolved country code resolves to the default storefront. The ASIN is
// opaque to this system and passed through verbatim, path-escaped only as
// URL hardening.
func (b *LinkBuilder) BuildLink(asin, countryCode string) string {
	return fmt.Sprintf("https://www.amazon.%s/dp/%s/?tag=%s",
		DomainFor(countryCode), url.PathEscape(asin), url.QueryEscape(b.tag))
}
