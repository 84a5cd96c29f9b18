package generation

import (
	"encoding/json"
	"fmt"
	"regexp"
	"sort"
	"strconv"
	"strings"
	"time"
	"unicode"
)

// Well-known context placeholders. They are resolved before caller
// parameters, so a parameter can never replace them.
const (
	TokenClientName       = "[CLIENT_NAME]"
	TokenDate             = "[DATE]"
	TokenCaseNumber       = "[CASE_NUMBER]"
	TokenOrganizationName = "[ORGANIZATION_NAME]"
)

// Defaults written in place of a well-known placeholder whose value is absent.
const (
	DefaultClientName       = "[Client Name]"
	DefaultCaseNumber       = "[Case Number]"
	DefaultOrganizationName = "[Organization Name]"
)

// DateLayout formats the [DATE] placeholder.
const DateLayout = "January 2, 2006"

var placeholderPattern = regexp.MustCompile(`\[[A-Z0-9_]+\]`)

// Context carries the well-known values for one resolution.
type Context struct {
	ClientName       string
	CaseNumber       string
	OrganizationName string
	Date             time.Time
}

// TokenFor returns the bracket token a parameter key fills: the key
// upper-cased, so "startDate" fills "[STARTDATE]".
func TokenFor(key string) string {
	return "[" + strings.ToUpper(strings.TrimSpace(key)) + "]"
}

// aliasFor splits a key at lower-to-upper boundaries and joins the words
// with underscores, so "startDate" also fills "[START_DATE]".
func aliasFor(key string) string {
	var b strings.Builder
	runes := []rune(strings.TrimSpace(key))
	for i, r := range runes {
		switch {
		case r == '-' || r == ' ' || r == '.':
			b.WriteRune('_')
			continue
		case unicode.IsUpper(r) && i > 0 && (unicode.IsLower(runes[i-1]) || unicode.IsDigit(runes[i-1])):
			b.WriteRune('_')
		}
		b.WriteRune(r)
	}
	return "[" + strings.ToUpper(b.String()) + "]"
}

// Resolve substitutes placeholders in text. Well-known tokens are bound
// first, then every parameter's own token, then the underscore aliases of
// the parameters; a token already bound is never rebound. All bindings are
// applied in a single pass, so every token is replaced exactly once and
// substituted values are never rescanned. Placeholders without a binding,
// and parameters with nil values, are left verbatim.
func Resolve(text string, ctx Context, params map[string]interface{}) string {
	bound := map[string]bool{}
	var pairs []string
	bind := func(token, value string) {
		if bound[token] {
			return
		}
		bound[token] = true
		pairs = append(pairs, token, value)
	}

	bind(TokenClientName, orDefault(ctx.ClientName, DefaultClientName))
	date := ctx.Date
	if date.IsZero() {
		date = time.Now()
	}
	bind(TokenDate, date.Format(DateLayout))
	bind(TokenCaseNumber, orDefault(ctx.CaseNumber, DefaultCaseNumber))
	bind(TokenOrganizationName, orDefault(ctx.OrganizationName, DefaultOrganizationName))

	keys := make([]string, 0, len(params))
	for k, v := range params {
		if v != nil {
			keys = append(keys, k)
		}
	}
	sort.Strings(keys)
	for _, k := range keys {
		bind(TokenFor(k), FormatValue(params[k]))
	}
	for _, k := range keys {
		bind(aliasFor(k), FormatValue(params[k]))
	}

	return strings.NewReplacer(pairs...).Replace(text)
}

// FormatValue renders a parameter value as document text. Numbers keep
// their plain decimal form; 1500000 never becomes 1.5e+06.
func FormatValue(v interface{}) string {
	switch n := v.(type) {
	case string:
		return n
	case json.Number:
		return n.String()
	case float64:
		return strconv.FormatFloat(n, 'f', -1, 64)
	case float32:
		return strconv.FormatFloat(float64(n), 'f', -1, 32)
	}
	return fmt.Sprint(v)
}

// Unresolved lists the distinct placeholders still present in text, in order
// of first appearance.
func Unresolved(text string) []string {
	seen := map[string]bool{}
	out := []string{}
	for _, m := range placeholderPattern.FindAllString(text, -1) {
		if !seen[m] {
			seen[m] = true
			out = append(out, m)
		}
	}
	return out
}

func orDefault(value, def string) string {
	if strings.TrimSpace(value) == "" {
		return def
	}
	return value
}
