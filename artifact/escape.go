package artifact

import (
	"regexp"
	"strings"
)

// Tag names that the chat renderer treats as protocol delimiters
const (
	artifactTag = "boltArtifact"
	actionTag   = "boltAction"
)

// A "<" or an already escaped "&lt;" (with any number of "amp;" layers)
// directly in front of an opening or closing protocol tag name.
var (
	escapeRe   = regexp.MustCompile(`(<|&(?:amp;)*lt;)(/?bolt(?:Artifact|Action))`)
	unescapeRe = regexp.MustCompile(`&((?:amp;)*)lt;(/?bolt(?:Artifact|Action))`)
)

// Escape neutralizes every substring of content that could open or close an
// artifact or action block. Escape and Unescape are exact inverses.
//
//	<boltAction        -> &lt;boltAction
//	&lt;boltAction     -> &amp;lt;boltAction
//	&amp;lt;boltAction -> &amp;amp;lt;boltAction
func Escape(content string) string {
	if !strings.Contains(content, "bolt") {
		return content
	}
	return escapeRe.ReplaceAllStringFunc(content, func(m string) string {
		if strings.HasPrefix(m, "<") {
			return "&lt;" + m[1:]
		}
		return "&amp;" + m[1:]
	})
}

// Unescape reverses Escape
func Unescape(content string) string {
	if !strings.Contains(content, "bolt") {
		return content
	}
	return unescapeRe.ReplaceAllStringFunc(content, func(m string) string {
		sub := unescapeRe.FindStringSubmatch(m)
		if sub[1] == "" {
			return "<" + sub[2]
		}
		return "&" + strings.TrimPrefix(sub[1], "amp;") + "lt;" + sub[2]
	})
}

var attrEscaper = strings.NewReplacer(
	"&", "&amp;",
	`"`, "&quot;",
	"<", "&lt;",
	">", "&gt;",
)

var attrUnescaper = strings.NewReplacer(
	"&quot;", `"`,
	"&lt;", "<",
	"&gt;", ">",
	"&amp;", "&",
)

func escapeAttr(v string) string {
	return attrEscaper.Replace(v)
}

func unescapeAttr(v string) string {
	return attrUnescaper.Replace(v)
}
