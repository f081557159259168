package asset

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/google/uuid"

	"github.com/kailas-cloud/assetdex/internal/domain"
	"github.com/kailas-cloud/assetdex/internal/domain/query"
	"github.com/kailas-cloud/assetdex/internal/domain/query/field"
	"github.com/kailas-cloud/assetdex/internal/domain/query/filter"
)

// buildQuery renders a structured query as a RediSearch query string scoped
// to one app. Constructs RediSearch cannot express come back as
// *domain.QueryValidationError.
func buildQuery(appID uuid.UUID, q *query.Query) (string, error) {
	parts := []string{tagMatch("appId", appID.String())}

	if q.Filter != nil {
		f, err := translate(*q.Filter)
		if err != nil {
			return "", err
		}
		parts = append(parts, f)
	}

	if text := strings.TrimSpace(q.FullText); text != "" {
		parts = append(parts, fmt.Sprintf("@%s:(%s)", fileNameText, queryEscaper.Replace(text)))
	}

	return strings.Join(parts, " "), nil
}

func translate(n filter.Node) (string, error) {
	switch n.Kind() {
	case filter.And, filter.Or:
		sep := " "
		if n.Kind() == filter.Or {
			sep = " | "
		}
		parts := make([]string, 0, len(n.Children()))
		for _, c := range n.Children() {
			s, err := translate(c)
			if err != nil {
				return "", err
			}
			parts = append(parts, s)
		}
		return "(" + strings.Join(parts, sep) + ")", nil

	case filter.Not:
		s, err := translate(n.Children()[0])
		if err != nil {
			return "", err
		}
		return "-(" + s + ")", nil

	case filter.Compare:
		return translateCompare(n)
	}
	return "", fmt.Errorf("unknown filter node kind %d", n.Kind())
}

func translateCompare(n filter.Node) (string, error) {
	f, ok := field.Lookup(n.Field())
	if !ok {
		return "", fmt.Errorf("unknown field %q", n.Field())
	}

	switch f.Kind {
	case field.Int, field.Timestamp:
		return numericCompare(n)
	case field.Bool:
		v := strconv.FormatBool(n.Values()[0].Bool())
		return negateIf(n.Op() == filter.Ne, tagMatch(n.Field(), v)), nil
	default:
		return tagCompare(n)
	}
}

func tagCompare(n filter.Node) (string, error) {
	name := n.Field()
	values := n.Values()

	for _, v := range values {
		if v.Str() == "" {
			return "", domain.NewUnsupportedQuery(fmt.Sprintf("empty string comparison on %q", name), nil)
		}
	}

	switch n.Op() {
	case filter.Eq:
		return tagMatch(name, values[0].Str()), nil
	case filter.Ne:
		return "-" + tagMatch(name, values[0].Str()), nil
	case filter.In:
		escaped := make([]string, len(values))
		for i, v := range values {
			escaped[i] = tagEscaper.Replace(v.Str())
		}
		return fmt.Sprintf("@%s:{%s}", name, strings.Join(escaped, " | ")), nil
	case filter.StartsWith:
		return fmt.Sprintf("@%s:{%s*}", name, tagEscaper.Replace(values[0].Str())), nil
	case filter.EndsWith:
		return fmt.Sprintf("@%s:{*%s}", name, tagEscaper.Replace(values[0].Str())), nil
	case filter.Contains:
		return fmt.Sprintf("@%s:{*%s*}", name, tagEscaper.Replace(values[0].Str())), nil
	default:
		return "", domain.NewUnsupportedQuery(
			fmt.Sprintf("ordering comparison (%s) on text field %q", n.Op(), name), nil)
	}
}

func numericCompare(n filter.Node) (string, error) {
	name := n.Field()
	values := n.Values()

	if n.Op() == filter.In {
		parts := make([]string, len(values))
		for i, v := range values {
			x := numeric(v)
			parts[i] = numericRange(name, x, x)
		}
		return "(" + strings.Join(parts, " | ") + ")", nil
	}

	x := numeric(values[0])
	switch n.Op() {
	case filter.Eq:
		return numericRange(name, x, x), nil
	case filter.Ne:
		return "-" + numericRange(name, x, x), nil
	case filter.Lt:
		return numericRange(name, "-inf", "("+x), nil
	case filter.Le:
		return numericRange(name, "-inf", x), nil
	case filter.Gt:
		return numericRange(name, "("+x, "+inf"), nil
	case filter.Ge:
		return numericRange(name, x, "+inf"), nil
	default:
		return "", domain.NewUnsupportedQuery(fmt.Sprintf("%s on numeric field %q", n.Op(), name), nil)
	}
}

// numeric renders an Int or Timestamp literal; timestamps are stored as unix millis.
func numeric(v filter.Value) string {
	if v.Kind() == field.Timestamp {
		return strconv.FormatInt(v.Time().UnixMilli(), 10)
	}
	return strconv.FormatInt(v.Int64(), 10)
}

func numericRange(name, lo, hi string) string {
	return fmt.Sprintf("@%s:[%s %s]", name, lo, hi)
}

func tagMatch(name, value string) string {
	return fmt.Sprintf("@%s:{%s}", name, tagEscaper.Replace(value))
}

func negateIf(neg bool, s string) string {
	if neg {
		return "-" + s
	}
	return s
}

// --- Escaping ---

var tagEscaper = strings.NewReplacer(
	`\`, `\\`,
	",", "\\,",
	".", "\\.",
	"<", "\\<",
	">", "\\>",
	"{", "\\{",
	"}", "\\}",
	"[", "\\[",
	"]", "\\]",
	"\"", "\\\"",
	"'", "\\'",
	":", "\\:",
	";", "\\;",
	"!", "\\!",
	"@", "\\@",
	"#", "\\#",
	"$", "\\$",
	"%", "\\%",
	"^", "\\^",
	"&", "\\&",
	"*", "\\*",
	"(", "\\(",
	")", "\\)",
	"-", "\\-",
	"+", "\\+",
	"=", "\\=",
	"~", "\\~",
	"|", "\\|",
	"/", "\\/",
	" ", "\\ ",
)

var queryEscaper = strings.NewReplacer(
	`\`, `\\`,
	`'`, `\'`,
	`"`, `\"`,
	`@`, `\@`,
	`{`, `\{`,
	`}`, `\}`,
	`(`, `\(`,
	`)`, `\)`,
	`|`, `\|`,
	`-`, `\-`,
	`~`, `\~`,
	`*`, `\*`,
	`[`, `\[`,
	`]`, `\]`,
	`!`, `\!`,
	`%`, `\%`,
	`^`, `\^`,
	`$`, `\$`,
	`<`, `\<`,
	`>`, `\>`,
	`=`, `\=`,
	`;`, `\;`,
	`+`, `\+`,
	`.`, `\.`,
	`,`, `\,`,
	`:`, `\:`,
)
