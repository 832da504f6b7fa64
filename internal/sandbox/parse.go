package sandbox

import (
	"regexp"
	"strings"
)

var pageCallRe = regexp.MustCompile(`^(?:await\s+)?(?:(?:const|let|var)\s+\w+\s*=\s*)?(?:await\s+)?page\s*\.\s*(\w+)\s*\((.*)\)\s*;?$`)

// parseStatements разбивает скрипт на операторы по переводам строк и точкам с запятой
// верхнего уровня (вне строковых литералов и скобок).
func parseStatements(script string) []string {
	var stmts []string
	var buf strings.Builder
	depth := 0
	var quote rune

	flush := func() {
		s := strings.TrimSpace(buf.String())
		buf.Reset()
		if s == "" || strings.HasPrefix(s, "//") {
			return
		}
		stmts = append(stmts, s)
	}

	for _, r := range script {
		if quote != 0 {
			buf.WriteRune(r)
			if r == quote {
				quote = 0
			}
			continue
		}

		switch r {
		case '\'', '"', '`':
			quote = r
			buf.WriteRune(r)
		case '(', '[', '{':
			depth++
			buf.WriteRune(r)
		case ')', ']', '}':
			depth--
			buf.WriteRune(r)
		case ';', '\n':
			if depth == 0 {
				flush()
			} else {
				buf.WriteRune(r)
			}
		default:
			buf.WriteRune(r)
		}
	}
	flush()

	return stmts
}

// splitArgs разбивает список аргументов по запятым верхнего уровня.
func splitArgs(raw string) []string {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return nil
	}

	var args []string
	var buf strings.Builder
	depth := 0
	var quote rune

	flush := func() {
		args = append(args, strings.TrimSpace(buf.String()))
		buf.Reset()
	}

	for _, r := range raw {
		if quote != 0 {
			buf.WriteRune(r)
			if r == quote {
				quote = 0
			}
			continue
		}

		switch r {
		case '\'', '"', '`':
			quote = r
			buf.WriteRune(r)
		case '(', '[', '{':
			depth++
			buf.WriteRune(r)
		case ')', ']', '}':
			depth--
			buf.WriteRune(r)
		case ',':
			if depth == 0 {
				flush()
			} else {
				buf.WriteRune(r)
			}
		default:
			buf.WriteRune(r)
		}
	}
	flush()

	return args
}

// unquote снимает одинарные, двойные или обратные кавычки со строкового литерала.
func unquote(s string) string {
	if len(s) >= 2 {
		first, last := s[0], s[len(s)-1]
		if first == last && (first == '\'' || first == '"' || first == '`') {
			return s[1 : len(s)-1]
		}
	}
	return s
}
