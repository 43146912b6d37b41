// Package pdftext pulls plain text out of uploaded PDFs for the synthesis
// flow. Extraction is best effort: it decodes the literal strings fed to the
// text-showing operators of each page's content stream, which covers simply
// encoded documents; exotic font encodings come out garbled rather than
// failing the upload.
package pdftext

import (
	"fmt"
	"io"
	"strings"

	"github.com/pdfcpu/pdfcpu/pkg/api"
	"github.com/pdfcpu/pdfcpu/pkg/pdfcpu"
	"github.com/pdfcpu/pdfcpu/pkg/pdfcpu/model"
)

// Extract reads every page of the document and returns the concatenated
// text. An empty result is not an error; callers decide whether an empty
// document is acceptable.
func Extract(rs io.ReadSeeker) (string, error) {
	conf := model.NewDefaultConfiguration()
	conf.ValidationMode = model.ValidationRelaxed

	ctx, err := api.ReadContext(rs, conf)
	if err != nil {
		return "", fmt.Errorf("read pdf: %w", err)
	}
	if err := api.ValidateContext(ctx); err != nil {
		return "", fmt.Errorf("validate pdf: %w", err)
	}

	var sb strings.Builder
	for page := 1; page <= ctx.PageCount; page++ {
		r, err := pdfcpu.ExtractPageContent(ctx, page)
		if err != nil {
			return "", fmt.Errorf("extract page %d: %w", page, err)
		}
		if r == nil {
			continue
		}
		content, err := io.ReadAll(r)
		if err != nil {
			return "", fmt.Errorf("read page %d content: %w", page, err)
		}
		text := textFromContentStream(content)
		if text != "" {
			if sb.Len() > 0 {
				sb.WriteString("\n")
			}
			sb.WriteString(text)
		}
	}
	return sb.String(), nil
}

// textFromContentStream scans a decoded content stream and keeps the string
// operands of the text-showing operators (Tj, TJ, ' and ").
func textFromContentStream(content []byte) string {
	var out strings.Builder
	var pending []string

	flush := func(textOp bool) {
		if textOp {
			for _, s := range pending {
				if s == "" {
					continue
				}
				if out.Len() > 0 {
					out.WriteString(" ")
				}
				out.WriteString(s)
			}
		}
		pending = pending[:0]
	}

	i := 0
	for i < len(content) {
		c := content[i]
		switch {
		case c == '(':
			s, next := parseLiteralString(content, i)
			pending = append(pending, s)
			i = next
		case c == '<':
			// Hex strings carry font-specific codes we cannot decode
			// without the font tables; skip them.
			i = skipHexString(content, i)
		case c == '%':
			for i < len(content) && content[i] != '\n' {
				i++
			}
		case isOperatorChar(c):
			start := i
			for i < len(content) && isOperatorChar(content[i]) {
				i++
			}
			op := string(content[start:i])
			switch op {
			case "Tj", "TJ", "'", "\"":
				flush(true)
			case "ET", "BT", "Td", "TD", "Tm":
				flush(false)
			default:
				flush(false)
			}
		default:
			i++
		}
	}
	return strings.Join(strings.Fields(out.String()), " ")
}

func isOperatorChar(c byte) bool {
	return (c >= 'a' && c <= 'z') || (c >= 'A' && c <= 'Z') || c == '\'' || c == '"'
}

// parseLiteralString decodes a PDF literal string starting at content[start]
// == '(' and returns the text plus the index just past the closing paren.
func parseLiteralString(content []byte, start int) (string, int) {
	var sb strings.Builder
	depth := 0
	i := start
	for i < len(content) {
		c := content[i]
		switch c {
		case '\\':
			if i+1 >= len(content) {
				return sb.String(), i + 1
			}
			next := content[i+1]
			switch next {
			case 'n':
				sb.WriteByte('\n')
			case 'r', 't', 'b', 'f':
				sb.WriteByte(' ')
			case '(', ')', '\\':
				sb.WriteByte(next)
			default:
				if next >= '0' && next <= '7' {
					val, consumed := parseOctal(content, i+1)
					sb.WriteByte(val)
					i += consumed - 1
				}
			}
			i += 2
		case '(':
			depth++
			if depth > 1 {
				sb.WriteByte(c)
			}
			i++
		case ')':
			depth--
			if depth == 0 {
				return sb.String(), i + 1
			}
			sb.WriteByte(c)
			i++
		default:
			sb.WriteByte(c)
			i++
		}
	}
	return sb.String(), i
}

func parseOctal(content []byte, start int) (byte, int) {
	val := 0
	n := 0
	for n < 3 && start+n < len(content) {
		c := content[start+n]
		if c < '0' || c > '7' {
			break
		}
		val = val*8 + int(c-'0')
		n++
	}
	return byte(val), n
}

func skipHexString(content []byte, start int) int {
	i := start + 1
	for i < len(content) && content[i] != '>' {
		i++
	}
	return i + 1
}
