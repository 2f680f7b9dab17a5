// Podtheca - Solid Pod Media Catalog Engine
// Copyright 2026 Podtheca Authors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/podtheca/podtheca

package rdf

import (
	"bufio"
	"fmt"
	"io"
	"strconv"
	"strings"
)

// ParseNTriples reads a document serialized as an N-Triples subset: one
// statement per line, `<s> <p> <o> .` with either an IRI or a quoted literal
// in object position. Literal datatype and language tags are stripped; the
// bare lexical value is kept. Blank lines and `#` comments are skipped.
//
// The richer Turtle/JSON-LD serializations a pod may answer with are handled
// by the pluggable document loader; this reader covers the wire format the
// engine itself writes.
func ParseNTriples(r io.Reader) ([]Triple, error) {
	var triples []Triple

	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)

	lineNo := 0
	for scanner.Scan() {
		lineNo++
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}

		t, err := parseLine(line)
		if err != nil {
			return nil, fmt.Errorf("line %d: %w", lineNo, err)
		}
		triples = append(triples, t)
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("read document: %w", err)
	}

	return triples, nil
}

// WriteNTriples serializes triples in the same subset ParseNTriples reads.
// Objects that look like IRIs (scheme prefix) are written in angle brackets,
// everything else as a quoted literal.
func WriteNTriples(w io.Writer, triples []Triple) error {
	for _, t := range triples {
		obj := strconv.Quote(t.Object)
		if isIRI(t.Object) {
			obj = "<" + t.Object + ">"
		}
		if _, err := fmt.Fprintf(w, "<%s> <%s> %s .\n", t.Subject, t.Predicate, obj); err != nil {
			return fmt.Errorf("write triple: %w", err)
		}
	}
	return nil
}

func parseLine(line string) (Triple, error) {
	rest := line

	subject, rest, err := readIRI(rest)
	if err != nil {
		return Triple{}, fmt.Errorf("subject: %w", err)
	}

	predicate, rest, err := readIRI(rest)
	if err != nil {
		return Triple{}, fmt.Errorf("predicate: %w", err)
	}

	object, rest, err := readObject(rest)
	if err != nil {
		return Triple{}, fmt.Errorf("object: %w", err)
	}

	if strings.TrimSpace(rest) != "." {
		return Triple{}, fmt.Errorf("missing terminating dot in %q", line)
	}

	return Triple{Subject: subject, Predicate: predicate, Object: object}, nil
}

func readIRI(s string) (iri, rest string, err error) {
	s = strings.TrimSpace(s)
	if !strings.HasPrefix(s, "<") {
		return "", "", fmt.Errorf("expected '<' at %q", truncate(s))
	}
	end := strings.IndexByte(s, '>')
	if end < 0 {
		return "", "", fmt.Errorf("unterminated IRI at %q", truncate(s))
	}
	return s[1:end], s[end+1:], nil
}

func readObject(s string) (object, rest string, err error) {
	s = strings.TrimSpace(s)
	if strings.HasPrefix(s, "<") {
		return readIRI(s)
	}
	if !strings.HasPrefix(s, `"`) {
		return "", "", fmt.Errorf("expected IRI or literal at %q", truncate(s))
	}

	// Find the closing quote, honoring backslash escapes.
	for i := 1; i < len(s); i++ {
		switch s[i] {
		case '\\':
			i++
		case '"':
			value, uerr := strconv.Unquote(s[:i+1])
			if uerr != nil {
				return "", "", fmt.Errorf("bad literal %q: %w", truncate(s), uerr)
			}
			rest = s[i+1:]
			// Strip datatype (^^<...>) and language (@xx) suffixes.
			rest = strings.TrimSpace(rest)
			if strings.HasPrefix(rest, "^^") {
				_, rest, err = readIRI(rest[2:])
				if err != nil {
					return "", "", err
				}
			} else if strings.HasPrefix(rest, "@") {
				if sp := strings.IndexAny(rest, " \t"); sp >= 0 {
					rest = rest[sp:]
				} else {
					rest = ""
				}
			}
			return value, rest, nil
		}
	}
	return "", "", fmt.Errorf("unterminated literal at %q", truncate(s))
}

func isIRI(s string) bool {
	return strings.Contains(s, "://") || strings.HasPrefix(s, "urn:")
}

func truncate(s string) string {
	if len(s) > 40 {
		return s[:40] + "..."
	}
	return s
}
