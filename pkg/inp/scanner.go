package inp

import (
	"bufio"
	"fmt"
	"io"
	"strings"
)

type rawLine struct {
	File string
	Num  int
	Text string
}

// fields splits a line into whitespace separated data tokens and the text
// after the first semicolon.
func (l rawLine) fields() ([]string, string) {
	data, comment, _ := strings.Cut(l.Text, ";")
	return strings.Fields(data), strings.TrimSpace(comment)
}

type source struct {
	name string
	r    io.Reader
}

type scanResult struct {
	sections    map[string][]rawLine
	topComments []string
}

// scan groups the lines of every source by section. A section left open at
// the end of one source continues into the next.
func scan(sources []source) (*scanResult, error) {
	res := &scanResult{sections: make(map[string][]rawLine)}
	current := ""
	seenSection := false

	for _, src := range sources {
		sc := bufio.NewScanner(src.r)
		sc.Buffer(make([]byte, 64*1024), 4*1024*1024)
		num := 0

	lines:
		for sc.Scan() {
			num++
			text := strings.TrimSpace(sc.Text())
			if num == 1 {
				text = strings.TrimPrefix(text, "\ufeff")
			}

			if strings.HasPrefix(text, "[") {
				end := strings.Index(text, "]")
				if end < 0 {
					return nil, &ParseError{File: src.name, Line: num, Cause: fmt.Errorf("%w: %s", ErrUnknownSection, text)}
				}
				name, ok := normalizeSection(text[1:end])
				if !ok {
					return nil, &ParseError{File: src.name, Line: num, Cause: fmt.Errorf("%w: [%s]", ErrUnknownSection, name)}
				}
				if name == secEnd {
					current = ""
					break lines
				}
				current = name
				seenSection = true
				if _, ok := res.sections[name]; !ok {
					res.sections[name] = nil
				}
				continue
			}

			if current == "" {
				switch {
				case text == "":
				case strings.HasPrefix(text, ";"):
					if !seenSection {
						res.topComments = append(res.topComments, strings.TrimSpace(text[1:]))
					}
				default:
					return nil, &ParseError{File: src.name, Line: num, Cause: ErrOutsideSection}
				}
				continue
			}

			if text == "" {
				continue
			}
			res.sections[current] = append(res.sections[current], rawLine{File: src.name, Num: num, Text: text})
		}
		if err := sc.Err(); err != nil {
			return nil, &ParseError{File: src.name, Line: num, Cause: err}
		}
	}
	return res, nil
}
