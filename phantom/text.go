package phantom

import (
	"bufio"
	"fmt"
	"io"
	"strconv"
	"strings"
)

// Parse reads the line-oriented phantom text format: comment lines
// start with '#'; every other non-blank line describes one primitive
// as "type cx cy u v theta a".
func Parse(r io.Reader, name string) (*Phantom, error) {
	p := New(name)
	scanner := bufio.NewScanner(r)
	lineNum := 0
	for scanner.Scan() {
		lineNum++
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		fields := strings.Fields(line)
		if len(fields) != 7 {
			return nil, fmt.Errorf("phantom: line %d: expected 7 fields, got %d", lineNum, len(fields))
		}
		kind, err := ParseKind(fields[0])
		if err != nil {
			return nil, fmt.Errorf("phantom: line %d: %w", lineNum, err)
		}
		values := make([]float64, 6)
		for i, f := range fields[1:] {
			v, err := strconv.ParseFloat(f, 64)
			if err != nil {
				return nil, fmt.Errorf("phantom: line %d: field %d: %w", lineNum, i+2, err)
			}
			values[i] = v
		}
		p.AddElement(kind, values[0], values[1], values[2], values[3], values[4], values[5])
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("phantom: %w", err)
	}
	return p, nil
}

// Write serialises p in the line-oriented text format Parse reads.
func Write(w io.Writer, p *Phantom) error {
	bw := bufio.NewWriter(w)
	fmt.Fprintf(bw, "# phantom: %s\n", p.Name)
	for _, e := range p.Elements {
		fmt.Fprintf(bw, "%s %g %g %g %g %g %g\n", e.Kind, e.CX, e.CY, e.U, e.V, e.Theta, e.A)
	}
	return bw.Flush()
}
