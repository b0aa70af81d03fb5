package textdata

import (
	"bufio"
	"fmt"
	"io"
	"strings"
)

// ReadPairTSV parses lines of the form "first<TAB>second<TAB>label" into
// labeled pairs. The label column may be omitted for prediction-only data.
// Blank lines and lines starting with '#' are skipped.
func ReadPairTSV(r io.Reader) ([]*TextPair, error) {
	var pairs []*TextPair
	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)
	lineNo := 0
	for scanner.Scan() {
		lineNo++
		line := scanner.Text()
		if strings.TrimSpace(line) == "" || strings.HasPrefix(line, "#") {
			continue
		}
		fields := strings.Split(line, "\t")
		switch len(fields) {
		case 2:
			pairs = append(pairs, NewTextPair(fields[0], fields[1]))
		case 3:
			pairs = append(pairs, NewLabeledPair(fields[0], fields[1], fields[2]))
		default:
			return nil, fmt.Errorf("line %d: expected 2 or 3 tab-separated fields, got %d", lineNo, len(fields))
		}
	}
	if err := scanner.Err(); err != nil {
		return nil, err
	}
	return pairs, nil
}
