package analysis

import (
	"strconv"
	"strings"
)

// Record is one aggregated line from a reducer:
//
//	SENTIMENT_RESULT<TAB>2024-01<TAB>positive<TAB>42
type Record struct {
	Kind  string
	Month string
	Item  string
	Count int
}

// ParseRecords extracts result records from reducer output. Lines that do
// not follow the four-field tab format, or whose first field lacks the
// _RESULT suffix, are skipped; reducers may interleave arbitrary logging.
func ParseRecords(out string) []Record {
	var records []Record
	for _, line := range strings.Split(out, "\n") {
		line = strings.TrimRight(line, "\r")
		if line == "" {
			continue
		}
		fields := strings.Split(line, "\t")
		if len(fields) < 4 {
			continue
		}
		kind, ok := strings.CutSuffix(fields[0], "_RESULT")
		if !ok {
			continue
		}
		count, err := strconv.Atoi(strings.TrimSpace(fields[3]))
		if err != nil {
			continue
		}
		records = append(records, Record{
			Kind:  strings.ToLower(kind),
			Month: fields[1],
			Item:  fields[2],
			Count: count,
		})
	}
	return records
}
