package service

import (
	"strconv"
	"strings"

	"flume/internal/domain"
	"flume/internal/inp"
)

// linkGeometry reads pipe geometry out of a repaired document. The repair
// pipeline guarantees eight columns per record, so positional access is
// safe; unparseable numeric text simply leaves that field zero.
func linkGeometry(repaired string) map[string]domain.LinkResult {
	geometry := make(map[string]domain.LinkResult)

	inPipes := false
	for _, line := range inp.Parse(repaired) {
		switch inp.Classify(line) {
		case inp.KindHeader:
			inPipes = strings.EqualFold(inp.HeaderName(line), "PIPES")
		case inp.KindData:
			if !inPipes {
				continue
			}
			fields := strings.Fields(line)
			if len(fields) < 6 {
				continue
			}
			geometry[fields[0]] = domain.LinkResult{
				FromNode:  fields[1],
				ToNode:    fields[2],
				Length:    parseFloat(fields[3]),
				Diameter:  parseFloat(fields[4]),
				Roughness: parseFloat(fields[5]),
			}
		}
	}
	return geometry
}

func parseFloat(s string) float64 {
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0
	}
	return v
}
