package solver

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"flume/internal/domain"
)

// Report column layout in the solver's result tables. Link rows carry
// "ID Flow Velocity Headloss"; node rows carry "ID Demand Head Pressure".
const (
	linkFlowColumn     = 1
	nodePressureColumn = 3
)

// LinkRow is one parsed row of the report's link results table
type LinkRow struct {
	ID   string
	Flow float64
}

// NodeRow is one parsed row of the report's node results table
type NodeRow struct {
	ID       string
	Pressure float64
}

// Report holds the queryable part of a solver report
type Report struct {
	Links []LinkRow
	Nodes []NodeRow
}

// ParseReportFile reads and parses a solver report from disk
func ParseReportFile(path string) (*Report, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open report: %w", err)
	}
	defer f.Close()
	return ParseReport(f)
}

// ParseReport extracts the link and node results tables from a solver
// report. The parser is deliberately loose: it keys on the "Link Results"
// and "Node Results" headings and skips ruling lines, column headers, and
// rows whose value column does not parse.
func ParseReport(r io.Reader) (*Report, error) {
	report := &Report{}

	const (
		inNothing = iota
		inLinks
		inNodes
	)
	section := inNothing

	scanner := bufio.NewScanner(r)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())

		switch {
		case line == "":
			continue
		case strings.Contains(line, "Link Results"):
			section = inLinks
			continue
		case strings.Contains(line, "Node Results"):
			section = inNodes
			continue
		case strings.HasPrefix(line, "-"):
			continue
		}

		fields := strings.Fields(line)
		switch section {
		case inLinks:
			if len(fields) <= linkFlowColumn {
				continue
			}
			flow, err := strconv.ParseFloat(fields[linkFlowColumn], 64)
			if err != nil {
				continue // column header or annotation row
			}
			report.Links = append(report.Links, LinkRow{ID: fields[0], Flow: flow})
		case inNodes:
			if len(fields) <= nodePressureColumn {
				continue
			}
			pressure, err := strconv.ParseFloat(fields[nodePressureColumn], 64)
			if err != nil {
				continue
			}
			report.Nodes = append(report.Nodes, NodeRow{ID: fields[0], Pressure: pressure})
		}
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("read report: %w", err)
	}

	return report, nil
}

// Results merges report rows with link geometry taken from the repaired
// document, producing the per-run result set the repository stores.
func (rep *Report) Results(runID string, geometry map[string]domain.LinkResult) domain.RunResults {
	results := domain.RunResults{}

	for _, row := range rep.Links {
		link := geometry[row.ID]
		link.RunID = runID
		link.LinkID = row.ID
		link.Flow = row.Flow
		results.Links = append(results.Links, link)
	}
	for _, row := range rep.Nodes {
		results.Nodes = append(results.Nodes, domain.NodeResult{
			RunID:    runID,
			NodeID:   row.ID,
			Pressure: row.Pressure,
		})
	}

	return results
}
