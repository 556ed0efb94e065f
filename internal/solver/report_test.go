package solver

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"flume/internal/domain"
)

const sampleReport = `
  Page 1   demo network

  Link Results:
  ---------------------------------------------
  Link                Flow  Velocity  Headloss
  ID                   LPS       m/s      m/km
  ---------------------------------------------
  P1                 12.50      0.64      1.20
  P2                 -3.25      0.18      0.05
  P3                  0.00      0.00      0.00

  Node Results:
  ---------------------------------------------
  Node              Demand      Head  Pressure
  ID                   LPS         m         m
  ---------------------------------------------
  J1                  5.00    215.30     52.10
  J2                  2.50    212.80     49.70
`

func TestParseReport(t *testing.T) {
	report, err := ParseReport(strings.NewReader(sampleReport))
	require.NoError(t, err)

	require.Len(t, report.Links, 3)
	assert.Equal(t, LinkRow{ID: "P1", Flow: 12.5}, report.Links[0])
	assert.Equal(t, LinkRow{ID: "P2", Flow: -3.25}, report.Links[1])

	require.Len(t, report.Nodes, 2)
	assert.Equal(t, NodeRow{ID: "J1", Pressure: 52.1}, report.Nodes[0])
	assert.Equal(t, NodeRow{ID: "J2", Pressure: 49.7}, report.Nodes[1])
}

func TestParseReportEmpty(t *testing.T) {
	report, err := ParseReport(strings.NewReader("no tables here\n"))
	require.NoError(t, err)
	assert.Empty(t, report.Links)
	assert.Empty(t, report.Nodes)
}

func TestReportResultsMergesGeometry(t *testing.T) {
	report := &Report{
		Links: []LinkRow{{ID: "P1", Flow: 12.5}},
		Nodes: []NodeRow{{ID: "J1", Pressure: 52.1}},
	}
	geometry := map[string]domain.LinkResult{
		"P1": {FromNode: "R1", ToNode: "J1", Length: 1200, Diameter: 100, Roughness: 100},
	}

	results := report.Results("run-1", geometry)

	require.Len(t, results.Links, 1)
	link := results.Links[0]
	assert.Equal(t, "run-1", link.RunID)
	assert.Equal(t, "P1", link.LinkID)
	assert.Equal(t, "R1", link.FromNode)
	assert.Equal(t, 1200.0, link.Length)
	assert.Equal(t, 12.5, link.Flow)

	require.Len(t, results.Nodes, 1)
	assert.Equal(t, domain.NodeResult{RunID: "run-1", NodeID: "J1", Pressure: 52.1}, results.Nodes[0])
}

func TestReportResultsUnknownLinkKeepsRow(t *testing.T) {
	// A link the repaired document never mentioned still gets its flow
	// recorded; geometry stays zero.
	report := &Report{Links: []LinkRow{{ID: "PUMP1", Flow: 9.9}}}
	results := report.Results("run-2", nil)
	require.Len(t, results.Links, 1)
	assert.Equal(t, "PUMP1", results.Links[0].LinkID)
	assert.Equal(t, 9.9, results.Links[0].Flow)
	assert.Zero(t, results.Links[0].Length)
}
