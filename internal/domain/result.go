package domain

// LinkResult holds the solver's answer for one pipe-like link: the static
// geometry echoed from the repaired document plus the computed flow.
type LinkResult struct {
	RunID     string  `json:"run_id" yaml:"run_id"`
	LinkID    string  `json:"link_id" yaml:"link_id"`
	FromNode  string  `json:"from_node" yaml:"from_node"`
	ToNode    string  `json:"to_node" yaml:"to_node"`
	Length    float64 `json:"length" yaml:"length"`
	Diameter  float64 `json:"diameter" yaml:"diameter"`
	Roughness float64 `json:"roughness" yaml:"roughness"`
	Flow      float64 `json:"flow" yaml:"flow"`
}

// NodeResult holds the solver's computed pressure at one node
type NodeResult struct {
	RunID    string  `json:"run_id" yaml:"run_id"`
	NodeID   string  `json:"node_id" yaml:"node_id"`
	Pressure float64 `json:"pressure" yaml:"pressure"`
}

// RunResults bundles everything queried back from the solver for one run
type RunResults struct {
	Links []LinkResult `json:"links" yaml:"links"`
	Nodes []NodeResult `json:"nodes" yaml:"nodes"`
}
