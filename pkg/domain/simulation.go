package domain

// SimulationResult is the structured outcome of a read-only dry run. A revert
// is a normal result (Success=false with RevertReason), never an error.
type SimulationResult struct {
	Success      bool   `json:"success"`
	Gas          uint64 `json:"gas,omitempty"`
	ActionCount  int    `json:"actions"`
	RevertReason string `json:"error,omitempty"`
}
