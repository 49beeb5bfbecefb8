package model

// Ad hoc cycle sentinel. Executions created against this cycle id land in
// Zephyr's built-in "Ad hoc" cycle of the chosen version.
const (
	AdhocCycleID   int64 = -1
	AdhocCycleName       = "Ad hoc"
)

// Cycle is a named grouping of test executions for a project version.
type Cycle struct {
	ID      int64   `json:"id"`
	Name    string  `json:"name"`
	Version Version `json:"version"`
}

// AdhocCycle returns the ad hoc pseudo-cycle for the given version.
func AdhocCycle(version Version) Cycle {
	return Cycle{
		ID:      AdhocCycleID,
		Name:    AdhocCycleName,
		Version: version,
	}
}

// IsAdhoc reports whether c is the ad hoc pseudo-cycle.
func (c Cycle) IsAdhoc() bool {
	return c.ID == AdhocCycleID
}
