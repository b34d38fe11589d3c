package domain

// Tally accumulates per-item outcomes for a stage. Failures are counted,
// logged, and dropped; they never abort a batch.
type Tally struct {
	Succeeded int `json:"succeeded"`
	Failed    int `json:"failed"`
}

// Ok records one success.
func (t *Tally) Ok() { t.Succeeded++ }

// Fail records one failure.
func (t *Tally) Fail() { t.Failed++ }

// Empty reports whether the stage produced nothing usable, which is the one
// condition that aborts a pipeline.
func (t Tally) Empty() bool { return t.Succeeded == 0 }
