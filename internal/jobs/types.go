package jobs

// Job is one configured unit of work: translate the listed columns of
// the input table and write the result to the output path. Defined once
// at startup and never mutated.
type Job struct {
	Input   string   `mapstructure:"input" json:"input"`
	Output  string   `mapstructure:"output" json:"output"`
	Columns []string `mapstructure:"columns" json:"columns"`
}

type Status string

const (
	StatusSuccess Status = "success"
	StatusFailed  Status = "failed"
)

// Result records how one job ended. Failures are carried here instead
// of propagating, so one job's failure never stops the rest.
type Result struct {
	Job        Job
	Status     Status
	Translated int
	Err        error
}
