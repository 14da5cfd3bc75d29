package cli

// Flags holds all command-line flag values
type Flags struct {
	CfgFile   string
	OutputDir string
	Output    string
	Columns   []string
	CronExpr  string
}

// NewFlags creates a new Flags instance with default values
func NewFlags() *Flags {
	return &Flags{
		OutputDir: "translated",
	}
}
