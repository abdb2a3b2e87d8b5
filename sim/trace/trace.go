package trace

// TraceLevel controls the verbosity of tuning traces.
type TraceLevel string

const (
	// TraceLevelNone disables tracing (zero overhead).
	TraceLevelNone TraceLevel = "none"
	// TraceLevelTicks captures one record per tuner invocation.
	TraceLevelTicks TraceLevel = "ticks"
)

// validTraceLevels maps accepted trace level strings.
var validTraceLevels = map[TraceLevel]bool{
	TraceLevelNone:  true,
	TraceLevelTicks: true,
	"":              true, // empty defaults to none
}

// IsValidTraceLevel returns true if the given level string is a recognized trace level.
func IsValidTraceLevel(level string) bool {
	return validTraceLevels[TraceLevel(level)]
}

// TraceConfig controls trace collection behavior.
type TraceConfig struct {
	Level TraceLevel `yaml:"level"`
}

// TuneTrace collects tuner records during a simulation.
type TuneTrace struct {
	Config  TraceConfig  `yaml:"config"`
	Records []TuneRecord `yaml:"records"`
}

// NewTuneTrace creates a TuneTrace ready for recording.
func NewTuneTrace(config TraceConfig) *TuneTrace {
	return &TuneTrace{
		Config:  config,
		Records: make([]TuneRecord, 0),
	}
}

// Enabled reports whether records should be collected.
// Safe on a nil receiver.
func (tt *TuneTrace) Enabled() bool {
	return tt != nil && tt.Config.Level == TraceLevelTicks
}

// Record appends a tuner record. No-op when tracing is disabled.
func (tt *TuneTrace) Record(record TuneRecord) {
	if !tt.Enabled() {
		return
	}
	tt.Records = append(tt.Records, record)
}
