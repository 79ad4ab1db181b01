package domain

// Loudness holds the EBU R128 summary values of one media file.
// Units are the measuring tool's own (LUFS for levels, LU for the range) and never rescaled.
type Loudness struct {
	I            float64 `json:"I" yaml:"I" db:"i"`
	IThreshold   float64 `json:"I Threshold" yaml:"I Threshold" db:"i_threshold"`
	LRA          float64 `json:"LRA" yaml:"LRA" db:"lra"`
	LRAThreshold float64 `json:"LRA Threshold" yaml:"LRA Threshold" db:"lra_threshold"`
	LRALow       float64 `json:"LRA Low" yaml:"LRA Low" db:"lra_low"`
	LRAHigh      float64 `json:"LRA High" yaml:"LRA High" db:"lra_high"`
}

// LoudnessRecord is the measured result for one episode.
// Index is assigned by the caller and follows publication order, not feed order.
type LoudnessRecord struct {
	Loudness `yaml:",inline"`
	Index    int    `json:"index" yaml:"index" db:"idx"`
	Title    string `json:"title" yaml:"title" db:"title"`
}
