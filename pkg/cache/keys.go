package cache

// Keyer derives cache keys. Two requests get the same key exactly when
// they would produce the same output.
type Keyer interface {
	// ScheduleKey identifies a schedule of the roster with the given hash.
	ScheduleKey(rosterHash string, opts ScheduleKeyOpts) string

	// GraphKey identifies a rendered conflict diagram.
	GraphKey(rosterHash string, opts GraphKeyOpts) string
}

// ScheduleKeyOpts holds everything besides the roster that shapes a schedule.
type ScheduleKeyOpts struct {
	Policy string   `json:"policy"`
	Pins   []string `json:"pins,omitempty"` // "round=act", in round order
}

// GraphKeyOpts holds the rendering options of a conflict diagram.
type GraphKeyOpts struct {
	Format     string `json:"format"`
	Detailed   bool   `json:"detailed,omitempty"`
	ResultHash string `json:"result,omitempty"`
}

// DefaultKeyer is the standard Keyer.
type DefaultKeyer struct{}

// NewDefaultKeyer returns the standard Keyer.
func NewDefaultKeyer() Keyer { return DefaultKeyer{} }

// ScheduleKey implements Keyer.
func (DefaultKeyer) ScheduleKey(rosterHash string, opts ScheduleKeyOpts) string {
	return hashKey("schedule", rosterHash, opts)
}

// GraphKey implements Keyer.
func (DefaultKeyer) GraphKey(rosterHash string, opts GraphKeyOpts) string {
	return hashKey("graph", rosterHash, opts)
}
