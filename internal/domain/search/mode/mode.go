package mode

// Mode is the scoring strategy.
type Mode string

// Search mode constants.
const (
	// Name ranks documents by how well the query matches their title.
	Name Mode = "name"
	// Keyword is the cumulative inverted-index strategy, normalized to [0,1].
	Keyword Mode = "keyword"
)

// IsValid checks if the mode is one of the supported values.
func (m Mode) IsValid() bool {
	return m == Name || m == Keyword
}
