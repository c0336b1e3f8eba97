package ratings

// AggregateResult is the API-shaped outcome of one aggregation. It is a
// tagged union: on success Title/IMDBID/Seasons are set, on failure only
// Error is.
type AggregateResult struct {
	Success bool        `json:"success"`
	Title   string      `json:"title,omitempty"`
	IMDBID  string      `json:"imdb_id,omitempty"`
	Seasons [][]float64 `json:"seasons,omitempty"`
	Error   string      `json:"error,omitempty"`
}
