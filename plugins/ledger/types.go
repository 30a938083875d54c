package ledger

// CreatePollRequest defines the request of a POST polls REST API call.
type CreatePollRequest struct {
	// The identity key of the creator. Taken from the token if JWT auth is enabled.
	Creator string `json:"creator,omitempty"`
	// The question of the poll.
	Question string `json:"question"`
	// The options of the poll.
	Options []string `json:"options"`
}

// CastVoteRequest defines the request of a POST poll votes REST API call.
type CastVoteRequest struct {
	// The identity key of the voter. Taken from the token if JWT auth is enabled.
	Voter string `json:"voter,omitempty"`
	// The index of the chosen option.
	OptionIndex *int `json:"optionIndex"`
}
