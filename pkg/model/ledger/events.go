package ledger

// PollCaller is used to signal created or updated polls.
func PollCaller(handler interface{}, params ...interface{}) {
	handler.(func(poll *Poll))(params[0].(*Poll))
}

// VoteCaller is used to signal cast votes together with the updated poll.
func VoteCaller(handler interface{}, params ...interface{}) {
	handler.(func(poll *Poll, voteRecord *VoteRecord))(params[0].(*Poll), params[1].(*VoteRecord))
}
