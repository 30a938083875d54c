package ledger

const (
	// Holds the store health and database version
	LedgerStoreKeyPrefixHealth byte = 0

	// Holds the polls, keyed by the derived poll address
	LedgerStoreKeyPrefixPolls byte = 1

	// Holds the vote records, keyed by the derived vote record address
	LedgerStoreKeyPrefixVoteRecords byte = 2
)

const (
	// Holds an empty marker per poll and voter, so the vote records of a poll can be iterated
	LedgerStoreKeyPrefixVoteRecordsByPoll byte = 3
)
