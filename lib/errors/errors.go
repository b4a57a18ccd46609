package errors

// The error taxonomy of the governance engine. Every failure an operation
// can return to a caller is one of these coded values; none of them is
// fatal and none is retried internally.
var (
	// storage
	StorageRecordDoesNotExist  = NewError(100, "record does not exist in storage")
	StorageRecordAlreadyExists = NewError(101, "record already exists in storage")
	StorageCoreError           = NewError(102, "storage error")

	// proposal lifecycle
	ProposalNotFound = NewError(110, "proposal not found")
	NotOpen          = NewError(111, "proposal is not open for voting")
	Expired          = NewError(112, "proposal expired")
	NotExpired       = NewError(113, "proposal is not expired and not provably failed")
	WrongStatus      = NewError(114, "proposal is in the wrong status for this operation")

	// voting
	Unauthorized   = NewError(120, "unauthorized; zero weight in the group")
	AlreadyVoted   = NewError(121, "ballot already cast for this proposal")
	InvalidVote    = NewError(122, "invalid vote option")
	BallotNotFound = NewError(123, "ballot not found")

	// policy
	InvalidPolicy   = NewError(130, "invalid threshold policy")
	InvalidFraction = NewError(131, "invalid fraction; denominator must be positive and value at most 1")

	// membership
	InvalidMember  = NewError(140, "invalid member")
	MemberNotFound = NewError(141, "member not found")
	WeightOverflow = NewError(142, "group weight overflow")

	// dispatch
	DispatchFailed = NewError(150, "dispatcher failed to perform the proposal payload")

	// external surface
	BadRequestParameter = NewError(160, "found invalid request parameter")
	InvalidQueryString  = NewError(161, "found invalid query string")
	InvalidAddress      = NewError(162, "invalid address")
	TooManyRequests     = NewError(163, "too many requests")

	// storage config
	InvalidStorageConfig = NewError(170, "invalid storage configuration")
	NotCommittable       = NewError(171, "storage is not committable")

	// runtime
	ClockOutOfSync = NewError(180, "local clock is out of sync with the time server")
)
