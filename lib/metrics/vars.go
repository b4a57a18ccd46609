package metrics

var (
	Governance = NopGovernanceMetrics()
	API        = NopAPIMetrics()
)
