package metrics

const (
	Namespace           = "agora"
	GovernanceSubsystem = "governance"
	APISubsystem        = "api"
)
