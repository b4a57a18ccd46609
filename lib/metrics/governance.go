package metrics

import (
	"github.com/go-kit/kit/metrics"
	"github.com/go-kit/kit/metrics/discard"
	prometheus "github.com/go-kit/kit/metrics/prometheus"
	stdprometheus "github.com/prometheus/client_golang/prometheus"
)

type GovernanceMetrics struct {
	ProposalsTotal  metrics.Counter
	VotesTotal      metrics.Counter
	ExecutionsTotal metrics.Counter
	ClosedTotal     metrics.Counter

	TotalWeight metrics.Gauge
	Members     metrics.Gauge
}

func (g *GovernanceMetrics) AddProposal(status string) {
	g.ProposalsTotal.With("status", status).Add(1)
}
func (g *GovernanceMetrics) AddVote(option string) {
	g.VotesTotal.With("option", option).Add(1)
}
func (g *GovernanceMetrics) AddExecution() {
	g.ExecutionsTotal.Add(1)
}
func (g *GovernanceMetrics) AddClosed() {
	g.ClosedTotal.Add(1)
}
func (g *GovernanceMetrics) SetTotalWeight(w uint64) {
	g.TotalWeight.Set(float64(w))
}
func (g *GovernanceMetrics) SetMembers(num int) {
	g.Members.Set(float64(num))
}

func PromGovernanceMetrics() *GovernanceMetrics {
	return &GovernanceMetrics{
		ProposalsTotal: prometheus.NewCounterFrom(stdprometheus.CounterOpts{
			Namespace: Namespace,
			Subsystem: GovernanceSubsystem,
			Name:      "proposals_total",
			Help:      "Total number of created proposals.",
		}, []string{"status"}),
		VotesTotal: prometheus.NewCounterFrom(stdprometheus.CounterOpts{
			Namespace: Namespace,
			Subsystem: GovernanceSubsystem,
			Name:      "votes_total",
			Help:      "Total number of cast ballots.",
		}, []string{"option"}),
		ExecutionsTotal: prometheus.NewCounterFrom(stdprometheus.CounterOpts{
			Namespace: Namespace,
			Subsystem: GovernanceSubsystem,
			Name:      "executions_total",
			Help:      "Total number of executed proposals.",
		}, []string{}),
		ClosedTotal: prometheus.NewCounterFrom(stdprometheus.CounterOpts{
			Namespace: Namespace,
			Subsystem: GovernanceSubsystem,
			Name:      "closed_total",
			Help:      "Total number of rejected proposals.",
		}, []string{}),
		TotalWeight: prometheus.NewGaugeFrom(stdprometheus.GaugeOpts{
			Namespace: Namespace,
			Subsystem: GovernanceSubsystem,
			Name:      "total_weight",
			Help:      "Current total weight of the group.",
		}, []string{}),
		Members: prometheus.NewGaugeFrom(stdprometheus.GaugeOpts{
			Namespace: Namespace,
			Subsystem: GovernanceSubsystem,
			Name:      "members",
			Help:      "Current number of members in the group.",
		}, []string{}),
	}
}

func NopGovernanceMetrics() *GovernanceMetrics {
	return &GovernanceMetrics{
		ProposalsTotal:  discard.NewCounter(),
		VotesTotal:      discard.NewCounter(),
		ExecutionsTotal: discard.NewCounter(),
		ClosedTotal:     discard.NewCounter(),
		TotalWeight:     discard.NewGauge(),
		Members:         discard.NewGauge(),
	}
}
