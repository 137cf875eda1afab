package engine

import (
	"sort"
	"time"

	"github.com/sentinelstack/sentinel-rca/internal/models"
)

// Cluster is a non-empty run of anomalies from one service, linked by chained
// temporal proximity and message similarity. Members are kept in timestamp
// order; the first member is the cluster's representative (and root candidate).
type Cluster struct {
	Service string
	Members []models.AnomalyRecord
}

// Root returns the earliest member.
func (c Cluster) Root() models.AnomalyRecord {
	return c.Members[0]
}

// Span is the duration between the earliest and latest member.
func (c Cluster) Span() time.Duration {
	if len(c.Members) < 2 {
		return 0
	}
	return c.Members[len(c.Members)-1].Timestamp.Sub(c.Members[0].Timestamp)
}

// MeanScore averages the members' anomaly scores.
func (c Cluster) MeanScore() float64 {
	sum := 0.0
	for _, m := range c.Members {
		sum += m.AnomalyScore
	}
	return sum / float64(len(c.Members))
}

// Grouper partitions anomalies into per-service clusters.
type Grouper struct {
	timeWindow          time.Duration
	similarityThreshold float64
}

// NewGrouper constructs a Grouper. Parameter validation happens at analyzer
// construction; the grouper trusts its inputs.
func NewGrouper(timeWindow time.Duration, similarityThreshold float64) *Grouper {
	return &Grouper{timeWindow: timeWindow, similarityThreshold: similarityThreshold}
}

// Group partitions anomalies by service and chains each service's anomalies
// into clusters with a greedy single pass in timestamp order: an anomaly joins
// the most recently opened cluster when it lands within the time window of that
// cluster's latest member and its message is similar enough to the cluster's
// root message; otherwise it opens a new cluster.
//
// The greedy, order-dependent policy trades recall for determinism and
// O(n log n) behaviour (dominated by the sort). Timestamp ties keep original
// input order via the stable sort. All bookkeeping is local to this call, so
// concurrent Group calls on separate inputs are safe.
func (g *Grouper) Group(anomalies []models.AnomalyRecord) []Cluster {
	if len(anomalies) == 0 {
		return nil
	}

	byService := make(map[string][]models.AnomalyRecord)
	for _, a := range anomalies {
		byService[a.Service] = append(byService[a.Service], a)
	}

	services := make([]string, 0, len(byService))
	for svc := range byService {
		services = append(services, svc)
	}
	sort.Strings(services)

	clusters := make([]Cluster, 0, len(anomalies))
	for _, svc := range services {
		clusters = append(clusters, g.groupService(svc, byService[svc])...)
	}
	return clusters
}

func (g *Grouper) groupService(service string, records []models.AnomalyRecord) []Cluster {
	sort.SliceStable(records, func(i, j int) bool {
		return records[i].Timestamp.Before(records[j].Timestamp)
	})

	clusters := make([]Cluster, 0, 1)
	for _, rec := range records {
		if len(clusters) > 0 {
			open := &clusters[len(clusters)-1]
			latest := open.Members[len(open.Members)-1]
			if rec.Timestamp.Sub(latest.Timestamp) <= g.timeWindow &&
				Similarity(rec.Message, open.Root().Message) >= g.similarityThreshold {
				open.Members = append(open.Members, rec)
				continue
			}
		}
		clusters = append(clusters, Cluster{Service: service, Members: []models.AnomalyRecord{rec}})
	}
	return clusters
}

// CorrelateServices derives each cluster's affected-service set: the cluster's
// own service, plus every other service whose cluster onset falls within the
// correlation window after this cluster's onset. This secondary pass only
// informs the affected-services field; it never merges cluster membership.
func CorrelateServices(clusters []Cluster, window time.Duration) [][]string {
	affected := make([][]string, len(clusters))
	for i, c := range clusters {
		onset := c.Root().Timestamp
		set := map[string]struct{}{c.Service: {}}
		for j, other := range clusters {
			if i == j || other.Service == c.Service {
				continue
			}
			lag := other.Root().Timestamp.Sub(onset)
			if lag >= 0 && lag <= window {
				set[other.Service] = struct{}{}
			}
		}
		names := make([]string, 0, len(set))
		for svc := range set {
			names = append(names, svc)
		}
		sort.Strings(names)
		affected[i] = names
	}
	return affected
}
