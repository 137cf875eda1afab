package engine

import "github.com/sentinelstack/sentinel-rca/internal/models"

// SelectRootCause splits a cluster into its earliest member and the trailing
// symptoms. Cluster members are already in timestamp order, so the split is a
// slice of the existing sequence.
//
// Known limitation: this equates temporal precedence with causal precedence.
// The earliest anomaly is a hypothesis for the trigger, not a proven cause;
// downstream consumers treat the output as a ranked suggestion for a human
// operator, and this heuristic is part of the documented contract.
func SelectRootCause(c Cluster) (root models.AnomalyRecord, symptoms []models.AnomalyRecord) {
	root = c.Members[0]
	if len(c.Members) > 1 {
		symptoms = c.Members[1:]
	}
	return root, symptoms
}
