package entities

// RiskTier is the repository-level risk of a set of approved updates.
type RiskTier string

const (
	RiskLow    RiskTier = "Low"
	RiskMedium RiskTier = "Medium"
	RiskHigh   RiskTier = "High"
)

// Partition splits resolved updates by security and policy outcome.
type Partition struct {
	Approved   []ResolvedUpdate // explicitly safe and allowed by the policy
	Unsafe     []ResolvedUpdate // unsafe or never confirmed
	PolicyHeld []ResolvedUpdate // safe, but rejected by the approval policy
	Candidates []ResolvedUpdate // unchecked dry-run candidates, neither approved nor held back
}

// HeldBack returns every update excluded from the pull request.
func (p Partition) HeldBack() []ResolvedUpdate {
	held := make([]ResolvedUpdate, 0, len(p.Unsafe)+len(p.PolicyHeld))
	held = append(held, p.Unsafe...)
	return append(held, p.PolicyHeld...)
}

// PartitionUpdates keeps only explicitly confirmed updates as approved.
// A missing verdict counts as unchecked and is never approved.
func PartitionUpdates(updates []ResolvedUpdate) Partition {
	var partition Partition
	for _, update := range updates {
		switch {
		case !update.IsSafe():
			partition.Unsafe = append(partition.Unsafe, update)
		case update.PolicyHeld:
			partition.PolicyHeld = append(partition.PolicyHeld, update)
		default:
			partition.Approved = append(partition.Approved, update)
		}
	}
	return partition
}

// DecideRiskTier returns High when any update is major, Medium when any is minor, Low otherwise.
func DecideRiskTier(updates []ResolvedUpdate) RiskTier {
	tier := RiskLow
	for _, update := range updates {
		switch update.Tier {
		case TierMajor:
			return RiskHigh
		case TierMinor:
			tier = RiskMedium
		case TierPatch, TierUnknown:
		}
	}
	return tier
}

// CountByTier counts updates per update tier.
func CountByTier(updates []ResolvedUpdate) map[UpdateTier]int {
	counts := map[UpdateTier]int{TierMajor: 0, TierMinor: 0, TierPatch: 0, TierUnknown: 0}
	for _, update := range updates {
		counts[update.Tier]++
	}
	return counts
}
