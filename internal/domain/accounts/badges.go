package accounts

// Badge es un tag de logro derivado de los contadores de la cuenta.
type Badge string

const (
	BadgeNetworkVerified Badge = "network_verified"
	BadgeTopContributor  Badge = "top_contributor"

	// BadgeFoundingMember nunca lo otorga el motor; se siembra externo y es
	// el único que sobrevive al opt-out.
	BadgeFoundingMember Badge = "founding_member"
)

const topContributorThreshold = 15

// DeriveBadges recalcula los badges desde los contadores, en un solo lugar,
// en vez de parchear arrays inline en cada mutación. founding_member no se
// deriva: se preserva si ya estaba.
func DeriveBadges(totalContributions, monthlyShares int, existing []Badge) []Badge {
	out := make([]Badge, 0, 3)

	for _, b := range existing {
		if b == BadgeFoundingMember {
			out = append(out, BadgeFoundingMember)
			break
		}
	}
	if totalContributions >= 1 {
		out = append(out, BadgeNetworkVerified)
	}
	if monthlyShares >= topContributorThreshold {
		out = append(out, BadgeTopContributor)
	}

	return out
}

func hasBadge(badges []Badge, b Badge) bool {
	for _, x := range badges {
		if x == b {
			return true
		}
	}
	return false
}
