package utils

// CivicLevel maps civic points to a display tier.
func CivicLevel(points int) string {
	switch {
	case points >= 1000:
		return "Civic Champion"
	case points >= 200:
		return "Advocate"
	case points >= 50:
		return "Engaged Citizen"
	case points >= 10:
		return "Participant"
	default:
		return "Newcomer"
	}
}
