package domain

// tierStep is the number of loyalty points per tier.
const tierStep = 500

// TierOf maps a point balance to its loyalty tier. Zero points is tier 1.
func TierOf(points int) int {
	return points/tierStep + 1
}

// PointsToNextTier returns how many points are missing until the next tier.
// A balance sitting exactly on a tier boundary needs a full step.
func PointsToNextTier(points int) int {
	return tierStep - points%tierStep
}
