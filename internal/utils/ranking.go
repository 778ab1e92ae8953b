package utils

import (
	"math"
	"time"
)

type RankConfig struct {
	Gravity       float64 // 时间重力
	WeightLike    float64
	WeightComment float64
	ScaleFactor   float64
}

var DefaultRankConfig = RankConfig{
	Gravity:       1.5,
	WeightLike:    1.0,
	WeightComment: 2.0,
	ScaleFactor:   100.0,
}

// HotScore ranks a feed post by log-smoothed engagement decayed over its age.
// A post with no engagement scores 0 regardless of age.
func HotScore(createdAt time.Time, now time.Time, likes, comments int) float64 {
	hours := now.Sub(createdAt).Hours()
	if hours < 0 {
		hours = 0
	}

	weighted := float64(likes)*DefaultRankConfig.WeightLike +
		float64(comments)*DefaultRankConfig.WeightComment
	if weighted < 0 {
		weighted = 0
	}

	numerator := math.Log10(weighted+1) * DefaultRankConfig.ScaleFactor
	decay := math.Pow(hours+2, DefaultRankConfig.Gravity)

	return numerator / decay
}
