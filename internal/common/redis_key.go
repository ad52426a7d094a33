package common

const RedisKeyPointLeaderboard = "leaderboard:points"

// RedisKeyPointLeaderboardLoading is the key a leaderboard is built under
// before it replaces RedisKeyPointLeaderboard.
func RedisKeyPointLeaderboardLoading(id string) string {
	return RedisKeyPointLeaderboard + ":loading:" + id
}
