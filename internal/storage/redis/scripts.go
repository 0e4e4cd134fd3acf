package redis

import "github.com/redis/go-redis/v9"

// Multi-key writes run as Lua scripts: Redis executes a script atomically, so
// concurrent writers to the same player never abort each other the way a
// WATCH transaction would. Each script returns 0 when the player is missing.

// appendScoreScript records a score event and bumps the player's totals.
//
//	KEYS[1] player hash, KEYS[2] score events zset, KEYS[3] player events set
//	ARGV[1] created-at millis, ARGV[2] encoded event, ARGV[3] points
var appendScoreScript = redis.NewScript(`
if redis.call('EXISTS', KEYS[1]) == 0 then
	return 0
end
redis.call('ZADD', KEYS[2], ARGV[1], ARGV[2])
redis.call('SADD', KEYS[3], ARGV[2])
redis.call('HINCRBY', KEYS[1], 'total_score', ARGV[3])
redis.call('HINCRBY', KEYS[1], 'games_played', 1)
return 1
`)

// setActiveScript flips is_active without creating a hash for unknown players.
//
//	KEYS[1] player hash
//	ARGV[1] "true" or "false"
var setActiveScript = redis.NewScript(`
if redis.call('EXISTS', KEYS[1]) == 0 then
	return 0
end
redis.call('HSET', KEYS[1], 'is_active', ARGV[1])
return 1
`)

// deletePlayerScript removes a player, its credentials and its score events.
// The email index is only released if it still points at this player.
//
//	KEYS[1] player hash, KEYS[2] credentials, KEYS[3] player events set,
//	KEYS[4] players index, KEYS[5] score events zset, KEYS[6] email index or ""
//	ARGV[1] player id
var deletePlayerScript = redis.NewScript(`
if redis.call('EXISTS', KEYS[1]) == 0 then
	return 0
end
local members = redis.call('SMEMBERS', KEYS[3])
for _, member in ipairs(members) do
	redis.call('ZREM', KEYS[5], member)
end
redis.call('DEL', KEYS[1], KEYS[2], KEYS[3])
redis.call('SREM', KEYS[4], ARGV[1])
if KEYS[6] ~= '' and redis.call('GET', KEYS[6]) == ARGV[1] then
	redis.call('DEL', KEYS[6])
end
return 1
`)
