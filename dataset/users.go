package dataset

import (
	"fmt"
	"math/rand"

	"github.com/DvUo/Sistema-de-recomendacion/core"
)

const (
	// DefaultUserCount 默认生成的用户数
	DefaultUserCount = 30

	minRatingsPerUser = 20
	maxRatingsPerUser = 50
)

var (
	nameAdjectives = []string{
		"quiet", "brave", "lazy", "swift", "gentle", "witty",
		"eager", "calm", "bold", "merry", "sly", "proud",
	}
	nameNouns = []string{
		"otter", "falcon", "badger", "heron", "lynx", "mole",
		"raven", "stoat", "crane", "viper", "finch", "ibex",
	}
)

// GenerateUsers 生成 n 个带随机评分的用户。
// 每个用户随机评 20–50 部不同的电影，分值 1–5。
// 传入相同种子的 rng 时结果可复现；用户名带 ID 后缀保证唯一。
func GenerateUsers(movieIDs []int64, n int, rng *rand.Rand) []*core.User {
	if n <= 0 {
		n = DefaultUserCount
	}

	users := make([]*core.User, 0, n)
	for userID := int64(1); userID <= int64(n); userID++ {
		count := minRatingsPerUser + rng.Intn(maxRatingsPerUser-minRatingsPerUser+1)
		if count > len(movieIDs) {
			count = len(movieIDs)
		}

		ratings := make(core.Ratings, count)
		for _, idx := range rng.Perm(len(movieIDs))[:count] {
			ratings[movieIDs[idx]] = 1 + rng.Intn(5)
		}

		users = append(users, &core.User{
			ID:      userID,
			Name:    username(userID, rng),
			Ratings: ratings,
		})
	}
	return users
}

func username(userID int64, rng *rand.Rand) string {
	adj := nameAdjectives[rng.Intn(len(nameAdjectives))]
	noun := nameNouns[rng.Intn(len(nameNouns))]
	return fmt.Sprintf("%s_%s%d", adj, noun, userID)
}
