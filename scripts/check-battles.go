package main

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"os"
	"strings"

	"github.com/redis/go-redis/v9"

	"github.com/KirkDiggler/rpg-campaign/internal/entities/effects"
	"github.com/KirkDiggler/rpg-campaign/internal/repositories/battles"
)

const (
	battleKeyPrefix = "battle:"
	battleIndexKey  = "battles:index"
)

// Scans stored battles for records that no longer restore, and for index
// entries whose battle key is gone.
func main() {
	redisURL := os.Getenv("REDIS_URL")
	if redisURL == "" {
		redisURL = "redis://localhost:6379"
	}

	opt, err := redis.ParseURL(redisURL)
	if err != nil {
		log.Fatal("Failed to parse Redis URL:", err)
	}

	client := redis.NewClient(opt)
	ctx := context.Background()

	if err := client.Ping(ctx).Err(); err != nil {
		log.Fatal("Failed to connect to Redis:", err)
	}

	fmt.Println("Connected to Redis:", redisURL)
	fmt.Println("Scanning battles...")

	iter := client.Scan(ctx, 0, battleKeyPrefix+"*", 0).Iterator()

	var brokenKeys []string
	var checkedCount int
	seen := map[string]bool{}

	for iter.Next(ctx) {
		key := iter.Val()
		checkedCount++

		data, err := client.Get(ctx, key).Result()
		if err != nil {
			fmt.Printf("Error reading %s: %v\n", key, err)
			continue
		}

		if problem := checkBattle(key, data); problem != "" {
			fmt.Printf("✗ %s: %s\n", key, problem)
			brokenKeys = append(brokenKeys, key)
			continue
		}
		seen[strings.TrimPrefix(key, battleKeyPrefix)] = true
	}

	if err := iter.Err(); err != nil {
		log.Fatal("Error during scan:", err)
	}

	indexed, err := client.SMembers(ctx, battleIndexKey).Result()
	if err != nil {
		log.Fatal("Failed to read battle index:", err)
	}
	var orphans []string
	for _, id := range indexed {
		if !seen[id] {
			orphans = append(orphans, id)
		}
	}

	fmt.Printf("\nChecked %d battles, %d broken, %d stale index entries\n",
		checkedCount, len(brokenKeys), len(orphans))

	if len(brokenKeys) == 0 && len(orphans) == 0 {
		fmt.Println("Nothing to clean up")
		return
	}

	for _, key := range brokenKeys {
		fmt.Printf("  - %s\n", key)
	}
	for _, id := range orphans {
		fmt.Printf("  - %s (index only)\n", id)
	}

	fmt.Print("\nDelete these entries? (yes/no): ")
	var response string
	_, _ = fmt.Scanln(&response) //nolint:errcheck // empty input means no

	if response != "yes" {
		fmt.Println("Aborted - no changes made")
		return
	}

	for _, key := range brokenKeys {
		pipe := client.TxPipeline()
		pipe.Del(ctx, key)
		pipe.SRem(ctx, battleIndexKey, strings.TrimPrefix(key, battleKeyPrefix))
		if _, err := pipe.Exec(ctx); err != nil {
			fmt.Printf("Failed to delete %s: %v\n", key, err)
			continue
		}
		fmt.Printf("Deleted %s\n", key)
	}
	if len(orphans) > 0 {
		members := make([]any, 0, len(orphans))
		for _, id := range orphans {
			members = append(members, id)
		}
		if err := client.SRem(ctx, battleIndexKey, members...).Err(); err != nil {
			fmt.Printf("Failed to prune index: %v\n", err)
		}
	}
	fmt.Println("\nCleanup complete!")
}

func checkBattle(key, data string) string {
	var battle battles.BattleData
	if err := json.Unmarshal([]byte(data), &battle); err != nil {
		return "corrupted JSON"
	}
	if battleKeyPrefix+battle.ID != key {
		return fmt.Sprintf("stored id %q does not match key", battle.ID)
	}
	if battle.Round < 0 {
		return fmt.Sprintf("negative round %d", battle.Round)
	}
	for _, p := range battle.Participants {
		if _, err := effects.ParticipantFromData(p); err != nil {
			return fmt.Sprintf("participant %s does not restore: %v", p.ID, err)
		}
	}
	return ""
}
