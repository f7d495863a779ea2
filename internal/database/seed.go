package database

import (
	"context"
	"database/sql"
	"fmt"
	"math/rand"

	"github.com/google/uuid"

	"github.com/jask/friendsearch/internal/database/repository"
)

// OfflineID derives a stable player id from a name, for players that have
// never been resolved against an account service.
func OfflineID(name string) string {
	return uuid.NewSHA1(uuid.NameSpaceOID, []byte("player:"+name)).String()
}

var seedNames = []string{
	"Steve", "Alex", "Notch", "Jeb", "Dinnerbone", "Grumm", "Herobrine",
	"Stevie", "Alexandra", "Steven", "Sven", "Eve", "Noor", "Makena",
	"Kai", "Zuri", "Efe", "Ari", "Sunny", "Stone",
}

// SeedDirectory fills the player directory with count sample players. It is
// idempotent for the fixed sample names and appends numbered players for the
// remainder, so large directories can be produced for load testing.
func SeedDirectory(ctx context.Context, db *sql.DB, count int, rng *rand.Rand) error {
	players := repository.NewPlayerRepo(db)
	for i := 0; i < count; i++ {
		name := seedNames[i%len(seedNames)]
		if i >= len(seedNames) {
			name = fmt.Sprintf("%s%d", name, i/len(seedNames))
		}
		p := repository.Player{
			ID:             OfflineID(name),
			Name:           &name,
			Online:         rng.Intn(4) == 0,
			AcceptsFriends: rng.Intn(10) != 0,
		}
		if err := players.Upsert(ctx, p); err != nil {
			return fmt.Errorf("seed player %s: %w", name, err)
		}
	}
	return nil
}
