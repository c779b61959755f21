package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"strings"

	"github.com/google/uuid"
	"github.com/joho/godotenv"

	"github.com/dancorreia-swe/medwaster-achievements/internal/app"
)

type idList []string

func (l *idList) String() string { return strings.Join(*l, ",") }
func (l *idList) Set(v string) error {
	v = strings.TrimSpace(v)
	if v != "" {
		*l = append(*l, v)
	}
	return nil
}

// Replays stored events through the engine for the given users. Used after
// catalog changes, to grant achievements users earned before the definition
// existed.
func main() {
	var users idList
	flag.Var(&users, "user", "user id to recalculate (repeatable)")
	flag.Parse()

	_ = godotenv.Load()

	application, err := app.New()
	if err != nil {
		fmt.Printf("init app: %v\n", err)
		os.Exit(1)
	}
	defer application.Close()

	ids := make([]uuid.UUID, 0, len(users))
	for _, s := range users {
		id, err := uuid.Parse(strings.TrimSpace(s))
		if err == nil && id != uuid.Nil {
			ids = append(ids, id)
		}
	}
	if len(ids) == 0 {
		fmt.Println("no valid user ids provided")
		return
	}

	ctx := context.Background()
	for _, userID := range ids {
		summary, err := application.Services.Replay.Recalculate(ctx, userID)
		if err != nil {
			fmt.Printf("user %s: %v\n", userID, err)
			continue
		}
		fmt.Printf("user %s: replayed %d events, %d unlocked, %d errors\n",
			userID, summary.EventsReplayed, summary.Unlocked, len(summary.Errors))
	}
}
