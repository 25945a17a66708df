package notify

import (
	"context"
	"time"

	"github.com/rs/zerolog"

	"worldsweep/internal/config"
	"worldsweep/internal/store"
)

const senderName = "Worldsweep"

// ChatNotifier delivers messages as chat documents whispered to the
// operator, the same channel the game surfaces to a logged-in gamemaster.
type ChatNotifier struct {
	db       store.Store
	operator config.Operator
}

func NewChat(db store.Store, operator config.Operator) *ChatNotifier {
	return &ChatNotifier{db: db, operator: operator}
}

func (n *ChatNotifier) Notify(ctx context.Context, message string) error {
	rec := &store.Record{
		Kind:      store.KindChatMessage,
		Author:    senderName,
		Content:   message,
		Timestamp: time.Now().UnixMilli(),
		Whisper:   []string{n.operator.ID},
	}
	return n.db.Create(ctx, rec)
}

// LogNotifier writes messages to the log instead of the world, for dry runs
// and environments without a reachable chat channel.
type LogNotifier struct {
	log zerolog.Logger
}

func NewLog(log zerolog.Logger) *LogNotifier {
	return &LogNotifier{log: log}
}

func (n *LogNotifier) Notify(ctx context.Context, message string) error {
	n.log.Info().Msg(message)
	return nil
}
