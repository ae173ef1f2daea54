package main

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/luxelife/boutique/pkg/logger"
	"github.com/luxelife/boutique/services/assistant/internal/concierge"
	"github.com/luxelife/boutique/services/assistant/internal/tools"
)

type chatCmd struct {
	TTL time.Duration `default:"30m" help:"How long an idle conversation is remembered."`
}

func (c *chatCmd) Run(ctx context.Context, t *tools.Toolset, out io.Writer) error {
	return c.converse(ctx, t, os.Stdin, out)
}

// converse reads one message per line until EOF or "exit".
func (c *chatCmd) converse(ctx context.Context, t *tools.Toolset, in io.Reader, out io.Writer) error {
	conc := concierge.New(t, c.TTL, logger.Discard())
	var conversationID string

	scanner := bufio.NewScanner(in)
	fmt.Fprint(out, "> ")
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		switch line {
		case "":
			fmt.Fprint(out, "> ")
			continue
		case "exit", "quit":
			return nil
		}

		turn, err := conc.Respond(ctx, conversationID, line)
		if err != nil {
			return fmt.Errorf("respond: %w", err)
		}
		conversationID = turn.ConversationID
		fmt.Fprintln(out, turn.Reply)
		if ctx.Err() != nil {
			return nil
		}
		fmt.Fprint(out, "> ")
	}
	return scanner.Err()
}
