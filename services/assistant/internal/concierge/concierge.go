// Package concierge turns chat messages into tool calls following the
// boutique's presentation rules.
package concierge

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/jellydator/ttlcache/v3"

	"github.com/luxelife/boutique/pkg/logger"
	"github.com/luxelife/boutique/services/assistant/internal/catalogclient"
	"github.com/luxelife/boutique/services/assistant/internal/tools"
)

// MinPresented is the smallest gallery shown when the catalog is large enough.
const MinPresented = 3

// DefaultTTL is how long an idle conversation is remembered.
const DefaultTTL = 30 * time.Minute

// Action is what a turn did.
type Action string

const (
	ActionSearch   Action = "search"
	ActionCheckout Action = "checkout"
)

// Tools is the tool surface the concierge drives.
type Tools interface {
	SearchCatalog(ctx context.Context, query string) tools.SearchResult
	StartCheckout(ctx context.Context, sku string) tools.CheckoutResult
}

// Turn is the concierge's answer to one message.
type Turn struct {
	ConversationID string                  `json:"conversation_id"`
	Action         Action                  `json:"action"`
	Reply          string                  `json:"reply"`
	Products       []catalogclient.Product `json:"products,omitempty"`
	Session        *catalogclient.Session  `json:"session,omitempty"`
	Failure        *tools.Failure          `json:"failure,omitempty"`
}

// conversation is what the concierge remembers between turns. mu
// serializes turns of the same conversation.
type conversation struct {
	mu        sync.Mutex
	lastSKU   string
	presented []string
}

// Concierge answers chat messages. It is safe for concurrent use.
type Concierge struct {
	tools  Tools
	memory *ttlcache.Cache[string, *conversation]
	logger *slog.Logger
}

// New creates a concierge. A non-positive ttl falls back to DefaultTTL.
func New(t Tools, ttl time.Duration, logger *slog.Logger) *Concierge {
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	return &Concierge{
		tools:  t,
		memory: ttlcache.New[string, *conversation](ttlcache.WithTTL[string, *conversation](ttl)),
		logger: logger,
	}
}

// Run evicts expired conversations until ctx is done. It blocks.
func (c *Concierge) Run(ctx context.Context) {
	go func() {
		<-ctx.Done()
		c.memory.Stop()
	}()
	c.memory.Start()
}

// Respond handles one message. An empty conversationID starts a new
// conversation.
func (c *Concierge) Respond(ctx context.Context, conversationID, message string) (Turn, error) {
	if conversationID == "" {
		conversationID = uuid.NewString()
	}
	ctx = logger.WithConversationID(ctx, conversationID)
	log := logger.WithContext(ctx, c.logger)

	item, _ := c.memory.GetOrSet(conversationID, &conversation{})
	conv := item.Value()
	conv.mu.Lock()
	defer conv.mu.Unlock()

	if sku := referencedSKU(message); sku != "" {
		conv.lastSKU = sku
	}

	var (
		turn Turn
		err  error
	)
	if isAffirmative(message) && conv.lastSKU != "" {
		turn = c.checkout(ctx, conv.lastSKU)
	} else {
		turn, err = c.present(ctx, message, conv)
		if err != nil {
			return Turn{}, err
		}
	}
	turn.ConversationID = conversationID

	// Re-setting the same pointer extends the conversation's lifetime.
	c.memory.Set(conversationID, conv, ttlcache.DefaultTTL)
	log.Info("concierge turn",
		slog.String("action", string(turn.Action)),
		slog.Int("products", len(turn.Products)),
		slog.String("last_sku", conv.lastSKU),
	)
	return turn, nil
}

func (c *Concierge) checkout(ctx context.Context, sku string) Turn {
	res := c.tools.StartCheckout(ctx, sku)
	turn := Turn{Action: ActionCheckout, Session: res.Session, Failure: res.Failure}
	if res.Failure != nil {
		turn.Reply = fmt.Sprintf("The order for %s could not be placed just now (%s). Say yes again in a moment to retry.",
			sku, res.Failure.Message)
		return turn
	}
	turn.Reply = fmt.Sprintf("Your purchase session %s for %s is %s.",
		res.Session.SessionID, res.Session.SKU, res.Session.Status)
	return turn
}

// present searches for the message's content words, pads the result to
// MinPresented items and renders the gallery.
func (c *Concierge) present(ctx context.Context, message string, state *conversation) (Turn, error) {
	res := c.search(ctx, message, state.lastSKU)
	if res.Failure != nil {
		return Turn{
			Action:  ActionSearch,
			Failure: res.Failure,
			Reply:   "The collection is briefly out of reach (" + res.Failure.Message + "). Ask again in a moment and I will bring it to you.",
		}, nil
	}

	products := res.Products
	if len(products) < MinPresented && !res.Fallback {
		products = c.pad(ctx, products)
	}

	gallery, err := RenderGallery(products)
	if err != nil {
		return Turn{}, err
	}

	state.presented = make([]string, 0, len(products))
	for _, p := range products {
		state.presented = append(state.presented, p.SKU)
	}
	if referencedSKU(message) == "" && len(state.presented) > 0 {
		state.lastSKU = state.presented[0]
	}

	reply := gallery
	if len(products) > 0 {
		reply += fmt.Sprintf("\nWould you like to order one? Reply with its SKU, or say yes for %s.", state.lastSKU)
	}
	return Turn{Action: ActionSearch, Reply: reply, Products: products}, nil
}

// search runs search_catalog for each content word in turn and keeps the
// first result that matched without falling back. A message that names a SKU
// searches for that SKU.
func (c *Concierge) search(ctx context.Context, message, lastSKU string) tools.SearchResult {
	if sku := referencedSKU(message); sku != "" {
		return c.tools.SearchCatalog(ctx, sku)
	}

	terms := searchTerms(message)
	if len(terms) == 0 {
		return c.tools.SearchCatalog(ctx, "")
	}

	var res tools.SearchResult
	for _, term := range terms {
		res = c.tools.SearchCatalog(ctx, term)
		if res.Failure != nil || !res.Fallback {
			return res
		}
	}
	return res
}

// pad tops products up to MinPresented with other catalog items in catalog
// order.
func (c *Concierge) pad(ctx context.Context, products []catalogclient.Product) []catalogclient.Product {
	all := c.tools.SearchCatalog(ctx, "")
	if all.Failure != nil {
		return products
	}

	seen := make(map[string]bool, len(products))
	for _, p := range products {
		seen[p.SKU] = true
	}
	out := append([]catalogclient.Product(nil), products...)
	for _, p := range all.Products {
		if len(out) >= MinPresented {
			break
		}
		if !seen[p.SKU] {
			seen[p.SKU] = true
			out = append(out, p)
		}
	}
	return out
}
