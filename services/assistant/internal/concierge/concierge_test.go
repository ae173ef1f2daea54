package concierge

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/luxelife/boutique/pkg/logger"
	"github.com/luxelife/boutique/services/assistant/internal/catalogclient"
	"github.com/luxelife/boutique/services/assistant/internal/tools"
)

var boutique = []catalogclient.Product{
	{Name: "Signature Piqué Polo", SKU: "LUXE-POLO-001", Price: 95, Description: "Breathable cotton piqué.", ImageURL: "https://img.example/polo.jpg"},
	{Name: "Italian Wool Suit", SKU: "LUXE-SUIT-99", Price: 1200, Description: "Sharp charcoal wool.", ImageURL: "https://img.example/suit.jpg"},
	{Name: "Silk Midi Dress", SKU: "LUXE-DRESS-05", Price: 450, Description: "Elegant emerald silk.", ImageURL: "https://img.example/dress.jpg"},
	{Name: "Cashmere V-Neck", SKU: "LUXE-CASH-10", Price: 300, Description: "Ultra-soft Mongolian cashmere.", ImageURL: "https://img.example/cash.jpg"},
}

type fakeCatalog struct {
	mu       sync.Mutex
	products []catalogclient.Product
	err      error
	lists    int
	sessions []string
}

func (f *fakeCatalog) ListProducts(ctx context.Context) ([]catalogclient.Product, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.lists++
	if f.err != nil {
		return nil, f.err
	}
	return f.products, nil
}

func (f *fakeCatalog) CreateSession(ctx context.Context, sku string) (*catalogclient.Session, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.err != nil {
		return nil, f.err
	}
	f.sessions = append(f.sessions, sku)
	return &catalogclient.Session{SessionID: "sess_12345", Status: "active", SKU: sku}, nil
}

func newConcierge(cat *fakeCatalog) *Concierge {
	return New(tools.NewToolset(cat, logger.Discard()), time.Minute, logger.Discard())
}

func presented(turn Turn) []string {
	out := make([]string, 0, len(turn.Products))
	for _, p := range turn.Products {
		out = append(out, p.SKU)
	}
	return out
}

func TestRespond_SearchPadsToThree(t *testing.T) {
	c := newConcierge(&fakeCatalog{products: boutique})

	turn, err := c.Respond(context.Background(), "", "Could you show me a dress for a gala?")
	require.NoError(t, err)

	assert.Equal(t, ActionSearch, turn.Action)
	assert.NotEmpty(t, turn.ConversationID)
	assert.Equal(t, []string{"LUXE-DRESS-05", "LUXE-POLO-001", "LUXE-SUIT-99"}, presented(turn))
	for _, sku := range presented(turn) {
		assert.Contains(t, turn.Reply, sku)
	}
	assert.Contains(t, turn.Reply, "$450 | LUXE-DRESS-05")
}

func TestRespond_SmallCatalogIsNotPadded(t *testing.T) {
	c := newConcierge(&fakeCatalog{products: boutique[2:3]})

	turn, err := c.Respond(context.Background(), "", "dress")
	require.NoError(t, err)

	assert.Equal(t, []string{"LUXE-DRESS-05"}, presented(turn))
}

func TestRespond_NoMatchPresentsFallbackWithoutApology(t *testing.T) {
	c := newConcierge(&fakeCatalog{products: boutique})

	turn, err := c.Respond(context.Background(), "", "something for my yacht")
	require.NoError(t, err)

	assert.Len(t, turn.Products, 4)
	reply := turn.Reply
	for _, word := range []string{"sorry", "apolog", "unfortunately", "regret"} {
		assert.NotContains(t, reply, word)
	}
}

func TestRespond_PluralQuery(t *testing.T) {
	c := newConcierge(&fakeCatalog{products: boutique})

	turn, err := c.Respond(context.Background(), "", "suits please")
	require.NoError(t, err)

	assert.Equal(t, "LUXE-SUIT-99", presented(turn)[0])
}

func TestRespond_AffirmativeChecksOutFirstPresented(t *testing.T) {
	cat := &fakeCatalog{products: boutique}
	c := newConcierge(cat)
	ctx := context.Background()

	first, err := c.Respond(ctx, "conv-1", "any cashmere?")
	require.NoError(t, err)
	assert.Equal(t, "LUXE-CASH-10", presented(first)[0])

	turn, err := c.Respond(ctx, "conv-1", "Yes!")
	require.NoError(t, err)

	assert.Equal(t, ActionCheckout, turn.Action)
	assert.Equal(t, "conv-1", turn.ConversationID)
	require.NotNil(t, turn.Session)
	assert.Equal(t, "LUXE-CASH-10", turn.Session.SKU)
	assert.Equal(t, []string{"LUXE-CASH-10"}, cat.sessions)
	assert.Contains(t, turn.Reply, "sess_12345")
}

func TestRespond_ExplicitSKUWins(t *testing.T) {
	cat := &fakeCatalog{products: boutique}
	c := newConcierge(cat)
	ctx := context.Background()

	_, err := c.Respond(ctx, "conv-2", "show me wool")
	require.NoError(t, err)

	turn, err := c.Respond(ctx, "conv-2", "I'll take it, LUXE-DRESS-05")
	require.NoError(t, err)

	assert.Equal(t, ActionCheckout, turn.Action)
	assert.Equal(t, []string{"LUXE-DRESS-05"}, cat.sessions)
}

func TestRespond_SKUMentionThenYes(t *testing.T) {
	cat := &fakeCatalog{products: boutique}
	c := newConcierge(cat)
	ctx := context.Background()

	_, err := c.Respond(ctx, "conv-3", "show me everything")
	require.NoError(t, err)
	mention, err := c.Respond(ctx, "conv-3", "tell me more about LUXE-SUIT-99")
	require.NoError(t, err)
	assert.Equal(t, ActionSearch, mention.Action)
	assert.Equal(t, "LUXE-SUIT-99", presented(mention)[0])

	turn, err := c.Respond(ctx, "conv-3", "buy")
	require.NoError(t, err)

	assert.Equal(t, ActionCheckout, turn.Action)
	assert.Equal(t, []string{"LUXE-SUIT-99"}, cat.sessions)
}

func TestRespond_AffirmativeWithoutReferenceSearches(t *testing.T) {
	cat := &fakeCatalog{products: boutique}
	c := newConcierge(cat)

	turn, err := c.Respond(context.Background(), "", "yes")
	require.NoError(t, err)

	assert.Equal(t, ActionSearch, turn.Action)
	assert.Len(t, turn.Products, 4)
	assert.Empty(t, cat.sessions)
}

func TestRespond_ConversationsAreIndependent(t *testing.T) {
	cat := &fakeCatalog{products: boutique}
	c := newConcierge(cat)
	ctx := context.Background()

	_, err := c.Respond(ctx, "a", "dress")
	require.NoError(t, err)

	turn, err := c.Respond(ctx, "b", "yes")
	require.NoError(t, err)

	assert.Equal(t, ActionSearch, turn.Action)
	assert.Empty(t, cat.sessions)
}

func TestRespond_AgreementWithNewRequestSearches(t *testing.T) {
	cat := &fakeCatalog{products: boutique}
	c := newConcierge(cat)
	ctx := context.Background()

	first, err := c.Respond(ctx, "conv-4", "dress")
	require.NoError(t, err)
	require.Equal(t, "LUXE-DRESS-05", presented(first)[0])

	turn, err := c.Respond(ctx, "conv-4", "yes please show me suits")
	require.NoError(t, err)

	assert.Equal(t, ActionSearch, turn.Action)
	assert.Equal(t, "LUXE-SUIT-99", presented(turn)[0])
	assert.Empty(t, cat.sessions)

	turn, err = c.Respond(ctx, "conv-4", "yes")
	require.NoError(t, err)
	assert.Equal(t, ActionCheckout, turn.Action)
	assert.Equal(t, []string{"LUXE-SUIT-99"}, cat.sessions)
}

// gatedCatalog holds its first ListProducts call until gate is closed.
type gatedCatalog struct {
	*fakeCatalog
	once    sync.Once
	entered chan struct{}
	gate    chan struct{}
}

func (g *gatedCatalog) ListProducts(ctx context.Context) ([]catalogclient.Product, error) {
	g.once.Do(func() {
		close(g.entered)
		<-g.gate
	})
	return g.fakeCatalog.ListProducts(ctx)
}

func TestRespond_ConcurrentTurnsSeeEachOther(t *testing.T) {
	cat := &gatedCatalog{
		fakeCatalog: &fakeCatalog{products: boutique},
		entered:     make(chan struct{}),
		gate:        make(chan struct{}),
	}
	c := New(tools.NewToolset(cat, logger.Discard()), time.Minute, logger.Discard())
	ctx := context.Background()

	searched := make(chan Turn, 1)
	go func() {
		turn, _ := c.Respond(ctx, "conv-5", "show me wool")
		searched <- turn
	}()
	<-cat.entered

	accepted := make(chan Turn, 1)
	go func() {
		turn, _ := c.Respond(ctx, "conv-5", "yes")
		accepted <- turn
	}()
	// Let the second turn reach the conversation before the search completes.
	time.Sleep(20 * time.Millisecond)
	close(cat.gate)

	first := <-searched
	assert.Equal(t, "LUXE-SUIT-99", presented(first)[0])

	second := <-accepted
	assert.Equal(t, ActionCheckout, second.Action)
	require.NotNil(t, second.Session)
	assert.Equal(t, "LUXE-SUIT-99", second.Session.SKU)
}

func TestRespond_CatalogDown(t *testing.T) {
	cat := &fakeCatalog{err: &catalogclient.Error{Kind: catalogclient.KindUnreachable, Op: "list products", Err: errors.New("connection refused")}}
	c := newConcierge(cat)

	turn, err := c.Respond(context.Background(), "", "dress")
	require.NoError(t, err)

	require.NotNil(t, turn.Failure)
	assert.Equal(t, catalogclient.KindUnreachable, turn.Failure.Kind)
	assert.Empty(t, turn.Products)
	assert.Contains(t, turn.Reply, "Could not connect to catalog: ")
	assert.NotContains(t, turn.Reply, "sorry")
}

func TestRespond_CheckoutDown(t *testing.T) {
	cat := &fakeCatalog{products: boutique}
	c := newConcierge(cat)
	ctx := context.Background()

	_, err := c.Respond(ctx, "conv-4", "dress")
	require.NoError(t, err)
	cat.err = errors.New("connection refused")

	turn, err := c.Respond(ctx, "conv-4", "yes")
	require.NoError(t, err)

	assert.Equal(t, ActionCheckout, turn.Action)
	require.NotNil(t, turn.Failure)
	assert.Contains(t, turn.Reply, "Checkout failed: connection refused")
}

func TestRespond_ConversationExpires(t *testing.T) {
	cat := &fakeCatalog{products: boutique}
	c := New(tools.NewToolset(cat, logger.Discard()), 20*time.Millisecond, logger.Discard())
	ctx := context.Background()

	_, err := c.Respond(ctx, "conv-5", "dress")
	require.NoError(t, err)
	time.Sleep(50 * time.Millisecond)

	turn, err := c.Respond(ctx, "conv-5", "yes")
	require.NoError(t, err)

	assert.Equal(t, ActionSearch, turn.Action)
	assert.Empty(t, cat.sessions)
}

func TestRun_StopsOnCancel(t *testing.T) {
	c := newConcierge(&fakeCatalog{products: boutique})
	ctx, cancel := context.WithCancel(context.Background())

	done := make(chan struct{})
	go func() {
		c.Run(ctx)
		close(done)
	}()
	cancel()

	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("Run did not return after cancel")
	}
}
