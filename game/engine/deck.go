package engine

import "fmt"

// DeckKind names one of the two event decks
type DeckKind string

const (
	DeckChance DeckKind = "chance"
	DeckFate   DeckKind = "fate"
)

// Action tags the effect of a non-money card
type Action string

const (
	ActionNone        Action = ""
	ActionMoveToStart Action = "move_to_start"
	ActionFreeTravel  Action = "free_travel"
	ActionSwapPos     Action = "swap_position"
	ActionSwapProp    Action = "swap_property"
	ActionCollectRent Action = "collect_rent"
	ActionUpgradeAll  Action = "upgrade_all"
	ActionTeleport    Action = "teleport"
	ActionFreeRent    Action = "free_rent"
)

// EventCard is a single Chance or Fate card.
// Money cards have no Action and a nonzero Amount; CollectRent uses Amount as the toll.
type EventCard struct {
	ID     string   `json:"id"`
	Deck   DeckKind `json:"deck"`
	Text   string   `json:"text"`
	Amount int      `json:"amount,omitempty"`
	Action Action   `json:"action,omitempty"`
}

// IsMoney reports whether the card is a plain cash delta
func (c EventCard) IsMoney() bool {
	return c.Action == ActionNone
}

// Label is the card face shown to players
func (c EventCard) Label() string {
	if c.IsMoney() {
		return fmt.Sprintf("%s%d元", c.Text, abs(c.Amount))
	}
	return c.Text
}

// Deck is an immutable pool of cards
type Deck struct {
	kind  DeckKind
	cards []EventCard
}

// NewDeck creates a deck, assigning ids of the form "<kind>-<n>"
func NewDeck(kind DeckKind, cards []EventCard) *Deck {
	d := &Deck{kind: kind, cards: make([]EventCard, len(cards))}
	for i, c := range cards {
		c.Deck = kind
		if c.ID == "" {
			c.ID = fmt.Sprintf("%s-%d", kind, i+1)
		}
		d.cards[i] = c
	}
	return d
}

// ChanceDeck returns the eight-card Chance deck
func ChanceDeck() *Deck {
	return NewDeck(DeckChance, []EventCard{
		{Text: "股票大涨，获得", Amount: 2000},
		{Text: "中了彩票，获得", Amount: 5000},
		{Text: "收到意外保险赔付，获得", Amount: 3000},
		{Text: "路上捡到钱包，获得", Amount: 1000},
		{Text: "遭遇小偷，损失", Amount: -1000},
		{Text: "手机摔坏维修，支付", Amount: -500},
		{Text: "前往起点", Action: ActionMoveToStart},
		{Text: "免费环游一周", Action: ActionFreeTravel},
	})
}

// FateDeck returns the six-card Fate deck
func FateDeck() *Deck {
	return NewDeck(DeckFate, []EventCard{
		{Text: "与其他玩家交换位置", Action: ActionSwapPos},
		{Text: "与其他玩家交换一处地产", Action: ActionSwapProp},
		{Text: "收取其他玩家过路费", Action: ActionCollectRent, Amount: 1000},
		{Text: "所有地产升级一级", Action: ActionUpgradeAll},
		{Text: "随机传送", Action: ActionTeleport},
		{Text: "获得一次免租机会", Action: ActionFreeRent},
	})
}

// Kind returns the deck kind
func (d *Deck) Kind() DeckKind {
	return d.kind
}

// Len returns the number of cards
func (d *Deck) Len() int {
	return len(d.cards)
}

// Cards returns a copy of the deck contents
func (d *Deck) Cards() []EventCard {
	out := make([]EventCard, len(d.cards))
	copy(out, d.cards)
	return out
}

// Draw returns n distinct cards sampled without replacement.
// It shuffles a working copy, so the deck itself never changes.
func (d *Deck) Draw(src Source, n int) []EventCard {
	if n > len(d.cards) {
		n = len(d.cards)
	}
	if n <= 0 {
		return []EventCard{}
	}

	work := d.Cards()
	for i := len(work) - 1; i > 0; i-- {
		j := src.Intn(i + 1)
		work[i], work[j] = work[j], work[i]
	}
	return work[:n]
}
