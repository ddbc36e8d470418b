package bank

// Deck is the read-only card pool for a subject.
type Deck struct {
	cards []Card
	index map[string]int
}

func NewDeck(cards []Card) *Deck {
	d := &Deck{
		cards: append([]Card(nil), cards...),
		index: make(map[string]int, len(cards)),
	}
	for i, c := range d.cards {
		d.index[c.ID] = i
	}
	return d
}

func (d *Deck) Len() int { return len(d.cards) }

func (d *Deck) At(i int) Card { return d.cards[i] }

// All returns a copy of every card in bank order.
func (d *Deck) All() []Card {
	return append([]Card(nil), d.cards...)
}

func (d *Deck) IDs() []string {
	ids := make([]string, len(d.cards))
	for i, c := range d.cards {
		ids[i] = c.ID
	}
	return ids
}

func (d *Deck) Contains(id string) bool {
	_, ok := d.index[id]
	return ok
}

func (d *Deck) Get(id string) (Card, bool) {
	i, ok := d.index[id]
	if !ok {
		return Card{}, false
	}
	return d.cards[i], true
}

// QuestionBank is the read-only question pool for a subject.
type QuestionBank struct {
	questions []Question
}

func NewQuestionBank(qs []Question) *QuestionBank {
	return &QuestionBank{questions: append([]Question(nil), qs...)}
}

func (b *QuestionBank) Len() int { return len(b.questions) }

func (b *QuestionBank) At(i int) Question { return b.questions[i] }

func (b *QuestionBank) All() []Question {
	return append([]Question(nil), b.questions...)
}

// ByType returns the questions of type t. An empty t matches every question.
func (b *QuestionBank) ByType(t QuestionType) []Question {
	if t == "" {
		return b.All()
	}
	var out []Question
	for _, q := range b.questions {
		if q.Type == t {
			out = append(out, q)
		}
	}
	return out
}

// Bank is a loaded subject: a card deck and a question pool.
type Bank struct {
	Subject   string
	Title     string
	Deck      *Deck
	Questions *QuestionBank
}
