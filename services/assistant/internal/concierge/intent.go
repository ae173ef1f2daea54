package concierge

import (
	"regexp"
	"strings"
	"unicode"
)

// skuPattern finds SKU-shaped tokens such as LUXE-DRESS-05.
var skuPattern = regexp.MustCompile(`\b[A-Z][A-Z0-9]*(?:-[A-Z0-9]+)+\b`)

// affirmativePrefixes start a message that accepts the last offer.
var affirmativePrefixes = []string{
	"yes", "yeah", "yep", "yup", "sure", "absolutely", "definitely",
	"buy it", "buy that", "buy this", "buy now",
	"i want that", "i want it", "i want this",
	"i'll take it", "i will take it", "take it", "i'll have it",
	"order it", "order that", "order this",
	"purchase it", "checkout", "check out", "let's do it", "go ahead",
}

// affirmativeWords are exact one-word replies.
var affirmativeWords = map[string]bool{
	"y": true, "ok": true, "okay": true, "buy": true, "purchase": true, "order": true,
}

// purchaseVerbs turn a message naming a SKU into an order.
var purchaseVerbs = []string{"buy", "order", "purchase", "checkout", "take"}

var stopwords = map[string]bool{
	"a": true, "about": true, "an": true, "and": true, "any": true, "are": true,
	"can": true, "could": true, "do": true, "for": true, "get": true, "have": true,
	"help": true, "i": true, "i'm": true, "in": true, "is": true, "it": true,
	"like": true, "looking": true, "me": true, "my": true, "need": true, "of": true,
	"on": true, "or": true, "please": true, "recommend": true, "show": true,
	"some": true, "something": true, "suggest": true, "that": true, "the": true,
	"to": true, "wear": true, "what": true, "with": true, "would": true, "you": true,
	"want": true, "find": true, "good": true, "nice": true, "your": true, "got": true, "this": true, "these": true, "those": true,
	"there": true, "was": true, "has": true, "its": true,
}

// maxSearchTerms bounds the searches made for one turn.
const maxSearchTerms = 3

// normalize lower-cases msg and collapses punctuation other than apostrophes
// and hyphens into single spaces.
func normalize(msg string) string {
	var b strings.Builder
	for _, r := range strings.ToLower(msg) {
		if unicode.IsLetter(r) || unicode.IsDigit(r) || r == '\'' || r == '-' || r == '’' {
			if r == '’' {
				r = '\''
			}
			b.WriteRune(r)
			continue
		}
		b.WriteRune(' ')
	}
	return strings.Join(strings.Fields(b.String()), " ")
}

// referencedSKU returns the last SKU-shaped token in msg.
func referencedSKU(msg string) string {
	found := skuPattern.FindAllString(msg, -1)
	if len(found) == 0 {
		return ""
	}
	return found[len(found)-1]
}

// acceptFiller may surround an acceptance without turning it into a new
// request: "yes please", "I want that one", "buy it now, thanks".
var acceptFiller = map[string]bool{
	"please": true, "thanks": true, "thank": true, "you": true, "now": true,
	"it": true, "that": true, "this": true, "one": true, "then": true,
	"right": true, "away": true, "ok": true, "okay": true, "yes": true,
	"sure": true, "go": true, "ahead": true, "and": true, "i": true,
	"i'll": true, "will": true, "do": true, "the": true, "for": true, "me": true,
}

// isAffirmative reports whether msg accepts the last offer and asks for
// nothing else. Words left over after the acceptance, other than filler and
// named SKUs, make the message a new request.
func isAffirmative(msg string) bool {
	norm := normalize(msg)
	if norm == "" {
		return false
	}
	skus := make(map[string]bool)
	for _, sku := range skuPattern.FindAllString(msg, -1) {
		skus[strings.ToLower(sku)] = true
	}
	onlyFiller := func(words []string) bool {
		for _, w := range words {
			if !acceptFiller[w] && !skus[w] && !isPurchaseVerb(w) {
				return false
			}
		}
		return true
	}

	if affirmativeWords[norm] {
		return true
	}
	for _, p := range affirmativePrefixes {
		if norm == p {
			return true
		}
		if rest, ok := strings.CutPrefix(norm, p+" "); ok && onlyFiller(strings.Fields(rest)) {
			return true
		}
	}

	if len(skus) == 0 {
		return false
	}
	words := strings.Fields(norm)
	for _, w := range words {
		if isPurchaseVerb(w) {
			return onlyFiller(words)
		}
	}
	return false
}

func isPurchaseVerb(w string) bool {
	for _, v := range purchaseVerbs {
		if w == v {
			return true
		}
	}
	return false
}

// searchTerms extracts up to maxSearchTerms content words from msg.
func searchTerms(msg string) []string {
	var terms []string
	for _, w := range strings.Fields(normalize(msg)) {
		w = strings.Trim(w, "'-")
		if w == "" || stopwords[w] {
			continue
		}
		terms = append(terms, singular(w))
		if len(terms) == maxSearchTerms {
			break
		}
	}
	return terms
}

// singular strips a regular English plural ending so "dresses" finds "dress".
func singular(w string) string {
	switch {
	case len(w) > 4 && (strings.HasSuffix(w, "sses") || strings.HasSuffix(w, "shes") ||
		strings.HasSuffix(w, "ches") || strings.HasSuffix(w, "xes")):
		return w[:len(w)-2]
	case len(w) > 3 && strings.HasSuffix(w, "s") && !strings.HasSuffix(w, "ss"):
		return w[:len(w)-1]
	}
	return w
}
