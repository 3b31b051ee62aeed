package goquery

import (
	"github.com/PuerkitoBio/goquery"
	"golang.org/x/net/html"
)

// QA is a question paired with its answer.
type QA struct {
	Question string
	Answer   string
}

// Pairer pairs questions with answers inside a structured section.
type Pairer interface {
	// Name identifies the strategy in logs and tests.
	Name() string

	// Pair returns the pairs found in section, in document order.
	// An empty result means the strategy does not apply.
	Pair(section *goquery.Selection) []QA
}

var (
	_ Pairer = (*StructuralPairer)(nil)
	_ Pairer = (*DetailsPairer)(nil)
	_ Pairer = (*GenericPairer)(nil)
)

// StructuralPairer pairs questions with answers through a known item
// container: each question is bound to the first answer inside its closest
// enclosing item.
type StructuralPairer struct {
	name     string
	question string
	item     string
	answer   string
}

// NewStructuralPairer creates a StructuralPairer from CSS selectors for the
// question, the enclosing item and the answer.
func NewStructuralPairer(name, question, item, answer string) *StructuralPairer {
	return &StructuralPairer{name: name, question: question, item: item, answer: answer}
}

// Name returns the pairer's identifier.
func (p *StructuralPairer) Name() string {
	return p.name
}

// Pair returns one pair per question that has an enclosing item with a
// non-empty answer.
func (p *StructuralPairer) Pair(section *goquery.Selection) []QA {
	var pairs []QA
	section.Find(p.question).Each(func(_ int, q *goquery.Selection) {
		item := q.Closest(p.item)
		if item.Length() == 0 {
			return
		}
		answer := item.Find(p.answer).First()
		if answer.Length() == 0 {
			return
		}
		qa := QA{Question: flatText(q), Answer: flatText(answer)}
		if qa.Question != "" && qa.Answer != "" {
			pairs = append(pairs, qa)
		}
	})
	return pairs
}

// UAGBPairer pairs the FAQ block of the Spectra (UAGB) WordPress plugin.
func UAGBPairer() *StructuralPairer {
	return NewStructuralPairer("uagb", ".uagb-question", "[class*='uagb-faq-item']", ".uagb-faq-content")
}

// BootstrapPairer pairs Bootstrap accordions.
func BootstrapPairer() *StructuralPairer {
	return NewStructuralPairer("bootstrap", ".accordion-header", ".accordion-item", ".accordion-body")
}

// SchemaOrgPairer pairs schema.org Question microdata.
func SchemaOrgPairer() *StructuralPairer {
	return NewStructuralPairer("schema.org",
		"[itemprop='name']",
		"[itemtype*='schema.org/Question']",
		"[itemprop='acceptedAnswer']",
	)
}

// DetailsPairer pairs <details> disclosure widgets: the <summary> is the
// question and the remaining content the answer.
type DetailsPairer struct{}

// NewDetailsPairer creates a DetailsPairer.
func NewDetailsPairer() *DetailsPairer {
	return &DetailsPairer{}
}

// Name returns the pairer's identifier.
func (p *DetailsPairer) Name() string {
	return "details"
}

// Pair returns one pair per <details> element with a summary and content.
func (p *DetailsPairer) Pair(section *goquery.Selection) []QA {
	var pairs []QA
	section.Find("details").Each(func(_ int, d *goquery.Selection) {
		summary := d.ChildrenFiltered("summary").First()
		if summary.Length() == 0 {
			return
		}
		qa := QA{
			Question: flatText(summary),
			Answer:   flatText(d.Contents().NotSelection(summary)),
		}
		if qa.Question != "" && qa.Answer != "" {
			pairs = append(pairs, qa)
		}
	})
	return pairs
}

// GenericPairer pairs question-like elements with the nearest following
// answer-like element.
//
// Question-like elements are <dt>, <summary>, role=tab and anything whose
// class mentions question, header, title or summary. Answer-like elements
// are <dd>, role=tabpanel and anything whose class mentions answer, content,
// panel or body. A following sibling is preferred; otherwise the first
// answer-like element after the question in the section is used.
type GenericPairer struct{}

// NewGenericPairer creates a GenericPairer.
func NewGenericPairer() *GenericPairer {
	return &GenericPairer{}
}

// Name returns the pairer's identifier.
func (p *GenericPairer) Name() string {
	return "generic"
}

// Pair returns the pairs found by the question and answer heuristics.
func (p *GenericPairer) Pair(section *goquery.Selection) []QA {
	all := section.Find("*")

	var pairs []QA
	all.Each(func(_ int, q *goquery.Selection) {
		if !isQuestionLike(q) {
			return
		}
		// Headers inside a question header would pair the same answer twice.
		if q.ParentsUntilSelection(section).FilterFunction(func(_ int, s *goquery.Selection) bool {
			return isQuestionLike(s)
		}).Length() > 0 {
			return
		}
		question := flatText(q)
		if question == "" {
			return
		}
		answer := q.NextAll().FilterFunction(func(_ int, s *goquery.Selection) bool {
			return isAnswerLike(s)
		}).First()
		if answer.Length() == 0 {
			answer = answerAfter(all, q)
		}
		if answer == nil || answer.Length() == 0 {
			return
		}
		if text := flatText(answer); text != "" {
			pairs = append(pairs, QA{Question: question, Answer: text})
		}
	})
	return pairs
}

// answerAfter returns the first answer-like element of all that follows q
// in document order and is not inside q.
func answerAfter(all, q *goquery.Selection) *goquery.Selection {
	qNode := q.Get(0)
	passed := false
	for i, n := range all.Nodes {
		if n == qNode {
			passed = true
			continue
		}
		if !passed || isDescendant(n, qNode) {
			continue
		}
		if s := all.Eq(i); isAnswerLike(s) {
			return s
		}
	}
	return nil
}

func isDescendant(n, ancestor *html.Node) bool {
	for p := n.Parent; p != nil; p = p.Parent {
		if p == ancestor {
			return true
		}
	}
	return false
}

func isQuestionLike(s *goquery.Selection) bool {
	return s.Is("dt, summary") ||
		hasRole(s, "tab") ||
		classContains(s, "question", "header", "title", "summary")
}

func isAnswerLike(s *goquery.Selection) bool {
	return s.Is("dd") ||
		hasRole(s, "tabpanel") ||
		classContains(s, "answer", "content", "panel", "body")
}

// DefaultPairers returns the pairers tried by a new Extractor, in priority
// order. The first pairer returning pairs for a section wins.
func DefaultPairers() []Pairer {
	return []Pairer{
		UAGBPairer(),
		BootstrapPairer(),
		SchemaOrgPairer(),
		NewDetailsPairer(),
		NewGenericPairer(),
	}
}
